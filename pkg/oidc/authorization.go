package oidc

import (
	"log/slog"
	"net/url"
	"sort"
	"strings"
)

const (
	//ScopeOpenID defines the scope `openid`
	//OpenID Connect requests MUST contain the `openid` scope value
	ScopeOpenID = "openid"

	//ScopeProfile defines the scope `profile`
	//This (optional) scope value requests access to the End-User's default profile Claims.
	ScopeProfile = "profile"

	//ScopeEmail defines the scope `email`
	//This (optional) scope value requests access to the email and email_verified Claims.
	ScopeEmail = "email"

	//ScopeAddress defines the scope `address`
	//This (optional) scope value requests access to the address Claim.
	ScopeAddress = "address"

	//ScopePhone defines the scope `phone`
	//This (optional) scope value requests access to the phone_number and phone_number_verified Claims.
	ScopePhone = "phone"

	//ScopeOfflineAccess defines the scope `offline_access`
	//This (optional) scope value requests that an OAuth 2.0 Refresh Token be issued.
	ScopeOfflineAccess = "offline_access"

	//ResponseTypeCode for the Authorization Code Flow returning a code from the Authorization Server
	ResponseTypeCode ResponseType = "code"

	//ResponseTypeToken for the Implicit Flow returning an access token directly from the Authorization Server
	ResponseTypeToken ResponseType = "token"

	//ResponseModeQuery instructs the Authorization Server to return response parameters in the query portion of the redirect URI
	ResponseModeQuery ResponseMode = "query"

	//ResponseModeFragment instructs the Authorization Server to return response parameters in the fragment portion of the redirect URI
	ResponseModeFragment ResponseMode = "fragment"

	DisplayPage  Display = "page"
	DisplayPopup Display = "popup"
	DisplayTouch Display = "touch"
	DisplayWAP   Display = "wap"

	//PromptNone (`none`) disallows the Authorization Server to display any authentication or consent user interface pages.
	//An error (login_required, interaction_required, ...) will be returned if the user is not already authenticated or consent is needed
	PromptNone Prompt = "none"

	//PromptLogin (`login`) directs the Authorization Server to prompt the End-User for reauthentication.
	PromptLogin Prompt = "login"

	//PromptConsent (`consent`) directs the Authorization Server to prompt the End-User for consent (of sharing information).
	PromptConsent Prompt = "consent"

	//PromptSelectAccount (`select_account`) directs the Authorization Server to prompt the End-User to select a user account (to enable multi user / session switching)
	PromptSelectAccount Prompt = "select_account"
)

// AuthorizationRequest is an OAuth 2.0 / OpenID Connect 1.0
// authorization request according to
// https://tools.ietf.org/html/rfc6749#section-4.1.1 and
// https://openid.net/specs/openid-connect-core-1_0.html#AuthRequest.
//
// Values are created through an AuthorizationRequestBuilder or one of
// the Parse functions and are not modified afterwards, so a request can
// be shared freely between goroutines.
type AuthorizationRequest struct {
	// Configuration of the authorization service this request is
	// addressed to.
	Configuration *ServiceConfiguration `json:"configuration" schema:"-"`

	ClientID     string       `json:"clientId" schema:"client_id"`
	ResponseType ResponseType `json:"responseType" schema:"response_type"`
	RedirectURI  string       `json:"redirectUri" schema:"redirect_uri"`

	Display      Display             `json:"display,omitempty" schema:"display,omitempty"`
	Prompt       SpaceDelimitedArray `json:"prompt,omitempty" schema:"prompt,omitempty"`
	Scope        SpaceDelimitedArray `json:"scope,omitempty" schema:"scope,omitempty"`
	State        string              `json:"state,omitempty" schema:"state,omitempty"`
	ResponseMode ResponseMode        `json:"responseMode,omitempty" schema:"response_mode,omitempty"`

	// The PKCE triple: either all three are set and the challenge is
	// derived from the verifier under the method, or all three are
	// empty. The verifier never appears in the rendered URI; it is sent
	// at code exchange time.
	CodeVerifier                string              `json:"codeVerifier,omitempty" schema:"-"`
	CodeVerifierChallenge       string              `json:"codeVerifierChallenge,omitempty" schema:"code_challenge,omitempty"`
	CodeVerifierChallengeMethod CodeChallengeMethod `json:"codeVerifierChallengeMethod,omitempty" schema:"code_challenge_method,omitempty"`

	// AdditionalParameters are extension parameters appended to the
	// request URI. Keys never collide with the built-in parameter
	// names.
	AdditionalParameters map[string]string `json:"additionalParameters" schema:"-"`
}

// ScopeSet returns the individual scope values, or nil if no scope was
// set.
func (a *AuthorizationRequest) ScopeSet() []string {
	if len(a.Scope) == 0 {
		return nil
	}
	return []string(a.Scope)
}

// PromptValues returns the individual prompt values, or nil if no
// prompt was set.
func (a *AuthorizationRequest) PromptValues() []string {
	if len(a.Prompt) == 0 {
		return nil
	}
	return []string(a.Prompt)
}

// CodeChallenge returns the challenge and method of the PKCE triple,
// or nil if PKCE is disabled for this request.
func (a *AuthorizationRequest) CodeChallenge() *CodeChallenge {
	if a.CodeVerifier == "" {
		return nil
	}
	return &CodeChallenge{
		Challenge: a.CodeVerifierChallenge,
		Method:    a.CodeVerifierChallengeMethod,
	}
}

// AuthorizationURL renders the request into the URI it is dispatched
// with: the configured authorization endpoint plus one query parameter
// per present field. Parameters are written in a stable order
// (mandatory fields, optional fields, the code challenge pair,
// additional parameters by sorted key); servers must accept any order,
// the stable one exists for debugging and testability. Absent optional
// fields contribute no parameter.
func (a *AuthorizationRequest) AuthorizationURL() (string, error) {
	endpoint, err := url.Parse(a.Configuration.AuthorizationEndpoint)
	if err != nil {
		return "", ErrInvalidArgument().WithField("authorizationEndpoint").WithParent(err).
			WithDescription("authorization endpoint is not a valid URI")
	}
	var query strings.Builder
	query.WriteString(endpoint.RawQuery)
	appendParam := func(name, value string) {
		if query.Len() > 0 {
			query.WriteByte('&')
		}
		query.WriteString(url.QueryEscape(name))
		query.WriteByte('=')
		query.WriteString(url.QueryEscape(value))
	}
	appendParam(ParamRedirectURI, a.RedirectURI)
	appendParam(ParamClientID, a.ClientID)
	appendParam(ParamResponseType, string(a.ResponseType))
	if a.Display != "" {
		appendParam(ParamDisplay, string(a.Display))
	}
	if len(a.Prompt) > 0 {
		appendParam(ParamPrompt, a.Prompt.String())
	}
	if a.State != "" {
		appendParam(ParamState, a.State)
	}
	if len(a.Scope) > 0 {
		appendParam(ParamScope, a.Scope.String())
	}
	if a.ResponseMode != "" {
		appendParam(ParamResponseMode, string(a.ResponseMode))
	}
	if a.CodeVerifier != "" {
		appendParam(ParamCodeChallenge, a.CodeVerifierChallenge)
		appendParam(ParamCodeChallengeMethod, string(a.CodeVerifierChallengeMethod))
	}
	for _, key := range sortedKeys(a.AdditionalParameters) {
		appendParam(key, a.AdditionalParameters[key])
	}
	endpoint.RawQuery = query.String()
	return endpoint.String(), nil
}

// AuthValues returns the request's query parameters as url.Values,
// for callers composing the dispatch URI themselves.
func (a *AuthorizationRequest) AuthValues() (url.Values, error) {
	values := make(url.Values)
	if err := NewEncoder().Encode(a, values); err != nil {
		return nil, err
	}
	for key, value := range a.AdditionalParameters {
		values.Set(key, value)
	}
	return values, nil
}

func (a *AuthorizationRequest) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, 7)
	attrs = append(attrs,
		slog.String("client_id", a.ClientID),
		slog.String("response_type", string(a.ResponseType)),
		slog.String("redirect_uri", a.RedirectURI),
	)
	if len(a.Scope) > 0 {
		attrs = append(attrs, slog.Any("scope", a.Scope))
	}
	if a.State != "" {
		attrs = append(attrs, slog.String("state", a.State))
	}
	// the verifier is a secret; only the method is logged
	if a.CodeVerifier != "" {
		attrs = append(attrs, slog.String("code_challenge_method", string(a.CodeVerifierChallengeMethod)))
	}
	return slog.GroupValue(attrs...)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
