package oidc

import (
	"net/url"
)

// AuthorizationRequestBuilder accumulates and validates the fields of
// an AuthorizationRequest. Every setter checks its input before
// mutating, so a failed call leaves the previous value in place.
//
// A builder is owned by a single caller; it is not safe for concurrent
// use. The requests it builds are.
type AuthorizationRequestBuilder struct {
	configuration *ServiceConfiguration
	clientID      string
	responseType  ResponseType
	redirectURI   string

	display      Display
	prompt       SpaceDelimitedArray
	scope        SpaceDelimitedArray
	state        string
	responseMode ResponseMode

	codeVerifier                string
	codeVerifierChallenge       string
	codeVerifierChallengeMethod CodeChallengeMethod

	additionalParameters map[string]string
}

// NewAuthorizationRequestBuilder creates a builder with the mandatory
// request fields. The `state` parameter and the PKCE triple are eagerly
// populated with fresh random values; both can be overridden or cleared
// afterwards.
func NewAuthorizationRequestBuilder(configuration *ServiceConfiguration, clientID string, responseType ResponseType, redirectURI string) (*AuthorizationRequestBuilder, error) {
	b := new(AuthorizationRequestBuilder)
	if err := b.SetConfiguration(configuration); err != nil {
		return nil, err
	}
	if err := b.SetClientID(clientID); err != nil {
		return nil, err
	}
	if err := b.SetResponseType(responseType); err != nil {
		return nil, err
	}
	if err := b.SetRedirectURI(redirectURI); err != nil {
		return nil, err
	}
	state, err := GenerateState()
	if err != nil {
		return nil, err
	}
	if err = b.SetState(state); err != nil {
		return nil, err
	}
	verifier, err := GenerateCodeVerifier()
	if err != nil {
		return nil, err
	}
	if err = b.SetCodeVerifier(verifier); err != nil {
		return nil, err
	}
	return b, nil
}

// SetConfiguration replaces the authorization service configuration.
func (b *AuthorizationRequestBuilder) SetConfiguration(configuration *ServiceConfiguration) error {
	if configuration == nil {
		return ErrInvalidArgument().WithField("configuration").
			WithDescription("configuration cannot be nil")
	}
	b.configuration = configuration
	return nil
}

// SetClientID sets the client identifier. It cannot be empty.
func (b *AuthorizationRequestBuilder) SetClientID(clientID string) error {
	if clientID == "" {
		return ErrInvalidArgument().WithField("clientId").
			WithDescription("client ID cannot be empty")
	}
	b.clientID = clientID
	return nil
}

// SetResponseType sets the expected response type. It cannot be empty.
func (b *AuthorizationRequestBuilder) SetResponseType(responseType ResponseType) error {
	if responseType == "" {
		return ErrInvalidArgument().WithField("responseType").
			WithDescription("response type cannot be empty")
	}
	b.responseType = responseType
	return nil
}

// SetRedirectURI sets the client's redirect URI. It must be an
// absolute URI; custom schemes without a host, as used by native
// clients, are accepted.
func (b *AuthorizationRequestBuilder) SetRedirectURI(redirectURI string) error {
	if redirectURI == "" {
		return ErrInvalidArgument().WithField("redirectUri").
			WithDescription("redirect URI cannot be empty")
	}
	u, err := url.Parse(redirectURI)
	if err != nil {
		return ErrInvalidArgument().WithField("redirectUri").WithParent(err).
			WithDescription("redirect URI is not a valid URI")
	}
	if !u.IsAbs() {
		return ErrInvalidArgument().WithField("redirectUri").
			WithDescription("redirect URI must be absolute")
	}
	b.redirectURI = redirectURI
	return nil
}

// SetDisplay sets the OpenID Connect 1.0 `display` parameter. It
// cannot be empty; use ClearDisplay to unset it.
func (b *AuthorizationRequestBuilder) SetDisplay(display Display) error {
	if display == "" {
		return ErrInvalidArgument().WithField("display").
			WithDescription("display cannot be empty")
	}
	b.display = display
	return nil
}

// ClearDisplay unsets the `display` parameter.
func (b *AuthorizationRequestBuilder) ClearDisplay() {
	b.display = ""
}

// SetPrompt sets the pre-joined, space delimited `prompt` parameter,
// replacing any previously set prompt values. It cannot be empty; use
// SetPromptValues without arguments to unset it.
func (b *AuthorizationRequestBuilder) SetPrompt(prompt string) error {
	if prompt == "" {
		return ErrInvalidArgument().WithField("prompt").
			WithDescription("prompt cannot be empty")
	}
	tokens := splitTokens(prompt)
	if len(tokens) == 0 {
		return ErrInvalidArgument().WithField("prompt").
			WithDescription("prompt cannot consist of whitespace only")
	}
	values := make([]Prompt, len(tokens))
	for i, token := range tokens {
		values[i] = Prompt(token)
	}
	return b.SetPromptValues(values...)
}

// SetPromptValues sets the individual values of the `prompt`
// parameter, replacing any previously set ones. Calling it without
// arguments unsets the parameter.
func (b *AuthorizationRequestBuilder) SetPromptValues(values ...Prompt) error {
	if len(values) == 0 {
		b.prompt = nil
		return nil
	}
	prompt := make(SpaceDelimitedArray, len(values))
	for i, value := range values {
		prompt[i] = string(value)
	}
	if err := checkTokens(prompt, "prompt"); err != nil {
		return err
	}
	b.prompt = prompt
	return nil
}

// SetScope sets the pre-joined, space delimited `scope` parameter,
// replacing any previously set scopes. The string is re-split on one
// or more spaces; an empty string unsets the parameter.
func (b *AuthorizationRequestBuilder) SetScope(scope string) error {
	if scope == "" {
		b.scope = nil
		return nil
	}
	return b.SetScopes(splitTokens(scope)...)
}

// SetScopes sets the individual values of the `scope` parameter,
// replacing any previously set ones. Calling it without arguments
// unsets the parameter.
func (b *AuthorizationRequestBuilder) SetScopes(scopes ...string) error {
	if len(scopes) == 0 {
		b.scope = nil
		return nil
	}
	if err := checkTokens(scopes, "scope"); err != nil {
		return err
	}
	b.scope = append(SpaceDelimitedArray(nil), scopes...)
	return nil
}

// SetState sets the opaque `state` value echoed back by the server. It
// cannot be empty; use ClearState to opt out of the generated default.
func (b *AuthorizationRequestBuilder) SetState(state string) error {
	if state == "" {
		return ErrInvalidArgument().WithField("state").
			WithDescription("state cannot be empty")
	}
	b.state = state
	return nil
}

// ClearState unsets the `state` parameter, including the random value
// assigned at builder creation.
func (b *AuthorizationRequestBuilder) ClearState() {
	b.state = ""
}

// SetResponseMode sets the `response_mode` parameter. It cannot be
// empty; use ClearResponseMode to unset it.
func (b *AuthorizationRequestBuilder) SetResponseMode(responseMode ResponseMode) error {
	if responseMode == "" {
		return ErrInvalidArgument().WithField("responseMode").
			WithDescription("response mode cannot be empty")
	}
	b.responseMode = responseMode
	return nil
}

// ClearResponseMode unsets the `response_mode` parameter.
func (b *AuthorizationRequestBuilder) ClearResponseMode() {
	b.responseMode = ""
}

// SetCodeVerifier validates the verifier against RFC 7636 and sets the
// PKCE triple, deriving the challenge under the default S256 method.
// An empty verifier clears the triple, like ClearCodeVerifier.
func (b *AuthorizationRequestBuilder) SetCodeVerifier(codeVerifier string) error {
	if codeVerifier == "" {
		b.ClearCodeVerifier()
		return nil
	}
	if err := CheckCodeVerifier(codeVerifier); err != nil {
		return err
	}
	challenge, err := DeriveCodeChallenge(CodeChallengeMethodS256, codeVerifier)
	if err != nil {
		return err
	}
	b.codeVerifier = codeVerifier
	b.codeVerifierChallenge = challenge
	b.codeVerifierChallengeMethod = CodeChallengeMethodS256
	return nil
}

// SetCodeVerifierWithChallenge sets an explicit PKCE triple. With an
// empty verifier the challenge and method must be empty as well, which
// clears the triple; with a non-empty verifier all three values must
// be set, the method must name a supported derivation and the
// challenge must be the derivation of the verifier under it.
func (b *AuthorizationRequestBuilder) SetCodeVerifierWithChallenge(codeVerifier, challenge string, method CodeChallengeMethod) error {
	if codeVerifier == "" {
		if challenge != "" || method != "" {
			return ErrInvalidArgument().WithField("codeVerifier").
				WithDescription("code verifier challenge and method must be unset if the verifier is unset")
		}
		b.ClearCodeVerifier()
		return nil
	}
	if err := CheckCodeVerifier(codeVerifier); err != nil {
		return err
	}
	if challenge == "" {
		return ErrInvalidArgument().WithField("codeVerifierChallenge").
			WithDescription("code verifier challenge cannot be empty if the verifier is set")
	}
	if method == "" {
		return ErrInvalidArgument().WithField("codeVerifierChallengeMethod").
			WithDescription("code verifier challenge method cannot be empty if the verifier is set")
	}
	derived, err := DeriveCodeChallenge(method, codeVerifier)
	if err != nil {
		return err
	}
	if derived != challenge {
		return ErrInvalidArgument().WithField("codeVerifierChallenge").
			WithDescription("code verifier challenge is not the %s derivation of the verifier", method)
	}
	b.codeVerifier = codeVerifier
	b.codeVerifierChallenge = challenge
	b.codeVerifierChallengeMethod = method
	return nil
}

// ClearCodeVerifier clears the PKCE triple, disabling PKCE for this
// request. Intended for non-compliant servers which reject requests
// carrying PKCE parameters.
func (b *AuthorizationRequestBuilder) ClearCodeVerifier() {
	b.codeVerifier = ""
	b.codeVerifierChallenge = ""
	b.codeVerifierChallengeMethod = ""
}

// SetAdditionalParameters replaces the extension parameters with a
// copy of params. Keys and values cannot be empty and keys cannot
// collide with built-in parameter names; on any violation the whole
// map is rejected.
func (b *AuthorizationRequestBuilder) SetAdditionalParameters(params map[string]string) error {
	checked, err := checkAdditionalParams(params)
	if err != nil {
		return err
	}
	b.additionalParameters = checked
	return nil
}

// Build copies the current field values into a frozen
// AuthorizationRequest. The builder keeps its state and can be built
// again.
func (b *AuthorizationRequestBuilder) Build() *AuthorizationRequest {
	request := &AuthorizationRequest{
		Configuration:               b.configuration,
		ClientID:                    b.clientID,
		ResponseType:                b.responseType,
		RedirectURI:                 b.redirectURI,
		Display:                     b.display,
		State:                       b.state,
		ResponseMode:                b.responseMode,
		CodeVerifier:                b.codeVerifier,
		CodeVerifierChallenge:       b.codeVerifierChallenge,
		CodeVerifierChallengeMethod: b.codeVerifierChallengeMethod,
		AdditionalParameters:        make(map[string]string, len(b.additionalParameters)),
	}
	if len(b.prompt) > 0 {
		request.Prompt = append(SpaceDelimitedArray(nil), b.prompt...)
	}
	if len(b.scope) > 0 {
		request.Scope = append(SpaceDelimitedArray(nil), b.scope...)
	}
	for key, value := range b.additionalParameters {
		request.AdditionalParameters[key] = value
	}
	return request
}
