package oidc

import (
	"golang.org/x/oauth2"
)

// OAuth2Config maps the request onto a golang.org/x/oauth2 Config, for
// callers dispatching or exchanging through that package.
func (a *AuthorizationRequest) OAuth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:    a.ClientID,
		RedirectURL: a.RedirectURI,
		Scopes:      a.ScopeSet(),
		Endpoint: oauth2.Endpoint{
			AuthURL:  a.Configuration.AuthorizationEndpoint,
			TokenURL: a.Configuration.TokenEndpoint,
		},
	}
}

// AuthCodeOptions returns the parameters of the request which
// (*oauth2.Config).AuthCodeURL does not set on its own: display,
// prompt, response mode, the code challenge pair and the additional
// parameters.
func (a *AuthorizationRequest) AuthCodeOptions() []oauth2.AuthCodeOption {
	opts := make([]oauth2.AuthCodeOption, 0, 5+len(a.AdditionalParameters))
	if a.Display != "" {
		opts = append(opts, oauth2.SetAuthURLParam(ParamDisplay, string(a.Display)))
	}
	if len(a.Prompt) > 0 {
		opts = append(opts, oauth2.SetAuthURLParam(ParamPrompt, a.Prompt.String()))
	}
	if a.ResponseMode != "" {
		opts = append(opts, oauth2.SetAuthURLParam(ParamResponseMode, string(a.ResponseMode)))
	}
	if a.CodeVerifier != "" {
		opts = append(opts,
			oauth2.SetAuthURLParam(ParamCodeChallenge, a.CodeVerifierChallenge),
			oauth2.SetAuthURLParam(ParamCodeChallengeMethod, string(a.CodeVerifierChallengeMethod)),
		)
	}
	for _, key := range sortedKeys(a.AdditionalParameters) {
		opts = append(opts, oauth2.SetAuthURLParam(key, a.AdditionalParameters[key]))
	}
	return opts
}

// AuthCodeURL renders the request URI through x/oauth2 instead of
// AuthorizationURL. x/oauth2 always writes `response_type=code`, so
// this is only equivalent for authorization code flow requests; the
// parameter ordering follows the url.Values encoding of that package.
func (a *AuthorizationRequest) AuthCodeURL() string {
	return a.OAuth2Config().AuthCodeURL(a.State, a.AuthCodeOptions()...)
}
