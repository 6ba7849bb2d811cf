package oidc

import (
	"log/slog"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zitadel/schema"
)

func TestAuthorizationRequest_AuthorizationURL(t *testing.T) {
	builder := newTestBuilder(t)
	builder.ClearState()
	builder.ClearCodeVerifier()

	t.Run("mandatory fields only", func(t *testing.T) {
		got, err := builder.Build().AuthorizationURL()
		require.NoError(t, err)
		assert.Equal(t,
			"https://idp.example.com/authorize"+
				"?redirect_uri=com.example.app%3A%2Foauth2redirect"+
				"&client_id=test-client"+
				"&response_type=code",
			got)
	})

	t.Run("all fields in stable order", func(t *testing.T) {
		require.NoError(t, builder.SetDisplay(DisplayTouch))
		require.NoError(t, builder.SetPromptValues(PromptLogin, PromptConsent))
		require.NoError(t, builder.SetState("st/ate"))
		require.NoError(t, builder.SetScopes(ScopeOpenID, ScopeProfile))
		require.NoError(t, builder.SetResponseMode(ResponseModeQuery))
		require.NoError(t, builder.SetCodeVerifier(testCodeVerifier))
		require.NoError(t, builder.SetAdditionalParameters(map[string]string{
			"hd":       "example.com",
			"audience": "https://api.example.com",
		}))

		got, err := builder.Build().AuthorizationURL()
		require.NoError(t, err)
		assert.Equal(t,
			"https://idp.example.com/authorize"+
				"?redirect_uri=com.example.app%3A%2Foauth2redirect"+
				"&client_id=test-client"+
				"&response_type=code"+
				"&display=touch"+
				"&prompt=login+consent"+
				"&state=st%2Fate"+
				"&scope=openid+profile"+
				"&response_mode=query"+
				"&code_challenge="+testCodeChallenge+
				"&code_challenge_method=S256"+
				"&audience=https%3A%2F%2Fapi.example.com"+
				"&hd=example.com",
			got)
	})

	t.Run("absent optional fields render no parameter", func(t *testing.T) {
		request := newTestBuilder(t).Build()
		got, err := request.AuthorizationURL()
		require.NoError(t, err)
		values, err := url.ParseQuery(mustQuery(t, got))
		require.NoError(t, err)
		for _, param := range []string{ParamDisplay, ParamPrompt, ParamScope, ParamResponseMode} {
			_, ok := values[param]
			assert.False(t, ok, "parameter %s must be absent", param)
		}
		assert.Equal(t, request.State, values.Get(ParamState))
		assert.Equal(t, request.CodeVerifierChallenge, values.Get(ParamCodeChallenge))
	})

	t.Run("endpoint query is preserved", func(t *testing.T) {
		config, err := NewServiceConfiguration("https://idp.example.com/authorize?tenant=acme", "https://idp.example.com/token")
		require.NoError(t, err)
		builder, err := NewAuthorizationRequestBuilder(config, "test-client", ResponseTypeCode, "https://client.example.com/cb")
		require.NoError(t, err)
		builder.ClearState()
		builder.ClearCodeVerifier()
		got, err := builder.Build().AuthorizationURL()
		require.NoError(t, err)
		assert.Equal(t,
			"https://idp.example.com/authorize"+
				"?tenant=acme"+
				"&redirect_uri=https%3A%2F%2Fclient.example.com%2Fcb"+
				"&client_id=test-client"+
				"&response_type=code",
			got)
	})
}

func mustQuery(t *testing.T, rawURL string) string {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	return u.RawQuery
}

func TestAuthorizationRequest_AuthValues(t *testing.T) {
	builder := newTestBuilder(t)
	require.NoError(t, builder.SetScopes(ScopeOpenID, ScopeEmail))
	require.NoError(t, builder.SetAdditionalParameters(map[string]string{"audience": "https://api.example.com"}))
	request := builder.Build()

	values, err := request.AuthValues()
	require.NoError(t, err)

	assert.Equal(t, []string{"test-client"}, values[ParamClientID])
	assert.Equal(t, []string{"code"}, values[ParamResponseType])
	assert.Equal(t, []string{"openid email"}, values[ParamScope])
	assert.Equal(t, []string{request.State}, values[ParamState])
	assert.Equal(t, []string{request.CodeVerifierChallenge}, values[ParamCodeChallenge])
	assert.Equal(t, []string{"S256"}, values[ParamCodeChallengeMethod])
	assert.Equal(t, []string{"https://api.example.com"}, values["audience"])

	// the verifier is never part of the wire form
	_, ok := values["code_verifier"]
	assert.False(t, ok)
}

func TestAuthorizationRequest_AuthValuesDecode(t *testing.T) {
	type wireRequest struct {
		ClientID     string              `schema:"client_id"`
		ResponseType ResponseType        `schema:"response_type"`
		RedirectURI  string              `schema:"redirect_uri"`
		Scope        SpaceDelimitedArray `schema:"scope"`
		State        string              `schema:"state"`
	}
	builder := newTestBuilder(t)
	require.NoError(t, builder.SetScopes(ScopeOpenID, ScopeProfile))
	request := builder.Build()

	values, err := request.AuthValues()
	require.NoError(t, err)

	var wire wireRequest
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	require.NoError(t, decoder.Decode(&wire, values))

	assert.Equal(t, request.ClientID, wire.ClientID)
	assert.Equal(t, request.ResponseType, wire.ResponseType)
	assert.Equal(t, request.RedirectURI, wire.RedirectURI)
	assert.Equal(t, request.Scope, wire.Scope)
	assert.Equal(t, request.State, wire.State)
}

func TestAuthorizationRequest_LogValue(t *testing.T) {
	a := &AuthorizationRequest{
		ClientID:     "123",
		ResponseType: ResponseTypeCode,
		RedirectURI:  "http://example.com/callback",
		Scope:        SpaceDelimitedArray{"a", "b"},
	}
	want := slog.GroupValue(
		slog.String("client_id", "123"),
		slog.String("response_type", "code"),
		slog.String("redirect_uri", "http://example.com/callback"),
		slog.Any("scope", SpaceDelimitedArray{"a", "b"}),
	)
	got := a.LogValue()
	assert.Equal(t, want, got)
}

func TestAuthorizationRequest_LogValueRedactsVerifier(t *testing.T) {
	request := newTestBuilder(t).Build()
	logged := request.LogValue().String()
	assert.NotContains(t, logged, request.CodeVerifier)
	assert.Contains(t, logged, "S256")
}
