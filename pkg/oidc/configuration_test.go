package oidc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServiceConfiguration(t *testing.T) {
	type args struct {
		authorizationEndpoint string
		tokenEndpoint         string
	}
	tests := []struct {
		name    string
		args    args
		wantErr bool
	}{
		{
			"empty authorization endpoint",
			args{"", "https://idp.example.com/token"},
			true,
		},
		{
			"empty token endpoint",
			args{"https://idp.example.com/authorize", ""},
			true,
		},
		{
			"relative authorization endpoint",
			args{"/authorize", "https://idp.example.com/token"},
			true,
		},
		{
			"valid",
			args{"https://idp.example.com/authorize", "https://idp.example.com/token"},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := NewServiceConfiguration(tt.args.authorizationEndpoint, tt.args.tokenEndpoint)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidArgument())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.args.authorizationEndpoint, config.AuthorizationEndpoint)
			assert.Equal(t, tt.args.tokenEndpoint, config.TokenEndpoint)
		})
	}
}

func TestNewServiceConfigurationFromDiscovery(t *testing.T) {
	t.Run("nil discovery", func(t *testing.T) {
		_, err := NewServiceConfigurationFromDiscovery(nil)
		assert.ErrorIs(t, err, ErrInvalidArgument())
	})

	t.Run("missing token endpoint", func(t *testing.T) {
		_, err := NewServiceConfigurationFromDiscovery(&DiscoveryConfiguration{
			Issuer:                "https://idp.example.com",
			AuthorizationEndpoint: "https://idp.example.com/authorize",
		})
		assert.ErrorIs(t, err, ErrInvalidArgument())
	})

	t.Run("maps endpoints", func(t *testing.T) {
		config, err := NewServiceConfigurationFromDiscovery(&DiscoveryConfiguration{
			Issuer:                "https://idp.example.com",
			AuthorizationEndpoint: "https://idp.example.com/authorize",
			TokenEndpoint:         "https://idp.example.com/token",
			EndSessionEndpoint:    "https://idp.example.com/logout",
			RegistrationEndpoint:  "https://idp.example.com/register",
		})
		require.NoError(t, err)
		assert.Equal(t, &ServiceConfiguration{
			AuthorizationEndpoint: "https://idp.example.com/authorize",
			TokenEndpoint:         "https://idp.example.com/token",
			EndSessionEndpoint:    "https://idp.example.com/logout",
			RegistrationEndpoint:  "https://idp.example.com/register",
		}, config)
	})
}

func TestParseServiceConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{
			"invalid json",
			`{"authorizationEndpoint"`,
			true,
		},
		{
			"missing authorization endpoint",
			`{"tokenEndpoint":"https://idp.example.com/token"}`,
			true,
		},
		{
			"missing token endpoint",
			`{"authorizationEndpoint":"https://idp.example.com/authorize"}`,
			true,
		},
		{
			"mistyped endpoint",
			`{"authorizationEndpoint":42,"tokenEndpoint":"https://idp.example.com/token"}`,
			true,
		},
		{
			"valid",
			`{"authorizationEndpoint":"https://idp.example.com/authorize","tokenEndpoint":"https://idp.example.com/token"}`,
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := ParseServiceConfiguration([]byte(tt.data))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedDocument())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "https://idp.example.com/authorize", config.AuthorizationEndpoint)
		})
	}
}

func TestServiceConfiguration_JSONRoundTrip(t *testing.T) {
	config := &ServiceConfiguration{
		AuthorizationEndpoint: "https://idp.example.com/authorize",
		TokenEndpoint:         "https://idp.example.com/token",
		RegistrationEndpoint:  "https://idp.example.com/register",
	}
	data, err := json.Marshal(config)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "endSessionEndpoint")

	got, err := ParseServiceConfiguration(data)
	require.NoError(t, err)
	assert.Equal(t, config, got)
}
