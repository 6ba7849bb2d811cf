package oidc

import (
	"encoding/json"
	"net/url"
)

// ServiceConfiguration holds the endpoints of an authorization
// service. It is created manually from known endpoints or derived from
// a discovery document, is embedded by reference into every
// authorization request built against it and is never mutated here.
type ServiceConfiguration struct {
	// AuthorizationEndpoint is the authorization service's endpoint
	// which interactive authorization requests are dispatched to.
	AuthorizationEndpoint string `json:"authorizationEndpoint"`

	// TokenEndpoint is the authorization service's token exchange and
	// refresh endpoint.
	TokenEndpoint string `json:"tokenEndpoint"`

	// RegistrationEndpoint is the authorization service's client
	// registration endpoint, if supported.
	RegistrationEndpoint string `json:"registrationEndpoint,omitempty"`

	// EndSessionEndpoint is the authorization service's end session
	// endpoint, if supported.
	EndSessionEndpoint string `json:"endSessionEndpoint,omitempty"`
}

// NewServiceConfiguration creates a configuration from the two
// mandatory endpoints. Both must be absolute URIs.
func NewServiceConfiguration(authorizationEndpoint, tokenEndpoint string) (*ServiceConfiguration, error) {
	if err := checkAbsoluteURI(authorizationEndpoint, "authorizationEndpoint"); err != nil {
		return nil, err
	}
	if err := checkAbsoluteURI(tokenEndpoint, "tokenEndpoint"); err != nil {
		return nil, err
	}
	return &ServiceConfiguration{
		AuthorizationEndpoint: authorizationEndpoint,
		TokenEndpoint:         tokenEndpoint,
	}, nil
}

// NewServiceConfigurationFromDiscovery derives a configuration from a
// discovery document. The document must carry at least the
// authorization and token endpoints.
func NewServiceConfigurationFromDiscovery(discovery *DiscoveryConfiguration) (*ServiceConfiguration, error) {
	if discovery == nil {
		return nil, ErrInvalidArgument().WithField("discovery").
			WithDescription("discovery configuration cannot be nil")
	}
	config, err := NewServiceConfiguration(discovery.AuthorizationEndpoint, discovery.TokenEndpoint)
	if err != nil {
		return nil, err
	}
	config.RegistrationEndpoint = discovery.RegistrationEndpoint
	config.EndSessionEndpoint = discovery.EndSessionEndpoint
	return config, nil
}

// ParseServiceConfiguration reads a configuration from its JSON
// representation, failing when the document cannot be parsed or misses
// a mandatory endpoint.
func ParseServiceConfiguration(data []byte) (*ServiceConfiguration, error) {
	config := new(ServiceConfiguration)
	if err := json.Unmarshal(data, config); err != nil {
		return nil, ErrMalformedDocument().WithParent(err).
			WithDescription("cannot parse service configuration")
	}
	if err := checkAbsoluteURI(config.AuthorizationEndpoint, "authorizationEndpoint"); err != nil {
		return nil, ErrMalformedDocument().WithParent(err).
			WithDescription("service configuration missing a valid authorization endpoint")
	}
	if err := checkAbsoluteURI(config.TokenEndpoint, "tokenEndpoint"); err != nil {
		return nil, ErrMalformedDocument().WithParent(err).
			WithDescription("service configuration missing a valid token endpoint")
	}
	return config, nil
}

func checkAbsoluteURI(value, field string) error {
	if value == "" {
		return ErrInvalidArgument().WithField(field).
			WithDescription("%s cannot be empty", field)
	}
	u, err := url.Parse(value)
	if err != nil {
		return ErrInvalidArgument().WithField(field).WithParent(err).
			WithDescription("%s is not a valid URI", field)
	}
	if !u.IsAbs() || u.Host == "" {
		return ErrInvalidArgument().WithField(field).
			WithDescription("%s must be an absolute URI", field)
	}
	return nil
}
