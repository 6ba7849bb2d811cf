package oidc

import (
	"encoding/json"
)

// JSONString renders the request into its canonical JSON string form
// for persistence across process boundaries. Optional fields are
// omitted entirely when absent; additionalParameters is always
// present, as an empty object when no extensions were supplied.
func (a *AuthorizationRequest) JSONString() (string, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// authorizationRequestDocument mirrors the JSON form of an
// AuthorizationRequest with pointer fields, so an absent key can be
// told apart from an explicitly empty value.
type authorizationRequestDocument struct {
	Configuration               json.RawMessage   `json:"configuration"`
	ClientID                    *string           `json:"clientId"`
	ResponseType                *string           `json:"responseType"`
	RedirectURI                 *string           `json:"redirectUri"`
	Display                     *string           `json:"display"`
	Prompt                      *string           `json:"prompt"`
	Scope                       *string           `json:"scope"`
	State                       *string           `json:"state"`
	ResponseMode                *string           `json:"responseMode"`
	CodeVerifier                *string           `json:"codeVerifier"`
	CodeVerifierChallenge       *string           `json:"codeVerifierChallenge"`
	CodeVerifierChallengeMethod *string           `json:"codeVerifierChallengeMethod"`
	AdditionalParameters        map[string]string `json:"additionalParameters"`
}

// ParseAuthorizationRequest reads a request from the JSON produced by
// JSONString. Reconstruction routes through the builder, so every
// invariant is re-checked and a corrupted document is rejected instead
// of silently accepted.
func ParseAuthorizationRequest(data []byte) (*AuthorizationRequest, error) {
	var doc authorizationRequestDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, ErrMalformedDocument().WithParent(err).
			WithDescription("cannot parse authorization request")
	}
	if len(doc.Configuration) == 0 {
		return nil, ErrMalformedDocument().WithDescription("missing key configuration")
	}
	configuration, err := ParseServiceConfiguration(doc.Configuration)
	if err != nil {
		return nil, err
	}
	for key, value := range map[string]*string{
		"clientId":     doc.ClientID,
		"responseType": doc.ResponseType,
		"redirectUri":  doc.RedirectURI,
	} {
		if value == nil {
			return nil, ErrMalformedDocument().WithDescription("missing key %s", key)
		}
	}
	builder, err := NewAuthorizationRequestBuilder(configuration, *doc.ClientID, ResponseType(*doc.ResponseType), *doc.RedirectURI)
	if err != nil {
		return nil, ErrMalformedDocument().WithParent(err).
			WithDescription("invalid authorization request document")
	}

	// The builder assigned fresh state and PKCE defaults; the document
	// alone decides which fields are present.
	builder.ClearState()
	builder.ClearCodeVerifier()

	err = setDocumentValue(doc.Display, func(value string) error {
		return builder.SetDisplay(Display(value))
	})
	if err == nil {
		err = setDocumentValue(doc.Prompt, builder.SetPrompt)
	}
	if err == nil {
		err = setDocumentValue(doc.Scope, builder.SetScope)
	}
	if err == nil {
		err = setDocumentValue(doc.State, builder.SetState)
	}
	if err == nil {
		err = setDocumentValue(doc.ResponseMode, func(value string) error {
			return builder.SetResponseMode(ResponseMode(value))
		})
	}
	if err == nil && (doc.CodeVerifier != nil || doc.CodeVerifierChallenge != nil || doc.CodeVerifierChallengeMethod != nil) {
		err = builder.SetCodeVerifierWithChallenge(
			stringValue(doc.CodeVerifier),
			stringValue(doc.CodeVerifierChallenge),
			CodeChallengeMethod(stringValue(doc.CodeVerifierChallengeMethod)),
		)
	}
	if err == nil {
		err = builder.SetAdditionalParameters(doc.AdditionalParameters)
	}
	if err != nil {
		return nil, ErrMalformedDocument().WithParent(err).
			WithDescription("invalid authorization request document")
	}
	return builder.Build(), nil
}

func setDocumentValue(value *string, set func(string) error) error {
	if value == nil {
		return nil
	}
	return set(*value)
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
