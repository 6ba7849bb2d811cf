package oidc

import (
	"sort"
	"strings"
)

const (
	ParamClientID            = "client_id"
	ParamCodeChallenge       = "code_challenge"
	ParamCodeChallengeMethod = "code_challenge_method"
	ParamDisplay             = "display"
	ParamPrompt              = "prompt"
	ParamRedirectURI         = "redirect_uri"
	ParamResponseMode        = "response_mode"
	ParamResponseType        = "response_type"
	ParamScope               = "scope"
	ParamState               = "state"
)

// builtInParams are the query parameter names written by the request
// itself. Additional parameters must not shadow any of them.
var builtInParams = map[string]struct{}{
	ParamClientID:            {},
	ParamCodeChallenge:       {},
	ParamCodeChallengeMethod: {},
	ParamDisplay:             {},
	ParamPrompt:              {},
	ParamRedirectURI:         {},
	ParamResponseMode:        {},
	ParamResponseType:        {},
	ParamScope:               {},
	ParamState:               {},
}

// IsBuiltInParam reports whether name is one of the protocol-reserved
// query parameter names.
func IsBuiltInParam(name string) bool {
	_, ok := builtInParams[name]
	return ok
}

// checkAdditionalParams validates that no key collides with a built-in
// parameter and that no key or value is empty, and returns a copy of
// the map. When several keys collide, the lowest-sorted one is reported
// so the error is reproducible.
func checkAdditionalParams(params map[string]string) (map[string]string, error) {
	checked := make(map[string]string, len(params))
	var conflicts []string
	for key, value := range params {
		if key == "" {
			return nil, ErrInvalidArgument().WithField("additionalParameters").
				WithDescription("additional parameter keys cannot be empty")
		}
		if value == "" {
			return nil, ErrInvalidArgument().WithField("additionalParameters").
				WithDescription("additional parameter %q cannot have an empty value", key)
		}
		if IsBuiltInParam(key) {
			conflicts = append(conflicts, key)
			continue
		}
		checked[key] = value
	}
	if len(conflicts) > 0 {
		sort.Strings(conflicts)
		return nil, ErrReservedParameterConflict().WithField(conflicts[0]).
			WithDescription("parameter %q is reserved", conflicts[0])
	}
	return checked, nil
}

// checkTokens validates the elements of a space delimited list: every
// element must be non-empty and free of whitespace, so that the joined
// string splits back into the identical elements.
func checkTokens(values []string, field string) error {
	for _, value := range values {
		if value == "" {
			return ErrInvalidArgument().WithField(field).
				WithDescription("%s values cannot be empty", field)
		}
		if strings.ContainsAny(value, " \t\r\n") {
			return ErrInvalidArgument().WithField(field).
				WithDescription("%s value %q cannot contain whitespace", field, value)
		}
	}
	return nil
}

// splitTokens splits a pre-joined space delimited string on one or
// more spaces, discarding empty tokens.
func splitTokens(joined string) []string {
	return strings.Fields(joined)
}
