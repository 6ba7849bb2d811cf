package oidc

import (
	"fmt"
)

type errorCode string

const (
	// InvalidArgument is returned by builder setters and generators
	// when a single-field rule is violated.
	InvalidArgument errorCode = "invalid_argument"

	// ReservedParameterConflict is returned when an additional parameter
	// key shadows one of the protocol-reserved query parameter names.
	ReservedParameterConflict errorCode = "reserved_parameter_conflict"

	// UnsupportedChallengeMethod is returned for a code challenge method
	// other than `S256` or `plain`.
	UnsupportedChallengeMethod errorCode = "unsupported_challenge_method"

	// MalformedDocument is returned when a serialized request or service
	// configuration cannot be parsed, misses a required key or fails
	// re-validation while rebuilding through the builder.
	MalformedDocument errorCode = "malformed_document"
)

var (
	ErrInvalidArgument = func() *Error {
		return &Error{
			Code: InvalidArgument,
		}
	}
	ErrReservedParameterConflict = func() *Error {
		return &Error{
			Code: ReservedParameterConflict,
		}
	}
	ErrUnsupportedChallengeMethod = func() *Error {
		return &Error{
			Code: UnsupportedChallengeMethod,
		}
	}
	ErrMalformedDocument = func() *Error {
		return &Error{
			Code: MalformedDocument,
		}
	}
)

type Error struct {
	Parent      error     `json:"-"`
	Code        errorCode `json:"error"`
	Field       string    `json:"field,omitempty"`
	Description string    `json:"error_description,omitempty"`
}

func (e *Error) Error() string {
	message := "Code=" + string(e.Code)
	if e.Field != "" {
		message += " Field=" + e.Field
	}
	if e.Description != "" {
		message += " Description=" + e.Description
	}
	if e.Parent != nil {
		message += " Parent=" + e.Parent.Error()
	}
	return message
}

func (e *Error) Unwrap() error {
	return e.Parent
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code &&
		(e.Field == t.Field || t.Field == "") &&
		(e.Description == t.Description || t.Description == "")
}

func (e *Error) WithParent(err error) *Error {
	e.Parent = err
	return e
}

func (e *Error) WithField(field string) *Error {
	e.Field = field
	return e
}

func (e *Error) WithDescription(desc string, args ...interface{}) *Error {
	e.Description = fmt.Sprintf(desc, args...)
	return e
}
