package oidc

import (
	"reflect"
	"strings"

	"github.com/zitadel/schema"
)

type ResponseType string

type ResponseMode string

type Display string

type Prompt string

// SpaceDelimitedArray is a list of case sensitive tokens which is
// transported as a single space delimited string, as used by the
// `scope` and `prompt` parameters.
type SpaceDelimitedArray []string

func (s SpaceDelimitedArray) String() string {
	return strings.Join(s, " ")
}

func (s SpaceDelimitedArray) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *SpaceDelimitedArray) UnmarshalText(text []byte) error {
	*s = strings.Split(string(text), " ")
	return nil
}

// NewEncoder returns a schema encoder which serializes
// SpaceDelimitedArray fields into their single string form.
func NewEncoder() *schema.Encoder {
	e := schema.NewEncoder()
	e.RegisterEncoder(SpaceDelimitedArray{}, func(value reflect.Value) string {
		return value.Interface().(SpaceDelimitedArray).String()
	})
	return e
}
