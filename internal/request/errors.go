package request

import (
	"errors"
	"fmt"
)

// ErrNoServer means the draft has no server URL to resolve the path against.
var ErrNoServer = errors.New("no server URL selected")

// MissingPathParameterError reports a {placeholder} left in the path after
// substitution.
type MissingPathParameterError struct {
	Name string
}

func (e *MissingPathParameterError) Error() string {
	return fmt.Sprintf("path parameter %q has no value", e.Name)
}

// MissingRequiredParameterError reports a required query or header parameter
// with no value.
type MissingRequiredParameterError struct {
	Name string
	In   string
}

func (e *MissingRequiredParameterError) Error() string {
	return fmt.Sprintf("required %s parameter %q has no value", e.In, e.Name)
}
