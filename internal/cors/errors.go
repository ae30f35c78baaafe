package cors

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidPolicy matches every CORS configuration error.
var ErrInvalidPolicy = errors.New("invalid CORS policy")

// ConfigurationError reports a CORS fragment or merged policy that does not
// satisfy the policy schema.
type ConfigurationError struct {
	// Scope names the configuration level the error came from. Empty when
	// the error concerns the merged policy.
	Scope  string
	Field  string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder

	b.WriteString(ErrInvalidPolicy.Error())

	if e.Scope != "" {
		b.WriteString(" in ")
		b.WriteString(e.Scope)
	}

	b.WriteString(": ")

	if e.Field != "" {
		b.WriteString(strconv.Quote(e.Field))
		b.WriteString(" ")
	}

	b.WriteString(e.Reason)

	return b.String()
}

func (e *ConfigurationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidPolicy}
	}

	return []error{ErrInvalidPolicy, e.Err}
}
