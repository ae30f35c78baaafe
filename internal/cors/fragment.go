package cors

import (
	"errors"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Fragment is the CORS configuration found at a single scope. Nil fields are
// not set at that scope and inherit from the enclosing one.
type Fragment struct {
	AllowOrigin      *string   `mapstructure:"allowOrigin"`
	AllowHeaders     *[]string `mapstructure:"allowHeaders"`
	AllowCredentials *bool     `mapstructure:"allowCredentials"`
	ExposeHeaders    *[]string `mapstructure:"exposeHeaders"`
	MaxAge           *float64  `mapstructure:"maxAge"`
}

// DecodeFragment decodes a raw custom configuration value into a Fragment.
// Unknown keys and values of the wrong type are rejected. A nil value decodes
// to an empty fragment.
func DecodeFragment(raw any) (Fragment, error) {
	var f Fragment

	if raw == nil {
		return f, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &f,
	})
	if err != nil {
		return Fragment{}, err
	}

	if err := decoder.Decode(raw); err != nil {
		return Fragment{}, &ConfigurationError{Reason: decodeReason(err)}
	}

	return f, nil
}

// Merge returns f with every field set in other taking precedence. Lists are
// replaced as a whole.
func (f Fragment) Merge(other Fragment) Fragment {
	if other.AllowOrigin != nil {
		f.AllowOrigin = other.AllowOrigin
	}

	if other.AllowHeaders != nil {
		f.AllowHeaders = other.AllowHeaders
	}

	if other.AllowCredentials != nil {
		f.AllowCredentials = other.AllowCredentials
	}

	if other.ExposeHeaders != nil {
		f.ExposeHeaders = other.ExposeHeaders
	}

	if other.MaxAge != nil {
		f.MaxAge = other.MaxAge
	}

	return f
}

func decodeReason(err error) string {
	var merr *mapstructure.Error
	if errors.As(err, &merr) {
		return strings.Join(merr.Errors, "; ")
	}

	return err.Error()
}
