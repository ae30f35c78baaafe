// Package cors resolves the CORS policy of an endpoint from the custom
// configuration of its project, module and function, and renders that policy
// into API Gateway response header mappings.
package cors

import (
	"math"
	"regexp"
	"strconv"
)

// ConfigKey is the custom configuration key holding a CORS fragment.
const ConfigKey = "cors"

var headerNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Policy is a merged and validated CORS configuration. Optional fields are
// nil when not configured at any scope.
type Policy struct {
	AllowOrigin      string
	AllowHeaders     []string
	AllowCredentials *bool
	ExposeHeaders    []string
	MaxAge           *float64
}

func (p Policy) credentials() string {
	return strconv.FormatBool(*p.AllowCredentials)
}

func (p Policy) maxAge() string {
	return strconv.FormatFloat(*p.MaxAge, 'f', -1, 64)
}

// validate checks a merged fragment and converts it into a Policy.
func (f Fragment) validate() (Policy, error) {
	if f.AllowOrigin == nil {
		return Policy{}, &ConfigurationError{Field: "allowOrigin", Reason: "is required"}
	}

	if *f.AllowOrigin == "" {
		return Policy{}, &ConfigurationError{Field: "allowOrigin", Reason: "must not be empty"}
	}

	p := Policy{
		AllowOrigin:      *f.AllowOrigin,
		AllowCredentials: f.AllowCredentials,
		MaxAge:           f.MaxAge,
	}

	if f.AllowHeaders != nil {
		if err := validateHeaderNames("allowHeaders", *f.AllowHeaders); err != nil {
			return Policy{}, err
		}

		p.AllowHeaders = *f.AllowHeaders
	}

	if f.ExposeHeaders != nil {
		if err := validateHeaderNames("exposeHeaders", *f.ExposeHeaders); err != nil {
			return Policy{}, err
		}

		p.ExposeHeaders = *f.ExposeHeaders
	}

	if f.MaxAge != nil {
		if v := *f.MaxAge; math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return Policy{}, &ConfigurationError{Field: "maxAge", Reason: "must be a non-negative number"}
		}
	}

	return p, nil
}

func validateHeaderNames(field string, names []string) error {
	if len(names) == 0 {
		return &ConfigurationError{Field: field, Reason: "must contain at least one header name"}
	}

	for i, name := range names {
		if !headerNamePattern.MatchString(name) {
			return &ConfigurationError{
				Field:  field + "[" + strconv.Itoa(i) + "]",
				Reason: strconv.Quote(name) + " is not a valid header name",
			}
		}
	}

	return nil
}
