package cors

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joostfarla/serverless-cors-plugin/internal/project"
)

func boolPtr(v bool) *bool { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestApplyResponseHeaders(t *testing.T) {
	policy := Policy{
		AllowOrigin:      "*",
		AllowHeaders:     []string{"X-Api-Key"},
		AllowCredentials: boolPtr(true),
		ExposeHeaders:    []string{"X-Total", "X-Page"},
	}

	tests := []struct {
		name     string
		method   string
		applied  bool
		expected map[string]string
	}{
		{
			name:    "GET carries credentials",
			method:  "GET",
			applied: true,
			expected: map[string]string{
				"method.response.header.Content-Type":                     "integration.response.header.Content-Type",
				"method.response.header.Access-Control-Allow-Origin":      "'*'",
				"method.response.header.Access-Control-Expose-Headers":    "'X-Total,X-Page'",
				"method.response.header.Access-Control-Allow-Credentials": "'true'",
			},
		},
		{
			name:    "POST omits credentials",
			method:  "POST",
			applied: true,
			expected: map[string]string{
				"method.response.header.Content-Type":                  "integration.response.header.Content-Type",
				"method.response.header.Access-Control-Allow-Origin":   "'*'",
				"method.response.header.Access-Control-Expose-Headers": "'X-Total,X-Page'",
			},
		},
		{
			name:    "OPTIONS is left alone",
			method:  "OPTIONS",
			applied: false,
			expected: map[string]string{
				"method.response.header.Content-Type": "integration.response.header.Content-Type",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &project.Endpoint{
				Path:   "users",
				Method: tt.method,
				Responses: map[string]*project.Response{
					"default": {
						StatusCode: "200",
						ResponseParameters: map[string]string{
							"method.response.header.Content-Type": "integration.response.header.Content-Type",
						},
					},
					"400": {StatusCode: "400"},
				},
			}

			assert.Equal(t, tt.applied, ApplyResponseHeaders(e, policy))
			assert.Equal(t, tt.expected, e.Responses["default"].ResponseParameters)

			if tt.applied {
				// Responses without parameters get a fresh map
				assert.Equal(t, "'*'", e.Responses["400"].ResponseParameters["method.response.header.Access-Control-Allow-Origin"])
			}
		})
	}
}

func TestApplyResponseHeaders_NoResponses(t *testing.T) {
	e := &project.Endpoint{Path: "users", Method: "GET"}

	assert.False(t, ApplyResponseHeaders(e, Policy{AllowOrigin: "*"}))
	assert.Empty(t, e.Responses)
}

func TestApplyResponseHeaders_MinimalPolicy(t *testing.T) {
	e := &project.Endpoint{
		Path:      "users",
		Method:    "GET",
		Responses: map[string]*project.Response{"default": {StatusCode: "200"}},
	}

	ApplyResponseHeaders(e, Policy{AllowOrigin: "https://shop.test"})

	assert.Equal(t, map[string]string{
		"method.response.header.Access-Control-Allow-Origin": "'https://shop.test'",
	}, e.Responses["default"].ResponseParameters)
}

func TestPreflightHeaders(t *testing.T) {
	tests := []struct {
		name     string
		policy   Policy
		methods  []string
		expected map[string]string
	}{
		{
			name:    "minimal policy",
			policy:  Policy{AllowOrigin: "*"},
			methods: []string{"GET"},
			expected: map[string]string{
				"method.response.header.Access-Control-Allow-Methods": "'GET'",
				"method.response.header.Access-Control-Allow-Origin":  "'*'",
			},
		},
		{
			name: "full policy",
			policy: Policy{
				AllowOrigin:      "https://shop.test",
				AllowHeaders:     []string{"X-Api-Key", "Authorization"},
				AllowCredentials: boolPtr(false),
				ExposeHeaders:    []string{"X-Total"},
				MaxAge:           floatPtr(86400),
			},
			methods: []string{"GET", "PUT", "DELETE"},
			expected: map[string]string{
				"method.response.header.Access-Control-Allow-Methods":     "'GET,PUT,DELETE'",
				"method.response.header.Access-Control-Allow-Origin":      "'https://shop.test'",
				"method.response.header.Access-Control-Allow-Headers":     "'X-Api-Key,Authorization'",
				"method.response.header.Access-Control-Allow-Credentials": "'false'",
				"method.response.header.Access-Control-Expose-Headers":    "'X-Total'",
				"method.response.header.Access-Control-Max-Age":           "'86400'",
			},
		},
		{
			name:    "fractional max age",
			policy:  Policy{AllowOrigin: "*", MaxAge: floatPtr(1.5)},
			methods: []string{"POST"},
			expected: map[string]string{
				"method.response.header.Access-Control-Allow-Methods": "'POST'",
				"method.response.header.Access-Control-Allow-Origin":  "'*'",
				"method.response.header.Access-Control-Max-Age":       "'1.5'",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PreflightHeaders(tt.policy, tt.methods))
		})
	}
}
