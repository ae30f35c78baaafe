package cors

import (
	"maps"
	"strings"

	"github.com/joostfarla/serverless-cors-plugin/internal/project"
)

// CORS response header names.
const (
	HeaderAllowOrigin      = "Access-Control-Allow-Origin"
	HeaderAllowMethods     = "Access-Control-Allow-Methods"
	HeaderAllowHeaders     = "Access-Control-Allow-Headers"
	HeaderAllowCredentials = "Access-Control-Allow-Credentials"
	HeaderExposeHeaders    = "Access-Control-Expose-Headers"
	HeaderMaxAge           = "Access-Control-Max-Age"
)

const responseParameterPrefix = "method.response.header."

// ResponseParameter returns the API Gateway mapping key of a response header.
func ResponseParameter(header string) string {
	return responseParameterPrefix + header
}

// Quote renders a static mapping value.
func Quote(value string) string {
	return "'" + value + "'"
}

// QuoteList renders a list as a comma separated static mapping value.
func QuoteList(values []string) string {
	return Quote(strings.Join(values, ","))
}

// ResponseHeaders returns the mapping values an actual (non-preflight)
// response of the given method carries for policy p. Allow-Credentials is
// only sent on GET responses.
func ResponseHeaders(p Policy, method string) map[string]string {
	headers := map[string]string{
		ResponseParameter(HeaderAllowOrigin): Quote(p.AllowOrigin),
	}

	if p.ExposeHeaders != nil {
		headers[ResponseParameter(HeaderExposeHeaders)] = QuoteList(p.ExposeHeaders)
	}

	if p.AllowCredentials != nil && strings.EqualFold(method, project.MethodGet) {
		headers[ResponseParameter(HeaderAllowCredentials)] = Quote(p.credentials())
	}

	return headers
}

// PreflightHeaders returns the mapping values of a preflight response
// allowing methods for policy p.
func PreflightHeaders(p Policy, methods []string) map[string]string {
	headers := map[string]string{
		ResponseParameter(HeaderAllowMethods): QuoteList(methods),
		ResponseParameter(HeaderAllowOrigin):  Quote(p.AllowOrigin),
	}

	if p.AllowHeaders != nil {
		headers[ResponseParameter(HeaderAllowHeaders)] = QuoteList(p.AllowHeaders)
	}

	if p.AllowCredentials != nil {
		headers[ResponseParameter(HeaderAllowCredentials)] = Quote(p.credentials())
	}

	if p.ExposeHeaders != nil {
		headers[ResponseParameter(HeaderExposeHeaders)] = QuoteList(p.ExposeHeaders)
	}

	if p.MaxAge != nil {
		headers[ResponseParameter(HeaderMaxAge)] = Quote(p.maxAge())
	}

	return headers
}

// ApplyResponseHeaders adds the CORS headers of policy p to every response of
// e. Existing parameters are kept and OPTIONS endpoints are left alone. It
// reports whether e was modified.
func ApplyResponseHeaders(e *project.Endpoint, p Policy) bool {
	if strings.EqualFold(e.Method, project.MethodOptions) {
		return false
	}

	headers := ResponseHeaders(p, e.Method)
	applied := false

	for _, response := range e.Responses {
		if response == nil {
			continue
		}

		if response.ResponseParameters == nil {
			response.ResponseParameters = make(map[string]string, len(headers))
		}

		maps.Copy(response.ResponseParameters, headers)

		applied = true
	}

	return applied
}
