package preflight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joostfarla/serverless-cors-plugin/internal/cors"
	"github.com/joostfarla/serverless-cors-plugin/internal/project"
	"github.com/joostfarla/serverless-cors-plugin/internal/testutil"
)

const shopProject = `
name: shop
endpointTemplate:
  path: ""
  method: GET
  type: AWS
  authorizationType: AWS_IAM
  requestParameters:
    integration.request.header.X-Trace: method.request.header.X-Trace
  responses:
    "400":
      statusCode: "400"
      selectionPattern: ^\[BadRequest\].*
    default:
      statusCode: "200"
modules:
  - name: items
    custom:
      cors:
        allowOrigin: "*"
        allowHeaders: [X-Api-Key]
    functions:
      - name: list
        endpoints:
          - path: /items
            method: GET
      - name: create
        custom:
          cors:
            allowOrigin: https://admin.shop.test
        endpoints:
          - path: items
            method: POST
      - name: show
        endpoints:
          - path: items/{id}/{slug}
            method: GET
  - name: health
    functions:
      - name: ping
        endpoints:
          - path: ping
            method: GET
`

func newSynthesizer(t *testing.T, p *project.Project) *Synthesizer {
	t.Helper()

	return NewSynthesizer(testutil.NewTestLogger(), cors.NewResolver(p.VariablesFor("dev", "eu-west-1")), p.EndpointTemplate)
}

func TestSynthesize_FlagGate(t *testing.T) {
	p := testutil.NewTestProject(t, shopProject)

	preflights, err := newSynthesizer(t, p).Synthesize(p.AllEndpoints(), Options{})

	require.NoError(t, err)
	assert.Empty(t, preflights)
}

func TestSynthesize(t *testing.T) {
	p := testutil.NewTestProject(t, shopProject)

	preflights, err := newSynthesizer(t, p).Synthesize(p.AllEndpoints(), Options{All: true})
	require.NoError(t, err)

	// ping has no CORS configuration, so its path is dropped
	require.Len(t, preflights, 2)

	t.Run("methods are aggregated in declaration order", func(t *testing.T) {
		items := preflights[0]

		assert.Equal(t, "items", items.Path)
		assert.Equal(t, []string{"GET", "POST"}, items.AllowMethods)
		assert.Equal(t, "'GET,POST'", items.Headers()["method.response.header.Access-Control-Allow-Methods"])
	})

	t.Run("first enabled endpoint wins", func(t *testing.T) {
		items := preflights[0]

		assert.Equal(t, "*", items.Policy.AllowOrigin)
		assert.Equal(t, "list", items.Function.Name)
		assert.Equal(t, "'*'", items.Headers()["method.response.header.Access-Control-Allow-Origin"])
		assert.Equal(t, "'X-Api-Key'", items.Headers()["method.response.header.Access-Control-Allow-Headers"])
	})

	t.Run("mock endpoint is built from the template", func(t *testing.T) {
		e := preflights[0].Endpoint

		assert.Equal(t, "OPTIONS", e.Method)
		assert.Equal(t, "MOCK", e.Type)
		assert.Equal(t, "NONE", e.AuthorizationType)
		assert.Equal(t, map[string]string{"application/json": `{"statusCode": 200}`}, e.RequestTemplates)
		assert.Empty(t, e.RequestParameters, "template request parameters are not carried over")

		assert.NotContains(t, e.Responses, "400")
		require.Contains(t, e.Responses, "default")
		assert.Equal(t, "200", e.Responses["default"].StatusCode)
		assert.Equal(t, map[string]string{"application/json": ""}, e.Responses["default"].ResponseTemplates)

		// The template itself is left untouched
		assert.Contains(t, p.EndpointTemplate.Responses, "400")
		assert.Equal(t, "GET", p.EndpointTemplate.Method)
		assert.Equal(t, "AWS_IAM", p.EndpointTemplate.AuthorizationType)
		assert.Len(t, p.EndpointTemplate.RequestParameters, 1)
	})

	t.Run("path parameters are mapped", func(t *testing.T) {
		show := preflights[1]

		assert.Equal(t, "items/{id}/{slug}", show.Path)
		assert.Equal(t, []string{"id", "slug"}, show.PathParameters())
		assert.Equal(t, map[string]string{
			"integration.request.path.id":   "method.request.path.id",
			"integration.request.path.slug": "method.request.path.slug",
		}, show.Endpoint.RequestParameters)
		assert.Equal(t, "NONE", show.Endpoint.AuthorizationType)
	})

	t.Run("preflight headers", func(t *testing.T) {
		assert.Equal(t, map[string]string{
			"method.response.header.Access-Control-Allow-Methods": "'GET'",
			"method.response.header.Access-Control-Allow-Origin":  "'*'",
			"method.response.header.Access-Control-Allow-Headers": "'X-Api-Key'",
		}, preflights[1].Headers())
	})
}

func TestSynthesize_WithoutTemplate(t *testing.T) {
	p := testutil.NewTestProject(t, `
name: shop
custom:
  cors:
    allowOrigin: "*"
    allowCredentials: true
    maxAge: 600
modules:
  - name: m
    functions:
      - name: f
        endpoints:
          - path: p
            method: GET
          - path: p
            method: POST
`)

	preflights, err := newSynthesizer(t, p).Synthesize(p.AllEndpoints(), Options{All: true})
	require.NoError(t, err)
	require.Len(t, preflights, 1)

	e := preflights[0].Endpoint
	assert.Equal(t, "p", e.Path)
	assert.Equal(t, "NONE", e.AuthorizationType)
	assert.Empty(t, e.RequestParameters)
	assert.Equal(t, map[string]string{
		"method.response.header.Access-Control-Allow-Methods":     "'GET,POST'",
		"method.response.header.Access-Control-Allow-Origin":      "'*'",
		"method.response.header.Access-Control-Allow-Credentials": "'true'",
		"method.response.header.Access-Control-Max-Age":           "'600'",
	}, preflights[0].Headers())
	assert.Nil(t, e.Function())
}

func TestSynthesize_IgnoresOptionsEndpoints(t *testing.T) {
	p := testutil.NewTestProject(t, `
name: shop
custom:
  cors:
    allowOrigin: "*"
modules:
  - name: m
    functions:
      - name: f
        endpoints:
          - path: p
            method: GET
          - path: p
            method: OPTIONS
          - path: only-options
            method: OPTIONS
`)

	preflights, err := newSynthesizer(t, p).Synthesize(p.AllEndpoints(), Options{All: true})
	require.NoError(t, err)
	require.Len(t, preflights, 1)

	assert.Equal(t, "p", preflights[0].Path)
	assert.Equal(t, []string{"GET"}, preflights[0].AllowMethods)
}

func TestSynthesize_DisabledMembersSkipped(t *testing.T) {
	p := testutil.NewTestProject(t, `
name: shop
modules:
  - name: m
    functions:
      - name: private
        endpoints:
          - path: p
            method: DELETE
      - name: public
        custom:
          cors:
            allowOrigin: https://shop.test
        endpoints:
          - path: p
            method: GET
`)

	preflights, err := newSynthesizer(t, p).Synthesize(p.AllEndpoints(), Options{All: true})
	require.NoError(t, err)
	require.Len(t, preflights, 1)

	assert.Equal(t, []string{"GET"}, preflights[0].AllowMethods)
	assert.Equal(t, "public", preflights[0].Function.Name)
}

func TestSynthesize_InvalidMember(t *testing.T) {
	p := testutil.NewTestProject(t, `
name: shop
modules:
  - name: m
    functions:
      - name: valid
        custom:
          cors:
            allowOrigin: "*"
        endpoints:
          - path: p
            method: GET
      - name: invalid
        custom:
          cors:
            allowHeaders: ["Not Valid"]
        endpoints:
          - path: p
            method: POST
`)

	preflights, err := newSynthesizer(t, p).Synthesize(p.AllEndpoints(), Options{All: true})

	require.Error(t, err)
	assert.Nil(t, preflights)
	assert.ErrorIs(t, err, cors.ErrInvalidPolicy)
	assert.Contains(t, err.Error(), "m/invalid@p~POST")
}

func TestPathParameters(t *testing.T) {
	tests := []struct {
		path     string
		expected []string
	}{
		{path: "items", expected: nil},
		{path: "items/{id}", expected: []string{"id"}},
		{path: "/items/{id}/{slug}", expected: []string{"id", "slug"}},
		{path: "files/{proxy+}", expected: []string{"proxy+"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, PathParameters(tt.path))
		})
	}
}
