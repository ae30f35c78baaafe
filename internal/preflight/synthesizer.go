// Package preflight synthesizes OPTIONS mock endpoints answering CORS
// preflight requests for every CORS enabled path of a project.
package preflight

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/joostfarla/serverless-cors-plugin/internal/cors"
	"github.com/joostfarla/serverless-cors-plugin/internal/project"
)

const (
	// IntegrationType is the integration type of a preflight endpoint.
	IntegrationType = "MOCK"
	// AuthorizationType is the authorization type of a preflight endpoint.
	AuthorizationType = "NONE"
	// ContentType is the content type of the mock request template.
	ContentType = "application/json"
	// RequestTemplate makes the mock integration answer with status 200.
	RequestTemplate = `{"statusCode": 200}`

	defaultResponse = "default"
	statusOK        = "200"
	statusBadInput  = "400"
)

var pathParameterPattern = regexp.MustCompile(`\{([^}]+)\}`)

// Options controls a synthesis run.
type Options struct {
	// All enables synthesis. Without it no preflight endpoints are produced.
	All bool
}

// Preflight is a synthesized OPTIONS endpoint for one path.
type Preflight struct {
	Path         string
	AllowMethods []string
	Policy       cors.Policy
	// Function owns the first CORS enabled endpoint of the path.
	Function *project.Function
	Endpoint *project.Endpoint
}

// Headers returns the quoted response header mappings of the preflight.
func (p *Preflight) Headers() map[string]string {
	return p.Endpoint.Responses[defaultResponse].ResponseParameters
}

// PathParameters returns the names of the {name} tokens in the path.
func (p *Preflight) PathParameters() []string {
	return PathParameters(p.Path)
}

// Synthesizer builds preflight endpoints.
type Synthesizer struct {
	log      logrus.FieldLogger
	resolver *cors.Resolver
	template *project.Endpoint
}

// NewSynthesizer creates a Synthesizer. template is the project's endpoint
// template and may be nil.
func NewSynthesizer(log logrus.FieldLogger, resolver *cors.Resolver, template *project.Endpoint) *Synthesizer {
	return &Synthesizer{
		log:      log.WithField("component", "preflight"),
		resolver: resolver,
		template: template,
	}
}

type group struct {
	path    string
	members []*project.Endpoint
}

// Synthesize groups endpoints by path and returns one preflight per group
// with at least one CORS enabled member, in first-seen path order.
//
// The first enabled member of a group decides the policy. Later enabled
// members only contribute their method.
func (s *Synthesizer) Synthesize(endpoints []*project.Endpoint, opts Options) ([]*Preflight, error) {
	if !opts.All {
		return nil, nil
	}

	var (
		groups []*group
		byPath = make(map[string]*group)
	)

	for _, e := range endpoints {
		// Existing OPTIONS endpoints are preflights themselves
		if strings.EqualFold(e.Method, project.MethodOptions) {
			continue
		}

		path := strings.TrimPrefix(e.Path, "/")

		g, ok := byPath[path]
		if !ok {
			g = &group{path: path}
			byPath[path] = g
			groups = append(groups, g)
		}

		g.members = append(g.members, e)
	}

	preflights := make([]*Preflight, 0, len(groups))

	for _, g := range groups {
		p, err := s.synthesizeGroup(g)
		if err != nil {
			return nil, err
		}

		if p == nil {
			s.log.WithField("path", g.path).Debug("CORS disabled for path, no preflight")

			continue
		}

		preflights = append(preflights, p)
	}

	return preflights, nil
}

func (s *Synthesizer) synthesizeGroup(g *group) (*Preflight, error) {
	var p *Preflight

	for _, e := range g.members {
		policy, enabled, err := s.resolver.ResolveEndpoint(e)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve CORS policy of %s: %w", e.Key(), err)
		}

		if !enabled {
			continue
		}

		if p == nil {
			p = &Preflight{Path: g.path, Policy: policy, Function: e.Function()}
		}

		if !slices.Contains(p.AllowMethods, e.Method) {
			p.AllowMethods = append(p.AllowMethods, e.Method)
		}
	}

	if p == nil {
		return nil, nil
	}

	p.Endpoint = s.buildEndpoint(p)

	return p, nil
}

func (s *Synthesizer) buildEndpoint(p *Preflight) *project.Endpoint {
	e := &project.Endpoint{}
	if s.template != nil {
		e = s.template.Clone()
	}

	e.Path = p.Path
	e.Method = project.MethodOptions
	e.Type = IntegrationType
	e.AuthorizationType = AuthorizationType
	e.RequestTemplates = map[string]string{ContentType: RequestTemplate}

	// The mock integration only receives path parameters
	e.RequestParameters = make(map[string]string)

	for _, name := range PathParameters(p.Path) {
		e.RequestParameters["integration.request.path."+name] = "method.request.path." + name
	}

	if e.Responses == nil {
		e.Responses = make(map[string]*project.Response)
	}

	delete(e.Responses, statusBadInput)

	e.Responses[defaultResponse] = &project.Response{
		StatusCode:         statusOK,
		ResponseParameters: cors.PreflightHeaders(p.Policy, p.AllowMethods),
		ResponseModels:     map[string]string{},
		ResponseTemplates:  map[string]string{ContentType: ""},
	}

	return e
}

// PathParameters returns the names of the {name} tokens of path in order.
func PathParameters(path string) []string {
	matches := pathParameterPattern.FindAllStringSubmatch(path, -1)
	if len(matches) == 0 {
		return nil
	}

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}

	return names
}
