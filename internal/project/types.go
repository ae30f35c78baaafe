//nolint:tagliatelle // mirrors the framework's camelCase project format.
package project

import (
	"fmt"
	"maps"
	"strings"
)

// Level identifies the scope a configuration fragment is attached to.
type Level string

const (
	LevelProject  Level = "project"
	LevelModule   Level = "module"
	LevelFunction Level = "function"
)

const (
	MethodGet     = "GET"
	MethodOptions = "OPTIONS"
)

// Project is the root of the host's project model.
type Project struct {
	Name      string            `yaml:"name"`
	Custom    map[string]any    `yaml:"custom,omitempty"`
	Variables map[string]any    `yaml:"variables,omitempty"`
	Stages    map[string]*Stage `yaml:"stages,omitempty"`
	// EndpointTemplate is the generic definition new endpoints start from.
	EndpointTemplate *Endpoint `yaml:"endpointTemplate,omitempty"`
	Modules          []*Module `yaml:"modules"`
}

// Stage holds per-stage variables and regions.
type Stage struct {
	Variables map[string]any     `yaml:"variables,omitempty"`
	Regions   map[string]*Region `yaml:"regions,omitempty"`
}

// Region holds per-region variables and the deployed REST API, if known.
type Region struct {
	Variables map[string]any `yaml:"variables,omitempty"`
	RestAPIID string         `yaml:"restApiId,omitempty"`
}

// Module groups functions and may carry module-wide custom configuration.
type Module struct {
	Name      string         `yaml:"name"`
	Custom    map[string]any `yaml:"custom,omitempty"`
	Functions []*Function    `yaml:"functions"`

	project *Project
}

// Function owns a set of endpoints.
type Function struct {
	Name      string         `yaml:"name"`
	Handler   string         `yaml:"handler,omitempty"`
	Custom    map[string]any `yaml:"custom,omitempty"`
	Endpoints []*Endpoint    `yaml:"endpoints"`

	module *Module
}

// Endpoint is an API Gateway method definition on a path.
type Endpoint struct {
	Path              string               `yaml:"path"`
	Method            string               `yaml:"method"`
	Type              string               `yaml:"type,omitempty"`
	AuthorizationType string               `yaml:"authorizationType,omitempty"`
	RequestParameters map[string]string    `yaml:"requestParameters,omitempty"`
	RequestTemplates  map[string]string    `yaml:"requestTemplates,omitempty"`
	Responses         map[string]*Response `yaml:"responses,omitempty"`

	function *Function
}

// Response is a single response mapping of an endpoint.
type Response struct {
	StatusCode         string            `yaml:"statusCode"`
	SelectionPattern   string            `yaml:"selectionPattern,omitempty"`
	ResponseParameters map[string]string `yaml:"responseParameters,omitempty"`
	ResponseModels     map[string]string `yaml:"responseModels,omitempty"`
	ResponseTemplates  map[string]string `yaml:"responseTemplates,omitempty"`
}

// Scope is one level of custom configuration visible to an endpoint.
type Scope struct {
	Level  Level
	Name   string
	Custom map[string]any
}

// Project returns the module's owning project.
func (m *Module) Project() *Project {
	return m.project
}

// Module returns the function's owning module.
func (f *Function) Module() *Module {
	return f.module
}

// Key returns the function path in "module/function" form.
func (f *Function) Key() string {
	if f.module == nil {
		return f.Name
	}

	return f.module.Name + "/" + f.Name
}

// SetEndpoint attaches e to the function, replacing any endpoint that
// already has the same path and method.
func (f *Function) SetEndpoint(e *Endpoint) {
	e.function = f

	for i, existing := range f.Endpoints {
		if samePath(existing.Path, e.Path) && existing.Method == e.Method {
			f.Endpoints[i] = e

			return
		}
	}

	f.Endpoints = append(f.Endpoints, e)
}

// samePath reports whether two endpoint paths address the same resource.
// A leading slash is optional in the project format.
func samePath(a, b string) bool {
	return strings.TrimPrefix(a, "/") == strings.TrimPrefix(b, "/")
}

// Function returns the endpoint's owning function.
func (e *Endpoint) Function() *Function {
	return e.function
}

// Key returns the endpoint path in "module/function@path~METHOD" form.
func (e *Endpoint) Key() string {
	prefix := ""
	if e.function != nil {
		prefix = e.function.Key()
	}

	return fmt.Sprintf("%s@%s~%s", prefix, e.Path, e.Method)
}

// Scopes returns the custom configuration scopes of the endpoint ordered
// from least to most specific: project, module, function.
func (e *Endpoint) Scopes() []Scope {
	fn := e.function
	if fn == nil {
		return nil
	}

	scopes := make([]Scope, 0, 3)

	if mod := fn.module; mod != nil {
		if p := mod.project; p != nil {
			scopes = append(scopes, Scope{Level: LevelProject, Name: p.Name, Custom: p.Custom})
		}

		scopes = append(scopes, Scope{Level: LevelModule, Name: mod.Name, Custom: mod.Custom})
	}

	return append(scopes, Scope{Level: LevelFunction, Name: fn.Key(), Custom: fn.Custom})
}

// Clone returns a deep copy of the endpoint, detached from any function.
func (e *Endpoint) Clone() *Endpoint {
	c := &Endpoint{
		Path:              e.Path,
		Method:            e.Method,
		Type:              e.Type,
		AuthorizationType: e.AuthorizationType,
		RequestParameters: maps.Clone(e.RequestParameters),
		RequestTemplates:  maps.Clone(e.RequestTemplates),
	}

	if e.Responses != nil {
		c.Responses = make(map[string]*Response, len(e.Responses))

		for key, r := range e.Responses {
			if r == nil {
				continue
			}

			c.Responses[key] = &Response{
				StatusCode:         r.StatusCode,
				SelectionPattern:   r.SelectionPattern,
				ResponseParameters: maps.Clone(r.ResponseParameters),
				ResponseModels:     maps.Clone(r.ResponseModels),
				ResponseTemplates:  maps.Clone(r.ResponseTemplates),
			}
		}
	}

	return c
}
