package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrEndpointNotFound is returned when an endpoint key is unknown.
	ErrEndpointNotFound = errors.New("endpoint not found")
	// ErrDuplicateEndpoint is returned when two endpoints share path and method.
	ErrDuplicateEndpoint = errors.New("duplicate endpoint")
)

// Load reads a project definition from a YAML (or JSON) file.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}

	return Parse(data)
}

// Parse decodes a project definition and wires up ownership links.
func Parse(data []byte) (*Project, error) {
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse project: %w", err)
	}

	if err := p.Link(); err != nil {
		return nil, err
	}

	return &p, nil
}

// Save writes the project definition to path as YAML.
func (p *Project) Save(path string) error {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("failed to encode project: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode project: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil { //nolint:gosec // project files are not secret.
		return fmt.Errorf("failed to write project file: %w", err)
	}

	return nil
}

// Link validates the project tree, normalises endpoint methods and sets
// the owner references of every module, function and endpoint.
func (p *Project) Link() error {
	seen := make(map[string]bool)

	for i, mod := range p.Modules {
		if mod == nil || mod.Name == "" {
			return fmt.Errorf("modules[%d].name is required", i)
		}

		mod.project = p

		for j, fn := range mod.Functions {
			if fn == nil || fn.Name == "" {
				return fmt.Errorf("module %q: functions[%d].name is required", mod.Name, j)
			}

			fn.module = mod

			for k, e := range fn.Endpoints {
				if e == nil || e.Method == "" {
					return fmt.Errorf("function %q: endpoints[%d].method is required", fn.Key(), k)
				}

				e.Method = strings.ToUpper(e.Method)
				e.function = fn

				key := e.Key()
				if seen[key] {
					return fmt.Errorf("%w: %s", ErrDuplicateEndpoint, key)
				}

				seen[key] = true
			}
		}
	}

	if p.EndpointTemplate != nil {
		p.EndpointTemplate.Method = strings.ToUpper(p.EndpointTemplate.Method)
	}

	return nil
}

// AllEndpoints returns every endpoint in declaration order.
func (p *Project) AllEndpoints() []*Endpoint {
	var endpoints []*Endpoint

	for _, mod := range p.Modules {
		for _, fn := range mod.Functions {
			endpoints = append(endpoints, fn.Endpoints...)
		}
	}

	return endpoints
}

// Endpoint looks up an endpoint by its "module/function@path~METHOD" key.
func (p *Project) Endpoint(key string) (*Endpoint, error) {
	for _, e := range p.AllEndpoints() {
		if e.Key() == key {
			return e, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrEndpointNotFound, key)
}

// RestAPIID returns the REST API id recorded for a stage and region, or an
// empty string when none is known.
func (p *Project) RestAPIID(stage, region string) string {
	s, ok := p.Stages[stage]
	if !ok || s == nil {
		return ""
	}

	r, ok := s.Regions[region]
	if !ok || r == nil {
		return ""
	}

	return r.RestAPIID
}
