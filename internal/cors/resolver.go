package cors

import (
	"errors"

	"github.com/joostfarla/serverless-cors-plugin/internal/project"
)

// Resolve merges the CORS fragments of the given scopes, outermost first, and
// validates the result. The boolean is false when no scope defines a CORS
// fragment, in which case CORS is disabled and the policy is empty.
func Resolve(scopes []project.Scope) (Policy, bool, error) {
	var (
		merged  Fragment
		enabled bool
	)

	for _, scope := range scopes {
		raw, ok := scope.Custom[ConfigKey]
		if !ok {
			continue
		}

		enabled = true

		fragment, err := DecodeFragment(raw)
		if err != nil {
			return Policy{}, false, withScope(err, scope)
		}

		merged = merged.Merge(fragment)
	}

	if !enabled {
		return Policy{}, false, nil
	}

	policy, err := merged.validate()
	if err != nil {
		return Policy{}, false, err
	}

	return policy, true, nil
}

// Resolver resolves endpoint policies after populating ${variable}
// placeholders in each CORS fragment.
type Resolver struct {
	vars map[string]any
}

// NewResolver creates a Resolver populating placeholders from vars.
func NewResolver(vars map[string]any) *Resolver {
	return &Resolver{vars: vars}
}

// ResolveEndpoint resolves the policy of an endpoint from its owning project,
// module and function.
func (r *Resolver) ResolveEndpoint(e *project.Endpoint) (Policy, bool, error) {
	scopes := e.Scopes()
	populated := make([]project.Scope, 0, len(scopes))

	for _, scope := range scopes {
		raw, ok := scope.Custom[ConfigKey]
		if !ok {
			populated = append(populated, scope)

			continue
		}

		value, err := project.Populate(raw, r.vars)
		if err != nil {
			return Policy{}, false, &ConfigurationError{
				Scope:  scopeName(scope),
				Reason: err.Error(),
				Err:    err,
			}
		}

		populated = append(populated, project.Scope{
			Level:  scope.Level,
			Name:   scope.Name,
			Custom: map[string]any{ConfigKey: value},
		})
	}

	return Resolve(populated)
}

func withScope(err error, scope project.Scope) error {
	var cerr *ConfigurationError
	if errors.As(err, &cerr) {
		cerr.Scope = scopeName(scope)

		return cerr
	}

	return &ConfigurationError{Scope: scopeName(scope), Reason: err.Error(), Err: err}
}

func scopeName(scope project.Scope) string {
	return string(scope.Level) + " " + scope.Name
}
