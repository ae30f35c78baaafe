package project

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"strings"
)

// ErrUndefinedVariable is returned when a placeholder references a variable
// that is not defined for the stage and region being populated.
var ErrUndefinedVariable = errors.New("undefined variable")

var placeholderPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// VariablesFor returns the variables visible to a stage and region. Region
// variables override stage variables, which override project variables.
func (p *Project) VariablesFor(stage, region string) map[string]any {
	vars := make(map[string]any, len(p.Variables))
	maps.Copy(vars, p.Variables)

	s, ok := p.Stages[stage]
	if !ok || s == nil {
		return vars
	}

	maps.Copy(vars, s.Variables)

	if r, ok := s.Regions[region]; ok && r != nil {
		maps.Copy(vars, r.Variables)
	}

	return vars
}

// Populate returns a deep copy of value with every ${name} placeholder in
// its strings replaced. A string consisting of exactly one placeholder takes
// the variable's value as-is, so lists and booleans survive population.
func Populate(value any, vars map[string]any) (any, error) {
	switch v := value.(type) {
	case string:
		return populateString(v, vars)
	case map[string]any:
		out := make(map[string]any, len(v))

		for key, item := range v {
			populated, err := Populate(item, vars)
			if err != nil {
				return nil, err
			}

			out[key] = populated
		}

		return out, nil
	case []any:
		out := make([]any, len(v))

		for i, item := range v {
			populated, err := Populate(item, vars)
			if err != nil {
				return nil, err
			}

			out[i] = populated
		}

		return out, nil
	default:
		return value, nil
	}
}

func populateString(s string, vars map[string]any) (any, error) {
	matches := placeholderPattern.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s, nil
	}

	// Whole-value placeholder keeps the variable's type.
	if len(matches) == 1 && matches[0][0] == 0 && matches[0][1] == len(s) {
		name := strings.TrimSpace(s[matches[0][2]:matches[0][3]])

		value, ok := vars[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUndefinedVariable, name)
		}

		return value, nil
	}

	var (
		b    strings.Builder
		last int
	)

	for _, m := range matches {
		name := strings.TrimSpace(s[m[2]:m[3]])

		value, ok := vars[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUndefinedVariable, name)
		}

		b.WriteString(s[last:m[0]])
		fmt.Fprint(&b, value)

		last = m[1]
	}

	b.WriteString(s[last:])

	return b.String(), nil
}
