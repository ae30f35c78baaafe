package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joostfarla/serverless-cors-plugin/internal/project"
)

// NewTestProject parses a YAML project definition, failing the test on error.
func NewTestProject(t *testing.T, data string) *project.Project {
	t.Helper()

	p, err := project.Parse([]byte(data))
	require.NoError(t, err)

	return p
}
