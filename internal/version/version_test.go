package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	info := Get()

	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GitCommit)
	assert.NotEmpty(t, info.BuildDate)
}

func TestShort(t *testing.T) {
	assert.Equal(t, Version, Short())
}

func TestFull(t *testing.T) {
	result := Full()
	assert.Contains(t, result, Version)
	assert.Contains(t, result, GitCommit)
	assert.Contains(t, result, BuildDate)
	assert.Contains(t, result, "commit:")
	assert.Contains(t, result, "built:")
}

func TestAppID(t *testing.T) {
	original := Version

	t.Cleanup(func() { Version = original })

	tests := []struct {
		version  string
		expected string
	}{
		{version: "dev", expected: "serverless-cors/dev"},
		{version: "v1.2.3", expected: "serverless-cors/v1.2.3"},
		{version: "v1.2.3 (dirty)", expected: "serverless-cors/v1.2.3--dirty-"},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			Version = tt.version

			assert.Equal(t, tt.expected, AppID())
		})
	}
}
