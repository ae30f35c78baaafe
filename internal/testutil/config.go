package testutil

import (
	"github.com/joostfarla/serverless-cors-plugin/internal/config"
)

// NewTestConfig returns a minimal valid config for testing.
func NewTestConfig() *config.Config {
	cfg := &config.Config{
		LogLevel: "info",
		Plugin:   config.PluginConfig{Mode: config.ModeModel},
		Deploy: config.DeployConfig{
			Stage:  "dev",
			Region: "eu-west-1",
			All:    true,
		},
	}

	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	return cfg
}
