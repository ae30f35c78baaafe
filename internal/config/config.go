//nolint:tagliatelle // config keys are snake_case YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "SLS_CORS"

// Plugin modes.
const (
	// ModeModel adds preflight endpoints to the project model before deploy.
	ModeModel = "model"
	// ModeAPIGateway provisions preflight methods on API Gateway after deploy.
	ModeAPIGateway = "apigateway"
)

// Config represents the complete application configuration.
type Config struct {
	LogLevel string        `yaml:"log_level" envconfig:"LOG_LEVEL"`
	Plugin   PluginConfig  `yaml:"plugin"`
	Deploy   DeployConfig  `yaml:"deploy"`
	AWS      AWSConfig     `yaml:"aws"`
	Redis    RedisConfig   `yaml:"redis"`
	Lock     LockConfig    `yaml:"lock"`
	Metrics  MetricsConfig `yaml:"metrics"`
}

// PluginConfig selects how preflight endpoints are delivered.
type PluginConfig struct {
	Mode string `yaml:"mode" envconfig:"MODE"`
}

// DeployConfig describes the deployment target.
type DeployConfig struct {
	Stage  string `yaml:"stage" envconfig:"STAGE"`
	Region string `yaml:"region" envconfig:"REGION"`
	// All enables preflight synthesis for every CORS enabled path.
	All bool `yaml:"all" envconfig:"ALL"`
	// RestAPIID overrides the restApiId of the project's stage region.
	RestAPIID        string `yaml:"rest_api_id" envconfig:"REST_API_ID"`
	Description      string `yaml:"description" envconfig:"DESCRIPTION"`
	ResourcePageSize int32  `yaml:"resource_page_size" envconfig:"RESOURCE_PAGE_SIZE"`
}

// AWSConfig holds AWS credentials and endpoint settings.
type AWSConfig struct {
	AccessKeyID     string `yaml:"access_key_id" envconfig:"ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" envconfig:"SECRET_ACCESS_KEY"` //nolint:gosec // Config field.
	SessionToken    string `yaml:"session_token" envconfig:"SESSION_TOKEN"`         //nolint:gosec // Config field.
	Endpoint        string `yaml:"endpoint" envconfig:"ENDPOINT"`
}

// RedisConfig holds Redis client configuration.
type RedisConfig struct {
	Address      string        `yaml:"address" envconfig:"ADDRESS"`
	Password     string        `yaml:"password" envconfig:"PASSWORD"` //nolint:gosec // Config field.
	DB           int           `yaml:"db" envconfig:"DB"`
	DialTimeout  time.Duration `yaml:"dial_timeout" envconfig:"DIAL_TIMEOUT"`
	ReadTimeout  time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	PoolSize     int           `yaml:"pool_size" envconfig:"POOL_SIZE"`
}

// LockConfig holds deployment lock configuration.
type LockConfig struct {
	Enabled       bool          `yaml:"enabled" envconfig:"ENABLED"`
	KeyPrefix     string        `yaml:"key_prefix" envconfig:"KEY_PREFIX"`
	TTL           time.Duration `yaml:"ttl" envconfig:"TTL"`
	RetryInterval time.Duration `yaml:"retry_interval" envconfig:"RETRY_INTERVAL"`
	WaitTimeout   time.Duration `yaml:"wait_timeout" envconfig:"WAIT_TIMEOUT"`
}

// MetricsConfig holds metrics output configuration.
type MetricsConfig struct {
	// Textfile is written in the Prometheus text format after a run.
	// Empty disables metrics output.
	Textfile string `yaml:"textfile" envconfig:"TEXTFILE"`
}

// Load loads configuration from a YAML file and applies environment
// overrides. An empty path starts from an empty configuration.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	return &cfg, nil
}

// Validate validates the lock configuration and sets defaults.
func (c *LockConfig) Validate() error {
	if c.KeyPrefix == "" {
		c.KeyPrefix = "serverless-cors:lock"
	}

	if c.TTL == 0 {
		c.TTL = 5 * time.Minute
	}

	if c.RetryInterval == 0 {
		c.RetryInterval = 2 * time.Second
	}

	if c.WaitTimeout == 0 {
		c.WaitTimeout = 2 * time.Minute
	}

	if c.TTL < time.Second {
		return fmt.Errorf("ttl must be at least 1 second, got %v", c.TTL)
	}

	if c.RetryInterval <= 0 {
		return fmt.Errorf("retry_interval must be positive")
	}

	if c.WaitTimeout < c.RetryInterval {
		return fmt.Errorf(
			"wait_timeout (%v) must not be shorter than retry_interval (%v)",
			c.WaitTimeout,
			c.RetryInterval,
		)
	}

	return nil
}

// Validate validates the configuration and sets defaults.
func (c *Config) Validate() error {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	validLogLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	if c.Plugin.Mode == "" {
		c.Plugin.Mode = ModeModel
	}

	if c.Plugin.Mode != ModeModel && c.Plugin.Mode != ModeAPIGateway {
		return fmt.Errorf("plugin.mode must be '%s' or '%s'", ModeModel, ModeAPIGateway)
	}

	if err := c.validateDeploy(); err != nil {
		return fmt.Errorf("deploy: %w", err)
	}

	if c.AWS.AccessKeyID != "" && c.AWS.SecretAccessKey == "" {
		return fmt.Errorf("aws.secret_access_key is required when aws.access_key_id is set")
	}

	// Redis is only needed to coordinate concurrent gateway deployments
	if !c.Lock.Enabled {
		return nil
	}

	if c.Plugin.Mode != ModeAPIGateway {
		return fmt.Errorf("lock.enabled requires plugin.mode '%s'", ModeAPIGateway)
	}

	if err := c.Lock.Validate(); err != nil {
		return fmt.Errorf("lock: %w", err)
	}

	if c.Redis.Address == "" {
		return fmt.Errorf("redis.address is required when lock.enabled is set")
	}

	if c.Redis.DB < 0 {
		return fmt.Errorf("redis.db must not be negative")
	}

	if c.Redis.DialTimeout < 0 {
		return fmt.Errorf("redis.dial_timeout must be positive")
	}

	if c.Redis.PoolSize < 0 {
		return fmt.Errorf("redis.pool_size must be positive")
	}

	return nil
}

func (c *Config) validateDeploy() error {
	if c.Deploy.Stage == "" {
		c.Deploy.Stage = "dev"
	}

	if c.Deploy.Region == "" {
		c.Deploy.Region = "us-east-1"
	}

	if c.Deploy.Description == "" {
		c.Deploy.Description = "Serverless deployment"
	}

	if c.Deploy.ResourcePageSize == 0 {
		c.Deploy.ResourcePageSize = 500
	}

	if c.Deploy.ResourcePageSize < 1 || c.Deploy.ResourcePageSize > 500 {
		return fmt.Errorf("resource_page_size must be between 1 and 500, got %d", c.Deploy.ResourcePageSize)
	}

	return nil
}
