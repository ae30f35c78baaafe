package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/joostfarla/serverless-cors-plugin/internal/config"
	"github.com/joostfarla/serverless-cors-plugin/internal/deployer"
	"github.com/joostfarla/serverless-cors-plugin/internal/gateway"
	"github.com/joostfarla/serverless-cors-plugin/internal/hooks"
	"github.com/joostfarla/serverless-cors-plugin/internal/lock"
	"github.com/joostfarla/serverless-cors-plugin/internal/metrics"
	"github.com/joostfarla/serverless-cors-plugin/internal/pipeline"
	"github.com/joostfarla/serverless-cors-plugin/internal/plugin"
	"github.com/joostfarla/serverless-cors-plugin/internal/project"
	"github.com/joostfarla/serverless-cors-plugin/internal/redis"
	"github.com/joostfarla/serverless-cors-plugin/internal/version"
)

// flags holds the command-line flags. Flags that are set override the
// configuration file and environment.
type flags struct {
	configPath  string
	projectPath string
	outPath     string
	stage       string
	region      string
	all         bool
	showVersion bool
	set         map[string]bool
}

// infrastructure holds components that must be stopped on exit.
type infrastructure struct {
	redisClient redis.Client
	locker      lock.Locker
}

func main() {
	f := parseFlags()

	if f.showVersion {
		fmt.Println(version.Full()) //nolint:forbidigo // CLI output.

		return
	}

	// Setup logger
	logger := setupLogger()

	// Cancel the run on interrupt. Hooks stop between steps and every
	// AWS and Redis call receives the context.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, f); err != nil {
		stop()
		logger.WithError(err).Fatal("Deployment failed")
	}
}

func parseFlags() *flags {
	f := &flags{}

	flag.StringVar(&f.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&f.projectPath, "project", "project.yaml", "Path to the project definition")
	flag.StringVar(&f.outPath, "out", "", "Path the deployed project definition is written to (default: -project)")
	flag.StringVar(&f.stage, "stage", "", "Stage to deploy")
	flag.StringVar(&f.region, "region", "", "Region to deploy")
	flag.BoolVar(&f.all, "all", false, "Add preflight endpoints for every CORS enabled path")
	flag.BoolVar(&f.showVersion, "version", false, "Print version and exit")
	flag.Parse()

	f.set = make(map[string]bool)
	flag.Visit(func(fl *flag.Flag) {
		f.set[fl.Name] = true
	})

	if f.outPath == "" {
		f.outPath = f.projectPath
	}

	return f
}

// setupLogger creates and configures the application logger.
func setupLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})

	logger.WithFields(logrus.Fields{
		"version":    version.Short(),
		"git_commit": version.GitCommit,
		"build_date": version.BuildDate,
	}).Info("Starting...")

	return logger
}

func run(ctx context.Context, logger *logrus.Logger, f *flags) error {
	cfg, err := loadAndValidateConfig(logger, f)
	if err != nil {
		return err
	}

	proj, err := project.Load(f.projectPath)
	if err != nil {
		return fmt.Errorf("load project: %w", err)
	}

	infra, err := setupInfrastructure(ctx, logger, cfg)
	if err != nil {
		return fmt.Errorf("infrastructure setup: %w", err)
	}

	defer infra.stop(logger)

	registry, err := setupPlugins(ctx, logger, cfg, infra)
	if err != nil {
		return fmt.Errorf("plugin setup: %w", err)
	}

	summary, runErr := pipeline.New(logger, registry).Run(ctx, proj, hooks.Options{
		Stage:  cfg.Deploy.Stage,
		Region: cfg.Deploy.Region,
		All:    cfg.Deploy.All,
	})

	// Metrics are written for failed runs too
	writeMetrics(logger, cfg)

	if runErr != nil {
		return runErr
	}

	if err := proj.Save(f.outPath); err != nil {
		return fmt.Errorf("save project: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"out":       f.outPath,
		"endpoints": summary.Endpoints,
		"duration":  summary.Duration.String(),
	}).Info("Project deployed")

	return nil
}

// loadAndValidateConfig loads the configuration, applies flag overrides and
// validates the result.
func loadAndValidateConfig(logger *logrus.Logger, f *flags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if f.set["stage"] {
		cfg.Deploy.Stage = f.stage
	}

	if f.set["region"] {
		cfg.Deploy.Region = f.region
	}

	if f.set["all"] {
		cfg.Deploy.All = f.all
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	logger.SetLevel(level)

	logger.WithFields(logrus.Fields{
		"mode":      cfg.Plugin.Mode,
		"stage":     cfg.Deploy.Stage,
		"region":    cfg.Deploy.Region,
		"all":       cfg.Deploy.All,
		"lock":      cfg.Lock.Enabled,
		"log_level": cfg.LogLevel,
	}).Info("Configuration loaded")

	return cfg, nil
}

// setupInfrastructure connects to Redis and creates the deployment lock when
// locking is enabled.
func setupInfrastructure(ctx context.Context, logger *logrus.Logger, cfg *config.Config) (*infrastructure, error) {
	if !cfg.Lock.Enabled {
		return &infrastructure{locker: lock.NewNoop()}, nil
	}

	redisClient := redis.NewClient(logger, redis.Config{
		Address:      cfg.Redis.Address,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolSize:     cfg.Redis.PoolSize,
	})

	if err := redisClient.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start Redis client: %w", err)
	}

	locker := lock.NewLocker(logger, lock.Config{
		KeyPrefix:     cfg.Lock.KeyPrefix,
		TTL:           cfg.Lock.TTL,
		RetryInterval: cfg.Lock.RetryInterval,
		WaitTimeout:   cfg.Lock.WaitTimeout,
	}, redisClient)

	return &infrastructure{redisClient: redisClient, locker: locker}, nil
}

func (i *infrastructure) stop(logger *logrus.Logger) {
	if i.redisClient == nil {
		return
	}

	if err := i.redisClient.Stop(); err != nil {
		logger.WithError(err).Error("Error stopping Redis client")
	}
}

// setupPlugins registers the CORS plugin. The API Gateway client is only
// created in apigateway mode.
func setupPlugins(
	ctx context.Context,
	logger *logrus.Logger,
	cfg *config.Config,
	infra *infrastructure,
) (*hooks.Registry, error) {
	var d deployer.Deployer

	if cfg.Plugin.Mode == config.ModeAPIGateway {
		client, err := gateway.New(ctx, logger, gateway.Config{
			Region:          cfg.Deploy.Region,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			SessionToken:    cfg.AWS.SessionToken,
			Endpoint:        cfg.AWS.Endpoint,
			PageSize:        cfg.Deploy.ResourcePageSize,
			AppID:           version.AppID(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create API Gateway client: %w", err)
		}

		d = deployer.New(logger, deployer.Config{Description: cfg.Deploy.Description}, client, infra.locker)
	}

	registry := hooks.NewRegistry(logger)

	p := plugin.New(logger, plugin.Config{
		Mode:      cfg.Plugin.Mode,
		RestAPIID: cfg.Deploy.RestAPIID,
	}, d)

	if err := registry.AddPlugin(p); err != nil {
		return nil, err
	}

	logger.WithField("plugins", registry.Plugins()).Info("Plugins registered")

	return registry, nil
}

func writeMetrics(logger *logrus.Logger, cfg *config.Config) {
	if cfg.Metrics.Textfile == "" {
		return
	}

	if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		logger.WithError(err).Warn("Failed to write metrics textfile")

		return
	}

	logger.WithField("path", cfg.Metrics.Textfile).Debug("Metrics written")
}
