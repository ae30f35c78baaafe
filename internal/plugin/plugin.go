// Package plugin implements the CORS plugin: it adds CORS response headers to
// every endpoint and delivers preflight endpoints either through the project
// model or directly to API Gateway.
package plugin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/joostfarla/serverless-cors-plugin/internal/cors"
	"github.com/joostfarla/serverless-cors-plugin/internal/deployer"
	"github.com/joostfarla/serverless-cors-plugin/internal/hooks"
	"github.com/joostfarla/serverless-cors-plugin/internal/metrics"
	"github.com/joostfarla/serverless-cors-plugin/internal/preflight"
	"github.com/joostfarla/serverless-cors-plugin/internal/project"
)

// Name is the registered plugin name.
const Name = "com.joostfarla.ServerlessCors"

// Delivery modes of preflight endpoints.
const (
	ModeModel      = "model"
	ModeAPIGateway = "apigateway"
)

// Hook names.
const (
	HookAddCorsHeaders          = "addCorsHeaders"
	HookAddPreflightRequests    = "addPreflightRequests"
	HookDeployPreflightRequests = "deployPreflightRequests"
)

var (
	// ErrUnknownMode is returned for an unsupported delivery mode.
	ErrUnknownMode = errors.New("unknown plugin mode")
	// ErrDeployerRequired is returned when API Gateway mode has no deployer.
	ErrDeployerRequired = errors.New("API Gateway mode requires a deployer")
)

// Compile-time interface compliance check.
var _ hooks.Plugin = (*Plugin)(nil)

// Config holds plugin configuration.
type Config struct {
	Mode string
	// RestAPIID overrides the REST API ID recorded in the project.
	RestAPIID string
}

// Plugin is the CORS plugin.
type Plugin struct {
	log      logrus.FieldLogger
	cfg      Config
	deployer deployer.Deployer
}

// New creates the plugin. d is only used in API Gateway mode and may be nil
// otherwise.
func New(log logrus.FieldLogger, cfg Config, d deployer.Deployer) *Plugin {
	return &Plugin{
		log:      log.WithField("component", "plugin"),
		cfg:      cfg,
		deployer: d,
	}
}

// Name returns the plugin name.
func (p *Plugin) Name() string {
	return Name
}

// RegisterHooks registers the hooks of the configured mode.
func (p *Plugin) RegisterHooks(r *hooks.Registry) error {
	switch p.cfg.Mode {
	case ModeModel:
		r.AddHook(hooks.ActionDeploy, hooks.EventPre, HookAddPreflightRequests, p.AddPreflightRequests)
	case ModeAPIGateway:
		if p.deployer == nil {
			return ErrDeployerRequired
		}

		r.AddHook(hooks.ActionDeploy, hooks.EventPost, HookDeployPreflightRequests, p.DeployPreflightRequests)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, p.cfg.Mode)
	}

	r.AddHook(hooks.ActionBuildAPIGateway, hooks.EventPre, HookAddCorsHeaders, p.AddCorsHeaders)

	return nil
}

// AddCorsHeaders adds the CORS response headers of the endpoint being built.
// Endpoints without a CORS policy are left untouched.
func (p *Plugin) AddCorsHeaders(_ context.Context, hc *hooks.Context) error {
	e := hc.Endpoint
	if e == nil {
		var err error

		e, err = hc.Project.Endpoint(hc.Options.Name)
		if err != nil {
			return err
		}
	}

	if strings.EqualFold(e.Method, project.MethodOptions) {
		return nil
	}

	log := p.log.WithField("endpoint", e.Key())

	policy, enabled, err := p.resolver(hc).ResolveEndpoint(e)
	if err != nil {
		metrics.ObserveResolution(metrics.ResolutionInvalid)

		return err
	}

	if !enabled {
		metrics.ObserveResolution(metrics.ResolutionDisabled)
		log.Debug("CORS disabled")

		return nil
	}

	metrics.ObserveResolution(metrics.ResolutionEnabled)

	if cors.ApplyResponseHeaders(e, policy) {
		log.WithField("allow_origin", policy.AllowOrigin).Debug("Added CORS response headers")
	}

	return nil
}

// AddPreflightRequests adds a preflight endpoint for every CORS enabled path
// to the function owning the path's first CORS enabled endpoint.
func (p *Plugin) AddPreflightRequests(_ context.Context, hc *hooks.Context) error {
	preflights, err := p.synthesize(hc)
	if err != nil {
		return err
	}

	for _, pf := range preflights {
		pf.Function.SetEndpoint(pf.Endpoint)

		p.log.WithFields(logrus.Fields{
			"path":     pf.Path,
			"function": pf.Function.Key(),
			"methods":  pf.AllowMethods,
		}).Debug("Added preflight endpoint")
	}

	metrics.ObservePreflights(ModeModel, len(preflights))

	if len(preflights) > 0 {
		p.log.WithField("count", len(preflights)).Info("Added preflight endpoints")
	}

	return nil
}

// DeployPreflightRequests provisions a preflight method for every CORS
// enabled path on API Gateway and deploys the stage.
func (p *Plugin) DeployPreflightRequests(ctx context.Context, hc *hooks.Context) error {
	preflights, err := p.synthesize(hc)
	if err != nil {
		return err
	}

	if len(preflights) == 0 {
		return nil
	}

	target := deployer.Target{
		RestAPIID: p.cfg.RestAPIID,
		Stage:     hc.Options.Stage,
	}

	if target.RestAPIID == "" {
		target.RestAPIID = hc.Project.RestAPIID(hc.Options.Stage, hc.Options.Region)
	}

	result, err := p.deployer.Reconcile(ctx, preflights, target)
	if err != nil {
		return fmt.Errorf("failed to deploy preflight endpoints: %w", err)
	}

	metrics.ObservePreflights(ModeAPIGateway, len(result.Applied))

	return nil
}

func (p *Plugin) resolver(hc *hooks.Context) *cors.Resolver {
	return cors.NewResolver(hc.Project.VariablesFor(hc.Options.Stage, hc.Options.Region))
}

func (p *Plugin) synthesize(hc *hooks.Context) ([]*preflight.Preflight, error) {
	s := preflight.NewSynthesizer(p.log, p.resolver(hc), hc.Project.EndpointTemplate)

	return s.Synthesize(hc.Project.AllEndpoints(), preflight.Options{All: hc.Options.All})
}
