// Package pipeline drives the deployment hooks of a project in the order the
// serverless framework fires them.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/joostfarla/serverless-cors-plugin/internal/hooks"
	"github.com/joostfarla/serverless-cors-plugin/internal/project"
)

// Summary describes a finished run.
type Summary struct {
	// Endpoints is the number of endpoints built, including endpoints added
	// by deploy hooks.
	Endpoints int
	Duration  time.Duration
}

// Pipeline runs the hooks of a registry against a project.
type Pipeline struct {
	log      logrus.FieldLogger
	registry *hooks.Registry
}

// New creates a Pipeline.
func New(log logrus.FieldLogger, registry *hooks.Registry) *Pipeline {
	return &Pipeline{
		log:      log.WithField("component", "pipeline"),
		registry: registry,
	}
}

// Run deploys proj:
//  1. endpointDeploy pre hooks run once.
//  2. endpointBuildApiGateway pre and post hooks run for every endpoint in
//     declaration order.
//  3. endpointDeploy post hooks run once.
//
// The first failing hook aborts the run.
func (p *Pipeline) Run(ctx context.Context, proj *project.Project, opts hooks.Options) (*Summary, error) {
	start := time.Now()

	log := p.log.WithFields(logrus.Fields{
		"project": proj.Name,
		"stage":   opts.Stage,
		"region":  opts.Region,
	})

	hc := &hooks.Context{Project: proj, Options: opts}

	if err := p.registry.Run(ctx, hooks.ActionDeploy, hooks.EventPre, hc); err != nil {
		return nil, fmt.Errorf("%s %s: %w", hooks.ActionDeploy, hooks.EventPre, err)
	}

	// Deploy pre hooks may have added endpoints
	endpoints := proj.AllEndpoints()

	for _, e := range endpoints {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := p.build(ctx, proj, e, opts); err != nil {
			return nil, err
		}
	}

	if err := p.registry.Run(ctx, hooks.ActionDeploy, hooks.EventPost, hc); err != nil {
		return nil, fmt.Errorf("%s %s: %w", hooks.ActionDeploy, hooks.EventPost, err)
	}

	summary := &Summary{
		Endpoints: len(endpoints),
		Duration:  time.Since(start),
	}

	log.WithFields(logrus.Fields{
		"endpoints": summary.Endpoints,
		"duration":  summary.Duration.String(),
	}).Info("Deployment pipeline finished")

	return summary, nil
}

func (p *Pipeline) build(ctx context.Context, proj *project.Project, e *project.Endpoint, opts hooks.Options) error {
	opts.Name = e.Key()

	hc := &hooks.Context{Project: proj, Endpoint: e, Options: opts}

	for _, event := range []hooks.Event{hooks.EventPre, hooks.EventPost} {
		if err := p.registry.Run(ctx, hooks.ActionBuildAPIGateway, event, hc); err != nil {
			return fmt.Errorf("%s %s of %s: %w", hooks.ActionBuildAPIGateway, event, opts.Name, err)
		}
	}

	p.log.WithField("endpoint", opts.Name).Debug("Built endpoint")

	return nil
}
