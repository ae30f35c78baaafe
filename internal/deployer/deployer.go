// Package deployer reconciles synthesized preflight endpoints against a live
// API Gateway REST API.
package deployer

//go:generate mockgen -package mocks -destination mocks/mock_deployer.go github.com/joostfarla/serverless-cors-plugin/internal/deployer Deployer

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigateway"
	"github.com/aws/aws-sdk-go-v2/service/apigateway/types"
	"github.com/sirupsen/logrus"

	"github.com/joostfarla/serverless-cors-plugin/internal/cors"
	"github.com/joostfarla/serverless-cors-plugin/internal/gateway"
	"github.com/joostfarla/serverless-cors-plugin/internal/lock"
	"github.com/joostfarla/serverless-cors-plugin/internal/preflight"
	"github.com/joostfarla/serverless-cors-plugin/internal/project"
)

const (
	// DefaultDescription is the description of created deployments.
	DefaultDescription = "Serverless deployment"

	statusOK          = "200"
)

// ErrMissingRestAPIID is returned when a target has no REST API ID.
var ErrMissingRestAPIID = errors.New("rest API ID is required")

// Compile-time interface compliance check.
var _ Deployer = (*deployer)(nil)

// Target identifies the REST API stage to reconcile.
type Target struct {
	RestAPIID string
	Stage     string
}

// Result summarises a reconciliation.
type Result struct {
	// Applied lists the paths whose OPTIONS method was provisioned.
	Applied []string
	// Skipped lists the paths without a matching gateway resource.
	Skipped      []string
	DeploymentID string
}

// Config holds deployer configuration.
type Config struct {
	Description string
}

// Deployer provisions preflight endpoints on API Gateway.
type Deployer interface {
	Reconcile(ctx context.Context, preflights []*preflight.Preflight, target Target) (*Result, error)
}

type deployer struct {
	log    logrus.FieldLogger
	cfg    Config
	client gateway.Client
	locker lock.Locker
}

// New creates a Deployer.
func New(log logrus.FieldLogger, cfg Config, client gateway.Client, locker lock.Locker) Deployer {
	if cfg.Description == "" {
		cfg.Description = DefaultDescription
	}

	return &deployer{
		log:    log.WithField("component", "deployer"),
		cfg:    cfg,
		client: client,
		locker: locker,
	}
}

// Reconcile replaces the OPTIONS method of every preflight path, strictly
// sequentially, and creates one stage deployment when at least one path was
// applied. The first gateway error aborts the run.
func (d *deployer) Reconcile(
	ctx context.Context,
	preflights []*preflight.Preflight,
	target Target,
) (result *Result, err error) {
	result = &Result{}

	if len(preflights) == 0 {
		return result, nil
	}

	if target.RestAPIID == "" {
		return nil, ErrMissingRestAPIID
	}

	if err := d.locker.Acquire(ctx, target.RestAPIID, target.Stage); err != nil {
		return nil, err
	}

	defer func() {
		if releaseErr := d.locker.Release(context.WithoutCancel(ctx)); releaseErr != nil {
			d.log.WithError(releaseErr).Warn("Failed to release deployment lock")

			if err == nil {
				err = releaseErr
			}
		}
	}()

	resources, err := d.client.GetResources(ctx, target.RestAPIID)
	if err != nil {
		return nil, err
	}

	byPath := make(map[string]types.Resource, len(resources))
	for _, r := range resources {
		byPath[aws.ToString(r.Path)] = r
	}

	for _, p := range preflights {
		resource, ok := byPath["/"+p.Path]
		if !ok {
			d.log.WithField("path", p.Path).Warn("No API Gateway resource for path, skipping preflight")

			result.Skipped = append(result.Skipped, p.Path)

			continue
		}

		if err := d.apply(ctx, target.RestAPIID, aws.ToString(resource.Id), p); err != nil {
			return nil, err
		}

		result.Applied = append(result.Applied, p.Path)
	}

	if len(result.Applied) == 0 {
		d.log.Info("No preflight endpoints applied, skipping deployment")

		return result, nil
	}

	id, err := d.client.CreateDeployment(ctx, &apigateway.CreateDeploymentInput{
		RestApiId:        aws.String(target.RestAPIID),
		StageName:        aws.String(target.Stage),
		StageDescription: aws.String(target.Stage),
		Description:      aws.String(d.cfg.Description),
		Variables:        map[string]string{"functionAlias": target.Stage},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to deploy stage %s: %w", target.Stage, err)
	}

	result.DeploymentID = id

	d.log.WithFields(logrus.Fields{
		"rest_api_id":   target.RestAPIID,
		"stage":         target.Stage,
		"deployment_id": id,
		"applied":       len(result.Applied),
	}).Info("Deployed preflight endpoints")

	return result, nil
}

func (d *deployer) apply(ctx context.Context, restAPIID, resourceID string, p *preflight.Preflight) error {
	log := d.log.WithFields(logrus.Fields{
		"path":        p.Path,
		"resource_id": resourceID,
	})

	err := d.client.DeleteMethod(ctx, &apigateway.DeleteMethodInput{
		RestApiId:  aws.String(restAPIID),
		ResourceId: aws.String(resourceID),
		HttpMethod: aws.String(project.MethodOptions),
	})
	if err != nil && !gateway.IsNotFound(err) {
		return fmt.Errorf("failed to delete OPTIONS method of /%s: %w", p.Path, err)
	}

	params := p.PathParameters()
	methodParams := make(map[string]bool, len(params))
	integrationParams := make(map[string]string, len(params))

	for _, name := range params {
		methodParams["method.request.path."+name] = true
		integrationParams["integration.request.path."+name] = "method.request.path." + name
	}

	err = d.client.PutMethod(ctx, &apigateway.PutMethodInput{
		RestApiId:         aws.String(restAPIID),
		ResourceId:        aws.String(resourceID),
		HttpMethod:        aws.String(project.MethodOptions),
		AuthorizationType: aws.String(preflight.AuthorizationType),
		RequestParameters: methodParams,
	})
	if err != nil {
		return fmt.Errorf("failed to create OPTIONS method of /%s: %w", p.Path, err)
	}

	err = d.client.PutIntegration(ctx, &apigateway.PutIntegrationInput{
		RestApiId:         aws.String(restAPIID),
		ResourceId:        aws.String(resourceID),
		HttpMethod:        aws.String(project.MethodOptions),
		Type:              types.IntegrationTypeMock,
		RequestParameters: integrationParams,
		RequestTemplates:  map[string]string{preflight.ContentType: preflight.RequestTemplate},
	})
	if err != nil {
		return fmt.Errorf("failed to create integration of /%s: %w", p.Path, err)
	}

	headers := p.Headers()

	// Method responses declare which headers exist, not their values.
	declared := make(map[string]bool, len(headers))
	for key := range headers {
		declared[key] = key == cors.ResponseParameter(cors.HeaderAllowMethods)
	}

	err = d.client.PutMethodResponse(ctx, &apigateway.PutMethodResponseInput{
		RestApiId:          aws.String(restAPIID),
		ResourceId:         aws.String(resourceID),
		HttpMethod:         aws.String(project.MethodOptions),
		StatusCode:         aws.String(statusOK),
		ResponseParameters: declared,
	})
	if err != nil {
		return fmt.Errorf("failed to create method response of /%s: %w", p.Path, err)
	}

	err = d.client.PutIntegrationResponse(ctx, &apigateway.PutIntegrationResponseInput{
		RestApiId:          aws.String(restAPIID),
		ResourceId:         aws.String(resourceID),
		HttpMethod:         aws.String(project.MethodOptions),
		StatusCode:         aws.String(statusOK),
		ResponseParameters: maps.Clone(headers),
	})
	if err != nil {
		return fmt.Errorf("failed to create integration response of /%s: %w", p.Path, err)
	}

	log.WithField("methods", p.AllowMethods).Debug("Provisioned preflight method")

	return nil
}
