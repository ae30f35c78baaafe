// Package gateway wraps the AWS API Gateway operations needed to
// provision preflight mock methods.
package gateway

//go:generate mockgen -package mocks -destination mocks/mock_client.go github.com/joostfarla/serverless-cors-plugin/internal/gateway Client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/apigateway"
	"github.com/aws/aws-sdk-go-v2/service/apigateway/types"
	"github.com/aws/smithy-go"
	"github.com/sirupsen/logrus"

	"github.com/joostfarla/serverless-cors-plugin/internal/metrics"
)

// Compile-time interface compliance check.
var _ Client = (*client)(nil)

// Client provisions methods on an API Gateway REST API.
type Client interface {
	GetResources(ctx context.Context, restAPIID string) ([]types.Resource, error)
	DeleteMethod(ctx context.Context, params *apigateway.DeleteMethodInput) error
	PutMethod(ctx context.Context, params *apigateway.PutMethodInput) error
	PutIntegration(ctx context.Context, params *apigateway.PutIntegrationInput) error
	PutMethodResponse(ctx context.Context, params *apigateway.PutMethodResponseInput) error
	PutIntegrationResponse(ctx context.Context, params *apigateway.PutIntegrationResponseInput) error
	CreateDeployment(ctx context.Context, params *apigateway.CreateDeploymentInput) (string, error)
}

// api is the subset of *apigateway.Client the Client uses.
type api interface {
	apigateway.GetResourcesAPIClient
	DeleteMethod(
		ctx context.Context,
		params *apigateway.DeleteMethodInput,
		optFns ...func(*apigateway.Options),
	) (*apigateway.DeleteMethodOutput, error)
	PutMethod(
		ctx context.Context,
		params *apigateway.PutMethodInput,
		optFns ...func(*apigateway.Options),
	) (*apigateway.PutMethodOutput, error)
	PutIntegration(
		ctx context.Context,
		params *apigateway.PutIntegrationInput,
		optFns ...func(*apigateway.Options),
	) (*apigateway.PutIntegrationOutput, error)
	PutMethodResponse(
		ctx context.Context,
		params *apigateway.PutMethodResponseInput,
		optFns ...func(*apigateway.Options),
	) (*apigateway.PutMethodResponseOutput, error)
	PutIntegrationResponse(
		ctx context.Context,
		params *apigateway.PutIntegrationResponseInput,
		optFns ...func(*apigateway.Options),
	) (*apigateway.PutIntegrationResponseOutput, error)
	CreateDeployment(
		ctx context.Context,
		params *apigateway.CreateDeploymentInput,
		optFns ...func(*apigateway.Options),
	) (*apigateway.CreateDeploymentOutput, error)
}

type client struct {
	log      logrus.FieldLogger
	api      api
	pageSize int32
}

// New loads the AWS configuration and creates a Client.
func New(ctx context.Context, log logrus.FieldLogger, cfg Config) (Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if cfg.AppID != "" {
		opts = append(opts, awsconfig.WithAppID(cfg.AppID))
	}

	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(aws.CredentialsProviderFunc(
			func(context.Context) (aws.Credentials, error) {
				return aws.Credentials{
					AccessKeyID:     cfg.AccessKeyID,
					SecretAccessKey: cfg.SecretAccessKey,
					SessionToken:    cfg.SessionToken,
					Source:          "ServerlessCorsStatic",
				}, nil
			},
		)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	svc := apigateway.NewFromConfig(awsCfg, func(o *apigateway.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return newClient(log, svc, cfg.PageSize), nil
}

func newClient(log logrus.FieldLogger, svc api, pageSize int32) *client {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	return &client{
		log:      log.WithField("component", "apigateway"),
		api:      svc,
		pageSize: pageSize,
	}
}

// GetResources lists every resource of a REST API, following pagination.
func (c *client) GetResources(ctx context.Context, restAPIID string) ([]types.Resource, error) {
	paginator := apigateway.NewGetResourcesPaginator(c.api, &apigateway.GetResourcesInput{
		RestApiId: aws.String(restAPIID),
		Limit:     aws.Int32(c.pageSize),
	})

	var resources []types.Resource

	for paginator.HasMorePages() {
		start := time.Now()
		page, err := paginator.NextPage(ctx)

		metrics.ObserveGatewayRequest("GetResources", err, time.Since(start))

		if err != nil {
			return nil, fmt.Errorf("failed to get resources of REST API %s: %w", restAPIID, err)
		}

		resources = append(resources, page.Items...)
	}

	c.log.WithFields(logrus.Fields{
		"rest_api_id": restAPIID,
		"resources":   len(resources),
	}).Debug("Listed REST API resources")

	return resources, nil
}

// DeleteMethod deletes a method of a resource.
func (c *client) DeleteMethod(ctx context.Context, params *apigateway.DeleteMethodInput) error {
	return observe("DeleteMethod", func() error {
		_, err := c.api.DeleteMethod(ctx, params)

		return err
	})
}

// PutMethod creates a method on a resource.
func (c *client) PutMethod(ctx context.Context, params *apigateway.PutMethodInput) error {
	return observe("PutMethod", func() error {
		_, err := c.api.PutMethod(ctx, params)

		return err
	})
}

// PutIntegration sets up the integration of a method.
func (c *client) PutIntegration(ctx context.Context, params *apigateway.PutIntegrationInput) error {
	return observe("PutIntegration", func() error {
		_, err := c.api.PutIntegration(ctx, params)

		return err
	})
}

// PutMethodResponse declares a response of a method.
func (c *client) PutMethodResponse(ctx context.Context, params *apigateway.PutMethodResponseInput) error {
	return observe("PutMethodResponse", func() error {
		_, err := c.api.PutMethodResponse(ctx, params)

		return err
	})
}

// PutIntegrationResponse maps an integration response onto a method response.
func (c *client) PutIntegrationResponse(ctx context.Context, params *apigateway.PutIntegrationResponseInput) error {
	return observe("PutIntegrationResponse", func() error {
		_, err := c.api.PutIntegrationResponse(ctx, params)

		return err
	})
}

// CreateDeployment deploys the REST API to a stage and returns the
// deployment ID.
func (c *client) CreateDeployment(ctx context.Context, params *apigateway.CreateDeploymentInput) (string, error) {
	var id string

	err := observe("CreateDeployment", func() error {
		out, err := c.api.CreateDeployment(ctx, params)
		if err != nil {
			return err
		}

		id = aws.ToString(out.Id)

		return nil
	})

	return id, err
}

func observe(operation string, fn func() error) error {
	start := time.Now()
	err := fn()

	metrics.ObserveGatewayRequest(operation, err, time.Since(start))

	return err
}

// IsNotFound reports whether err is an API Gateway NotFoundException.
func IsNotFound(err error) bool {
	var nf *types.NotFoundException
	if errors.As(err, &nf) {
		return true
	}

	var apiErr smithy.APIError

	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFoundException"
}
