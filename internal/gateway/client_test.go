package gateway

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigateway"
	"github.com/aws/aws-sdk-go-v2/service/apigateway/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joostfarla/serverless-cors-plugin/internal/testutil"
)

type fakeAPI struct {
	pages  map[string]*apigateway.GetResourcesOutput
	limits []int32
	calls  []string
	err    error
}

func (f *fakeAPI) GetResources(
	_ context.Context,
	params *apigateway.GetResourcesInput,
	_ ...func(*apigateway.Options),
) (*apigateway.GetResourcesOutput, error) {
	f.limits = append(f.limits, aws.ToInt32(params.Limit))

	if f.err != nil {
		return nil, f.err
	}

	page, ok := f.pages[aws.ToString(params.Position)]
	if !ok {
		return nil, fmt.Errorf("unexpected position %q", aws.ToString(params.Position))
	}

	return page, nil
}

func (f *fakeAPI) DeleteMethod(
	_ context.Context,
	params *apigateway.DeleteMethodInput,
	_ ...func(*apigateway.Options),
) (*apigateway.DeleteMethodOutput, error) {
	f.calls = append(f.calls, "DeleteMethod "+aws.ToString(params.HttpMethod))

	return &apigateway.DeleteMethodOutput{}, f.err
}

func (f *fakeAPI) PutMethod(
	_ context.Context,
	_ *apigateway.PutMethodInput,
	_ ...func(*apigateway.Options),
) (*apigateway.PutMethodOutput, error) {
	f.calls = append(f.calls, "PutMethod")

	return &apigateway.PutMethodOutput{}, f.err
}

func (f *fakeAPI) PutIntegration(
	_ context.Context,
	_ *apigateway.PutIntegrationInput,
	_ ...func(*apigateway.Options),
) (*apigateway.PutIntegrationOutput, error) {
	f.calls = append(f.calls, "PutIntegration")

	return &apigateway.PutIntegrationOutput{}, f.err
}

func (f *fakeAPI) PutMethodResponse(
	_ context.Context,
	_ *apigateway.PutMethodResponseInput,
	_ ...func(*apigateway.Options),
) (*apigateway.PutMethodResponseOutput, error) {
	f.calls = append(f.calls, "PutMethodResponse")

	return &apigateway.PutMethodResponseOutput{}, f.err
}

func (f *fakeAPI) PutIntegrationResponse(
	_ context.Context,
	_ *apigateway.PutIntegrationResponseInput,
	_ ...func(*apigateway.Options),
) (*apigateway.PutIntegrationResponseOutput, error) {
	f.calls = append(f.calls, "PutIntegrationResponse")

	return &apigateway.PutIntegrationResponseOutput{}, f.err
}

func (f *fakeAPI) CreateDeployment(
	_ context.Context,
	params *apigateway.CreateDeploymentInput,
	_ ...func(*apigateway.Options),
) (*apigateway.CreateDeploymentOutput, error) {
	f.calls = append(f.calls, "CreateDeployment "+aws.ToString(params.StageName))

	if f.err != nil {
		return nil, f.err
	}

	return &apigateway.CreateDeploymentOutput{Id: aws.String("dep-1")}, nil
}

func TestClient_GetResources(t *testing.T) {
	ctx := testutil.NewTestContext(t)
	fake := &fakeAPI{
		pages: map[string]*apigateway.GetResourcesOutput{
			"": {
				Items:    []types.Resource{{Id: aws.String("r1"), Path: aws.String("/")}},
				Position: aws.String("page-2"),
			},
			"page-2": {
				Items: []types.Resource{{Id: aws.String("r2"), Path: aws.String("/items")}},
			},
		},
	}

	c := newClient(testutil.NewTestLogger(), fake, 0)

	resources, err := c.GetResources(ctx, "abc123")
	require.NoError(t, err)

	require.Len(t, resources, 2)
	assert.Equal(t, "/items", aws.ToString(resources[1].Path))
	assert.Equal(t, []int32{DefaultPageSize, DefaultPageSize}, fake.limits)
}

func TestClient_GetResources_Error(t *testing.T) {
	fake := &fakeAPI{err: errors.New("throttled")}
	c := newClient(testutil.NewTestLogger(), fake, 25)

	_, err := c.GetResources(testutil.NewTestContext(t), "abc123")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "abc123")
	assert.Equal(t, []int32{25}, fake.limits)
}

func TestClient_Operations(t *testing.T) {
	ctx := testutil.NewTestContext(t)
	fake := &fakeAPI{}
	c := newClient(testutil.NewTestLogger(), fake, 0)

	require.NoError(t, c.DeleteMethod(ctx, &apigateway.DeleteMethodInput{HttpMethod: aws.String("OPTIONS")}))
	require.NoError(t, c.PutMethod(ctx, &apigateway.PutMethodInput{}))
	require.NoError(t, c.PutIntegration(ctx, &apigateway.PutIntegrationInput{}))
	require.NoError(t, c.PutMethodResponse(ctx, &apigateway.PutMethodResponseInput{}))
	require.NoError(t, c.PutIntegrationResponse(ctx, &apigateway.PutIntegrationResponseInput{}))

	id, err := c.CreateDeployment(ctx, &apigateway.CreateDeploymentInput{StageName: aws.String("dev")})
	require.NoError(t, err)
	assert.Equal(t, "dep-1", id)

	assert.Equal(t, []string{
		"DeleteMethod OPTIONS",
		"PutMethod",
		"PutIntegration",
		"PutMethodResponse",
		"PutIntegrationResponse",
		"CreateDeployment dev",
	}, fake.calls)

	t.Run("errors are returned", func(t *testing.T) {
		boom := errors.New("boom")
		failing := newClient(testutil.NewTestLogger(), &fakeAPI{err: boom}, 0)

		assert.ErrorIs(t, failing.PutMethod(ctx, &apigateway.PutMethodInput{}), boom)

		_, err := failing.CreateDeployment(ctx, &apigateway.CreateDeploymentInput{})
		assert.ErrorIs(t, err, boom)
	})
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil", err: nil, expected: false},
		{name: "typed exception", err: &types.NotFoundException{Message: aws.String("Invalid Method identifier")}, expected: true},
		{name: "wrapped typed exception", err: fmt.Errorf("delete: %w", &types.NotFoundException{}), expected: true},
		{name: "generic api error", err: &smithy.GenericAPIError{Code: "NotFoundException"}, expected: true},
		{name: "other api error", err: &smithy.GenericAPIError{Code: "TooManyRequestsException"}, expected: false},
		{name: "plain error", err: errors.New("not found"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFound(tt.err))
		})
	}
}
