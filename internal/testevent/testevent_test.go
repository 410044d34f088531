package testevent

import (
	"context"
	"testing"

	types "github.com/eagraf/fnconsole/core/api"
	"github.com/eagraf/fnconsole/internal/gateway"
	"github.com/eagraf/fnconsole/internal/gateway/mocks"
	"github.com/eagraf/fnconsole/internal/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupHarness(t *testing.T) (*Harness, *mocks.MockGateway) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockGateway(ctrl)

	l, err := lifecycle.NewFromFunction(gw, &types.Function{
		FunctionRef: types.FunctionRef{
			FunctionName: "enrich",
			Repo:         "functions",
			Owner:        "memphisdev",
			Branch:       "main",
			SCM:          "github",
		},
		IsValid:          true,
		Installed:        true,
		InstalledVersion: "v1.0.0",
	}, nil)
	require.Nil(t, err)
	return New(l), gw
}

func TestRun(t *testing.T) {
	h, gw := setupHarness(t)
	assert.Equal(t, DefaultEvent, h.Content())

	h.SetContent(`{"id": 7}`)
	h.SetHeader("x-tenant", "acme")

	gw.EXPECT().Test(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, req *types.TestFunctionRequest) (*types.TestFunctionResponse, error) {
			assert.Equal(t, "enrich", req.FunctionName)
			assert.Equal(t, "v1.0.0", req.FunctionVersion)
			assert.Equal(t, "github", req.SCMType)
			assert.Equal(t, `{"id": 7}`, req.TestEvent.Content)
			assert.Equal(t, map[string]string{"x-tenant": "acme"}, req.TestEvent.Headers)
			assert.True(t, h.Running())
			return &types.TestFunctionResponse{Success: true, Output: `{"id": 7, "enriched": true}`, Logs: []string{}}, nil
		})

	res, err := h.Run(context.Background())
	require.Nil(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, res, h.Result())
	assert.False(t, h.Running())

	// Reopening clears the result but keeps the event.
	h.Open()
	assert.Nil(t, h.Result())
	assert.Equal(t, `{"id": 7}`, h.Content())
}

func TestRunFailure(t *testing.T) {
	h, gw := setupHarness(t)

	gw.EXPECT().Test(gomock.Any(), gomock.Any()).Return(nil, &gateway.RequestFailedError{Op: "test function", StatusCode: 500})

	_, err := h.Run(context.Background())
	assert.ErrorIs(t, err, gateway.ErrRequestFailed)
	assert.Nil(t, h.Result())
	assert.False(t, h.Running())
}
