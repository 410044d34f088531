// Package gateway is the client side of the backend's function endpoints.
package gateway

import (
	"context"

	types "github.com/eagraf/fnconsole/core/api"
)

//go:generate mockgen -source=gateway.go -destination=mocks/mock_gateway.go -package=mocks

// Gateway is every backend operation the function lifecycle, the marketplace and the
// details view depend on. Each call is a single attempt; any failure is reported as a
// *RequestFailedError.
type Gateway interface {
	ListFunctions(ctx context.Context) (*types.GetAllFunctionsResponse, error)
	// Install enqueues an install (or update) job. Success means the job was accepted.
	Install(ctx context.Context, req *types.InstallFunctionRequest) error
	Uninstall(ctx context.Context, req *types.UninstallFunctionRequest) error
	FetchDetails(ctx context.Context, ref types.FunctionRef) (*types.GetFunctionDetailsResponse, error)
	FetchFileContent(ctx context.Context, ref types.FunctionRef, path string) (string, error)
	Test(ctx context.Context, req *types.TestFunctionRequest) (*types.TestFunctionResponse, error)
}
