package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	types "github.com/eagraf/fnconsole/core/api"
	"github.com/eagraf/fnconsole/internal/constants"
	"github.com/google/uuid"
	"github.com/qri-io/jsonschema"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds client configuration.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	AuthToken string
	Logger    *zerolog.Logger
	// HTTPClient replaces the default transport, mostly for tests.
	HTTPClient *http.Client
}

// Client is the HTTP implementation of Gateway.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zerolog.Logger

	mu        sync.RWMutex
	authToken string
}

var _ Gateway = (*Client)(nil)

func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = constants.DefaultRequestTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = &log.Logger
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		}
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: httpClient,
		logger:     cfg.Logger,
		authToken:  cfg.AuthToken,
	}
}

// SetAuthToken sets the bearer token for requests.
func (c *Client) SetAuthToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authToken = token
}

func (c *Client) applyAuth(req *http.Request) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
}

func refQuery(ref types.FunctionRef) url.Values {
	q := url.Values{}
	q.Set("repo", ref.Repo)
	q.Set("branch", ref.Branch)
	q.Set("owner", ref.Owner)
	q.Set("scm", ref.SCM)
	q.Set("function_name", ref.FunctionName)
	return q
}

func (c *Client) ListFunctions(ctx context.Context) (*types.GetAllFunctionsResponse, error) {
	var resp types.GetAllFunctionsResponse
	err := c.do(ctx, "list functions", http.MethodGet, constants.EndpointGetAllFunctions, nil, nil, listFunctionsSchema, &resp)
	if err != nil {
		return nil, err
	}
	resp.Installed = defaultFunctions(resp.Installed)
	resp.Other = defaultFunctions(resp.Other)
	return &resp, nil
}

func (c *Client) Install(ctx context.Context, req *types.InstallFunctionRequest) error {
	return c.do(ctx, "install function", http.MethodPost, constants.EndpointInstallFunction, nil, req, nil, nil)
}

func (c *Client) Uninstall(ctx context.Context, req *types.UninstallFunctionRequest) error {
	return c.do(ctx, "uninstall function", http.MethodDelete, constants.EndpointUninstallFunction, nil, req, nil, nil)
}

func (c *Client) FetchDetails(ctx context.Context, ref types.FunctionRef) (*types.GetFunctionDetailsResponse, error) {
	var resp types.GetFunctionDetailsResponse
	err := c.do(ctx, "get function details", http.MethodGet, constants.EndpointGetFunctionDetails, refQuery(ref), nil, functionDetailsSchema, &resp)
	if err != nil {
		return nil, err
	}
	defaultFunction(resp.Metadata)
	if resp.Versions == nil {
		resp.Versions = make([]string, 0)
	}
	if resp.ObjectKeys == nil {
		resp.ObjectKeys = make([]string, 0)
	}
	return &resp, nil
}

func (c *Client) FetchFileContent(ctx context.Context, ref types.FunctionRef, path string) (string, error) {
	q := refQuery(ref)
	q.Set("path", path)

	var resp types.GetFunctionFileCodeResponse
	err := c.do(ctx, "get function file", http.MethodGet, constants.EndpointGetFunctionFileCode, q, nil, fileCodeSchema, &resp)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

func (c *Client) Test(ctx context.Context, req *types.TestFunctionRequest) (*types.TestFunctionResponse, error) {
	var resp types.TestFunctionResponse
	err := c.do(ctx, "test function", http.MethodPost, constants.EndpointTestFunction, nil, req, testFunctionSchema, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Logs == nil {
		resp.Logs = make([]string, 0)
	}
	return &resp, nil
}

// do performs a single request. When dest is set the response body is validated
// against schema and decoded into it.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body interface{}, schema *jsonschema.Schema, dest interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		marshaled, err := json.Marshal(body)
		if err != nil {
			return &RequestFailedError{Op: op, Err: err}
		}
		reqBody = bytes.NewReader(marshaled)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return &RequestFailedError{Op: op, Err: err}
	}
	requestID := uuid.New().String()
	req.Header.Set(constants.HeaderRequestID, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.applyAuth(req)

	c.logger.Debug().Str("request_id", requestID).Msgf("%s %s", method, endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RequestFailedError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestFailedError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn().Str("request_id", requestID).Msgf("%s failed with status %d", op, resp.StatusCode)
		return &RequestFailedError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(respBody),
		}
	}

	if dest == nil {
		return nil
	}
	err = decodeValidated(respBody, schema, dest)
	if err != nil {
		return &RequestFailedError{Op: op, Err: fmt.Errorf("invalid response body: %w", err)}
	}
	return nil
}

// errorMessage extracts the backend's error message, which is either a JSON object
// with a message field or plain text.
func errorMessage(body []byte) string {
	var msg struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &msg); err == nil && msg.Message != "" {
		return msg.Message
	}
	return strings.TrimSpace(string(body))
}
