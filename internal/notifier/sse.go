// Package notifier produces the installation completed signals that move a function
// from installing to installed. SSE listens to the backend's event stream; Poller
// watches the function list when no stream is available.
package notifier

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	types "github.com/eagraf/fnconsole/core/api"
	"github.com/eagraf/fnconsole/internal/constants"
	"github.com/eagraf/fnconsole/internal/jsonstate"
	"github.com/eagraf/fnconsole/internal/pubsub"
	"github.com/qri-io/jsonschema"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var eventSchema = mustCompile(`{
	"type": "object",
	"properties": {
		"function_name": { "type": "string", "minLength": 1 },
		"repo": { "type": "string" },
		"owner": { "type": "string" },
		"branch": { "type": "string" },
		"scm": { "type": "string" },
		"version": { "type": "string" },
		"reason": { "type": "string" }
	},
	"required": [ "function_name", "repo", "owner", "branch" ]
}`)

func mustCompile(raw string) *jsonschema.Schema {
	schema, err := jsonstate.CompileSchema([]byte(raw))
	if err != nil {
		panic(err)
	}
	return schema
}

type SSEConfig struct {
	BaseURL      string
	Path         string
	AuthToken    string
	ReconnectMin time.Duration
	ReconnectMax time.Duration
	Logger       *zerolog.Logger
	HTTPClient   *http.Client
}

// SSE subscribes to the backend's event stream and publishes a completion signal for
// every install result it reports. The connection is re-established with exponential
// backoff until the context is cancelled.
type SSE struct {
	url          string
	httpClient   *http.Client
	reconnectMin time.Duration
	reconnectMax time.Duration
	logger       *zerolog.Logger
	publisher    pubsub.Publisher[types.InstallationCompleted]

	mu        sync.RWMutex
	authToken string
}

func NewSSE(cfg SSEConfig, publisher pubsub.Publisher[types.InstallationCompleted]) *SSE {
	if cfg.Path == "" {
		cfg.Path = constants.EndpointFunctionEvents
	}
	if cfg.ReconnectMin == 0 {
		cfg.ReconnectMin = 1 * time.Second
	}
	if cfg.ReconnectMax == 0 {
		cfg.ReconnectMax = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = &log.Logger
	}
	if cfg.HTTPClient == nil {
		// No timeout, the stream stays open.
		cfg.HTTPClient = &http.Client{}
	}
	return &SSE{
		url:          strings.TrimSuffix(cfg.BaseURL, "/") + cfg.Path,
		httpClient:   cfg.HTTPClient,
		reconnectMin: cfg.ReconnectMin,
		reconnectMax: cfg.ReconnectMax,
		logger:       cfg.Logger,
		publisher:    publisher,
		authToken:    cfg.AuthToken,
	}
}

func (s *SSE) SetAuthToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authToken = token
}

// Run blocks until ctx is cancelled or the publisher is closed.
func (s *SSE) Run(ctx context.Context) error {
	reconnectDelay := s.reconnectMin

	for {
		if ctx.Err() != nil {
			return nil
		}

		received, err := s.connect(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, pubsub.ErrChannelClosed) {
			return nil
		}
		if received {
			reconnectDelay = s.reconnectMin
		}

		s.logger.Error().Err(err).Msgf("event stream connection error, reconnecting in %s", reconnectDelay)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(reconnectDelay):
		}

		reconnectDelay *= 2
		if reconnectDelay > s.reconnectMax {
			reconnectDelay = s.reconnectMax
		}
	}
}

// connect reads one connection until it ends. received reports whether the stream
// got as far as delivering data.
func (s *SSE) connect(ctx context.Context) (received bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	s.mu.RLock()
	token := s.authToken
	s.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("server returned %d", resp.StatusCode)
	}
	s.logger.Info().Msgf("connected to event stream %s", s.url)

	scanner := bufio.NewScanner(resp.Body)
	var eventType string
	var data []string

	for scanner.Scan() {
		line := scanner.Text()

		if line == "" {
			if len(data) > 0 {
				received = true
				err := s.dispatch(eventType, strings.Join(data, "\n"))
				if err != nil {
					return received, err
				}
			}
			eventType = ""
			data = data[:0]
			continue
		}

		if strings.HasPrefix(line, ":") {
			continue
		}
		if strings.HasPrefix(line, "event:") {
			eventType = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		} else if strings.HasPrefix(line, "data:") {
			data = append(data, strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		}
	}

	if err := scanner.Err(); err != nil {
		return received, fmt.Errorf("read: %w", err)
	}
	return received, fmt.Errorf("connection closed")
}

// dispatch publishes one stream event. Unknown or malformed events are logged and
// skipped.
func (s *SSE) dispatch(eventType, data string) error {
	var succeeded bool
	switch eventType {
	case types.EventFunctionInstalled:
		succeeded = true
	case types.EventFunctionInstallFailed:
		succeeded = false
	default:
		s.logger.Debug().Msgf("ignoring event %q", eventType)
		return nil
	}

	err := jsonstate.Validate(eventSchema, []byte(data))
	if err != nil {
		s.logger.Warn().Err(err).Msgf("malformed %s event", eventType)
		return nil
	}
	var event types.InstallationCompleted
	err = json.Unmarshal([]byte(data), &event)
	if err != nil {
		s.logger.Warn().Err(err).Msgf("malformed %s event", eventType)
		return nil
	}
	event.Succeeded = succeeded

	s.logger.Debug().Msgf("%s: %s", eventType, event.FunctionRef.String())
	return s.publisher.PublishEvent(&event)
}
