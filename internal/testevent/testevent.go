// Package testevent is the harness that posts a mock event to an installed function.
package testevent

import (
	"context"
	"sync"

	types "github.com/eagraf/fnconsole/core/api"
	"github.com/eagraf/fnconsole/internal/lifecycle"
)

// DefaultEvent is the sample payload the harness opens with.
const DefaultEvent = `{
    "type": "record",
    "namespace": "com.example",
    "name": "test-schema",
    "fields": [
        { "name": "Master message", "type": "string", "default": "NONE" },
        { "name": "age", "type": "int", "default": "-1" },
        { "name": "phone", "type": "string", "default": "NONE" },
        { "name": "country", "type": "string", "default": "NONE" }
    ]
}`

type Harness struct {
	lifecycle *lifecycle.Lifecycle

	mu      sync.Mutex
	content string
	headers map[string]string
	result  *types.TestFunctionResponse
	running bool
}

func New(l *lifecycle.Lifecycle) *Harness {
	return &Harness{
		lifecycle: l,
		content:   DefaultEvent,
		headers:   make(map[string]string),
	}
}

// Open is called whenever the harness is shown. The previous result is discarded,
// the edited event is kept.
func (h *Harness) Open() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.result = nil
}

func (h *Harness) Content() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.content
}

func (h *Harness) SetContent(content string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.content = content
}

func (h *Harness) SetHeader(key, value string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.headers[key] = value
}

func (h *Harness) Running() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.running
}

func (h *Harness) Result() *types.TestFunctionResponse {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.result
}

// Run posts the current event to the function and keeps the result. A failed call
// leaves no result.
func (h *Harness) Run(ctx context.Context) (*types.TestFunctionResponse, error) {
	h.mu.Lock()
	h.result = nil
	h.running = true
	event := types.TestEvent{
		Headers: make(map[string]string, len(h.headers)),
		Content: h.content,
	}
	for k, v := range h.headers {
		event.Headers[k] = v
	}
	h.mu.Unlock()

	res, err := h.lifecycle.Test(ctx, event)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.running = false
	if err != nil {
		return nil, err
	}
	h.result = res
	return res, nil
}
