package notifier

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	types "github.com/eagraf/fnconsole/core/api"
	"github.com/eagraf/fnconsole/core/state/function"
	"github.com/eagraf/fnconsole/internal/constants"
	"github.com/eagraf/fnconsole/internal/gateway"
	"github.com/eagraf/fnconsole/internal/gateway/mocks"
	"github.com/eagraf/fnconsole/internal/lifecycle"
	"github.com/eagraf/fnconsole/internal/pubsub"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testRef = types.FunctionRef{
	FunctionName: "enrich",
	Repo:         "functions",
	Owner:        "memphisdev",
	Branch:       "main",
	SCM:          "github",
}

type eventRecorder struct {
	mu     sync.Mutex
	events []types.InstallationCompleted
	done   func()
	want   int
}

func (r *eventRecorder) Name() string {
	return "recorder"
}

func (r *eventRecorder) ConsumeEvent(e *types.InstallationCompleted) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *e)
	if r.done != nil && len(r.events) == r.want {
		r.done()
	}
	return nil
}

func (r *eventRecorder) all() []types.InstallationCompleted {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]types.InstallationCompleted{}, r.events...)
}

func TestSSE(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc(constants.EndpointFunctionEvents, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, ": keepalive\n\n")
		fmt.Fprint(w, "event: station_created\ndata: {\"name\": \"orders\"}\n\n")
		fmt.Fprint(w, "event: function_installed\ndata: {\"function_name\": \"enrich\", \"repo\": \"functions\", \"owner\": \"memphisdev\", \"branch\": \"main\", \"scm\": \"github\", \"version\": \"v1.2.0\"}\n\n")
		fmt.Fprint(w, "event: function_install_failed\ndata: {\"function_name\": \"\"}\n\n")
		fmt.Fprint(w, "event: function_install_failed\ndata: {\"function_name\": \"mask\", \"repo\": \"functions\",\ndata: \"owner\": \"acme\", \"branch\": \"main\", \"reason\": \"build failed\"}\n\n")
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	}).Methods(http.MethodGet)

	server := httptest.NewServer(router)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	recorder := &eventRecorder{done: cancel, want: 2}
	publisher := pubsub.NewSimplePublisher[types.InstallationCompleted]()
	publisher.AddSubscriber(recorder)

	sse := NewSSE(SSEConfig{
		BaseURL:   server.URL,
		AuthToken: "token",
	}, publisher)
	require.Nil(t, sse.Run(ctx))

	events := recorder.all()
	require.Len(t, events, 2)

	assert.Equal(t, testRef, events[0].FunctionRef)
	assert.True(t, events[0].Succeeded)
	assert.Equal(t, "v1.2.0", events[0].Version)

	assert.Equal(t, "mask", events[1].FunctionName)
	assert.False(t, events[1].Succeeded)
	assert.Equal(t, "build failed", events[1].Reason)
}

func TestSSEReconnects(t *testing.T) {
	var mu sync.Mutex
	attempts := 0
	router := mux.NewRouter()
	router.HandleFunc(constants.EndpointFunctionEvents, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		attempts++
		attempt := attempts
		mu.Unlock()
		if attempt == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "event: function_installed\ndata: {\"function_name\": \"enrich\", \"repo\": \"functions\", \"owner\": \"memphisdev\", \"branch\": \"main\"}\n\n")
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	})

	server := httptest.NewServer(router)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	recorder := &eventRecorder{done: cancel, want: 1}
	channel := pubsub.NewSimpleChannel[types.InstallationCompleted](1, recorder)
	go channel.Listen(ctx)

	sse := NewSSE(SSEConfig{
		BaseURL:      server.URL,
		ReconnectMin: 10 * time.Millisecond,
	}, channel)
	require.Nil(t, sse.Run(ctx))

	require.Len(t, recorder.all(), 1)
	mu.Lock()
	assert.Equal(t, 2, attempts)
	mu.Unlock()
}

func listing(installed, inProgress bool, version string) *types.GetAllFunctionsResponse {
	f := &types.Function{
		FunctionRef:         testRef,
		IsValid:             true,
		Installed:           installed,
		InstalledInProgress: inProgress,
		InstalledVersion:    version,
	}
	if installed {
		return &types.GetAllFunctionsResponse{Installed: []*types.Function{f}, Other: []*types.Function{}}
	}
	return &types.GetAllFunctionsResponse{Installed: []*types.Function{}, Other: []*types.Function{f}}
}

func TestPoller(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockGateway(ctrl)

	recorder := &eventRecorder{}
	publisher := pubsub.NewSimplePublisher[types.InstallationCompleted]()
	publisher.AddSubscriber(recorder)
	p := NewPoller(gw, time.Second, publisher)

	// Nothing watched, nothing listed.
	require.Nil(t, p.Poll(context.Background()))

	require.Nil(t, p.ConsumeEvent(&lifecycle.Update{
		Snapshot: lifecycle.Snapshot{
			State:  function.State{FunctionName: "enrich", Repo: "functions", Owner: "memphisdev", Branch: "main", SCMType: "github", Status: function.StatusInstalling},
			Status: function.StatusInstalling,
		},
	}))
	assert.Equal(t, 1, p.Watching())

	gomock.InOrder(
		gw.EXPECT().ListFunctions(gomock.Any()).Return(listing(false, true, ""), nil),
		gw.EXPECT().ListFunctions(gomock.Any()).Return(listing(true, false, "v1.0.0"), nil),
	)

	require.Nil(t, p.Poll(context.Background()))
	assert.Empty(t, recorder.all())

	require.Nil(t, p.Poll(context.Background()))
	events := recorder.all()
	require.Len(t, events, 1)
	assert.Equal(t, testRef, events[0].FunctionRef)
	assert.True(t, events[0].Succeeded)
	assert.Equal(t, "v1.0.0", events[0].Version)
	assert.Equal(t, 0, p.Watching())
}

func TestPollerReportsFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockGateway(ctrl)

	recorder := &eventRecorder{}
	publisher := pubsub.NewSimplePublisher[types.InstallationCompleted]()
	publisher.AddSubscriber(recorder)
	p := NewPoller(gw, time.Second, publisher)

	p.Watch(testRef)
	gw.EXPECT().ListFunctions(gomock.Any()).Return(nil, &gateway.RequestFailedError{Op: "list functions", StatusCode: 502})
	assert.ErrorIs(t, p.Poll(context.Background()), gateway.ErrRequestFailed)
	assert.Equal(t, 1, p.Watching())

	gw.EXPECT().ListFunctions(gomock.Any()).Return(&types.GetAllFunctionsResponse{}, nil)
	require.Nil(t, p.Poll(context.Background()))

	events := recorder.all()
	require.Len(t, events, 1)
	assert.False(t, events[0].Succeeded)
	assert.Equal(t, reasonVanished, events[0].Reason)
}

func TestPollerIgnoresOtherUpdates(t *testing.T) {
	p := NewPoller(nil, 0, pubsub.NewSimplePublisher[types.InstallationCompleted]())
	require.Nil(t, p.ConsumeEvent(&lifecycle.Update{
		Snapshot: lifecycle.Snapshot{State: function.State{Status: function.StatusInstalled}, Status: function.StatusInstalled},
	}))
	assert.Equal(t, 0, p.Watching())
}
