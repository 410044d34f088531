// Package lifecycle drives one function record through install, update, uninstall and
// test against the backend, and publishes every change to its subscribers.
package lifecycle

import (
	"context"
	"fmt"
	"sync"

	types "github.com/eagraf/fnconsole/core/api"
	"github.com/eagraf/fnconsole/core/state/function"
	"github.com/eagraf/fnconsole/internal/gateway"
	"github.com/eagraf/fnconsole/internal/pubsub"
	"github.com/rs/zerolog/log"
)

const (
	MessageInstallAccepted = "We are installing/updating the function for you. We will let you know once its done"
)

type Lifecycle struct {
	gateway   gateway.Gateway
	publisher pubsub.Publisher[Update]

	mu               sync.Mutex
	machine          *function.Machine
	installPending   bool
	uninstallPending bool
}

// New creates the lifecycle of a single function record. publisher may be nil.
func New(gw gateway.Gateway, init *function.State, publisher pubsub.Publisher[Update]) (*Lifecycle, error) {
	machine, err := function.NewMachine(init)
	if err != nil {
		return nil, err
	}
	return &Lifecycle{
		gateway:   gw,
		publisher: publisher,
		machine:   machine,
	}, nil
}

// NewFromFunction creates a lifecycle from a backend function entry.
func NewFromFunction(gw gateway.Gateway, f *types.Function, publisher pubsub.Publisher[Update]) (*Lifecycle, error) {
	return New(gw, function.NewState(f), publisher)
}

func (l *Lifecycle) Ref() types.FunctionRef {
	s := l.Snapshot()
	return s.State.Ref()
}

func (l *Lifecycle) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

func (l *Lifecycle) snapshotLocked() Snapshot {
	state, err := l.machine.State()
	if err != nil {
		// The machine only ever holds schema valid documents.
		panic(fmt.Sprintf("function record is corrupt: %s", err))
	}
	status := state.Status
	if l.uninstallPending {
		status = function.StatusUninstalling
	}
	return Snapshot{
		State:            *state,
		Status:           status,
		InstallPending:   l.installPending,
		UninstallPending: l.uninstallPending,
	}
}

// Install asks the backend to install the function, or to update it when a newer
// version is available. On success the record moves to installing; only a completion
// event moves it to installed.
func (l *Lifecycle) Install(ctx context.Context) error {
	l.mu.Lock()
	if l.installPending {
		l.mu.Unlock()
		log.Debug().Msgf("install of %s already in flight", l.Ref().FunctionName)
		return nil
	}
	snapshot := l.snapshotLocked()
	state := snapshot.State
	if err := checkInstallable(&snapshot); err != nil {
		l.mu.Unlock()
		l.notify(LevelError, err.Error())
		return err
	}
	l.installPending = true
	snapshot = l.snapshotLocked()
	l.mu.Unlock()
	l.publish(&Update{Snapshot: snapshot})

	err := l.gateway.Install(ctx, &types.InstallFunctionRequest{
		FunctionName: state.FunctionName,
		Repo:         state.Repo,
		Owner:        state.Owner,
		Branch:       state.Branch,
		SCMType:      state.SCMType,
		ByMemphis:    state.ByMemphis,
	})

	l.mu.Lock()
	l.installPending = false
	if err != nil {
		snapshot = l.snapshotLocked()
		l.mu.Unlock()
		log.Error().Err(err).Msgf("install of %s failed", state.FunctionName)
		l.publish(&Update{Snapshot: snapshot, Level: LevelError, Message: err.Error()})
		return err
	}
	_, terr := l.machine.ProposeTransition(&function.StartInstallationTransition{})
	snapshot = l.snapshotLocked()
	l.mu.Unlock()
	if terr != nil {
		// A refresh or completion event landed while the call was in flight.
		log.Warn().Err(terr).Msgf("install of %s accepted but record is %s", state.FunctionName, snapshot.State.Status)
	}

	l.publish(&Update{Snapshot: snapshot, Level: LevelSuccess, Message: MessageInstallAccepted})
	return nil
}

func checkInstallable(s *Snapshot) error {
	if !s.State.IsValid {
		reason := "function is not valid"
		if s.State.InvalidReason != "" {
			reason = s.State.InvalidReason
		}
		return &ValidationError{Op: "install " + s.State.FunctionName, Reason: reason}
	}
	if s.UninstallPending {
		return &ValidationError{Op: "install " + s.State.FunctionName, Reason: "uninstall in progress"}
	}
	switch s.State.Status {
	case function.StatusNotInstalled, function.StatusUpdateAvailable:
		return nil
	default:
		return &ValidationError{Op: "install " + s.State.FunctionName, Reason: fmt.Sprintf("function is %s", s.State.Status)}
	}
}

// Uninstall removes the function from the backend. The record reports uninstalling
// while the call is pending and keeps its status if the call fails.
func (l *Lifecycle) Uninstall(ctx context.Context) error {
	l.mu.Lock()
	if l.uninstallPending {
		l.mu.Unlock()
		log.Debug().Msgf("uninstall of %s already in flight", l.Ref().FunctionName)
		return nil
	}
	snapshot := l.snapshotLocked()
	state := snapshot.State
	if !state.Status.IsInstalled() || l.installPending {
		l.mu.Unlock()
		err := &ValidationError{Op: "uninstall " + state.FunctionName, Reason: fmt.Sprintf("function is %s", snapshot.Status)}
		l.notify(LevelError, err.Error())
		return err
	}
	l.uninstallPending = true
	snapshot = l.snapshotLocked()
	l.mu.Unlock()
	l.publish(&Update{Snapshot: snapshot})

	err := l.gateway.Uninstall(ctx, &types.UninstallFunctionRequest{
		FunctionName:  state.FunctionName,
		Repo:          state.Repo,
		Owner:         state.Owner,
		Branch:        state.Branch,
		SCMType:       state.SCMType,
		ComputeEngine: state.ComputeEngine,
	})

	l.mu.Lock()
	l.uninstallPending = false
	if err != nil {
		snapshot = l.snapshotLocked()
		l.mu.Unlock()
		log.Error().Err(err).Msgf("uninstall of %s failed", state.FunctionName)
		l.publish(&Update{Snapshot: snapshot, Level: LevelError, Message: err.Error()})
		return err
	}
	_, terr := l.machine.ProposeTransition(&function.FinishUninstallationTransition{})
	snapshot = l.snapshotLocked()
	l.mu.Unlock()
	if terr != nil {
		log.Warn().Err(terr).Msgf("uninstall of %s succeeded but record is %s", state.FunctionName, snapshot.State.Status)
	}

	l.publish(&Update{Snapshot: snapshot, Level: LevelSuccess, Message: fmt.Sprintf("%s was uninstalled", state.FunctionName)})
	return nil
}

// RefreshDetails fetches the function's details and overwrites the record's backend
// owned fields with them. The full response is returned for the details view.
func (l *Lifecycle) RefreshDetails(ctx context.Context) (*types.GetFunctionDetailsResponse, error) {
	ref := l.Ref()
	details, err := l.gateway.FetchDetails(ctx, ref)
	if err != nil {
		log.Error().Err(err).Msgf("fetching details of %s failed", ref.FunctionName)
		l.notify(LevelError, err.Error())
		return nil, err
	}

	err = l.Apply(details.Metadata, details.Versions)
	if err != nil {
		l.notify(LevelError, err.Error())
		return nil, err
	}
	return details, nil
}

// Apply overwrites the record with an already fetched function entry, as returned by
// the function list.
func (l *Lifecycle) Apply(f *types.Function, versions []string) error {
	l.mu.Lock()
	before := l.snapshotLocked()
	after, err := l.machine.ProposeTransition(&function.RefreshDetailsTransition{
		Function: f,
		Versions: versions,
	})
	if err != nil {
		l.mu.Unlock()
		return err
	}
	snapshot := l.snapshotLocked()
	l.mu.Unlock()

	if after.Status != before.State.Status || after.IsValid != before.State.IsValid {
		l.publish(&Update{Snapshot: snapshot})
	}
	return nil
}

// Test runs event through the installed function. The backend's result is returned
// unchanged, including unsuccessful runs.
func (l *Lifecycle) Test(ctx context.Context, event types.TestEvent) (*types.TestFunctionResponse, error) {
	snapshot := l.Snapshot()
	state := snapshot.State
	if !snapshot.CanTest() {
		err := &ValidationError{Op: "test " + state.FunctionName, Reason: fmt.Sprintf("function is %s", snapshot.Status)}
		l.notify(LevelError, err.Error())
		return nil, err
	}

	if event.Headers == nil {
		event.Headers = make(map[string]string)
	}
	res, err := l.gateway.Test(ctx, &types.TestFunctionRequest{
		FunctionName:    state.FunctionName,
		FunctionVersion: state.InstalledVersion,
		SCMType:         state.SCMType,
		Branch:          state.Branch,
		Repo:            state.Repo,
		Owner:           state.Owner,
		TestEvent:       event,
	})
	if err != nil {
		log.Error().Err(err).Msgf("testing %s failed", state.FunctionName)
		l.notify(LevelError, err.Error())
		return nil, err
	}
	return res, nil
}

func (l *Lifecycle) Name() string {
	return "lifecycle-" + l.Ref().String()
}

// ConsumeEvent applies an installation completed signal addressed to this function.
// Signals for other functions, or that arrive when no install is running, are
// ignored.
func (l *Lifecycle) ConsumeEvent(e *types.InstallationCompleted) error {
	ref := l.Ref()
	if !sameFunction(ref, e.FunctionRef) {
		return nil
	}

	var t function.Transition
	var level Level
	var message string
	if e.Succeeded {
		t = &function.FinishInstallationTransition{Version: e.Version}
		level, message = LevelSuccess, fmt.Sprintf("%s was installed successfully", ref.FunctionName)
	} else {
		t = &function.FailInstallationTransition{Reason: e.Reason}
		level, message = LevelError, fmt.Sprintf("installation of %s failed", ref.FunctionName)
		if e.Reason != "" {
			message += ": " + e.Reason
		}
	}

	l.mu.Lock()
	_, err := l.machine.ProposeTransition(t)
	snapshot := l.snapshotLocked()
	l.mu.Unlock()
	if err != nil {
		log.Debug().Err(err).Msgf("ignoring %s for %s", t.Type(), ref.FunctionName)
		return nil
	}

	l.publish(&Update{Snapshot: snapshot, Level: level, Message: message})
	return nil
}

// sameFunction compares identities. The source control type is only compared when
// both sides carry one.
func sameFunction(a, b types.FunctionRef) bool {
	if a.FunctionName != b.FunctionName || a.Repo != b.Repo || a.Owner != b.Owner || a.Branch != b.Branch {
		return false
	}
	return a.SCM == "" || b.SCM == "" || a.SCM == b.SCM
}

func (l *Lifecycle) notify(level Level, message string) {
	l.publish(&Update{Snapshot: l.Snapshot(), Level: level, Message: message})
}

func (l *Lifecycle) publish(u *Update) {
	if l.publisher == nil {
		return
	}
	err := l.publisher.PublishEvent(u)
	if err != nil {
		log.Error().Err(err).Msgf("publishing update for %s", u.Snapshot.State.FunctionName)
	}
}
