package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/eagraf/fnconsole/core/state/function"
)

var ErrInstallationFailed = errors.New("installation failed")

type WaiterPredicate func(Snapshot) (bool, error)

// WaiterSubscriber checks every update of one function against a predicate.
type WaiterSubscriber struct {
	name         string
	functionName string
	predicate    WaiterPredicate

	doneChan chan Snapshot
	errChan  chan error
}

func NewWaiterSubscriber(name, functionName string, predicate WaiterPredicate) *WaiterSubscriber {
	return &WaiterSubscriber{
		name:         name,
		functionName: functionName,
		predicate:    predicate,
		doneChan:     make(chan Snapshot, 1),
		errChan:      make(chan error, 1),
	}
}

func (s *WaiterSubscriber) Name() string {
	return fmt.Sprintf("SnapshotWaiter-%s", s.name)
}

func (s *WaiterSubscriber) ConsumeEvent(u *Update) error {
	if u.Snapshot.State.FunctionName != s.functionName {
		return nil
	}
	s.check(u.Snapshot)
	return nil
}

func (s *WaiterSubscriber) check(snapshot Snapshot) {
	done, err := s.predicate(snapshot)
	if err != nil {
		select {
		case s.errChan <- err:
		default:
		}
		return
	}
	if done {
		select {
		case s.doneChan <- snapshot:
		default:
		}
	}
}

// WaitFor blocks until the function's snapshot satisfies predicate, the predicate
// fails or ctx is done. The current snapshot is checked first.
func (l *Lifecycle) WaitFor(ctx context.Context, predicate WaiterPredicate) (Snapshot, error) {
	if l.publisher == nil {
		return Snapshot{}, fmt.Errorf("lifecycle of %s has no publisher to wait on", l.Ref().FunctionName)
	}

	current := l.Snapshot()
	subscriber := NewWaiterSubscriber("WaitFor", current.State.FunctionName, predicate)
	l.publisher.AddSubscriber(subscriber)
	defer l.publisher.RemoveSubscriber(subscriber)

	// Updates published before the subscriber was added are covered by this check.
	subscriber.check(l.Snapshot())

	select {
	case snapshot := <-subscriber.doneChan:
		return snapshot, nil
	case err := <-subscriber.errChan:
		return Snapshot{}, err
	case <-ctx.Done():
		return Snapshot{}, fmt.Errorf("timeout waiting on %s: %w", subscriber.Name(), ctx.Err())
	}
}

// InstallFinished is satisfied once no install is running. It fails if the function
// did not end up installed. A failed update restores update_available and counts as a
// failure.
func InstallFinished(s Snapshot) (bool, error) {
	if s.InstallPending || s.Status == function.StatusInstalling {
		return false, nil
	}
	if s.Status != function.StatusInstalled {
		return false, fmt.Errorf("%w: %s is %s", ErrInstallationFailed, s.State.FunctionName, s.Status)
	}
	return true, nil
}
