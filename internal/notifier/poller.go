package notifier

import (
	"context"
	"errors"
	"sync"
	"time"

	types "github.com/eagraf/fnconsole/core/api"
	"github.com/eagraf/fnconsole/core/state/function"
	"github.com/eagraf/fnconsole/internal/constants"
	"github.com/eagraf/fnconsole/internal/gateway"
	"github.com/eagraf/fnconsole/internal/lifecycle"
	"github.com/eagraf/fnconsole/internal/pubsub"
	"github.com/rs/zerolog/log"
)

const reasonVanished = "function is no longer listed"

// Poller derives completion signals from the function list. It watches every function
// it has seen installing, either in the list or through a lifecycle update, and
// reports the outcome once the backend stops reporting it as in progress.
type Poller struct {
	gateway   gateway.Gateway
	interval  time.Duration
	publisher pubsub.Publisher[types.InstallationCompleted]

	mu       sync.Mutex
	watching map[string]types.FunctionRef
}

func NewPoller(gw gateway.Gateway, interval time.Duration, publisher pubsub.Publisher[types.InstallationCompleted]) *Poller {
	if interval <= 0 {
		interval = constants.DefaultPollInterval
	}
	return &Poller{
		gateway:   gw,
		interval:  interval,
		publisher: publisher,
		watching:  make(map[string]types.FunctionRef),
	}
}

func (p *Poller) Name() string {
	return "poller"
}

// ConsumeEvent starts watching functions whose lifecycle moved to installing.
func (p *Poller) ConsumeEvent(u *lifecycle.Update) error {
	if u.Snapshot.State.Status != function.StatusInstalling {
		return nil
	}
	p.Watch(u.Snapshot.State.Ref())
	return nil
}

func (p *Poller) Watch(ref types.FunctionRef) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.watching[ref.String()] = ref
}

func (p *Poller) Watching() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.watching)
}

// Run polls until ctx is cancelled or the publisher is closed. Failed polls are
// logged and retried on the next tick.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		err := p.Poll(ctx)
		if errors.Is(err, pubsub.ErrChannelClosed) {
			return nil
		}
		if err != nil && ctx.Err() == nil {
			log.Warn().Err(err).Msg("polling functions failed")
		}
	}
}

// Poll lists the functions once and publishes a signal for every watched function
// that is no longer in progress.
func (p *Poller) Poll(ctx context.Context) error {
	if p.Watching() == 0 {
		return nil
	}

	res, err := p.gateway.ListFunctions(ctx)
	if err != nil {
		return err
	}

	listed := make(map[string]*types.Function)
	for _, f := range append(res.Installed, res.Other...) {
		if f != nil {
			listed[f.FunctionRef.String()] = f
		}
	}

	completed := make([]*types.InstallationCompleted, 0)
	p.mu.Lock()
	for key, ref := range p.watching {
		f, ok := listed[key]
		switch {
		case ok && f.InstalledInProgress:
			continue
		case ok && f.Installed:
			completed = append(completed, &types.InstallationCompleted{
				FunctionRef: ref,
				Succeeded:   true,
				Version:     f.InstalledVersion,
			})
		case ok:
			completed = append(completed, &types.InstallationCompleted{
				FunctionRef: ref,
				Reason:      f.InvalidReason,
			})
		default:
			completed = append(completed, &types.InstallationCompleted{
				FunctionRef: ref,
				Reason:      reasonVanished,
			})
		}
		delete(p.watching, key)
	}
	p.mu.Unlock()

	for _, e := range completed {
		log.Debug().Msgf("installation of %s finished, succeeded: %t", e.FunctionRef.String(), e.Succeeded)
		err := p.publisher.PublishEvent(e)
		if err != nil {
			return err
		}
	}
	return nil
}
