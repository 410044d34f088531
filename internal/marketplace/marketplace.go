// Package marketplace holds one lifecycle per function listed by the backend.
package marketplace

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	types "github.com/eagraf/fnconsole/core/api"
	"github.com/eagraf/fnconsole/internal/constants"
	"github.com/eagraf/fnconsole/internal/gateway"
	"github.com/eagraf/fnconsole/internal/lifecycle"
	"github.com/eagraf/fnconsole/internal/pubsub"
	"github.com/rs/zerolog/log"
)

var ErrNotFound = errors.New("function not found")

type Filter string

const (
	FilterAll       Filter = "all"
	FilterInstalled Filter = "installed"
	FilterOther     Filter = "other"
	FilterOfficial  Filter = "official"
)

func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(s)); f {
	case FilterAll, FilterInstalled, FilterOther, FilterOfficial:
		return f, nil
	case "":
		return FilterAll, nil
	default:
		return "", fmt.Errorf("unknown filter %q", s)
	}
}

type Marketplace struct {
	gateway gateway.Gateway
	updates pubsub.Publisher[lifecycle.Update]

	mu            sync.RWMutex
	cards         map[string]*lifecycle.Lifecycle
	order         []string
	scmIntegrated bool
}

// New creates an empty marketplace. Every card it creates publishes to updates, which
// may be nil.
func New(gw gateway.Gateway, updates pubsub.Publisher[lifecycle.Update]) *Marketplace {
	return &Marketplace{
		gateway: gw,
		updates: updates,
		cards:   make(map[string]*lifecycle.Lifecycle),
		order:   make([]string, 0),
	}
}

// Refresh lists the functions on the backend. Known cards are updated in place so
// that their pending calls survive, new ones are added and vanished ones are dropped
// unless a call on them is still in flight.
func (m *Marketplace) Refresh(ctx context.Context) error {
	res, err := m.gateway.ListFunctions(ctx)
	if err != nil {
		return err
	}

	listed := make([]*types.Function, 0, len(res.Installed)+len(res.Other))
	for _, f := range append(res.Installed, res.Other...) {
		if f != nil {
			listed = append(listed, f)
		}
	}

	type refresh struct {
		card *lifecycle.Lifecycle
		f    *types.Function
	}
	refreshes := make([]refresh, 0, len(listed))

	m.mu.Lock()
	seen := make(map[string]bool, len(listed))
	order := make([]string, 0, len(listed))
	for _, f := range listed {
		key := f.FunctionRef.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		order = append(order, key)

		if card, ok := m.cards[key]; ok {
			refreshes = append(refreshes, refresh{card: card, f: f})
			continue
		}
		card, err := lifecycle.NewFromFunction(m.gateway, f, m.updates)
		if err != nil {
			log.Warn().Err(err).Msgf("skipping function %s", key)
			order = order[:len(order)-1]
			continue
		}
		m.cards[key] = card
	}

	for _, key := range m.order {
		if seen[key] {
			continue
		}
		card := m.cards[key]
		snapshot := card.Snapshot()
		if snapshot.InstallPending || snapshot.UninstallPending {
			order = append(order, key)
			continue
		}
		log.Debug().Msgf("function %s no longer listed", key)
		delete(m.cards, key)
	}

	m.order = order
	m.scmIntegrated = res.SCMIntegrated
	m.mu.Unlock()

	// Cards publish while applying, so this runs without holding the marketplace lock.
	for _, r := range refreshes {
		err := r.card.Apply(r.f, nil)
		if err != nil {
			log.Warn().Err(err).Msgf("could not refresh card %s", r.f.FunctionRef.String())
		}
	}
	return nil
}

// SCMIntegrated reports whether a source control integration is connected, which
// decides whether private repositories can be listed.
func (m *Marketplace) SCMIntegrated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.scmIntegrated
}

func (m *Marketplace) List(filter Filter) []*lifecycle.Lifecycle {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cards := make([]*lifecycle.Lifecycle, 0, len(m.order))
	for _, key := range m.order {
		card := m.cards[key]
		if matches(filter, card.Snapshot()) {
			cards = append(cards, card)
		}
	}
	return cards
}

func matches(filter Filter, s lifecycle.Snapshot) bool {
	switch filter {
	case FilterInstalled:
		return s.State.Status.IsInstalled()
	case FilterOther:
		return !s.State.Status.IsInstalled()
	case FilterOfficial:
		return s.State.ByMemphis || s.State.Owner == constants.OfficialOwner
	default:
		return true
	}
}

// Card returns the first card with the given function name.
func (m *Marketplace) Card(name string) (*lifecycle.Lifecycle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, key := range m.order {
		card := m.cards[key]
		if card.Snapshot().State.FunctionName == name {
			return card, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

func (m *Marketplace) Name() string {
	return "marketplace"
}

// ConsumeEvent hands an installation completed signal to every card. Cards ignore
// signals addressed to other functions.
func (m *Marketplace) ConsumeEvent(e *types.InstallationCompleted) error {
	m.mu.RLock()
	cards := make([]*lifecycle.Lifecycle, 0, len(m.cards))
	for _, key := range m.order {
		cards = append(cards, m.cards[key])
	}
	m.mu.RUnlock()

	for _, card := range cards {
		err := card.ConsumeEvent(e)
		if err != nil {
			return err
		}
	}
	return nil
}
