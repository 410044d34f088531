package main

import (
	"context"
	"errors"
	"time"

	types "github.com/eagraf/fnconsole/core/api"
	"github.com/eagraf/fnconsole/core/state/function"
	"github.com/eagraf/fnconsole/internal/config"
	"github.com/eagraf/fnconsole/internal/gateway"
	"github.com/eagraf/fnconsole/internal/lifecycle"
	"github.com/eagraf/fnconsole/internal/logging"
	"github.com/eagraf/fnconsole/internal/marketplace"
	"github.com/eagraf/fnconsole/internal/notifier"
	"github.com/eagraf/fnconsole/internal/pubsub"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// session wires the components one command invocation needs.
type session struct {
	config  *config.Config
	logger  *zerolog.Logger
	gateway *gateway.Client
	updates *pubsub.SimplePublisher[lifecycle.Update]
	market  *marketplace.Marketplace
	poll    bool
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, err
	}
	logger := logging.NewLoggerWithLevel(logging.ParseLevel(cfg.LogLevel()))

	client := gateway.NewClient(gateway.Config{
		BaseURL:   cfg.APIURL(),
		Timeout:   cfg.RequestTimeout(),
		AuthToken: cfg.AuthToken(),
		Logger:    logger,
	})

	updates := pubsub.NewSimplePublisher[lifecycle.Update]()
	updates.AddSubscriber(newUpdatePrinter(logger))

	poll, _ := cmd.Flags().GetBool("poll")
	return &session{
		config:  cfg,
		logger:  logger,
		gateway: client,
		updates: updates,
		market:  marketplace.New(client, updates),
		poll:    poll,
	}, nil
}

// card refreshes the marketplace and returns the named function.
func (s *session) card(ctx context.Context, name string) (*lifecycle.Lifecycle, error) {
	err := s.market.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	return s.market.Card(name)
}

// notifier returns the producer of completion signals, publishing into completions.
func (s *session) notifier(completions pubsub.Publisher[types.InstallationCompleted]) func(context.Context) error {
	if s.poll {
		poller := notifier.NewPoller(s.gateway, s.config.PollInterval(), completions)
		s.updates.AddSubscriber(poller)
		for _, card := range s.market.List(marketplace.FilterAll) {
			snapshot := card.Snapshot()
			if snapshot.InstallPending || snapshot.State.Status == function.StatusInstalling {
				poller.Watch(snapshot.State.Ref())
			}
		}
		return poller.Run
	}
	sse := notifier.NewSSE(notifier.SSEConfig{
		BaseURL:   s.config.APIURL(),
		Path:      s.config.EventsPath(),
		AuthToken: s.config.AuthToken(),
		Logger:    s.logger,
	}, completions)
	return sse.Run
}

// ignoreCanceled drops the error a component returns when the command is interrupted.
func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func commandContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

type updatePrinter struct {
	logger *zerolog.Logger
}

func newUpdatePrinter(logger *zerolog.Logger) *updatePrinter {
	return &updatePrinter{logger: logger}
}

func (p *updatePrinter) Name() string {
	return "update-printer"
}

func (p *updatePrinter) ConsumeEvent(u *lifecycle.Update) error {
	name := u.Snapshot.State.FunctionName
	switch u.Level {
	case lifecycle.LevelError:
		p.logger.Error().Str("function", name).Msg(u.Message)
	case lifecycle.LevelSuccess, lifecycle.LevelInfo:
		p.logger.Info().Str("function", name).Msg(u.Message)
	default:
		p.logger.Debug().Str("function", name).Msgf("status %s", u.Snapshot.Status)
	}
	return nil
}
