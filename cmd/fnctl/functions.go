package main

import (
	"context"
	"fmt"
	"time"

	types "github.com/eagraf/fnconsole/core/api"
	"github.com/eagraf/fnconsole/internal/lifecycle"
	"github.com/eagraf/fnconsole/internal/marketplace"
	"github.com/eagraf/fnconsole/internal/pubsub"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the functions known to the backend",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rawFilter, _ := cmd.Flags().GetString("filter")
		filter, err := marketplace.ParseFilter(rawFilter)
		if err != nil {
			return err
		}

		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		err = s.market.Refresh(cmd.Context())
		if err != nil {
			return err
		}

		renderCards(cmd.OutOrStdout(), s.market.List(filter))
		if !s.market.SCMIntegrated() {
			fmt.Fprintln(cmd.OutOrStdout(), "No source control integration, only public functions are listed")
		}
		return nil
	},
}

var installCmd = &cobra.Command{
	Use:   "install <function>",
	Short: "Install a function, or update it if a newer version is available",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wait, _ := cmd.Flags().GetBool("wait")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		card, err := s.card(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !wait {
			return card.Install(cmd.Context())
		}
		return installAndWait(cmd.Context(), s, card, timeout)
	},
}

// installAndWait installs card and blocks until the backend reports the outcome.
func installAndWait(ctx context.Context, s *session, card *lifecycle.Lifecycle, timeout time.Duration) error {
	ctx, cancel := commandContext(ctx, timeout)
	defer cancel()

	completions := pubsub.NewSimpleChannel[types.InstallationCompleted](16, card)
	defer completions.Close()

	eg, egCtx := errgroup.WithContext(ctx)
	run := s.notifier(completions)
	eg.Go(func() error {
		return run(egCtx)
	})

	err := card.Install(ctx)
	if err != nil {
		cancel()
		eg.Wait()
		return err
	}

	eg.Go(func() error {
		return completions.Listen(egCtx)
	})

	_, result := card.WaitFor(ctx, lifecycle.InstallFinished)

	cancel()
	err = ignoreCanceled(eg.Wait())
	if err != nil {
		log.Warn().Err(err).Msg("notifier stopped")
	}
	return result
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <function>",
	Short: "Uninstall a function",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		card, err := s.card(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return card.Uninstall(cmd.Context())
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow function status changes until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		err = s.market.Refresh(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		s.updates.AddSubscriber(pubsub.NewSubscriberFunc("status-printer", func(u *lifecycle.Update) error {
			fmt.Fprintf(out, "%s\t%s\n", u.Snapshot.State.FunctionName, u.Snapshot.Status)
			return nil
		}))

		completions := pubsub.NewSimpleChannel[types.InstallationCompleted](16, s.market)
		defer completions.Close()

		eg, egCtx := errgroup.WithContext(ctx)
		eg.Go(func() error {
			return completions.Listen(egCtx)
		})
		run := s.notifier(completions)
		eg.Go(func() error {
			return run(egCtx)
		})
		eg.Go(func() error {
			ticker := time.NewTicker(s.config.PollInterval())
			defer ticker.Stop()
			for {
				select {
				case <-egCtx.Done():
					return nil
				case <-ticker.C:
				}
				err := s.market.Refresh(egCtx)
				if err != nil && egCtx.Err() == nil {
					log.Warn().Err(err).Msg("refreshing functions failed")
				}
			}
		})

		return ignoreCanceled(eg.Wait())
	},
}

func init() {
	listCmd.Flags().String("filter", "all", "Which functions to list: all, installed, other or official")
	installCmd.Flags().Bool("wait", false, "Wait until the installation finished")
	installCmd.Flags().Duration("timeout", 10*time.Minute, "How long to wait for the installation")

	rootCmd.AddCommand(listCmd, installCmd, uninstallCmd, watchCmd)
}
