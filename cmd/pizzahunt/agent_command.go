package main

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"pizzahunt/internal/logging"
	"pizzahunt/internal/netwatch"
	"pizzahunt/internal/notifications"
	"pizzahunt/internal/offline"
)

func newAgentCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "agent",
		Short: "Submit saved pizzas whenever connectivity returns",
		Long: "Runs in the foreground, watching the network and flushing the offline " +
			"store at startup when online and on every offline to online transition.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			lock := flock.New(cfg.AgentLockPath())
			ok, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire agent lock: %w", err)
			}
			if !ok {
				return errors.New("another pizzahunt agent is already running")
			}
			defer lock.Unlock()

			logger, err := logging.NewFromConfig(cfg, "agent")
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			client, err := ctx.client()
			if err != nil {
				return err
			}

			runCtx := cmd.Context()
			watcher := netwatch.NewFromConfig(cfg, logger)
			if err := watcher.Start(runCtx); err != nil {
				return err
			}
			defer watcher.Stop()

			q := offline.New(cfg.Offline.StorePath, client,
				offline.WithLogger(logger),
				offline.WithNotifier(notifications.NewService(cfg)),
				offline.WithFlushGuard(cfg.Offline.ExclusiveFlush),
				offline.WithConnectivity(watcher),
			)
			q.Open(runCtx)
			defer q.Close()

			logger.Info("agent running",
				logging.String(logging.FieldEventType, "agent_started"),
				logging.String("api_url", client.BaseURL()),
				logging.String("store", cfg.Offline.StorePath),
				logging.Bool("online", watcher.Online()),
				logging.Bool("store_available", q.Available()),
			)
			err = q.Run(runCtx, watcher)
			logger.Info("agent stopped", logging.String(logging.FieldEventType, "agent_stopped"))
			return err
		},
	}
}
