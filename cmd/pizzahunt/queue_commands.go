package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"pizzahunt/internal/offline"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and submit pizzas saved while offline",
	}
	queueCmd.AddCommand(newQueueListCommand(ctx))
	queueCmd.AddCommand(newQueueFlushCommand(ctx))
	queueCmd.AddCommand(newQueueClearCommand(ctx))
	return queueCmd
}

func (c *commandContext) withStore(cmd *cobra.Command, fn func(*offline.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := offline.OpenStore(cmd.Context(), cfg.Offline.StorePath)
	if err != nil {
		return fmt.Errorf("open offline store: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved pizzas waiting to be submitted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(store *offline.Store) error {
				records, err := store.All(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					type row struct {
						QueuedAt string          `json:"queuedAt"`
						Payload  json.RawMessage `json:"payload"`
					}
					rows := make([]row, 0, len(records))
					for _, rec := range records {
						rows = append(rows, row{QueuedAt: rec.QueuedAt.Format(time.RFC3339), Payload: rec.Payload})
					}
					return writeJSON(cmd, rows)
				}
				out := cmd.OutOrStdout()
				if len(records) == 0 {
					fmt.Fprintln(out, "No saved pizzas")
					return nil
				}
				list := newListing(
					column{title: "#", numeric: true},
					column{title: "Saved"},
					column{title: "Payload", width: 64},
				)
				for i, rec := range records {
					list.add(strconv.Itoa(i+1), formatDate(rec.QueuedAt.Local()), string(rec.Payload))
				}
				fmt.Fprintln(out, list)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newQueueFlushCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "flush",
		Short: "Submit every saved pizza now in one batch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			q, err := ctx.openQueue(cmd, client)
			if err != nil {
				return err
			}
			defer q.Close()
			if !q.Available() {
				return offline.ErrUnavailable
			}

			summary, err := q.Flush(cmd.Context())
			switch {
			case errors.Is(err, offline.ErrFlushInProgress):
				fmt.Fprintln(cmd.OutOrStdout(), "Another flush is already running")
				return nil
			case err != nil:
				return err
			case summary.Pending == 0:
				fmt.Fprintln(cmd.OutOrStdout(), "No saved pizzas to submit")
			}
			return nil
		},
	}
}

func newQueueClearCommand(ctx *commandContext) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Discard every saved pizza without submitting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to discard saved pizzas without --yes")
			}
			return ctx.withStore(cmd, func(store *offline.Store) error {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Discarded %d saved pizza(s)\n", removed)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm discarding saved pizzas")
	return cmd
}
