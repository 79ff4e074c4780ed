package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/picatz/super/internal/history"
	"github.com/picatz/super/internal/history/storage"
	pebbleStorage "github.com/picatz/super/internal/history/storage/pebble"
	"github.com/spf13/cobra"
)

func openHistory(path string, logger *slog.Logger) (*pebbleStorage.Backend[string, history.Exchange], error) {
	opts := &pebble.Options{
		LoggerAndTracer: &pebbleLogger{logger: logger},
	}

	backend, err := pebbleStorage.NewBackend(path, opts, &storage.JSONCodec[string, history.Exchange]{})
	if err != nil {
		return nil, fmt.Errorf("failed to open history at %s: %w", path, err)
	}

	return backend, nil
}

// withRecorder opens the history database for the duration of fn.
func withRecorder(cmd *cobra.Command, fn func(*history.Recorder) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	backend, err := openHistory(cfg.HistoryPath, newLogger(cmd.ErrOrStderr(), cfg.Verbose))
	if err != nil {
		return err
	}
	defer backend.Close(cmd.Context())

	return fn(history.NewRecorder(backend))
}

func newHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect queries recorded with --history",
	}

	cmd.AddCommand(
		newHistoryListCommand(),
		newHistoryShowCommand(),
		newHistoryClearCommand(),
	)

	return cmd
}

func newHistoryListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded queries, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := cmd.Flags().GetInt(flagLimit)
			if err != nil {
				return err
			}
			if limit < 0 {
				return fmt.Errorf("invalid --%s %d: must be zero or positive", flagLimit, limit)
			}

			return withRecorder(cmd, func(r *history.Recorder) error {
				all, err := r.All(cmd.Context())
				if err != nil {
					return err
				}

				if limit > 0 && len(all) > limit {
					all = all[len(all)-limit:]
				}

				if len(all) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), styleFaint.Render("No recorded queries."))
					return nil
				}

				for _, ex := range all {
					writeExchange(cmd.OutOrStdout(), ex)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntP(flagLimit, "n", 0, "show only the most recent N queries")

	return cmd
}

func newHistoryShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one recorded query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRecorder(cmd, func(r *history.Recorder) error {
				ex, ok, err := r.Get(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("failed to get recorded query %s: %w", args[0], err)
				}
				if !ok {
					return fmt.Errorf("no recorded query with id %s", args[0])
				}

				writeExchange(cmd.OutOrStdout(), ex)
				return nil
			})
		},
	}
}

func newHistoryClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded query",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRecorder(cmd, func(r *history.Recorder) error {
				n, err := r.Clear(cmd.Context())
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d recorded queries.\n", n)
				return nil
			})
		},
	}
}

func writeExchange(w io.Writer, ex history.Exchange) {
	fmt.Fprintf(w, "%s %s %s\n",
		styleBold.Render(ex.Time.Local().Format(time.DateTime)),
		ex.Model,
		styleFaint.Render(ex.ID),
	)
	fmt.Fprintf(w, "‣ %s\n", ex.Prompt)

	if ex.Failed() {
		fmt.Fprintln(w, styleWarning.Render("error: "+ex.Error))
	} else {
		fmt.Fprintln(w, ex.Reply)
	}

	fmt.Fprintln(w)
}
