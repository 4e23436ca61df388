package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stupiduntilnot/searchbot/internal/app"
	"github.com/stupiduntilnot/searchbot/internal/config"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "botctl",
		Short: "Operate the search bot locally",
		Long: `botctl runs the bot's message router against the local history
database without connecting to the chat platform. It reads the same
environment (and .env file) as the bot process.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newAskCmd(), newRecentCmd(), newHistoryCmd(), newProvidersCmd(), newEventsCmd())
	return root
}

// withApp loads local configuration and runs fn against the assembled core.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, core *app.App) error) error {
	cfg, err := config.LoadLocalConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	core, err := app.New(ctx, cfg, "botctl")
	if err != nil {
		return err
	}
	defer core.Close()
	return fn(ctx, core)
}

func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <message...>",
		Short: "Dispatch one message and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, core *app.App) error {
				reply, ok := core.Processor.Execute(ctx, strings.Join(args, " "))
				if !ok {
					fmt.Fprintln(cmd.ErrOrStderr(), "(no response)")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), reply)
				return nil
			})
		},
	}
}

func newRecentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recent [term...]",
		Short: "List distinct past queries containing term, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, core *app.App) error {
				queries, err := core.History.Find(ctx, strings.ToLower(strings.Join(args, " ")))
				if err != nil {
					return err
				}
				for _, q := range queries {
					fmt.Fprintln(cmd.OutOrStdout(), q)
				}
				return nil
			})
		},
	}
}

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the latest history records with timestamps",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, core *app.App) error {
				records, err := core.History.Recent(ctx, limit)
				if err != nil {
					return err
				}
				for _, r := range records {
					ts := time.Unix(r.Timestamp, 0).UTC().Format(time.RFC3339)
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", r.ID, ts, r.Query)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of records to show")
	return cmd
}

func newProvidersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List registered search providers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, core *app.App) error {
				for _, name := range core.Providers.Names() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			})
		},
	}
}
