package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"lathe/internal/ledger"
)

func newHistoryCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		limit int
		runID int64
		clear bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past batch runs recorded in the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ledger.Open(cfg.Batch.LedgerPath)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			ctx := cmd.Context()

			if clear {
				if err := store.Clear(ctx); err != nil {
					return err
				}
				fmt.Fprintln(out, "Ledger cleared.")
				return nil
			}

			if runID > 0 {
				files, err := store.RunFiles(ctx, runID)
				if err != nil {
					return err
				}
				if len(files) == 0 {
					fmt.Fprintf(out, "No file records for run %d.\n", runID)
					return nil
				}
				rows := make([][]string, 0, len(files))
				for _, rec := range files {
					rows = append(rows, []string{
						rec.Input, rec.Output, rec.Status, formatDuration(rec.Duration), rec.Detail,
					})
				}
				fmt.Fprintln(out, renderTable([]column{
					{title: "Input"},
					{title: "Output"},
					{title: "Status"},
					{title: "Duration", right: true},
					{title: "Detail"},
				}, rows))
				return nil
			}

			runs, err := store.RecentRuns(ctx, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No batch runs recorded yet.")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					fmt.Sprintf("%d", run.ID),
					operationTitle(run.Operation),
					run.StartedAt.Local().Format(time.DateTime),
					fmt.Sprintf("%d", run.Total),
					fmt.Sprintf("%d", run.Succeeded),
					fmt.Sprintf("%d", run.Failed),
				})
			}
			fmt.Fprintln(out, renderTable([]column{
				{title: "Run", right: true},
				{title: "Operation"},
				{title: "Started"},
				{title: "Total", right: true},
				{title: "OK", right: true},
				{title: "Failed", right: true},
			}, rows))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list")
	cmd.Flags().Int64Var(&runID, "files", 0, "Show the per-file records of one run")
	cmd.Flags().BoolVar(&clear, "clear", false, "Delete all recorded history")
	return cmd
}
