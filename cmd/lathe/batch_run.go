package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"lathe/internal/batch"
	"lathe/internal/ledger"
	"lathe/internal/logging"
)

// runJobs executes one or many jobs for a processing command. A single job
// runs inline and prints its status; multiple jobs go through the bounded
// coordinator, get recorded in the ledger, and are summarized in a table.
func runJobs(cmd *cobra.Command, cmdCtx *commandContext, operation string, jobs []batch.Job) error {
	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if len(jobs) == 1 {
		status, err := jobs[0].Run(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(out, status)
		return nil
	}

	coordinator := batch.NewCoordinator(cfg.Batch.MaxConcurrency, cmdCtx.ensureLogger())
	started := time.Now()
	result, err := coordinator.Run(cmd.Context(), jobs)
	if err != nil {
		return err
	}

	if cfg.Batch.LedgerEnabled {
		if recordErr := recordRun(cmdCtx, operation, started, result); recordErr != nil {
			cmdCtx.ensureLogger().Warn("failed to record batch in ledger", logging.Error(recordErr))
		}
	}

	rows := make([][]string, 0, len(result.Outcomes))
	for _, outcome := range result.Outcomes {
		detail := outcome.Status
		if outcome.Err != nil {
			detail = outcome.Err.Error()
		}
		rows = append(rows, []string{
			outcome.Job.Input,
			checkMark(outcome.Err == nil),
			formatDuration(outcome.Duration),
			detail,
		})
	}
	fmt.Fprintln(out, renderTable([]column{
		{title: "Input"},
		{title: "Result"},
		{title: "Duration", right: true},
		{title: "Detail"},
	}, rows))
	fmt.Fprintf(out, "%s batch: %d succeeded, %d failed in %s\n",
		operationTitle(operation), result.Succeeded, result.Failed, formatDuration(result.Elapsed))

	if result.Failed > 0 {
		return fmt.Errorf("%d of %d jobs failed", result.Failed, len(result.Outcomes))
	}
	return nil
}

func recordRun(cmdCtx *commandContext, operation string, started time.Time, result batch.Result) error {
	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := ledger.Open(cfg.Batch.LedgerPath)
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.RecordBatch(context.Background(), operation, started, result)
	return err
}
