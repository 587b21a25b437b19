package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lathe/internal/preflight"
)

func newDoctorCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the runtime environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			results := preflight.RunAll(cmd.Context(), cfg)
			rows := make([][]string, 0, len(results))
			for _, result := range results {
				rows = append(rows, []string{result.Name, checkMark(result.Passed), result.Detail})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]column{
				{title: "Check"},
				{title: "Result"},
				{title: "Detail"},
			}, rows))

			if !preflight.Passed(results) {
				return fmt.Errorf("environment checks failed")
			}
			fmt.Fprintln(out, "All checks passed.")
			return nil
		},
	}
}
