package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"lathe/internal/batch"
	"lathe/internal/pipeline"
)

// newBatchCommand is the explicit fan-out form: one operation applied to many
// inputs with an optional concurrency override. The per-operation commands
// accept multiple inputs too; this form exists for scripts that choose the
// operation at runtime.
func newBatchCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		outputDir   string
		concurrency int
		format      string
	)

	cmd := &cobra.Command{
		Use:   "batch <operation> <input>...",
		Short: "Apply one operation to many files concurrently",
		Long: `Apply one operation to many files concurrently.

Operations: silence, scenes, normalize, stabilize, convert.
Tuning knobs come from the configuration file; use the per-operation
commands for per-run flag overrides.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipe, err := cmdCtx.ensurePipeline()
			if err != nil {
				return err
			}
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			if outputDir == "" {
				return fmt.Errorf("--output-dir is required")
			}
			if concurrency > 0 {
				cfg.Batch.MaxConcurrency = concurrency
			}

			operation := strings.ToLower(strings.TrimSpace(args[0]))
			inputs := args[1:]
			jobs := make([]batch.Job, len(inputs))
			for i, input := range inputs {
				run, out, err := batchJob(pipe, operation, input, outputDir, format)
				if err != nil {
					return err
				}
				jobs[i] = batch.Job{Input: input, Output: out, Label: operation, Run: run}
			}
			return runJobs(cmd, cmdCtx, operation, jobs)
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "d", "", "Directory for batch outputs")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Worker count override (default from config)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Target container extension for the convert operation")
	return cmd
}

func batchJob(pipe *pipeline.Pipeline, operation, input, outputDir, format string) (func(context.Context) (string, error), string, error) {
	switch operation {
	case "silence":
		out := outputFor(input, outputDir, "nosilence", "")
		return func(ctx context.Context) (string, error) {
			return pipe.RemoveSilence(ctx, input, out, pipeline.SilenceOptions{})
		}, out, nil
	case "scenes":
		base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		out := filepath.Join(outputDir, base)
		return func(ctx context.Context) (string, error) {
			return pipe.SplitScenes(ctx, input, out, pipeline.SceneOptions{})
		}, out, nil
	case "normalize":
		out := outputFor(input, outputDir, "normalized", "")
		return func(ctx context.Context) (string, error) {
			return pipe.Normalize(ctx, input, out, pipeline.LoudnessOptions{})
		}, out, nil
	case "stabilize":
		out := outputFor(input, outputDir, "stabilized", "")
		return func(ctx context.Context) (string, error) {
			return pipe.Stabilize(ctx, input, out, pipeline.StabilizeOptions{})
		}, out, nil
	case "convert":
		if format == "" {
			return nil, "", fmt.Errorf("the convert operation requires --format")
		}
		out := outputFor(input, outputDir, "", format)
		return func(ctx context.Context) (string, error) {
			return pipe.Convert(ctx, input, out)
		}, out, nil
	default:
		return nil, "", fmt.Errorf("unknown operation %q (silence, scenes, normalize, stabilize, convert)", operation)
	}
}
