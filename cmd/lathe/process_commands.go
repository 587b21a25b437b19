package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"lathe/internal/batch"
	"lathe/internal/pipeline"
)

// resolveOutputs maps each input to an output path. A single input may name
// its output explicitly; multiple inputs require an output directory.
func resolveOutputs(inputs []string, output, outputDir, suffix, ext string) ([]string, error) {
	if len(inputs) > 1 && output != "" {
		return nil, fmt.Errorf("--output only applies to a single input; use --output-dir for batches")
	}
	if len(inputs) == 1 && output != "" {
		return []string{output}, nil
	}
	if outputDir == "" {
		return nil, fmt.Errorf("specify --output for a single input or --output-dir for batches")
	}
	outputs := make([]string, 0, len(inputs))
	for _, input := range inputs {
		outputs = append(outputs, outputFor(input, outputDir, suffix, ext))
	}
	return outputs, nil
}

func newSilenceCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		output     string
		outputDir  string
		threshold  float64
		minSilence int
		minSegment float64
	)

	cmd := &cobra.Command{
		Use:   "silence <input>...",
		Short: "Remove silent intervals from media files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipe, err := cmdCtx.ensurePipeline()
			if err != nil {
				return err
			}
			outputs, err := resolveOutputs(args, output, outputDir, "nosilence", "")
			if err != nil {
				return err
			}
			opts := pipeline.SilenceOptions{
				ThresholdDB:       threshold,
				MinSilenceMillis:  minSilence,
				MinSegmentSeconds: minSegment,
			}
			jobs := make([]batch.Job, len(args))
			for i, input := range args {
				input, out := input, outputs[i]
				jobs[i] = batch.Job{
					Input:  input,
					Output: out,
					Label:  "silence",
					Run: func(ctx context.Context) (string, error) {
						return pipe.RemoveSilence(ctx, input, out, opts)
					},
				}
			}
			return runJobs(cmd, cmdCtx, "silence", jobs)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (single input only)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "d", "", "Directory for batch outputs")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Silence threshold in dB (default from config)")
	cmd.Flags().IntVar(&minSilence, "min-silence", 0, "Minimum silence duration in milliseconds")
	cmd.Flags().Float64Var(&minSegment, "min-segment", 0, "Minimum kept segment length in seconds")
	return cmd
}

func newScenesCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		outputDir  string
		threshold  float64
		minSegment float64
	)

	cmd := &cobra.Command{
		Use:   "scenes <input>",
		Short: "Split a video into files at scene boundaries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipe, err := cmdCtx.ensurePipeline()
			if err != nil {
				return err
			}
			if outputDir == "" {
				return fmt.Errorf("--output-dir is required")
			}
			status, err := pipe.SplitScenes(cmd.Context(), args[0], outputDir, pipeline.SceneOptions{
				Threshold:         threshold,
				MinSegmentSeconds: minSegment,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), status)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "d", "", "Directory for the scene files")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Scene change threshold 0-1 (default from config)")
	cmd.Flags().Float64Var(&minSegment, "min-segment", 0, "Minimum scene length in seconds")
	return cmd
}

func newNormalizeCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		output    string
		outputDir string
		targetI   float64
		targetLRA float64
		targetTP  float64
	)

	cmd := &cobra.Command{
		Use:   "normalize <input>...",
		Short: "Normalize audio loudness to EBU R128 targets",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipe, err := cmdCtx.ensurePipeline()
			if err != nil {
				return err
			}
			outputs, err := resolveOutputs(args, output, outputDir, "normalized", "")
			if err != nil {
				return err
			}
			opts := pipeline.LoudnessOptions{
				TargetI:   targetI,
				TargetLRA: targetLRA,
				TargetTP:  targetTP,
			}
			jobs := make([]batch.Job, len(args))
			for i, input := range args {
				input, out := input, outputs[i]
				jobs[i] = batch.Job{
					Input:  input,
					Output: out,
					Label:  "normalize",
					Run: func(ctx context.Context) (string, error) {
						return pipe.Normalize(ctx, input, out, opts)
					},
				}
			}
			return runJobs(cmd, cmdCtx, "normalize", jobs)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (single input only)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "d", "", "Directory for batch outputs")
	cmd.Flags().Float64Var(&targetI, "target-i", 0, "Integrated loudness target in LUFS")
	cmd.Flags().Float64Var(&targetLRA, "target-lra", 0, "Loudness range target in LU")
	cmd.Flags().Float64Var(&targetTP, "target-tp", 0, "True peak ceiling in dBTP")
	return cmd
}

func newStabilizeCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		output    string
		outputDir string
		smoothing int
		zoom      int
	)

	cmd := &cobra.Command{
		Use:   "stabilize <input>...",
		Short: "Stabilize shaky camera footage",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipe, err := cmdCtx.ensurePipeline()
			if err != nil {
				return err
			}
			outputs, err := resolveOutputs(args, output, outputDir, "stabilized", "")
			if err != nil {
				return err
			}
			opts := pipeline.StabilizeOptions{Smoothing: smoothing, Zoom: zoom}
			jobs := make([]batch.Job, len(args))
			for i, input := range args {
				input, out := input, outputs[i]
				jobs[i] = batch.Job{
					Input:  input,
					Output: out,
					Label:  "stabilize",
					Run: func(ctx context.Context) (string, error) {
						return pipe.Stabilize(ctx, input, out, opts)
					},
				}
			}
			return runJobs(cmd, cmdCtx, "stabilize", jobs)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (single input only)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "d", "", "Directory for batch outputs")
	cmd.Flags().IntVar(&smoothing, "smoothing", 0, "Number of frames for camera path smoothing")
	cmd.Flags().IntVar(&zoom, "zoom", 0, "Zoom percentage applied to hide borders")
	return cmd
}

func newConvertCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		output    string
		outputDir string
		format    string
	)

	cmd := &cobra.Command{
		Use:   "convert <input>...",
		Short: "Convert media files to another container",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipe, err := cmdCtx.ensurePipeline()
			if err != nil {
				return err
			}
			if output == "" && format == "" {
				return fmt.Errorf("specify --format or an explicit --output")
			}
			outputs, err := resolveOutputs(args, output, outputDir, "", format)
			if err != nil {
				return err
			}
			jobs := make([]batch.Job, len(args))
			for i, input := range args {
				input, out := input, outputs[i]
				jobs[i] = batch.Job{
					Input:  input,
					Output: out,
					Label:  "convert",
					Run: func(ctx context.Context) (string, error) {
						return pipe.Convert(ctx, input, out)
					},
				}
			}
			return runJobs(cmd, cmdCtx, "convert", jobs)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (single input only)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "d", "", "Directory for batch outputs")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Target container extension, e.g. mp4 or mkv")
	return cmd
}

func newTrimCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		output string
		start  string
		end    string
	)

	cmd := &cobra.Command{
		Use:   "trim <input>",
		Short: "Extract a time window from a media file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipe, err := cmdCtx.ensurePipeline()
			if err != nil {
				return err
			}
			if output == "" {
				return fmt.Errorf("--output is required")
			}
			if start == "" || end == "" {
				return fmt.Errorf("--start and --end are required")
			}
			status, err := pipe.Trim(cmd.Context(), args[0], output, start, end)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), status)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file")
	cmd.Flags().StringVar(&start, "start", "", "Window start (HH:MM:SS.mmm, MM:SS, or seconds)")
	cmd.Flags().StringVar(&end, "end", "", "Window end (HH:MM:SS.mmm, MM:SS, or seconds)")
	return cmd
}
