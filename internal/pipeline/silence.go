package pipeline

import (
	"context"
	"fmt"

	"lathe/internal/diagnostic"
	"lathe/internal/filtergraph"
	"lathe/internal/logging"
	"lathe/internal/plan"
	"lathe/internal/services"
	"lathe/internal/services/ffmpeg"
)

// SilenceOptions tunes one silence-removal job. Zero values fall back to the
// configured defaults.
type SilenceOptions struct {
	ThresholdDB       float64
	MinSilenceMillis  int
	MinSegmentSeconds float64
}

func (p *Pipeline) silenceOptions(opts SilenceOptions) SilenceOptions {
	if opts.ThresholdDB == 0 {
		opts.ThresholdDB = p.cfg.Silence.ThresholdDB
	}
	if opts.MinSilenceMillis <= 0 {
		opts.MinSilenceMillis = p.cfg.Silence.MinSilenceMillis
	}
	if opts.MinSegmentSeconds <= 0 {
		opts.MinSegmentSeconds = p.cfg.Silence.MinSegmentSeconds
	}
	return opts
}

// RemoveSilence analyzes input for silent intervals and writes a copy with
// those intervals cut out. When no silence is detected, or the whole file is
// silent, the input is copied through unchanged.
func (p *Pipeline) RemoveSilence(ctx context.Context, input, output string, opts SilenceOptions) (string, error) {
	ctx = services.WithInput(ctx, input)
	log := p.stageLogger(ctx, "silence")
	opts = p.silenceOptions(opts)

	props, err := p.Probe(ctx, input)
	if err != nil {
		return "", err
	}
	if !props.HasAudio {
		return "", services.Wrap(services.ErrValidation, "silence", "probe", "input has no audio stream to analyze", nil)
	}

	if err := ensureOutputDir(output); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "silence", "prepare", "create output directory", err)
	}

	detect := filtergraph.NewFilter("silencedetect",
		filtergraph.Arg{Key: "noise", Value: fmt.Sprintf("%gdB", opts.ThresholdDB)},
		filtergraph.Arg{Key: "d", Value: filtergraph.FormatValue(float64(opts.MinSilenceMillis) / 1000.0)},
	)
	analyze := ffmpeg.InvocationSpec{
		Binary:            p.cfg.Tools.FFmpegBinary,
		Args:              []string{"-i", input, "-af", detect.Render(), "-f", "null", "-"},
		StderrDiagnostics: true,
		Timeout:           p.analyzeTimeout(),
		Label:             "silencedetect",
	}

	log.Info("analyzing for silent intervals",
		logging.String("threshold_db", fmt.Sprintf("%g", opts.ThresholdDB)),
		logging.Int("min_silence_ms", opts.MinSilenceMillis))

	result, err := p.runner.Run(ctx, analyze)
	if err != nil {
		return "", err
	}

	events, err := diagnostic.Parse(string(result.Stderr), diagnostic.KindSilence)
	if err != nil {
		return "", err
	}

	segPlan, err := plan.BuildSegmentPlan(events, props.Duration, opts.MinSegmentSeconds)
	if err != nil {
		return "", err
	}

	renderer := filtergraph.Renderer{
		Binary:  p.cfg.Tools.FFmpegBinary,
		Input:   input,
		Output:  output,
		Timeout: p.transformTimeout(),
	}

	if segPlan.Empty() {
		// The whole file registered as silence. Cutting everything would
		// produce an empty container, so treat it like the no-detection case.
		log.Warn("entire input detected as silence, copying through unchanged")
		if _, err := ffmpeg.ExecuteChain(ctx, p.runner, ffmpeg.Chain{renderer.CopySpec(), renderer.ReencodeSpec()}); err != nil {
			return "", err
		}
		return fmt.Sprintf("Entire input registered as silence. Original media copied to %s.", output), nil
	}

	if segPlan.Passthrough() {
		if _, err := ffmpeg.ExecuteChain(ctx, p.runner, ffmpeg.Chain{renderer.CopySpec(), renderer.ReencodeSpec()}); err != nil {
			return "", err
		}
		return fmt.Sprintf("No significant silences detected. Original media copied to %s.", output), nil
	}

	spec, err := renderer.SegmentSpec(segPlan, props.HasVideo, props.HasAudio)
	if err != nil {
		return "", err
	}

	kept := segPlan.KeepSegments()
	var keptDuration float64
	for _, seg := range kept {
		keptDuration += seg.Duration()
	}
	log.Info("removing silent segments",
		logging.Int("kept_segments", len(kept)),
		logging.String("kept_duration", filtergraph.FormatValue(keptDuration)),
		logging.String("total_duration", filtergraph.FormatValue(props.Duration)))

	if _, err := p.runner.Run(ctx, spec); err != nil {
		return "", err
	}
	return fmt.Sprintf("Silent segments removed. Output saved to %s.", output), nil
}
