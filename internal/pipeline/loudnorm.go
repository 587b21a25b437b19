package pipeline

import (
	"context"
	"fmt"
	"strings"

	"lathe/internal/diagnostic"
	"lathe/internal/filtergraph"
	"lathe/internal/logging"
	"lathe/internal/plan"
	"lathe/internal/services"
	"lathe/internal/services/ffmpeg"
)

// LoudnessOptions tunes one normalization job. Zero values fall back to the
// configured targets.
type LoudnessOptions struct {
	TargetI   float64
	TargetLRA float64
	TargetTP  float64
}

func (p *Pipeline) loudnessOptions(opts LoudnessOptions) LoudnessOptions {
	if opts.TargetI == 0 {
		opts.TargetI = p.cfg.Loudness.TargetI
	}
	if opts.TargetLRA == 0 {
		opts.TargetLRA = p.cfg.Loudness.TargetLRA
	}
	if opts.TargetTP == 0 {
		opts.TargetTP = p.cfg.Loudness.TargetTP
	}
	return opts
}

// Normalize measures the input's loudness and writes a corrected copy that
// meets the target levels. Measurement and correction are separate engine
// passes; the measured statistics from the first are fed verbatim into the
// second so the correction is a deterministic linear adjustment.
func (p *Pipeline) Normalize(ctx context.Context, input, output string, opts LoudnessOptions) (string, error) {
	ctx = services.WithInput(ctx, input)
	log := p.stageLogger(ctx, "normalize")
	opts = p.loudnessOptions(opts)

	props, err := p.Probe(ctx, input)
	if err != nil {
		return "", err
	}
	if !props.HasAudio {
		return "", services.Wrap(services.ErrValidation, "normalize", "probe", "input has no audio stream", nil)
	}

	if err := ensureOutputDir(output); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "normalize", "prepare", "create output directory", err)
	}

	measure := filtergraph.NewFilter("loudnorm",
		filtergraph.Arg{Key: "I", Value: filtergraph.FormatValue(opts.TargetI)},
		filtergraph.Arg{Key: "LRA", Value: filtergraph.FormatValue(opts.TargetLRA)},
		filtergraph.Arg{Key: "TP", Value: filtergraph.FormatValue(opts.TargetTP)},
		filtergraph.Arg{Key: "print_format", Value: "json"},
	)
	analyze := ffmpeg.InvocationSpec{
		Binary:            p.cfg.Tools.FFmpegBinary,
		Args:              []string{"-i", input, "-af", measure.Render(), "-f", "null", "-"},
		StderrDiagnostics: true,
		Timeout:           p.analyzeTimeout(),
		Label:             "loudnorm-measure",
	}

	log.Info("measuring loudness",
		logging.Float64("target_i", opts.TargetI),
		logging.Float64("target_lra", opts.TargetLRA),
		logging.Float64("target_tp", opts.TargetTP))

	result, err := p.runner.Run(ctx, analyze)
	if err != nil {
		return "", err
	}

	events, err := diagnostic.Parse(string(result.Stderr), diagnostic.KindLoudness)
	if err != nil {
		return "", err
	}

	paramPlan, err := plan.BuildParameterPlan(events, map[string]float64{
		plan.ParamTargetI:   opts.TargetI,
		plan.ParamTargetLRA: opts.TargetLRA,
		plan.ParamTargetTP:  opts.TargetTP,
	})
	if err != nil {
		return "", err
	}
	if len(paramPlan.Missing) > 0 {
		log.Warn("analysis output missing measured fields, correction accuracy degraded",
			logging.String("missing", strings.Join(paramPlan.Missing, ", ")))
	}

	renderer := filtergraph.Renderer{
		Binary:  p.cfg.Tools.FFmpegBinary,
		Input:   input,
		Output:  output,
		Timeout: p.transformTimeout(),
	}
	chain := ffmpeg.Chain{
		renderer.ParameterSpec(paramPlan, true),
		renderer.ParameterSpec(paramPlan, false),
	}
	outcome, err := ffmpeg.ExecuteChain(ctx, p.runner, chain)
	if err != nil {
		return "", err
	}
	if outcome.Label != "loudnorm-linear" {
		log.Warn("linear correction failed, fell back to dynamic normalization")
	}

	measured := paramPlan.Params[plan.ParamMeasuredI]
	return fmt.Sprintf("Loudness normalized from %s LUFS to %s LUFS. Output saved to %s.",
		filtergraph.FormatValue(measured), filtergraph.FormatValue(opts.TargetI), output), nil
}
