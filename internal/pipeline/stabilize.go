package pipeline

import (
	"context"
	"fmt"
	"os"

	"lathe/internal/filtergraph"
	"lathe/internal/logging"
	"lathe/internal/services"
	"lathe/internal/services/ffmpeg"
)

// StabilizeOptions tunes one stabilization job. Zero values fall back to the
// configured defaults.
type StabilizeOptions struct {
	Smoothing int
	Zoom      int
}

func (p *Pipeline) stabilizeOptions(opts StabilizeOptions) StabilizeOptions {
	if opts.Smoothing <= 0 {
		opts.Smoothing = p.cfg.Stabilize.Smoothing
	}
	if opts.Zoom == 0 {
		opts.Zoom = p.cfg.Stabilize.Zoom
	}
	return opts
}

// Stabilize runs the two-pass motion stabilization. The first pass writes
// transform coefficients to a job-private file; the second pass consumes
// that file by reference. The coefficient file is opaque to lathe and is
// removed with the workspace on every exit path.
func (p *Pipeline) Stabilize(ctx context.Context, input, output string, opts StabilizeOptions) (string, error) {
	ctx = services.WithInput(ctx, input)
	log := p.stageLogger(ctx, "stabilize")
	opts = p.stabilizeOptions(opts)

	props, err := p.Probe(ctx, input)
	if err != nil {
		return "", err
	}
	if !props.HasVideo {
		return "", services.Wrap(services.ErrValidation, "stabilize", "probe", "input has no video stream", nil)
	}

	if err := ensureOutputDir(output); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "stabilize", "prepare", "create output directory", err)
	}

	ws, err := NewWorkspace(p.cfg.Paths.WorkDir)
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, "stabilize", "prepare", "create workspace", err)
	}
	defer ws.Cleanup()

	transforms := ws.Path("transforms.trf")
	renderer := filtergraph.Renderer{
		Binary:  p.cfg.Tools.FFmpegBinary,
		Input:   input,
		Output:  output,
		Timeout: p.transformTimeout(),
	}

	log.Info("analyzing camera motion", logging.String("job_id", ws.JobID))
	detect := renderer.VidstabDetectSpec(transforms)
	detect.Timeout = p.analyzeTimeout()
	if _, err := p.runner.Run(ctx, detect); err != nil {
		return "", err
	}
	if info, err := os.Stat(transforms); err != nil || info.Size() == 0 {
		return "", services.Wrap(services.ErrParse, "stabilize", "detect", "motion analysis produced no transform data", err)
	}

	log.Info("applying stabilization transforms",
		logging.Int("smoothing", opts.Smoothing),
		logging.Int("zoom", opts.Zoom))
	outcome, err := ffmpeg.ExecuteChain(ctx, p.runner, renderer.VidstabTransformSpecs(transforms, opts.Smoothing, opts.Zoom))
	if err != nil {
		return "", err
	}
	if outcome.Label != "audio-copy" {
		log.Warn("audio stream copy was incompatible, audio re-encoded")
	}

	return fmt.Sprintf("Video stabilized. Output saved to %s.", output), nil
}
