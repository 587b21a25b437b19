package pipeline

import (
	"context"
	"fmt"

	"lathe/internal/filtergraph"
	"lathe/internal/services"
	"lathe/internal/services/ffmpeg"
)

// Convert remuxes input into the container implied by output's extension,
// copying streams when the container allows it and re-encoding otherwise.
func (p *Pipeline) Convert(ctx context.Context, input, output string) (string, error) {
	ctx = services.WithInput(ctx, input)
	log := p.stageLogger(ctx, "convert")

	if _, err := p.Probe(ctx, input); err != nil {
		return "", err
	}
	if err := ensureOutputDir(output); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "convert", "prepare", "create output directory", err)
	}

	renderer := filtergraph.Renderer{
		Binary:  p.cfg.Tools.FFmpegBinary,
		Input:   input,
		Output:  output,
		Timeout: p.transformTimeout(),
	}
	outcome, err := ffmpeg.ExecuteChain(ctx, p.runner, ffmpeg.Chain{renderer.CopySpec(), renderer.ReencodeSpec()})
	if err != nil {
		return "", err
	}
	if outcome.Label != "stream-copy" {
		log.Warn("container conversion required a re-encode")
	}
	return fmt.Sprintf("Converted to %s.", output), nil
}

// Trim extracts the [start, end] window from input. Timestamps accept the
// same formats as ParseTimeToSeconds.
func (p *Pipeline) Trim(ctx context.Context, input, output, start, end string) (string, error) {
	ctx = services.WithInput(ctx, input)
	log := p.stageLogger(ctx, "trim")

	startSec, err := ParseTimeToSeconds(start)
	if err != nil {
		return "", err
	}
	endSec, err := ParseTimeToSeconds(end)
	if err != nil {
		return "", err
	}
	if endSec <= startSec {
		return "", services.Wrap(services.ErrValidation, "trim", "window",
			fmt.Sprintf("end %s is not after start %s", end, start), nil)
	}

	props, err := p.Probe(ctx, input)
	if err != nil {
		return "", err
	}
	if startSec >= props.Duration {
		return "", services.Wrap(services.ErrValidation, "trim", "window",
			fmt.Sprintf("start %s is past the end of the input", start), nil)
	}
	if endSec > props.Duration {
		endSec = props.Duration
	}

	if err := ensureOutputDir(output); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "trim", "prepare", "create output directory", err)
	}

	renderer := filtergraph.Renderer{
		Binary:  p.cfg.Tools.FFmpegBinary,
		Input:   input,
		Output:  output,
		Timeout: p.transformTimeout(),
	}
	outcome, err := ffmpeg.ExecuteChain(ctx, p.runner, renderer.ExtractSpecs(startSec, endSec))
	if err != nil {
		return "", err
	}
	if outcome.Label != "stream-copy" {
		log.Warn("stream copy was incompatible, trim re-encoded")
	}
	return fmt.Sprintf("Trimmed %s to %s. Output saved to %s.", start, end, output), nil
}
