package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lathe/internal/diagnostic"
	"lathe/internal/filtergraph"
	"lathe/internal/logging"
	"lathe/internal/plan"
	"lathe/internal/services"
	"lathe/internal/services/ffmpeg"
)

// SceneOptions tunes one scene-splitting job. Zero values fall back to the
// configured defaults.
type SceneOptions struct {
	Threshold         float64
	MinSegmentSeconds float64
}

func (p *Pipeline) sceneOptions(opts SceneOptions) SceneOptions {
	if opts.Threshold <= 0 {
		opts.Threshold = p.cfg.Scenes.Threshold
	}
	if opts.MinSegmentSeconds <= 0 {
		opts.MinSegmentSeconds = p.cfg.Scenes.MinSegmentSeconds
	}
	return opts
}

// SplitScenes detects scene boundaries in input and writes one file per scene
// into outputDir. When no boundary is found the whole input is written as a
// single scene.
func (p *Pipeline) SplitScenes(ctx context.Context, input, outputDir string, opts SceneOptions) (string, error) {
	ctx = services.WithInput(ctx, input)
	log := p.stageLogger(ctx, "scenes")
	opts = p.sceneOptions(opts)

	props, err := p.Probe(ctx, input)
	if err != nil {
		return "", err
	}
	if !props.HasVideo {
		return "", services.Wrap(services.ErrValidation, "scenes", "probe", "input has no video stream to analyze", nil)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "scenes", "prepare", "create output directory", err)
	}

	detect := filtergraph.NewFilter("scdet",
		filtergraph.Arg{Key: "threshold", Value: filtergraph.FormatValue(opts.Threshold * 100)},
	)
	analyze := ffmpeg.InvocationSpec{
		Binary:            p.cfg.Tools.FFmpegBinary,
		Args:              []string{"-i", input, "-vf", detect.Render(), "-f", "null", "-"},
		StderrDiagnostics: true,
		Timeout:           p.analyzeTimeout(),
		Label:             "scdet",
	}

	log.Info("analyzing for scene boundaries",
		logging.Float64("threshold", opts.Threshold))

	result, err := p.runner.Run(ctx, analyze)
	if err != nil {
		return "", err
	}

	events, err := diagnostic.Parse(string(result.Stderr), diagnostic.KindScene)
	if err != nil {
		return "", err
	}

	segPlan, err := plan.BuildSegmentPlan(events, props.Duration, opts.MinSegmentSeconds)
	if err != nil {
		return "", err
	}

	scenes := segPlan.KeepSegments()
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	ext := filepath.Ext(input)
	if ext == "" {
		ext = ".mp4"
	}

	log.Info("extracting scenes", logging.Int("scene_count", len(scenes)))

	for i, scene := range scenes {
		name := fmt.Sprintf("scene_%03d_%s-%s%s", i+1,
			filtergraph.FormatSeconds(scene.Start), filtergraph.FormatSeconds(scene.End), ext)
		outPath := filepath.Join(outputDir, sanitizeFileName(base)+"_"+name)

		renderer := filtergraph.Renderer{
			Binary:  p.cfg.Tools.FFmpegBinary,
			Input:   input,
			Output:  outPath,
			Timeout: p.transformTimeout(),
		}
		outcome, err := ffmpeg.ExecuteChain(ctx, p.runner, renderer.ExtractSpecs(scene.Start, scene.End))
		if err != nil {
			return "", err
		}
		if outcome.Label != "stream-copy" {
			log.Warn("scene extracted via re-encode, stream copy was incompatible",
				logging.String("scene", name))
		}
	}

	if len(scenes) == 1 {
		return fmt.Sprintf("No scene boundaries detected. Whole input written as one scene in %s.", outputDir), nil
	}
	return fmt.Sprintf("Split into %d scenes in %s.", len(scenes), outputDir), nil
}
