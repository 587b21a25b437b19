package pipeline

import (
	"context"
	"log/slog"
	"time"

	"lathe/internal/config"
	"lathe/internal/logging"
	"lathe/internal/media/probe"
	"lathe/internal/services"
	"lathe/internal/services/ffmpeg"
)

// Pipeline executes the analyze-then-transform workflows against the
// external engine. One Pipeline is safe for concurrent use; all per-job
// state lives in job workspaces.
type Pipeline struct {
	cfg    *config.Config
	runner ffmpeg.Runner
	logger *slog.Logger
}

// New constructs a pipeline bound to the given configuration and runner.
func New(cfg *config.Config, runner ffmpeg.Runner, logger *slog.Logger) *Pipeline {
	if runner == nil {
		runner = ffmpeg.NewRunner()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{cfg: cfg, runner: runner, logger: logger}
}

func (p *Pipeline) analyzeTimeout() time.Duration {
	return time.Duration(p.cfg.Tools.AnalyzeTimeout) * time.Second
}

func (p *Pipeline) transformTimeout() time.Duration {
	return time.Duration(p.cfg.Tools.TransformTimeout) * time.Second
}

func (p *Pipeline) probeTimeout() time.Duration {
	return time.Duration(p.cfg.Tools.ProbeTimeout) * time.Second
}

// Probe inspects the input and returns its derived properties.
func (p *Pipeline) Probe(ctx context.Context, input string) (probe.MediaProbe, error) {
	result, err := probe.Inspect(ctx, p.cfg.Tools.FFprobeBinary, input, p.probeTimeout())
	if err != nil {
		return probe.MediaProbe{}, services.Wrap(services.ErrSpawn, "probe", "inspect", "", err)
	}
	props := result.Properties()
	if props.Duration <= 0 {
		return props, services.Wrap(services.ErrValidation, "probe", "inspect", "container reports no duration", nil)
	}
	return props, nil
}

func (p *Pipeline) stageLogger(ctx context.Context, stage string) *slog.Logger {
	return logging.WithContext(services.WithStage(ctx, stage), p.logger)
}
