package config

const (
	defaultWorkDir          = "~/.local/share/lathe/work"
	defaultLogDir           = "~/.local/share/lathe/logs"
	defaultFFmpegBinary     = "ffmpeg"
	defaultFFprobeBinary    = "ffprobe"
	defaultAnalyzeTimeout   = 600
	defaultTransformTimeout = 1800
	defaultProbeTimeout     = 60
	defaultMaxConcurrency   = 3
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"

	defaultSilenceThresholdDB  = -30.0
	defaultMinSilenceMillis    = 500
	defaultMinSegmentSeconds   = 0.1
	defaultSceneThreshold      = 0.08
	defaultLoudnessTargetI     = -23.0
	defaultLoudnessTargetLRA   = 7.0
	defaultLoudnessTargetTP    = -2.0
	defaultStabilizeSmoothing  = 10
	defaultStabilizeZoom       = 0
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir: defaultWorkDir,
			LogDir:  defaultLogDir,
		},
		Tools: Tools{
			FFmpegBinary:     defaultFFmpegBinary,
			FFprobeBinary:    defaultFFprobeBinary,
			AnalyzeTimeout:   defaultAnalyzeTimeout,
			TransformTimeout: defaultTransformTimeout,
			ProbeTimeout:     defaultProbeTimeout,
		},
		Batch: Batch{
			MaxConcurrency: defaultMaxConcurrency,
			LedgerEnabled:  true,
		},
		Silence: Silence{
			ThresholdDB:       defaultSilenceThresholdDB,
			MinSilenceMillis:  defaultMinSilenceMillis,
			MinSegmentSeconds: defaultMinSegmentSeconds,
		},
		Scenes: Scenes{
			Threshold:         defaultSceneThreshold,
			MinSegmentSeconds: defaultMinSegmentSeconds,
		},
		Loudness: Loudness{
			TargetI:   defaultLoudnessTargetI,
			TargetLRA: defaultLoudnessTargetLRA,
			TargetTP:  defaultLoudnessTargetTP,
		},
		Stabilize: Stabilize{
			Smoothing: defaultStabilizeSmoothing,
			Zoom:      defaultStabilizeZoom,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
