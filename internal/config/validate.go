package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTools(); err != nil {
		return err
	}
	if err := c.validateBatch(); err != nil {
		return err
	}
	if err := c.validatePipelines(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		return errors.New("paths.work_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateTools() error {
	if c.Tools.AnalyzeTimeout <= 0 {
		return errors.New("tools.analyze_timeout must be positive")
	}
	if c.Tools.TransformTimeout <= 0 {
		return errors.New("tools.transform_timeout must be positive")
	}
	if c.Tools.ProbeTimeout <= 0 {
		return errors.New("tools.probe_timeout must be positive")
	}
	return nil
}

func (c *Config) validateBatch() error {
	if c.Batch.MaxConcurrency < 1 {
		return errors.New("batch.max_concurrency must be at least 1")
	}
	if c.Batch.LedgerEnabled && strings.TrimSpace(c.Batch.LedgerPath) == "" {
		return errors.New("batch.ledger_path must be set when the ledger is enabled")
	}
	return nil
}

func (c *Config) validatePipelines() error {
	if c.Silence.ThresholdDB >= 0 {
		return fmt.Errorf("silence.threshold_db must be negative, got %.1f", c.Silence.ThresholdDB)
	}
	if c.Silence.MinSilenceMillis <= 0 {
		return errors.New("silence.min_silence_ms must be positive")
	}
	if c.Silence.MinSegmentSeconds < 0 {
		return errors.New("silence.min_segment_seconds must not be negative")
	}
	if c.Scenes.Threshold <= 0 || c.Scenes.Threshold > 1 {
		return fmt.Errorf("scenes.threshold must be in (0, 1], got %.3f", c.Scenes.Threshold)
	}
	if c.Scenes.MinSegmentSeconds < 0 {
		return errors.New("scenes.min_segment_seconds must not be negative")
	}
	if c.Loudness.TargetI > 0 {
		return fmt.Errorf("loudness.target_i must not be positive, got %.1f", c.Loudness.TargetI)
	}
	if c.Loudness.TargetLRA <= 0 {
		return errors.New("loudness.target_lra must be positive")
	}
	if c.Stabilize.Smoothing < 0 {
		return errors.New("stabilize.smoothing must not be negative")
	}
	if c.Stabilize.Zoom < 0 {
		return errors.New("stabilize.zoom must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
