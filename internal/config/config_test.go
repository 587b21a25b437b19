package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lathe/internal/config"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, _, exists, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if cfg.Tools.FFmpegBinary != "ffmpeg" {
		t.Fatalf("expected default ffmpeg binary, got %q", cfg.Tools.FFmpegBinary)
	}
	if cfg.Batch.MaxConcurrency != 3 {
		t.Fatalf("expected default max_concurrency 3, got %d", cfg.Batch.MaxConcurrency)
	}
	if !filepath.IsAbs(cfg.Paths.WorkDir) {
		t.Fatalf("expected expanded work dir, got %q", cfg.Paths.WorkDir)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
work_dir = "` + filepath.Join(dir, "work") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[batch]
max_concurrency = 8

[silence]
threshold_db = -42.5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config read from %s, got %s exists=%v", path, resolved, exists)
	}
	if cfg.Batch.MaxConcurrency != 8 {
		t.Fatalf("expected max_concurrency 8, got %d", cfg.Batch.MaxConcurrency)
	}
	if cfg.Silence.ThresholdDB != -42.5 {
		t.Fatalf("expected threshold -42.5, got %v", cfg.Silence.ThresholdDB)
	}
	// Untouched sections keep defaults.
	if cfg.Loudness.TargetI != -23.0 {
		t.Fatalf("expected default loudness target, got %v", cfg.Loudness.TargetI)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"zero concurrency", func(c *config.Config) { c.Batch.MaxConcurrency = 0 }, "max_concurrency"},
		{"positive silence threshold", func(c *config.Config) { c.Silence.ThresholdDB = 3 }, "threshold_db"},
		{"scene threshold above one", func(c *config.Config) { c.Scenes.Threshold = 1.5 }, "scenes.threshold"},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "yaml" }, "logging.format"},
		{"bad log level", func(c *config.Config) { c.Logging.Level = "verbose" }, "logging.level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Logging.Format = "console"
			cfg.Logging.Level = "info"
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.WriteSample(path); err != nil {
		t.Fatalf("WriteSample failed: %v", err)
	}
	if err := config.WriteSample(path); err == nil {
		t.Fatal("expected error when config already exists")
	}
}
