package preflight

import (
	"context"
	"path/filepath"
	"testing"

	"lathe/internal/testsupport"
)

func TestRunAllPassesWithStubbedEnvironment(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())

	results := RunAll(context.Background(), cfg)
	if len(results) != 4 {
		t.Fatalf("expected 4 checks, got %d: %+v", len(results), results)
	}
	if !Passed(results) {
		t.Fatalf("all checks should pass: %+v", results)
	}
}

func TestRunAllReportsMissingBinary(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Tools.FFmpegBinary = filepath.Join(testsupport.BaseDir(cfg), "missing", "ffmpeg")

	results := RunAll(context.Background(), cfg)
	if Passed(results) {
		t.Fatalf("missing engine binary should fail preflight: %+v", results)
	}
}

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()

	if result := CheckDirectoryAccess("dir", dir); !result.Passed {
		t.Fatalf("writable directory should pass: %+v", result)
	}
	if result := CheckDirectoryAccess("dir", filepath.Join(dir, "nope")); result.Passed {
		t.Fatal("missing directory should fail")
	}

	file := filepath.Join(dir, "file")
	testsupport.WriteFile(t, file, 1)
	if result := CheckDirectoryAccess("dir", file); result.Passed {
		t.Fatal("file should fail the directory check")
	}
}
