package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestConfig(t *testing.T, base string) string {
	t.Helper()

	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
work_dir = %q
log_dir = %q

[batch]
max_concurrency = 2
ledger_enabled = true
ledger_path = %q
`,
		filepath.Join(base, "work"),
		filepath.Join(base, "logs"),
		filepath.Join(base, "logs", "ledger.db"),
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestConfigValidateWithExplicitPath(t *testing.T) {
	configPath := writeTestConfig(t, t.TempDir())

	out, err := runCommand(t, "config", "validate", "--config", configPath)
	if err != nil {
		t.Fatalf("config validate: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Configuration valid") {
		t.Fatalf("unexpected output: %s", out)
	}
	if !strings.Contains(out, configPath) {
		t.Fatalf("output should name the config path: %s", out)
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "lathe", "config.toml")

	out, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v\n%s", err, out)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[tools]") {
		t.Fatalf("sample config missing tools section:\n%s", data)
	}

	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("second init over an existing file should fail")
	}
}

func TestHistoryEmptyLedger(t *testing.T) {
	configPath := writeTestConfig(t, t.TempDir())

	out, err := runCommand(t, "history", "--config", configPath)
	if err != nil {
		t.Fatalf("history: %v\n%s", err, out)
	}
	if !strings.Contains(out, "No batch runs recorded yet.") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestTrimRequiresFlags(t *testing.T) {
	configPath := writeTestConfig(t, t.TempDir())

	if _, err := runCommand(t, "trim", "in.mp4", "--config", configPath); err == nil {
		t.Fatal("trim without --output should fail")
	}
	if _, err := runCommand(t, "trim", "in.mp4", "-o", "out.mp4", "--config", configPath); err == nil {
		t.Fatal("trim without --start/--end should fail")
	}
}

func TestResolveOutputs(t *testing.T) {
	outputs, err := resolveOutputs([]string{"a.mp4"}, "explicit.mp4", "", "x", "")
	if err != nil {
		t.Fatalf("single explicit output: %v", err)
	}
	if outputs[0] != "explicit.mp4" {
		t.Fatalf("explicit output ignored: %v", outputs)
	}

	if _, err := resolveOutputs([]string{"a.mp4", "b.mp4"}, "explicit.mp4", "", "x", ""); err == nil {
		t.Fatal("explicit output with multiple inputs should fail")
	}
	if _, err := resolveOutputs([]string{"a.mp4"}, "", "", "x", ""); err == nil {
		t.Fatal("no output destination should fail")
	}

	outputs, err = resolveOutputs([]string{"/in/a.mp4", "/in/b.mkv"}, "", "/out", "clean", "")
	if err != nil {
		t.Fatalf("batch outputs: %v", err)
	}
	want := []string{"/out/a_clean.mp4", "/out/b_clean.mkv"}
	for i := range want {
		if outputs[i] != want[i] {
			t.Fatalf("output %d = %q, want %q", i, outputs[i], want[i])
		}
	}
}

func TestOutputForSwapsExtension(t *testing.T) {
	if got := outputFor("/in/clip.mkv", "/out", "", "mp4"); got != "/out/clip.mp4" {
		t.Fatalf("outputFor = %q", got)
	}
	if got := outputFor("/in/clip.mkv", "/out", "", ".webm"); got != "/out/clip.webm" {
		t.Fatalf("outputFor = %q", got)
	}
}

func TestBatchCommandRejectsUnknownOperation(t *testing.T) {
	configPath := writeTestConfig(t, t.TempDir())

	_, err := runCommand(t, "batch", "sharpen", "a.mp4", "-d", t.TempDir(), "--config", configPath)
	if err == nil || !strings.Contains(err.Error(), "unknown operation") {
		t.Fatalf("expected unknown-operation error, got %v", err)
	}

	_, err = runCommand(t, "batch", "convert", "a.mp4", "b.mp4", "-d", t.TempDir(), "--config", configPath)
	if err == nil || !strings.Contains(err.Error(), "--format") {
		t.Fatalf("convert without --format should fail, got %v", err)
	}
}

func TestOperationTitle(t *testing.T) {
	if got := operationTitle("silence"); got != "Silence" {
		t.Fatalf("operationTitle = %q", got)
	}
}
