package ffmpeg_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"lathe/internal/services"
	"lathe/internal/services/ffmpeg"
)

// fakeRunner scripts per-label outcomes and records attempt order.
type fakeRunner struct {
	mu       sync.Mutex
	fail     map[string]error
	attempts []string
}

func (f *fakeRunner) Run(_ context.Context, spec ffmpeg.InvocationSpec) (ffmpeg.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts = append(f.attempts, spec.Label)
	if err, ok := f.fail[spec.Label]; ok && err != nil {
		return ffmpeg.Result{ExitCode: 1}, err
	}
	return ffmpeg.Result{}, nil
}

func chainOfLength(n int) ffmpeg.Chain {
	chain := make(ffmpeg.Chain, n)
	for i := range chain {
		chain[i] = ffmpeg.InvocationSpec{Binary: "ffmpeg"}
	}
	return chain
}

func TestExecuteChainTriesAllStrategiesInOrder(t *testing.T) {
	runner := &fakeRunner{fail: map[string]error{
		"primary":    services.Wrap(services.ErrExit, "primary", "run", "stream copy incompatible", nil),
		"fallback-1": services.Wrap(services.ErrExit, "fallback-1", "run", "codec not found", nil),
	}}

	outcome, err := ffmpeg.ExecuteChain(context.Background(), runner, chainOfLength(3))
	if err != nil {
		t.Fatalf("ExecuteChain failed: %v", err)
	}
	if outcome.Label != "fallback-2" {
		t.Fatalf("expected fallback-2 to win, got %q", outcome.Label)
	}
	want := []string{"primary", "fallback-1", "fallback-2"}
	if len(runner.attempts) != len(want) {
		t.Fatalf("expected %d attempts, got %v", len(want), runner.attempts)
	}
	for i, label := range want {
		if runner.attempts[i] != label {
			t.Fatalf("attempt %d: got %q, want %q", i, runner.attempts[i], label)
		}
	}
}

func TestExecuteChainCompositeErrorKeepsEveryFailure(t *testing.T) {
	runner := &fakeRunner{fail: map[string]error{
		"primary":    services.Wrap(services.ErrExit, "primary", "run", "stream copy incompatible", nil),
		"fallback-1": services.Wrap(services.ErrTimeout, "fallback-1", "run", "deadline exceeded", nil),
		"fallback-2": services.Wrap(services.ErrExit, "fallback-2", "run", "codec not found", nil),
	}}

	_, err := ffmpeg.ExecuteChain(context.Background(), runner, chainOfLength(3))
	if err == nil {
		t.Fatal("expected composite error")
	}
	msg := err.Error()
	for _, want := range []string{"stream copy incompatible", "deadline exceeded", "codec not found", "all 3 strategies failed"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in composite error %q", want, msg)
		}
	}
}

func TestExecuteChainAbortsOnSpawnFailure(t *testing.T) {
	runner := &fakeRunner{fail: map[string]error{
		"primary": services.Wrap(services.ErrSpawn, "primary", "run", "binary missing", nil),
	}}

	_, err := ffmpeg.ExecuteChain(context.Background(), runner, chainOfLength(3))
	if err == nil {
		t.Fatal("expected error")
	}
	if len(runner.attempts) != 1 {
		t.Fatalf("expected chain to stop after spawn failure, attempts: %v", runner.attempts)
	}
	if !strings.Contains(err.Error(), "aborted after 1 of 3 strategies") {
		t.Fatalf("expected abort summary, got %v", err)
	}
}

func TestExecuteChainRejectsEmptyChain(t *testing.T) {
	if _, err := ffmpeg.ExecuteChain(context.Background(), &fakeRunner{}, nil); err == nil {
		t.Fatal("expected error for empty chain")
	}
}

func TestExecuteChainKeepsCallerLabels(t *testing.T) {
	runner := &fakeRunner{fail: map[string]error{}}
	chain := ffmpeg.Chain{{Binary: "ffmpeg", Label: "stream-copy"}}
	outcome, err := ffmpeg.ExecuteChain(context.Background(), runner, chain)
	if err != nil {
		t.Fatalf("ExecuteChain failed: %v", err)
	}
	if outcome.Label != "stream-copy" {
		t.Fatalf("expected caller label preserved, got %q", outcome.Label)
	}
}
