package services_test

import (
	"errors"
	"strings"
	"testing"

	"lathe/internal/services"
)

func TestWrapIncludesStageAndOperation(t *testing.T) {
	base := errors.New("exit status 1")
	err := services.Wrap(services.ErrExit, "silence", "apply", "select filter encode", base)
	if !errors.Is(err, services.ErrExit) {
		t.Fatalf("expected ErrExit marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatal("expected wrapped error to preserve cause")
	}
	msg := err.Error()
	for _, want := range []string{"silence", "apply", "select filter encode", "exit status 1"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in %q", want, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "scenes", "analyze", "", nil)
	if !errors.Is(err, services.ErrExit) {
		t.Fatalf("expected nil marker to default to ErrExit, got %v", err)
	}
}

func TestRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"spawn", services.Wrap(services.ErrSpawn, "probe", "run", "", nil), false},
		{"parse", services.Wrap(services.ErrParse, "silence", "parse", "", nil), false},
		{"validation", services.ErrValidation, false},
		{"configuration", services.ErrConfiguration, false},
		{"exit", services.Wrap(services.ErrExit, "silence", "apply", "", nil), true},
		{"timeout", services.Wrap(services.ErrTimeout, "silence", "apply", "", nil), true},
		{"untagged", errors.New("mystery"), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.Retryable(tc.err); got != tc.want {
				t.Fatalf("Retryable(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
