package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"lathe/internal/services"
)

// InvocationSpec is a value object describing one external engine call.
type InvocationSpec struct {
	Binary string
	Args   []string
	// StderrDiagnostics marks invocations whose useful output arrives on
	// stderr (analysis filters report their findings there, not on stdout).
	StderrDiagnostics bool
	Timeout           time.Duration
	// Label names the strategy this spec implements inside a fallback chain
	// ("primary", "fallback-1", ...). Optional; the chain executor fills in
	// positional labels when empty.
	Label string
}

// Result captures one completed invocation. Stderr is populated even on
// success because several analysis tools write their results there.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner executes external engine invocations. The interface seam lets tests
// substitute a fake without spawning processes.
type Runner interface {
	Run(ctx context.Context, spec InvocationSpec) (Result, error)
}

// CommandRunner runs invocations as real child processes.
type CommandRunner struct{}

// NewRunner returns the production Runner.
func NewRunner() Runner {
	return CommandRunner{}
}

// Run spawns the process, waits for completion, and classifies failures.
// The child is placed in its own process group so a timeout kills the whole
// tree; the process is always reaped regardless of exit path.
func (CommandRunner) Run(ctx context.Context, spec InvocationSpec) (Result, error) {
	binary := strings.TrimSpace(spec.Binary)
	if binary == "" {
		return Result{}, services.Wrap(services.ErrConfiguration, "runner", "run", "empty binary", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	runCtx := ctx
	if spec.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, binary, spec.Args...) //nolint:gosec
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return unix.Kill(-cmd.Process.Pid, unix.SIGKILL)
	}
	cmd.WaitDelay = 5 * time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	if err == nil {
		return result, nil
	}

	label := spec.Label
	if label == "" {
		label = binary
	}

	if runCtx.Err() != nil && ctx.Err() == nil {
		return result, services.Wrap(services.ErrTimeout, label, "run",
			fmt.Sprintf("deadline of %s exceeded", spec.Timeout), runCtx.Err())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return result, services.Wrap(services.ErrExit, label, "run",
			fmt.Sprintf("exit status %d: %s", result.ExitCode, stderrTail(result.Stderr, 3)), nil)
	}

	return result, services.Wrap(services.ErrSpawn, label, "run", "start process", err)
}

// stderrTail returns the last n non-empty lines of stderr for error messages.
func stderrTail(stderr []byte, n int) string {
	lines := strings.Split(strings.TrimSpace(string(stderr)), "\n")
	var kept []string
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	if len(kept) > n {
		kept = kept[len(kept)-n:]
	}
	if len(kept) == 0 {
		return "no diagnostic output"
	}
	return strings.Join(kept, " | ")
}
