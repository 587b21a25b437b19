package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lathe/internal/services"
)

// Chain is an ordered list of invocation strategies attempted in sequence
// until one succeeds. The canonical instance is the two-element
// copy-then-reencode chain, but analysis pipelines build longer ones.
type Chain []InvocationSpec

// Outcome reports which strategy in a chain succeeded.
type Outcome struct {
	Label  string
	Result Result
}

// ExecuteChain attempts each strategy in order. On success it returns
// immediately, naming the winning strategy. When every strategy fails the
// returned error embeds every attempt's failure text; earlier failures are
// informative ("stream copy incompatible" and "codec not found" mean
// different things) and are never dropped. A spawn failure aborts the chain
// at once since every strategy shares the same unrunnable binary.
func ExecuteChain(ctx context.Context, runner Runner, chain Chain) (Outcome, error) {
	if runner == nil {
		return Outcome{}, services.Wrap(services.ErrConfiguration, "fallback", "execute", "runner is required", nil)
	}
	if len(chain) == 0 {
		return Outcome{}, services.Wrap(services.ErrValidation, "fallback", "execute", "empty fallback chain", nil)
	}

	var attempts []error
	for i, spec := range chain {
		label := strings.TrimSpace(spec.Label)
		if label == "" {
			label = positionalLabel(i)
			spec.Label = label
		}

		result, err := runner.Run(ctx, spec)
		if err == nil {
			return Outcome{Label: label, Result: result}, nil
		}

		attempts = append(attempts, fmt.Errorf("%s: %w", label, err))
		if !services.Retryable(err) {
			break
		}
	}

	summary := fmt.Sprintf("all %d strategies failed", len(attempts))
	if len(attempts) < len(chain) {
		summary = fmt.Sprintf("aborted after %d of %d strategies", len(attempts), len(chain))
	}
	return Outcome{}, fmt.Errorf("%s: %w", summary, errors.Join(attempts...))
}

func positionalLabel(index int) string {
	if index == 0 {
		return "primary"
	}
	return fmt.Sprintf("fallback-%d", index)
}
