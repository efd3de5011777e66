package formz

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrSubmitTimeout is returned when a submit attempt outlives the form's
// submit timeout.
var ErrSubmitTimeout = errors.New("submit timed out")

// WithSubmitTimeout bounds each submit attempt to d, measured on the form's
// clock. When d elapses the attempt's context is cancelled and the attempt
// fails with ErrSubmitTimeout; a handler that ignores its context keeps
// running, but its result is discarded.
//
// Combined with WithSubmitRetry, the timeout applies per attempt.
func WithSubmitTimeout(d time.Duration) FormOption {
	return func(c *formConfig) {
		c.submitTimeout = d
	}
}

func (fm *Form) bounded(handler SubmitHandler) SubmitHandler {
	if fm.timeout <= 0 {
		return handler
	}
	return func(ctx context.Context, values map[string]any) error {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		done := make(chan error, 1)
		go func() { done <- handler(ctx, values) }()

		t := fm.clock.NewTimer(fm.timeout)
		defer t.Stop()
		select {
		case err := <-done:
			return err
		case <-t.C():
			return fmt.Errorf("%w after %s", ErrSubmitTimeout, fm.timeout)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
