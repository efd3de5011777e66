package formz

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// maxBackoff caps the delay between submit attempts.
const maxBackoff = time.Minute

// WithSubmitRetry makes Submit call a failing handler again, up to attempts
// calls in total. Retries are immediate. For delays between attempts use
// WithSubmitBackoff instead.
//
// Every attempt receives its own copy of the snapshot. Retries stop as soon
// as the submit context is done.
//
// Example:
//
//	form := reg.Form("checkout",
//	    formz.WithSubmit(placeOrder),
//	    formz.WithSubmitRetry(3),
//	)
func WithSubmitRetry(attempts int) FormOption {
	return func(c *formConfig) {
		c.submitAttempts = attempts
		c.submitBackoff = 0
	}
}

// WithSubmitBackoff is WithSubmitRetry with exponentially increasing delays
// between attempts. The delay starts at baseDelay and doubles after every
// failure, capped at one minute. Delays are measured on the form's clock.
func WithSubmitBackoff(attempts int, baseDelay time.Duration) FormOption {
	return func(c *formConfig) {
		c.submitAttempts = attempts
		c.submitBackoff = baseDelay
	}
}

func (fm *Form) retrying(handler SubmitHandler) SubmitHandler {
	if fm.attempts <= 1 {
		return handler
	}
	return func(ctx context.Context, values map[string]any) error {
		delay := fm.backoff
		for attempt := 1; ; attempt++ {
			err := handler(ctx, CloneTree(values).(map[string]any))
			if err == nil || attempt >= fm.attempts || ctx.Err() != nil {
				return err
			}
			capitan.Emit(ctx, FormSubmitRetrying,
				KeyForm.Field(fm.name),
				KeyFormID.Field(fm.id),
				KeyAttempt.Field(attempt),
				KeyError.Field(err.Error()),
			)
			if delay <= 0 {
				continue
			}
			if !fm.sleep(ctx, delay) {
				return err
			}
			delay = min(delay*2, maxBackoff)
		}
	}
}

// sleep waits d on the form's clock. It reports false when ctx ended first.
func (fm *Form) sleep(ctx context.Context, d time.Duration) bool {
	t := fm.clock.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C():
		return true
	case <-ctx.Done():
		return false
	}
}
