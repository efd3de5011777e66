package formz

import (
	"context"
	"errors"
	"time"

	"github.com/zoobzio/capitan"
)

// ErrNoSubmitHandler is reported on the FormSubmitSkipped signal when Submit
// is called on a form without a handler.
var ErrNoSubmitHandler = errors.New("form has no submit handler")

// SubmitHandler receives a snapshot of the form's values. The snapshot is a
// private deep copy; the handler may keep or modify it.
type SubmitHandler func(ctx context.Context, values map[string]any) error

// Submission tracks one invocation of a submit handler.
type Submission struct {
	values map[string]any
	done   chan struct{}
	err    error
}

// Values returns the snapshot passed to the handler.
func (s *Submission) Values() map[string]any {
	return s.values
}

// Done is closed once the handler has settled and the form is no longer
// marked submitting for this submission.
func (s *Submission) Done() <-chan struct{} {
	return s.done
}

// Err returns the handler's error once settled, nil before.
func (s *Submission) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// Wait blocks until the handler settles or ctx is done.
func (s *Submission) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return s.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetSubmitHandler replaces the submit handler.
func (fm *Form) SetSubmitHandler(fn SubmitHandler) {
	fm.mu.Lock()
	defer fm.mu.Unlock()
	fm.onSubmit = fn
}

// IsSubmitting reports whether a submit handler has not settled yet.
func (fm *Form) IsSubmitting() bool {
	return fm.submitting.Get()
}

// SubmittingStream exposes the submitting flag for subscription.
func (fm *Form) SubmittingStream() *Stream[bool] {
	return fm.submitting
}

// SubmitState returns the form's submission lifecycle state.
func (fm *Form) SubmitState() SubmitState {
	fm.mu.Lock()
	defer fm.mu.Unlock()
	return fm.submitState
}

// SubmitErrors returns recent submit errors, oldest first. Returns nil when
// history is disabled (see WithSubmitHistory).
func (fm *Form) SubmitErrors() []error {
	return fm.submitErrors.all()
}

// Submit snapshots the current values and hands them to the submit handler
// on its own goroutine. The form is marked submitting before Submit returns
// and unmarked once the handler settles. Submit returns nil, emits a
// FormSubmitSkipped warning and changes nothing else when no handler is set.
func (fm *Form) Submit(ctx context.Context) *Submission {
	fm.mu.Lock()
	handler := fm.onSubmit
	if handler == nil {
		fm.mu.Unlock()
		capitan.Emit(ctx, FormSubmitSkipped,
			KeyForm.Field(fm.name),
			KeyFormID.Field(fm.id),
			KeyError.Field(ErrNoSubmitHandler.Error()),
		)
		return nil
	}
	handler = fm.retrying(fm.bounded(handler))
	snapshot, _ := CloneTree(fm.tree).(map[string]any)
	fm.inFlight++
	fm.submitState = SubmitPending
	fm.mu.Unlock()

	fm.submitting.Set(true)
	fm.metrics.OnSubmitStarted()
	capitan.Emit(ctx, FormSubmitStarted,
		KeyForm.Field(fm.name),
		KeyFormID.Field(fm.id),
	)

	sub := &Submission{values: snapshot, done: make(chan struct{})}
	start := fm.clock.Now()
	go func() {
		defer close(sub.done)
		sub.err = handler(ctx, CloneTree(snapshot).(map[string]any))
		fm.settle(ctx, sub.err, start)
	}()
	return sub
}

func (fm *Form) settle(ctx context.Context, err error, start time.Time) {
	elapsed := fm.clock.Since(start)

	fm.mu.Lock()
	fm.inFlight--
	idle := fm.inFlight == 0
	if err != nil {
		fm.submitState = SubmitFailed
	} else if idle {
		fm.submitState = SubmitSucceeded
	}
	fm.mu.Unlock()

	if err != nil {
		fm.submitErrors.push(err)
		capitan.Emit(ctx, FormSubmitFailed,
			KeyForm.Field(fm.name),
			KeyFormID.Field(fm.id),
			KeyDuration.Field(elapsed),
			KeyError.Field(err.Error()),
		)
	} else {
		capitan.Emit(ctx, FormSubmitSucceeded,
			KeyForm.Field(fm.name),
			KeyFormID.Field(fm.id),
			KeyDuration.Field(elapsed),
		)
	}
	fm.metrics.OnSubmitSettled(elapsed, err)
	if idle {
		fm.submitting.Set(false)
	}
}
