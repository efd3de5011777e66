// Package testing provides test utilities for code built on formz.
package testing

import (
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/zoobzio/formz"
)

// WaitFor polls a condition until it returns true or timeout is reached.
// Returns true if the condition was met, false if timeout occurred.
func WaitFor(t *testing.T, timeout time.Duration, condition func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return condition()
}

// NewTestForm creates a form in a fresh registry with synchronous derived
// streams, so error and meta streams reflect every change immediately.
// The form is released when the test ends.
func NewTestForm(t *testing.T, name string, opts ...formz.FormOption) (*formz.Registry, *formz.Form) {
	t.Helper()
	reg := formz.NewRegistry()
	form := reg.Form(name, append([]formz.FormOption{formz.WithDebounce(0)}, opts...)...)
	t.Cleanup(func() { reg.Release(name) })
	return reg, form
}

// RequireValue fails the test if the form's value at path differs from want.
func RequireValue(t *testing.T, form *formz.Form, path string, want any) {
	t.Helper()
	got, ok := form.FieldValue(path)
	if !ok {
		t.Fatalf("expected value at %q, got none", path)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("value at %q mismatch (-want +got):\n%s", path, diff)
	}
}

// RequireErrors fails the test if the stream's current error list differs
// from want. Order matters.
func RequireErrors(t *testing.T, errs *formz.Stream[[]string], want ...string) {
	t.Helper()
	got := errs.Get()
	if len(got) == 0 && len(want) == 0 {
		return
	}
	if !slices.Equal(got, want) {
		t.Fatalf("expected errors %q, got %q", want, got)
	}
}

// Recorder collects every value a stream emits.
type Recorder[T any] struct {
	sub    *formz.Subscription
	values chan T
}

// Record subscribes to s and buffers up to 64 emissions. The subscription
// ends with the test.
func Record[T any](t *testing.T, s *formz.Stream[T]) *Recorder[T] {
	t.Helper()
	r := &Recorder[T]{values: make(chan T, 64)}
	r.sub = s.Subscribe(func(v T) {
		select {
		case r.values <- v:
		default:
		}
	})
	t.Cleanup(r.sub.Unsubscribe)
	return r
}

// Next waits for the next recorded emission.
func (r *Recorder[T]) Next(t *testing.T, timeout time.Duration) T {
	t.Helper()
	select {
	case v := <-r.values:
		return v
	case <-time.After(timeout):
		var zero T
		t.Fatalf("no emission within %v", timeout)
		return zero
	}
}

// Len returns the number of buffered emissions.
func (r *Recorder[T]) Len() int {
	return len(r.values)
}
