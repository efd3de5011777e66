package formz

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zoobzio/clockz"
)

func TestWithSubmitRetry(t *testing.T) {
	var attempts atomic.Int32
	reg := newTestRegistry(t)
	form := reg.Form("f",
		WithDebounce(0),
		WithSubmitRetry(3),
		WithSubmit(func(context.Context, map[string]any) error {
			if attempts.Add(1) <= 2 {
				return errors.New("simulated failure")
			}
			return nil
		}),
	)

	if err := form.Submit(context.Background()).Wait(context.Background()); err != nil {
		t.Errorf("expected success after retries, got: %v", err)
	}
	if n := attempts.Load(); n != 3 {
		t.Errorf("expected 3 attempts, got %d", n)
	}
	if form.SubmitState() != SubmitSucceeded {
		t.Errorf("expected succeeded, got %s", form.SubmitState())
	}
}

func TestWithSubmitRetry_Exhausted(t *testing.T) {
	var attempts atomic.Int32
	reg := newTestRegistry(t)
	form := reg.Form("f",
		WithDebounce(0),
		WithSubmitRetry(2),
		WithSubmitHistory(5),
		WithSubmit(func(context.Context, map[string]any) error {
			attempts.Add(1)
			return errors.New("always fails")
		}),
	)

	if err := form.Submit(context.Background()).Wait(context.Background()); err == nil {
		t.Error("expected error after exhausted retries")
	}
	if n := attempts.Load(); n != 2 {
		t.Errorf("expected 2 attempts, got %d", n)
	}
	if errs := form.SubmitErrors(); len(errs) != 1 {
		t.Errorf("expected one recorded failure per submission, got %v", errs)
	}
}

func TestWithSubmitRetry_EachAttemptGetsFreshSnapshot(t *testing.T) {
	var attempts atomic.Int32
	reg := newTestRegistry(t)
	form := reg.Form("f",
		WithDebounce(0),
		WithInitialValues(map[string]any{"qty": 1}),
		WithSubmitRetry(2),
		WithSubmit(func(_ context.Context, values map[string]any) error {
			if attempts.Add(1) == 1 {
				values["qty"] = 99
				return errors.New("first attempt mutates and fails")
			}
			if values["qty"] != 1 {
				return errors.New("retry saw the previous attempt's mutation")
			}
			return nil
		}),
	)

	if err := form.Submit(context.Background()).Wait(context.Background()); err != nil {
		t.Error(err)
	}
}

func TestWithSubmitBackoff(t *testing.T) {
	var attempts atomic.Int32
	clock := clockz.NewFakeClock()
	reg := newTestRegistry(t)
	form := reg.Form("f",
		WithDebounce(0),
		WithClock(clock),
		WithSubmitBackoff(3, 100*time.Millisecond),
		WithSubmit(func(context.Context, map[string]any) error {
			if attempts.Add(1) <= 2 {
				return errors.New("simulated failure")
			}
			return nil
		}),
	)

	sub := form.Submit(context.Background())
	if !waitFor(t, time.Second, func() bool { return attempts.Load() == 1 }) {
		t.Fatal("first attempt never ran")
	}

	// No retry until the clock moves
	time.Sleep(20 * time.Millisecond)
	if n := attempts.Load(); n != 1 {
		t.Fatalf("expected to wait for backoff, got %d attempts", n)
	}

	done := waitFor(t, 2*time.Second, func() bool {
		clock.Advance(100 * time.Millisecond)
		clock.BlockUntilReady()
		select {
		case <-sub.Done():
			return true
		default:
			return false
		}
	})
	if !done {
		t.Fatal("submission never settled")
	}
	if err := sub.Err(); err != nil {
		t.Errorf("expected success after backoff, got %v", err)
	}
	if n := attempts.Load(); n != 3 {
		t.Errorf("expected 3 attempts, got %d", n)
	}
}

func TestWithSubmitBackoff_StopsOnCancel(t *testing.T) {
	var attempts atomic.Int32
	reg := newTestRegistry(t)
	form := reg.Form("f",
		WithDebounce(0),
		WithClock(clockz.NewFakeClock()),
		WithSubmitBackoff(5, time.Hour),
		WithSubmit(func(context.Context, map[string]any) error {
			attempts.Add(1)
			return errors.New("fails")
		}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	sub := form.Submit(ctx)
	if !waitFor(t, time.Second, func() bool { return attempts.Load() == 1 }) {
		t.Fatal("first attempt never ran")
	}
	cancel()

	if err := sub.Wait(context.Background()); err == nil {
		t.Error("expected the last attempt's error")
	}
	if n := attempts.Load(); n != 1 {
		t.Errorf("expected no retries after cancel, got %d attempts", n)
	}
}
