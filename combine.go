package formz

import (
	"time"

	"github.com/zoobzio/clockz"
)

// Combine derives a stream whose value is compute() re-evaluated whenever any
// source emits. Emissions arriving within window of each other coalesce into
// a single recompute on the trailing edge. The initial value is computed
// synchronously; a window of zero or less recomputes on every emission.
//
// compute reads the sources itself, typically through Get, so it always sees
// the latest state when the window closes:
//
//	meta := formz.Combine(clock, 150*time.Millisecond, func() string {
//	    if disabled.Get() {
//	        return ""
//	    }
//	    return err.Get()
//	}, err, disabled)
//	defer meta.Close()
//
// Closing the result releases every source link and cancels a pending
// recompute.
func Combine[T any](clock clockz.Clock, window time.Duration, compute func() T, sources ...Source) *Stream[T] {
	out := NewEmptyStream[T]()
	d := newDebouncer(clock, window, func() { out.Set(compute()) })
	for _, src := range sources {
		out.onClose(src.Watch(d.trigger).Unsubscribe)
	}
	out.onClose(d.stop)
	// sources are linked before the first compute; a recompute triggered
	// meanwhile wins over the initial value
	out.seed(compute())
	return out
}

// Map derives a stream that applies fn to every value of src.
func Map[S, T any](src *Stream[S], fn func(S) T) *Stream[T] {
	out := NewEmptyStream[T]()
	out.onClose(src.Subscribe(func(v S) { out.Set(fn(v)) }).Unsubscribe)
	return out
}

// Filter derives a stream that only forwards values of src accepted by keep.
func Filter[T any](src *Stream[T], keep func(T) bool) *Stream[T] {
	out := NewEmptyStream[T]()
	out.onClose(src.Subscribe(func(v T) {
		if keep(v) {
			out.Set(v)
		}
	}).Unsubscribe)
	return out
}

// Distinct derives a stream that suppresses values equal to the previous
// emission according to eq.
func Distinct[T any](src *Stream[T], eq func(a, b T) bool) *Stream[T] {
	out := NewEmptyStream[T]()
	out.onClose(src.Subscribe(func(v T) {
		if prev, ok := out.Lookup(); ok && eq(prev, v) {
			return
		}
		out.Set(v)
	}).Unsubscribe)
	return out
}
