package formz

import (
	"slices"
	"sync"
	"sync/atomic"
)

// Source is anything a derived stream can recompute from.
type Source interface {
	// Watch registers fn to run after every emission. Unlike Subscribe it
	// does not replay the current value.
	Watch(fn func()) *Subscription
}

// Stream is a single-writer, multi-reader reactive cell.
//
// Set stores a value and notifies subscribers synchronously, in the order
// they subscribed. Subscribers added after a value was stored receive that
// value immediately. Only the stream's owner should call Set; everyone else
// reads through Get, Lookup or Subscribe.
type Stream[T any] struct {
	mu      sync.Mutex
	value   T
	set     bool
	closed  bool
	subs    []*subscriber[T]
	release []func()
}

type subscriber[T any] struct {
	fn     func(T)
	active atomic.Bool
}

// NewStream creates a stream holding an initial value.
func NewStream[T any](initial T) *Stream[T] {
	return &Stream[T]{value: initial, set: true}
}

// NewEmptyStream creates a stream with no value. Subscribers are not
// notified until the first Set.
func NewEmptyStream[T any]() *Stream[T] {
	return &Stream[T]{}
}

// Get returns the current value, or the zero value when none has been set.
func (s *Stream[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Lookup returns the current value and whether one has ever been set.
func (s *Stream[T]) Lookup() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.set
}

// Set stores v and notifies every active subscriber. Set on a closed
// stream is a no-op.
func (s *Stream[T]) Set(v T) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.value = v
	s.set = true
	subs := slices.Clone(s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		if sub.active.Load() {
			sub.fn(v)
		}
	}
}

// Subscribe registers fn for every future value and replays the current one
// when present.
func (s *Stream[T]) Subscribe(fn func(T)) *Subscription {
	return s.subscribe(fn, true)
}

// Watch registers fn to run after every future emission.
func (s *Stream[T]) Watch(fn func()) *Subscription {
	return s.subscribe(func(T) { fn() }, false)
}

func (s *Stream[T]) subscribe(fn func(T), replay bool) *Subscription {
	sub := &subscriber[T]{fn: fn}
	sub.active.Store(true)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return &Subscription{}
	}
	s.subs = append(s.subs, sub)
	v, ok := s.value, s.set
	s.mu.Unlock()

	if replay && ok {
		fn(v)
	}
	return &Subscription{cancel: func() {
		sub.active.Store(false)
		s.mu.Lock()
		s.subs = slices.DeleteFunc(s.subs, func(x *subscriber[T]) bool { return x == sub })
		s.mu.Unlock()
	}}
}

// Subscribers returns the number of active subscriptions.
func (s *Stream[T]) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Close drops every subscriber and releases upstream links held by a
// derived stream. Closing twice is a no-op.
func (s *Stream[T]) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for _, sub := range s.subs {
		sub.active.Store(false)
	}
	s.subs = nil
	release := s.release
	s.release = nil
	s.mu.Unlock()

	for _, fn := range release {
		fn()
	}
}

// seed stores v unless a value was stored since the stream was created.
func (s *Stream[T]) seed(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set && !s.closed {
		s.value = v
		s.set = true
	}
}

// onClose attaches fn to run when the stream closes.
func (s *Stream[T]) onClose(fn func()) {
	s.mu.Lock()
	if !s.closed {
		s.release = append(s.release, fn)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	fn()
}

// Subscription links a subscriber to a stream.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Unsubscribe stops delivery. It is safe to call more than once and on a
// nil Subscription.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.cancel == nil {
		return
	}
	s.once.Do(s.cancel)
}
