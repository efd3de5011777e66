package formz

import "sync"

// errorRing keeps the most recent submit errors, oldest first.
type errorRing struct {
	mu    sync.RWMutex
	buf   []error
	head  int
	count int
}

// newErrorRing returns nil when size is not positive; a nil ring ignores
// pushes and reports no history.
func newErrorRing(size int) *errorRing {
	if size <= 0 {
		return nil
	}
	return &errorRing{buf: make([]error, size)}
}

func (r *errorRing) push(err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buf[r.head] = err
	r.head = (r.head + 1) % len(r.buf)
	r.count = min(r.count+1, len(r.buf))
}

func (r *errorRing) all() []error {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.count == 0 {
		return nil
	}
	out := make([]error, 0, r.count)
	start := (r.head - r.count + len(r.buf)) % len(r.buf)
	for i := range r.count {
		out = append(out, r.buf[(start+i)%len(r.buf)])
	}
	return out
}
