package formz

import (
	"sync"
	"time"

	"github.com/zoobzio/clockz"
)

// DefaultDebounce is the default coalescing window for derived streams.
const DefaultDebounce = 150 * time.Millisecond

// debouncer runs fn once after a quiet period of window following the last
// trigger. A window of zero or less runs fn synchronously on every trigger.
type debouncer struct {
	clock  clockz.Clock
	window time.Duration
	fn     func()

	mu      sync.Mutex
	timer   clockz.Timer
	pending bool
	stopped bool
	done    chan struct{}
}

func newDebouncer(clock clockz.Clock, window time.Duration, fn func()) *debouncer {
	if clock == nil {
		clock = clockz.RealClock
	}
	return &debouncer{
		clock:  clock,
		window: window,
		fn:     fn,
		done:   make(chan struct{}),
	}
}

func (d *debouncer) trigger() {
	if d.window <= 0 {
		d.mu.Lock()
		stopped := d.stopped
		d.mu.Unlock()
		if !stopped {
			d.fn()
		}
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.pending = true
	if d.timer == nil {
		t := d.clock.NewTimer(d.window)
		d.timer = t
		go d.wait(t)
		return
	}
	if !d.timer.Stop() {
		select {
		case <-d.timer.C():
		default:
		}
	}
	d.timer.Reset(d.window)
}

func (d *debouncer) wait(t clockz.Timer) {
	select {
	case <-d.done:
		return
	case <-t.C():
	}

	d.mu.Lock()
	if d.timer == t {
		d.timer = nil
	}
	fire := d.pending && !d.stopped
	d.pending = false
	d.mu.Unlock()

	if fire {
		d.fn()
	}
}

// stop cancels any pending call. Further triggers are ignored.
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.stopped = true
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	close(d.done)
}
