// Package debounce delays a callback until its input has been quiet for a while.
package debounce

import (
	"sync"
	"time"
)

// Debouncer invokes fn with the most recent argument once no new call has
// arrived for the configured delay. A new call cancels the pending one.
type Debouncer[T any] struct {
	mu    sync.Mutex
	delay time.Duration
	fn    func(T)
	timer *time.Timer
	gen   uint64 // incremented on every Call/Cancel; stale timers compare against it
}

// New creates a Debouncer for fn
func New[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, fn: fn}
}

// Call schedules fn(arg) after the delay, replacing any pending invocation
func (d *Debouncer[T]) Call(arg T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}

	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if gen != d.gen {
			// Superseded after the timer already fired
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()

		d.fn(arg)
	})
}

// Cancel drops the pending invocation, if any
// Returns true if an invocation was pending
func (d *Debouncer[T]) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if d.timer == nil {
		return false
	}

	d.timer.Stop()
	d.timer = nil
	return true
}

// Pending reports whether an invocation is scheduled
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Func wraps fn into a debounced function and a cancel function
func Func[T any](delay time.Duration, fn func(T)) (call func(T), cancel func()) {
	d := New(delay, fn)
	return d.Call, func() { d.Cancel() }
}
