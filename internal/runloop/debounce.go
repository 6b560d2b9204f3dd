package runloop

import "time"

// Debouncer coalesces rapid calls into the last one, which runs on the loop
// after delay has elapsed without another call. It is single-slot: a new
// call replaces any pending one.
//
// Call, Cancel and SetDelay must be invoked from the loop goroutine.
type Debouncer struct {
	loop  *Loop
	delay time.Duration
	timer *time.Timer
	seq   uint64
}

// NewDebouncer creates a debouncer posting to l.
func NewDebouncer(l *Loop, delay time.Duration) *Debouncer {
	return &Debouncer{loop: l, delay: delay}
}

// SetDelay changes the quiet period used by subsequent calls.
func (d *Debouncer) SetDelay(delay time.Duration) {
	d.delay = delay
}

// Delay returns the current quiet period.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Call schedules fn, cancelling whatever was pending.
func (d *Debouncer) Call(fn func()) {
	d.stop()
	d.seq++
	seq := d.seq
	d.timer = time.AfterFunc(d.delay, func() {
		d.loop.Post(func() {
			// A timer that fired just before being replaced still posts;
			// only the latest call may run.
			if seq != d.seq {
				return
			}
			d.timer = nil
			fn()
		})
	})
}

// Cancel drops the pending call, if any.
func (d *Debouncer) Cancel() {
	d.stop()
	d.seq++
}

// Pending reports whether a call is waiting for its quiet period.
func (d *Debouncer) Pending() bool {
	return d.timer != nil
}

func (d *Debouncer) stop() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
