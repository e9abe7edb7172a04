package ui

import (
	"sync"
	"time"
)

// scrollSettleDelay batches rapid successive playhead updates into one scroll
// adjustment so the viewport does not thrash while playing.
const scrollSettleDelay = 100 * time.Millisecond

// Debouncer schedules an action after a fixed delay, cancelling and replacing
// any previously scheduled but not-yet-fired action. Pending work is
// dispatched to the UI thread.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

// NewScrollDebouncer creates a debouncer tuned for auto-scroll follow.
func NewScrollDebouncer() *Debouncer {
	return &Debouncer{delay: scrollSettleDelay}
}

// NewDebouncer creates a debouncer with a custom delay.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Schedule arms f to run after the delay, replacing any pending action.
func (d *Debouncer) Schedule(f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		CallOnMain(f)
	})
}

// Cancel drops any pending action. Must be called on teardown so a stale
// timer cannot touch released state.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
