// Package timing holds timer helpers that run their callbacks on a ui.Loop.
package timing

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/Zachkp/folio/internal/ui"
)

// Debouncer delays fn until calls to Trigger have paused for delay.
type Debouncer struct {
	clk   clock.Clock
	loop  ui.Loop
	delay time.Duration
	fn    func()

	mu    sync.Mutex
	timer *clock.Timer
	gen   uint64
}

// NewDebouncer returns a Debouncer that posts fn to loop.
func NewDebouncer(clk clock.Clock, loop ui.Loop, delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{clk: clk, loop: loop, delay: delay, fn: fn}
}

// Trigger restarts the wait.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.clk.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// A Trigger or Cancel after the timer fired supersedes it.
		if gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		d.loop.Post(d.fn)
	})
}

// Cancel drops a pending call.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Handler adapts Trigger to a ui.Handler.
func (d *Debouncer) Handler() ui.Handler {
	return func(ui.Event) { d.Trigger() }
}
