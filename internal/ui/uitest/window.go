package uitest

import (
	"sync"

	"github.com/Zachkp/folio/internal/ui"
)

// ScrollCall records one Window.ScrollTo.
type ScrollCall struct {
	Top    float64
	Smooth bool
}

// Window is an in-memory ui.Window.
type Window struct {
	mu        sync.Mutex
	loop      ui.Loop
	scrollY   float64
	calls     []ScrollCall
	listeners listeners
}

// NewWindow returns a window scrolled to the top.
func NewWindow(loop ui.Loop) *Window {
	return &Window{loop: loop, listeners: listeners{}}
}

// ScrollY implements ui.Window.
func (w *Window) ScrollY() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scrollY
}

// ScrollTo implements ui.Window. It records the call and jumps straight to
// top without firing a scroll event.
func (w *Window) ScrollTo(top float64, smooth bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, ScrollCall{Top: top, Smooth: smooth})
	w.scrollY = top
}

// ScrollCalls returns the ScrollTo history.
func (w *Window) ScrollCalls() []ScrollCall {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]ScrollCall(nil), w.calls...)
}

// On implements ui.Window.
func (w *Window) On(t ui.EventType, h ui.Handler, opts ...ui.ListenOption) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listeners.add(t, h, opts)
}

// ScrollUser simulates the user scrolling to y: the offset changes and a
// scroll event fires.
func (w *Window) ScrollUser(y float64) {
	w.mu.Lock()
	w.scrollY = y
	chain := append([]listener(nil), w.listeners[ui.Scroll]...)
	w.mu.Unlock()

	ev := ui.Event{Type: ui.Scroll}
	w.loop.Post(func() {
		for _, l := range chain {
			l.h(ev)
		}
	})
}
