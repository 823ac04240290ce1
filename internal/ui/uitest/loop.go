// Package uitest provides an in-memory implementation of the ui interfaces
// for driving handlers in tests without a browser.
package uitest

import "sync"

// Loop runs posted callbacks inline, one at a time. A callback posted while
// another is running (from any goroutine) is run by the goroutine already
// draining the queue.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	running bool
}

// NewLoop returns an idle loop.
func NewLoop() *Loop {
	return &Loop{}
}

// Post implements ui.Loop.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	if l.running {
		l.mu.Unlock()
		return
	}
	l.running = true
	for len(l.queue) > 0 {
		next := l.queue[0]
		l.queue = l.queue[1:]
		l.mu.Unlock()
		next()
		l.mu.Lock()
	}
	l.running = false
	l.mu.Unlock()
}

// Idle reports whether nothing is queued or running.
func (l *Loop) Idle() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.running && len(l.queue) == 0
}
