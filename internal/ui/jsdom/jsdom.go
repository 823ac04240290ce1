//go:build js && wasm

// Package jsdom backs the ui interfaces with the browser DOM via syscall/js.
package jsdom

import (
	"context"
	"syscall/js"

	"github.com/Zachkp/folio/internal/ui"
)

// Loop is the UI loop. JS callbacks must return quickly, so every handler is
// queued here and run by Run on a single goroutine.
type Loop struct {
	queue chan func()
}

// NewLoop returns a loop with a buffered queue.
func NewLoop() *Loop {
	return &Loop{queue: make(chan func(), 256)}
}

// Post implements ui.Loop.
func (l *Loop) Post(fn func()) {
	l.queue <- fn
}

// Run drains the queue until ctx is done.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.queue:
			fn()
		}
	}
}

// listen wraps h in a js.Func. The funcs are never released; they live as
// long as the page.
func listen(target js.Value, loop ui.Loop, t ui.EventType, h ui.Handler, opts []ui.ListenOption) {
	o := ui.ApplyOptions(opts...)
	fn := js.FuncOf(func(this js.Value, args []js.Value) any {
		ev := ui.Event{Type: t}
		if len(args) > 0 {
			if o.PreventDefault {
				args[0].Call("preventDefault")
			}
			if tgt := args[0].Get("target"); tgt.Truthy() && tgt.Get("nodeType").Truthy() {
				ev.Target = &Element{v: tgt, loop: loop}
			}
		}
		loop.Post(func() { h(ev) })
		return nil
	})
	target.Call("addEventListener", string(t), fn)
}

// Document wraps window.document.
type Document struct {
	v    js.Value
	loop ui.Loop
}

// NewDocument binds the global document.
func NewDocument(loop ui.Loop) *Document {
	return &Document{v: js.Global().Get("document"), loop: loop}
}

func (d *Document) wrap(v js.Value) ui.Element {
	if v.IsNull() || v.IsUndefined() {
		return nil
	}
	return &Element{v: v, loop: d.loop}
}

// ByID implements ui.Document.
func (d *Document) ByID(id string) ui.Element {
	return d.wrap(d.v.Call("getElementById", id))
}

// Query implements ui.Document.
func (d *Document) Query(selector string) ui.Element {
	return d.wrap(d.v.Call("querySelector", selector))
}

// QueryAll implements ui.Document.
func (d *Document) QueryAll(selector string) []ui.Element {
	list := d.v.Call("querySelectorAll", selector)
	n := list.Length()
	out := make([]ui.Element, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &Element{v: list.Index(i), loop: d.loop})
	}
	return out
}

// Body implements ui.Document.
func (d *Document) Body() ui.Element { return d.wrap(d.v.Get("body")) }

// Head implements ui.Document.
func (d *Document) Head() ui.Element { return d.wrap(d.v.Get("head")) }

// Create implements ui.Document.
func (d *Document) Create(tag string) ui.Element {
	return d.wrap(d.v.Call("createElement", tag))
}

// On implements ui.Document.
func (d *Document) On(t ui.EventType, h ui.Handler, opts ...ui.ListenOption) {
	listen(d.v, d.loop, t, h, opts)
}

// OnReady implements ui.Document.
func (d *Document) OnReady(fn func()) {
	if d.v.Get("readyState").String() != "loading" {
		d.loop.Post(fn)
		return
	}
	var cb js.Func
	cb = js.FuncOf(func(js.Value, []js.Value) any {
		cb.Release()
		d.loop.Post(fn)
		return nil
	})
	d.v.Call("addEventListener", "DOMContentLoaded", cb)
}

// Window wraps the global window.
type Window struct {
	v    js.Value
	loop ui.Loop
}

// NewWindow binds the global window.
func NewWindow(loop ui.Loop) *Window {
	return &Window{v: js.Global(), loop: loop}
}

// ScrollY implements ui.Window.
func (w *Window) ScrollY() float64 {
	if y := w.v.Get("scrollY"); y.Type() == js.TypeNumber {
		return y.Float()
	}
	return w.v.Get("pageYOffset").Float()
}

// ScrollTo implements ui.Window.
func (w *Window) ScrollTo(top float64, smooth bool) {
	behavior := "auto"
	if smooth {
		behavior = "smooth"
	}
	w.v.Call("scrollTo", map[string]any{"top": top, "behavior": behavior})
}

// On implements ui.Window.
func (w *Window) On(t ui.EventType, h ui.Handler, opts ...ui.ListenOption) {
	listen(w.v, w.loop, t, h, opts)
}
