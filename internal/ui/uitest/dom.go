package uitest

import (
	"regexp"
	"strings"
	"sync"

	"github.com/Zachkp/folio/internal/ui"
)

type listener struct {
	h    ui.Handler
	opts ui.ListenOptions
}

type listeners map[ui.EventType][]listener

func (ls listeners) add(t ui.EventType, h ui.Handler, opts []ui.ListenOption) {
	ls[t] = append(ls[t], listener{h: h, opts: ui.ApplyOptions(opts...)})
}

// Document is an in-memory ui.Document. All tree access goes through one
// mutex so timer goroutines and the test goroutine can share it.
type Document struct {
	mu        sync.Mutex
	loop      ui.Loop
	root      *Element
	head      *Element
	body      *Element
	listeners listeners
	ready     bool
	onReady   []func()
}

// NewDocument returns an empty <html><head/><body/></html> tree whose
// handlers run on loop.
func NewDocument(loop ui.Loop) *Document {
	d := &Document{loop: loop, listeners: listeners{}}
	d.root = d.newElement("html")
	d.head = d.newElement("head")
	d.body = d.newElement("body")
	d.head.parent = d.root
	d.body.parent = d.root
	d.root.children = []*Element{d.head, d.body}
	return d
}

func (d *Document) newElement(tag string) *Element {
	return &Element{
		doc:       d,
		tag:       strings.ToLower(tag),
		attrs:     map[string]string{},
		style:     map[string]string{},
		listeners: listeners{},
	}
}

// Add creates an element under parent with the given id (may be empty) and
// classes, and returns it. A nil parent means the body.
func (d *Document) Add(parent *Element, tag, id string, classes ...string) *Element {
	el := d.newElement(tag)
	if id != "" {
		el.attrs["id"] = id
	}
	el.classes = append(el.classes, classes...)
	if parent == nil {
		parent = d.body
	}
	d.mu.Lock()
	parent.appendLocked(el)
	d.mu.Unlock()
	return el
}

// ByID implements ui.Document.
func (d *Document) ByID(id string) ui.Element {
	if el := d.find(func(e *Element) bool { return e.attrs["id"] == id }); el != nil {
		return el
	}
	return nil
}

// Query implements ui.Document.
func (d *Document) Query(selector string) ui.Element {
	m := compile(selector)
	if el := d.find(m.match); el != nil {
		return el
	}
	return nil
}

// QueryAll implements ui.Document.
func (d *Document) QueryAll(selector string) []ui.Element {
	m := compile(selector)
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []ui.Element
	d.root.walk(func(e *Element) bool {
		if m.match(e) {
			out = append(out, e)
		}
		return true
	})
	return out
}

// Count returns the number of elements matching selector.
func (d *Document) Count(selector string) int {
	return len(d.QueryAll(selector))
}

func (d *Document) find(pred func(*Element) bool) *Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	var found *Element
	d.root.walk(func(e *Element) bool {
		if pred(e) {
			found = e
			return false
		}
		return true
	})
	return found
}

// Body implements ui.Document.
func (d *Document) Body() ui.Element { return d.body }

// Head implements ui.Document.
func (d *Document) Head() ui.Element { return d.head }

// BodyElement is Body without the interface conversion.
func (d *Document) BodyElement() *Element { return d.body }

// Create implements ui.Document. The element is detached until appended.
func (d *Document) Create(tag string) ui.Element { return d.newElement(tag) }

// On implements ui.Document.
func (d *Document) On(t ui.EventType, h ui.Handler, opts ...ui.ListenOption) {
	d.mu.Lock()
	d.listeners.add(t, h, opts)
	d.mu.Unlock()
}

// OnReady implements ui.Document.
func (d *Document) OnReady(fn func()) {
	d.mu.Lock()
	if !d.ready {
		d.onReady = append(d.onReady, fn)
		d.mu.Unlock()
		return
	}
	d.mu.Unlock()
	d.loop.Post(fn)
}

// Ready marks the DOM as parsed and runs the queued ready callbacks.
func (d *Document) Ready() {
	d.mu.Lock()
	d.ready = true
	fns := d.onReady
	d.onReady = nil
	d.mu.Unlock()
	for _, fn := range fns {
		d.loop.Post(fn)
	}
}

// Dispatch fires t at target, bubbling through its ancestors to the
// document. It reports whether any listener prevented the default action.
func (d *Document) Dispatch(target *Element, t ui.EventType) bool {
	d.mu.Lock()
	var chain []listener
	for e := target; e != nil; e = e.parent {
		chain = append(chain, e.listeners[t]...)
	}
	if target.attachedLocked() {
		chain = append(chain, d.listeners[t]...)
	}
	d.mu.Unlock()

	prevented := false
	for _, l := range chain {
		if l.opts.PreventDefault {
			prevented = true
		}
	}
	ev := ui.Event{Type: t, Target: target}
	d.loop.Post(func() {
		for _, l := range chain {
			l.h(ev)
		}
	})
	return prevented
}

// Click dispatches a click on el.
func (d *Document) Click(el *Element) bool {
	return d.Dispatch(el, ui.Click)
}

// Type sets the value of el and dispatches an input event.
func (d *Document) Type(el *Element, value string) {
	el.SetValue(value)
	d.Dispatch(el, ui.Input)
}

// Submit dispatches a submit event on a form element.
func (d *Document) Submit(form *Element) bool {
	return d.Dispatch(form, ui.Submit)
}

// selector supports the subset the portfolio uses: tag, #id, .class
// (repeatable) and a single [attr^="prefix"] clause, combined on one element.
type selector struct {
	tag     string
	id      string
	classes []string
	attr    string
	prefix  string
}

var selectorRe = regexp.MustCompile(`^([a-zA-Z0-9]*)(#[\w-]+)?((?:\.[\w-]+)*)(?:\[([\w-]+)\^="([^"]*)"\])?$`)

func compile(s string) selector {
	m := selectorRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		panic("uitest: unsupported selector " + s)
	}
	sel := selector{tag: strings.ToLower(m[1]), id: strings.TrimPrefix(m[2], "#"), attr: m[4], prefix: m[5]}
	for _, c := range strings.Split(m[3], ".") {
		if c != "" {
			sel.classes = append(sel.classes, c)
		}
	}
	return sel
}

func (s selector) match(e *Element) bool {
	if s.tag != "" && e.tag != s.tag {
		return false
	}
	if s.id != "" && e.attrs["id"] != s.id {
		return false
	}
	for _, c := range s.classes {
		if !e.hasClassLocked(c) {
			return false
		}
	}
	if s.attr != "" {
		v, ok := e.attrs[s.attr]
		if !ok || !strings.HasPrefix(v, s.prefix) {
			return false
		}
	}
	return true
}
