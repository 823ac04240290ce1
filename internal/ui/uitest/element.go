package uitest

import (
	"strings"

	"github.com/Zachkp/folio/internal/ui"
)

// Element is an in-memory ui.Element.
type Element struct {
	doc       *Document
	tag       string
	attrs     map[string]string
	classes   []string
	style     map[string]string
	text      string
	html      string
	value     string
	disabled  bool
	offsetTop float64
	parent    *Element
	children  []*Element
	listeners listeners
}

var _ ui.Element = (*Element)(nil)

func (e *Element) lock()   { e.doc.mu.Lock() }
func (e *Element) unlock() { e.doc.mu.Unlock() }

// Tag implements ui.Element.
func (e *Element) Tag() string { return e.tag }

// Attr implements ui.Element.
func (e *Element) Attr(name string) string {
	e.lock()
	defer e.unlock()
	if name == "class" {
		return strings.Join(e.classes, " ")
	}
	return e.attrs[name]
}

// SetAttr implements ui.Element.
func (e *Element) SetAttr(name, value string) {
	e.lock()
	defer e.unlock()
	if name == "class" {
		e.classes = strings.Fields(value)
		return
	}
	e.attrs[name] = value
}

// Text implements ui.Element. Like textContent it includes descendants.
func (e *Element) Text() string {
	e.lock()
	defer e.unlock()
	return e.textLocked()
}

func (e *Element) textLocked() string {
	var b strings.Builder
	b.WriteString(e.text)
	for _, c := range e.children {
		b.WriteString(c.textLocked())
	}
	return b.String()
}

// SetText implements ui.Element.
func (e *Element) SetText(text string) {
	e.lock()
	defer e.unlock()
	e.detachChildrenLocked()
	e.text, e.html = text, ""
}

// HTML returns the markup last passed to SetHTML.
func (e *Element) HTML() string {
	e.lock()
	defer e.unlock()
	return e.html
}

// SetHTML implements ui.Element. The markup is stored, not parsed.
func (e *Element) SetHTML(markup string) {
	e.lock()
	defer e.unlock()
	e.detachChildrenLocked()
	e.text, e.html = "", markup
}

// Value implements ui.Element.
func (e *Element) Value() string {
	e.lock()
	defer e.unlock()
	return e.value
}

// SetValue implements ui.Element.
func (e *Element) SetValue(value string) {
	e.lock()
	defer e.unlock()
	e.value = value
}

// Disabled implements ui.Element.
func (e *Element) Disabled() bool {
	e.lock()
	defer e.unlock()
	return e.disabled
}

// SetDisabled implements ui.Element.
func (e *Element) SetDisabled(disabled bool) {
	e.lock()
	defer e.unlock()
	e.disabled = disabled
}

// HasClass implements ui.Element.
func (e *Element) HasClass(name string) bool {
	e.lock()
	defer e.unlock()
	return e.hasClassLocked(name)
}

func (e *Element) hasClassLocked(name string) bool {
	for _, c := range e.classes {
		if c == name {
			return true
		}
	}
	return false
}

// AddClass implements ui.Element.
func (e *Element) AddClass(names ...string) {
	e.lock()
	defer e.unlock()
	for _, n := range names {
		if !e.hasClassLocked(n) {
			e.classes = append(e.classes, n)
		}
	}
}

// RemoveClass implements ui.Element.
func (e *Element) RemoveClass(names ...string) {
	e.lock()
	defer e.unlock()
	for _, n := range names {
		e.removeClassLocked(n)
	}
}

func (e *Element) removeClassLocked(name string) {
	kept := e.classes[:0]
	for _, c := range e.classes {
		if c != name {
			kept = append(kept, c)
		}
	}
	e.classes = kept
}

// ToggleClass implements ui.Element.
func (e *Element) ToggleClass(name string) bool {
	e.lock()
	defer e.unlock()
	if e.hasClassLocked(name) {
		e.removeClassLocked(name)
		return false
	}
	e.classes = append(e.classes, name)
	return true
}

// SetClass implements ui.Element.
func (e *Element) SetClass(name string, on bool) {
	if on {
		e.AddClass(name)
		return
	}
	e.RemoveClass(name)
}

// Style implements ui.Element.
func (e *Element) Style(prop string) string {
	e.lock()
	defer e.unlock()
	return e.style[prop]
}

// SetStyle implements ui.Element. An empty value removes the property.
func (e *Element) SetStyle(prop, value string) {
	e.lock()
	defer e.unlock()
	if value == "" {
		delete(e.style, prop)
		return
	}
	e.style[prop] = value
}

// OffsetTop implements ui.Element.
func (e *Element) OffsetTop() float64 {
	e.lock()
	defer e.unlock()
	return e.offsetTop
}

// SetOffsetTop fixes the layout position reported by OffsetTop.
func (e *Element) SetOffsetTop(top float64) {
	e.lock()
	defer e.unlock()
	e.offsetTop = top
}

// Contains implements ui.Element.
func (e *Element) Contains(other ui.Element) bool {
	o, ok := other.(*Element)
	if !ok || o == nil {
		return false
	}
	e.lock()
	defer e.unlock()
	for n := o; n != nil; n = n.parent {
		if n == e {
			return true
		}
	}
	return false
}

// Append implements ui.Element.
func (e *Element) Append(child ui.Element) {
	c, ok := child.(*Element)
	if !ok {
		panic("uitest: foreign element appended")
	}
	e.lock()
	defer e.unlock()
	if c.parent != nil {
		c.parent.removeChildLocked(c)
	}
	e.appendLocked(c)
}

func (e *Element) appendLocked(c *Element) {
	c.parent = e
	e.children = append(e.children, c)
}

func (e *Element) removeChildLocked(c *Element) {
	kept := e.children[:0]
	for _, n := range e.children {
		if n != c {
			kept = append(kept, n)
		}
	}
	e.children = kept
	c.parent = nil
}

func (e *Element) detachChildrenLocked() {
	for _, c := range e.children {
		c.parent = nil
	}
	e.children = nil
}

// Remove implements ui.Element.
func (e *Element) Remove() {
	e.lock()
	defer e.unlock()
	if e.parent != nil {
		e.parent.removeChildLocked(e)
	}
}

// Attached implements ui.Element.
func (e *Element) Attached() bool {
	e.lock()
	defer e.unlock()
	return e.parent != nil
}

func (e *Element) attachedLocked() bool {
	n := e
	for n.parent != nil {
		n = n.parent
	}
	return n == e.doc.root
}

// Children returns a snapshot of the direct children.
func (e *Element) Children() []*Element {
	e.lock()
	defer e.unlock()
	return append([]*Element(nil), e.children...)
}

// On implements ui.Element.
func (e *Element) On(t ui.EventType, h ui.Handler, opts ...ui.ListenOption) {
	e.lock()
	defer e.unlock()
	e.listeners.add(t, h, opts)
}

func (e *Element) walk(fn func(*Element) bool) bool {
	if !fn(e) {
		return false
	}
	for _, c := range e.children {
		if !c.walk(fn) {
			return false
		}
	}
	return true
}
