//go:build js && wasm

package jsdom

import (
	"strings"
	"syscall/js"

	"github.com/Zachkp/folio/internal/ui"
)

// Element wraps a DOM node.
type Element struct {
	v    js.Value
	loop ui.Loop
}

func (e *Element) Tag() string { return strings.ToLower(e.v.Get("tagName").String()) }

func (e *Element) Attr(name string) string {
	v := e.v.Call("getAttribute", name)
	if v.IsNull() {
		return ""
	}
	return v.String()
}

func (e *Element) SetAttr(name, value string) { e.v.Call("setAttribute", name, value) }

func (e *Element) Text() string { return e.v.Get("textContent").String() }
func (e *Element) SetText(text string) { e.v.Set("textContent", text) }
func (e *Element) SetHTML(markup string) { e.v.Set("innerHTML", markup) }

func (e *Element) Value() string {
	v := e.v.Get("value")
	if v.IsUndefined() {
		return ""
	}
	return v.String()
}

func (e *Element) SetValue(value string) { e.v.Set("value", value) }
func (e *Element) Disabled() bool { return e.v.Get("disabled").Truthy() }
func (e *Element) SetDisabled(disabled bool) { e.v.Set("disabled", disabled) }
func (e *Element) classList() js.Value { return e.v.Get("classList") }
func (e *Element) HasClass(name string) bool { return e.classList().Call("contains", name).Bool() }
func (e *Element) ToggleClass(name string) bool { return e.classList().Call("toggle", name).Bool() }
func (e *Element) SetClass(name string, on bool) { e.classList().Call("toggle", name, on) }

func (e *Element) AddClass(names ...string) {
	for _, n := range names {
		e.classList().Call("add", n)
	}
}

func (e *Element) RemoveClass(names ...string) {
	for _, n := range names {
		e.classList().Call("remove", n)
	}
}

func (e *Element) Style(prop string) string {
	return e.v.Get("style").Call("getPropertyValue", prop).String()
}

func (e *Element) SetStyle(prop, value string) {
	if value == "" {
		e.v.Get("style").Call("removeProperty", prop)
		return
	}
	e.v.Get("style").Call("setProperty", prop, value)
}

func (e *Element) OffsetTop() float64 { return e.v.Get("offsetTop").Float() }

func (e *Element) Contains(other ui.Element) bool {
	o, ok := other.(*Element)
	if !ok || o == nil {
		return false
	}
	return e.v.Call("contains", o.v).Bool()
}

func (e *Element) Append(child ui.Element) {
	if c, ok := child.(*Element); ok {
		e.v.Call("appendChild", c.v)
	}
}

func (e *Element) Remove() { e.v.Call("remove") }

func (e *Element) Attached() bool { return e.v.Get("parentElement").Truthy() }

func (e *Element) On(t ui.EventType, h ui.Handler, opts ...ui.ListenOption) {
	listen(e.v, e.loop, t, h, opts)
}
