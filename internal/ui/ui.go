// Package ui is the event source the portfolio handlers are written against.
//
// A browser build backs it with syscall/js (package jsdom); tests back it with
// the in-memory harness in package uitest.
package ui

// EventType names a DOM event.
type EventType string

const (
	Click  EventType = "click"
	Input  EventType = "input"
	Submit EventType = "submit"
	Scroll EventType = "scroll"
)

// Event is what a Handler receives. Target is the element the event was
// dispatched to, which may be a descendant of the element the handler was
// registered on. Target is nil when the adapter could not resolve it.
type Event struct {
	Type   EventType
	Target Element
}

// Handler reacts to an event. Handlers always run on the Loop.
type Handler func(Event)

// ListenOptions tune a registration.
type ListenOptions struct {
	// PreventDefault cancels the browser default action synchronously,
	// before the handler is queued onto the loop.
	PreventDefault bool
}

// ListenOption mutates ListenOptions.
type ListenOption func(*ListenOptions)

// PreventDefault makes the adapter cancel the default action of the event.
func PreventDefault() ListenOption {
	return func(o *ListenOptions) { o.PreventDefault = true }
}

// ApplyOptions folds opts into a ListenOptions value. Adapters call it.
func ApplyOptions(opts ...ListenOption) ListenOptions {
	var o ListenOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Loop serializes callbacks the way a browser event loop does.
type Loop interface {
	// Post queues fn. It is safe to call from any goroutine.
	Post(fn func())
}

// Element is a node in the page.
type Element interface {
	Tag() string
	Attr(name string) string
	SetAttr(name, value string)

	Text() string
	SetText(text string)
	// SetHTML replaces the children with trusted markup. Never pass user input.
	SetHTML(markup string)

	Value() string
	SetValue(value string)
	Disabled() bool
	SetDisabled(disabled bool)

	HasClass(name string) bool
	AddClass(names ...string)
	RemoveClass(names ...string)
	// ToggleClass flips name and reports whether it is now present.
	ToggleClass(name string) bool
	// SetClass adds or removes name depending on on.
	SetClass(name string, on bool)

	Style(prop string) string
	SetStyle(prop, value string)

	// OffsetTop is the distance from the top of the document in CSS pixels.
	OffsetTop() float64
	// Contains reports whether other is this element or one of its descendants.
	Contains(other Element) bool

	Append(child Element)
	Remove()
	// Attached reports whether the element still has a parent.
	Attached() bool

	On(t EventType, h Handler, opts ...ListenOption)
}

// Document is the page.
type Document interface {
	// ByID returns nil when no element has the id.
	ByID(id string) Element
	// Query returns the first match for selector, or nil.
	Query(selector string) Element
	QueryAll(selector string) []Element
	Body() Element
	Head() Element
	Create(tag string) Element

	// On registers a document-level listener; events from every element
	// bubble to it.
	On(t EventType, h Handler, opts ...ListenOption)
	// OnReady runs fn on the loop once the DOM is parsed. If it already is,
	// fn is queued right away.
	OnReady(fn func())
}

// Window exposes viewport scrolling.
type Window interface {
	ScrollY() float64
	// ScrollTo moves the viewport; smooth requests an animated scroll.
	ScrollTo(top float64, smooth bool)
	On(t EventType, h Handler, opts ...ListenOption)
}
