// Package scroll applies the scroll-driven effects: the back-to-top button,
// the navbar background and auto-hide, and smooth in-page anchor scrolling.
package scroll

import (
	"strings"

	"github.com/Zachkp/folio/internal/ui"
)

const (
	// ShowTopAfter is the offset past which the back-to-top button appears.
	ShowTopAfter = 300
	// SolidNavbarAfter is the offset past which the navbar turns translucent
	// and hides while scrolling down.
	SolidNavbarAfter = 100
	// HeaderOffset keeps anchor targets clear of the fixed navbar.
	HeaderOffset = 70
)

// BindEffects wires the back-to-top button and the navbar effects. Nothing is
// bound when the page has no #scrollTop button.
func BindEffects(doc ui.Document, win ui.Window) bool {
	btn := doc.ByID("scrollTop")
	if btn == nil {
		return false
	}

	win.On(ui.Scroll, func(ui.Event) {
		btn.SetClass("show", win.ScrollY() > ShowTopAfter)
	})
	btn.On(ui.Click, func(ui.Event) {
		win.ScrollTo(0, true)
	})

	nav := &navbar{el: doc.Query(".navbar"), win: win, lastY: win.ScrollY()}
	win.On(ui.Scroll, func(ui.Event) { nav.update() })
	return true
}

type navbar struct {
	el    ui.Element
	win   ui.Window
	lastY float64
}

func (n *navbar) update() {
	if n.el == nil {
		return
	}
	y := n.win.ScrollY()

	if y > SolidNavbarAfter {
		n.el.SetStyle("background", "rgba(255, 255, 255, 0.95)")
		n.el.SetStyle("backdrop-filter", "blur(10px)")
	} else {
		n.el.SetStyle("background", "var(--white)")
		n.el.SetStyle("backdrop-filter", "none")
	}

	if y > n.lastY && y > SolidNavbarAfter {
		n.el.SetStyle("transform", "translateY(-100%)")
	} else {
		n.el.SetStyle("transform", "translateY(0)")
	}
	n.lastY = y
}

// BindAnchors makes every in-page link and the call-to-action button scroll
// smoothly to their target, leaving room for the navbar.
func BindAnchors(doc ui.Document, win ui.Window) {
	for _, a := range doc.QueryAll(`a[href^="#"]`) {
		a := a
		a.On(ui.Click, func(ui.Event) {
			href := a.Attr("href")
			if href == "#" {
				return
			}
			scrollToID(doc, win, strings.TrimPrefix(href, "#"))
		}, ui.PreventDefault())
	}

	if cta := doc.Query(".cta-button"); cta != nil {
		cta.On(ui.Click, func(ui.Event) { scrollToID(doc, win, "projects") })
	}
}

func scrollToID(doc ui.Document, win ui.Window, id string) {
	if id == "" {
		return
	}
	target := doc.ByID(id)
	if target == nil {
		return
	}
	win.ScrollTo(target.OffsetTop()-HeaderOffset, true)
}
