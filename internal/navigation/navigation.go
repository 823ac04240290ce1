// Package navigation drives the mobile hamburger menu.
package navigation

import "github.com/Zachkp/folio/internal/ui"

// Menu is the bound hamburger menu.
type Menu struct {
	doc       ui.Document
	hamburger ui.Element
	menu      ui.Element
}

// Bind wires the hamburger toggle, link clicks and outside clicks. It
// returns nil when the page lacks either .hamburger or .nav-menu.
func Bind(doc ui.Document) *Menu {
	hamburger := doc.Query(".hamburger")
	menu := doc.Query(".nav-menu")
	if hamburger == nil || menu == nil {
		return nil
	}
	m := &Menu{doc: doc, hamburger: hamburger, menu: menu}

	hamburger.On(ui.Click, func(ui.Event) { m.Toggle() })
	for _, link := range doc.QueryAll(".nav-link") {
		link.On(ui.Click, func(ui.Event) { m.Close() })
	}
	doc.On(ui.Click, func(ev ui.Event) {
		if ev.Target == nil {
			return
		}
		if !hamburger.Contains(ev.Target) && !menu.Contains(ev.Target) {
			m.Close()
		}
	})
	return m
}

// Toggle opens a closed menu and closes an open one. The body stops
// scrolling while the menu is open.
func (m *Menu) Toggle() {
	m.hamburger.ToggleClass("active")
	open := m.menu.ToggleClass("active")
	if open {
		m.setBodyOverflow("hidden")
		return
	}
	m.setBodyOverflow("")
}

// Close hides the menu and restores body scrolling.
func (m *Menu) Close() {
	m.hamburger.RemoveClass("active")
	m.menu.RemoveClass("active")
	m.setBodyOverflow("")
}

func (m *Menu) isOpen() bool {
	return m.menu.HasClass("active")
}

func (m *Menu) setBodyOverflow(v string) {
	if body := m.doc.Body(); body != nil {
		body.SetStyle("overflow", v)
	}
}
