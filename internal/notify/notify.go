// Package notify renders the dismissible notification banner.
package notify

import (
	"time"

	"github.com/benbjohnson/clock"

	"github.com/Zachkp/folio/internal/ui"
)

// Severity selects the banner color and icon.
type Severity string

const (
	Success Severity = "success"
	Error   Severity = "error"
	Warning Severity = "warning"
	Info    Severity = "info"
)

// DefaultDismissAfter is how long a banner stays up without interaction.
const DefaultDismissAfter = 5 * time.Second

var icons = map[Severity]string{
	Success: "check-circle",
	Error:   "exclamation-circle",
	Warning: "exclamation-triangle",
	Info:    "info-circle",
}

// Icon returns the Font Awesome icon name for s. Unknown severities get the
// info icon.
func (s Severity) Icon() string {
	if icon, ok := icons[s]; ok {
		return icon
	}
	return icons[Info]
}

// Notifier shows at most one banner at a time.
type Notifier struct {
	doc          ui.Document
	loop         ui.Loop
	clk          clock.Clock
	dismissAfter time.Duration
}

// New returns a Notifier. A zero dismissAfter means DefaultDismissAfter.
func New(doc ui.Document, loop ui.Loop, clk clock.Clock, dismissAfter time.Duration) *Notifier {
	if dismissAfter <= 0 {
		dismissAfter = DefaultDismissAfter
	}
	return &Notifier{doc: doc, loop: loop, clk: clk, dismissAfter: dismissAfter}
}

// Show replaces any visible banner with a new one. Must run on the loop.
func (n *Notifier) Show(message string, sev Severity) {
	n.Clear()

	banner := n.build(message, sev)
	n.doc.Body().Append(banner)

	n.clk.AfterFunc(n.dismissAfter, func() {
		n.loop.Post(func() {
			if banner.Attached() {
				banner.Remove()
			}
		})
	})
}

// Clear removes every banner in the document.
func (n *Notifier) Clear() {
	for _, el := range n.doc.QueryAll(".notification") {
		el.Remove()
	}
}

func (n *Notifier) build(message string, sev Severity) ui.Element {
	banner := n.doc.Create("div")
	banner.AddClass("notification", "notification-"+string(sev))

	content := n.doc.Create("div")
	content.AddClass("notification-content")
	content.Append(n.icon(sev.Icon()))
	text := n.doc.Create("span")
	text.SetText(message)
	content.Append(text)
	banner.Append(content)

	closeBtn := n.doc.Create("button")
	closeBtn.AddClass("notification-close")
	closeBtn.SetAttr("type", "button")
	closeBtn.SetAttr("aria-label", "Close notification")
	closeBtn.Append(n.icon("times"))
	closeBtn.On(ui.Click, func(ui.Event) { banner.Remove() })
	banner.Append(closeBtn)

	return banner
}

func (n *Notifier) icon(name string) ui.Element {
	i := n.doc.Create("i")
	i.AddClass("fas", "fa-"+name)
	return i
}
