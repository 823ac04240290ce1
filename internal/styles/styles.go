// Package styles injects the stylesheet the notification banner relies on.
package styles

import (
	_ "embed"

	"github.com/Zachkp/folio/internal/ui"
)

// ElementID is the id of the injected <style> element.
const ElementID = "notification-styles"

//go:embed notification.css
var notificationCSS string

// Inject appends the stylesheet to <head> unless it is already there. It
// reports whether it added anything.
func Inject(doc ui.Document) bool {
	if doc.ByID(ElementID) != nil {
		return false
	}
	head := doc.Head()
	if head == nil {
		return false
	}
	style := doc.Create("style")
	style.SetAttr("id", ElementID)
	style.SetText(notificationCSS)
	head.Append(style)
	return true
}
