// Package greeting sets the time-of-day hero greeting.
package greeting

import (
	"fmt"
	"time"

	"github.com/Zachkp/folio/internal/ui"
)

// DefaultOwner is the name used when the page does not provide one.
const DefaultOwner = "Mohiuddin"

// Message returns the greeting for the given hour of the day.
func Message(hour int, owner string) string {
	if owner == "" {
		owner = DefaultOwner
	}
	var part string
	switch {
	case hour < 12:
		part = "Morning"
	case hour < 18:
		part = "Afternoon"
	default:
		part = "Evening"
	}
	return fmt.Sprintf("Good %s, I'm %s", part, owner)
}

// Apply writes the greeting for now into #greeting, if the page has one.
func Apply(doc ui.Document, now time.Time, owner string) {
	el := doc.ByID("greeting")
	if el == nil {
		return
	}
	el.SetText(Message(now.Hour(), owner))
}
