package greeting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Zachkp/folio/internal/ui/uitest"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{0, "Good Morning, I'm Mohiuddin"},
		{11, "Good Morning, I'm Mohiuddin"},
		{12, "Good Afternoon, I'm Mohiuddin"},
		{17, "Good Afternoon, I'm Mohiuddin"},
		{18, "Good Evening, I'm Mohiuddin"},
		{23, "Good Evening, I'm Mohiuddin"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Message(tt.hour, ""), "hour %d", tt.hour)
	}
	assert.Equal(t, "Good Evening, I'm Zach", Message(20, "Zach"))
}

func TestApply(t *testing.T) {
	page := uitest.NewPage()
	Apply(page.Doc, time.Date(2024, 1, 1, 14, 0, 0, 0, time.Local), "Zach")
	assert.Equal(t, "Good Afternoon, I'm Zach", page.Greeting.Text())
}

func TestApplyWithoutElement(t *testing.T) {
	doc := uitest.NewDocument(uitest.NewLoop())
	assert.NotPanics(t, func() { Apply(doc, time.Now(), "") })
}
