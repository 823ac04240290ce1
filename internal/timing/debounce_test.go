package timing

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"

	"github.com/Zachkp/folio/internal/ui/uitest"
)

func TestDebouncerFiresOnceAfterPause(t *testing.T) {
	clk := clock.NewMock()
	var calls atomic.Int32
	d := NewDebouncer(clk, uitest.NewLoop(), 300*time.Millisecond, func() { calls.Add(1) })

	for i := 0; i < 3; i++ {
		d.Trigger()
		clk.Add(100 * time.Millisecond)
	}
	assert.Zero(t, calls.Load())

	clk.Add(300 * time.Millisecond)
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)

	clk.Add(time.Second)
	time.Sleep(10 * time.Millisecond)
	assert.EqualValues(t, 1, calls.Load())
}

func TestDebouncerCancel(t *testing.T) {
	clk := clock.NewMock()
	var calls atomic.Int32
	d := NewDebouncer(clk, uitest.NewLoop(), 300*time.Millisecond, func() { calls.Add(1) })

	d.Trigger()
	d.Cancel()
	clk.Add(time.Second)
	time.Sleep(10 * time.Millisecond)

	assert.Zero(t, calls.Load())
}

func TestDebouncerHandler(t *testing.T) {
	clk := clock.NewMock()
	page := uitest.NewPage()
	var calls atomic.Int32
	d := NewDebouncer(clk, page.Loop, 300*time.Millisecond, func() { calls.Add(1) })
	page.Name.On("input", d.Handler())

	page.Doc.Type(page.Name, "a")
	page.Doc.Type(page.Name, "ab")
	clk.Add(300 * time.Millisecond)

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
}
