package tray

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ayusman/palmdrive/internal/app"
	"github.com/ayusman/palmdrive/internal/gesture"
)

func TestTray_Toggle(t *testing.T) {
	tr := New()
	assert.True(t, tr.IsEnabled())

	var got []bool
	tr.OnToggle(func(enabled bool) { got = append(got, enabled) })

	tr.handleToggle()
	tr.handleToggle()

	assert.Equal(t, []bool{false, true}, got)
	assert.True(t, tr.IsEnabled())
}

func TestTray_Callbacks(t *testing.T) {
	tr := New()

	// No callbacks set: nothing panics.
	tr.handleStatus()
	tr.handleQuit()

	var status, quit int
	tr.OnStatus(func() { status++ })
	tr.OnQuit(func() { quit++ })

	tr.handleStatus()
	tr.handleQuit()

	assert.Equal(t, 1, status)
	assert.Equal(t, 1, quit)
}

func TestTray_ObserveTransition(t *testing.T) {
	tr := New()
	assert.Equal(t, gesture.Neutral, tr.State())

	tr.ObserveTransition(app.Transition{Seq: 1, To: gesture.Brake})
	assert.Equal(t, gesture.Brake, tr.State())
}

func TestTitles(t *testing.T) {
	assert.Equal(t, "● Enabled", toggleTitle(true))
	assert.Equal(t, "○ Paused", toggleTitle(false))
	assert.Equal(t, "Current: GAS (GO!)", stateTitle(gesture.Gas))
	assert.Equal(t, "PD ▲", titleFor(gesture.Gas))
	assert.Equal(t, "PD ▼", titleFor(gesture.Brake))
	assert.Equal(t, "PD", titleFor(gesture.Neutral))
}
