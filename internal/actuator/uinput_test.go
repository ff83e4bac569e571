package actuator

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyCode(t *testing.T) {
	tests := []struct {
		name string
		want uint16
		ok   bool
	}{
		{"right", 106, true},
		{"left", 105, true},
		{"LEFT", 105, true},
		{"space", 57, true},
		{"w", 17, true},
		{"f13", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := KeyCode(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteKeyEvent(t *testing.T) {
	var buf bytes.Buffer
	now := time.Unix(1700000000, 250_000_000)

	require.NoError(t, writeKeyEvent(&buf, 106, true, now))

	events := make([]inputEvent, 2)
	require.NoError(t, binary.Read(&buf, binary.NativeEndian, events))

	assert.Equal(t, inputEvent{Sec: 1700000000, Usec: 250000, Type: evKey, Code: 106, Value: 1}, events[0])
	assert.Equal(t, inputEvent{Sec: 1700000000, Usec: 250000, Type: evSyn, Code: synReport, Value: 0}, events[1])
	assert.Zero(t, buf.Len())
}

func TestWriteKeyEvent_Release(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeKeyEvent(&buf, 105, false, time.Now()))

	var ev inputEvent
	require.NoError(t, binary.Read(&buf, binary.NativeEndian, &ev))
	assert.Equal(t, uint16(105), ev.Code)
	assert.Equal(t, int32(0), ev.Value)
}
