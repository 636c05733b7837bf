package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmitterOnOff(t *testing.T) {
	e := NewEmitter()
	var got []any

	off := e.On(CommandStart, func(data any) { got = append(got, data) })
	e.On(CommandStart, func(data any) { got = append(got, "second") })

	e.Emit(CommandStart, "build")
	off()
	e.Emit(CommandStart, "serve")
	e.Emit(CommandDone, "ignored")

	assert.Equal(t, []any{"build", "second", "second"}, got)
}

func TestEmitNilEmitter(t *testing.T) {
	var e *Emitter
	assert.NotPanics(t, func() { e.Emit(CommandDone, "build") })
}
