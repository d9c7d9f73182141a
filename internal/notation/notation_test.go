package notation

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pleimann/keynote/internal/keymap"
)

// AWT codes used throughout the tests.
const (
	vkShift   = 16
	vkControl = 17
	vkAlt     = 18
	vkEnter   = 10
	vkA       = 65
	vkV       = 86
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestCompiler(t *testing.T) *Compiler {
	t.Helper()
	km, err := keymap.Default(keymap.WithLogger(quiet()))
	require.NoError(t, err)
	c, err := New(km, WithLogger(quiet()))
	require.NoError(t, err)
	return c
}

func press(code int) KeyEvent   { return KeyEvent{Phase: Press, Code: code} }
func release(code int) KeyEvent { return KeyEvent{Phase: Release, Code: code} }
func typ(code int) KeyEvent     { return KeyEvent{Phase: Type, Code: code} }

func pasteOf(text string, pre ...KeyEvent) ClipboardPasteEvent {
	seq := append([]KeyEvent{}, pre...)
	seq = append(seq, press(vkControl), typ(vkV), release(vkControl))
	return ClipboardPasteEvent{Text: text, Paste: seq}
}

func TestNew_NilKeymap(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, ErrNilKeymap)
}

func TestPhase(t *testing.T) {
	for _, p := range []Phase{Press, Release, Type} {
		got, err := ParsePhase(p.String())
		require.NoError(t, err)
		require.Equal(t, p, got)
	}
	_, err := ParsePhase("hold")
	require.Error(t, err)
}

func TestKeyEvents(t *testing.T) {
	events := []Event{typ(vkA), pasteOf("é"), press(vkShift)}
	require.Equal(t, []KeyEvent{typ(vkA), press(vkShift)}, KeyEvents(events))
	require.Equal(t, []Event{typ(vkA)}, Events([]KeyEvent{typ(vkA)}))
}
