package notation

import (
	"fmt"
	"strings"
)

// Phase is what a KeyEvent does with its key.
type Phase uint8

const (
	// Press pushes the key down and leaves it held.
	Press Phase = iota
	// Release lets a held key go.
	Release
	// Type presses and releases the key back to back.
	Type
)

func (p Phase) String() string {
	switch p {
	case Press:
		return "press"
	case Release:
		return "release"
	case Type:
		return "type"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// ParsePhase is the inverse of Phase.String.
func ParsePhase(s string) (Phase, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "press":
		return Press, nil
	case "release":
		return Release, nil
	case "type":
		return Type, nil
	default:
		return 0, fmt.Errorf("unknown key phase %q", s)
	}
}

// Event is one step of a compiled key sequence: a KeyEvent or a
// ClipboardPasteEvent.
type Event interface {
	event()
}

// KeyEvent acts on a single virtual key code.
type KeyEvent struct {
	Phase Phase
	Code  int
}

func (KeyEvent) event() {}

func (e KeyEvent) String() string {
	return fmt.Sprintf("%s %d", e.Phase, e.Code)
}

// ClipboardPasteEvent carries text that has no key binding. A player puts
// Text on the clipboard and then replays Paste, usually Ctrl+v.
type ClipboardPasteEvent struct {
	Text  string
	Paste []KeyEvent
}

func (ClipboardPasteEvent) event() {}

func (e ClipboardPasteEvent) String() string {
	return fmt.Sprintf("paste %q", e.Text)
}

// KeyEvents returns the top-level key events of events, dropping paste
// events together with their paste sequences.
func KeyEvents(events []Event) []KeyEvent {
	out := make([]KeyEvent, 0, len(events))
	for _, ev := range events {
		if ke, ok := ev.(KeyEvent); ok {
			out = append(out, ke)
		}
	}
	return out
}

// Events wraps key events as a generic event list.
func Events(keys []KeyEvent) []Event {
	out := make([]Event, len(keys))
	for i, k := range keys {
		out[i] = k
	}
	return out
}
