package keymap

import (
	"fmt"
	"strconv"
	"strings"
)

// shiftPrefix marks a compound binding in map values and reverse-table keys.
const shiftPrefix = "SHIFT+"

// Kind distinguishes a plain key from one that needs Shift held.
type Kind uint8

const (
	// Direct presses a single key code.
	Direct Kind = iota
	// ShiftCompound holds Shift while the key code is typed.
	ShiftCompound
)

func (k Kind) String() string {
	switch k {
	case Direct:
		return "direct"
	case ShiftCompound:
		return "shift"
	default:
		return fmt.Sprintf("unknown(%d)", k)
	}
}

// Binding is the value stored for a standard character or special key name.
type Binding struct {
	Kind Kind
	Code int
}

// String renders the binding in map-file form: "65" or "SHIFT+65".
// The same string keys the reverse tables.
func (b Binding) String() string {
	if b.Kind == ShiftCompound {
		return shiftPrefix + strconv.Itoa(b.Code)
	}
	return strconv.Itoa(b.Code)
}

// ParseBinding parses a map value of the form "<int>" or "SHIFT+<int>".
func ParseBinding(value string) (Binding, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return Binding{}, fmt.Errorf("empty keycode")
	}

	kind := Direct
	if len(v) >= len(shiftPrefix) && strings.EqualFold(v[:len(shiftPrefix)], shiftPrefix) {
		kind = ShiftCompound
		v = strings.TrimSpace(v[len(shiftPrefix):])
	}

	code, err := strconv.Atoi(v)
	if err != nil {
		return Binding{}, fmt.Errorf("invalid keycode %q", value)
	}

	return Binding{Kind: kind, Code: code}, nil
}
