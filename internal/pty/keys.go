package pty

import (
	"strings"
	"unicode/utf8"
)

// Key is a key as a terminal application sees it: a single character or a
// named key, with the modifiers held at the time.
type Key struct {
	Ctrl  bool
	Alt   bool
	Shift bool
	Name  string // a character, or a lower-case name such as "enter" or "f1"
}

// namedKeys maps special key names to their xterm byte sequences.
var namedKeys = map[string][]byte{
	"enter":     {'\r'},
	"numenter":  {'\r'},
	"num~":      {'\r'},
	"tab":       {'\t'},
	"esc":       {0x1b},
	"escape":    {0x1b},
	"bs":        {0x7f},
	"bksp":      {0x7f},
	"backspace": {0x7f},
	"del":       {0x1b, '[', '3', '~'},
	"delete":    {0x1b, '[', '3', '~'},
	"insert":    {0x1b, '[', '2', '~'},
	"home":      {0x1b, '[', 'H'},
	"end":       {0x1b, '[', 'F'},
	"pgup":      {0x1b, '[', '5', '~'},
	"pgdn":      {0x1b, '[', '6', '~'},
	"up":        {0x1b, '[', 'A'},
	"down":      {0x1b, '[', 'B'},
	"right":     {0x1b, '[', 'C'},
	"left":      {0x1b, '[', 'D'},
	"f1":        {0x1b, 'O', 'P'},
	"f2":        {0x1b, 'O', 'Q'},
	"f3":        {0x1b, 'O', 'R'},
	"f4":        {0x1b, 'O', 'S'},
	"f5":        {0x1b, '[', '1', '5', '~'},
	"f6":        {0x1b, '[', '1', '7', '~'},
	"f7":        {0x1b, '[', '1', '8', '~'},
	"f8":        {0x1b, '[', '1', '9', '~'},
	"f9":        {0x1b, '[', '2', '0', '~'},
	"f10":       {0x1b, '[', '2', '1', '~'},
	"f11":       {0x1b, '[', '2', '3', '~'},
	"f12":       {0x1b, '[', '2', '4', '~'},
}

// namedKey strips the NUM/EXT keypad prefixes and looks name up. Keypad
// digits and operators type their character.
func namedKey(name string) ([]byte, bool) {
	if b, ok := namedKeys[name]; ok {
		return b, true
	}
	for _, prefix := range []string{"num", "ext"} {
		rest, found := strings.CutPrefix(name, prefix)
		if !found {
			continue
		}
		if b, ok := namedKeys[rest]; ok {
			return b, true
		}
		if prefix == "num" && len(rest) == 1 && strings.Contains("0123456789/*-+.", rest) {
			return []byte(rest), true
		}
	}
	return nil, false
}

// Bytes returns what a terminal sends for the key, or nil when the key has
// no terminal encoding.
func (k Key) Bytes() []byte {
	if k.Ctrl && !k.Alt && len(k.Name) == 1 {
		char := k.Name[0]
		// ctrl+a through ctrl+z are ASCII 1-26
		if char >= 'a' && char <= 'z' {
			return []byte{char - 'a' + 1}
		}
		if char >= 'A' && char <= 'Z' {
			return []byte{char - 'A' + 1}
		}
		switch char {
		case '@', ' ':
			return []byte{0x00}
		case '[':
			return []byte{0x1b}
		case '\\':
			return []byte{0x1c}
		case ']':
			return []byte{0x1d}
		case '^':
			return []byte{0x1e}
		case '_':
			return []byte{0x1f}
		case '?':
			return []byte{0x7f}
		}
	}

	if k.Shift && k.Name == "tab" {
		return []byte{0x1b, '[', 'Z'}
	}

	if utf8.RuneCountInString(k.Name) == 1 {
		if k.Alt {
			return append([]byte{0x1b}, k.Name...)
		}
		return []byte(k.Name)
	}

	if b, ok := namedKey(k.Name); ok {
		if k.Alt {
			return append([]byte{0x1b}, b...)
		}
		return b
	}
	return nil
}
