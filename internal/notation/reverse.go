package notation

import (
	"strings"

	"github.com/pleimann/keynote/internal/keymap"
)

// Reverse rebuilds notation from key events. The result parses back to the
// same key events for most recorded input but is not guaranteed to match the
// notation the events were compiled from. Paste events are skipped.
//
// Shift is written as a "+(...)" group around the keys typed while it is
// held. Alt and Control are written as their bare tokens on press.
func (c *Compiler) Reverse(events []Event) string {
	t := c.tokens
	var sb strings.Builder
	shiftOn := false

	for _, ev := range events {
		ke, ok := ev.(KeyEvent)
		if !ok {
			c.logger.Warn("notation: reverse skips non-key event", "event", ev)
			continue
		}

		switch ke.Phase {
		case Press:
			switch ke.Code {
			case t.Shift.Code:
				sb.WriteRune(t.Shift.Char)
				sb.WriteRune(t.ParenLeft.Char)
				shiftOn = true
			case t.Alt.Code:
				sb.WriteRune(t.Alt.Char)
			case t.Control.Code:
				sb.WriteRune(t.Control.Char)
			default:
				c.reverseKey(&sb, ke.Code, shiftOn)
			}
		case Release:
			if ke.Code == t.Shift.Code {
				sb.WriteRune(t.ParenRight.Char)
				shiftOn = false
			}
		case Type:
			c.reverseKey(&sb, ke.Code, shiftOn)
		}
	}

	empty := string([]rune{t.Shift.Char, t.ParenLeft.Char, t.ParenRight.Char})
	return strings.ReplaceAll(sb.String(), empty, "")
}

// reverseKey appends the notation for one key code.
func (c *Compiler) reverseKey(sb *strings.Builder, code int, shiftOn bool) {
	t := c.tokens
	km := c.km

	// Named keys look the same with or without Shift; close the shift group
	// around them and shift the key itself.
	if name, ok := km.SpecialFor(keymap.CodeKey(code)); ok {
		if shiftOn {
			sb.WriteRune(t.ParenRight.Char)
			sb.WriteRune(t.Shift.Char)
			c.writeBraced(sb, name)
			sb.WriteRune(t.Shift.Char)
			sb.WriteRune(t.ParenLeft.Char)
			return
		}
		c.writeBraced(sb, name)
		return
	}

	if shiftOn {
		shifted := keymap.ShiftCodeKey(code)
		if name, ok := km.SpecialFor(shifted); ok {
			sb.WriteRune(t.ParenRight.Char)
			c.writeBraced(sb, name)
			sb.WriteRune(t.Shift.Char)
			sb.WriteRune(t.ParenLeft.Char)
			return
		}
		if char, ok := km.StandardFor(shifted); ok {
			// the character already implies Shift
			sb.WriteRune(t.ParenRight.Char)
			sb.WriteString(char)
			sb.WriteRune(t.Shift.Char)
			sb.WriteRune(t.ParenLeft.Char)
			return
		}
	}

	if char, ok := km.StandardFor(keymap.CodeKey(code)); ok {
		sb.WriteString(char)
		return
	}

	c.logger.Warn("notation: no notation for key code", "code", code, "shift", shiftOn)
}

func (c *Compiler) writeBraced(sb *strings.Builder, name string) {
	sb.WriteRune(c.tokens.BraceLeft.Char)
	sb.WriteString(name)
	sb.WriteRune(c.tokens.BraceRight.Char)
}
