package notation

import (
	"strconv"
	"strings"

	"github.com/pleimann/keynote/internal/keymap"
)

// pasteKey is the character typed under Control to paste the clipboard.
const pasteKey = "v"

// MaxRepeat is the largest repeat count honoured in {name n}. Larger counts
// are clamped to it.
const MaxRepeat = 1000

// parser holds the state of a single Parse or ParseChars call.
type parser struct {
	c      *Compiler
	tokens keymap.Tokens

	altOn, controlOn, shiftOn bool

	events []Event
}

func (c *Compiler) newParser() *parser {
	return &parser{c: c, tokens: c.tokens, events: []Event{}}
}

// Parse compiles notation into events. It never fails: units that cannot be
// compiled are logged and left out.
func (c *Compiler) Parse(notation string) []Event {
	p := c.newParser()
	p.parse([]rune(notation))
	return p.events
}

// ParseChars compiles text literally. Tokens have no meaning; every character
// is typed from the standard table or pasted through the clipboard.
func (c *Compiler) ParseChars(text string) []Event {
	p := c.newParser()
	p.literal([]rune(text))
	return p.events
}

func (p *parser) parse(in []rune) {
	t := p.tokens
	for i := 0; i < len(in); {
		ch := in[i]

		switch {
		case ch == t.Alt.Char:
			p.press(t.Alt.Code)
			p.altOn = true
			i++

		case ch == t.Control.Char:
			p.press(t.Control.Code)
			p.controlOn = true
			i++

		case ch == t.Shift.Char:
			p.press(t.Shift.Code)
			p.shiftOn = true
			i++

		case ch == t.Enter.Char:
			p.typ(t.Enter.Code)
			p.clearModifiers()
			i++

		case ch == t.BraceRight.Char || ch == t.ParenRight.Char:
			// a closer with no opener is a key name of its own
			p.braces(string(ch))
			p.clearModifiers()
			i++

		case ch == t.BraceLeft.Char:
			i = p.braceGroup(in, i)
			p.clearModifiers()

		case ch == t.ParenLeft.Char:
			i = p.parenGroup(in, i)
			p.clearModifiers()

		default:
			if end := p.unmappedRun(in, i, true); end > i {
				p.paste(string(in[i:end]))
				i = end
				continue
			}
			p.char(ch)
			p.clearModifiers()
			i++
		}
	}
}

// braceGroup handles a '{' at in[i] and returns the index after the group.
func (p *parser) braceGroup(in []rune, i int) int {
	end := indexRune(in, p.tokens.BraceRight.Char, i+1)
	switch {
	case end < 0:
		p.c.logger.Debug("notation: unterminated brace group, typing it literally",
			"position", i)
		p.char(in[i])
		return i + 1

	case end == i+1:
		if end+1 < len(in) && in[end+1] == p.tokens.BraceRight.Char {
			p.braces(string(p.tokens.BraceRight.Char))
			return end + 2
		}
		p.c.logger.Debug("notation: ignoring empty braces", "position", i)
		return end + 1

	default:
		p.braces(string(in[i+1 : end]))
		return end + 1
	}
}

// parenGroup handles a '(' at in[i] and returns the index after the group.
func (p *parser) parenGroup(in []rune, i int) int {
	end := indexRune(in, p.tokens.ParenRight.Char, i+1)
	if end < 0 {
		p.c.logger.Debug("notation: unterminated paren group, typing it literally",
			"position", i)
		p.char(in[i])
		return i + 1
	}
	p.literal(in[i+1 : end])
	return end + 1
}

// braces compiles brace content: a key name with an optional repeat count.
func (p *parser) braces(content string) {
	name := strings.TrimSpace(content)
	count := 1
	if sep := strings.IndexByte(content, ' '); sep > 0 {
		name = content[:sep]
		raw := strings.TrimSpace(content[sep+1:])
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			p.c.logger.Debug("notation: bad repeat count, using 1", "name", name, "value", raw)
		case n > MaxRepeat:
			p.c.logger.Warn("notation: repeat count too large, capping it",
				"name", name, "value", n, "max", MaxRepeat)
			count = MaxRepeat
		case n >= 1:
			count = n
		}
	}

	b, ok := p.c.km.Special(name)
	if !ok {
		b, ok = p.c.km.Standard(name)
	}
	if !ok {
		p.c.logger.Warn("notation: unknown key name", "name", name)
		return
	}
	p.binding(b, count)
}

// literal types runes as flat text: mapped characters from the standard
// table, unmapped runs through the clipboard.
func (p *parser) literal(in []rune) {
	for i := 0; i < len(in); {
		if end := p.unmappedRun(in, i, false); end > i {
			p.paste(string(in[i:end]))
			i = end
			continue
		}
		p.char(in[i])
		i++
	}
}

// char types one standard character. Callers route unmapped text to paste,
// so a miss here is a delimiter without a binding.
func (p *parser) char(r rune) {
	b, ok := p.c.km.StandardRune(r)
	if !ok {
		p.c.logger.Warn("notation: no key for character", "char", string(r))
		return
	}
	p.binding(b, 1)
}

// binding types b count times, framing it with Shift when it needs Shift and
// Shift is not already held.
func (p *parser) binding(b keymap.Binding, count int) {
	frame := b.Kind == keymap.ShiftCompound && !p.shiftOn
	if frame {
		p.press(p.tokens.Shift.Code)
	}
	for n := 0; n < count; n++ {
		p.typ(b.Code)
	}
	if frame {
		p.release(p.tokens.Shift.Code)
	}
}

// unmappedRun returns the end of the run of characters starting at i that
// have no standard binding. It returns i when in[i] is mapped. With
// stopAtToken the run also ends before a grammar token.
func (p *parser) unmappedRun(in []rune, i int, stopAtToken bool) int {
	end := i
	for end < len(in) {
		if _, ok := p.c.km.StandardRune(in[end]); ok {
			break
		}
		if stopAtToken && end > i && p.isToken(in[end]) {
			break
		}
		end++
	}
	return end
}

// paste emits a clipboard paste of text. Held modifiers are released first so
// they cannot combine with the paste keystroke.
func (p *parser) paste(text string) {
	outer := p.events
	p.events = nil

	p.clearModifiers()
	p.press(p.tokens.Control.Code)
	if b, ok := p.c.km.Standard(pasteKey); ok {
		p.binding(b, 1)
	} else {
		p.c.logger.Warn("notation: no key for paste keystroke", "char", pasteKey)
	}
	p.release(p.tokens.Control.Code)

	seq := make([]KeyEvent, 0, len(p.events))
	for _, ev := range p.events {
		seq = append(seq, ev.(KeyEvent))
	}
	p.events = append(outer, ClipboardPasteEvent{Text: text, Paste: seq})
}

// clearModifiers releases every modifier held by this parse.
func (p *parser) clearModifiers() {
	if p.altOn {
		p.altOn = false
		p.release(p.tokens.Alt.Code)
	}
	if p.controlOn {
		p.controlOn = false
		p.release(p.tokens.Control.Code)
	}
	if p.shiftOn {
		p.shiftOn = false
		p.release(p.tokens.Shift.Code)
	}
}

func (p *parser) isToken(r rune) bool {
	t := p.tokens
	switch r {
	case t.Alt.Char, t.Control.Char, t.Shift.Char, t.Enter.Char,
		t.BraceLeft.Char, t.BraceRight.Char, t.ParenLeft.Char, t.ParenRight.Char:
		return true
	}
	return false
}

func (p *parser) press(code int)   { p.events = append(p.events, KeyEvent{Press, code}) }
func (p *parser) release(code int) { p.events = append(p.events, KeyEvent{Release, code}) }
func (p *parser) typ(code int)     { p.events = append(p.events, KeyEvent{Type, code}) }

func indexRune(in []rune, r rune, from int) int {
	for i := from; i < len(in); i++ {
		if in[i] == r {
			return i
		}
	}
	return -1
}
