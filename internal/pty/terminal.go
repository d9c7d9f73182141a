package pty

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/pleimann/keynote/internal/keymap"
)

// Terminal plays key codes into a terminal. It turns codes back into
// characters and named keys through the keymap and writes their byte
// sequences to out. It is also the clipboard of its player: text set on it is
// written verbatim when Control+v is typed.
type Terminal struct {
	out    io.Writer
	km     *keymap.Keymap
	tokens keymap.Tokens
	logger *slog.Logger

	mu             sync.Mutex
	ctrl, alt, sft bool
	clip           string
	clipSet        bool
}

// NewTerminal returns a Terminal writing to out, typically a Manager.
func NewTerminal(out io.Writer, km *keymap.Keymap, logger *slog.Logger) *Terminal {
	if logger == nil {
		logger = slog.Default()
	}
	return &Terminal{
		out:    out,
		km:     km,
		tokens: km.Tokens(),
		logger: logger,
	}
}

// Set implements player.Clipboard.
func (t *Terminal) Set(text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clip = text
	t.clipSet = true
	return nil
}

// Press implements player.Backend. Modifier presses only change state;
// every other key is written when pressed.
func (t *Terminal) Press(code int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch code {
	case t.tokens.Shift.Code:
		t.sft = true
		return nil
	case t.tokens.Control.Code:
		t.ctrl = true
		return nil
	case t.tokens.Alt.Code:
		t.alt = true
		return nil
	}

	key, ok := t.key(code)
	if !ok {
		t.logger.Debug("terminal: no character for key code", "code", code)
		return nil
	}

	if t.ctrl && !t.alt && strings.EqualFold(key.Name, "v") && t.clipSet {
		return t.write([]byte(t.clip))
	}

	data := key.Bytes()
	if data == nil {
		t.logger.Debug("terminal: key has no terminal encoding", "code", code, "key", key.Name)
		return nil
	}
	return t.write(data)
}

// Release implements player.Backend.
func (t *Terminal) Release(code int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch code {
	case t.tokens.Shift.Code:
		t.sft = false
	case t.tokens.Control.Code:
		t.ctrl = false
	case t.tokens.Alt.Code:
		t.alt = false
	}
	return nil
}

// key resolves code to a Key under the current modifiers. Named keys win
// over characters.
func (t *Terminal) key(code int) (Key, bool) {
	k := Key{Ctrl: t.ctrl, Alt: t.alt, Shift: t.sft}

	if name, ok := t.km.SpecialFor(keymap.CodeKey(code)); ok {
		lower := strings.ToLower(name)
		if _, named := namedKey(lower); named {
			k.Name = lower
			return k, true
		}
	}

	if t.sft {
		if char, ok := t.km.StandardFor(keymap.ShiftCodeKey(code)); ok {
			k.Name = char
			return k, true
		}
	}
	if char, ok := t.km.StandardFor(keymap.CodeKey(code)); ok {
		k.Name = char
		return k, true
	}
	return k, false
}

func (t *Terminal) write(data []byte) error {
	if _, err := t.out.Write(data); err != nil {
		return fmt.Errorf("failed to write to terminal: %w", err)
	}
	return nil
}
