// Package notation compiles keystroke notation into key events and back.
//
// The grammar, with the default tokens:
//
//	abc        literal characters from the standard table
//	% ^ +      hold Alt, Control or Shift for the next unit
//	~          Enter
//	{F6}       a named special key (case-insensitive)
//	{a 4}      a key repeated 4 times
//	{{} {}}    literal braces
//	+(abcd)    a flat group typed under the held modifiers
//
// Characters without a standard binding are delivered through the
// clipboard as a ClipboardPasteEvent.
package notation

import (
	"errors"
	"log/slog"

	"github.com/pleimann/keynote/internal/keymap"
)

// ErrNilKeymap is returned by New when no keycode map is given.
var ErrNilKeymap = errors.New("notation: keymap is nil")

// Compiler turns notation into events using one keycode map. It keeps no
// state between calls and is safe for concurrent use.
type Compiler struct {
	km     *keymap.Keymap
	tokens keymap.Tokens
	logger *slog.Logger
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger for skipped input. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Compiler) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns a Compiler for km.
func New(km *keymap.Keymap, opts ...Option) (*Compiler, error) {
	if km == nil {
		return nil, ErrNilKeymap
	}
	c := &Compiler{
		km:     km,
		tokens: km.Tokens(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Keymap returns the map the compiler was built with.
func (c *Compiler) Keymap() *keymap.Keymap { return c.km }
