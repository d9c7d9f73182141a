// Package player replays compiled key events against an injection backend.
package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/pleimann/keynote/internal/notation"
)

const (
	// DefaultDelay is the pause after each key event.
	DefaultDelay = time.Millisecond
	// MinPasteDelay is the default lower bound of the paste delay. The
	// clipboard write has to land before the paste keystroke.
	MinPasteDelay = 50 * time.Millisecond
)

var (
	// ErrNoBackend is returned by New without a backend.
	ErrNoBackend = errors.New("player: backend is nil")
	// ErrNoClipboard is returned by Play for a paste event when the player
	// has no clipboard.
	ErrNoClipboard = errors.New("player: no clipboard for paste event")
)

// Backend injects key presses.
type Backend interface {
	Press(code int) error
	Release(code int) error
}

// Clipboard is the system clipboard, or a stand-in for it.
type Clipboard interface {
	Set(text string) error
}

// Player replays events one at a time. A Player is not meant to be shared by
// concurrent Play calls; event order is the whole point.
type Player struct {
	backend   Backend
	clipboard Clipboard

	delay      time.Duration
	pasteDelay time.Duration
	pasteSet   bool
	reaction   Reaction
	history    *History

	logger *slog.Logger
}

// Option configures a Player.
type Option func(*Player)

// WithDelay sets the pause after every key event.
func WithDelay(d time.Duration) Option {
	return func(p *Player) { p.delay = d }
}

// WithPasteDelay sets the pause around paste keystrokes. Without it the
// player uses the larger of the key delay and MinPasteDelay.
func WithPasteDelay(d time.Duration) Option {
	return func(p *Player) {
		p.pasteDelay = d
		p.pasteSet = true
	}
}

// WithReaction configures WaitReaction.
func WithReaction(r Reaction) Option {
	return func(p *Player) { p.reaction = r }
}

// WithHistory appends every event the player finishes to h.
func WithHistory(h *History) Option {
	return func(p *Player) { p.history = h }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Player) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a Player. clipboard may be nil when no paste events are played.
func New(backend Backend, clipboard Clipboard, opts ...Option) (*Player, error) {
	if backend == nil {
		return nil, ErrNoBackend
	}
	p := &Player{
		backend:   backend,
		clipboard: clipboard,
		delay:     DefaultDelay,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if !p.pasteSet {
		p.pasteDelay = max(p.delay, MinPasteDelay)
	}
	return p, nil
}

// Delay returns the pause after each key event.
func (p *Player) Delay() time.Duration { return p.delay }

// PasteDelay returns the pause used around paste keystrokes.
func (p *Player) PasteDelay() time.Duration { return p.pasteDelay }

// Play replays events in order. The context is checked before every step.
// When Play fails or is cancelled, keys it pressed and did not release are
// released before it returns.
func (p *Player) Play(ctx context.Context, events []notation.Event) (err error) {
	run := &run{p: p}
	defer func() {
		if err != nil {
			run.releaseHeld()
		}
	}()

	for _, ev := range events {
		if err := ctx.Err(); err != nil {
			return err
		}

		switch ev := ev.(type) {
		case notation.KeyEvent:
			if err := run.key(ev); err != nil {
				return err
			}
			p.history.add(ev)
			if err := sleep(ctx, p.delay); err != nil {
				return err
			}

		case notation.ClipboardPasteEvent:
			if err := run.paste(ctx, ev); err != nil {
				return err
			}
			p.history.add(ev)

		default:
			p.logger.Warn("player: skipping unknown event", "event", ev)
		}
	}
	return nil
}

// run tracks the keys held down during one Play call.
type run struct {
	p    *Player
	held []int
}

func (r *run) key(ev notation.KeyEvent) error {
	b := r.p.backend
	r.p.logger.Debug("player: key", "phase", ev.Phase, "code", ev.Code)

	switch ev.Phase {
	case notation.Press:
		if err := b.Press(ev.Code); err != nil {
			return fmt.Errorf("failed to press key %d: %w", ev.Code, err)
		}
		r.held = append(r.held, ev.Code)
	case notation.Release:
		if err := b.Release(ev.Code); err != nil {
			return fmt.Errorf("failed to release key %d: %w", ev.Code, err)
		}
		r.forget(ev.Code)
	case notation.Type:
		if err := b.Press(ev.Code); err != nil {
			return fmt.Errorf("failed to press key %d: %w", ev.Code, err)
		}
		if err := b.Release(ev.Code); err != nil {
			r.held = append(r.held, ev.Code)
			return fmt.Errorf("failed to release key %d: %w", ev.Code, err)
		}
	default:
		r.p.logger.Warn("player: skipping key event with unknown phase", "phase", ev.Phase, "code", ev.Code)
	}
	return nil
}

func (r *run) paste(ctx context.Context, ev notation.ClipboardPasteEvent) error {
	p := r.p
	if p.clipboard == nil {
		return ErrNoClipboard
	}
	p.logger.Debug("player: paste", "text", ev.Text)

	if err := p.clipboard.Set(ev.Text); err != nil {
		return fmt.Errorf("failed to set clipboard: %w", err)
	}
	if err := sleep(ctx, p.pasteDelay); err != nil {
		return err
	}
	for _, ke := range ev.Paste {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.key(ke); err != nil {
			return err
		}
		if err := sleep(ctx, p.pasteDelay); err != nil {
			return err
		}
	}
	return nil
}

// forget drops the most recent press of code.
func (r *run) forget(code int) {
	for i := len(r.held) - 1; i >= 0; i-- {
		if r.held[i] == code {
			r.held = append(r.held[:i], r.held[i+1:]...)
			return
		}
	}
}

// releaseHeld lets go of every held key, last pressed first.
func (r *run) releaseHeld() {
	for i := len(r.held) - 1; i >= 0; i-- {
		code := r.held[i]
		if err := r.p.backend.Release(code); err != nil {
			r.p.logger.Warn("player: failed to release held key", "code", code, "error", err)
		}
	}
	r.held = nil
}

// History is the list of events a player has played. Pastes are kept whole,
// clipboard text included. The zero value is ready to use.
type History struct {
	mu     sync.Mutex
	events []notation.Event
}

func (h *History) add(ev notation.Event) {
	if h == nil {
		return
	}
	h.mu.Lock()
	h.events = append(h.events, ev)
	h.mu.Unlock()
}

// Events returns a copy of the played events.
func (h *History) Events() []notation.Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]notation.Event{}, h.events...)
}

// Reset discards the played events.
func (h *History) Reset() {
	h.mu.Lock()
	h.events = nil
	h.mu.Unlock()
}

// Reaction is the pause after a run, giving the target application time to
// process its input. Longer text waits longer.
type Reaction struct {
	Enabled bool
	// TokenLength is the number of characters that earn one TokenDelay.
	TokenLength int
	TokenDelay  time.Duration
	// Delay is always added.
	Delay time.Duration
}

// DefaultReaction returns a disabled Reaction with the usual timings.
func DefaultReaction() Reaction {
	return Reaction{
		TokenLength: 100,
		TokenDelay:  100 * time.Millisecond,
		Delay:       time.Second,
	}
}

// Duration returns how long to wait after typing text.
func (r Reaction) Duration(text string) time.Duration {
	if !r.Enabled {
		return 0
	}
	d := r.Delay
	if r.TokenLength > 0 {
		d += time.Duration(utf8.RuneCountInString(text)/r.TokenLength) * r.TokenDelay
	}
	return d
}

// WaitReaction waits the configured reaction time for text.
func (p *Player) WaitReaction(ctx context.Context, text string) error {
	d := p.reaction.Duration(text)
	if d <= 0 {
		return nil
	}
	p.logger.Debug("player: waiting for reaction", "duration", d)
	return sleep(ctx, d)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
