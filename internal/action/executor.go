// Package action turns macros and notation into played key events.
package action

import (
	"context"
	"fmt"

	"github.com/pleimann/keynote/internal/config"
	"github.com/pleimann/keynote/internal/notation"
)

// Player is the part of player.Player the executor drives.
type Player interface {
	Play(ctx context.Context, events []notation.Event) error
	WaitReaction(ctx context.Context, text string) error
}

// Executor compiles notation and plays the result.
type Executor struct {
	compiler *notation.Compiler
	player   Player
}

// NewExecutor creates a new action executor
func NewExecutor(compiler *notation.Compiler, player Player) *Executor {
	return &Executor{compiler: compiler, player: player}
}

// Compile returns the events a macro expands to without playing them.
func (e *Executor) Compile(m config.Macro) []notation.Event {
	if m.Literal {
		return e.compiler.ParseChars(m.Keys)
	}
	return e.compiler.Parse(m.Keys)
}

// Execute plays a macro and then waits for the target to react.
func (e *Executor) Execute(ctx context.Context, m config.Macro) ([]notation.Event, error) {
	events := e.Compile(m)
	if err := e.Play(ctx, m.Keys, events); err != nil {
		return events, fmt.Errorf("macro %s: %w", m.Name, err)
	}
	return events, nil
}

// ExecuteNotation plays a notation string.
func (e *Executor) ExecuteNotation(ctx context.Context, s string) ([]notation.Event, error) {
	events := e.compiler.Parse(s)
	return events, e.Play(ctx, s, events)
}

// ExecuteText types s literally.
func (e *Executor) ExecuteText(ctx context.Context, s string) ([]notation.Event, error) {
	events := e.compiler.ParseChars(s)
	return events, e.Play(ctx, s, events)
}

// Play plays events already compiled from text and waits for the target to
// react to text.
func (e *Executor) Play(ctx context.Context, text string, events []notation.Event) error {
	if err := e.player.Play(ctx, events); err != nil {
		return fmt.Errorf("failed to play keys: %w", err)
	}
	return e.player.WaitReaction(ctx, text)
}

// Compiler returns the compiler the executor parses with.
func (e *Executor) Compiler() *notation.Compiler { return e.compiler }
