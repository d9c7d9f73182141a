package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"time"

	"golang.org/x/term"

	"github.com/pleimann/keynote/internal/action"
	"github.com/pleimann/keynote/internal/backend"
	"github.com/pleimann/keynote/internal/clipboard"
	"github.com/pleimann/keynote/internal/config"
	"github.com/pleimann/keynote/internal/keymap"
	"github.com/pleimann/keynote/internal/notation"
	"github.com/pleimann/keynote/internal/player"
	"github.com/pleimann/keynote/internal/pty"
	"github.com/pleimann/keynote/internal/recording"
)

// App holds everything a command needs: the keymap and compiler always, the
// player only after Open.
type App struct {
	config    *config.Config
	logger    *slog.Logger
	keymapRef string

	keymap   *keymap.Keymap
	compiler *notation.Compiler
	mapper   *action.Mapper

	backendName string
	history     player.History
	player      *player.Player
	executor    *action.Executor
	ptyManager  *pty.Manager
}

type appOptions struct {
	keymapRef string
	backend   string
}

func newApp(cfg *config.Config, logger *slog.Logger, opts appOptions) (*App, error) {
	app := &App{
		config:      cfg,
		logger:      logger,
		backendName: cfg.Backend,
	}
	if opts.backend != "" {
		app.backendName = opts.backend
	}
	app.keymapRef = cfg.KeymapRefFor(app.backendName)
	if opts.keymapRef != "" {
		app.keymapRef = opts.keymapRef
	}
	if app.backendName == config.BackendKeyboard && runtime.GOOS == "linux" && app.keymapRef == keymap.DefaultName {
		logger.Warn("the keyboard backend sends evdev codes on Linux; the awt keymap will type the wrong keys",
			"keymap", app.keymapRef)
	}

	km, err := keymap.Open(app.keymapRef, keymap.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to load keymap: %w", err)
	}
	app.keymap = km

	compiler, err := notation.New(km, notation.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create compiler: %w", err)
	}
	app.compiler = compiler

	app.mapper = action.NewMapper(cfg)

	return app, nil
}

// Open starts the backend and builds the player. Terminal output is copied
// to echo when it is not nil.
func (a *App) Open(ctx context.Context, echo io.Writer) error {
	var (
		b    player.Backend
		clip player.Clipboard
	)

	switch a.backendName {
	case config.BackendTerminal:
		t := a.config.Terminal
		if t.Command == "" {
			return fmt.Errorf("terminal.command is required for the terminal backend")
		}
		m, err := pty.NewManager(t.Command, t.Args, t.WorkingDir)
		if err != nil {
			return fmt.Errorf("failed to create PTY manager: %w", err)
		}
		if echo != nil {
			m.SetEcho(echo)
		}
		if err := m.Start(ctx); err != nil {
			return fmt.Errorf("failed to start PTY: %w", err)
		}
		a.ptyManager = m

		if echo != nil && term.IsTerminal(int(os.Stdout.Fd())) {
			if cols, rows, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				if err := m.Resize(uint16(rows), uint16(cols)); err != nil {
					a.logger.Debug("failed to resize PTY", "error", err)
				}
			}
		}

		tb := pty.NewTerminal(m, a.keymap, a.logger)
		b, clip = tb, tb

	default:
		opened, err := backend.Open(a.backendName, a.config.Player.Settle())
		if err != nil {
			return err
		}
		b = opened
		clip = a.systemClipboard()
	}

	pc := a.config.Player
	p, err := player.New(b, clip,
		// every backend is recorded so -record works everywhere
		player.WithHistory(&a.history),
		player.WithDelay(pc.Delay()),
		player.WithPasteDelay(pc.PasteDelay()),
		player.WithReaction(player.Reaction{
			Enabled:     pc.WaitReaction,
			TokenLength: pc.ReactionTokenLength,
			TokenDelay:  pc.ReactionTokenDelay(),
			Delay:       pc.ReactionDelay(),
		}),
		player.WithLogger(a.logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create player: %w", err)
	}
	a.player = p
	a.executor = action.NewExecutor(a.compiler, p)

	a.logger.Debug("player ready", "backend", a.backendName, "keymap", a.keymapRef)
	return nil
}

func (a *App) systemClipboard() player.Clipboard {
	if a.backendName == config.BackendDry {
		return &clipboard.Memory{}
	}
	sys, err := clipboard.NewSystem()
	if err != nil {
		a.logger.Warn("system clipboard unavailable, pasting into memory", "error", err)
		return &clipboard.Memory{}
	}
	return sys
}

// Settle gives a terminal target time to print its response before the app
// shuts it down.
func (a *App) Settle(ctx context.Context) {
	if a.ptyManager == nil {
		return
	}
	select {
	case <-ctx.Done():
	case <-a.ptyManager.Done():
	case <-time.After(a.config.Player.Settle()):
	}
}

// SaveRecording writes the events played so far to path. Pastes are saved
// with their clipboard text.
func (a *App) SaveRecording(path, source string) error {
	return recording.Save(path, recording.Recording{
		Notation: source,
		SavedAt:  time.Now(),
		Events:   a.history.Events(),
	})
}

// Close stops the terminal target, if any.
func (a *App) Close() {
	if a.ptyManager != nil {
		a.ptyManager.Stop()
	}
}
