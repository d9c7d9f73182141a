// Package backend holds the key injection backends a player drives.
package backend

import (
	"fmt"
	"time"

	"github.com/pleimann/keynote/internal/player"
)

// Backend names accepted by Open and the configuration file.
const (
	NameKeyboard = "keyboard"
	NameTerminal = "terminal"
	NameDry      = "dry"
)

// Names lists every backend name.
var Names = []string{NameKeyboard, NameTerminal, NameDry}

// Open returns the backend called name. The terminal backend needs a running
// command and is built by the pty package instead.
func Open(name string, settle time.Duration) (player.Backend, error) {
	switch name {
	case NameKeyboard:
		kb, err := NewKeyboard(settle)
		if err != nil {
			return nil, err
		}
		return kb, nil
	case NameDry, "":
		return NewRecorder(nil), nil
	case NameTerminal:
		return nil, fmt.Errorf("backend %q must be opened with a terminal command", name)
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}
