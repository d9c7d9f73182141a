// Package clipboard provides the clipboards a player pastes through.
package clipboard

import (
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
)

// System is the operating system clipboard.
type System struct{}

// NewSystem returns the OS clipboard, or an error when the platform has no
// clipboard utility available (for example xclip or xsel on Linux).
func NewSystem() (*System, error) {
	if clipboard.Unsupported {
		return nil, fmt.Errorf("no clipboard utility available on this system")
	}
	return &System{}, nil
}

// Set replaces the clipboard text.
func (System) Set(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}

// Get returns the clipboard text.
func (System) Get() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to read clipboard: %w", err)
	}
	return text, nil
}

// Memory is an in-process clipboard that remembers everything set on it.
type Memory struct {
	mu      sync.Mutex
	history []string
}

// Set implements player.Clipboard.
func (m *Memory) Set(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = append(m.history, text)
	return nil
}

// Get returns the last text set, or "".
func (m *Memory) Get() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.history) == 0 {
		return "", nil
	}
	return m.history[len(m.history)-1], nil
}

// History returns a copy of every text set, oldest first.
func (m *Memory) History() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.history...)
}
