package backend

import (
	"fmt"
	"sync"
	"time"

	"github.com/micmonay/keybd_event"
)

// DefaultSettle is how long a new virtual keyboard is given to register with
// the system before the first key. Linux uinput devices need about two
// seconds.
const DefaultSettle = 2 * time.Second

// Keyboard injects keys into the operating system. Codes are the platform's
// own key codes: Linux input-event codes (the evdev map), Windows virtual
// keys, or macOS key codes.
type Keyboard struct {
	mu sync.Mutex
	kb keybd_event.KeyBonding
}

// NewKeyboard creates the virtual keyboard and waits settle before returning.
func NewKeyboard(settle time.Duration) (*Keyboard, error) {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return nil, fmt.Errorf("failed to create virtual keyboard: %w", err)
	}
	if settle > 0 {
		time.Sleep(settle)
	}
	return &Keyboard{kb: kb}, nil
}

// Press pushes code down.
func (k *Keyboard) Press(code int) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.kb.SetKeys(code)
	if err := k.kb.Press(); err != nil {
		return fmt.Errorf("keyboard press %d: %w", code, err)
	}
	return nil
}

// Release lets code go.
func (k *Keyboard) Release(code int) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.kb.SetKeys(code)
	if err := k.kb.Release(); err != nil {
		return fmt.Errorf("keyboard release %d: %w", code, err)
	}
	return nil
}
