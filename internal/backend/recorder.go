package backend

import (
	"sync"

	"github.com/pleimann/keynote/internal/notation"
	"github.com/pleimann/keynote/internal/player"
)

// Recorder captures every press and release as a key event and optionally
// forwards it to another backend.
type Recorder struct {
	next player.Backend

	mu     sync.Mutex
	events []notation.KeyEvent
}

// NewRecorder returns a Recorder forwarding to next, which may be nil.
func NewRecorder(next player.Backend) *Recorder {
	return &Recorder{next: next}
}

// Press implements player.Backend.
func (r *Recorder) Press(code int) error {
	return r.record(notation.Press, code)
}

// Release implements player.Backend.
func (r *Recorder) Release(code int) error {
	return r.record(notation.Release, code)
}

func (r *Recorder) record(phase notation.Phase, code int) error {
	if r.next != nil {
		var err error
		if phase == notation.Press {
			err = r.next.Press(code)
		} else {
			err = r.next.Release(code)
		}
		if err != nil {
			return err
		}
	}

	r.mu.Lock()
	r.events = append(r.events, notation.KeyEvent{Phase: phase, Code: code})
	r.mu.Unlock()
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []notation.KeyEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notation.KeyEvent(nil), r.events...)
}

// Reset discards the recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
