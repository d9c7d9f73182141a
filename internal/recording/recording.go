// Package recording stores event lists as YAML files so a run can be
// replayed or turned back into notation later.
package recording

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pleimann/keynote/internal/keymap"
	"github.com/pleimann/keynote/internal/notation"
)

const currentVersion = 1

// ErrUnsupportedVersion is returned for files written by a newer version.
var ErrUnsupportedVersion = errors.New("unsupported recording version")

// Recording is a saved event list with the notation it came from, if known.
type Recording struct {
	Notation string
	SavedAt  time.Time
	Events   []notation.Event
}

type persistedRecording struct {
	Version  int              `yaml:"version"`
	SavedAt  time.Time        `yaml:"saved_at"`
	Notation string           `yaml:"notation,omitempty"`
	Events   []persistedEvent `yaml:"events"`
}

// persistedEvent is either a key event (phase, code) or a paste (paste, keys).
type persistedEvent struct {
	Phase string         `yaml:"phase,omitempty"`
	Code  int            `yaml:"code,omitempty"`
	Paste *string        `yaml:"paste,omitempty"`
	Keys  []persistedKey `yaml:"keys,omitempty"`
}

type persistedKey struct {
	Phase string `yaml:"phase"`
	Code  int    `yaml:"code"`
}

func toPersisted(ev notation.Event) (persistedEvent, error) {
	switch ev := ev.(type) {
	case notation.KeyEvent:
		return persistedEvent{Phase: ev.Phase.String(), Code: ev.Code}, nil
	case notation.ClipboardPasteEvent:
		text := ev.Text
		keys := make([]persistedKey, len(ev.Paste))
		for i, k := range ev.Paste {
			keys[i] = persistedKey{Phase: k.Phase.String(), Code: k.Code}
		}
		return persistedEvent{Paste: &text, Keys: keys}, nil
	default:
		return persistedEvent{}, fmt.Errorf("cannot store event of type %T", ev)
	}
}

func fromPersisted(p persistedEvent) (notation.Event, error) {
	if p.Paste != nil {
		keys := make([]notation.KeyEvent, len(p.Keys))
		for i, k := range p.Keys {
			phase, err := notation.ParsePhase(k.Phase)
			if err != nil {
				return nil, err
			}
			keys[i] = notation.KeyEvent{Phase: phase, Code: k.Code}
		}
		return notation.ClipboardPasteEvent{Text: *p.Paste, Paste: keys}, nil
	}
	if p.Phase == "" {
		return nil, fmt.Errorf("event has neither phase nor paste")
	}
	phase, err := notation.ParsePhase(p.Phase)
	if err != nil {
		return nil, err
	}
	return notation.KeyEvent{Phase: phase, Code: p.Code}, nil
}

// Encode writes rec as YAML. A zero SavedAt is set to the current time.
func Encode(w io.Writer, rec Recording) error {
	if rec.SavedAt.IsZero() {
		rec.SavedAt = time.Now()
	}
	data := persistedRecording{
		Version:  currentVersion,
		SavedAt:  rec.SavedAt,
		Notation: rec.Notation,
		Events:   make([]persistedEvent, 0, len(rec.Events)),
	}
	for _, ev := range rec.Events {
		p, err := toPersisted(ev)
		if err != nil {
			return err
		}
		data.Events = append(data.Events, p)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to marshal recording: %w", err)
	}
	return enc.Close()
}

// Decode reads a recording written by Encode.
func Decode(r io.Reader) (Recording, error) {
	var data persistedRecording
	if err := yaml.NewDecoder(r).Decode(&data); err != nil {
		return Recording{}, fmt.Errorf("failed to parse recording: %w", err)
	}

	if data.Version < 1 || data.Version > currentVersion {
		return Recording{}, fmt.Errorf("%w: %d (max supported: %d)",
			ErrUnsupportedVersion, data.Version, currentVersion)
	}

	rec := Recording{
		Notation: data.Notation,
		SavedAt:  data.SavedAt,
		Events:   make([]notation.Event, 0, len(data.Events)),
	}
	for i, p := range data.Events {
		ev, err := fromPersisted(p)
		if err != nil {
			return Recording{}, fmt.Errorf("event %d: %w", i, err)
		}
		rec.Events = append(rec.Events, ev)
	}
	return rec, nil
}

// Save writes rec to path atomically using a temporary file and rename.
func Save(path string, rec Recording) error {
	var buf bytes.Buffer
	if err := Encode(&buf, rec); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Load reads a recording file.
func Load(path string) (Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return Recording{}, fmt.Errorf("failed to open recording: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Compact turns each adjacent press and release of the same key into a
// single Type event, the shape Parse produces. Modifier keys stay as
// separate press and release events.
func Compact(keys []notation.KeyEvent, tokens keymap.Tokens) []notation.Event {
	out := make([]notation.Event, 0, len(keys))
	for i := 0; i < len(keys); i++ {
		k := keys[i]
		if k.Phase == notation.Press && !tokens.IsModifier(k.Code) && i+1 < len(keys) {
			next := keys[i+1]
			if next.Phase == notation.Release && next.Code == k.Code {
				out = append(out, notation.KeyEvent{Phase: notation.Type, Code: k.Code})
				i++
				continue
			}
		}
		out = append(out, k)
	}
	return out
}
