package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pleimann/keynote/internal/notation"
)

// fakeBackend logs calls as "press N" / "release N" and can fail on a call.
type fakeBackend struct {
	calls  []string
	failOn string
}

func (f *fakeBackend) record(call string) error {
	if call == f.failOn {
		return errors.New("injected failure")
	}
	f.calls = append(f.calls, call)
	return nil
}

func (f *fakeBackend) Press(code int) error   { return f.record(fmt.Sprintf("press %d", code)) }
func (f *fakeBackend) Release(code int) error { return f.record(fmt.Sprintf("release %d", code)) }

type fakeClipboard struct {
	backend *fakeBackend
	err     error
}

func (c *fakeClipboard) Set(text string) error {
	if c.err != nil {
		return c.err
	}
	c.backend.calls = append(c.backend.calls, "clipboard "+text)
	return nil
}

func newFakes() (*fakeBackend, *fakeClipboard) {
	b := &fakeBackend{}
	return b, &fakeClipboard{backend: b}
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fast(b Backend, c Clipboard, opts ...Option) *Player {
	all := append([]Option{WithDelay(0), WithPasteDelay(0), WithLogger(quiet())}, opts...)
	p, err := New(b, c, all...)
	if err != nil {
		panic(err)
	}
	return p
}

func TestNew(t *testing.T) {
	_, err := New(nil, nil)
	require.ErrorIs(t, err, ErrNoBackend)

	b, _ := newFakes()
	p, err := New(b, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultDelay, p.Delay())
	assert.Equal(t, MinPasteDelay, p.PasteDelay())

	p, err = New(b, nil, WithDelay(200*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, 200*time.Millisecond, p.PasteDelay())

	p, err = New(b, nil, WithPasteDelay(10*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, 10*time.Millisecond, p.PasteDelay())
}

func TestPlay(t *testing.T) {
	b, c := newFakes()
	p := fast(b, c)

	events := []notation.Event{
		notation.KeyEvent{Phase: notation.Press, Code: 16},
		notation.KeyEvent{Phase: notation.Type, Code: 65},
		notation.KeyEvent{Phase: notation.Release, Code: 16},
		notation.ClipboardPasteEvent{
			Text: "é",
			Paste: []notation.KeyEvent{
				{Phase: notation.Press, Code: 17},
				{Phase: notation.Type, Code: 86},
				{Phase: notation.Release, Code: 17},
			},
		},
	}

	require.NoError(t, p.Play(context.Background(), events))
	assert.Equal(t, []string{
		"press 16", "press 65", "release 65", "release 16",
		"clipboard é",
		"press 17", "press 86", "release 86", "release 17",
	}, b.calls)
}

func TestPlay_History(t *testing.T) {
	b, c := newFakes()
	var h History
	p := fast(b, c, WithHistory(&h))

	paste := notation.ClipboardPasteEvent{
		Text: "é",
		Paste: []notation.KeyEvent{
			{Phase: notation.Press, Code: 17},
			{Phase: notation.Type, Code: 86},
			{Phase: notation.Release, Code: 17},
		},
	}
	events := []notation.Event{notation.KeyEvent{Phase: notation.Type, Code: 65}, paste}

	require.NoError(t, p.Play(context.Background(), events))
	assert.Equal(t, events, h.Events(), "paste text is kept")

	b.failOn = "press 66"
	require.Error(t, p.Play(context.Background(), []notation.Event{
		notation.KeyEvent{Phase: notation.Type, Code: 66},
	}))
	assert.Len(t, h.Events(), 2, "failed events are not added")

	h.Reset()
	assert.Empty(t, h.Events())
}

func TestPlay_Empty(t *testing.T) {
	b, _ := newFakes()
	require.NoError(t, fast(b, nil).Play(context.Background(), nil))
	assert.Empty(t, b.calls)
}

func TestPlay_PasteWithoutClipboard(t *testing.T) {
	b, _ := newFakes()
	err := fast(b, nil).Play(context.Background(), []notation.Event{
		notation.ClipboardPasteEvent{Text: "x"},
	})
	require.ErrorIs(t, err, ErrNoClipboard)
}

func TestPlay_ClipboardError(t *testing.T) {
	b, c := newFakes()
	c.err = errors.New("no display")
	err := fast(b, c).Play(context.Background(), []notation.Event{
		notation.KeyEvent{Phase: notation.Press, Code: 18},
		notation.ClipboardPasteEvent{Text: "x"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no display")
	// the held Alt is let go
	assert.Equal(t, []string{"press 18", "release 18"}, b.calls)
}

func TestPlay_ReleasesHeldKeysOnError(t *testing.T) {
	b, _ := newFakes()
	b.failOn = "press 65"

	err := fast(b, nil).Play(context.Background(), []notation.Event{
		notation.KeyEvent{Phase: notation.Press, Code: 17},
		notation.KeyEvent{Phase: notation.Press, Code: 16},
		notation.KeyEvent{Phase: notation.Type, Code: 65},
		notation.KeyEvent{Phase: notation.Release, Code: 16},
		notation.KeyEvent{Phase: notation.Release, Code: 17},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to press key 65")
	assert.Equal(t, []string{"press 17", "press 16", "release 16", "release 17"}, b.calls)
}

func TestPlay_Cancelled(t *testing.T) {
	b, _ := newFakes()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := fast(b, nil).Play(ctx, []notation.Event{
		notation.KeyEvent{Phase: notation.Type, Code: 65},
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, b.calls)
}

func TestPlay_CancelledMidway(t *testing.T) {
	b, _ := newFakes()
	p := fast(b, nil, WithDelay(time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := p.Play(ctx, []notation.Event{
		notation.KeyEvent{Phase: notation.Press, Code: 16},
		notation.KeyEvent{Phase: notation.Type, Code: 65},
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, []string{"press 16", "release 16"}, b.calls)
}

func TestPlay_WaitsBetweenEvents(t *testing.T) {
	b, _ := newFakes()
	p := fast(b, nil, WithDelay(5*time.Millisecond))

	start := time.Now()
	require.NoError(t, p.Play(context.Background(), []notation.Event{
		notation.KeyEvent{Phase: notation.Type, Code: 65},
		notation.KeyEvent{Phase: notation.Type, Code: 66},
	}))
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestReactionDuration(t *testing.T) {
	r := DefaultReaction()
	assert.Equal(t, time.Duration(0), r.Duration("anything"))

	r.Enabled = true
	assert.Equal(t, time.Second, r.Duration("short"))

	long := make([]rune, 250)
	for i := range long {
		long[i] = 'é'
	}
	assert.Equal(t, time.Second+200*time.Millisecond, r.Duration(string(long)))

	r.TokenLength = 0
	assert.Equal(t, time.Second, r.Duration(string(long)))
}

func TestWaitReaction(t *testing.T) {
	b, _ := newFakes()
	p := fast(b, nil, WithReaction(Reaction{Enabled: true, Delay: time.Hour}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, p.WaitReaction(ctx, "abc"), context.DeadlineExceeded)

	p = fast(b, nil)
	require.NoError(t, p.WaitReaction(context.Background(), "abc"))
}
