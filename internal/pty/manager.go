package pty

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/creack/pty"
)

const stopTimeout = 2 * time.Second

// ErrNotStarted is returned when writing to a Manager whose command is not
// running.
var ErrNotStarted = errors.New("PTY not started")

// Manager runs a command in a PTY and is the byte sink of the terminal
// backend.
type Manager struct {
	command    string
	args       []string
	workingDir string

	mu   sync.Mutex
	ptmx *os.File
	cmd  *exec.Cmd
	done chan struct{}

	outputMu     sync.RWMutex
	outputBuffer *RingBuffer
	echo         io.Writer
}

// RingBuffer keeps the most recent bytes written to it.
type RingBuffer struct {
	data  []byte
	size  int
	write int
}

// NewRingBuffer creates a new ring buffer with the given size
func NewRingBuffer(size int) *RingBuffer {
	return &RingBuffer{
		data: make([]byte, size),
		size: size,
	}
}

// Write writes data to the ring buffer
func (rb *RingBuffer) Write(p []byte) {
	for _, b := range p {
		rb.data[rb.write] = b
		rb.write = (rb.write + 1) % rb.size
	}
}

// String returns the buffer contents, oldest first.
func (rb *RingBuffer) String() string {
	result := make([]byte, rb.size)
	for i := 0; i < rb.size; i++ {
		result[i] = rb.data[(rb.write+i)%rb.size]
	}
	// unwritten slots are zero
	start := 0
	for start < len(result) && result[start] == 0 {
		start++
	}
	return string(result[start:])
}

// NewManager creates a PTY manager for command.
func NewManager(command string, args []string, workingDir string) (*Manager, error) {
	if command == "" {
		return nil, fmt.Errorf("command is required")
	}

	return &Manager{
		command:      command,
		args:         args,
		workingDir:   workingDir,
		outputBuffer: NewRingBuffer(4096),
	}, nil
}

// SetEcho copies everything the command prints to w as well. Call it before
// Start.
func (m *Manager) SetEcho(w io.Writer) {
	m.outputMu.Lock()
	m.echo = w
	m.outputMu.Unlock()
}

// Start starts the command in a PTY.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ptmx != nil {
		return fmt.Errorf("PTY already started")
	}

	cmd := exec.CommandContext(ctx, m.command, m.args...)
	if m.workingDir != "" {
		cmd.Dir = m.workingDir
	}
	cmd.Env = os.Environ()

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return fmt.Errorf("failed to start PTY: %w", err)
	}

	m.ptmx = ptmx
	m.cmd = cmd
	m.done = make(chan struct{})

	go m.readOutput(ctx, ptmx)

	go func(done chan struct{}) {
		cmd.Wait()
		close(done)
	}(m.done)

	return nil
}

// Done is closed when the command exits. It is nil before Start.
func (m *Manager) Done() <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.done
}

// Stop interrupts the command, closes the PTY and waits for the command to
// exit. A command still running after stopTimeout is killed.
func (m *Manager) Stop() {
	m.mu.Lock()
	done := m.done
	proc := (*os.Process)(nil)
	if m.cmd != nil {
		proc = m.cmd.Process
	}
	if proc != nil {
		proc.Signal(os.Interrupt)
	}
	if m.ptmx != nil {
		m.ptmx.Close()
		m.ptmx = nil
	}
	m.mu.Unlock()

	if done == nil {
		return
	}
	select {
	case <-done:
	case <-time.After(stopTimeout):
		if proc != nil {
			proc.Kill()
		}
		<-done
	}
}

func (m *Manager) readOutput(ctx context.Context, ptmx *os.File) {
	buf := make([]byte, 1024)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		n, err := ptmx.Read(buf)
		if n > 0 {
			m.outputMu.Lock()
			m.outputBuffer.Write(buf[:n])
			if m.echo != nil {
				m.echo.Write(buf[:n])
			}
			m.outputMu.Unlock()
		}
		if err != nil {
			// EOF, or EIO once the command has exited
			return
		}
	}
}

// Write sends raw bytes to the command's terminal.
func (m *Manager) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ptmx == nil {
		return 0, ErrNotStarted
	}
	return m.ptmx.Write(p)
}

// RecentOutput returns the last few kilobytes the command printed.
func (m *Manager) RecentOutput() string {
	m.outputMu.RLock()
	defer m.outputMu.RUnlock()
	return m.outputBuffer.String()
}

// Resize resizes the PTY window
func (m *Manager) Resize(rows, cols uint16) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ptmx == nil {
		return ErrNotStarted
	}

	return pty.Setsize(m.ptmx, &pty.Winsize{
		Rows: rows,
		Cols: cols,
	})
}

// IsRunning reports whether the command has been started and not exited.
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	done := m.done
	m.mu.Unlock()

	if done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}
