package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pleimann/keynote/internal/action"
	"github.com/pleimann/keynote/internal/notation"
)

const (
	shellHistory   = 4
	shellMaxEvents = 12
)

// ShellConfig wires the interactive shell.
type ShellConfig struct {
	Executor *action.Executor
	Mapper   *action.Mapper
	// Play starts the shell with playing turned on.
	Play bool
	// Output, when set, returns recent output of the target program.
	Output func() string
}

// MacrosReloadedMsg tells the shell the config was reloaded.
type MacrosReloadedMsg struct {
	Count int
}

type playedMsg struct {
	entry int
	err   error
}

type shellEntry struct {
	input    string
	events   []notation.Event
	reversed string
	played   bool
	err      error
}

type shellModel struct {
	ctx      context.Context
	input    textinput.Model
	executor *action.Executor
	mapper   *action.Mapper
	output   func() string

	literal bool
	play    bool
	busy    bool
	status  string
	entries []shellEntry
}

func newShellModel(ctx context.Context, cfg ShellConfig) shellModel {
	ti := textinput.New()
	ti.Placeholder = "notation, or :macro <name>, :macros, :quit"
	ti.Prompt = "› "
	ti.Focus()

	return shellModel{
		ctx:      ctx,
		input:    ti,
		executor: cfg.Executor,
		mapper:   cfg.Mapper,
		output:   cfg.Output,
		play:     cfg.Play,
	}
}

// NewShell returns the interactive notation shell as a Bubble Tea program.
// The program stops when ctx is cancelled.
func NewShell(ctx context.Context, cfg ShellConfig) *tea.Program {
	return tea.NewProgram(newShellModel(ctx, cfg), tea.WithContext(ctx))
}

func (m shellModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m shellModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyCtrlL:
			m.literal = !m.literal
			return m, nil
		case tea.KeyCtrlP:
			m.play = !m.play
			return m, nil
		case tea.KeyEnter:
			return m.submit()
		}

	case playedMsg:
		m.busy = false
		if msg.entry < len(m.entries) {
			m.entries[msg.entry].played = msg.err == nil
			m.entries[msg.entry].err = msg.err
		}
		return m, nil

	case MacrosReloadedMsg:
		m.status = fmt.Sprintf("config reloaded, %d macro(s)", msg.Count)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m shellModel) submit() (tea.Model, tea.Cmd) {
	line := m.input.Value()
	m.input.Reset()
	m.status = ""

	if strings.HasPrefix(line, ":") {
		return m.command(strings.Fields(line[1:]))
	}
	if line == "" {
		return m, nil
	}

	c := m.executor.Compiler()
	var events []notation.Event
	if m.literal {
		events = c.ParseChars(line)
	} else {
		events = c.Parse(line)
	}
	return m.add(line, events)
}

func (m shellModel) command(args []string) (tea.Model, tea.Cmd) {
	if len(args) == 0 {
		return m, nil
	}

	switch args[0] {
	case "q", "quit", "exit":
		return m, tea.Quit
	case "macros":
		names := m.mapper.Names()
		if len(names) == 0 {
			m.status = "no macros configured"
		} else {
			m.status = "macros: " + strings.Join(names, ", ")
		}
		return m, nil
	case "macro", "m":
		if len(args) < 2 {
			m.status = "usage: :macro <name>"
			return m, nil
		}
		macro, ok := m.mapper.Get(args[1])
		if !ok {
			m.status = fmt.Sprintf("unknown macro %q", args[1])
			return m, nil
		}
		return m.add(macro.Keys, m.executor.Compile(macro))
	default:
		m.status = fmt.Sprintf("unknown command :%s", args[0])
		return m, nil
	}
}

// add records a compiled line and starts playing it when playing is on.
func (m shellModel) add(input string, events []notation.Event) (tea.Model, tea.Cmd) {
	c := m.executor.Compiler()
	m.entries = append(m.entries, shellEntry{
		input:    input,
		events:   events,
		reversed: c.Reverse(events),
	})

	if !m.play {
		return m, nil
	}
	if m.busy {
		m.status = "still playing, line not sent"
		return m, nil
	}

	m.busy = true
	idx := len(m.entries) - 1
	ctx, exec := m.ctx, m.executor
	return m, func() tea.Msg {
		return playedMsg{entry: idx, err: exec.Play(ctx, input, events)}
	}
}

func (m shellModel) View() string {
	var b strings.Builder

	b.WriteString(Title("keynote shell"))
	b.WriteString("  ")
	b.WriteString(m.modeLine())
	b.WriteString("\n\n")

	start := max(0, len(m.entries)-shellHistory)
	for _, e := range m.entries[start:] {
		b.WriteString(renderEntry(e))
		b.WriteString("\n")
	}

	if m.output != nil {
		if out := lastLines(m.output(), 5); out != "" {
			b.WriteString(BoxStyle.Render(out))
			b.WriteString("\n")
		}
	}

	if m.status != "" {
		b.WriteString(Muted(m.status))
		b.WriteString("\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(Muted("enter compile · ctrl+p play · ctrl+l literal · esc quit"))
	b.WriteString("\n")
	return b.String()
}

func (m shellModel) modeLine() string {
	mode := "notation"
	if m.literal {
		mode = "literal"
	}
	play := Muted("play off")
	if m.play {
		play = SuccessStyle.Render("play on")
	}
	if m.busy {
		play = WarningStyle.Render("playing…")
	}
	return Muted(mode) + "  " + play
}

func renderEntry(e shellEntry) string {
	var b strings.Builder
	b.WriteString(Code(e.input))
	switch {
	case e.err != nil:
		b.WriteString(" " + Error(e.err.Error()))
	case e.played:
		b.WriteString(" " + Success("played"))
	}
	b.WriteString("\n")

	events := e.events
	more := 0
	if len(events) > shellMaxEvents {
		more = len(events) - shellMaxEvents
		events = events[:shellMaxEvents]
	}
	b.WriteString(RenderEvents(events))
	b.WriteString("\n")
	if more > 0 {
		b.WriteString(Muted(fmt.Sprintf("… %d more", more)))
		b.WriteString("\n")
	}
	b.WriteString(Muted("reverse: ") + e.reversed)
	b.WriteString("\n")
	return b.String()
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
