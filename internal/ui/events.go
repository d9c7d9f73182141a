package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/pleimann/keynote/internal/keymap"
	"github.com/pleimann/keynote/internal/notation"
)

// FormatKey renders one key event, e.g. "press 16".
func FormatKey(ev notation.KeyEvent) string {
	code := strconv.Itoa(ev.Code)
	switch ev.Phase {
	case notation.Press:
		return PressStyle.Render("press") + " " + code
	case notation.Release:
		return ReleaseStyle.Render("release") + " " + code
	default:
		return TypeStyle.Render("type") + " " + code
	}
}

// FormatEvent renders a key event or a paste with its key sequence.
func FormatEvent(ev notation.Event) string {
	switch ev := ev.(type) {
	case notation.KeyEvent:
		return FormatKey(ev)
	case notation.ClipboardPasteEvent:
		keys := make([]string, len(ev.Paste))
		for i, k := range ev.Paste {
			keys[i] = FormatKey(k)
		}
		return fmt.Sprintf("%s %q  %s", PasteStyle.Render("paste"), ev.Text, Muted("["+strings.Join(keys, ", ")+"]"))
	default:
		return Muted(fmt.Sprint(ev))
	}
}

// RenderEvents lays events out one per line, numbered from 1.
func RenderEvents(events []notation.Event) string {
	if len(events) == 0 {
		return Muted("(no events)")
	}
	width := len(strconv.Itoa(len(events)))
	var sb strings.Builder
	for i, ev := range events {
		fmt.Fprintf(&sb, "%s  %s\n", Muted(fmt.Sprintf("%*d", width, i+1)), FormatEvent(ev))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// PrintEvents displays a compiled notation string and its events
func PrintEvents(source string, events []notation.Event) {
	fmt.Println()
	fmt.Printf("%s %s\n", Title("Notation"), Code(source))
	fmt.Println(Muted(fmt.Sprintf("%d event(s)", len(events))))
	fmt.Println()
	fmt.Println(RenderEvents(events))
	fmt.Println()
}

// PrintNotation displays notation recovered from recorded events
func PrintNotation(notationText string, keyCount int) {
	fmt.Println()
	fmt.Println(Title("Recovered notation"))
	fmt.Println(Muted(fmt.Sprintf("from %d key event(s)", keyCount)))
	fmt.Println()
	fmt.Printf("  %s\n", Code(notationText))
	fmt.Println()
}

// RenderTokens renders the grammar tokens of a keymap as a table.
func RenderTokens(tokens keymap.Tokens) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorMuted)).
		Headers("TOKEN", "CHAR", "CODE").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return BoldStyle.Padding(0, 1)
			}
			if col == 1 {
				return PressStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	tokens.Each(func(name string, tok keymap.Token) {
		t.Row(name, string(tok.Char), strconv.Itoa(tok.Code))
	})

	return t.String()
}

// PrintKeymap displays a summary of a loaded keycode map
func PrintKeymap(ref string, km *keymap.Keymap) {
	version := km.Version()
	if version == "" {
		version = "unversioned"
	}

	fmt.Println()
	fmt.Printf("%s %s\n", Title("Keymap"), Muted(ref+" ("+version+")"))
	fmt.Println()
	fmt.Println(RenderTokens(km.Tokens()))
	fmt.Println()
	fmt.Printf("  %s %d\n", Muted("Standard characters:"), km.StandardLen())
	fmt.Printf("  %s %d\n", Muted("Special keys:       "), km.SpecialLen())
	fmt.Println()
}
