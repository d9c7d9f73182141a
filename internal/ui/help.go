package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pleimann/keynote/internal/utils"
)

// Command describes a subcommand for the help screens.
type Command struct {
	Name     string
	Args     string
	Summary  string
	Details  []string
	Flags    []Flag
	Examples []Example
}

type Flag struct {
	Name string
	Help string
}

type Example struct {
	Args string
	Desc string
}

var configFlag = Flag{"-config string", "Path to configuration file (default \"keynote.yaml\")"}
var keymapFlag = Flag{"-keymap string", "Built-in keymap name or INI file, overrides the config"}
var backendFlag = Flag{"-backend string", "keyboard, terminal or dry, overrides the config"}

// Commands lists the subcommands in the order help shows them.
var Commands = []Command{
	{
		Name:    "parse",
		Args:    "[options] <notation>",
		Summary: "Compile notation and show the key events",
		Details: []string{
			"Prints the events the notation compiles to without playing them.",
			"With -o the events are saved as a recording.",
		},
		Flags: []Flag{configFlag, keymapFlag,
			{"-literal", "Treat the text as plain characters"},
			{"-o string", "Write the events to a recording file"},
		},
		Examples: []Example{
			{"parse '^a{DEL}'", "Select all, then delete"},
			{"parse -o greet.yaml 'Hi there~'", "Save a recording"},
			{"parse -literal '(50% off)'", "Grammar characters typed as-is"},
		},
	},
	{
		Name:    "reverse",
		Args:    "[options] <recording>",
		Summary: "Recover notation from recorded key events",
		Details: []string{
			"Reads a recording file (or - for stdin) and prints notation that",
			"presses the same keys. Paste events are skipped.",
		},
		Flags: []Flag{configFlag, keymapFlag},
		Examples: []Example{
			{"reverse greet.yaml", "Print notation for a recording"},
		},
	},
	{
		Name:    "run",
		Args:    "[options] <notation>",
		Summary: "Play notation through the configured backend",
		Flags: []Flag{configFlag, keymapFlag, backendFlag,
			{"-literal", "Treat the text as plain characters"},
			{"-record string", "Also save the keys that were played"},
		},
		Examples: []Example{
			{"run '%{F4}'", "Alt+F4"},
			{"run -backend dry -record out.yaml '+(hello)'", "Record without typing"},
		},
	},
	{
		Name:    "play",
		Args:    "[options] [macro]",
		Summary: "Play a configured macro",
		Details: []string{
			"Without a macro name an interactive picker is shown.",
		},
		Flags: []Flag{configFlag, keymapFlag, backendFlag,
			{"-record string", "Also save the keys that were played"},
		},
		Examples: []Example{
			{"play greet", "Play the greet macro"},
			{"play", "Pick a macro interactively"},
		},
	},
	{
		Name:    "replay",
		Args:    "[options] <recording>",
		Summary: "Play the events stored in a recording",
		Flags:   []Flag{configFlag, backendFlag},
		Examples: []Example{
			{"replay greet.yaml", "Type a saved recording"},
		},
	},
	{
		Name:    "shell",
		Args:    "[options]",
		Summary: "Interactive notation shell",
		Details: []string{
			"Type notation to see its events. Ctrl+P toggles playing each line,",
			"Ctrl+L toggles literal mode. Macros reload when the config changes.",
		},
		Flags: []Flag{configFlag, keymapFlag, backendFlag},
	},
	{
		Name:    "macros",
		Args:    "[options]",
		Summary: "List configured macros",
		Flags:   []Flag{configFlag},
	},
	{
		Name:    "macro-add",
		Args:    "[options] <name> <notation>",
		Summary: "Add a macro to the config file",
		Flags: []Flag{configFlag,
			{"-literal", "Store the macro as plain text"},
			{"-desc string", "Description shown in listings"},
		},
		Examples: []Example{
			{"macro-add save '^s'", "Add a save macro"},
		},
	},
	{
		Name:    "keymap",
		Args:    "[options]",
		Summary: "Show the active keycode map",
		Flags: []Flag{configFlag, keymapFlag,
			{"-dump", "Write the map as INI to stdout"},
		},
		Examples: []Example{
			{"keymap -keymap evdev -dump > evdev.ini", "Start a custom map"},
		},
	},
	{
		Name:    "init",
		Args:    "[options]",
		Summary: "Write a starter config file",
		Flags:   []Flag{configFlag},
	},
}

// LookupCommand returns the help entry for name.
func LookupCommand(name string) (Command, bool) {
	for _, c := range Commands {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}

// PrintUsage displays the styled help/usage text
func PrintUsage(version string) {
	exe := utils.ExecutableName()

	banner := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		Render(exe)

	versionTag := lipgloss.NewStyle().
		Foreground(ColorMuted).
		Render("v" + version)

	fmt.Printf("%s %s\n", banner, versionTag)
	fmt.Println(Muted("Compile keystroke notation into key events and play them"))
	fmt.Println()

	printSection("Usage", []string{
		exe + " [flags]                Start the interactive shell",
		exe + " <command> [options]    Run a command",
		"... | " + exe + "             Play notation lines read from stdin",
		exe + " help [command]         Show help",
	})

	printSection("Flags", []string{
		configFlag.Name + "    " + configFlag.Help,
		"-verbose          Enable debug logging",
		"-version          Print version and exit",
	})

	printCommandSection()
	printNotationSection()
}

func printSection(title string, items []string) {
	fmt.Println(Bold(title))
	for _, item := range items {
		fmt.Printf("  %s\n", item)
	}
	fmt.Println()
}

func printCommandSection() {
	fmt.Println(Bold("Commands"))

	cmdStyle := lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)

	maxLen := 0
	for _, c := range Commands {
		maxLen = max(maxLen, len(c.Name))
	}
	for _, c := range Commands {
		padding := strings.Repeat(" ", maxLen-len(c.Name)+2)
		fmt.Printf("  %s%s%s\n", cmdStyle.Render(c.Name), padding, c.Summary)
	}
	fmt.Println()
	fmt.Printf("  Run %s for more information\n", Code(utils.ExecutableName()+" help <command>"))
	fmt.Println()
}

func printNotationSection() {
	printSection("Notation", []string{
		Code("%") + " Alt   " + Code("^") + " Control   " + Code("+") + " Shift   " + Code("~") + " Enter",
		Code("{NAME}") + " special key, " + Code("{NAME 3}") + " repeated, " + Code("{{}") + " and " + Code("{}}") + " for braces",
		Code("(text)") + " a group typed under the held modifiers",
		"Characters without a key are pasted through the clipboard",
	})
}

// PrintCommandUsage displays the styled help text for one subcommand
func PrintCommandUsage(c Command) {
	exe := utils.ExecutableName()

	fmt.Println(Bold("Usage:"), exe+" "+c.Name+" "+c.Args)
	fmt.Println()
	fmt.Println(c.Summary + ".")
	if len(c.Details) > 0 {
		fmt.Println()
		for _, line := range c.Details {
			fmt.Println(Muted(line))
		}
	}
	fmt.Println()

	if len(c.Flags) > 0 {
		fmt.Println(Bold("Options"))
		maxLen := 0
		for _, f := range c.Flags {
			maxLen = max(maxLen, len(f.Name))
		}
		for _, f := range c.Flags {
			padding := strings.Repeat(" ", maxLen-len(f.Name)+4)
			fmt.Printf("  %s%s%s\n", SubtitleStyle.Render(f.Name), padding, f.Help)
		}
		fmt.Println()
	}

	if len(c.Examples) > 0 {
		fmt.Println(Bold("Examples"))
		printExamples(exe, c.Examples)
	}
}

func printExamples(exe string, examples []Example) {
	cmdStyle := lipgloss.NewStyle().
		Foreground(ColorSecondary)

	maxLen := 0
	for _, ex := range examples {
		maxLen = max(maxLen, len(ex.Args))
	}

	for _, ex := range examples {
		padding := strings.Repeat(" ", maxLen-len(ex.Args)+2)
		fmt.Printf("  %s%s%s\n", cmdStyle.Render(exe+" "+ex.Args), padding, Muted(ex.Desc))
	}
	fmt.Println()
}

// PrintVersion displays the styled version information
func PrintVersion(version string) {
	banner := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		Render(utils.ExecutableName())

	versionTag := lipgloss.NewStyle().
		Foreground(ColorSuccess).
		Render("v" + version)

	fmt.Printf("%s %s\n", banner, versionTag)
}

// PrintError displays a styled error message
func PrintError(message string) {
	fmt.Println(Error(message))
}

// PrintFatalError displays a styled fatal error message with context
func PrintFatalError(context, message string) {
	fmt.Println()
	fmt.Println(Error(context))
	fmt.Printf("  %s\n", Muted(message))
	fmt.Println()
}

// PrintSaved reports a file written by a command
func PrintSaved(what, path string) {
	fmt.Printf("%s %s\n", Success(what+" saved"), Muted(path))
}
