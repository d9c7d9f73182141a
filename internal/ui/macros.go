package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/pleimann/keynote/internal/config"
)

// macroSelectModel wraps huh form in Bubble Tea for proper escape handling
type macroSelectModel struct {
	form    *huh.Form
	aborted bool
}

func (m macroSelectModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m macroSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.aborted = true
			return m, tea.Quit
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, tea.Quit
	}

	return m, cmd
}

func (m macroSelectModel) View() string {
	if m.form.State == huh.StateCompleted {
		return ""
	}
	return m.form.View()
}

// SelectMacro asks the user to pick one of macros. It returns nil when the
// user cancels.
func SelectMacro(macros []config.Macro) (*config.Macro, error) {
	if len(macros) == 0 {
		return nil, fmt.Errorf("no macros to select from")
	}

	options := make([]huh.Option[int], len(macros))
	for i, m := range macros {
		options[i] = huh.NewOption(macroLabel(m), i)
	}

	var selectedIndex int

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Select Macro").
				Description("Choose the macro to play (esc to cancel)").
				Options(options...).
				Value(&selectedIndex),
		),
	).WithTheme(customTheme()).WithShowHelp(false)

	p := tea.NewProgram(macroSelectModel{form: form})
	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	if finalModel.(macroSelectModel).aborted {
		return nil, nil
	}

	return &macros[selectedIndex], nil
}

func macroLabel(m config.Macro) string {
	label := MacroNameStyle.Render(m.Name) + "  " + Code(m.Keys)
	if m.Literal {
		label += " " + Muted("(literal)")
	}
	if m.Description != "" {
		label += "  " + Muted(m.Description)
	}
	return label
}

// PrintMacroList displays the configured macros
func PrintMacroList(macros []config.Macro) {
	if len(macros) == 0 {
		fmt.Println(Warning("No macros configured"))
		return
	}

	fmt.Println()
	fmt.Println(Title("Macros"))
	fmt.Println(Muted(fmt.Sprintf("Found %d macro(s)", len(macros))))
	fmt.Println()

	for _, m := range macros {
		fmt.Printf("  %s\n", macroLabel(m))
	}
	fmt.Println()
}

// PrintMacroAdded shows a success message after adding a macro
func PrintMacroAdded(configPath string, m config.Macro) {
	fmt.Println()
	fmt.Println(Success("Macro added"))
	fmt.Println()
	fmt.Printf("  %s %s\n", Muted("Config:"), configPath)
	fmt.Printf("  %s %s\n", Muted("Macro: "), macroLabel(m))
	fmt.Println()
}

// PrintConfigCreated shows a success message after writing a starter config
func PrintConfigCreated(configPath string) {
	fmt.Println()
	fmt.Println(Success("Configuration created"))
	fmt.Println()
	fmt.Printf("  %s %s\n", Muted("Config:"), configPath)
	fmt.Println()
}

// customTheme returns a custom huh theme matching our style palette
func customTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = t.Focused.Title.Foreground(ColorPrimary).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(ColorMuted)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(ColorPrimary)
	t.Focused.UnselectedOption = t.Focused.UnselectedOption.Foreground(ColorText)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(ColorPrimary)

	return t
}
