// Package tui holds the shared styling for interactive prompts and listings.
package tui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/Lernify-co/moodle-parser-LNU/pkg/config"
)

const defaultAccent = "33"

// Accent returns a lipgloss style carrying the user's configured accent color.
func Accent() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(accentColor()))
}

// Faint is used for secondary listing text (URLs, counts).
func Faint() lipgloss.Style {
	return lipgloss.NewStyle().Faint(true)
}

// Theme builds the huh form theme with the configured accent color applied to
// titles, selectors and buttons.
func Theme() *huh.Theme {
	accent := lipgloss.Color(accentColor())

	t := huh.ThemeCharm()
	t.Focused.Title = t.Focused.Title.Foreground(accent).Bold(true)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(accent)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(accent)
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(accent)
	t.Focused.TextInput.Prompt = t.Focused.TextInput.Prompt.Foreground(accent)
	t.Focused.FocusedButton = t.Focused.FocusedButton.Background(accent)
	return t
}

func accentColor() string {
	cfg, err := config.Load()
	if err != nil || cfg.AccentColor == "" {
		return defaultAccent
	}
	return cfg.AccentColor
}
