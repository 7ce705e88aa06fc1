// Package ui renders a live task controller in the terminal.
package ui

import (
	"effectsolutions/internal/effect"

	"github.com/charmbracelet/lipgloss"
)

// Per-state colours.
var (
	IdleColor        = lipgloss.Color("#475569") // slate-600
	RunningColor     = lipgloss.Color("#3b82f6") // blue-500
	CompletedColor   = lipgloss.Color("#15803d") // green-700
	FailedColor      = lipgloss.Color("#ef4444")
	InterruptedColor = lipgloss.Color("#f97316") // orange-500
	DeathColor       = lipgloss.Color("#991b1b")

	MutedColor = lipgloss.Color("#737373")
)

// StateColor returns the colour for a state.
func StateColor(t effect.StateType) lipgloss.Color {
	switch t {
	case effect.StateRunning:
		return RunningColor
	case effect.StateCompleted:
		return CompletedColor
	case effect.StateFailed:
		return FailedColor
	case effect.StateInterrupted:
		return InterruptedColor
	case effect.StateDeath:
		return DeathColor
	default:
		return IdleColor
	}
}

// Styles holds the styles used by Model.
type Styles struct {
	Title        lipgloss.Style
	Description  lipgloss.Style
	Result       lipgloss.Style
	Timer        lipgloss.Style
	Notification lipgloss.Style
	Help         lipgloss.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() Styles {
	return Styles{
		Title:       lipgloss.NewStyle().Bold(true),
		Description: lipgloss.NewStyle().Foreground(MutedColor),
		Result:      lipgloss.NewStyle().Bold(true).PaddingLeft(2),
		Timer:       lipgloss.NewStyle().Foreground(MutedColor),
		Notification: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(RunningColor).
			Padding(0, 1),
		Help: lipgloss.NewStyle().Foreground(MutedColor).MarginTop(1),
	}
}

// Badge renders the state name in the state's colour.
func (s Styles) Badge(t effect.StateType) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#ffffff")).
		Background(StateColor(t)).
		Padding(0, 1).
		Render(t.String())
}
