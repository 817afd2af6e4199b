package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/shouni/gemini-image-gallery/pkg/notify"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(0, 1)

	promptBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	focusedBoxStyle = promptBoxStyle.
			BorderForeground(lipgloss.Color("205"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))

	spinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))

	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("25")).
			Foreground(lipgloss.Color("255"))

	placeholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Italic(true).
				Padding(1, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))

	toastBase = lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true)

	toastStyles = map[notify.Kind]lipgloss.Style{
		notify.KindSuccess: toastBase.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("42")),
		notify.KindError:   toastBase.Foreground(lipgloss.Color("255")).Background(lipgloss.Color("160")),
		notify.KindInfo:    toastBase.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("39")),
	}
)

func toastStyle(kind notify.Kind) lipgloss.Style {
	if s, ok := toastStyles[kind]; ok {
		return s
	}
	return toastBase
}
