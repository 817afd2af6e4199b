package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/shouni/gemini-image-gallery/pkg/domain"
	"github.com/shouni/gemini-image-gallery/pkg/gallery"
)

const timeWidth = 8

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := titleStyle.Render("Gemini Image Gallery")
	count := dimStyle.Render(fmt.Sprintf("  %d images", m.lifecycle.Store().Len()))
	b.WriteString(title + count + "\n")

	b.WriteString(m.renderPrompt() + "\n")

	if g := m.renderGallery(); g != "" {
		b.WriteString(g + "\n")
	}

	for _, n := range m.toasts {
		b.WriteString(toastStyle(n.Kind).Render(n.Message) + "\n")
	}

	b.WriteString(m.renderHelp())
	return b.String()
}

func (m Model) renderPrompt() string {
	box := promptBoxStyle
	if m.focus == focusPrompt {
		box = focusedBoxStyle
	}

	var status string
	switch {
	case m.lifecycle.Busy():
		status = m.spinner.View() + " Generating..."
	case m.lifecycle.Input().Valid():
		status = hintStyle.Render("[ Generate ]")
	default:
		// 空白のみのあいだは送信ボタンを淡色にする
		status = dimStyle.Render("[ Generate ]")
	}

	return box.Render(m.input.View() + "\n" + status)
}

func (m Model) renderGallery() string {
	records := m.lifecycle.Store().All()

	switch gallery.LayoutFor(len(records), m.lifecycle.Busy()) {
	case gallery.LayoutEmpty:
		return placeholderStyle.Render(gallery.EmptyStateMessage)
	case gallery.LayoutBusy:
		return ""
	}

	visible := m.visibleRows()
	end := min(m.offset+visible, len(records))

	rows := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		selected := i == m.cursor && m.focus == focusGallery
		rows = append(rows, m.renderRow(records[i], selected))
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderRow(rec domain.GeneratedImage, selected bool) string {
	ts := time.UnixMilli(rec.Timestamp).Format("15:04:05")

	captionWidth := max(16, (m.width-timeWidth-6)/2)
	caption := pad(truncate(rec.Prompt, captionWidth), captionWidth)

	if selected {
		row := selectedStyle.Render("> " + ts + "  " + caption + "  " + rec.URL)
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Left, row)
	}
	return "  " + dimStyle.Render(ts) + "  " + caption + "  " + dimStyle.Render(rec.URL)
}

func (m Model) renderHelp() string {
	if m.focus == focusGallery {
		return helpStyle.Render("  ↑/↓: select  enter/d: download  tab: prompt  q: quit")
	}
	return helpStyle.Render("  enter: generate  tab: gallery  ctrl+c: quit")
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 2 {
		return string(runes[:width])
	}
	return string(runes[:width-2]) + ".."
}

func pad(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return string(runes[:width])
	}
	return s + strings.Repeat(" ", width-len(runes))
}
