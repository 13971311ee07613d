package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

const (
	modalMinWidth = 30
	modalMaxWidth = 72
)

func modalBoxWidth(width int) int {
	if width <= 0 {
		width = 80
	}
	w := width - 4
	if w > modalMaxWidth {
		w = modalMaxWidth
	}
	if w < modalMinWidth {
		w = modalMinWidth
	}
	return w
}

// modalBodyWidth is the usable content width inside a modal box.
func modalBodyWidth(width int) int {
	return modalBoxWidth(width) - 4
}

// renderModalBox draws a titled, padded box. No border: nested borders on a
// colored background leave artifacts in some terminals.
func renderModalBox(width int, title string, content string) string {
	boxW := modalBoxWidth(width)
	bodyW := boxW - 4

	header := lipgloss.NewStyle().
		Width(boxW).
		Padding(0, 2).
		Bold(true).
		Foreground(colorAccentFg).
		Background(colorAccent).
		Render(fitLine(title, bodyW))

	lines := strings.Split(content, "\n")
	for i, ln := range lines {
		lines[i] = fitLine(ln, bodyW)
	}
	body := lipgloss.NewStyle().
		Width(boxW).
		Padding(1, 2).
		Foreground(colorSurfaceFg).
		Background(colorSurfaceBg).
		Render(strings.Join(lines, "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

// fitLine pads or cuts s to exactly width columns, ANSI-aware.
func fitLine(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := xansi.StringWidth(s)
	if w > width {
		if width == 1 {
			return xansi.Cut(s, 0, 1)
		}
		// Terminate styling so the cut does not bleed.
		return xansi.Cut(s, 0, width-1) + "…\x1b[0m"
	}
	return s + strings.Repeat(" ", width-w)
}

// renderChoiceRow renders buttons with the focused one highlighted.
func renderChoiceRow(labels []string, focus int) string {
	base := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorControlBg)
	active := base.
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(true)

	sep := lipgloss.NewStyle().Background(colorControlBg).Render(" ")
	parts := make([]string, 0, 2*len(labels))
	for i, l := range labels {
		if i > 0 {
			parts = append(parts, sep)
		}
		if i == focus {
			parts = append(parts, active.Render(l))
		} else {
			parts = append(parts, base.Render(l))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// placeCentered centers a modal in the terminal.
func placeCentered(width, height int, s string) string {
	if width <= 0 || height <= 0 {
		return s
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, s,
		lipgloss.WithWhitespaceChars(" "))
}
