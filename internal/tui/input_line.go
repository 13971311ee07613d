package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// renderInputLine renders the text field as exactly one line of width w.
func renderInputLine(w int, inputView string, focused bool) string {
	if w < 10 {
		w = 10
	}
	// A newline in the view would wrap and look like inserted text.
	inputView = strings.NewReplacer("\n", " ", "\r", " ").Replace(inputView)

	bg := colorInputBg
	if !focused {
		bg = colorControlBg
	}
	line := lipgloss.PlaceHorizontal(
		w,
		lipgloss.Left,
		" "+inputView+" ",
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(bg),
	)
	if xansi.StringWidth(line) > w {
		line = xansi.Cut(line, 0, w) + "\x1b[0m"
	}
	return line
}
