package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// renderInputLine draws a text input as one padded line of exactly bodyW
// columns. Focused inputs get an accent marker in the left gutter.
func renderInputLine(bodyW int, inputView string, focused bool) string {
	if bodyW < 10 {
		bodyW = 10
	}

	// A newline in the view would wrap inside the modal and look like text
	// being inserted while typing.
	inputView = strings.ReplaceAll(inputView, "\n", " ")
	inputView = strings.ReplaceAll(inputView, "\r", " ")

	gutter := " "
	if focused {
		gutter = lipgloss.NewStyle().Foreground(colorAccent).Background(colorInputBg).Render("▌")
	}

	line := lipgloss.PlaceHorizontal(
		bodyW,
		lipgloss.Left,
		gutter+inputView+" ",
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(colorInputBg),
	)
	if xansi.StringWidth(line) > bodyW {
		// Terminate ANSI styling so the cut doesn't bleed into the modal border.
		line = xansi.Cut(line, 0, bodyW) + "\x1b[0m"
	}
	return line
}
