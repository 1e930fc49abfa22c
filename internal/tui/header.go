package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"tasklist/internal/listview"
	"tasklist/internal/model"
)

const appTitle = "ToDo App"

// renderHeader draws the title bar: app name on the left, counts plus the
// add and theme actions on the right.
func renderHeader(w int, sum listview.Summary, mode model.ThemeMode) string {
	bar := lipgloss.NewStyle().Background(colorAccent).Foreground(colorAccentFg)
	title := bar.Bold(true).Padding(0, 1).Render(appTitle)

	counts := fmt.Sprintf("%d tasks · %d pending · %d done", sum.Total, sum.Pending, sum.Completed)
	dark := mode == model.ThemeDark
	themeLabel := "Dark"
	if !dark {
		themeLabel = "Light"
	}
	right := bar.Padding(0, 1).Render(fmt.Sprintf("%s   a: Add Task   t: %s %s", counts, glyphThemeIcon(dark), themeLabel))

	gap := w - xansi.StringWidth(title) - xansi.StringWidth(right)
	if gap < 1 {
		return fitLine(title+right, w)
	}
	return title + bar.Render(strings.Repeat(" ", gap)) + right
}

// renderControls draws the filter selector and the current sort.
func renderControls(w int, filter model.Filter, sort model.SortMode) string {
	active := lipgloss.NewStyle().Padding(0, 1).Bold(true).
		Foreground(colorAccentFg).Background(colorAccent)
	inactive := lipgloss.NewStyle().Padding(0, 1).
		Foreground(colorSurfaceFg).Background(colorControlBg)

	parts := []string{styleMuted().Render("Filter ")}
	for _, f := range model.Filters() {
		if f == filter {
			parts = append(parts, active.Render(f.Label()))
		} else {
			parts = append(parts, inactive.Render(f.Label()))
		}
	}
	parts = append(parts,
		styleMuted().Render("   Sort By "),
		inactive.Render(sort.Label()),
	)
	return fitLine(strings.Join(parts, ""), w)
}
