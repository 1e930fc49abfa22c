package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// taskDelegate renders one task per line: drag handle, checkbox, title and a
// twisty when the task has a description.
type taskDelegate struct{}

func newTaskDelegate() taskDelegate { return taskDelegate{} }

func (d taskDelegate) Height() int                             { return 1 }
func (d taskDelegate) Spacing() int                            { return 0 }
func (d taskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d taskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	it, ok := item.(taskItem)
	if !ok || contentW < 4 {
		fmt.Fprint(w, "")
		return
	}
	fmt.Fprint(w, renderTaskRow(it, contentW, index == m.Index()))
}

func renderTaskRow(it taskItem, width int, selected bool) string {
	t := it.row.Task

	base := lipgloss.NewStyle().Foreground(colorSurfaceFg)
	if selected {
		base = base.Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
	}
	handle := styleMuted().Render(glyphDragHandle())
	if selected {
		handle = base.Foreground(colorAccent).Render(glyphDragHandle())
	}

	titleStyle := base
	if t.Completed {
		titleStyle = titleStyle.Strikethrough(true).Foreground(colorCompletedFg)
	}

	twisty := ""
	if strings.TrimSpace(t.Description) != "" {
		if it.expanded {
			twisty = glyphTwistyExpanded()
		} else {
			twisty = glyphTwistyCollapsed()
		}
	}

	line := handle + base.Render(" "+glyphCheckbox(t.Completed)+" ") + titleStyle.Render(singleLine(t.Title))
	if twisty != "" {
		line += base.Render(" ") + styleMuted().Render(twisty)
	}

	lineW := xansi.StringWidth(line)
	switch {
	case lineW > width:
		line = xansi.Cut(line, 0, width-1) + "…"
	case lineW < width:
		line += base.Render(strings.Repeat(" ", width-lineW))
	}
	return line
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
