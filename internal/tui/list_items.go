package tui

import (
	"github.com/charmbracelet/bubbles/list"

	"tasklist/internal/listview"
)

type taskItem struct {
	row      listview.Row
	expanded bool
}

func (i taskItem) FilterValue() string { return i.row.Task.Title }

func newList(items []list.Item) list.Model {
	l := list.New(items, newTaskDelegate(), 0, 0)
	l.Title = "Tasks"
	// The app renders its own header, controls and help, so list chrome stays off.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetShowFilter(false)
	// Filtering is the All/Pending/Completed selector, not fuzzy search.
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("task", "tasks")
	l.DisableQuitKeybindings()
	// Add Emacs-style navigation aliases (common muscle memory).
	l.KeyMap.CursorUp.SetKeys(append(l.KeyMap.CursorUp.Keys(), "ctrl+p")...)
	l.KeyMap.CursorDown.SetKeys(append(l.KeyMap.CursorDown.Keys(), "ctrl+n")...)
	return l
}

func selectedTaskItem(l list.Model) (taskItem, bool) {
	it, ok := l.SelectedItem().(taskItem)
	return it, ok
}

func selectListItemByID(l *list.Model, id string) bool {
	for i, it := range l.Items() {
		if ti, ok := it.(taskItem); ok && ti.row.Task.ID == id {
			l.Select(i)
			return true
		}
	}
	return false
}
