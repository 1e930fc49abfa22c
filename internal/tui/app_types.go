package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// formResetDelay lets the close animation finish before the form fields are
// cleared. It is cosmetic.
const formResetDelay = 300 * time.Millisecond

const flashDuration = 2 * time.Second

type modalKind int

const (
	modalNone modalKind = iota
	modalForm
	modalConfirmDelete
)

// formResetMsg clears the form after it closed. seq guards against clearing a
// form that was reopened in the meantime.
type formResetMsg struct{ seq int }

type flashDoneMsg struct{ seq int }

// storageChangedMsg means the storage file was written, possibly by another process.
type storageChangedMsg struct{}

type watchErrMsg struct{ err error }

func tickFormReset(seq int) tea.Cmd {
	return tea.Tick(formResetDelay, func(time.Time) tea.Msg { return formResetMsg{seq: seq} })
}

func tickFlash(seq int) tea.Cmd {
	return tea.Tick(flashDuration, func(time.Time) tea.Msg { return flashDoneMsg{seq: seq} })
}
