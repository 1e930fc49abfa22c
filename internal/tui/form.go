package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tasklist/internal/model"
	"tasklist/internal/tasks"
)

type formFocus int

const (
	formFocusTitle formFocus = iota
	formFocusDescription
	formFocusSubmit
	formFocusCancel
	formFocusCount
)

// taskForm is the create/edit modal. The same form serves both modes;
// editingID is empty when creating.
type taskForm struct {
	open      bool
	editingID string
	title     textinput.Model
	desc      textarea.Model
	err       string
	focus     formFocus

	// seq increments on every open and close; a pending reset only applies if
	// it still matches.
	seq int
}

func newTaskForm() taskForm {
	ti := textinput.New()
	ti.Placeholder = "Title"
	ti.Prompt = ""
	ti.CharLimit = 500

	ta := textarea.New()
	ta.Placeholder = "Description (optional, Markdown)"
	ta.ShowLineNumbers = false
	ta.SetHeight(5)
	ta.CharLimit = 0

	return taskForm{title: ti, desc: ta}
}

func (f taskForm) editing() bool { return f.editingID != "" }

func (f taskForm) heading() string {
	if f.editing() {
		return "Edit Task"
	}
	return "Add New Task"
}

func (f taskForm) submitLabel() string {
	if f.editing() {
		return "Save Changes"
	}
	return "Add Task"
}

func (f *taskForm) openCreate() tea.Cmd {
	f.seq++
	f.clear()
	f.open = true
	return f.setFocus(formFocusTitle)
}

func (f *taskForm) openEdit(t model.Task) tea.Cmd {
	f.seq++
	f.clear()
	f.editingID = t.ID
	f.title.SetValue(t.Title)
	f.title.CursorEnd()
	f.desc.SetValue(t.Description)
	f.open = true
	return f.setFocus(formFocusTitle)
}

// close hides the form and schedules the delayed field reset.
func (f *taskForm) close() tea.Cmd {
	f.open = false
	f.title.Blur()
	f.desc.Blur()
	f.seq++
	return tickFormReset(f.seq)
}

// applyReset clears the fields if msg belongs to the latest close.
func (f *taskForm) applyReset(msg formResetMsg) bool {
	if f.open || msg.seq != f.seq {
		return false
	}
	f.clear()
	return true
}

func (f *taskForm) clear() {
	f.editingID = ""
	f.title.SetValue("")
	f.desc.SetValue("")
	f.err = ""
	f.focus = formFocusTitle
}

func (f *taskForm) setFocus(ff formFocus) tea.Cmd {
	f.focus = ff
	f.title.Blur()
	f.desc.Blur()
	switch ff {
	case formFocusTitle:
		return f.title.Focus()
	case formFocusDescription:
		return f.desc.Focus()
	}
	return nil
}

func (f *taskForm) cycleFocus(delta int) tea.Cmd {
	next := (int(f.focus) + delta + int(formFocusCount)) % int(formFocusCount)
	return f.setFocus(formFocus(next))
}

// validate applies the creation rule to the title field.
func (f *taskForm) validate() bool {
	if err := tasks.ValidateTitle(f.title.Value()); err != nil {
		f.err = tasks.TitleRequiredMessage
		return false
	}
	f.err = ""
	return true
}

// updateInputs routes msg to the focused input. Editing the title clears the
// validation message.
func (f *taskForm) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch f.focus {
	case formFocusTitle:
		before := f.title.Value()
		f.title, cmd = f.title.Update(msg)
		if f.title.Value() != before {
			f.err = ""
		}
	case formFocusDescription:
		f.desc, cmd = f.desc.Update(msg)
	}
	return cmd
}

func (f taskForm) view(screenW int) string {
	bodyW := modalBodyWidth(screenW)
	f.title.Width = bodyW - 3
	f.desc.SetWidth(bodyW)

	label := lipgloss.NewStyle().Bold(true)
	lines := []string{
		label.Render("Title"),
		renderInputLine(bodyW, f.title.View(), f.focus == formFocusTitle),
	}
	if f.err != "" {
		lines = append(lines, styleError().Render(f.err))
	}
	lines = append(lines,
		"",
		label.Render("Description"),
		f.desc.View(),
		"",
	)

	focusedBtn := -1
	switch f.focus {
	case formFocusSubmit:
		focusedBtn = 0
	case formFocusCancel:
		focusedBtn = 1
	}
	lines = append(lines,
		renderButtons([]string{f.submitLabel(), "Cancel"}, focusedBtn),
		"",
		styleMuted().Width(bodyW).Render("tab: next field   ctrl+s: save   esc: cancel"),
	)
	return renderModalBox(screenW, f.heading(), strings.Join(lines, "\n"))
}
