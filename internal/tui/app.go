package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tasklist/internal/listview"
	"tasklist/internal/model"
	"tasklist/internal/tasks"
	"tasklist/internal/theme"
)

type appModel struct {
	tasks  *tasks.Store
	theme  *theme.Store
	view   *listview.View
	logger *slog.Logger

	width  int
	height int

	list     list.Model
	keys     keyMap
	help     help.Model
	expanded map[string]bool

	modal        modalKind
	form         taskForm
	confirmID    string
	confirmFocus confirmModalFocus

	flash    string
	flashSeq int

	watcher *storageWatcher
}

func newAppModel(opts Options, w *storageWatcher) appModel {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	v := listview.New(opts.Tasks)
	if opts.Filter != "" {
		v.SetFilter(opts.Filter)
	}
	if opts.Sort != "" {
		v.SetSort(opts.Sort)
	}
	m := appModel{
		tasks:    opts.Tasks,
		theme:    opts.Theme,
		view:     v,
		logger:   logger.With("component", "tui"),
		list:     newList(nil),
		keys:     newKeyMap(),
		help:     help.New(),
		expanded: map[string]bool{},
		form:     newTaskForm(),
		watcher:  w,
	}
	m.refreshList()
	return m
}

func (m appModel) Init() tea.Cmd {
	return m.watcher.wait()
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.list.SetSize(msg.Width, max(msg.Height-8, 3))
		return m, nil

	case formResetMsg:
		m.form.applyReset(msg)
		return m, nil

	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
		}
		return m, nil

	case storageChangedMsg:
		m.reload()
		return m, m.watcher.wait()

	case watchErrMsg:
		m.logger.Warn("storage watch failed", "error", msg.err)
		return m, m.watcher.wait()

	case tea.KeyMsg:
		switch m.modal {
		case modalForm:
			return m.updateForm(msg)
		case modalConfirmDelete:
			return m.updateConfirmDelete(msg)
		default:
			return m.updateList(msg)
		}
	}

	// Cursor blink and similar input housekeeping.
	if m.modal == modalForm {
		cmd := m.form.updateInputs(msg)
		return m, cmd
	}
	return m, nil
}

func (m appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Add):
		m.modal = modalForm
		cmd := m.form.openCreate()
		return m, cmd

	case key.Matches(msg, m.keys.Edit):
		if it, ok := selectedTaskItem(m.list); ok {
			m.modal = modalForm
			cmd := m.form.openEdit(it.row.Task)
			return m, cmd
		}
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		if it, ok := selectedTaskItem(m.list); ok {
			completed := !it.row.Task.Completed
			m.tasks.Update(it.row.Task.ID, tasks.Patch{Completed: &completed})
			m.refreshList()
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if it, ok := selectedTaskItem(m.list); ok {
			m.confirmID = it.row.Task.ID
			m.confirmFocus = confirmFocusConfirm
			m.modal = modalConfirmDelete
		}
		return m, nil

	case key.Matches(msg, m.keys.Expand):
		if it, ok := selectedTaskItem(m.list); ok && strings.TrimSpace(it.row.Task.Description) != "" {
			id := it.row.Task.ID
			m.expanded[id] = !m.expanded[id]
			m.refreshList()
		}
		return m, nil

	case key.Matches(msg, m.keys.MoveUp):
		cmd := m.moveSelected(-1)
		return m, cmd

	case key.Matches(msg, m.keys.MoveDown):
		cmd := m.moveSelected(1)
		return m, cmd

	case key.Matches(msg, m.keys.Filter):
		m.view.SetFilter(m.view.Filter().Next())
		m.refreshList()
		return m, nil

	case key.Matches(msg, m.keys.Sort):
		m.view.SetSort(m.view.Sort().Next())
		m.refreshList()
		return m, nil

	case key.Matches(msg, m.keys.Theme):
		mode := m.theme.Toggle()
		applyThemeMode(mode)
		cmd := m.setFlash(fmt.Sprintf("Theme: %s", mode))
		return m, cmd

	case key.Matches(msg, m.keys.Reload):
		m.reload()
		cmd := m.setFlash("Reloaded")
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// moveSelected drags the selected row one position up or down.
func (m *appModel) moveSelected(delta int) tea.Cmd {
	it, ok := selectedTaskItem(m.list)
	if !ok {
		return nil
	}
	wasSorted := m.view.Sort() != model.SortManual
	if !m.view.MoveRow(m.list.Index(), delta) {
		return nil
	}
	m.refreshList()
	selectListItemByID(&m.list, it.row.Task.ID)
	if wasSorted {
		return m.setFlash("Sort: Manual")
	}
	return nil
}

func (m appModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.modal = modalNone
		cmd := m.form.close()
		return m, cmd
	case "ctrl+s":
		return m.submitForm()
	case "tab":
		cmd := m.form.cycleFocus(1)
		return m, cmd
	case "shift+tab":
		cmd := m.form.cycleFocus(-1)
		return m, cmd
	case "enter":
		switch m.form.focus {
		case formFocusTitle, formFocusSubmit:
			return m.submitForm()
		case formFocusCancel:
			m.modal = modalNone
			cmd := m.form.close()
			return m, cmd
		}
	}
	cmd := m.form.updateInputs(msg)
	return m, cmd
}

func (m appModel) submitForm() (tea.Model, tea.Cmd) {
	if !m.form.validate() {
		cmd := m.form.setFocus(formFocusTitle)
		return m, cmd
	}
	title := m.form.title.Value()
	desc := m.form.desc.Value()

	selectID := m.form.editingID
	if m.form.editing() {
		m.tasks.Update(m.form.editingID, tasks.Patch{Title: &title, Description: &desc})
	} else {
		t, err := m.tasks.Add(title, desc)
		if err != nil {
			m.form.err = tasks.TitleRequiredMessage
			return m, nil
		}
		selectID = t.ID
	}

	m.modal = modalNone
	m.refreshList()
	selectListItemByID(&m.list, selectID)
	cmd := m.form.close()
	return m, cmd
}

func (m appModel) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "n", "q":
		m.closeConfirm()
		return m, nil
	case "tab", "shift+tab", "left", "right", "h", "l":
		m.confirmFocus = m.confirmFocus.toggled()
		return m, nil
	case "y":
		cmd := m.confirmDelete()
		return m, cmd
	case "enter":
		if m.confirmFocus == confirmFocusConfirm {
			cmd := m.confirmDelete()
			return m, cmd
		}
		m.closeConfirm()
	}
	return m, nil
}

func (m *appModel) confirmDelete() tea.Cmd {
	id := m.confirmID
	t, _, ok := m.tasks.Find(id)
	m.closeConfirm()
	if !ok {
		return nil
	}
	m.tasks.Delete(id)
	delete(m.expanded, id)
	m.refreshList()
	return m.setFlash(fmt.Sprintf("Deleted %q", t.Title))
}

func (m *appModel) closeConfirm() {
	m.modal = modalNone
	m.confirmID = ""
}

func (m *appModel) setFlash(s string) tea.Cmd {
	m.flashSeq++
	m.flash = s
	return tickFlash(m.flashSeq)
}

// reload re-reads both stores from storage.
func (m *appModel) reload() {
	ctx := context.Background()
	m.tasks.Reload(ctx)
	applyThemeMode(m.theme.Reload(ctx))
	m.refreshList()
}

func (m *appModel) refreshList() {
	curID := ""
	if it, ok := selectedTaskItem(m.list); ok {
		curID = it.row.Task.ID
	}
	rows := m.view.Rows()
	items := make([]list.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, taskItem{row: r, expanded: m.expanded[r.Task.ID]})
	}
	m.list.SetItems(items)
	if curID != "" && selectListItemByID(&m.list, curID) {
		return
	}
	if n := len(items); n > 0 && m.list.Index() >= n {
		m.list.Select(n - 1)
	}
}

func (m appModel) View() string {
	w, h := m.width, m.height
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}

	if m.modal != modalNone {
		return placeCentered(w, h, m.modalView(w))
	}

	rule := styleMuted().Render(strings.Repeat(glyphHRule(), w))
	top := []string{
		renderHeader(w, listview.Summarize(m.tasks.Tasks()), m.theme.Mode()),
		renderControls(w, m.view.Filter(), m.view.Sort()),
		rule,
	}
	details := m.renderDetails(w, h/3)
	footer := m.renderFooter(w)

	used := len(top) + 1 + lipgloss.Height(footer)
	if details != "" {
		used += lipgloss.Height(details) + 1
	}
	bodyH := h - used
	if bodyH < 3 {
		bodyH = 3
	}

	parts := append(top, m.renderBody(w, bodyH))
	if details != "" {
		parts = append(parts, rule, details)
	}
	parts = append(parts, rule, footer)
	return strings.Join(parts, "\n")
}

func (m appModel) modalView(w int) string {
	switch m.modal {
	case modalForm:
		return m.form.view(w)
	case modalConfirmDelete:
		title := ""
		if t, _, ok := m.tasks.Find(m.confirmID); ok {
			title = t.Title
		}
		body := fmt.Sprintf("Are you sure you want to delete %q?", title)
		return renderConfirmModal(w, "Delete task", body, "Delete", "Cancel", m.confirmFocus)
	}
	return ""
}

func (m appModel) renderBody(w, h int) string {
	if m.tasks.Len() == 0 {
		msg := styleMuted().Render("No tasks yet. Add one to get started!")
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, msg)
	}
	if len(m.list.Items()) == 0 {
		msg := styleMuted().Render(fmt.Sprintf("No %s tasks.", strings.ToLower(m.view.Filter().Label())))
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, msg)
	}
	m.list.SetSize(w, h)
	return normalizePane(m.list.View(), w, h)
}

// renderDetails shows the selected task's description when it is expanded.
func (m appModel) renderDetails(w, maxH int) string {
	it, ok := selectedTaskItem(m.list)
	if !ok || !m.expanded[it.row.Task.ID] {
		return ""
	}
	t := it.row.Task
	meta := styleMuted().Render("Created " + t.Created().Format("Jan 2, 2006 15:04"))
	body := renderMarkdown(t.Description, w-2)
	if maxH < 3 {
		maxH = 3
	}
	return normalizePane(clampLines(meta+"\n"+body, maxH), w, 0)
}

func clampLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}

func (m appModel) renderFooter(w int) string {
	if m.flash != "" {
		return lipgloss.NewStyle().
			Foreground(colorAccentFg).
			Background(colorFlashBg).
			Padding(0, 1).
			Render(m.flash)
	}
	return m.help.View(m.keys)
}
