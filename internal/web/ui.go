package web

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/starfederation/datastar-go/datastar"

	"tasklist/internal/listview"
	"tasklist/internal/model"
	"tasklist/internal/tasks"
)

// uiSignals is the client state datastar sends with every UI request.
type uiSignals struct {
	Filter      string `json:"filter"`
	Sort        string `json:"sort"`
	Title       string `json:"title"`
	Description string `json:"description"`
	EditingID   string `json:"editingId"`
	FormOpen    bool   `json:"formOpen"`
	FormError   string `json:"formError"`
}

type optionVM struct {
	Value    string
	Label    string
	Selected bool
}

type rowVM struct {
	ID              string
	Title           string
	DescriptionHTML template.HTML
	Completed       bool
	Created         string
	First           bool
	Last            bool
}

type appVM struct {
	Title        string
	Dark         bool
	ThemeLabel   string
	Summary      listview.Summary
	Filters      []optionVM
	Sorts        []optionVM
	Rows         []rowVM
	EmptyMessage string
	TerminalURL  string
}

type pageVM struct {
	App         appVM
	SignalsJSON string
}

func (s *Server) viewFor(filter, sort string) *listview.View {
	v := listview.New(s.tasks)
	if f, err := model.ParseFilter(filter); err == nil {
		v.SetFilter(f)
	}
	if m, err := model.ParseSortMode(sort); err == nil {
		v.SetSort(m)
	}
	return v
}

func (s *Server) buildAppVM(v *listview.View) appVM {
	all := s.tasks.Tasks()
	dark := s.theme.Dark()
	vm := appVM{
		Title:      "ToDo App",
		Dark:       dark,
		ThemeLabel: "Dark",
		Summary:    listview.Summarize(all),
	}
	if s.cfg.Terminal != nil {
		vm.TerminalURL = s.cfg.Terminal.Prefix()
	}
	if !dark {
		vm.ThemeLabel = "Light"
	}
	for _, f := range model.Filters() {
		vm.Filters = append(vm.Filters, optionVM{Value: string(f), Label: f.Label(), Selected: f == v.Filter()})
	}
	for _, m := range model.SortModes() {
		vm.Sorts = append(vm.Sorts, optionVM{Value: string(m), Label: m.Label(), Selected: m == v.Sort()})
	}

	rows := v.Rows()
	for i, r := range rows {
		vm.Rows = append(vm.Rows, rowVM{
			ID:              r.Task.ID,
			Title:           r.Task.Title,
			DescriptionHTML: renderMarkdownHTML(r.Task.Description),
			Completed:       r.Task.Completed,
			Created:         r.Task.Created().Format("Jan 2, 2006 15:04"),
			First:           i == 0,
			Last:            i == len(rows)-1,
		})
	}
	switch {
	case len(all) == 0:
		vm.EmptyMessage = "No tasks yet. Add one to get started!"
	case len(rows) == 0:
		vm.EmptyMessage = fmt.Sprintf("No %s tasks.", strings.ToLower(v.Filter().Label()))
	}
	return vm
}

func (s *Server) handleIndex(c *gin.Context) {
	v := s.viewFor(c.Query("filter"), c.Query("sort"))
	sig := uiSignals{Filter: string(v.Filter()), Sort: string(v.Sort())}
	b, err := json.Marshal(sig)
	if err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	c.HTML(http.StatusOK, "index.html", pageVM{App: s.buildAppVM(v), SignalsJSON: string(b)})
}

func readSignals(c *gin.Context) (uiSignals, bool) {
	var sig uiSignals
	if err := datastar.ReadSignals(c.Request, &sig); err != nil {
		c.String(http.StatusBadRequest, "invalid signals: %v", err)
		return sig, false
	}
	return sig, true
}

func (s *Server) patchApp(sse *datastar.ServerSentEventGenerator, v *listview.View) {
	html, err := s.renderTemplate("app", s.buildAppVM(v))
	if err != nil {
		s.logger.Error("render app", "error", err)
		_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, err.Error()))
		return
	}
	_ = sse.PatchElements(html, datastar.WithSelector("#app"), datastar.WithMode(datastar.ElementPatchModeOuter))
}

func (s *Server) handleUIList(c *gin.Context) {
	sig, ok := readSignals(c)
	if !ok {
		return
	}
	sse := datastar.NewSSE(c.Writer, c.Request)
	s.patchApp(sse, s.viewFor(sig.Filter, sig.Sort))
}

func (s *Server) openForm(c *gin.Context, editingID, title, description string) {
	s.formGen.Add(1)
	sse := datastar.NewSSE(c.Writer, c.Request)
	_ = sse.MarshalAndPatchSignals(map[string]any{
		"formOpen":    true,
		"editingId":   editingID,
		"title":       title,
		"description": description,
		"formError":   "",
	})
}

func (s *Server) handleFormOpen(c *gin.Context) {
	s.openForm(c, "", "", "")
}

func (s *Server) handleTaskEdit(c *gin.Context) {
	t, _, ok := s.tasks.Find(c.Param("id"))
	if !ok {
		c.String(http.StatusNotFound, "task not found")
		return
	}
	s.openForm(c, t.ID, t.Title, t.Description)
}

// closeForm hides the form now and clears its fields after the reset delay,
// unless the form was reopened in the meantime.
func (s *Server) closeForm(sse *datastar.ServerSentEventGenerator) {
	gen := s.formGen.Load()
	_ = sse.MarshalAndPatchSignals(map[string]any{"formOpen": false, "formError": ""})

	if d := s.cfg.ResetDelay; d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-sse.Context().Done():
			return
		case <-timer.C:
		}
	}
	if s.formGen.Load() != gen {
		return
	}
	_ = sse.MarshalAndPatchSignals(map[string]any{"title": "", "description": "", "editingId": ""})
}

func (s *Server) handleFormSubmit(c *gin.Context) {
	sig, ok := readSignals(c)
	if !ok {
		return
	}
	sse := datastar.NewSSE(c.Writer, c.Request)
	if err := tasks.ValidateTitle(sig.Title); err != nil {
		_ = sse.MarshalAndPatchSignals(map[string]any{"formError": tasks.TitleRequiredMessage})
		return
	}

	if sig.EditingID != "" {
		title, desc := sig.Title, sig.Description
		if _, found := s.tasks.Update(sig.EditingID, tasks.Patch{Title: &title, Description: &desc}); !found {
			s.logger.Warn("edit of missing task", "id", sig.EditingID)
		}
	} else if _, err := s.tasks.Add(sig.Title, sig.Description); err != nil {
		_ = sse.MarshalAndPatchSignals(map[string]any{"formError": tasks.TitleRequiredMessage})
		return
	}

	s.patchApp(sse, s.viewFor(sig.Filter, sig.Sort))
	s.closeForm(sse)
}

func (s *Server) handleFormCancel(c *gin.Context) {
	sse := datastar.NewSSE(c.Writer, c.Request)
	s.closeForm(sse)
}

func (s *Server) handleTaskToggle(c *gin.Context) {
	sig, ok := readSignals(c)
	if !ok {
		return
	}
	t, _, found := s.tasks.Find(c.Param("id"))
	if !found {
		c.String(http.StatusNotFound, "task not found")
		return
	}
	completed := !t.Completed
	s.tasks.Update(t.ID, tasks.Patch{Completed: &completed})

	sse := datastar.NewSSE(c.Writer, c.Request)
	s.patchApp(sse, s.viewFor(sig.Filter, sig.Sort))
}

func (s *Server) handleTaskDelete(c *gin.Context) {
	sig, ok := readSignals(c)
	if !ok {
		return
	}
	if !s.tasks.Delete(c.Param("id")) {
		c.String(http.StatusNotFound, "task not found")
		return
	}
	sse := datastar.NewSSE(c.Writer, c.Request)
	s.patchApp(sse, s.viewFor(sig.Filter, sig.Sort))
}

// handleTaskMove moves a row one position up or down in the displayed list.
// A move under an active sort switches the list back to manual order.
func (s *Server) handleTaskMove(c *gin.Context) {
	sig, ok := readSignals(c)
	if !ok {
		return
	}
	delta, err := strconv.Atoi(c.DefaultQuery("delta", "0"))
	if err != nil || (delta != -1 && delta != 1) {
		c.String(http.StatusBadRequest, "delta must be -1 or 1")
		return
	}

	v := s.viewFor(sig.Filter, sig.Sort)
	row := -1
	for i, r := range v.Rows() {
		if r.Task.ID == c.Param("id") {
			row = i
			break
		}
	}
	if row < 0 {
		c.String(http.StatusNotFound, "task not found")
		return
	}

	wasSorted := v.Sort() != model.SortManual
	moved := v.MoveRow(row, delta)

	sse := datastar.NewSSE(c.Writer, c.Request)
	if moved && wasSorted {
		_ = sse.MarshalAndPatchSignals(map[string]any{"sort": string(v.Sort())})
	}
	s.patchApp(sse, v)
}

func (s *Server) handleThemeToggle(c *gin.Context) {
	sig, ok := readSignals(c)
	if !ok {
		return
	}
	mode := s.theme.Toggle()
	s.logger.Debug("theme toggled", "mode", mode)
	sse := datastar.NewSSE(c.Writer, c.Request)
	s.patchApp(sse, s.viewFor(sig.Filter, sig.Sort))
}
