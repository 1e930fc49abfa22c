package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tasklist/internal/listview"
	"tasklist/internal/model"
	"tasklist/internal/tasks"
)

func writeData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"data": data})
}

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type reorderRequest struct {
	Source      int    `json:"source"`
	Destination *int   `json:"destination"`
	Sort        string `json:"sort"`
}

type themeRequest struct {
	Mode string `json:"mode"`
}

// handleAPIListTasks returns the canonical collection, or the derived list
// when filter or sort is given.
func (s *Server) handleAPIListTasks(c *gin.Context) {
	filter, sort := c.Query("filter"), c.Query("sort")
	if filter == "" && sort == "" {
		writeData(c, http.StatusOK, s.tasks.Tasks())
		return
	}
	if _, err := model.ParseFilter(defaultString(filter, string(model.FilterAll))); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := model.ParseSortMode(defaultString(sort, string(model.SortManual))); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	rows := s.viewFor(filter, sort).Rows()
	out := make([]model.Task, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Task)
	}
	writeData(c, http.StatusOK, out)
}

func (s *Server) handleAPICreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid JSON body")
		return
	}
	t, err := s.tasks.Add(req.Title, req.Description)
	if err != nil {
		writeError(c, http.StatusBadRequest, tasks.TitleRequiredMessage)
		return
	}
	writeData(c, http.StatusCreated, t)
}

func (s *Server) handleAPIGetTask(c *gin.Context) {
	t, _, ok := s.tasks.Find(c.Param("id"))
	if !ok {
		writeError(c, http.StatusNotFound, "task not found")
		return
	}
	writeData(c, http.StatusOK, t)
}

func (s *Server) handleAPIUpdateTask(c *gin.Context) {
	var p tasks.Patch
	if err := c.ShouldBindJSON(&p); err != nil {
		writeError(c, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if p.Empty() {
		writeError(c, http.StatusBadRequest, "nothing to update")
		return
	}
	if p.Title != nil {
		if err := tasks.ValidateTitle(*p.Title); err != nil {
			writeError(c, http.StatusBadRequest, tasks.TitleRequiredMessage)
			return
		}
	}
	t, ok := s.tasks.Update(c.Param("id"), p)
	if !ok {
		writeError(c, http.StatusNotFound, "task not found")
		return
	}
	writeData(c, http.StatusOK, t)
}

func (s *Server) handleAPIDeleteTask(c *gin.Context) {
	id := c.Param("id")
	if !s.tasks.Delete(id) {
		writeError(c, http.StatusNotFound, "task not found")
		return
	}
	writeData(c, http.StatusOK, gin.H{"deleted": id})
}

// handleAPIReorder applies a drop result expressed in canonical indices.
// A missing destination is a cancelled drag and changes nothing.
func (s *Server) handleAPIReorder(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid JSON body")
		return
	}
	v := listview.New(s.tasks)
	if req.Sort != "" {
		m, err := model.ParseSortMode(req.Sort)
		if err != nil {
			writeError(c, http.StatusBadRequest, err.Error())
			return
		}
		v.SetSort(m)
	}
	moved := v.Drop(listview.DropResult{Source: req.Source, Destination: req.Destination})
	writeData(c, http.StatusOK, gin.H{
		"moved": moved,
		"sort":  v.Sort(),
		"tasks": s.tasks.Tasks(),
	})
}

func (s *Server) handleAPIGetTheme(c *gin.Context) {
	writeData(c, http.StatusOK, gin.H{"mode": s.theme.Mode()})
}

func (s *Server) handleAPISetTheme(c *gin.Context) {
	var req themeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid JSON body")
		return
	}
	mode, err := model.ParseThemeMode(req.Mode)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.theme.Set(mode); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	writeData(c, http.StatusOK, gin.H{"mode": s.theme.Mode()})
}

func (s *Server) handleAPIToggleTheme(c *gin.Context) {
	writeData(c, http.StatusOK, gin.H{"mode": s.theme.Toggle()})
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
