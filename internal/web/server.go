package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"tasklist/internal/tasks"
	"tasklist/internal/theme"
)

//go:embed templates/*.html static/*.css
var assetsFS embed.FS

// DefaultResetDelay is how long a closed form keeps its values before they
// are cleared, so the closing transition never shows an empty form.
const DefaultResetDelay = 300 * time.Millisecond

type Config struct {
	Addr string
	Mode string // gin mode: debug|release|test

	// ResetDelay overrides DefaultResetDelay. Negative disables the delay.
	ResetDelay time.Duration

	// Terminal, when set, is mounted at its prefix and linked from the header.
	Terminal Mountable
}

// Mountable is an http.Handler that owns every path under Prefix.
type Mountable interface {
	Prefix() string
	Handler() http.Handler
}

type Server struct {
	cfg    Config
	tasks  *tasks.Store
	theme  *theme.Store
	logger *slog.Logger
	tmpl   *template.Template
	router *gin.Engine

	// formGen counts form openings. A pending reset is dropped when the form
	// has been opened again since it was closed.
	formGen atomic.Int64
}

func NewServer(cfg Config, ts *tasks.Store, th *theme.Store, logger *slog.Logger) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	cfg.Mode = strings.ToLower(strings.TrimSpace(cfg.Mode))
	if cfg.Addr == "" {
		return nil, errors.New("web: addr is empty")
	}
	if cfg.Mode == "" {
		cfg.Mode = gin.ReleaseMode
	}
	switch cfg.Mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return nil, fmt.Errorf("web: invalid mode %q (expected debug|release|test)", cfg.Mode)
	}
	if cfg.ResetDelay == 0 {
		cfg.ResetDelay = DefaultResetDelay
	}
	if ts == nil || th == nil {
		return nil, errors.New("web: task and theme stores are required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	tmpl, err := template.New("base").Funcs(template.FuncMap{
		"trim": strings.TrimSpace,
	}).ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	gin.SetMode(cfg.Mode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))
	router.SetHTMLTemplate(tmpl)

	s := &Server{
		cfg:    cfg,
		tasks:  ts,
		theme:  th,
		logger: logger.With("component", "web"),
		tmpl:   tmpl,
		router: router,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := s.router
	r.GET("/health", s.handleHealth)
	r.GET("/", s.handleIndex)
	r.StaticFileFS("/static/app.css", "static/app.css", http.FS(assetsFS))
	if t := s.cfg.Terminal; t != nil {
		h := gin.WrapH(t.Handler())
		r.GET(t.Prefix(), h)
		r.GET(t.Prefix()+"/ws", h)
	}

	ui := r.Group("/ui")
	{
		ui.POST("/list", s.handleUIList)
		ui.POST("/form/open", s.handleFormOpen)
		ui.POST("/form/submit", s.handleFormSubmit)
		ui.POST("/form/cancel", s.handleFormCancel)
		ui.POST("/tasks/:id/toggle", s.handleTaskToggle)
		ui.POST("/tasks/:id/edit", s.handleTaskEdit)
		ui.POST("/tasks/:id/delete", s.handleTaskDelete)
		ui.POST("/tasks/:id/move", s.handleTaskMove)
		ui.POST("/theme/toggle", s.handleThemeToggle)
	}

	api := r.Group("/api")
	{
		api.GET("/tasks", s.handleAPIListTasks)
		api.POST("/tasks", s.handleAPICreateTask)
		api.POST("/tasks/reorder", s.handleAPIReorder)
		api.GET("/tasks/:id", s.handleAPIGetTask)
		api.PATCH("/tasks/:id", s.handleAPIUpdateTask)
		api.DELETE("/tasks/:id", s.handleAPIDeleteTask)
		api.GET("/theme", s.handleAPIGetTheme)
		api.PUT("/theme", s.handleAPISetTheme)
		api.POST("/theme/toggle", s.handleAPIToggleTheme)
	}
}

func (s *Server) Addr() string { return s.cfg.Addr }

func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("web server listening", "addr", s.cfg.Addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("web server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "ok\n")
}

func (s *Server) renderTemplate(name string, data any) (string, error) {
	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
