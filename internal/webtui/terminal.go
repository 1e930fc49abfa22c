// Package webtui serves the terminal UI in a browser: each websocket gets its
// own pty running the tasklist binary without a subcommand.
package webtui

import (
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"strings"
)

//go:embed templates/*.html
var assetsFS embed.FS

type Config struct {
	// Dir is passed to the child as --dir.
	Dir string
	// Prefix is where the handler is mounted, e.g. "/terminal".
	Prefix string

	// Command builds the child process. Defaults to the running executable.
	Command func() (*exec.Cmd, error)
}

type Terminal struct {
	cfg    Config
	tmpl   *template.Template
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) (*Terminal, error) {
	cfg.Prefix = "/" + strings.Trim(strings.TrimSpace(cfg.Prefix), "/")
	if cfg.Prefix == "/" {
		return nil, errors.New("webtui: prefix must not be the root path")
	}
	if cfg.Command == nil {
		dir := strings.TrimSpace(cfg.Dir)
		cfg.Command = func() (*exec.Cmd, error) { return selfCommand(dir) }
	}
	if logger == nil {
		logger = slog.Default()
	}
	tmpl, err := template.ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Terminal{cfg: cfg, tmpl: tmpl, logger: logger.With("component", "webtui")}, nil
}

func (t *Terminal) Prefix() string { return t.cfg.Prefix }

func (t *Terminal) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+t.cfg.Prefix, t.handlePage)
	mux.HandleFunc("GET "+t.cfg.Prefix+"/ws", t.handleWS)
	return mux
}

type pageVM struct {
	Dir   string
	WSURL string
}

func (t *Terminal) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	vm := pageVM{Dir: t.cfg.Dir, WSURL: t.cfg.Prefix + "/ws"}
	if err := t.tmpl.ExecuteTemplate(w, "terminal.html", vm); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func selfCommand(dir string) (*exec.Cmd, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}
	var args []string
	if dir != "" {
		args = append(args, "--dir", dir)
	}
	// No subcommand => interactive TUI.
	cmd := exec.Command(exe, args...)
	cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"COLORTERM=truecolor",
	)
	return cmd, nil
}
