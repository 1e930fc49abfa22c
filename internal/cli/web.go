package cli

import (
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"tasklist/internal/web"
	"tasklist/internal/webtui"
)

func newWebCmd(app *App) *cobra.Command {
	var addr, mode string
	var terminal bool

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the task list in a browser, plus a JSON API",
		Example: strings.TrimSpace(`
# Serve on the configured address (default 127.0.0.1:3336)
tasklist web

# Serve on another port
tasklist web --addr 127.0.0.1:8080

# Also serve the terminal UI at /terminal
tasklist web --terminal
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(addr) == "" {
				addr = app.cfg.Web.Addr
			}
			if strings.TrimSpace(mode) == "" {
				mode = app.cfg.Web.Mode
			}
			if strings.TrimSpace(addr) == "" {
				return writeErr(cmd, errors.New("web: missing --addr"))
			}
			if err := openStores(cmd.Context(), app, false); err != nil {
				return writeErr(cmd, err)
			}

			cfg := web.Config{Addr: addr, Mode: mode}
			hints := []string{}
			if terminal || app.cfg.Web.Terminal {
				term, err := webtui.New(webtui.Config{Dir: app.Dir, Prefix: "/terminal"}, app.logger)
				if err != nil {
					return writeErr(cmd, err)
				}
				cfg.Terminal = term
			}

			srv, err := web.NewServer(cfg, app.tasks, app.theme, app.logger)
			if err != nil {
				return writeErr(cmd, err)
			}
			hints = append(hints, "open http://"+srv.Addr()+"/")
			if cfg.Terminal != nil {
				hints = append(hints, "terminal UI at http://"+srv.Addr()+cfg.Terminal.Prefix())
			}
			hints = append(hints, "press ctrl+c to stop")

			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr": srv.Addr(),
					"url":  "http://" + srv.Addr() + "/",
				},
				"_hints": hints,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := srv.Run(ctx); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	cmd.Flags().StringVar(&mode, "mode", "", "Server mode: debug|release (default from config)")
	cmd.Flags().BoolVar(&terminal, "terminal", false, "Also serve the terminal UI at /terminal")

	return cmd
}
