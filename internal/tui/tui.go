package tui

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"tasklist/internal/model"
	"tasklist/internal/tasks"
	"tasklist/internal/theme"
)

type Options struct {
	// Dir is watched for storage writes from other processes. Empty disables watching.
	Dir    string
	Tasks  *tasks.Store
	Theme  *theme.Store
	Logger *slog.Logger

	// Initial selectors; empty means all / manual.
	Filter model.Filter
	Sort   model.SortMode
	Glyphs string
}

func Run(ctx context.Context, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	applyColorProfilePreference()
	applyGlyphPreference(opts.Glyphs)
	applyThemeMode(opts.Theme.Mode())

	var w *storageWatcher
	if opts.Dir != "" {
		var err error
		w, err = startStorageWatcher(ctx, opts.Dir, logger)
		if err != nil {
			logger.Warn("storage watcher disabled", "error", err)
			w = nil
		}
	}

	m := newAppModel(opts, w)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
