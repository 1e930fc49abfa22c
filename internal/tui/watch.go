package tui

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"tasklist/internal/store"
)

// storageWatcher reports writes to the storage database so changes made by
// another process (a CLI command, the web server) show up in the TUI.
type storageWatcher struct {
	changes chan struct{}
	errs    chan error
}

func startStorageWatcher(ctx context.Context, dir string, logger *slog.Logger) (*storageWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("new fsnotify watcher: %w", err)
	}
	// SQLite in WAL mode mostly writes the -wal sibling, so watch the directory.
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch storage dir: %w", err)
	}

	w := &storageWatcher{
		changes: make(chan struct{}, 1),
		errs:    make(chan error, 1),
	}
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !isStorageEvent(ev) {
					continue
				}
				// Coalesce bursts: one pending notification is enough.
				select {
				case w.changes <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("storage watcher error", "error", err)
				select {
				case w.errs <- err:
				default:
				}
			}
		}
	}()
	return w, nil
}

func isStorageEvent(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	return strings.HasPrefix(filepath.Base(ev.Name), store.FileName())
}

// wait blocks until the next change and turns it into a message. It must be
// re-issued after every storageChangedMsg.
func (w *storageWatcher) wait() tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-w.changes:
			return storageChangedMsg{}
		case err := <-w.errs:
			return watchErrMsg{err: err}
		}
	}
}
