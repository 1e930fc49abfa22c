package tui

import (
	"strings"
	"testing"

	xansi "github.com/charmbracelet/x/ansi"
	"github.com/fsnotify/fsnotify"

	"tasklist/internal/listview"
	"tasklist/internal/model"
)

func taskRow(title, desc string, completed bool) listview.Row {
	return listview.Row{Task: model.Task{ID: title, Title: title, Description: desc, Completed: completed}}
}

func TestNormalizePane_FixedFrame(t *testing.T) {
	out := normalizePane("short\nthis line is much too long", 10, 3)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("lines=%d, want 3", len(lines))
	}
	for i, ln := range lines {
		if w := xansi.StringWidth(ln); w != 10 {
			t.Fatalf("line %d width=%d, want 10: %q", i, w, ln)
		}
	}
	if !strings.HasSuffix(lines[1], "…") {
		t.Fatalf("expected ellipsis on truncated line, got %q", lines[1])
	}
}

func TestRenderTaskRow_Glyphs(t *testing.T) {
	t.Cleanup(func() { applyGlyphPreference("unicode") })

	applyGlyphPreference("ascii")
	it := taskItem{row: taskRow("Buy milk", "", true)}
	out := xansi.Strip(renderTaskRow(it, 40, false))
	if !strings.Contains(out, "[x]") || !strings.Contains(out, "Buy milk") {
		t.Fatalf("unexpected ascii row %q", out)
	}

	it = taskItem{row: taskRow("Walk dog", "around the park", false)}
	out = xansi.Strip(renderTaskRow(it, 40, false))
	if !strings.Contains(out, "[ ]") || !strings.Contains(out, ">") {
		t.Fatalf("expected open checkbox and collapsed twisty, got %q", out)
	}
	it.expanded = true
	if out = xansi.Strip(renderTaskRow(it, 40, false)); !strings.Contains(out, "v") {
		t.Fatalf("expected expanded twisty, got %q", out)
	}
}

func TestRenderMarkdown_Cached(t *testing.T) {
	applyThemeMode(model.ThemeLight)
	first := renderMarkdown("**bold** words", 40)
	if first == "" || !strings.Contains(first, "bold") {
		t.Fatalf("unexpected render %q", first)
	}
	if _, ok := mdRendered.Get(markdownStyle() + ":40:**bold** words"); !ok {
		t.Fatalf("expected rendered output in cache")
	}
	if again := renderMarkdown("**bold** words", 40); again != first {
		t.Fatalf("cached render differs")
	}
	if renderMarkdown("   ", 40) != "" {
		t.Fatalf("blank markdown should render empty")
	}
}

func TestIsStorageEvent(t *testing.T) {
	cases := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"db write", fsnotify.Event{Name: "/x/storage.sqlite", Op: fsnotify.Write}, true},
		{"wal write", fsnotify.Event{Name: "/x/storage.sqlite-wal", Op: fsnotify.Write}, true},
		{"db chmod", fsnotify.Event{Name: "/x/storage.sqlite", Op: fsnotify.Chmod}, false},
		{"log write", fsnotify.Event{Name: "/x/logs/tasklist.jsonl", Op: fsnotify.Write}, false},
		{"config create", fsnotify.Event{Name: "/x/config.yaml", Op: fsnotify.Create}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isStorageEvent(tc.ev); got != tc.want {
				t.Fatalf("isStorageEvent=%v, want %v", got, tc.want)
			}
		})
	}
}

func TestNilWatcherWait(t *testing.T) {
	var w *storageWatcher
	if w.wait() != nil {
		t.Fatalf("nil watcher should not produce a command")
	}
}
