package theme

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"tasklist/internal/model"
	"tasklist/internal/persist"
	"tasklist/internal/store"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestToggle_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	kv := store.Store{Dir: t.TempDir()}

	s := Open(ctx, kv, quietLogger())
	if s.Mode() != model.ThemeLight {
		t.Fatalf("default mode=%q, want light", s.Mode())
	}
	if got := s.Toggle(); got != model.ThemeDark {
		t.Fatalf("Toggle=%q, want dark", got)
	}

	reopened := Open(ctx, kv, quietLogger())
	if reopened.Mode() != model.ThemeDark {
		t.Fatalf("reopened mode=%q, want dark", reopened.Mode())
	}
	raw, ok, err := kv.Get(ctx, StorageKey)
	if err != nil || !ok || string(raw) != `"dark"` {
		t.Fatalf("stored %q ok=%v err=%v", raw, ok, err)
	}

	if got := reopened.Toggle(); got != model.ThemeLight {
		t.Fatalf("second toggle=%q, want light", got)
	}
}

func TestOpen_InvalidStoredValueFallsBack(t *testing.T) {
	for _, raw := range []string{`"sepia"`, `42`, `not-json`} {
		mem := persist.NewMemory()
		mem.SetRaw(StorageKey, raw)
		if got := Open(context.Background(), mem, quietLogger()).Mode(); got != model.ThemeLight {
			t.Fatalf("stored %s: mode=%q, want light", raw, got)
		}
	}
}

func TestSet(t *testing.T) {
	s := Open(context.Background(), persist.NewMemory(), quietLogger())
	if err := s.Set(model.ThemeDark); err != nil {
		t.Fatalf("Set(dark): %v", err)
	}
	if !s.Dark() {
		t.Fatalf("expected dark")
	}
	if err := s.Set("neon"); !errors.Is(err, ErrInvalidTheme) {
		t.Fatalf("expected ErrInvalidTheme, got %v", err)
	}
	if !s.Dark() {
		t.Fatalf("invalid Set must not change the mode")
	}
}

func TestSubscribe(t *testing.T) {
	s := Open(context.Background(), persist.NewMemory(), quietLogger())
	var seen []model.ThemeMode
	s.Subscribe(func(m model.ThemeMode) { seen = append(seen, m) })
	s.Toggle()
	s.Toggle()
	if len(seen) != 2 || seen[0] != model.ThemeDark || seen[1] != model.ThemeLight {
		t.Fatalf("unexpected notifications %v", seen)
	}
}
