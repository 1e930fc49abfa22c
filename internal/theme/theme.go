package theme

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tasklist/internal/model"
	"tasklist/internal/persist"
)

// StorageKey is the key the theme preference is stored under.
const StorageKey = "themeMode"

// DefaultMode applies when nothing valid is stored.
const DefaultMode = model.ThemeLight

var ErrInvalidTheme = errors.New("invalid theme mode")

type Store struct {
	value *persist.Value[model.ThemeMode]
}

func Open(ctx context.Context, backend persist.Backend, logger *slog.Logger) *Store {
	return &Store{
		value: persist.Load(ctx, backend, StorageKey, DefaultMode, persist.Config[model.ThemeMode]{
			Logger: logger,
			Valid:  model.ThemeMode.Valid,
		}),
	}
}

func (s *Store) Mode() model.ThemeMode {
	return s.value.Get()
}

func (s *Store) Dark() bool {
	return s.Mode() == model.ThemeDark
}

// Toggle flips between light and dark and returns the new mode.
func (s *Store) Toggle() model.ThemeMode {
	return s.value.Update(func(prev model.ThemeMode) model.ThemeMode {
		return prev.Toggled()
	})
}

func (s *Store) Set(mode model.ThemeMode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, mode)
	}
	s.value.Set(mode)
	return nil
}

func (s *Store) Subscribe(fn func(model.ThemeMode)) func() {
	return s.value.Subscribe(fn)
}

func (s *Store) Reload(ctx context.Context) model.ThemeMode {
	return s.value.Reload(ctx)
}
