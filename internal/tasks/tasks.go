package tasks

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"tasklist/internal/model"
	"tasklist/internal/persist"
)

// StorageKey is the key the task collection is stored under.
const StorageKey = "tasks"

// TitleRequiredMessage is shown next to the title field when validation fails.
const TitleRequiredMessage = "Title is required."

var ErrTitleRequired = errors.New("title is required")

// ValidateTitle applies the creation rule: the title must not be blank.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrTitleRequired
	}
	return nil
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil
}

func (p Patch) apply(t model.Task) model.Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t
}

// Store owns the ordered task collection. Its order is the manual order:
// new tasks go first and Reorder moves one task to a new position.
type Store struct {
	value *persist.Value[[]model.Task]
	now   func() time.Time
	newID func() string
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

func Open(ctx context.Context, backend persist.Backend, logger *slog.Logger, opts ...Option) *Store {
	s := &Store{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.value = persist.Load(ctx, backend, StorageKey, []model.Task{}, persist.Config[[]model.Task]{
		Logger: logger,
		Clone:  clone,
	})
	return s
}

func clone(ts []model.Task) []model.Task {
	if ts == nil {
		return []model.Task{}
	}
	return slices.Clone(ts)
}

// Tasks returns a copy of the collection in manual order.
func (s *Store) Tasks() []model.Task {
	return s.value.Get()
}

func (s *Store) Len() int {
	return len(s.value.Get())
}

func (s *Store) IndexOf(id string) int {
	return indexOf(s.value.Get(), id)
}

func (s *Store) Find(id string) (model.Task, int, bool) {
	ts := s.value.Get()
	i := indexOf(ts, id)
	if i < 0 {
		return model.Task{}, -1, false
	}
	return ts[i], i, true
}

func indexOf(ts []model.Task, id string) int {
	return slices.IndexFunc(ts, func(t model.Task) bool { return t.ID == id })
}

// Add creates a pending task at the front of the collection. The title is
// stored as given; only its trimmed form is checked.
func (s *Store) Add(title, description string) (model.Task, error) {
	if err := ValidateTitle(title); err != nil {
		return model.Task{}, err
	}
	var created model.Task
	s.value.Update(func(prev []model.Task) []model.Task {
		created = model.Task{
			ID:          s.uniqueID(prev),
			Title:       title,
			Description: description,
			Completed:   false,
			CreatedAt:   s.now().UnixMilli(),
		}
		return append([]model.Task{created}, prev...)
	})
	return created, nil
}

func (s *Store) uniqueID(existing []model.Task) string {
	for {
		id := s.newID()
		if indexOf(existing, id) < 0 {
			return id
		}
	}
}

// Update merges p into the task with the given id. Unknown ids are ignored.
// The title is not revalidated here.
func (s *Store) Update(id string, p Patch) (model.Task, bool) {
	var (
		updated model.Task
		found   bool
	)
	s.value.Update(func(prev []model.Task) []model.Task {
		for i := range prev {
			if prev[i].ID != id {
				continue
			}
			prev[i] = p.apply(prev[i])
			if !found {
				updated, found = prev[i], true
			}
		}
		return prev
	})
	return updated, found
}

// Delete removes the task with the given id. Unknown ids are ignored.
func (s *Store) Delete(id string) bool {
	removed := false
	s.value.Update(func(prev []model.Task) []model.Task {
		out := prev[:0]
		for _, t := range prev {
			if t.ID == id {
				removed = true
				continue
			}
			out = append(out, t)
		}
		return out
	})
	return removed
}

// Reorder moves the task at index from to index to, shifting the tasks in
// between. Out-of-range indices leave the collection unchanged.
func (s *Store) Reorder(from, to int) bool {
	moved := false
	s.value.Update(func(prev []model.Task) []model.Task {
		if from == to || from < 0 || to < 0 || from >= len(prev) || to >= len(prev) {
			return prev
		}
		t := prev[from]
		prev = slices.Delete(prev, from, from+1)
		prev = slices.Insert(prev, to, t)
		moved = true
		return prev
	})
	return moved
}

// Replace swaps in a whole new collection.
func (s *Store) Replace(ts []model.Task) {
	s.value.Set(clone(ts))
}

func (s *Store) Subscribe(fn func([]model.Task)) func() {
	return s.value.Subscribe(fn)
}

func (s *Store) Reload(ctx context.Context) []model.Task {
	return s.value.Reload(ctx)
}
