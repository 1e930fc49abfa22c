package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"tasklist/internal/model"
	"tasklist/internal/persist"
	"tasklist/internal/store"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestStore returns a store with a ticking clock and sequential ids.
func newTestStore(t *testing.T, backend persist.Backend) *Store {
	t.Helper()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	n := 0
	return Open(context.Background(), backend, quietLogger(),
		WithClock(func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Second)
		}),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("task-%d", n)
		}),
	)
}

func TestAdd_PrependsWithUniqueIDs(t *testing.T) {
	s := Open(context.Background(), persist.NewMemory(), quietLogger())
	const n = 5
	var last model.Task
	for i := 0; i < n; i++ {
		tk, err := s.Add(fmt.Sprintf("task %d", i), "")
		if err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
		last = tk
	}
	ts := s.Tasks()
	if len(ts) != n {
		t.Fatalf("expected %d tasks, got %d", n, len(ts))
	}
	if ts[0].ID != last.ID {
		t.Fatalf("expected last added task first, got %q", ts[0].Title)
	}
	ids := map[string]bool{}
	for _, tk := range ts {
		if ids[tk.ID] {
			t.Fatalf("duplicate id %q", tk.ID)
		}
		ids[tk.ID] = true
		if tk.Completed {
			t.Fatalf("new task should be pending")
		}
		if tk.CreatedAt == 0 {
			t.Fatalf("createdAt not set")
		}
	}
}

func TestAdd_RejectsBlankTitle(t *testing.T) {
	s := newTestStore(t, persist.NewMemory())
	for _, title := range []string{"", "   ", "\t\n"} {
		if _, err := s.Add(title, "desc"); !errors.Is(err, ErrTitleRequired) {
			t.Fatalf("Add(%q): expected ErrTitleRequired, got %v", title, err)
		}
	}
	if s.Len() != 0 {
		t.Fatalf("blank titles must not create tasks")
	}
}

func TestAdd_KeepsTitleUntrimmed(t *testing.T) {
	s := newTestStore(t, persist.NewMemory())
	tk, err := s.Add("  padded  ", "")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if tk.Title != "  padded  " {
		t.Fatalf("title was modified: %q", tk.Title)
	}
}

func TestAdd_RegeneratesCollidingID(t *testing.T) {
	ids := []string{"dup", "dup", "fresh"}
	i := 0
	s := Open(context.Background(), persist.NewMemory(), quietLogger(), WithIDGenerator(func() string {
		id := ids[i]
		i++
		return id
	}))
	if _, err := s.Add("one", ""); err != nil {
		t.Fatalf("add one: %v", err)
	}
	tk, err := s.Add("two", "")
	if err != nil {
		t.Fatalf("add two: %v", err)
	}
	if tk.ID != "fresh" {
		t.Fatalf("expected regenerated id, got %q", tk.ID)
	}
}

func TestUpdate_CompletedRoundTripLeavesOtherFields(t *testing.T) {
	s := newTestStore(t, persist.NewMemory())
	orig, _ := s.Add("Write report", "quarterly")
	done, undone := true, false

	if _, ok := s.Update(orig.ID, Patch{Completed: &done}); !ok {
		t.Fatalf("update completed=true: not found")
	}
	got, ok := s.Update(orig.ID, Patch{Completed: &undone})
	if !ok {
		t.Fatalf("update completed=false: not found")
	}
	if got != orig {
		t.Fatalf("round trip changed task: %+v vs %+v", got, orig)
	}
}

func TestUpdate_MergesAndKeepsPosition(t *testing.T) {
	s := newTestStore(t, persist.NewMemory())
	a, _ := s.Add("A", "")
	_, _ = s.Add("B", "")
	title, desc := "A2", "notes"

	got, ok := s.Update(a.ID, Patch{Title: &title, Description: &desc})
	if !ok {
		t.Fatalf("update: not found")
	}
	if got.Title != "A2" || got.Description != "notes" || got.CreatedAt != a.CreatedAt {
		t.Fatalf("unexpected merge result %+v", got)
	}
	if s.IndexOf(a.ID) != 1 {
		t.Fatalf("update moved the task to %d", s.IndexOf(a.ID))
	}
}

func TestUpdate_AllowsEmptyTitle(t *testing.T) {
	s := newTestStore(t, persist.NewMemory())
	a, _ := s.Add("A", "")
	empty := ""
	got, ok := s.Update(a.ID, Patch{Title: &empty})
	if !ok || got.Title != "" {
		t.Fatalf("expected empty title to be accepted, got %+v ok=%v", got, ok)
	}
}

func TestUpdateAndDelete_UnknownIDIsNoOp(t *testing.T) {
	s := newTestStore(t, persist.NewMemory())
	_, _ = s.Add("A", "")
	_, _ = s.Add("B", "")
	before := s.Tasks()

	done := true
	if _, ok := s.Update("missing", Patch{Completed: &done}); ok {
		t.Fatalf("update of missing id reported success")
	}
	if s.Delete("missing") {
		t.Fatalf("delete of missing id reported success")
	}
	after := s.Tasks()
	if len(after) != len(before) {
		t.Fatalf("collection changed: %v -> %v", before, after)
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("task %d changed: %+v -> %+v", i, before[i], after[i])
		}
	}
}

func TestDelete_RemovesTask(t *testing.T) {
	s := newTestStore(t, persist.NewMemory())
	a, _ := s.Add("A", "")
	b, _ := s.Add("B", "")
	if !s.Delete(a.ID) {
		t.Fatalf("delete: not found")
	}
	ts := s.Tasks()
	if len(ts) != 1 || ts[0].ID != b.ID {
		t.Fatalf("unexpected tasks after delete: %+v", ts)
	}
}

func TestReorder_BuyMilkWalkDog(t *testing.T) {
	s := newTestStore(t, persist.NewMemory())
	if _, err := s.Add("Buy milk", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Add("Walk dog", ""); err != nil {
		t.Fatal(err)
	}
	ts := s.Tasks()
	if ts[0].Title != "Walk dog" || ts[1].Title != "Buy milk" {
		t.Fatalf("unexpected order before reorder: %q, %q", ts[0].Title, ts[1].Title)
	}
	if !s.Reorder(1, 0) {
		t.Fatalf("reorder reported no-op")
	}
	ts = s.Tasks()
	if ts[0].Title != "Buy milk" || ts[1].Title != "Walk dog" {
		t.Fatalf("unexpected order after reorder: %q, %q", ts[0].Title, ts[1].Title)
	}
}

func TestReorder_MovesAcrossRange(t *testing.T) {
	s := newTestStore(t, persist.NewMemory())
	for _, title := range []string{"d", "c", "b", "a"} {
		_, _ = s.Add(title, "")
	}
	// a b c d -> b c a d
	s.Reorder(0, 2)
	got := ""
	for _, tk := range s.Tasks() {
		got += tk.Title
	}
	if got != "bcad" {
		t.Fatalf("order=%q, want bcad", got)
	}
}

func TestReorder_OutOfRangeIsNoOp(t *testing.T) {
	s := newTestStore(t, persist.NewMemory())
	_, _ = s.Add("A", "")
	_, _ = s.Add("B", "")
	cases := [][2]int{{-1, 0}, {0, 2}, {5, 0}, {1, 1}}
	for _, c := range cases {
		if s.Reorder(c[0], c[1]) {
			t.Fatalf("Reorder(%d,%d) should be a no-op", c[0], c[1])
		}
	}
	if ts := s.Tasks(); ts[0].Title != "B" || ts[1].Title != "A" {
		t.Fatalf("order changed: %+v", ts)
	}
}

func TestPersistence_SurvivesReopen(t *testing.T) {
	kv := store.Store{Dir: t.TempDir()}
	s := newTestStore(t, kv)
	a, _ := s.Add("Buy milk", "2 litres")
	done := true
	s.Update(a.ID, Patch{Completed: &done})

	reopened := Open(context.Background(), kv, quietLogger())
	ts := reopened.Tasks()
	if len(ts) != 1 {
		t.Fatalf("expected 1 task after reopen, got %d", len(ts))
	}
	if ts[0].ID != a.ID || !ts[0].Completed || ts[0].Description != "2 litres" {
		t.Fatalf("unexpected reopened task %+v", ts[0])
	}
}

func TestOpen_CorruptStorageYieldsEmpty(t *testing.T) {
	mem := persist.NewMemory()
	mem.SetRaw(StorageKey, `{"tasks": "nope"}`)
	s := Open(context.Background(), mem, quietLogger())
	if s.Len() != 0 {
		t.Fatalf("expected empty collection, got %d", s.Len())
	}
	mem.SetRaw(StorageKey, `null`)
	if got := s.Reload(context.Background()); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil collection for null, got %#v", got)
	}
}

func TestSubscribe_SeesMutations(t *testing.T) {
	s := newTestStore(t, persist.NewMemory())
	var lens []int
	cancel := s.Subscribe(func(ts []model.Task) { lens = append(lens, len(ts)) })
	defer cancel()

	a, _ := s.Add("A", "")
	_, _ = s.Add("B", "")
	s.Delete(a.ID)
	if fmt.Sprint(lens) != "[1 2 1]" {
		t.Fatalf("unexpected notifications %v", lens)
	}
}

func TestParseCollection(t *testing.T) {
	s := newTestStore(t, persist.NewMemory())

	ts, err := s.ParseCollection([]byte(`[{"id":"a","title":"A","completed":true,"createdAt":5}]`))
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(ts) != 1 || !ts[0].Completed || ts[0].CreatedAt != 5 {
		t.Fatalf("unexpected json parse %+v", ts)
	}

	ts, err = s.ParseCollection([]byte("- id: b\n  title: B\n  description: from yaml\n"))
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if ts[0].Description != "from yaml" || ts[0].CreatedAt == 0 {
		t.Fatalf("unexpected yaml parse %+v", ts[0])
	}

	if _, err := s.ParseCollection([]byte(`[{"id":"a","title":"A"},{"id":"a","title":"B"}]`)); err == nil {
		t.Fatalf("expected duplicate id error")
	}
	if _, err := s.ParseCollection([]byte(`[{"id":"a","title":"  "}]`)); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
}
