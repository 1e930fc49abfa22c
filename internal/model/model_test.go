package model

import "testing"

func TestParseSortMode_Aliases(t *testing.T) {
	cases := []struct {
		in   string
		want SortMode
	}{
		{"", SortManual},
		{"manual", SortManual},
		{"createdAt_desc", SortNewest},
		{"newest-first", SortNewest},
		{"createdAt_asc", SortOldest},
		{" Oldest ", SortOldest},
		{"completed_first", SortCompletedFirst},
		{"completed-first", SortCompletedFirst},
	}
	for _, tc := range cases {
		got, err := ParseSortMode(tc.in)
		if err != nil {
			t.Fatalf("ParseSortMode(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseSortMode(%q)=%q, want %q", tc.in, got, tc.want)
		}
	}
	if _, err := ParseSortMode("priority"); err == nil {
		t.Fatalf("expected error for unknown sort")
	}
}

func TestParseFilter(t *testing.T) {
	if f, err := ParseFilter("Done"); err != nil || f != FilterCompleted {
		t.Fatalf("ParseFilter(Done)=%q,%v", f, err)
	}
	if _, err := ParseFilter("someday"); err == nil {
		t.Fatalf("expected error for unknown filter")
	}
}

func TestFilterAndSortCycle(t *testing.T) {
	f := FilterAll
	for range len(Filters()) {
		f = f.Next()
	}
	if f != FilterAll {
		t.Fatalf("filter cycle ended at %q", f)
	}
	s := SortManual
	seen := map[SortMode]bool{}
	for range len(SortModes()) {
		seen[s] = true
		s = s.Next()
	}
	if s != SortManual || len(seen) != 4 {
		t.Fatalf("sort cycle: end=%q seen=%v", s, seen)
	}
}

func TestThemeModeToggle(t *testing.T) {
	if ThemeLight.Toggled() != ThemeDark || ThemeDark.Toggled() != ThemeLight {
		t.Fatalf("toggle is not an involution")
	}
	if _, err := ParseThemeMode("solarized"); err == nil {
		t.Fatalf("expected error for unknown theme")
	}
	if m, err := ParseThemeMode("DARK"); err != nil || m != ThemeDark {
		t.Fatalf("ParseThemeMode(DARK)=%q,%v", m, err)
	}
}
