package model

import (
	"fmt"
	"strings"
	"time"
)

type Task struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Completed   bool   `json:"completed" yaml:"completed"`
	// CreatedAt is milliseconds since the Unix epoch.
	CreatedAt int64 `json:"createdAt" yaml:"createdAt"`
}

func (t Task) Created() time.Time {
	return time.UnixMilli(t.CreatedAt)
}

type ThemeMode string

const (
	ThemeLight ThemeMode = "light"
	ThemeDark  ThemeMode = "dark"
)

func (m ThemeMode) Valid() bool {
	return m == ThemeLight || m == ThemeDark
}

// Toggled returns the opposite mode. Anything that is not dark toggles to dark.
func (m ThemeMode) Toggled() ThemeMode {
	if m == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

func ParseThemeMode(s string) (ThemeMode, error) {
	m := ThemeMode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("invalid theme mode %q (expected light|dark)", s)
	}
	return m, nil
}

type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

var filters = []Filter{FilterAll, FilterPending, FilterCompleted}

// Filters lists the filters in display order.
func Filters() []Filter {
	return append([]Filter(nil), filters...)
}

func (f Filter) Label() string {
	switch f {
	case FilterPending:
		return "Pending"
	case FilterCompleted:
		return "Completed"
	default:
		return "All"
	}
}

// Next cycles through the filters in display order.
func (f Filter) Next() Filter {
	for i, cur := range filters {
		if cur == f {
			return filters[(i+1)%len(filters)]
		}
	}
	return FilterAll
}

func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "pending", "active", "open":
		return FilterPending, nil
	case "completed", "done":
		return FilterCompleted, nil
	default:
		return "", fmt.Errorf("invalid filter %q (expected all|pending|completed)", s)
	}
}

type SortMode string

const (
	SortManual         SortMode = "manual"
	SortNewest         SortMode = "newest"
	SortOldest         SortMode = "oldest"
	SortCompletedFirst SortMode = "completed-first"
)

var sortModes = []SortMode{SortManual, SortNewest, SortOldest, SortCompletedFirst}

func SortModes() []SortMode {
	return append([]SortMode(nil), sortModes...)
}

func (s SortMode) Label() string {
	switch s {
	case SortNewest:
		return "Newest First"
	case SortOldest:
		return "Oldest First"
	case SortCompletedFirst:
		return "Completed First"
	default:
		return "Manual"
	}
}

func (s SortMode) Next() SortMode {
	for i, cur := range sortModes {
		if cur == s {
			return sortModes[(i+1)%len(sortModes)]
		}
	}
	return SortManual
}

// ParseSortMode accepts the canonical names plus the legacy createdAt_* spellings.
func ParseSortMode(s string) (SortMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "manual":
		return SortManual, nil
	case "newest", "newest-first", "createdat_desc":
		return SortNewest, nil
	case "oldest", "oldest-first", "createdat_asc":
		return SortOldest, nil
	case "completed-first", "completed_first":
		return SortCompletedFirst, nil
	default:
		return "", fmt.Errorf("invalid sort %q (expected manual|newest|oldest|completed-first)", s)
	}
}
