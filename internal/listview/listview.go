// Package listview derives the displayed task list from the canonical
// collection and maps drags on that list back onto canonical positions.
package listview

import (
	"slices"

	"tasklist/internal/model"
)

// Row is one displayed task. Index is its position in the canonical
// collection, which is what reorder operations work on.
type Row struct {
	Task  model.Task `json:"task"`
	Index int        `json:"index"`
}

// Matches reports whether t passes the filter.
func Matches(f model.Filter, t model.Task) bool {
	switch f {
	case model.FilterPending:
		return !t.Completed
	case model.FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Compare returns the ordering for a sort mode, or nil for manual order.
func Compare(s model.SortMode) func(a, b model.Task) int {
	switch s {
	case model.SortNewest:
		return func(a, b model.Task) int { return cmpInt64(b.CreatedAt, a.CreatedAt) }
	case model.SortOldest:
		return func(a, b model.Task) int { return cmpInt64(a.CreatedAt, b.CreatedAt) }
	case model.SortCompletedFirst:
		return func(a, b model.Task) int {
			switch {
			case a.Completed == b.Completed:
				return 0
			case a.Completed:
				return -1
			default:
				return 1
			}
		}
	default:
		return nil
	}
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Derive sorts (stably, on a copy) and then filters tasks. The input is not modified.
func Derive(tasks []model.Task, f model.Filter, s model.SortMode) []Row {
	rows := make([]Row, 0, len(tasks))
	for i, t := range tasks {
		rows = append(rows, Row{Task: t, Index: i})
	}
	if cmp := Compare(s); cmp != nil {
		slices.SortStableFunc(rows, func(a, b Row) int { return cmp(a.Task, b.Task) })
	}
	out := rows[:0]
	for _, r := range rows {
		if Matches(f, r.Task) {
			out = append(out, r)
		}
	}
	return out
}

type Summary struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
}

func Summarize(tasks []model.Task) Summary {
	var s Summary
	for _, t := range tasks {
		s.Total++
		if t.Completed {
			s.Completed++
		} else {
			s.Pending++
		}
	}
	return s
}
