package tasks

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"tasklist/internal/model"
)

// ParseCollection decodes a task collection from JSON or YAML (YAML is a
// superset, so one decoder handles both). Tasks without a timestamp get now.
func (s *Store) ParseCollection(b []byte) ([]model.Task, error) {
	var ts []model.Task
	if err := yaml.Unmarshal(b, &ts); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	nowMs := s.now().UnixMilli()
	for i := range ts {
		if ts[i].CreatedAt == 0 {
			ts[i].CreatedAt = nowMs
		}
	}
	if err := ValidateCollection(ts); err != nil {
		return nil, err
	}
	if ts == nil {
		ts = []model.Task{}
	}
	return ts, nil
}

// ValidateCollection checks the invariants a stored collection must hold.
func ValidateCollection(ts []model.Task) error {
	seen := make(map[string]int, len(ts))
	for i, t := range ts {
		id := strings.TrimSpace(t.ID)
		if id == "" {
			return fmt.Errorf("task %d: missing id", i)
		}
		if j, ok := seen[id]; ok {
			return fmt.Errorf("task %d: duplicate id %q (also task %d)", i, id, j)
		}
		seen[id] = i
		if err := ValidateTitle(t.Title); err != nil {
			return fmt.Errorf("task %d (%s): %w", i, id, err)
		}
	}
	return nil
}
