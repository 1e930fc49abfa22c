package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"tasklist/internal/listview"
	"tasklist/internal/model"
)

type WriteOptions struct {
	Render    RenderOptions
	Overwrite bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteList renders the derived list and writes it to path.
func WriteList(rows []listview.Row, sum listview.Summary, path string, opt WriteOptions) (WriteResult, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return WriteResult{}, err
	}
	if err := writeFile(path, []byte(RenderListMarkdown(rows, sum, opt.Render)), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: []string{path}}, nil
}

// WriteTasks writes one page per task under dir/tasks/.
func WriteTasks(ts []model.Task, dir string, opt WriteOptions) (WriteResult, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	outDir := filepath.Join(filepath.Clean(dir), "tasks")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return WriteResult{}, err
	}
	written := make([]string, 0, len(ts))
	for _, t := range ts {
		if !safeFileStem(t.ID) {
			return WriteResult{Written: written}, errors.New("task id not usable as a file name: " + t.ID)
		}
		p := filepath.Join(outDir, t.ID+".md")
		if err := writeFile(p, []byte(RenderTaskMarkdown(t)), opt.Overwrite); err != nil {
			return WriteResult{Written: written}, err
		}
		written = append(written, p)
	}
	return WriteResult{Written: written}, nil
}

func safeFileStem(id string) bool {
	return id != "" && id != "." && id != ".." && !strings.ContainsAny(id, `/\`)
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
