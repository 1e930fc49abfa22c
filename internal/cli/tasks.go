package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tasklist/internal/listview"
	"tasklist/internal/model"
	"tasklist/internal/tasks"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task"},
		Short:   "Scriptable task commands",
	}

	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksShowCmd(app))
	cmd.AddCommand(newTasksAddCmd(app))
	cmd.AddCommand(newTasksEditCmd(app))
	cmd.AddCommand(newTasksSetCompletedCmd(app, "done", "Mark a task completed", true))
	cmd.AddCommand(newTasksSetCompletedCmd(app, "undo", "Mark a task pending", false))
	cmd.AddCommand(newTasksDeleteCmd(app))
	cmd.AddCommand(newTasksReorderCmd(app))
	cmd.AddCommand(newTasksExportCmd(app))
	cmd.AddCommand(newTasksImportCmd(app))
	cmd.AddCommand(newPublishCmd(app))

	return cmd
}

func newTasksListCmd(app *App) *cobra.Command {
	var filter, sort string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks (filtered and sorted like the UI)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, app, filter, sort)
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "Filter (all|pending|completed; default from config)")
	cmd.Flags().StringVar(&sort, "sort", "", "Sort (manual|newest|oldest|completed-first; default from config)")
	return cmd
}

func runList(cmd *cobra.Command, app *App, filter, sort string) error {
	if err := openStores(cmd.Context(), app, true); err != nil {
		return writeErr(cmd, err)
	}
	v, err := listViewFor(app, filter, sort)
	if err != nil {
		return writeErr(cmd, err)
	}
	rows := v.Rows()
	out := make([]model.Task, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Task)
	}
	return writeOut(cmd, app, map[string]any{
		"data": out,
		"meta": map[string]any{
			"filter":  v.Filter(),
			"sort":    v.Sort(),
			"summary": listview.Summarize(app.tasks.Tasks()),
		},
	})
}

// listViewFor builds a view with flag values, falling back to the configured defaults.
func listViewFor(app *App, filter, sort string) (*listview.View, error) {
	v := listview.New(app.tasks)
	f, s := app.cfg.TUI.Filter, app.cfg.TUI.Sort
	var err error
	if strings.TrimSpace(filter) != "" {
		if f, err = model.ParseFilter(filter); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(sort) != "" {
		if s, err = model.ParseSortMode(sort); err != nil {
			return nil, err
		}
	}
	if f != "" {
		v.SetFilter(f)
	}
	if s != "" {
		v.SetSort(s)
	}
	return v, nil
}

func newTasksShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := openStores(cmd.Context(), app, true); err != nil {
				return writeErr(cmd, err)
			}
			t, idx, ok := app.tasks.Find(strings.TrimSpace(args[0]))
			if !ok {
				return writeErr(cmd, errNotFound("task", args[0]))
			}
			return writeOut(cmd, app, map[string]any{
				"data": t,
				"meta": map[string]any{"index": idx},
			})
		},
	}
}

func newTasksAddCmd(app *App) *cobra.Command {
	var title, description string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task at the top of the list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := openStores(cmd.Context(), app, true); err != nil {
				return writeErr(cmd, err)
			}
			t, err := app.tasks.Add(title, description)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data":   t,
				"_hints": []string{"tasklist tasks done " + t.ID},
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Task title (required)")
	cmd.Flags().StringVar(&description, "description", "", "Task description (Markdown)")
	return cmd
}

func newTasksEditCmd(app *App) *cobra.Command {
	var title, description string

	cmd := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Change a task's title or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p tasks.Patch
			if cmd.Flags().Changed("title") {
				if err := tasks.ValidateTitle(title); err != nil {
					return writeErr(cmd, err)
				}
				p.Title = &title
			}
			if cmd.Flags().Changed("description") {
				p.Description = &description
			}
			if p.Empty() {
				return writeErr(cmd, errors.New("nothing to update (use --title or --description)"))
			}
			return updateTask(cmd, app, args[0], p)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description (Markdown)")
	return cmd
}

func newTasksSetCompletedCmd(app *App, use, short string, completed bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <task-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateTask(cmd, app, args[0], tasks.Patch{Completed: &completed})
		},
	}
}

func updateTask(cmd *cobra.Command, app *App, id string, p tasks.Patch) error {
	if err := openStores(cmd.Context(), app, true); err != nil {
		return writeErr(cmd, err)
	}
	id = strings.TrimSpace(id)
	t, ok := app.tasks.Update(id, p)
	if !ok {
		return writeErr(cmd, errNotFound("task", id))
	}
	return writeOut(cmd, app, map[string]any{"data": t})
}

func newTasksDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := openStores(cmd.Context(), app, true); err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			if !app.tasks.Delete(id) {
				return writeErr(cmd, errNotFound("task", id))
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": id}})
		},
	}
}

func newTasksReorderCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <from> <to>",
		Short: "Move the task at position <from> to position <to> (0-based, manual order)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := strconv.Atoi(args[0])
			if err != nil {
				return writeErr(cmd, fmt.Errorf("invalid <from>: %w", err))
			}
			to, err := strconv.Atoi(args[1])
			if err != nil {
				return writeErr(cmd, fmt.Errorf("invalid <to>: %w", err))
			}
			if err := openStores(cmd.Context(), app, true); err != nil {
				return writeErr(cmd, err)
			}
			if n := app.tasks.Len(); from < 0 || from >= n || to < 0 || to >= n {
				return writeErr(cmd, fmt.Errorf("position out of range (have %d tasks)", n))
			}
			v := listview.New(app.tasks)
			moved := v.Drop(listview.DropResult{Source: from, Destination: &to})
			return writeOut(cmd, app, map[string]any{
				"data": app.tasks.Tasks(),
				"meta": map[string]any{"moved": moved},
			})
		},
	}
}

func newTasksExportCmd(app *App) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stored collection (no envelope) as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := openStores(cmd.Context(), app, true); err != nil {
				return writeErr(cmd, err)
			}
			if strings.TrimSpace(to) == "" {
				return writeOut(cmd, app, app.tasks.Tasks())
			}
			f, err := os.Create(to)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := writeOutTo(f, app, app.tasks.Tasks()); err != nil {
				_ = f.Close()
				return writeErr(cmd, err)
			}
			if err := f.Close(); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"written": to, "count": app.tasks.Len()}})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Write to a file instead of stdout")
	return cmd
}

func newTasksImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace the collection with tasks read from JSON or YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var b []byte
			var err error
			if args[0] == "-" {
				b, err = io.ReadAll(cmd.InOrStdin())
			} else {
				b, err = os.ReadFile(args[0])
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := openStores(cmd.Context(), app, true); err != nil {
				return writeErr(cmd, err)
			}
			ts, err := app.tasks.ParseCollection(b)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := tasks.ValidateCollection(ts); err != nil {
				return writeErr(cmd, err)
			}
			app.tasks.Replace(ts)
			app.logger.Info("tasks imported", "count", len(ts))
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"imported": len(ts)}})
		},
	}
}
