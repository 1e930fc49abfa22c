package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tasklist/internal/listview"
	"tasklist/internal/model"
	"tasklist/internal/publish"
)

func newPublishCmd(app *App) *cobra.Command {
	var to, pagesDir, title, filter, sort string
	var descriptions, overwrite bool

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Export the list as a Markdown checklist (derived, not canonical)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			to = strings.TrimSpace(to)
			pagesDir = strings.TrimSpace(pagesDir)
			if to == "" && pagesDir == "" {
				return writeErr(cmd, errors.New("missing --to (or --pages)"))
			}
			if err := openStores(cmd.Context(), app, true); err != nil {
				return writeErr(cmd, err)
			}
			v, err := listViewFor(app, filter, sort)
			if err != nil {
				return writeErr(cmd, err)
			}
			rows := v.Rows()
			opt := publish.WriteOptions{
				Overwrite: overwrite,
				Render: publish.RenderOptions{
					Title:               title,
					Filter:              v.Filter(),
					Sort:                v.Sort(),
					IncludeDescriptions: descriptions,
				},
			}

			var written []string
			if to != "" {
				res, err := publish.WriteList(rows, listview.Summarize(app.tasks.Tasks()), to, opt)
				if err != nil {
					return writeErr(cmd, err)
				}
				written = append(written, res.Written...)
			}
			if pagesDir != "" {
				ts := make([]model.Task, 0, len(rows))
				for _, r := range rows {
					ts = append(ts, r.Task)
				}
				res, err := publish.WriteTasks(ts, pagesDir, opt)
				written = append(written, res.Written...)
				if err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{
				"data": publish.WriteResult{Written: written},
			})
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Checklist file to write (e.g. tasks.md)")
	cmd.Flags().StringVar(&pagesDir, "pages", "", "Also write one page per task under <dir>/tasks/")
	cmd.Flags().StringVar(&title, "title", "", "Document heading (default: Tasks)")
	cmd.Flags().StringVar(&filter, "filter", "", "Filter (all|pending|completed)")
	cmd.Flags().StringVar(&sort, "sort", "", "Sort (manual|newest|oldest|completed-first)")
	cmd.Flags().BoolVar(&descriptions, "descriptions", false, "Include descriptions under each task")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing files")

	return cmd
}
