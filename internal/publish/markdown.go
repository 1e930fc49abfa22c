package publish

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"tasklist/internal/listview"
	"tasklist/internal/model"
)

type RenderOptions struct {
	// Title is the document heading. Empty means "Tasks".
	Title               string
	Filter              model.Filter
	Sort                model.SortMode
	IncludeDescriptions bool
}

// RenderListMarkdown renders rows as a Markdown checklist in display order.
func RenderListMarkdown(rows []listview.Row, sum listview.Summary, opt RenderOptions) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	title := strings.TrimSpace(opt.Title)
	if title == "" {
		title = "Tasks"
	}
	writeLn("# " + title)
	writeLn("")

	meta := []string{fmt.Sprintf("%d tasks, %d pending, %d completed", sum.Total, sum.Pending, sum.Completed)}
	if opt.Filter != "" && opt.Filter != model.FilterAll {
		meta = append(meta, "filter: "+opt.Filter.Label())
	}
	if opt.Sort != "" && opt.Sort != model.SortManual {
		meta = append(meta, "sort: "+opt.Sort.Label())
	}
	writeLn("_" + strings.Join(meta, " · ") + "_")
	writeLn("")

	if len(rows) == 0 {
		writeLn("Nothing here yet.")
		return buf.String()
	}
	for _, r := range rows {
		writeLn(checklistLine(r.Task))
		if !opt.IncludeDescriptions {
			continue
		}
		if desc := strings.TrimSpace(r.Task.Description); desc != "" {
			for _, ln := range strings.Split(desc, "\n") {
				writeLn(strings.TrimRight("  "+ln, " "))
			}
		}
	}
	return buf.String()
}

// RenderTaskMarkdown renders a single task as a standalone page.
func RenderTaskMarkdown(t model.Task) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + singleLine(t.Title))
	writeLn("")
	writeLn("- ID: " + t.ID)
	status := "pending"
	if t.Completed {
		status = "completed"
	}
	writeLn("- Status: " + status)
	writeLn("- Created: " + t.Created().UTC().Format(time.RFC3339))

	if desc := strings.TrimSpace(t.Description); desc != "" {
		writeLn("")
		writeLn("## Description")
		writeLn("")
		writeLn(desc)
	}
	return buf.String()
}

func checklistLine(t model.Task) string {
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}
	return "- " + box + " " + singleLine(t.Title)
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
