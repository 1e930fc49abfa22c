package listview

import "tasklist/internal/model"

// Source is the task collection a View reads and reorders.
type Source interface {
	Tasks() []model.Task
	Reorder(from, to int) bool
}

// DropResult describes a finished drag. Source and Destination are canonical
// indices; a nil Destination means the drag was cancelled.
type DropResult struct {
	Source      int  `json:"source"`
	Destination *int `json:"destination"`
}

// View holds the filter and sort selectors for one list surface.
type View struct {
	src    Source
	filter model.Filter
	sort   model.SortMode
}

func New(src Source) *View {
	return &View{src: src, filter: model.FilterAll, sort: model.SortManual}
}

func (v *View) Filter() model.Filter { return v.filter }
func (v *View) Sort() model.SortMode { return v.sort }
func (v *View) SetFilter(f model.Filter) { v.filter = f }
func (v *View) SetSort(s model.SortMode) { v.sort = s }

func (v *View) Rows() []Row {
	return Derive(v.src.Tasks(), v.filter, v.sort)
}

// Drop applies a finished drag. A real move switches the view to manual order
// so the result of the drag is what gets displayed.
func (v *View) Drop(d DropResult) bool {
	if d.Destination == nil || *d.Destination == d.Source {
		return false
	}
	n := len(v.src.Tasks())
	if d.Source < 0 || d.Source >= n || *d.Destination < 0 || *d.Destination >= n {
		return false
	}
	v.sort = model.SortManual
	return v.src.Reorder(d.Source, *d.Destination)
}

// MoveRow drags the displayed row at index row by delta rows (negative is up).
// The target is the canonical position of the row it lands on.
func (v *View) MoveRow(row, delta int) bool {
	rows := v.Rows()
	target := row + delta
	if delta == 0 || row < 0 || row >= len(rows) || target < 0 || target >= len(rows) {
		return false
	}
	dest := rows[target].Index
	return v.Drop(DropResult{Source: rows[row].Index, Destination: &dest})
}
