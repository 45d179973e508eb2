// Package board holds the client core of the task list: display
// formatting, row rendering, the synchronization cycle and the mutation
// dispatcher shared by every surface.
package board

import (
	"time"

	"taskboard/pkg/task"
)

// HighCostThreshold is the cost above which a row carries the high-cost marker.
const HighCostThreshold = 1000.0

// Row is the display form of one task. Rows are rebuilt from scratch on
// every synchronization cycle and never outlive the snapshot they came from.
type Row struct {
	ID       task.ID
	Name     string
	Due      string // long localized date
	Cost     string // localized number
	HighCost bool

	numericID bool
	dueInput  string
	costInput string
}

// BuildRow renders one task.
func BuildRow(f *Formatter, t task.Task) Row {
	return Row{
		ID:        t.ID,
		Name:      t.TaskName,
		Due:       f.FormatDate(t.DataLimit),
		Cost:      f.FormatCost(t.Cost),
		HighCost:  t.Cost > HighCostThreshold,
		numericID: t.NumericID,
		dueInput:  f.DateInput(t.DataLimit),
		costInput: CostInput(t.Cost),
	}
}

// RenderTable renders tasks in the order given. The client never reorders:
// ordering is the service's responsibility.
func RenderTable(f *Formatter, tasks []task.Task) []Row {
	rows := make([]Row, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, BuildRow(f, t))
	}
	return rows
}

// BeginEdit returns edit fields seeded with the row's current values.
func (r Row) BeginEdit() Edit {
	return Edit{
		ID:        r.ID,
		Name:      r.Name,
		Due:       r.dueInput,
		Cost:      r.costInput,
		numericID: r.numericID,
	}
}

// Edit holds the raw input of a row in edit mode. Start from Row.BeginEdit
// so the id is sent back in the form the service used.
type Edit struct {
	ID   task.ID
	Name string
	Due  string
	Cost string

	numericID bool
}

// Draft merges the edited values over the original id.
func (e Edit) Draft() (task.Draft, error) {
	d, err := task.NewDraft(e.Name, e.Due, e.Cost)
	if err != nil {
		return task.Draft{}, err
	}
	d.ID = e.ID
	d.NumericID = e.numericID
	return d, nil
}

// Table is an immutable snapshot of the rendered collection.
type Table struct {
	Rows       []Row
	Generation uint64
	LoadedAt   time.Time
}

// Loaded reports whether any reload has completed yet.
func (t Table) Loaded() bool { return t.Generation > 0 }

// Find returns the row for id.
func (t Table) Find(id task.ID) (Row, bool) {
	for _, r := range t.Rows {
		if r.ID == id {
			return r, true
		}
	}
	return Row{}, false
}
