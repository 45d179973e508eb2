package board

import (
	"testing"

	"golang.org/x/text/language"

	"taskboard/pkg/task"
)

func TestBuildRowHighCostMarker(t *testing.T) {
	f := NewFormatter(language.BrazilianPortuguese)
	tests := []struct {
		cost float64
		want bool
	}{
		{0, false},
		{999.99, false},
		{1000, false},
		{1000.01, true},
		{25000, true},
	}
	for _, tt := range tests {
		row := BuildRow(f, task.Task{ID: "1", TaskName: "x", Cost: tt.cost, DataLimit: "2024-11-10"})
		if row.HighCost != tt.want {
			t.Errorf("cost %v: HighCost = %v, want %v", tt.cost, row.HighCost, tt.want)
		}
	}
}

func TestRenderTableKeepsServerOrder(t *testing.T) {
	f := NewFormatter(language.BrazilianPortuguese)
	tasks := []task.Task{
		{ID: "9", TaskName: "last created", Cost: 5, DataLimit: "2024-01-01"},
		{ID: "2", TaskName: "first created", Cost: 1, DataLimit: "2023-01-01"},
		{ID: "5", TaskName: "middle", Cost: 3, DataLimit: "2025-01-01"},
	}
	rows := RenderTable(f, tasks)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	for i, want := range []task.ID{"9", "2", "5"} {
		if rows[i].ID != want {
			t.Errorf("row %d: ID = %s, want %s", i, rows[i].ID, want)
		}
	}
	if rows[0].Due != "1 de janeiro de 2024" {
		t.Errorf("row 0 due = %q", rows[0].Due)
	}
	if len(RenderTable(f, nil)) != 0 {
		t.Error("empty collection should render no rows")
	}
}

func TestEditKeepsIDKind(t *testing.T) {
	f := NewFormatter(language.AmericanEnglish)
	for _, numeric := range []bool{true, false} {
		row := BuildRow(f, task.Task{ID: "42", NumericID: numeric, TaskName: "Paint", Cost: 1, DataLimit: "2024-11-10"})
		d, err := row.BeginEdit().Draft()
		if err != nil {
			t.Fatalf("Draft: %v", err)
		}
		if d.ID != "42" || d.NumericID != numeric {
			t.Errorf("numeric=%v: draft id %q numeric=%v", numeric, d.ID, d.NumericID)
		}
	}
}

func TestEditMergesOverOriginalID(t *testing.T) {
	f := NewFormatter(language.BrazilianPortuguese)
	row := BuildRow(f, task.Task{ID: "42", TaskName: "Paint", Cost: 1200.5, DataLimit: "2024-11-10T00:00:00Z"})

	e := row.BeginEdit()
	if e.ID != "42" || e.Name != "Paint" || e.Due != "2024-11-10" || e.Cost != "1200.5" {
		t.Fatalf("edit not seeded with current values: %+v", e)
	}

	e.Name = "Paint fence"
	e.Due = "2024-12-01"
	e.Cost = "300"
	d, err := e.Draft()
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}
	if d.ID != "42" {
		t.Errorf("draft id = %s, want 42", d.ID)
	}
	if d.TaskName != "Paint fence" || d.DataLimit != "2024-12-01" || d.Cost == nil || *d.Cost != 300 {
		t.Errorf("draft does not carry edited values: %+v", d)
	}

	e.Cost = "lots"
	if _, err := e.Draft(); err == nil {
		t.Error("expected error for non-numeric cost")
	}
}

func TestTableFind(t *testing.T) {
	f := NewFormatter(language.AmericanEnglish)
	tbl := Table{Rows: RenderTable(f, []task.Task{{ID: "1", TaskName: "a"}, {ID: "2", TaskName: "b"}}), Generation: 1}
	if !tbl.Loaded() {
		t.Error("table with a generation should be loaded")
	}
	if r, ok := tbl.Find("2"); !ok || r.Name != "b" {
		t.Errorf("Find(2) = %+v, %v", r, ok)
	}
	if _, ok := tbl.Find("3"); ok {
		t.Error("Find(3) should miss")
	}
}
