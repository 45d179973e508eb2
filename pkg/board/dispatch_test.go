package board

import (
	"context"
	"fmt"
	"testing"

	"golang.org/x/text/language"

	"taskboard/internal/testutil"
	"taskboard/pkg/task"
)

type fakeForm struct {
	name, due, cost string
	resets          int
}

func (f *fakeForm) Values() (string, string, string) { return f.name, f.due, f.cost }

func (f *fakeForm) Reset() {
	f.name, f.due, f.cost = "", "", ""
	f.resets++
}

type harness struct {
	svc   *testutil.FakeService
	sync  *Synchronizer
	d     *Dispatcher
	notes *noticeLog
}

func newHarness(t *testing.T, tasks ...task.Task) *harness {
	t.Helper()
	svc := testutil.NewFakeService(tasks...)
	notes := &noticeLog{}
	f := NewFormatter(language.BrazilianPortuguese)
	c := NewCatalog(language.BrazilianPortuguese)
	s := NewSynchronizer(svc, f, c, notes, nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return &harness{svc: svc, sync: s, d: NewDispatcher(svc, s, c, notes, nil), notes: notes}
}

func TestSubmitCreatesAndReloads(t *testing.T) {
	h := newHarness(t)
	form := &fakeForm{name: "Buy paint", due: "2024-11-10", cost: "1500.75"}

	out := h.d.Submit(context.Background(), form)
	if !out.OK || !out.Reloaded {
		t.Fatalf("expected success and a reload, got %+v", out)
	}

	creates := h.svc.Calls("create")
	if len(creates) != 1 {
		t.Fatalf("expected exactly one create request, got %d", len(creates))
	}
	d := creates[0].Draft
	if d.ID != "" {
		t.Errorf("create must not carry an id, got %q", d.ID)
	}
	if d.TaskName != "Buy paint" || d.DataLimit != "2024-11-10" || d.Cost == nil || *d.Cost != 1500.75 {
		t.Errorf("unexpected create payload %+v", d)
	}

	if form.resets != 1 {
		t.Errorf("form should be reset once, got %d", form.resets)
	}
	if out.Notice.Title != "Tarefa Criada!" || h.notes.last().Kind != KindSuccess {
		t.Errorf("unexpected notice %+v", out.Notice)
	}

	tbl := h.sync.Snapshot()
	if len(tbl.Rows) != 1 || tbl.Rows[0].Name != "Buy paint" || !tbl.Rows[0].HighCost {
		t.Errorf("table was not rebuilt from the service: %+v", tbl.Rows)
	}
	if tbl.Generation != 2 {
		t.Errorf("expected a second reload, generation = %d", tbl.Generation)
	}

	// The create and the reload that follows share one correlation id.
	lists := h.svc.Calls("list")
	if creates[0].CorrelationID == "" || lists[len(lists)-1].CorrelationID != creates[0].CorrelationID {
		t.Errorf("create and follow-up reload should share a correlation id")
	}
}

func TestSubmitInvalidCostSendsNothing(t *testing.T) {
	h := newHarness(t)
	form := &fakeForm{name: "x", due: "2024-11-10", cost: "ten"}

	out := h.d.Submit(context.Background(), form)
	if out.OK || out.Code != CodeInvalidCost || out.Reloaded {
		t.Fatalf("expected invalid cost outcome without reload, got %+v", out)
	}
	if n := len(h.svc.Calls("create")); n != 0 {
		t.Errorf("expected no create request, got %d", n)
	}
	if form.resets != 0 || form.name != "x" {
		t.Error("form must keep its input after a failure")
	}
	if h.notes.last().Kind != KindWarning {
		t.Errorf("expected a warning notice, got %+v", h.notes.last())
	}
}

func TestSubmitRejectedMapsMessage(t *testing.T) {
	h := newHarness(t)
	h.svc.Validate = func(d task.Draft) error {
		if d.Cost != nil && *d.Cost < 0 {
			return &task.RejectedError{Status: 400, Message: "Task cost negative"}
		}
		return nil
	}
	form := &fakeForm{name: "x", due: "2024-11-10", cost: "-5"}

	out := h.d.Submit(context.Background(), form)
	if out.OK || out.Code != CodeCostNegative {
		t.Fatalf("expected cost_negative, got %+v", out)
	}
	if out.Notice.Text != "O custo da tarefa não pode ser negativo." {
		t.Errorf("unexpected notice text %q", out.Notice.Text)
	}
	if form.resets != 0 {
		t.Error("form must not be reset after a rejection")
	}
	if n := len(h.svc.Calls("list")); n != 2 || !out.Reloaded {
		t.Errorf("expected a reload after the rejection, got %d list calls", n)
	}
}

func TestSubmitUnknownRejectionFallsBack(t *testing.T) {
	h := newHarness(t)
	h.svc.CreateErr = &task.RejectedError{Status: 400, Message: "the moon is in the wrong phase"}

	out := h.d.Submit(context.Background(), &fakeForm{name: "x", due: "2024-11-10", cost: "1"})
	if out.Code != CodeUnknown || out.Notice.Text != "Ocorreu um erro ao criar a task." {
		t.Errorf("expected generic fallback, got %+v", out)
	}
}

func TestUnreachableSkipsReload(t *testing.T) {
	h := newHarness(t, task.Task{ID: "1", TaskName: "a", DataLimit: "2024-11-10"})
	h.svc.CreateErr = fmt.Errorf("post: %w", task.ErrUnreachable)

	out := h.d.Submit(context.Background(), &fakeForm{name: "x", due: "2024-11-10", cost: "1"})
	if out.Code != CodeUnreachable || out.Notice.Title != "Erro de Conexão" {
		t.Fatalf("expected connection failure, got %+v", out)
	}
	if n := len(h.svc.Calls("list")); n != 1 || out.Reloaded {
		t.Errorf("expected no reload, got %d list calls", n)
	}
	if len(h.sync.Snapshot().Rows) != 1 {
		t.Error("table should be untouched")
	}
}

func TestSaveSendsEditedValuesWithOriginalID(t *testing.T) {
	h := newHarness(t,
		task.Task{ID: "1", TaskName: "a", Cost: 10, DataLimit: "2024-11-10"},
		task.Task{ID: "2", TaskName: "b", Cost: 20, DataLimit: "2024-11-11"},
	)
	form := &fakeForm{name: "pending add"}

	row, _ := h.sync.Snapshot().Find("2")
	e := row.BeginEdit()
	e.Name = "b renamed"
	e.Cost = "2500"
	e.Due = "2025-01-31"

	out := h.d.Save(context.Background(), e)
	if !out.OK {
		t.Fatalf("expected success, got %+v", out)
	}
	updates := h.svc.Calls("update")
	if len(updates) != 1 {
		t.Fatalf("expected one update, got %d", len(updates))
	}
	d := updates[0].Draft
	if d.ID != "2" || d.TaskName != "b renamed" || d.DataLimit != "2025-01-31" || *d.Cost != 2500 {
		t.Errorf("unexpected update payload %+v", d)
	}
	if form.resets != 0 || form.name != "pending add" {
		t.Error("update must not touch the add form")
	}

	row, _ = h.sync.Snapshot().Find("2")
	if row.Name != "b renamed" || !row.HighCost || row.Due != "31 de janeiro de 2025" {
		t.Errorf("row not rebuilt from the service: %+v", row)
	}
}

func TestRemoveRequiresConfirmation(t *testing.T) {
	h := newHarness(t,
		task.Task{ID: "1", TaskName: "a", DataLimit: "2024-11-10"},
		task.Task{ID: "2", TaskName: "b", DataLimit: "2024-11-11"},
	)

	var asked Prompt
	out := h.d.Remove(context.Background(), "1", ConfirmFunc(func(_ context.Context, p Prompt) bool {
		asked = p
		return false
	}))
	if !out.Skipped || out.OK {
		t.Errorf("declined delete should be skipped, got %+v", out)
	}
	if asked.Title != "Tem certeza?" {
		t.Errorf("unexpected prompt %+v", asked)
	}
	if n := len(h.svc.Calls("delete")); n != 0 {
		t.Fatalf("declining must not send a delete, got %d", n)
	}
	if n := len(h.svc.Calls("list")); n != 1 {
		t.Errorf("declining must not reload, got %d list calls", n)
	}

	out = h.d.Remove(context.Background(), "1", Answer(true))
	if !out.OK {
		t.Fatalf("expected success, got %+v", out)
	}
	deletes := h.svc.Calls("delete")
	if len(deletes) != 1 || deletes[0].ID != "1" {
		t.Fatalf("expected exactly one delete for id 1, got %+v", deletes)
	}
	tbl := h.sync.Snapshot()
	if len(tbl.Rows) != 1 || tbl.Rows[0].ID != "2" {
		t.Errorf("unexpected table after delete %+v", tbl.Rows)
	}
}

func TestRemoveRejectedStillReloads(t *testing.T) {
	h := newHarness(t, task.Task{ID: "1", TaskName: "a", DataLimit: "2024-11-10"})

	// Someone else removed the task and added another one.
	h.svc.Delete(context.Background(), "1")
	h.svc.Put(task.Task{ID: "7", TaskName: "z", DataLimit: "2024-11-10"})

	out := h.d.Remove(context.Background(), "1", Answer(true))
	if out.OK || out.Notice.Title != "Erro ao excluir Tarefa" {
		t.Fatalf("expected a delete failure, got %+v", out)
	}
	tbl := h.sync.Snapshot()
	if len(tbl.Rows) != 1 || tbl.Rows[0].ID != "7" {
		t.Errorf("table should mirror the service after the failed delete, got %+v", tbl.Rows)
	}
}

func TestParseOp(t *testing.T) {
	for _, op := range []Op{OpCreate, OpUpdate, OpDelete} {
		got, ok := ParseOp(op.String())
		if !ok || got != op {
			t.Errorf("ParseOp(%q) = %v, %v", op.String(), got, ok)
		}
	}
	for _, s := range []string{"", "load", "drop"} {
		if _, ok := ParseOp(s); ok {
			t.Errorf("ParseOp(%q) should fail", s)
		}
	}
}
