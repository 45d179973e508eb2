// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"strconv"
	"sync"

	"taskboard/pkg/task"
)

// Call is one recorded request against FakeService.
type Call struct {
	Op            string // list, create, update, delete
	Draft         task.Draft
	ID            task.ID
	CorrelationID string
}

// FakeService is an in-memory task.Service with call recording and error
// injection.
type FakeService struct {
	mu     sync.Mutex
	tasks  []task.Task
	nextID int
	calls  []Call

	// Error injection for testing
	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error

	// Validate, when set, runs before create and update are applied.
	Validate func(d task.Draft) error
}

// NewFakeService creates a FakeService holding tasks in the given order.
func NewFakeService(tasks ...task.Task) *FakeService {
	f := &FakeService{nextID: 1}
	for _, t := range tasks {
		f.tasks = append(f.tasks, t)
		if n, err := strconv.Atoi(string(t.ID)); err == nil && n >= f.nextID {
			f.nextID = n + 1
		}
	}
	return f
}

// Put adds a task behind the client's back, as another user would.
func (f *FakeService) Put(t task.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, t)
}

// Tasks returns the current collection.
func (f *FakeService) Tasks() []task.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]task.Task(nil), f.tasks...)
}

// Calls returns every recorded call of op, or all calls when op is "".
func (f *FakeService) Calls(op string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Call
	for _, c := range f.calls {
		if op == "" || c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (f *FakeService) record(ctx context.Context, c Call) {
	c.CorrelationID = task.CorrelationID(ctx)
	f.calls = append(f.calls, c)
}

// List implements task.Service.
func (f *FakeService) List(ctx context.Context) ([]task.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(ctx, Call{Op: "list"})
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return append([]task.Task(nil), f.tasks...), nil
}

// Create implements task.Service.
func (f *FakeService) Create(ctx context.Context, d task.Draft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(ctx, Call{Op: "create", Draft: d})
	if f.CreateErr != nil {
		return f.CreateErr
	}
	if f.Validate != nil {
		if err := f.Validate(d); err != nil {
			return err
		}
	}
	t := fromDraft(d)
	t.ID = task.ID(strconv.Itoa(f.nextID))
	t.NumericID = true
	f.nextID++
	f.tasks = append(f.tasks, t)
	return nil
}

// Update implements task.Service.
func (f *FakeService) Update(ctx context.Context, d task.Draft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(ctx, Call{Op: "update", Draft: d, ID: d.ID})
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	if f.Validate != nil {
		if err := f.Validate(d); err != nil {
			return err
		}
	}
	for i := range f.tasks {
		if f.tasks[i].ID == d.ID {
			t := fromDraft(d)
			t.Ordering = f.tasks[i].Ordering
			f.tasks[i] = t
			return nil
		}
	}
	return &task.RejectedError{Status: 404, Message: "Task not found"}
}

// Delete implements task.Service.
func (f *FakeService) Delete(ctx context.Context, id task.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(ctx, Call{Op: "delete", ID: id})
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return &task.RejectedError{Status: 404, Message: "Task not found"}
}

func fromDraft(d task.Draft) task.Task {
	t := task.Task{ID: d.ID, NumericID: d.NumericID, TaskName: d.TaskName, DataLimit: d.DataLimit}
	if d.Cost != nil {
		t.Cost = *d.Cost
	}
	return t
}
