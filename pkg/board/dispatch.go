package board

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"taskboard/pkg/task"
)

// Op is a kind of request against the task service.
type Op int

const (
	OpLoad Op = iota
	OpCreate
	OpUpdate
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	}
	return "load"
}

// ParseOp is the inverse of Op.String for the mutating operations.
func ParseOp(s string) (Op, bool) {
	for _, op := range []Op{OpCreate, OpUpdate, OpDelete} {
		if op.String() == s {
			return op, true
		}
	}
	return OpLoad, false
}

// Form is the add-task form of a surface.
type Form interface {
	// Values returns the raw name, due date and cost inputs.
	Values() (name, dataLimit, cost string)
	// Reset clears the inputs.
	Reset()
}

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, p Prompt) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, p Prompt) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, p Prompt) bool { return f(ctx, p) }

// Answer is a Confirmer with a fixed answer, for surfaces that collected the
// confirmation before dispatching.
type Answer bool

// Confirm implements Confirmer.
func (a Answer) Confirm(context.Context, Prompt) bool { return bool(a) }

// Outcome is the result of one dispatcher call.
type Outcome struct {
	Op       Op
	OK       bool
	Skipped  bool // delete declined, nothing was sent
	Reloaded bool // a reload ran after the request, successful or not
	Code     Code
	Notice   Notice
	Err      error
}

// Dispatcher sends mutations and re-synchronizes the table afterwards. All
// three operations share one contract:
//
//   - success: success notice, then a full reload
//   - rejection by the service: classified error notice, then a full reload
//   - service unreachable: connection notice, no reload
//   - input that cannot be parsed: warning notice, nothing sent
type Dispatcher struct {
	svc     task.Mutator
	sync    *Synchronizer
	catalog *Catalog
	notify  Notifier
	log     *log.Logger
}

// NewDispatcher creates a Dispatcher. notify and logger may be nil.
func NewDispatcher(svc task.Mutator, s *Synchronizer, c *Catalog, notify Notifier, logger *log.Logger) *Dispatcher {
	if notify == nil {
		notify = discardNotifier{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Dispatcher{
		svc:     svc,
		sync:    s,
		catalog: c,
		notify:  notify,
		log:     logger.WithPrefix("dispatch"),
	}
}

// Submit creates a task from the add form and clears the form on success.
func (d *Dispatcher) Submit(ctx context.Context, form Form) Outcome {
	name, due, cost := form.Values()
	draft, err := task.NewDraft(name, due, cost)
	out := d.mutate(ctx, OpCreate, err, func(ctx context.Context) error {
		return d.svc.Create(ctx, draft)
	})
	if out.OK {
		form.Reset()
	}
	return out
}

// Save sends an edited row. The add form is left alone.
func (d *Dispatcher) Save(ctx context.Context, e Edit) Outcome {
	draft, err := e.Draft()
	return d.mutate(ctx, OpUpdate, err, func(ctx context.Context) error {
		return d.svc.Update(ctx, draft)
	})
}

// Remove deletes the task with id once c confirms. Declining sends nothing.
func (d *Dispatcher) Remove(ctx context.Context, id task.ID, c Confirmer) Outcome {
	if !c.Confirm(ctx, d.catalog.DeletePrompt()) {
		d.log.Debug("delete declined", "id", id)
		return Outcome{Op: OpDelete, Skipped: true}
	}
	return d.mutate(ctx, OpDelete, nil, func(ctx context.Context) error {
		return d.svc.Delete(ctx, id)
	})
}

func (d *Dispatcher) mutate(ctx context.Context, op Op, inputErr error, call func(context.Context) error) Outcome {
	out := Outcome{Op: op}
	if inputErr != nil {
		out.Err = inputErr
		out.Code = CodeOf(inputErr)
		out.Notice = d.catalog.Failure(op, out.Code)
		d.notify.Notify(out.Notice)
		return out
	}

	cid := task.CorrelationID(ctx)
	if cid == "" {
		cid = uuid.NewString()
		ctx = task.WithCorrelationID(ctx, cid)
	}

	err := call(ctx)
	if err != nil {
		out.Err = err
		out.Code = CodeOf(err)
		out.Notice = d.catalog.Failure(op, out.Code)
		d.log.Warn("mutation failed", "op", op, "code", out.Code, "correlation_id", cid, "err", err)
	} else {
		out.OK = true
		out.Notice = d.catalog.Success(op)
		d.log.Info("mutation applied", "op", op, "correlation_id", cid)
	}
	d.notify.Notify(out.Notice)

	if errors.Is(err, task.ErrUnreachable) {
		return out
	}
	// Reload failures are reported by the synchronizer itself.
	_ = d.sync.Reload(ctx)
	out.Reloaded = true
	return out
}
