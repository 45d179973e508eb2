package board

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"taskboard/pkg/task"
)

// Notifier shows notices to the user.
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notice)

// Notify implements Notifier.
func (f NotifierFunc) Notify(n Notice) { f(n) }

type discardNotifier struct{}

func (discardNotifier) Notify(Notice) {}

// Synchronizer keeps a rendered snapshot of the remote collection. The
// snapshot is replaced only after a fetch succeeds and is never patched in
// place, so a failed reload leaves the previous table intact.
//
// Overlapping reloads are sequenced: each reload takes a generation when it
// starts and its result is dropped if a newer reload has already been
// applied. The last request wins, not the last response.
type Synchronizer struct {
	svc     task.Lister
	fmt     *Formatter
	catalog *Catalog
	notify  Notifier
	log     *log.Logger

	mu       sync.Mutex
	started  uint64
	applied  uint64
	table    Table
	onChange func(Table)
}

// NewSynchronizer creates a Synchronizer. notify and logger may be nil.
func NewSynchronizer(svc task.Lister, f *Formatter, c *Catalog, notify Notifier, logger *log.Logger) *Synchronizer {
	if notify == nil {
		notify = discardNotifier{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Synchronizer{
		svc:     svc,
		fmt:     f,
		catalog: c,
		notify:  notify,
		log:     logger.WithPrefix("sync"),
	}
}

// OnChange registers fn to be called after every applied snapshot.
func (s *Synchronizer) OnChange(fn func(Table)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Start performs the initial load.
func (s *Synchronizer) Start(ctx context.Context) error {
	return s.Reload(ctx)
}

// Reload fetches the full collection and swaps in a freshly rendered table.
func (s *Synchronizer) Reload(ctx context.Context) error {
	if task.CorrelationID(ctx) == "" {
		ctx = task.WithCorrelationID(ctx, uuid.NewString())
	}

	s.mu.Lock()
	s.started++
	gen := s.started
	s.mu.Unlock()

	begin := time.Now()
	tasks, err := s.svc.List(ctx)
	if err != nil {
		s.mu.Lock()
		applied := s.applied
		s.mu.Unlock()
		if gen < applied {
			// A newer table is already on screen; this failure is moot.
			s.log.Debug("stale reload failed", "gen", gen, "applied", applied, "err", err)
			return fmt.Errorf("reload: %w", err)
		}
		s.log.Warn("reload failed", "gen", gen, "correlation_id", task.CorrelationID(ctx), "err", err)
		code := CodeOf(err)
		if code != CodeUnreachable {
			code = CodeUnknown
		}
		s.notify.Notify(s.catalog.Failure(OpLoad, code))
		return fmt.Errorf("reload: %w", err)
	}
	rows := RenderTable(s.fmt, tasks)

	s.mu.Lock()
	if applied := s.applied; gen < applied {
		s.mu.Unlock()
		s.log.Debug("stale reload dropped", "gen", gen, "applied", applied)
		return nil
	}
	s.applied = gen
	s.table = Table{Rows: rows, Generation: gen, LoadedAt: time.Now()}
	table, fn := s.table, s.onChange
	s.mu.Unlock()

	s.log.Debug("reloaded", "gen", gen, "rows", len(rows), "took", time.Since(begin), "correlation_id", task.CorrelationID(ctx))
	if fn != nil {
		fn(table)
	}
	return nil
}

// Snapshot returns the last applied table.
func (s *Synchronizer) Snapshot() Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table
}
