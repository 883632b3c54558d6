package oplog

import (
	"cmp"
	"log"
	"os"

	"github.com/schwmi/oplog/clock"
)

// Log is an OperationLog: it owns a LogID, an ActorID, a baseline, the
// summary accumulated at that baseline, an ascending-sorted operation
// sequence, a ClockProvider, and the live snapshot/summary/undo/redo
// state derived by folding the operations onto the baseline.
//
// L is the LogID type, A the ActorID type, S the concrete Snapshot type
// and Op the concrete Operation type. All four must be supplied by the
// caller; the core never constructs concrete Op/S values itself.
//
// A Log is a value-oriented object, not a concurrent one (spec §5): every
// mutating method rebuilds the state it touches locally and swaps it in
// only on success (so a failed mutation leaves the log completely
// unchanged), but nothing here is safe to call from two goroutines at
// once. Snapshot implementations must be value-semantic for the same
// reason the teacher's CRDT state is never passed around as a shared
// pointer: a fold that silently aliases old and new state breaks both the
// undo contract and convergence.
type Log[L cmp.Ordered, A cmp.Ordered, S Snapshot[S, Op], Op Operation] struct {
	logID   L
	actorID A

	baseline       Baseline[S, A]
	initialSummary Summary[A]

	operations    []LoggedOperation[A, Op]
	clockProvider *clock.Provider[A]

	snapshot  S
	summary   Summary[A]
	undoStack opStack[Op]
	redoStack opStack[Op]

	logger *log.Logger
}

// Option configures a Log at construction time.
type Option[L cmp.Ordered, A cmp.Ordered, S Snapshot[S, Op], Op Operation] func(*Log[L, A, S, Op])

// WithTimestampStrategy selects the VectorClock timestamp strategy used by
// this log's ClockProvider. Defaults to clock.UnixTime.
//
// It re-stamps the provider's current clock rather than replacing the
// provider outright, so applying this option after FromBytes has already
// seeded the provider from decoded operations never discards the
// counters it just learned (spec §4.3).
func WithTimestampStrategy[L cmp.Ordered, A cmp.Ordered, S Snapshot[S, Op], Op Operation](strategy clock.Strategy) Option[L, A, S, Op] {
	return func(l *Log[L, A, S, Op]) {
		current := l.clockProvider.Current()
		restamped := clock.FromParts(current.Counters(), current.LastActor(), current.Timestamp(), strategy)
		l.clockProvider = clock.NewProviderFrom[A](l.actorID, restamped)
	}
}

// WithLogger overrides the default logger (log.New(os.Stderr, ...)). Pass
// log.New(io.Discard, "", 0) to silence lifecycle logging entirely.
func WithLogger[L cmp.Ordered, A cmp.Ordered, S Snapshot[S, Op], Op Operation](logger *log.Logger) Option[L, A, S, Op] {
	return func(l *Log[L, A, S, Op]) { l.logger = logger }
}

func defaultLogger() *log.Logger {
	return log.New(os.Stderr, "oplog: ", log.LstdFlags)
}

// New returns a fresh Log with an empty baseline: the canonical zero
// snapshot, the zero hash, and no baseline clock.
func New[L cmp.Ordered, A cmp.Ordered, S Snapshot[S, Op], Op Operation](logID L, actorID A, opts ...Option[L, A, S, Op]) *Log[L, A, S, Op] {
	var zero S
	empty := zero.Empty()

	l := &Log[L, A, S, Op]{
		logID:          logID,
		actorID:        actorID,
		baseline:       Baseline[S, A]{Snapshot: empty, SHA256: zeroHash},
		initialSummary: NewSummary[A](actorID, clock.UnixTime),
		operations:     nil,
		clockProvider:  clock.NewProvider[A](actorID, clock.UnixTime),
		snapshot:       empty,
		logger:         defaultLogger(),
	}
	l.summary = l.initialSummary

	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LogID returns the log's identity.
func (l *Log[L, A, S, Op]) LogID() L { return l.logID }

// ActorID returns the actor this log's owner authors operations as.
func (l *Log[L, A, S, Op]) ActorID() A { return l.actorID }

// Snapshot returns the current derived state.
func (l *Log[L, A, S, Op]) Snapshot() S { return l.snapshot }

// Summary returns the current accumulated metadata.
func (l *Log[L, A, S, Op]) Summary() Summary[A] { return l.summary }

// Operations returns a read-only view of the log's operation sequence,
// ascending under the VectorClock total order.
func (l *Log[L, A, S, Op]) Operations() []LoggedOperation[A, Op] {
	out := make([]LoggedOperation[A, Op], len(l.operations))
	copy(out, l.operations)
	return out
}

// Baseline returns the log's current baseline.
func (l *Log[L, A, S, Op]) Baseline() Baseline[S, A] { return l.baseline }

// CanUndo reports whether Undo has anything to pop.
func (l *Log[L, A, S, Op]) CanUndo() bool { return l.undoStack.len() > 0 }

// CanRedo reports whether Redo has anything to pop.
func (l *Log[L, A, S, Op]) CanRedo() bool { return l.redoStack.len() > 0 }

func (l *Log[L, A, S, Op]) logf(format string, args ...any) {
	if l.logger != nil {
		l.logger.Printf(format, args...)
	}
}
