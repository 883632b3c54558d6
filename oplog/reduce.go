package oplog

import (
	"cmp"

	"github.com/google/uuid"
	"github.com/schwmi/oplog/clock"
)

// Cutoff decides, while folding operations forward from the baseline,
// where a Reduce should stop. It receives the operation currently being
// folded and the running hash chain value *after* that operation has been
// mixed in, so a Cutoff can match on operation identity (UntilID),
// content-addressed history (UntilHash), or arbitrary state (a
// hand-written predicate).
type Cutoff[A cmp.Ordered, Op Operation] func(op LoggedOperation[A, Op], runningHash [32]byte) bool

// UntilID stops reduction at the operation with the given UUID.
func UntilID[A cmp.Ordered, Op Operation](id uuid.UUID) Cutoff[A, Op] {
	return func(op LoggedOperation[A, Op], _ [32]byte) bool {
		return op.ID() == id
	}
}

// UntilHash stops reduction the moment the running hash chain equals
// target - the mechanism two replicas use to recognize a shared
// compaction point even though they hold differently-truncated histories
// (spec §4.8, §9 "Hash chain").
func UntilHash[A cmp.Ordered, Op Operation](target [32]byte) Cutoff[A, Op] {
	return func(_ LoggedOperation[A, Op], runningHash [32]byte) bool {
		return runningHash == target
	}
}

// Reduce collapses every operation up to and including the one the cutoff
// matches into a new baseline, identified by the SHA-256 hash chain
// (spec §4.8). It fails with ErrReduceNotPossible - leaving the log
// completely unchanged - if the cutoff never matches.
func (l *Log[L, A, S, Op]) Reduce(cutoff Cutoff[A, Op]) error {
	snap := l.baseline.Snapshot
	summary := l.initialSummary
	runningHash := l.baseline.SHA256
	var lastClock *clock.VectorClock[A]
	cutoffIndex := -1

	for i, logged := range l.operations {
		newSnap, outcome := snap.Apply(logged.Operation())
		snap = newSnap
		summary = recordApply(summary, logged, outcome.Kind(), outcome.Reason())
		runningHash = chainHash(runningHash, logged.ID())
		c := logged.Clock()
		lastClock = &c

		if cutoff(logged, runningHash) {
			cutoffIndex = i
			break
		}
	}

	if cutoffIndex < 0 {
		return ErrReduceNotPossible
	}

	remaining := make([]LoggedOperation[A, Op], len(l.operations)-cutoffIndex-1)
	copy(remaining, l.operations[cutoffIndex+1:])

	l.baseline = Baseline[S, A]{Snapshot: snap, SHA256: runningHash, Clock: lastClock}
	l.initialSummary = summary
	l.operations = remaining
	l.recomputeFromBaseline()
	l.logf("reduce actor=%v cutoffIndex=%d remaining=%d", l.actorID, cutoffIndex, len(remaining))
	return nil
}
