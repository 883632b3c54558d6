package oplog

import (
	"cmp"
	"fmt"
	"sort"

	"github.com/schwmi/oplog/clock"
)

// Insert merge-sorts a batch of (typically remote) LoggedOperations into
// the local, already-sorted sequence. It is the merge-sort heart of the
// CRDT (spec §4.5): the walk-backward-with-a-sticky-cursor algorithm here
// generalizes the bubble-style reordering main.go's Order function
// performs over communication.Operation slices in the teacher repo, but
// exploits the fact that our operations are individually totally ordered
// rather than re-deriving order from scratch on every call.
func (l *Log[L, A, S, Op]) Insert(ops []LoggedOperation[A, Op]) error {
	if len(ops) == 0 {
		return nil
	}

	sorted := make([]LoggedOperation[A, Op], len(ops))
	copy(sorted, ops)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Clock().TotalOrder(sorted[j].Clock()) == clock.Descending
	})

	latest := sorted[0].Clock()
	earliest := sorted[len(sorted)-1].Clock()

	if l.baseline.Clock != nil {
		switch earliest.TotalOrder(*l.baseline.Clock) {
		case clock.Ascending, clock.Equal:
			return fmt.Errorf("%w: incoming operations do not postdate the local baseline", ErrMergeNotPossible)
		}
	}

	originalLen := len(l.operations)
	var merged []LoggedOperation[A, Op]

	if originalLen == 0 {
		merged = make([]LoggedOperation[A, Op], len(sorted))
		for i, op := range sorted {
			merged[len(sorted)-1-i] = op
		}
	} else {
		merged = make([]LoggedOperation[A, Op], len(l.operations))
		copy(merged, l.operations)

		searchStart := len(merged) - 1
		for _, op := range sorted {
			for i := searchStart; ; i-- {
				if merged[i].ID() == op.ID() {
					searchStart = i
					break
				}
				if merged[i].Clock().TotalOrder(op.Clock()) == clock.Ascending {
					merged = insertLoggedOperationAt(merged, i+1, op)
					searchStart = i
					break
				}
				if i == 0 {
					merged = insertLoggedOperationAt(merged, 0, op)
					searchStart = 0
					break
				}
			}
		}
	}

	if len(merged) == originalLen {
		// every incoming operation was already present - a complete
		// no-op, snapshot/summary/undo stack are untouched.
		return nil
	}

	l.operations = merged
	l.clockProvider.Merge(latest)
	l.recomputeFromBaseline()
	l.logf("insert actor=%v inserted=%d total=%d", l.actorID, len(merged)-originalLen, len(merged))
	return nil
}

func insertLoggedOperationAt[A cmp.Ordered, Op Operation](s []LoggedOperation[A, Op], idx int, v LoggedOperation[A, Op]) []LoggedOperation[A, Op] {
	s = append(s, v)
	copy(s[idx+1:], s[idx:len(s)-1])
	s[idx] = v
	return s
}

// recomputeFromBaseline rebuilds snapshot, summary and the undo stack from
// scratch by replaying every operation in order onto the baseline. The
// redo stack is always cleared (spec §4.5).
func (l *Log[L, A, S, Op]) recomputeFromBaseline() {
	snap := l.baseline.Snapshot
	summary := l.initialSummary
	var undo opStack[Op]

	for _, logged := range l.operations {
		newSnap, outcome := snap.Apply(logged.Operation())
		snap = newSnap
		summary = recordApply(summary, logged, outcome.Kind(), outcome.Reason())

		switch outcome.Kind() {
		case FullApplied, PartialApplied:
			undo = undo.push(undoEntry[Op]{
				revertingOperationID: logged.ID(),
				operation:            outcome.Undo(),
			})
		}
	}

	l.snapshot = snap
	l.summary = summary
	l.undoStack = undo
	l.redoStack = opStack[Op]{}
}
