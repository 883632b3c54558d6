package oplog

import (
	"fmt"

	"github.com/schwmi/oplog/clock"
)

// Merge folds another log's operations into this one (spec §4.6). The two
// logs must share a LogID. If their baselines already agree (same
// SHA-256), this degenerates to Insert(other.Operations()).
//
// If the baselines disagree, one replica has compacted history the other
// has not. Whichever replica's initialSummary.LatestClock is older is
// asked - via a working copy, never the original - to Reduce(until: the
// newer replica's baseline hash) so it re-aligns onto the newer replica's
// baseline. If that reconciliation never finds a matching hash (the two
// histories were compacted along genuinely different paths), Merge fails
// with ErrMergeNotPossible and neither log is touched (spec §9 open
// question 2: richer common-ancestor reconciliation is deliberately not
// attempted).
func (l *Log[L, A, S, Op]) Merge(other *Log[L, A, S, Op]) error {
	if l.logID != other.logID {
		return fmt.Errorf("%w: local=%v remote=%v", ErrNonMatchingLogIDs, l.logID, other.logID)
	}

	if l.baseline.SHA256 == other.baseline.SHA256 {
		return l.Insert(other.Operations())
	}

	// Ascending means l's latest-known clock is causally-or-tie-break
	// earlier than other's - l is the older replica. TotalOrder never
	// reports Concurrent; an Equal result is treated as the local replica
	// being older,
	// which keeps the decision deterministic without needing a third
	// signal.
	localIsOlder := l.initialSummary.LatestClock.TotalOrder(other.initialSummary.LatestClock) != clock.Descending

	var older, newer *Log[L, A, S, Op]
	if localIsOlder {
		older, newer = l, other
	} else {
		older, newer = other, l
	}

	// Validate the two histories are actually reconcilable by reducing a
	// throwaway copy of the older replica down to the newer replica's
	// baseline hash. This never touches either real log - it only proves
	// (or disproves) that both baselines were compacted along the same
	// path.
	reconciled := older.clone()
	if err := reconciled.Reduce(UntilHash[A, Op](newer.baseline.SHA256)); err != nil {
		return fmt.Errorf("%w: baselines were compacted along different histories", ErrMergeNotPossible)
	}
	if reconciled.baseline.SHA256 != newer.baseline.SHA256 {
		return fmt.Errorf("%w: reconciled baseline still disagrees", ErrMergeNotPossible)
	}

	if older == l {
		// l is the older, less-compacted replica: its own baseline is
		// weaker than (or equal to) newer's, so newer's operations can
		// be folded straight into l's untouched, uncompacted history.
		return l.Insert(newer.Operations())
	}
	// l is the newer, already-compacted replica: its own baseline
	// already accounts for everything up to the shared cutoff, so only
	// the older replica's validated post-cutoff suffix is new
	// information for l.
	return l.Insert(reconciled.Operations())
}
