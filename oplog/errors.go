package oplog

import "errors"

// Sentinel error kinds (spec §7). Wrap with fmt.Errorf("...: %w", ErrX) to
// add context; callers compare with errors.Is.
var (
	// ErrNonMatchingLogIDs is returned by Merge when the two logs have
	// different LogIDs.
	ErrNonMatchingLogIDs = errors.New("oplog: non-matching log ids")

	// ErrMergeNotPossible is returned when incoming operations fall at
	// or below the local baseline - the caller's history has been
	// compacted away on this replica, or the two replicas' baselines
	// were compacted along different, unreconcilable paths.
	ErrMergeNotPossible = errors.New("oplog: merge not possible")

	// ErrReduceNotPossible is returned when a reduce cutoff never
	// matched any operation in the log.
	ErrReduceNotPossible = errors.New("oplog: reduce not possible")

	// ErrCorruptLog is returned by FromBytes when the decoded container
	// violates a hard precondition (most commonly, its operations are
	// not sorted ascending under the total order).
	ErrCorruptLog = errors.New("oplog: corrupt log")

	// ErrDecode is returned by FromBytes when the bytes cannot be
	// unmarshaled at all.
	ErrDecode = errors.New("oplog: decode error")
)
