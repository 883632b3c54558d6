package oplog

// clone returns an independent working copy of the log, used by Merge to
// speculatively reduce a replica's history without mutating the original
// (spec §4.6: "asks the other, a working copy, to reduce").
func (l *Log[L, A, S, Op]) clone() *Log[L, A, S, Op] {
	ops := make([]LoggedOperation[A, Op], len(l.operations))
	copy(ops, l.operations)

	undo := make([]undoEntry[Op], len(l.undoStack.entries))
	copy(undo, l.undoStack.entries)
	redo := make([]undoEntry[Op], len(l.redoStack.entries))
	copy(redo, l.redoStack.entries)

	return &Log[L, A, S, Op]{
		logID:          l.logID,
		actorID:        l.actorID,
		baseline:       l.baseline,
		initialSummary: l.initialSummary.Clone(),
		operations:     ops,
		clockProvider:  l.clockProvider.Clone(),
		snapshot:       l.snapshot,
		summary:        l.summary.Clone(),
		undoStack:      opStack[Op]{entries: undo},
		redoStack:      opStack[Op]{entries: redo},
		logger:         l.logger,
	}
}
