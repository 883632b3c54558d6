package oplog

// Append mints a fresh clock for the log's own actor, wraps op into a
// LoggedOperation, folds it into the live snapshot, records the outcome
// in the summary, and pushes an undo entry unless the outcome was
// Skipped. It is infallible: a Skipped outcome is not an error, just a
// no-op fold (spec §4.4). A fresh Append always clears the redo stack.
func (l *Log[L, A, S, Op]) Append(op Op) {
	logged, outcome := l.fold(op)

	switch outcome.Kind() {
	case FullApplied, PartialApplied:
		l.undoStack = l.undoStack.push(undoEntry[Op]{
			revertingOperationID: logged.ID(),
			operation:            outcome.Undo(),
		})
	case Skipped:
		// nothing to undo
	}
	l.redoStack = opStack[Op]{}
}

// fold mints a clock for op, wraps it, and folds it into the live
// snapshot/summary/operations. It never touches undoStack or redoStack -
// callers (Append, Undo, Redo) decide where the resulting Outcome's undo
// operation belongs.
func (l *Log[L, A, S, Op]) fold(op Op) (LoggedOperation[A, Op], Outcome[Op]) {
	clockVal := l.clockProvider.Next()
	logged := NewLoggedOperation[A, Op](l.actorID, clockVal, op)

	newSnap, outcome := l.snapshot.Apply(logged.Operation())
	l.operations = append(l.operations, logged)
	l.snapshot = newSnap
	l.summary = recordApply(l.summary, logged, outcome.Kind(), outcome.Reason())

	if desc := logged.Operation().Describe(); desc != "" {
		l.logf("append actor=%v clock=%s outcome=%s op=%q", logged.Actor(), logged.Clock().Key(), outcome.Kind(), desc)
	} else {
		l.logf("append actor=%v clock=%s outcome=%s", logged.Actor(), logged.Clock().Key(), outcome.Kind())
	}

	return logged, outcome
}
