package oplog

// Undo pops the top of the undo stack and appends it as a brand new,
// freshly clocked operation - undo/redo are ordinary log entries, not a
// local-only rollback, so peers see them exactly like any other append
// (spec §4.7). It is a no-op if the undo stack is empty. Whatever new
// undo the reverting append itself produces (assuming it wasn't Skipped)
// is pushed onto the redo stack, which is otherwise left untouched.
func (l *Log[L, A, S, Op]) Undo() {
	entry, rest, ok := l.undoStack.pop()
	if !ok {
		return
	}
	l.undoStack = rest

	logged, outcome := l.fold(entry.operation)
	switch outcome.Kind() {
	case FullApplied, PartialApplied:
		l.redoStack = l.redoStack.push(undoEntry[Op]{
			revertingOperationID: logged.ID(),
			operation:            outcome.Undo(),
		})
	}
}

// Redo is the mirror of Undo: it pops the redo stack, re-applies it as a
// new append, and pushes the resulting undo entry back onto the undo
// stack, which is otherwise left untouched. No-op if the redo stack is
// empty.
func (l *Log[L, A, S, Op]) Redo() {
	entry, rest, ok := l.redoStack.pop()
	if !ok {
		return
	}
	l.redoStack = rest

	logged, outcome := l.fold(entry.operation)
	switch outcome.Kind() {
	case FullApplied, PartialApplied:
		l.undoStack = l.undoStack.push(undoEntry[Op]{
			revertingOperationID: logged.ID(),
			operation:            outcome.Undo(),
		})
	}
}
