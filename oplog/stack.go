package oplog

import "github.com/google/uuid"

// undoEntry is an UndoOp/RedoOp (spec §3): a compensating operation paired
// with the id of the operation it reverts. It is not yet timestamped and
// not yet part of the log - it only becomes a LoggedOperation once it is
// appended.
type undoEntry[Op Operation] struct {
	revertingOperationID uuid.UUID
	operation            Op
}

// opStack is a LIFO undo/redo stack. It is the same "slice wrapped in a
// handful of methods" shape as the teacher's utils/queue.go Queue, with
// the mutex dropped: a Log is a value type with no internal locking (spec
// §5), so nothing here needs to be safe for concurrent use.
type opStack[Op Operation] struct {
	entries []undoEntry[Op]
}

func (s opStack[Op]) push(e undoEntry[Op]) opStack[Op] {
	next := make([]undoEntry[Op], len(s.entries), len(s.entries)+1)
	copy(next, s.entries)
	next = append(next, e)
	return opStack[Op]{entries: next}
}

func (s opStack[Op]) pop() (undoEntry[Op], opStack[Op], bool) {
	if len(s.entries) == 0 {
		return undoEntry[Op]{}, s, false
	}
	top := s.entries[len(s.entries)-1]
	next := make([]undoEntry[Op], len(s.entries)-1)
	copy(next, s.entries[:len(s.entries)-1])
	return top, opStack[Op]{entries: next}, true
}

func (s opStack[Op]) len() int {
	return len(s.entries)
}
