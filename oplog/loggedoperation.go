package oplog

import (
	"cmp"

	"github.com/google/uuid"
	"github.com/schwmi/oplog/clock"
)

// LoggedOperation immutably pairs an Operation with the metadata it was
// assigned on entry to the log: a stable random UUID, the actor that
// authored it, and the VectorClock it was minted with.
//
// Two LoggedOperations are considered equal - and hash identically - iff
// their clocks are equal, regardless of UUID or payload (spec §3, §9 open
// question 1). Under the ClockProvider discipline (one actor per
// provider, strictly monotonic increments, a timestamp strategy that
// never repeats a value for the same actor) two distinct operations can
// never be minted with the same clock; see TestLoggedOperationDedup.
// Log.Insert recognizes duplicates by UUID, not by this equality.
type LoggedOperation[A cmp.Ordered, Op Operation] struct {
	id        uuid.UUID
	actor     A
	clockVal  clock.VectorClock[A]
	operation Op
}

// NewLoggedOperation wraps op with a fresh random UUID.
func NewLoggedOperation[A cmp.Ordered, Op Operation](actor A, vc clock.VectorClock[A], op Op) LoggedOperation[A, Op] {
	return LoggedOperation[A, Op]{
		id:        uuid.New(),
		actor:     actor,
		clockVal:  vc,
		operation: op,
	}
}

// ID returns the operation's stable identity.
func (lo LoggedOperation[A, Op]) ID() uuid.UUID { return lo.id }

// Actor returns the authoring actor.
func (lo LoggedOperation[A, Op]) Actor() A { return lo.actor }

// Clock returns the VectorClock the operation was timestamped with.
func (lo LoggedOperation[A, Op]) Clock() clock.VectorClock[A] { return lo.clockVal }

// Operation returns the wrapped user operation.
func (lo LoggedOperation[A, Op]) Operation() Op { return lo.operation }

// Equal reports clock equality between two LoggedOperations, per the type's
// documented equality contract.
func (lo LoggedOperation[A, Op]) Equal(other LoggedOperation[A, Op]) bool {
	return lo.clockVal.Equal(other.clockVal)
}

// Key returns the clock's canonical key, usable as a Go map key for
// dedup by clock equality.
func (lo LoggedOperation[A, Op]) Key() string {
	return lo.clockVal.Key()
}
