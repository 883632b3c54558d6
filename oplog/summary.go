package oplog

import (
	"cmp"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"github.com/schwmi/oplog/clock"
)

// AppliedInfo records, for a single operation, what happened when it was
// folded into the snapshot. Index is its position in the summary's
// cumulative operation count: 0 is the first operation the summary ever
// recorded, and operations after a Reduce continue counting from the
// baseline summary's OperationCount rather than restarting at 0.
type AppliedInfo[A cmp.Ordered] struct {
	ID     uuid.UUID
	Index  uint64
	Actor  A
	Kind   OutcomeKind
	Reason string
}

// Summary accumulates metadata about every operation folded into a log,
// including those already compacted into its baseline: which actors have touched it, how many operations
// it has seen, the per-operation apply outcome, and the clock of the most
// recent operation. The teacher's crdt/commutativeCRDT.go keeps an
// analogous pair of running counters (N_Ops/S_Ops) alongside its folded
// state; Summary generalizes that into a structured, replayable record.
type Summary[A cmp.Ordered] struct {
	Actors         mapset.Set[A]
	LatestClock    clock.VectorClock[A]
	OperationCount uint64
	Infos          []AppliedInfo[A]
}

// NewSummary returns an empty summary seeded with a single actor (the log
// owner), matching spec §4.3's "New" construction.
func NewSummary[A cmp.Ordered](actor A, strategy clock.Strategy) Summary[A] {
	return Summary[A]{
		Actors:      mapset.NewThreadUnsafeSet(actor),
		LatestClock: clock.New[A](strategy),
	}
}

// Clone returns a deep copy, used whenever a mutation must build new state
// before swapping it in atomically on success.
func (s Summary[A]) Clone() Summary[A] {
	infos := make([]AppliedInfo[A], len(s.Infos))
	copy(infos, s.Infos)
	actors := mapset.NewThreadUnsafeSet[A]()
	if s.Actors != nil {
		actors = s.Actors.Clone()
	}
	return Summary[A]{
		Actors:         actors,
		LatestClock:    s.LatestClock,
		OperationCount: s.OperationCount,
		Infos:          infos,
	}
}

// recordApply appends bookkeeping for one folded operation. It returns the
// updated summary; s is left untouched (value semantics). It is a free
// function rather than a method because Summary is only generic over the
// actor type, while the operation being recorded is generic over the
// payload type too.
func recordApply[A cmp.Ordered, Op Operation](s Summary[A], op LoggedOperation[A, Op], kind OutcomeKind, reason string) Summary[A] {
	next := s.Clone()
	next.Actors.Add(op.Actor())
	next.LatestClock = op.Clock()
	next.OperationCount++
	next.Infos = append(next.Infos, AppliedInfo[A]{
		ID:     op.ID(),
		Index:  next.OperationCount - 1,
		Actor:  op.Actor(),
		Kind:   kind,
		Reason: reason,
	})
	return next
}

// ApplyOutcomeCounts tallies how many recorded operations were Full,
// Partial, or Skipped. It is pure bookkeeping derived from Infos -
// mirrors the read-only NumOps/NumSOps accessors the teacher's
// crdt/commutativeCRDT.go exposes alongside its mutators.
func (s Summary[A]) ApplyOutcomeCounts() (full, partial, skipped int) {
	for _, info := range s.Infos {
		switch info.Kind {
		case FullApplied:
			full++
		case PartialApplied:
			partial++
		case Skipped:
			skipped++
		}
	}
	return full, partial, skipped
}
