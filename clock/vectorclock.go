// Package clock implements the causal and total order over vector-clock
// timestamps that the operation log sorts by. The partial order here
// mirrors communication.VClock's Compare in the teacher repo
// (Ancestor/Descendant/Concurrent/Equal); the total order generalizes the
// timestamp tie-break that middleware.Event.CompareTo performs when two
// versions are Concurrent.
package clock

import (
	"cmp"
	"fmt"
	"sort"
	"strings"
)

// Relation describes how two VectorClocks compare, either causally
// (PartialOrder) or under the deterministic linearization (TotalOrder).
type Relation int

const (
	Equal Relation = iota
	Ascending
	Descending
	Concurrent
)

func (r Relation) String() string {
	switch r {
	case Equal:
		return "Equal"
	case Ascending:
		return "Ascending"
	case Descending:
		return "Descending"
	case Concurrent:
		return "Concurrent"
	default:
		return "Unknown"
	}
}

// VectorClock maps an ActorID to the number of operations that actor has
// contributed, plus the (actor, timestamp) pair of whichever tick produced
// this value. ActorID must be orderable so ties can be broken
// deterministically and hashable so it can key a Go map; cmp.Ordered gives
// us both for free on any of the primitive types a real ActorID is built
// from (string, int, uint64, ...).
//
// VectorClock is immutable: every method returns a new value rather than
// mutating the receiver.
type VectorClock[A cmp.Ordered] struct {
	counters  map[A]uint64
	lastActor A
	timestamp float64
	strategy  Strategy
	source    TimeSource
}

// New returns the empty clock (all counters zero) for the given timestamp
// strategy. This is the canonical baseline clock for a fresh actor.
func New[A cmp.Ordered](strategy Strategy) VectorClock[A] {
	return VectorClock[A]{
		counters: make(map[A]uint64),
		strategy: strategy,
		source:   sourceForStrategy(strategy),
	}
}

// FromParts reconstructs a VectorClock from its wire representation:
// counters, the last actor to tick it, its timestamp, and the strategy it
// was built with. Used exclusively by decoders rehydrating a clock from
// bytes - the returned clock resumes ticking with the correct TimeSource
// for its strategy, but FromParts itself never samples one.
func FromParts[A cmp.Ordered](counters map[A]uint64, lastActor A, timestamp float64, strategy Strategy) VectorClock[A] {
	cp := make(map[A]uint64, len(counters))
	for a, c := range counters {
		cp[a] = c
	}
	return VectorClock[A]{
		counters:  cp,
		lastActor: lastActor,
		timestamp: timestamp,
		strategy:  strategy,
		source:    sourceForStrategy(strategy),
	}
}

// Strategy reports which timestamp strategy this clock was built with.
func (vc VectorClock[A]) Strategy() Strategy {
	return vc.strategy
}

// LastActor returns the actor that produced the most recent tick.
func (vc VectorClock[A]) LastActor() A {
	return vc.lastActor
}

// Timestamp returns the tie-breaking timestamp sampled at the most recent
// tick.
func (vc VectorClock[A]) Timestamp() float64 {
	return vc.timestamp
}

// Get returns the counter for actor, 0 if the actor has never ticked this
// clock.
func (vc VectorClock[A]) Get(actor A) uint64 {
	return vc.counters[actor]
}

// Actors returns every actor with a non-zero counter, in no particular
// order.
func (vc VectorClock[A]) Actors() []A {
	actors := make([]A, 0, len(vc.counters))
	for a, c := range vc.counters {
		if c != 0 {
			actors = append(actors, a)
		}
	}
	return actors
}

// Counters returns a defensive copy of the underlying actor->counter map,
// for callers (e.g. the serializer) that need to walk every entry.
func (vc VectorClock[A]) Counters() map[A]uint64 {
	out := make(map[A]uint64, len(vc.counters))
	for a, c := range vc.counters {
		out[a] = c
	}
	return out
}

// Increment returns a new clock with actor's counter advanced by one and a
// freshly sampled timestamp.
func (vc VectorClock[A]) Increment(actor A) VectorClock[A] {
	next := make(map[A]uint64, len(vc.counters)+1)
	for a, c := range vc.counters {
		next[a] = c
	}
	next[actor]++
	source := vc.source
	if source == nil {
		source = sourceForStrategy(vc.strategy)
	}
	return VectorClock[A]{
		counters:  next,
		lastActor: actor,
		timestamp: source(),
		strategy:  vc.strategy,
		source:    source,
	}
}

// Merge returns the pointwise max of self and other's counters. The
// resulting timestamp/lastActor is whichever side has the strictly greater
// timestamp; ties are broken on lastActor so that Merge is commutative
// regardless of which side calls it.
func (vc VectorClock[A]) Merge(other VectorClock[A]) VectorClock[A] {
	merged := make(map[A]uint64, len(vc.counters)+len(other.counters))
	for a, c := range vc.counters {
		merged[a] = c
	}
	for a, c := range other.counters {
		if c > merged[a] {
			merged[a] = c
		}
	}

	ts, actor := vc.timestamp, vc.lastActor
	switch {
	case other.timestamp > vc.timestamp:
		ts, actor = other.timestamp, other.lastActor
	case other.timestamp == vc.timestamp && cmp.Compare(other.lastActor, vc.lastActor) > 0:
		ts, actor = other.timestamp, other.lastActor
	}

	source := vc.source
	if source == nil {
		source = other.source
	}
	strategy := vc.strategy
	if len(vc.counters) == 0 && len(other.counters) > 0 {
		strategy = other.strategy
	}
	return VectorClock[A]{
		counters:  merged,
		lastActor: actor,
		timestamp: ts,
		strategy:  strategy,
		source:    source,
	}
}

// Equal reports whether self and other's non-zero entries match exactly.
// Missing actors read as 0, so {"a":1} equals {"a":1,"b":0}. This is the
// data model's notion of clock equality (spec §3): it deliberately ignores
// timestamp and lastActor.
func (vc VectorClock[A]) Equal(other VectorClock[A]) bool {
	return vc.PartialOrder(other) == Equal
}

// PartialOrder returns the causal relation between self and other, looking
// only at the counters.
func (vc VectorClock[A]) PartialOrder(other VectorClock[A]) Relation {
	selfLE, selfGE := true, true
	for a, c := range vc.counters {
		oc := other.counters[a]
		if c > oc {
			selfLE = false
		} else if c < oc {
			selfGE = false
		}
	}
	for a, oc := range other.counters {
		c := vc.counters[a]
		if c > oc {
			selfLE = false
		} else if c < oc {
			selfGE = false
		}
	}
	switch {
	case selfLE && selfGE:
		return Equal
	case selfLE:
		return Ascending
	case selfGE:
		return Descending
	default:
		return Concurrent
	}
}

// TotalOrder returns a deterministic linearization of self and other,
// suitable for sorting an OperationLog's operations. It only falls back to
// timestamp/lastActor/lexicographic tie-breaks when the causal partial
// order itself is Equal or Concurrent (spec §4.1 steps 1-5).
func (vc VectorClock[A]) TotalOrder(other VectorClock[A]) Relation {
	switch p := vc.PartialOrder(other); p {
	case Ascending, Descending:
		return p
	}

	if vc.timestamp != other.timestamp {
		if vc.timestamp < other.timestamp {
			return Ascending
		}
		return Descending
	}

	if c := cmp.Compare(vc.lastActor, other.lastActor); c != 0 {
		if c < 0 {
			return Ascending
		}
		return Descending
	}

	if c := vc.compareCounterVectors(other); c != 0 {
		if c < 0 {
			return Ascending
		}
		return Descending
	}

	return Equal
}

// compareCounterVectors lexicographically compares the sorted
// (actor, counter) pairs of both clocks, used only as the last-resort tie
// break inside TotalOrder. It is the piece of the algorithm that guarantees
// totality: if counters differ at all (i.e. the partial order was
// Concurrent), some actor's pair differs and the comparison is decisive.
func (vc VectorClock[A]) compareCounterVectors(other VectorClock[A]) int {
	actorSet := make(map[A]struct{}, len(vc.counters)+len(other.counters))
	for a := range vc.counters {
		actorSet[a] = struct{}{}
	}
	for a := range other.counters {
		actorSet[a] = struct{}{}
	}
	actors := make([]A, 0, len(actorSet))
	for a := range actorSet {
		actors = append(actors, a)
	}
	sort.Slice(actors, func(i, j int) bool { return cmp.Compare(actors[i], actors[j]) < 0 })

	for _, a := range actors {
		c1, c2 := vc.counters[a], other.counters[a]
		if c1 != c2 {
			if c1 < c2 {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Key returns a canonical, deterministic string encoding of the clock's
// counters, suitable for use as a map key when deduplicating
// LoggedOperations by clock (spec §3: "their hash is the hash of the
// clock"). Two clocks that are Equal always produce the same Key.
func (vc VectorClock[A]) Key() string {
	actors := make([]A, 0, len(vc.counters))
	for a, c := range vc.counters {
		if c != 0 {
			actors = append(actors, a)
		}
	}
	sort.Slice(actors, func(i, j int) bool { return cmp.Compare(actors[i], actors[j]) < 0 })

	var b strings.Builder
	for i, a := range actors {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%v:%d", a, vc.counters[a])
	}
	return b.String()
}

func (vc VectorClock[A]) String() string {
	return fmt.Sprintf("VectorClock{%s @%v t=%g}", vc.Key(), vc.lastActor, vc.timestamp)
}
