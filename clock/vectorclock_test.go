package clock

import (
	"math/rand"
	"reflect"
	"testing"
	"testing/quick"
)

func TestVectorClockIncrementIsMonotonic(t *testing.T) {
	vc := New[string](Constant)
	next := vc.Increment("A")
	if next.PartialOrder(vc) != Descending {
		t.Fatalf("incremented clock should descend from its parent, got %v", next.PartialOrder(vc))
	}
	if next.Get("A") != 1 {
		t.Fatalf("expected counter 1, got %d", next.Get("A"))
	}
}

func TestVectorClockMergeIsCommutative(t *testing.T) {
	property := func(seed uint8) bool {
		a := New[string](Constant).Increment("A").Increment("A")
		b := New[string](Constant).Increment("B")
		return a.Merge(b).Equal(b.Merge(a))
	}
	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

func TestVectorClockMergeIsIdempotent(t *testing.T) {
	a := New[string](Constant).Increment("A")
	b := New[string](Constant).Increment("B")
	once := a.Merge(b)
	twice := once.Merge(b)
	if !once.Equal(twice) {
		t.Fatalf("merge should be idempotent: %v != %v", once, twice)
	}
}

func TestVectorClockEqualIgnoresZeroEntries(t *testing.T) {
	a := New[string](Constant).Increment("A")
	b := FromParts(map[string]uint64{"A": 1, "B": 0}, "A", 0, Constant)
	if !a.Equal(b) {
		t.Fatalf("clocks differing only in explicit zero entries should be equal")
	}
}

func TestVectorClockConcurrentDetection(t *testing.T) {
	base := New[string](Constant)
	a := base.Increment("A")
	b := base.Increment("B")
	if a.PartialOrder(b) != Concurrent {
		t.Fatalf("independent single-actor increments should be concurrent, got %v", a.PartialOrder(b))
	}
}

func TestVectorClockTotalOrderIsTotalAndAntisymmetric(t *testing.T) {
	property := func(actors []string) bool {
		if len(actors) < 2 {
			return true
		}
		ResetMonotonicCounter()
		vc := New[string](MonotonicIncrease)
		clocks := make([]VectorClock[string], 0, len(actors))
		for _, a := range actors {
			vc = vc.Increment(a)
			clocks = append(clocks, vc)
		}
		for i := range clocks {
			for j := range clocks {
				if i == j {
					continue
				}
				rel := clocks[i].TotalOrder(clocks[j])
				inv := clocks[j].TotalOrder(clocks[i])
				if rel == Equal || inv == Equal {
					return false
				}
				if (rel == Ascending) == (inv == Ascending) {
					return false
				}
			}
		}
		return true
	}
	gen := func(vals []reflect.Value, r *rand.Rand) {
		n := r.Intn(5) + 2
		actors := make([]string, n)
		for i := range actors {
			actors[i] = string(rune('a' + r.Intn(4)))
		}
		vals[0] = reflect.ValueOf(actors)
	}
	if err := quick.Check(property, &quick.Config{Values: gen}); err != nil {
		t.Error(err)
	}
}

func TestVectorClockKeyDeterminesEquality(t *testing.T) {
	a := New[string](Constant).Increment("A").Increment("B")
	b := New[string](Constant).Increment("A").Increment("B")
	if a.Key() != b.Key() {
		t.Fatalf("clocks with identical counters should share a key: %q vs %q", a.Key(), b.Key())
	}
}

func TestFromPartsRoundTrips(t *testing.T) {
	vc := New[string](UnixTime).Increment("A").Increment("B")
	restored := FromParts(vc.Counters(), vc.LastActor(), vc.Timestamp(), vc.Strategy())
	if !vc.Equal(restored) || vc.LastActor() != restored.LastActor() || vc.Timestamp() != restored.Timestamp() {
		t.Fatalf("FromParts did not round-trip: %v vs %v", vc, restored)
	}
}

func TestParseStrategyRoundTrips(t *testing.T) {
	for _, s := range []Strategy{Constant, UnixTime, MonotonicIncrease} {
		parsed, err := ParseStrategy(s.String())
		if err != nil {
			t.Fatalf("ParseStrategy(%q): %v", s.String(), err)
		}
		if parsed != s {
			t.Fatalf("ParseStrategy(%q) = %v, want %v", s.String(), parsed, s)
		}
	}
	if _, err := ParseStrategy("bogus"); err == nil {
		t.Fatalf("expected an error for an unknown strategy string")
	}
}
