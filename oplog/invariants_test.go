package oplog_test

import (
	"math/rand"
	"reflect"
	"testing"
	"testing/quick"

	"github.com/jmcvetta/randutil"
	"github.com/schwmi/oplog/clock"
	"github.com/schwmi/oplog/oplog"
	"github.com/schwmi/oplog/stringsnap"
)

// opWeights biases random op generation toward appends over removals,
// the same weighted-choice shape test/evaluation/RGA_SEMIECRO_test.go
// uses to pick between an existing vertex and a fresh insertion.
var opWeights = []randutil.Choice{
	{Weight: 3, Item: "append"},
	{Weight: 1, Item: "removeLast"},
}

// randomOps generates a short sequence of append/removeLast operations,
// used by both invariant properties below.
func randomOps(r *rand.Rand, n int) []stringsnap.Op {
	ops := make([]stringsnap.Op, n)
	for i := range ops {
		choice, err := randutil.WeightedChoice(opWeights)
		if err != nil {
			panic(err)
		}
		if choice.Item.(string) == "removeLast" {
			ops[i] = stringsnap.RemoveLastOp()
		} else {
			ops[i] = stringsnap.AppendCharOp(rune('a' + r.Intn(5)))
		}
	}
	return ops
}

// TestSortednessInvariant checks that operations always stay strictly
// ascending under the VectorClock total order (spec §8 invariant 1).
func TestSortednessInvariant(t *testing.T) {
	property := func(seed int64) bool {
		clock.ResetMonotonicCounter()
		l := newTestLog("1", "A")
		r := rand.New(rand.NewSource(seed))
		for _, op := range randomOps(r, 20) {
			l.Append(op)
		}
		ops := l.Operations()
		for i := 1; i < len(ops); i++ {
			if ops[i-1].Clock().TotalOrder(ops[i].Clock()) != clock.Ascending {
				return false
			}
		}
		return true
	}
	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

// TestDeterminismInvariant checks that the snapshot always equals the
// baseline folded with every operation, in order (spec §8 invariant 2).
func TestDeterminismInvariant(t *testing.T) {
	property := func(seed int64) bool {
		clock.ResetMonotonicCounter()
		l := newTestLog("1", "A")
		r := rand.New(rand.NewSource(seed))
		for _, op := range randomOps(r, 20) {
			l.Append(op)
		}

		refolded := l.Baseline().Snapshot
		for _, logged := range l.Operations() {
			refolded, _ = refolded.Apply(logged.Operation())
		}
		return refolded.String() == l.Snapshot().String()
	}
	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

// TestSummaryConsistencyInvariant checks spec §8 invariant 3.
func TestSummaryConsistencyInvariant(t *testing.T) {
	clock.ResetMonotonicCounter()
	l := newTestLog("1", "A")
	appendChars(l, "ABC")

	if got := l.Summary().OperationCount; got != uint64(len(l.Operations())) {
		t.Fatalf("summary.operationCount = %d, want %d", got, len(l.Operations()))
	}
	if !l.Summary().Actors.Contains("A") {
		t.Fatalf("summary.actors should contain the appending actor")
	}
}

// TestInsertIdempotence checks spec §8 invariant: re-inserting an
// already-present batch of operations is a no-op.
func TestInsertIdempotence(t *testing.T) {
	clock.ResetMonotonicCounter()
	logA := newTestLog("1", "A")
	appendChars(logA, "ABC")

	logB := newTestLog("1", "B")
	if err := logB.Insert(logA.Operations()); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	before := logB.Snapshot().String()
	beforeLen := len(logB.Operations())

	if err := logB.Insert(logA.Operations()); err != nil {
		t.Fatalf("repeat insert: %v", err)
	}
	if logB.Snapshot().String() != before {
		t.Fatalf("re-insert changed snapshot: %q -> %q", before, logB.Snapshot().String())
	}
	if len(logB.Operations()) != beforeLen {
		t.Fatalf("re-insert changed operation count: %d -> %d", beforeLen, len(logB.Operations()))
	}
}

// TestLoggedOperationDedup exercises Open Question 1's decision: under
// the ClockProvider discipline, dedup by clock alone never drops a real
// operation, because the provider can never mint the same clock twice
// for its own actor.
func TestLoggedOperationDedup(t *testing.T) {
	property := func(n uint8) bool {
		clock.ResetMonotonicCounter()
		l := newTestLog("1", "A")
		count := int(n%15) + 1
		for i := 0; i < count; i++ {
			l.Append(stringsnap.AppendCharOp('x'))
		}
		seen := map[string]bool{}
		for _, op := range l.Operations() {
			key := op.Key()
			if seen[key] {
				return false
			}
			seen[key] = true
		}
		return len(seen) == count
	}
	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

// TestAppendClearsRedo checks spec §8: any fresh append clears the redo
// stack.
func TestAppendClearsRedo(t *testing.T) {
	clock.ResetMonotonicCounter()
	l := newTestLog("1", "A")
	appendChars(l, "AB")
	l.Undo()
	if !l.CanRedo() {
		t.Fatal("expected a redo entry after undo")
	}
	l.Append(stringsnap.AppendCharOp('C'))
	if l.CanRedo() {
		t.Fatal("a fresh append should clear the redo stack")
	}
}

// TestUndoInverse checks that undo followed by redo restores exactly
// the pre-undo state.
func TestUndoInverse(t *testing.T) {
	gen := func(vals []reflect.Value, r *rand.Rand) {
		n := r.Intn(10) + 1
		chars := make([]rune, n)
		for i := range chars {
			chars[i] = rune('a' + r.Intn(10))
		}
		vals[0] = reflect.ValueOf(string(chars))
	}
	property := func(chars string) bool {
		clock.ResetMonotonicCounter()
		l := newTestLog("1", "A")
		appendChars(l, chars)
		before := l.Snapshot().String()
		l.Undo()
		l.Redo()
		return l.Snapshot().String() == before
	}
	if err := quick.Check(property, &quick.Config{Values: gen}); err != nil {
		t.Error(err)
	}
}

// TestBaselineIsLowerBound checks that Insert refuses operations that
// fall at or before the current baseline.
func TestBaselineIsLowerBound(t *testing.T) {
	clock.ResetMonotonicCounter()
	l := newTestLog("1", "A")
	appendChars(l, "AB")

	ops := l.Operations()
	if err := l.Reduce(oplog.UntilID[string, stringsnap.Op](ops[1].ID())); err != nil {
		t.Fatalf("Reduce: %v", err)
	}

	err := l.Insert([]oplog.LoggedOperation[string, stringsnap.Op]{ops[0]})
	if err == nil {
		t.Fatal("expected Insert of a pre-baseline operation to fail")
	}
}
