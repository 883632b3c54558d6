package stringsnap

import (
	"testing"

	"github.com/schwmi/oplog/oplog"
)

func TestAppendThenRemoveLastIsInverse(t *testing.T) {
	empty := Snapshot{}.Empty()

	after, outcome := empty.Apply(AppendCharOp('a'))
	if outcome.Kind() != oplog.FullApplied {
		t.Fatalf("append outcome = %v, want Full", outcome.Kind())
	}
	if after.String() != "a" {
		t.Fatalf("snapshot = %q, want %q", after.String(), "a")
	}

	restored, outcome := after.Apply(outcome.Undo())
	if outcome.Kind() != oplog.FullApplied {
		t.Fatalf("undo outcome = %v, want Full", outcome.Kind())
	}
	if restored.String() != "" {
		t.Fatalf("restored snapshot = %q, want empty", restored.String())
	}
}

func TestRemoveLastOnEmptyIsSkipped(t *testing.T) {
	empty := Snapshot{}.Empty()
	after, outcome := empty.Apply(RemoveLastOp())
	if outcome.Kind() != oplog.Skipped {
		t.Fatalf("outcome = %v, want Skipped", outcome.Kind())
	}
	if after.String() != "" {
		t.Fatalf("snapshot changed on a skipped removal: %q", after.String())
	}
}

func TestOperationMarshalRoundTrips(t *testing.T) {
	for _, op := range []Op{AppendCharOp('z'), RemoveLastOp()} {
		data, err := op.MarshalBinary()
		if err != nil {
			t.Fatalf("MarshalBinary: %v", err)
		}
		got, err := UnmarshalOp(data)
		if err != nil {
			t.Fatalf("UnmarshalOp: %v", err)
		}
		if got != op {
			t.Fatalf("round-trip = %+v, want %+v", got, op)
		}
	}
}

func TestSnapshotMarshalRoundTrips(t *testing.T) {
	s, _ := Snapshot{}.Apply(AppendCharOp('h'))
	s, _ = s.Apply(AppendCharOp('i'))

	data, err := s.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	got, err := UnmarshalSnapshot(data)
	if err != nil {
		t.Fatalf("UnmarshalSnapshot: %v", err)
	}
	if got.String() != s.String() {
		t.Fatalf("round-trip = %q, want %q", got.String(), s.String())
	}
}
