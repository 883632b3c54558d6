// Package stringsnap is a minimal reference Operation/Snapshot pair: a
// replicated string that actors append characters to or pop the last
// character from, in the style of the teacher repo's crdts/counter.go
// and datatypes/AddWins.go example CRDT payloads. It exists to exercise
// oplog.Log end to end, not as a general-purpose text CRDT.
package stringsnap

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/schwmi/oplog/oplog"
)

// Kind tags which of the two operations a wire-decoded Op carries.
type Kind byte

const (
	// AppendChar appends a single rune to the end of the string.
	AppendChar Kind = iota
	// RemoveLast pops the last rune off the string, if any.
	RemoveLast
)

// Op is stringsnap's single Operation type, distinguishing its two
// variants by Kind. Char is only meaningful for AppendChar.
type Op struct {
	Kind Kind
	Char rune
}

// AppendCharOp builds an operation that appends r to the string.
func AppendCharOp(r rune) Op { return Op{Kind: AppendChar, Char: r} }

// RemoveLastOp builds an operation that pops the last rune off the
// string.
func RemoveLastOp() Op { return Op{Kind: RemoveLast} }

// Describe returns a short human-readable label, used by callers that
// log or print a log's history.
func (o Op) Describe() string {
	switch o.Kind {
	case AppendChar:
		return fmt.Sprintf("append(%q)", o.Char)
	case RemoveLast:
		return "removeLast"
	default:
		return "unknown"
	}
}

// MarshalBinary encodes the operation as a 1-byte kind tag followed by
// the rune as a big-endian uint32 (present but unused for RemoveLast).
func (o Op) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 5)
	buf[0] = byte(o.Kind)
	binary.BigEndian.PutUint32(buf[1:], uint32(o.Char))
	return buf, nil
}

// UnmarshalOp is the stringsnap.Op factory a Decoder needs to rehydrate
// operations from bytes (oplog.FromBytes cannot call UnmarshalBinary on
// a bare Op since Op is a value type with no pointer receiver method).
func UnmarshalOp(data []byte) (Op, error) {
	if len(data) != 5 {
		return Op{}, fmt.Errorf("stringsnap: malformed operation, want 5 bytes got %d", len(data))
	}
	return Op{Kind: Kind(data[0]), Char: rune(binary.BigEndian.Uint32(data[1:]))}, nil
}

// Snapshot is the folded state: the string built so far. It satisfies
// oplog.Snapshot[Snapshot, Op].
type Snapshot struct {
	value []rune
}

// String returns the current folded string.
func (s Snapshot) String() string { return string(s.value) }

// Empty returns the canonical empty snapshot, per the Snapshot contract.
func (s Snapshot) Empty() Snapshot { return Snapshot{} }

// Apply folds op into s. Appending always fully applies. Removing from
// an empty string is a no-op (Skipped) rather than an error, since a
// concurrent remove racing an as-yet-undelivered append is an expected,
// non-exceptional CRDT scenario.
func (s Snapshot) Apply(op Op) (Snapshot, oplog.Outcome[Op]) {
	switch op.Kind {
	case AppendChar:
		next := make([]rune, len(s.value)+1)
		copy(next, s.value)
		next[len(s.value)] = op.Char
		return Snapshot{value: next}, oplog.FullOutcome[Op](RemoveLastOp())

	case RemoveLast:
		if len(s.value) == 0 {
			return s, oplog.SkippedOutcome[Op]("string already empty")
		}
		removed := s.value[len(s.value)-1]
		next := make([]rune, len(s.value)-1)
		copy(next, s.value[:len(s.value)-1])
		return Snapshot{value: next}, oplog.FullOutcome[Op](AppendCharOp(removed))

	default:
		return s, oplog.SkippedOutcome[Op](fmt.Sprintf("unknown operation kind %d", op.Kind))
	}
}

// MarshalBinary encodes the snapshot as its raw UTF-8 bytes.
func (s Snapshot) MarshalBinary() ([]byte, error) {
	return []byte(string(s.value)), nil
}

// UnmarshalSnapshot is the Snapshot factory a Decoder needs to rehydrate
// a baseline from bytes.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	return Snapshot{value: bytes.Runes(data)}, nil
}

// Decoder is the ready-made oplog.Decoder for (Snapshot, Op), handed to
// oplog.FromBytes.
var Decoder = oplog.Decoder[Snapshot, Op]{
	DecodeSnapshot:  UnmarshalSnapshot,
	DecodeOperation: UnmarshalOp,
}
