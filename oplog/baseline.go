package oplog

import (
	"cmp"
	"crypto/sha256"

	"github.com/schwmi/oplog/clock"
)

// zeroHash is the 32 zero bytes that identify an empty log's baseline.
var zeroHash [32]byte

// Baseline anchors the state a log folds its operations onto: the
// snapshot itself, a content-addressed hash tagging the history folded
// into it, and (once at least one reduction has happened) the clock of
// the last operation that was folded in. A fresh log's baseline has the
// zero hash and no clock.
type Baseline[S any, A cmp.Ordered] struct {
	Snapshot S
	SHA256   [32]byte
	Clock    *clock.VectorClock[A]
}

// chainHash extends a running hash chain with one more operation id,
// exactly per spec §4.8: h_i = SHA256(h_{i-1} || uuid_i). The UUID is fed
// in as its 16 big-endian bytes, which is how google/uuid.UUID already
// lays itself out in memory.
func chainHash(previous [32]byte, idBytes [16]byte) [32]byte {
	h := sha256.New()
	h.Write(previous[:])
	h.Write(idBytes[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
