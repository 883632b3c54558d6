package oplog

import (
	"cmp"
	"encoding/json"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"github.com/schwmi/oplog/clock"
)

// Decoder supplies the two user-serializers the core cannot construct on
// its own: how to turn the opaque bytes of a Snapshot or an Operation
// back into a value. Encoding never needs a Decoder - S and Op already
// know how to MarshalBinary themselves.
type Decoder[S any, Op Operation] struct {
	DecodeSnapshot  func([]byte) (S, error)
	DecodeOperation func([]byte) (Op, error)
}

// wireVectorClock is VectorClock's self-describing JSON shape (spec
// §6.3).
type wireVectorClock[A cmp.Ordered] struct {
	Counters  map[A]uint64 `json:"counters"`
	LastActor A            `json:"lastActor"`
	Timestamp float64      `json:"timestamp"`
	Strategy  string       `json:"strategy"`
}

func toWireClock[A cmp.Ordered](vc clock.VectorClock[A]) wireVectorClock[A] {
	return wireVectorClock[A]{
		Counters:  vc.Counters(),
		LastActor: vc.LastActor(),
		Timestamp: vc.Timestamp(),
		Strategy:  vc.Strategy().String(),
	}
}

func fromWireClock[A cmp.Ordered](w wireVectorClock[A]) (clock.VectorClock[A], error) {
	strategy, err := clock.ParseStrategy(w.Strategy)
	if err != nil {
		return clock.VectorClock[A]{}, err
	}
	return clock.FromParts(w.Counters, w.LastActor, w.Timestamp, strategy), nil
}

type wireLoggedOperation[A cmp.Ordered] struct {
	UUID      uuid.UUID          `json:"uuid"`
	Actor     A                  `json:"actor"`
	Clock     wireVectorClock[A] `json:"clock"`
	Operation []byte             `json:"operation"`
}

type wireAppliedInfo[A cmp.Ordered] struct {
	ID     uuid.UUID `json:"id"`
	Index  uint64    `json:"index"`
	Actor  A         `json:"actor"`
	Kind   string    `json:"applyType"`
	Reason string    `json:"reason,omitempty"`
}

func toWireInfo[A cmp.Ordered](info AppliedInfo[A]) wireAppliedInfo[A] {
	return wireAppliedInfo[A]{
		ID:     info.ID,
		Index:  info.Index,
		Actor:  info.Actor,
		Kind:   info.Kind.String(),
		Reason: info.Reason,
	}
}

func parseOutcomeKind(s string) (OutcomeKind, error) {
	switch s {
	case "Full":
		return FullApplied, nil
	case "Partial":
		return PartialApplied, nil
	case "Skipped":
		return Skipped, nil
	default:
		return Skipped, fmt.Errorf("%w: unknown apply type %q", ErrDecode, s)
	}
}

func fromWireInfo[A cmp.Ordered](w wireAppliedInfo[A]) (AppliedInfo[A], error) {
	kind, err := parseOutcomeKind(w.Kind)
	if err != nil {
		return AppliedInfo[A]{}, err
	}
	return AppliedInfo[A]{ID: w.ID, Index: w.Index, Actor: w.Actor, Kind: kind, Reason: w.Reason}, nil
}

type wireSummary[A cmp.Ordered] struct {
	Actors         []A                  `json:"actors"`
	LatestClock    wireVectorClock[A]   `json:"latestClock"`
	OperationCount uint64               `json:"operationCount"`
	OperationInfos []wireAppliedInfo[A] `json:"operationInfos"`
}

func toWireSummary[A cmp.Ordered](s Summary[A]) wireSummary[A] {
	var actors []A
	if s.Actors != nil {
		actors = s.Actors.ToSlice()
	}
	infos := make([]wireAppliedInfo[A], len(s.Infos))
	for i, info := range s.Infos {
		infos[i] = toWireInfo(info)
	}
	return wireSummary[A]{
		Actors:         actors,
		LatestClock:    toWireClock(s.LatestClock),
		OperationCount: s.OperationCount,
		OperationInfos: infos,
	}
}

func fromWireSummary[A cmp.Ordered](w wireSummary[A]) (Summary[A], error) {
	latest, err := fromWireClock(w.LatestClock)
	if err != nil {
		return Summary[A]{}, err
	}
	infos := make([]AppliedInfo[A], len(w.OperationInfos))
	for i, wi := range w.OperationInfos {
		info, err := fromWireInfo(wi)
		if err != nil {
			return Summary[A]{}, err
		}
		infos[i] = info
	}
	actors := mapset.NewThreadUnsafeSet(w.Actors...)
	return Summary[A]{
		Actors:         actors,
		LatestClock:    latest,
		OperationCount: w.OperationCount,
		Infos:          infos,
	}, nil
}

type wireContainer[L cmp.Ordered, A cmp.Ordered] struct {
	LogID         L                        `json:"logID"`
	BaseSnapshot  []byte                   `json:"baseSnapshot"`
	InitialSHA256 []byte                   `json:"initialSha256"`
	InitialClock  *wireVectorClock[A]      `json:"initialClock,omitempty"`
	Summary       wireSummary[A]           `json:"summary"`
	Operations    []wireLoggedOperation[A] `json:"operations"`
}

// Serialize produces the self-describing byte form of the log: baseline,
// initial summary, and every operation, in order (spec §6.3). It is
// infallible given the user's S/Op serializers succeed.
func (l *Log[L, A, S, Op]) Serialize() ([]byte, error) {
	baseSnapBytes, err := l.baseline.Snapshot.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("encode baseline snapshot: %w", err)
	}

	var initClock *wireVectorClock[A]
	if l.baseline.Clock != nil {
		wc := toWireClock(*l.baseline.Clock)
		initClock = &wc
	}

	wireOps := make([]wireLoggedOperation[A], len(l.operations))
	for i, op := range l.operations {
		opBytes, err := op.Operation().MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("encode operation %s: %w", op.ID(), err)
		}
		wireOps[i] = wireLoggedOperation[A]{
			UUID:      op.ID(),
			Actor:     op.Actor(),
			Clock:     toWireClock(op.Clock()),
			Operation: opBytes,
		}
	}

	container := wireContainer[L, A]{
		LogID:         l.logID,
		BaseSnapshot:  baseSnapBytes,
		InitialSHA256: l.baseline.SHA256[:],
		InitialClock:  initClock,
		Summary:       toWireSummary(l.initialSummary),
		Operations:    wireOps,
	}
	return json.Marshal(container)
}

// FromBytes decodes a log previously produced by Serialize. The
// ClockProvider is seeded from the last operation's clock, falling back
// to the baseline's clock, falling back to a fresh clock for actorID
// (spec §4.3). Decoded operations must already be sorted ascending under
// the total order - FromBytes treats a violation as ErrCorruptLog rather
// than silently re-sorting, since a misordered container indicates the
// bytes were tampered with or produced by a broken writer.
func FromBytes[L cmp.Ordered, A cmp.Ordered, S Snapshot[S, Op], Op Operation](actorID A, data []byte, dec Decoder[S, Op], opts ...Option[L, A, S, Op]) (*Log[L, A, S, Op], error) {
	var container wireContainer[L, A]
	if err := json.Unmarshal(data, &container); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	baseSnap, err := dec.DecodeSnapshot(container.BaseSnapshot)
	if err != nil {
		return nil, fmt.Errorf("%w: base snapshot: %v", ErrDecode, err)
	}

	var sha [32]byte
	copy(sha[:], container.InitialSHA256)

	var baselineClock *clock.VectorClock[A]
	if container.InitialClock != nil {
		vc, err := fromWireClock(*container.InitialClock)
		if err != nil {
			return nil, fmt.Errorf("%w: initial clock: %v", ErrDecode, err)
		}
		baselineClock = &vc
	}

	ops := make([]LoggedOperation[A, Op], len(container.Operations))
	for i, wireOp := range container.Operations {
		opVal, err := dec.DecodeOperation(wireOp.Operation)
		if err != nil {
			return nil, fmt.Errorf("%w: operation %d: %v", ErrDecode, i, err)
		}
		vc, err := fromWireClock(wireOp.Clock)
		if err != nil {
			return nil, fmt.Errorf("%w: operation %d clock: %v", ErrDecode, i, err)
		}
		ops[i] = LoggedOperation[A, Op]{
			id:        wireOp.UUID,
			actor:     wireOp.Actor,
			clockVal:  vc,
			operation: opVal,
		}
	}

	for i := 1; i < len(ops); i++ {
		if ops[i-1].Clock().TotalOrder(ops[i].Clock()) != clock.Ascending {
			return nil, fmt.Errorf("%w: operations are not strictly ascending at index %d", ErrCorruptLog, i)
		}
	}

	initialSummary, err := fromWireSummary(container.Summary)
	if err != nil {
		return nil, fmt.Errorf("%w: summary: %v", ErrDecode, err)
	}

	var seedClock clock.VectorClock[A]
	switch {
	case len(ops) > 0:
		seedClock = ops[len(ops)-1].Clock()
	case baselineClock != nil:
		seedClock = *baselineClock
	default:
		seedClock = clock.New[A](clock.UnixTime)
	}

	l := &Log[L, A, S, Op]{
		logID:          container.LogID,
		actorID:        actorID,
		baseline:       Baseline[S, A]{Snapshot: baseSnap, SHA256: sha, Clock: baselineClock},
		initialSummary: initialSummary,
		operations:     ops,
		clockProvider:  clock.NewProviderFrom[A](actorID, seedClock),
		logger:         defaultLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.recomputeFromBaseline()
	return l, nil
}
