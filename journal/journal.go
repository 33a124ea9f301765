// Package journal defines the durable, per-entity append-only log that
// the command-processing core writes to and replays from. The contract
// is intentionally generic over the event payload type so a single
// backend implementation can in principle serve more than one aggregate
// kind without duplicating the append/load machinery.
package journal

import "context"

// EntityId identifies an aggregate instance. It is the partition key of
// every backend: stable across process restarts, never reused.
type EntityId int64

// SequenceNumber is a per-entity, strictly monotonically increasing
// index starting at 1. It is assigned by the aggregate at the moment an
// event is produced, never by the journal itself.
type SequenceNumber int64

// SequencedEvent pairs an event with the sequence number the aggregate
// assigned it. For a given EntityId no two SequencedEvents may share a
// SequenceNumber; backends enforce this with ErrDuplicateSequence.
type SequencedEvent[E any] struct {
	SequenceNumber SequenceNumber
	Event          E
}

// Journal is the append/load contract a command service writes through.
// Implementations must durably persist Append before returning success,
// and Load must return events strictly ordered by ascending sequence
// number, an empty slice (not an error) for an entity nothing has ever
// been appended for.
type Journal[E any] interface {
	Append(ctx context.Context, id EntityId, event SequencedEvent[E]) error
	Load(ctx context.Context, id EntityId) ([]SequencedEvent[E], error)
}

// Codec converts an event payload to and from its self-describing
// on-the-wire encoding. Backends take a Codec so the tagged-union
// encoding of a particular event type lives with that type's domain
// package, not inside the storage engine.
type Codec[E any] interface {
	Marshal(event E) ([]byte, error)
	Unmarshal(data []byte) (E, error)
}
