// Package memory provides the in-process journal backend: a map guarded
// by a single RWMutex, with no external dependency and nothing
// transient to retry. It mirrors the reference single-threaded
// in-memory journal the rest of the corpus's backends were modeled
// after, and is the backend test suites default to.
package memory

import (
	"context"
	"sync"

	"ordercore/journal"
)

// Journal is a RWMutex-guarded map[EntityId][]SequencedEvent[E]. Reads
// (Load) take the read lock; writes (Append) take the write lock for the
// whole duplicate-check-then-append, so two concurrent appends for the
// same entity can never both observe the same "next" slot as free.
type Journal[E any] struct {
	mu     sync.RWMutex
	events map[journal.EntityId][]journal.SequencedEvent[E]
}

// New constructs an empty in-memory journal.
func New[E any]() *Journal[E] {
	return &Journal[E]{events: make(map[journal.EntityId][]journal.SequencedEvent[E])}
}

// Append stores the event for id, rejecting a repeat of a sequence
// number already recorded for that entity.
func (j *Journal[E]) Append(_ context.Context, id journal.EntityId, event journal.SequencedEvent[E]) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	existing := j.events[id]
	for _, e := range existing {
		if e.SequenceNumber == event.SequenceNumber {
			return journal.DuplicateSequenceFailure(id, event.SequenceNumber)
		}
	}
	j.events[id] = append(existing, event)
	return nil
}

// Load returns a copy of every event recorded for id, in the order they
// were appended (which is ascending sequence order, since the caller
// only ever appends the next sequence number). Unknown entities yield an
// empty, non-nil slice and no error.
func (j *Journal[E]) Load(_ context.Context, id journal.EntityId) ([]journal.SequencedEvent[E], error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	existing := j.events[id]
	out := make([]journal.SequencedEvent[E], len(existing))
	copy(out, existing)
	return out, nil
}

var _ journal.Journal[int] = (*Journal[int])(nil)
