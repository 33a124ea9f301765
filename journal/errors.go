package journal

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Sentinels for the journal boundary of the error taxonomy, matched with
// errors.Is().
var (
	ErrJournalWrite    = errors.New("journal write failed")
	ErrJournalRead     = errors.New("journal read failed")
	ErrDuplicateSequence = errors.New("duplicate sequence number for entity")
	ErrSerialization   = errors.New("event serialization failed")
	ErrDeserialization = errors.New("event deserialization failed")
)

// journalError wraps a sentinel with the entity and a stack captured at
// the point of failure, in the same idiom domain/order uses.
type journalError struct {
	sentinel error
	entityID EntityId
	message  string
	stack    []uintptr
}

func (e *journalError) Error() string   { return e.message }
func (e *journalError) Unwrap() error   { return e.sentinel }
func (e *journalError) Stack() []string { return formatStack(e.stack) }

func newJournalError(sentinel error, id EntityId, message string) error {
	return &journalError{sentinel: sentinel, entityID: id, message: message, stack: captureStack(3)}
}

// WriteFailure wraps an underlying backend error as ErrJournalWrite.
func WriteFailure(id EntityId, cause error) error {
	return newJournalError(ErrJournalWrite, id, fmt.Sprintf("journal append failed for entity %d: %v", id, cause))
}

// ReadFailure wraps an underlying backend error as ErrJournalRead.
func ReadFailure(id EntityId, cause error) error {
	return newJournalError(ErrJournalRead, id, fmt.Sprintf("journal load failed for entity %d: %v", id, cause))
}

// DuplicateSequenceFailure reports a unique-key violation on (id, seq).
func DuplicateSequenceFailure(id EntityId, seq SequenceNumber) error {
	return newJournalError(ErrDuplicateSequence, id, fmt.Sprintf("entity %d already has an event at sequence %d", id, seq))
}

// SerializationFailure wraps an encoding error at append time.
func SerializationFailure(id EntityId, cause error) error {
	return newJournalError(ErrSerialization, id, fmt.Sprintf("failed to encode event for entity %d: %v", id, cause))
}

// DeserializationFailure wraps a decoding error during replay.
func DeserializationFailure(id EntityId, cause error) error {
	return newJournalError(ErrDeserialization, id, fmt.Sprintf("failed to decode event for entity %d: %v", id, cause))
}

func captureStack(skip int) []uintptr {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	return pcs[:n]
}

func formatStack(stack []uintptr) []string {
	if len(stack) == 0 {
		return nil
	}
	frames := runtime.CallersFrames(stack)
	var result []string
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			result = append(result, frame.Function)
		}
		if !more || len(result) >= 10 {
			break
		}
	}
	return result
}
