// Package relational is the gorm-backed journal, storing events in a
// table keyed by (entity_id, sequence_number) the way the reference
// Postgres event store does, adapted here to the teacher's MySQL/gorm
// stack. It retries transient write failures (deadlocks, lock-wait
// timeouts, lost connections) through ordercore/journal/retry; a unique
// key violation is never retried, since it is a programming error, not a
// transient one.
package relational

import (
	"context"
	"errors"

	"ordercore/journal"
	"ordercore/journal/retry"

	"gorm.io/gorm"
)

// eventRow is the gorm model for a single persisted event. The composite
// primary key mirrors the journal's own uniqueness invariant: no two
// rows may share (entity_id, sequence_number).
type eventRow struct {
	EntityID       int64  `gorm:"primaryKey;column:entity_id"`
	SequenceNumber int64  `gorm:"primaryKey;column:sequence_number"`
	Payload        string `gorm:"column:payload;type:text"`
}

func (eventRow) TableName() string { return "events" }

// Journal is the relational journal backend for event type E.
type Journal[E any] struct {
	db    *gorm.DB
	codec journal.Codec[E]
	retry retry.Config
}

// New constructs a relational journal over db, encoding/decoding events
// with codec, and retrying transient writes per retryCfg.
func New[E any](db *gorm.DB, codec journal.Codec[E], retryCfg retry.Config) *Journal[E] {
	return &Journal[E]{db: db, codec: codec, retry: retryCfg}
}

// AutoMigrate creates or updates the events table.
func (j *Journal[E]) AutoMigrate(ctx context.Context) error {
	return j.db.WithContext(ctx).AutoMigrate(&eventRow{})
}

// Append encodes and inserts the event, retrying transient backend
// failures. A duplicate (entity_id, sequence_number) surfaces as
// ErrDuplicateSequence and is never retried.
func (j *Journal[E]) Append(ctx context.Context, id journal.EntityId, event journal.SequencedEvent[E]) error {
	payload, err := j.codec.Marshal(event.Event)
	if err != nil {
		return journal.SerializationFailure(id, err)
	}

	row := eventRow{
		EntityID:       int64(id),
		SequenceNumber: int64(event.SequenceNumber),
		Payload:        string(payload),
	}

	err = retry.Execute(ctx, j.retry, func(ctx context.Context) error {
		return j.db.WithContext(ctx).Create(&row).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return journal.DuplicateSequenceFailure(id, event.SequenceNumber)
		}
		return journal.WriteFailure(id, err)
	}
	return nil
}

// Load returns every event recorded for id ordered by ascending sequence
// number, or an empty slice if nothing has ever been appended.
func (j *Journal[E]) Load(ctx context.Context, id journal.EntityId) ([]journal.SequencedEvent[E], error) {
	var rows []eventRow
	err := j.db.WithContext(ctx).
		Where("entity_id = ?", int64(id)).
		Order("sequence_number ASC").
		Find(&rows).Error
	if err != nil {
		return nil, journal.ReadFailure(id, err)
	}

	out := make([]journal.SequencedEvent[E], 0, len(rows))
	for _, row := range rows {
		event, err := j.codec.Unmarshal([]byte(row.Payload))
		if err != nil {
			return nil, journal.DeserializationFailure(id, err)
		}
		out = append(out, journal.SequencedEvent[E]{
			SequenceNumber: journal.SequenceNumber(row.SequenceNumber),
			Event:          event,
		})
	}
	return out, nil
}

// Ping verifies the underlying database connection is alive, for use
// by a readiness probe.
func (j *Journal[E]) Ping(ctx context.Context) error {
	sqlDB, err := j.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

var _ journal.Journal[int] = (*Journal[int])(nil)
