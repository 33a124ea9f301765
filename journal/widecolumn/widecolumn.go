// Package widecolumn is the gocql-backed journal over a Scylla/Cassandra
// cluster, grounded directly on the reference Scylla event store: a
// keyspace holding one table with partition key entity_id and clustering
// key sequence_number, ascending.
package widecolumn

import (
	"context"
	"fmt"

	"ordercore/journal"
	"ordercore/journal/retry"

	"github.com/gocql/gocql"
)

// Journal is the wide-column journal backend for event type E.
type Journal[E any] struct {
	session *gocql.Session
	table   string
	codec   journal.Codec[E]
	retry   retry.Config
}

// New constructs a wide-column journal over an already-connected
// session, reading and writing the given table.
func New[E any](session *gocql.Session, table string, codec journal.Codec[E], retryCfg retry.Config) *Journal[E] {
	return &Journal[E]{session: session, table: table, codec: codec, retry: retryCfg}
}

// CreateTable issues the CQL that creates the events table if absent,
// with the partition/clustering layout the reference store uses.
func (j *Journal[E]) CreateTable(ctx context.Context) error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		entity_id bigint,
		sequence_number bigint,
		event_payload text,
		PRIMARY KEY (entity_id, sequence_number)
	) WITH CLUSTERING ORDER BY (sequence_number ASC)`, j.table)
	return j.session.Query(stmt).WithContext(ctx).Exec()
}

// Append encodes and inserts the event. Scylla has no native unique-key
// rejection on a plain INSERT, so duplicate detection uses a
// lightweight-transaction (IF NOT EXISTS) conditional write, which maps
// directly onto ErrDuplicateSequence.
func (j *Journal[E]) Append(ctx context.Context, id journal.EntityId, event journal.SequencedEvent[E]) error {
	payload, err := j.codec.Marshal(event.Event)
	if err != nil {
		return journal.SerializationFailure(id, err)
	}

	stmt := fmt.Sprintf(
		"INSERT INTO %s (entity_id, sequence_number, event_payload) VALUES (?, ?, ?) IF NOT EXISTS",
		j.table,
	)

	var applied bool
	err = retry.Execute(ctx, j.retry, func(ctx context.Context) error {
		query := j.session.Query(stmt, int64(id), int64(event.SequenceNumber), string(payload)).WithContext(ctx)
		var err error
		applied, err = query.MapScanCAS(map[string]interface{}{})
		return err
	})
	if err != nil {
		return journal.WriteFailure(id, err)
	}
	if !applied {
		return journal.DuplicateSequenceFailure(id, event.SequenceNumber)
	}
	return nil
}

// Load returns every event recorded for id in ascending sequence order.
func (j *Journal[E]) Load(ctx context.Context, id journal.EntityId) ([]journal.SequencedEvent[E], error) {
	stmt := fmt.Sprintf(
		"SELECT sequence_number, event_payload FROM %s WHERE entity_id = ? ORDER BY sequence_number ASC",
		j.table,
	)
	iter := j.session.Query(stmt, int64(id)).WithContext(ctx).Iter()

	var out []journal.SequencedEvent[E]
	var seq int64
	var payload string
	for iter.Scan(&seq, &payload) {
		event, err := j.codec.Unmarshal([]byte(payload))
		if err != nil {
			_ = iter.Close()
			return nil, journal.DeserializationFailure(id, err)
		}
		out = append(out, journal.SequencedEvent[E]{
			SequenceNumber: journal.SequenceNumber(seq),
			Event:          event,
		})
	}
	if err := iter.Close(); err != nil {
		return nil, journal.ReadFailure(id, err)
	}
	if out == nil {
		out = []journal.SequencedEvent[E]{}
	}
	return out, nil
}

// Ping verifies the session's control connection is alive, for use by
// a readiness probe.
func (j *Journal[E]) Ping(ctx context.Context) error {
	return j.session.Query("SELECT now() FROM system.local").WithContext(ctx).Exec()
}

var _ journal.Journal[int] = (*Journal[int])(nil)
