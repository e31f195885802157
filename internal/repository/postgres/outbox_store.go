package postgres

import (
	"context"
	"database/sql"

	"github.com/SARVESHVARADKAR123/townsquare/internal/events"
	"github.com/SARVESHVARADKAR123/townsquare/internal/outbox"
)

// OutboxStore claims outbox_events rows with FOR UPDATE SKIP LOCKED so
// several relay workers can run side by side.
type OutboxStore struct {
	DB *sql.DB
}

func (s *OutboxStore) ProcessBatch(ctx context.Context, limit int, fn func(ctx context.Context, b outbox.Batch) error) error {
	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
	})
	if err != nil {
		return err
	}

	recs, err := claim(ctx, tx, limit)
	if err != nil {
		tx.Rollback()
		return err
	}
	if len(recs) == 0 {
		tx.Rollback()
		return nil
	}

	if err := fn(ctx, &pgBatch{tx: tx, recs: recs}); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func claim(ctx context.Context, tx *sql.Tx, limit int) ([]outbox.Record, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, topic, event_type, payload, created_at, retry_count
		FROM outbox_events
		WHERE processed_at IS NULL
		ORDER BY id
		FOR UPDATE SKIP LOCKED
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []outbox.Record
	for rows.Next() {
		var r outbox.Record
		var eventType string
		if err := rows.Scan(&r.ID, &r.Topic, &eventType, &r.Payload, &r.CreatedAt, &r.RetryCount); err != nil {
			return nil, err
		}
		r.EventType = events.Type(eventType)
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

type pgBatch struct {
	tx   *sql.Tx
	recs []outbox.Record
}

func (b *pgBatch) Records() []outbox.Record { return b.recs }

func (b *pgBatch) MarkProcessed(ctx context.Context, id int64) error {
	_, err := b.tx.ExecContext(ctx, `
		UPDATE outbox_events
		SET processed_at = now()
		WHERE id = $1
	`, id)
	return err
}

func (b *pgBatch) RecordFailure(ctx context.Context, id int64, reason string) error {
	_, err := b.tx.ExecContext(ctx, `
		UPDATE outbox_events
		SET retry_count = retry_count + 1, error = $2
		WHERE id = $1
	`, id, reason)
	return err
}

func (b *pgBatch) DeadLetter(ctx context.Context, rec outbox.Record, reason string) error {
	_, err := b.tx.ExecContext(ctx, `
		INSERT INTO outbox_dlq (id, topic, event_type, payload, created_at, failed_at, error, retry_count)
		VALUES ($1, $2, $3, $4, $5, now(), $6, $7)
	`, rec.ID, rec.Topic, string(rec.EventType), rec.Payload, rec.CreatedAt, reason, rec.RetryCount+1)
	if err != nil {
		return err
	}

	_, err = b.tx.ExecContext(ctx, `
		DELETE FROM outbox_events WHERE id = $1
	`, rec.ID)
	return err
}
