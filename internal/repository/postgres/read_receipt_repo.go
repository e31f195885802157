package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/SARVESHVARADKAR123/townsquare/internal/domain"
	"github.com/SARVESHVARADKAR123/townsquare/internal/events"
	"github.com/SARVESHVARADKAR123/townsquare/internal/tx"
)

type ReadReceiptRepo struct {
	DB *sql.DB
	Tx tx.Transactor
}

func (r *ReadReceiptRepo) FindByConversationAndUser(ctx context.Context, convID domain.ConversationID, userID domain.UserID) (*domain.ReadPosition, error) {
	defer observe("receipt_find")()

	var lastReadAt time.Time
	err := r.DB.QueryRowContext(ctx, `
		SELECT last_read_at
		FROM read_receipts
		WHERE conversation_id = $1 AND user_id = $2
	`, string(convID), string(userID.Canonical())).Scan(&lastReadAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReadPositionNotFound
		}
		return nil, err
	}
	pos := domain.NewReadPosition(convID, userID, lastReadAt)
	return &pos, nil
}

func (r *ReadReceiptRepo) FindAllByConversationID(ctx context.Context, convID domain.ConversationID) ([]domain.ReadPosition, error) {
	defer observe("receipt_list")()

	rows, err := r.DB.QueryContext(ctx, `
		SELECT user_id, last_read_at
		FROM read_receipts
		WHERE conversation_id = $1
		ORDER BY user_id
	`, string(convID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []domain.ReadPosition
	for rows.Next() {
		var userID string
		var lastReadAt time.Time
		if err := rows.Scan(&userID, &lastReadAt); err != nil {
			return nil, err
		}
		positions = append(positions, domain.NewReadPosition(convID, domain.UserID(userID), lastReadAt))
	}
	return positions, rows.Err()
}

// Upsert keeps the later of the stored and the new timestamp and publishes
// the stored position through the outbox.
func (r *ReadReceiptRepo) Upsert(ctx context.Context, pos domain.ReadPosition) (domain.ReadPosition, error) {
	defer observe("receipt_upsert")()

	var stored domain.ReadPosition
	err := r.Tx.WithTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var lastReadAt time.Time
		err := tx.QueryRowContext(ctx, `
			INSERT INTO read_receipts (conversation_id, user_id, last_read_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (conversation_id, user_id) DO UPDATE
			SET last_read_at = GREATEST(read_receipts.last_read_at, EXCLUDED.last_read_at)
			RETURNING last_read_at
		`, string(pos.ConversationID()), string(pos.UserID()), pos.LastReadAt()).Scan(&lastReadAt)
		if err != nil {
			return fmt.Errorf("failed to upsert read position: %w", err)
		}

		stored = domain.NewReadPosition(pos.ConversationID(), pos.UserID(), lastReadAt)
		ev, err := events.NewReadPositionChanged(stored)
		if err != nil {
			return err
		}
		return insertOutbox(ctx, tx, ev)
	})
	return stored, err
}

func (r *ReadReceiptRepo) CountUnread(ctx context.Context, convID domain.ConversationID, userID domain.UserID) (int, error) {
	defer observe("receipt_count_unread")()

	var n int
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM messages m
		LEFT JOIN read_receipts r
		  ON r.conversation_id = m.conversation_id AND r.user_id = $2
		WHERE m.conversation_id = $1
		  AND m.sender_id <> $2
		  AND (r.last_read_at IS NULL OR m.created_at > r.last_read_at)
	`, string(convID), string(userID.Canonical())).Scan(&n)
	return n, err
}
