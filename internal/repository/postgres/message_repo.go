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

type MessageRepo struct {
	DB *sql.DB
	Tx tx.Transactor
}

const messageColumns = `id, conversation_id, sender_id, body, created_at`

func scanMessage(scan func(dest ...any) error) (*domain.Message, error) {
	var (
		id, convID, senderID, body string
		createdAt                  time.Time
	)
	if err := scan(&id, &convID, &senderID, &body, &createdAt); err != nil {
		return nil, err
	}
	return domain.NewMessage(
		domain.MessageID(id),
		domain.ConversationID(convID),
		domain.UserID(senderID),
		domain.RestoreMessageBody(body),
		createdAt,
	), nil
}

func (r *MessageRepo) FindByConversationID(ctx context.Context, id domain.ConversationID) ([]*domain.Message, error) {
	defer observe("message_list")()

	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC, id ASC
	`, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		msg, err := scanMessage(rows.Scan)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (r *MessageRepo) FindLatestByConversationID(ctx context.Context, id domain.ConversationID) (*domain.Message, error) {
	defer observe("message_latest")()

	row := r.DB.QueryRowContext(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, string(id))

	msg, err := scanMessage(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return msg, nil
}

// Save inserts the message and its MESSAGE_SENT outbox event atomically.
func (r *MessageRepo) Save(ctx context.Context, msg *domain.Message) error {
	defer observe("message_insert")()

	ev, err := events.NewMessageSent(msg)
	if err != nil {
		return err
	}

	return r.Tx.WithTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO messages (`+messageColumns+`)
			VALUES ($1, $2, $3, $4, $5)
		`,
			string(msg.ID()),
			string(msg.ConversationID()),
			string(msg.SenderID()),
			msg.Body().String(),
			msg.CreatedAt(),
		); err != nil {
			return fmt.Errorf("failed to save message: %w", err)
		}
		return insertOutbox(ctx, tx, ev)
	})
}
