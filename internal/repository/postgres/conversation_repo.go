package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/townsquare/internal/cache"
	"github.com/SARVESHVARADKAR123/townsquare/internal/domain"
	"github.com/SARVESHVARADKAR123/townsquare/internal/observability"
	"github.com/SARVESHVARADKAR123/townsquare/internal/tx"
)

type ConversationRepo struct {
	DB    *sql.DB
	Tx    tx.Transactor
	Cache *cache.Cache
}

func (r *ConversationRepo) FindByID(ctx context.Context, id domain.ConversationID) (*domain.Conversation, error) {
	// 1. Try Cache
	if r.Cache != nil {
		conv, err := r.Cache.GetConversation(ctx, id)
		if err == nil && conv != nil {
			observability.CacheRequestsTotal.WithLabelValues("hit").Inc()
			return conv, nil
		}
		if err != nil {
			observability.GetLogger(ctx).Warn("conversation cache read failed", zap.Error(err))
		}
		observability.CacheRequestsTotal.WithLabelValues("miss").Inc()
	}

	// 2. Fallback to DB
	conv, err := r.fetch(ctx, nil, id)
	if err != nil {
		return nil, err
	}

	// 3. Populate Cache
	if r.Cache != nil {
		_ = r.Cache.SetConversation(ctx, conv)
	}

	return conv, nil
}

func (r *ConversationRepo) FindByMembers(ctx context.Context, a, b domain.UserID) (*domain.Conversation, error) {
	defer observe("conversation_find_by_members")()

	var id string
	err := r.DB.QueryRowContext(ctx, `
		SELECT id FROM conversations WHERE pair_key = $1
	`, domain.PairKey(a, b)).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrConversationNotFound
		}
		return nil, err
	}
	return r.FindByID(ctx, domain.ConversationID(id))
}

func (r *ConversationRepo) FindAllByUserID(ctx context.Context, userID domain.UserID) ([]*domain.Conversation, error) {
	defer observe("conversation_list_by_user")()

	rows, err := r.DB.QueryContext(ctx, `
		SELECT c.id, c.created_at, m.user_id, m.joined_at
		FROM conversations c
		JOIN conversation_members me ON me.conversation_id = c.id AND me.user_id = $1
		JOIN conversation_members m ON m.conversation_id = c.id
		ORDER BY c.created_at DESC, c.id, m.position
	`, string(userID.Canonical()))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type partial struct {
		createdAt time.Time
		members   []domain.Member
	}
	var order []string
	byID := map[string]*partial{}

	for rows.Next() {
		var (
			convID, memberID    string
			createdAt, joinedAt time.Time
		)
		if err := rows.Scan(&convID, &createdAt, &memberID, &joinedAt); err != nil {
			return nil, err
		}
		p, ok := byID[convID]
		if !ok {
			p = &partial{createdAt: createdAt}
			byID[convID] = p
			order = append(order, convID)
		}
		p.members = append(p.members, domain.Member{UserID: domain.UserID(memberID), JoinedAt: joinedAt})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	conversations := make([]*domain.Conversation, 0, len(order))
	for _, id := range order {
		p := byID[id]
		conversations = append(conversations, domain.RestoreConversation(domain.ConversationID(id), p.members, p.createdAt))
	}
	return conversations, nil
}

// Save inserts the conversation and its members. The pair_key unique
// constraint turns a lost creation race into domain.ErrConversationExists.
func (r *ConversationRepo) Save(ctx context.Context, conv *domain.Conversation) error {
	defer observe("conversation_insert")()

	return r.Tx.WithTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO conversations (id, pair_key, created_at)
			VALUES ($1, $2, $3)
		`, string(conv.ID()), conv.PairKey(), conv.CreatedAt())
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrConversationExists
			}
			return fmt.Errorf("failed to create conversation: %w", err)
		}

		for i, m := range conv.Members() {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO conversation_members (conversation_id, user_id, position, joined_at)
				VALUES ($1, $2, $3, $4)
			`, string(conv.ID()), string(m.UserID), i, m.JoinedAt); err != nil {
				return fmt.Errorf("failed to add member %s: %w", m.UserID, err)
			}
		}
		return nil
	})
}

func (r *ConversationRepo) fetch(ctx context.Context, tx *sql.Tx, id domain.ConversationID) (*domain.Conversation, error) {
	defer observe("conversation_find")()

	q := getter(r.DB, tx)

	var createdAt time.Time
	err := q.QueryRowContext(ctx, `
		SELECT created_at
		FROM conversations
		WHERE id = $1
	`, string(id)).Scan(&createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrConversationNotFound
		}
		return nil, err
	}

	rows, err := q.QueryContext(ctx, `
		SELECT user_id, joined_at
		FROM conversation_members
		WHERE conversation_id = $1
		ORDER BY position
	`, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		var m domain.Member
		var userID string
		if err := rows.Scan(&userID, &m.JoinedAt); err != nil {
			return nil, err
		}
		m.UserID = domain.UserID(userID)
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return domain.RestoreConversation(id, members, createdAt), nil
}
