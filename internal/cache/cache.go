package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SARVESHVARADKAR123/townsquare/internal/domain"
)

const conversationTTL = 10 * time.Minute

type Cache struct {
	Client *redis.Client
}

func New(addr string) *Cache {
	return &Cache{
		Client: redis.NewClient(&redis.Options{
			Addr: addr,
		}),
	}
}

// PingContext lets the cache serve as a readiness dependency.
func (c *Cache) PingContext(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

type memberRecord struct {
	UserID   string    `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}

type conversationRecord struct {
	ID        string         `json:"id"`
	Members   []memberRecord `json:"members"`
	CreatedAt time.Time      `json:"created_at"`
}

func key(id domain.ConversationID) string { return "conv:" + string(id) }

// GetConversation returns nil, nil on a miss.
func (c *Cache) GetConversation(ctx context.Context, id domain.ConversationID) (*domain.Conversation, error) {
	val, err := c.Client.Get(ctx, key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Miss
		}
		return nil, err
	}

	var rec conversationRecord
	if err := json.Unmarshal(val, &rec); err != nil {
		return nil, err
	}

	members := make([]domain.Member, 0, len(rec.Members))
	for _, m := range rec.Members {
		members = append(members, domain.Member{UserID: domain.UserID(m.UserID), JoinedAt: m.JoinedAt})
	}
	return domain.RestoreConversation(domain.ConversationID(rec.ID), members, rec.CreatedAt), nil
}

func (c *Cache) SetConversation(ctx context.Context, conv *domain.Conversation) error {
	rec := conversationRecord{ID: string(conv.ID()), CreatedAt: conv.CreatedAt()}
	for _, m := range conv.Members() {
		rec.Members = append(rec.Members, memberRecord{UserID: string(m.UserID), JoinedAt: m.JoinedAt})
	}

	val, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, key(conv.ID()), val, conversationTTL).Err()
}
