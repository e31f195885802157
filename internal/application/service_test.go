package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/SARVESHVARADKAR123/townsquare/internal/domain"
	"github.com/SARVESHVARADKAR123/townsquare/internal/realtime"
	"github.com/SARVESHVARADKAR123/townsquare/internal/repository/memory"
	"github.com/SARVESHVARADKAR123/townsquare/internal/security"
)

// stepClock advances one millisecond per reading so timestamps are strictly
// increasing across calls.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Millisecond)
	return c.t
}

// stubIdentity accepts tokens registered in its map.
type stubIdentity map[string]security.Identity

func (s stubIdentity) Verify(_ context.Context, token string) (security.Identity, error) {
	id, ok := s[token]
	if !ok {
		return security.Identity{}, errors.New("unknown token")
	}
	return id, nil
}

type harness struct {
	svc      *Service
	store    *memory.Store
	bus      *realtime.MemoryBus
	identity stubIdentity
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := memory.NewStore()
	bus := realtime.NewMemoryBus()
	feeds := realtime.NewFeeds(bus)
	identity := stubIdentity{}
	clock := &stepClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}

	svc := New(Dependencies{
		Users:           store.Users(),
		Conversations:   store.Conversations(),
		Messages:        store.Messages(),
		ReadReceipts:    store.ReadReceipts(),
		Posts:           store.Posts(),
		Comments:        store.Comments(),
		MessageFeed:     feeds,
		CommentFeed:     feeds,
		ReadReceiptFeed: feeds,
		Identity:        identity,
		Now:             clock.Now,
	})
	return &harness{svc: svc, store: store, bus: bus, identity: identity}
}

func newUserID() string { return uuid.NewString() }

func (h *harness) conversation(t *testing.T, a, b string) *domain.Conversation {
	t.Helper()
	conv, err := h.svc.GetOrCreateConversation(context.Background(), a, b)
	require.NoError(t, err)
	return conv
}

func (h *harness) send(t *testing.T, conv *domain.Conversation, sender, body string) *domain.Message {
	t.Helper()
	msg, err := h.svc.SendMessage(context.Background(), SendMessageCommand{
		ConversationID: string(conv.ID()),
		SenderID:       sender,
		Body:           body,
	})
	require.NoError(t, err)
	return msg
}
