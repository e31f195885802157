package application

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SARVESHVARADKAR123/townsquare/internal/domain"
)

func TestSendMessage_MembersOnly(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	a, b, outsider := newUserID(), newUserID(), newUserID()
	conv := h.conversation(t, a, b)

	msg := h.send(t, conv, a, "  hello  ")
	assert.Equal(t, "hello", msg.Body().String())
	assert.Equal(t, conv.ID(), msg.ConversationID())

	_, err := h.svc.SendMessage(ctx, SendMessageCommand{
		ConversationID: string(conv.ID()),
		SenderID:       outsider,
		Body:           "let me in",
	})
	assert.ErrorIs(t, err, domain.ErrNotMember)

	_, err = h.svc.ListMessages(ctx, string(conv.ID()), outsider)
	assert.ErrorIs(t, err, domain.ErrNotMember)
}

func TestSendMessage_ValidationAndLookupOrder(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	a := newUserID()
	missing := string(domain.NewConversationID())

	tests := []struct {
		name string
		cmd  SendMessageCommand
		want error
	}{
		{"bad conversation id", SendMessageCommand{ConversationID: "x", SenderID: a, Body: "hi"}, domain.ErrValidation},
		{"bad sender id", SendMessageCommand{ConversationID: missing, SenderID: "x", Body: "hi"}, domain.ErrValidation},
		{"blank body", SendMessageCommand{ConversationID: missing, SenderID: a, Body: "   "}, domain.ErrValidation},
		{"too long", SendMessageCommand{ConversationID: missing, SenderID: a, Body: strings.Repeat("é", domain.MaxMessageLength+1)}, domain.ErrValidation},
		{"missing conversation", SendMessageCommand{ConversationID: missing, SenderID: a, Body: "hi"}, domain.ErrConversationNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.svc.SendMessage(ctx, tt.cmd)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSendMessage_BodyAtLimitIsAccepted(t *testing.T) {
	h := newHarness(t)
	a, b := newUserID(), newUserID()
	conv := h.conversation(t, a, b)

	msg := h.send(t, conv, a, strings.Repeat("語", domain.MaxMessageLength))
	assert.Equal(t, domain.MaxMessageLength, len([]rune(msg.Body().String())))
}

func TestListMessages_Ascending(t *testing.T) {
	h := newHarness(t)
	a, b := newUserID(), newUserID()
	conv := h.conversation(t, a, b)

	h.send(t, conv, a, "first")
	h.send(t, conv, b, "second")
	h.send(t, conv, a, "third")

	msgs, err := h.svc.ListMessages(context.Background(), string(conv.ID()), b)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	for i, want := range []string{"first", "second", "third"} {
		assert.Equal(t, want, msgs[i].Body().String())
	}
	for i := 1; i < len(msgs); i++ {
		assert.False(t, msgs[i].CreatedAt().Before(msgs[i-1].CreatedAt()))
	}
}

func TestMarkConversationAsRead_ClearsUnread(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	a, b := newUserID(), newUserID()
	conv := h.conversation(t, a, b)

	h.send(t, conv, a, "one")
	h.send(t, conv, a, "two")
	h.send(t, conv, b, "from b")

	counts, err := h.svc.GetUnreadCounts(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[conv.ID()], "own messages never count")

	counts, err = h.svc.GetUnreadCounts(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[conv.ID()])

	pos, err := h.svc.MarkConversationAsRead(ctx, string(conv.ID()), b)
	require.NoError(t, err)
	assert.Equal(t, domain.UserID(b), pos.UserID())

	counts, err = h.svc.GetUnreadCounts(ctx, b)
	require.NoError(t, err)
	assert.Zero(t, counts[conv.ID()])

	h.send(t, conv, a, "three")
	counts, err = h.svc.GetUnreadCounts(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[conv.ID()])
}

func TestMarkConversationAsRead_NeverMovesBackward(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	a, b := newUserID(), newUserID()
	conv := h.conversation(t, a, b)

	first, err := h.svc.MarkConversationAsRead(ctx, string(conv.ID()), a)
	require.NoError(t, err)

	// an older position arriving late is absorbed
	stale := domain.NewReadPosition(conv.ID(), domain.UserID(a), first.LastReadAt().Add(-time.Hour))
	stored, err := h.store.ReadReceipts().Upsert(ctx, stale)
	require.NoError(t, err)
	assert.True(t, stored.LastReadAt().Equal(first.LastReadAt()))

	second, err := h.svc.MarkConversationAsRead(ctx, string(conv.ID()), a)
	require.NoError(t, err)
	assert.True(t, second.LastReadAt().After(first.LastReadAt()))

	positions, err := h.svc.GetReadPositions(ctx, string(conv.ID()), b)
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.True(t, positions[0].Equal(second))
}

func TestReadReceipts_MembersOnly(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	a, b, outsider := newUserID(), newUserID(), newUserID()
	conv := h.conversation(t, a, b)

	_, err := h.svc.MarkConversationAsRead(ctx, string(conv.ID()), outsider)
	assert.ErrorIs(t, err, domain.ErrNotMember)

	_, err = h.svc.GetReadPositions(ctx, string(conv.ID()), outsider)
	assert.ErrorIs(t, err, domain.ErrNotMember)

	_, err = h.svc.MarkConversationAsRead(ctx, string(domain.NewConversationID()), a)
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)
}

func TestGetUnreadCounts_EveryConversation(t *testing.T) {
	h := newHarness(t)
	me := newUserID()

	want := make(map[domain.ConversationID]int)
	for i := 0; i < 12; i++ {
		peer := newUserID()
		conv := h.conversation(t, me, peer)
		for j := 0; j < i%4; j++ {
			h.send(t, conv, peer, "ping")
		}
		want[conv.ID()] = i % 4
	}

	counts, err := h.svc.GetUnreadCounts(context.Background(), me)
	require.NoError(t, err)
	assert.Equal(t, want, counts)

	counts, err = h.svc.GetUnreadCounts(context.Background(), newUserID())
	require.NoError(t, err)
	assert.Empty(t, counts)
}
