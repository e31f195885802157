package grpc

import (
	"time"

	"github.com/SARVESHVARADKAR123/townsquare/internal/application"
	"github.com/SARVESHVARADKAR123/townsquare/internal/domain"
)

type Empty struct{}

type GetOrCreateConversationRequest struct {
	PeerID string `json:"peer_id"`
}

type ConversationRequest struct {
	ConversationID string `json:"conversation_id"`
}

type SendMessageRequest struct {
	ConversationID string `json:"conversation_id"`
	Body           string `json:"body"`
}

type Conversation struct {
	ID        string    `json:"id"`
	MemberIDs []string  `json:"member_ids"`
	CreatedAt time.Time `json:"created_at"`
}

type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
}

type MessageList struct {
	Messages []*Message `json:"messages"`
}

type ReadPosition struct {
	ConversationID string    `json:"conversation_id"`
	UserID         string    `json:"user_id"`
	LastReadAt     time.Time `json:"last_read_at"`
}

type ReadPositionList struct {
	Positions []*ReadPosition `json:"positions"`
}

type UnreadCounts struct {
	Counts map[string]int `json:"counts"`
}

type ConversationSummary struct {
	Conversation *Conversation `json:"conversation"`
	LastMessage  *Message      `json:"last_message,omitempty"`
	UnreadCount  int           `json:"unread_count"`
}

type ConversationSummaryList struct {
	Conversations []*ConversationSummary `json:"conversations"`
}

func conversationToWire(c *domain.Conversation) *Conversation {
	members := c.Members()
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = string(m.UserID)
	}
	return &Conversation{ID: string(c.ID()), MemberIDs: ids, CreatedAt: c.CreatedAt()}
}

func messageToWire(m *domain.Message) *Message {
	return &Message{
		ID:             string(m.ID()),
		ConversationID: string(m.ConversationID()),
		SenderID:       string(m.SenderID()),
		Body:           m.Body().String(),
		CreatedAt:      m.CreatedAt(),
	}
}

func readPositionToWire(p domain.ReadPosition) *ReadPosition {
	return &ReadPosition{
		ConversationID: string(p.ConversationID()),
		UserID:         string(p.UserID()),
		LastReadAt:     p.LastReadAt(),
	}
}

func summaryToWire(s application.ConversationSummary) *ConversationSummary {
	out := &ConversationSummary{
		Conversation: conversationToWire(s.Conversation),
		UnreadCount:  s.UnreadCount,
	}
	if s.LastMessage != nil {
		out.LastMessage = messageToWire(s.LastMessage)
	}
	return out
}
