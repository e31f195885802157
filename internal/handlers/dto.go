package handlers

import (
	"time"

	"github.com/SARVESHVARADKAR123/townsquare/internal/application"
	"github.com/SARVESHVARADKAR123/townsquare/internal/domain"
)

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Nickname  string    `json:"nickname"`
	AvatarURL *string   `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}

func toUser(u *domain.User) UserResponse {
	resp := UserResponse{
		ID:        string(u.ID()),
		Email:     u.Email().String(),
		Nickname:  u.Nickname().String(),
		CreatedAt: u.CreatedAt(),
	}
	if url, ok := u.AvatarURL().Value(); ok {
		resp.AvatarURL = &url
	}
	return resp
}

type PostResponse struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toPost(p *domain.Post) PostResponse {
	return PostResponse{
		ID:        string(p.ID()),
		AuthorID:  string(p.AuthorID()),
		Title:     p.Content().Title(),
		Body:      p.Content().Body(),
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
	}
}

type CommentResponse struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toComment(c *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        string(c.ID()),
		PostID:    string(c.PostID()),
		AuthorID:  string(c.AuthorID()),
		Body:      c.Body().String(),
		CreatedAt: c.CreatedAt(),
		UpdatedAt: c.UpdatedAt(),
	}
}

type ConversationResponse struct {
	ID        string    `json:"id"`
	MemberIDs []string  `json:"member_ids"`
	CreatedAt time.Time `json:"created_at"`
}

func toConversation(c *domain.Conversation) ConversationResponse {
	members := c.Members()
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = string(m.UserID)
	}
	return ConversationResponse{ID: string(c.ID()), MemberIDs: ids, CreatedAt: c.CreatedAt()}
}

type MessageResponse struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
}

func toMessage(m *domain.Message) MessageResponse {
	return MessageResponse{
		ID:             string(m.ID()),
		ConversationID: string(m.ConversationID()),
		SenderID:       string(m.SenderID()),
		Body:           m.Body().String(),
		CreatedAt:      m.CreatedAt(),
	}
}

type ReadPositionResponse struct {
	ConversationID string    `json:"conversation_id"`
	UserID         string    `json:"user_id"`
	LastReadAt     time.Time `json:"last_read_at"`
}

func toReadPosition(p domain.ReadPosition) ReadPositionResponse {
	return ReadPositionResponse{
		ConversationID: string(p.ConversationID()),
		UserID:         string(p.UserID()),
		LastReadAt:     p.LastReadAt(),
	}
}

type ConversationSummaryResponse struct {
	Conversation ConversationResponse `json:"conversation"`
	LastMessage  *MessageResponse     `json:"last_message"`
	UnreadCount  int                  `json:"unread_count"`
}

func toSummary(s application.ConversationSummary) ConversationSummaryResponse {
	resp := ConversationSummaryResponse{
		Conversation: toConversation(s.Conversation),
		UnreadCount:  s.UnreadCount,
	}
	if s.LastMessage != nil {
		m := toMessage(s.LastMessage)
		resp.LastMessage = &m
	}
	return resp
}

func mapSlice[T, R any](in []T, f func(T) R) []R {
	out := make([]R, len(in))
	for i, v := range in {
		out[i] = f(v)
	}
	return out
}
