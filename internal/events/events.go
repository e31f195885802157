package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SARVESHVARADKAR123/townsquare/internal/domain"
)

type Type string

const (
	MessageSent         Type = "MESSAGE_SENT"
	CommentCreated      Type = "COMMENT_CREATED"
	ReadPositionChanged Type = "READ_POSITION_CHANGED"
)

const schemaVersion = 1

var ErrUnknownEvent = errors.New("unknown event type")

// Event is a change notification addressed to a realtime topic. Payload
// holds the JSON encoded Envelope.
type Event struct {
	Topic   string
	Type    Type
	Payload []byte
}

func MessagesTopic(id domain.ConversationID) string { return "messages:" + string(id) }
func CommentsTopic(id domain.PostID) string         { return "comments:" + string(id) }
func ReceiptsTopic(id domain.ConversationID) string { return "receipts:" + string(id) }

// AggregateID returns the id part of a topic such as "messages:<id>".
func AggregateID(topic string) string {
	_, id, _ := strings.Cut(topic, ":")
	return id
}

type Envelope struct {
	EventType     Type            `json:"event_type"`
	SchemaVersion int             `json:"schema_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

type MessagePayload struct {
	MessageID      string    `json:"message_id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
}

type CommentPayload struct {
	CommentID string    `json:"comment_id"`
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ReadPositionPayload struct {
	ConversationID string    `json:"conversation_id"`
	UserID         string    `json:"user_id"`
	LastReadAt     time.Time `json:"last_read_at"`
}

func NewMessageSent(m *domain.Message) (Event, error) {
	return build(MessagesTopic(m.ConversationID()), MessageSent, m.CreatedAt(), MessagePayload{
		MessageID:      string(m.ID()),
		ConversationID: string(m.ConversationID()),
		SenderID:       string(m.SenderID()),
		Body:           m.Body().String(),
		CreatedAt:      m.CreatedAt(),
	})
}

func NewCommentCreated(c *domain.Comment) (Event, error) {
	return build(CommentsTopic(c.PostID()), CommentCreated, c.CreatedAt(), CommentPayload{
		CommentID: string(c.ID()),
		PostID:    string(c.PostID()),
		AuthorID:  string(c.AuthorID()),
		Body:      c.Body().String(),
		CreatedAt: c.CreatedAt(),
		UpdatedAt: c.UpdatedAt(),
	})
}

func NewReadPositionChanged(p domain.ReadPosition) (Event, error) {
	return build(ReceiptsTopic(p.ConversationID()), ReadPositionChanged, p.LastReadAt(), ReadPositionPayload{
		ConversationID: string(p.ConversationID()),
		UserID:         string(p.UserID()),
		LastReadAt:     p.LastReadAt(),
	})
}

func build(topic string, t Type, at time.Time, payload any) (Event, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal %s payload: %w", t, err)
	}
	env, err := json.Marshal(Envelope{
		EventType:     t,
		SchemaVersion: schemaVersion,
		OccurredAt:    at.UTC(),
		Payload:       body,
	})
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal event envelope: %w", err)
	}
	return Event{Topic: topic, Type: t, Payload: env}, nil
}

func Decode(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("failed to unmarshal event envelope: %w", err)
	}
	switch env.EventType {
	case MessageSent, CommentCreated, ReadPositionChanged:
		return env, nil
	default:
		return Envelope{}, fmt.Errorf("%w: %q", ErrUnknownEvent, env.EventType)
	}
}

// Message rebuilds the message carried by a MESSAGE_SENT envelope.
func (e Envelope) Message() (*domain.Message, error) {
	if e.EventType != MessageSent {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrUnknownEvent, MessageSent, e.EventType)
	}
	var p MessagePayload
	if err := json.Unmarshal(e.Payload, &p); err != nil {
		return nil, err
	}
	return domain.NewMessage(
		domain.MessageID(p.MessageID),
		domain.ConversationID(p.ConversationID),
		domain.UserID(p.SenderID),
		domain.RestoreMessageBody(p.Body),
		p.CreatedAt,
	), nil
}

func (e Envelope) Comment() (*domain.Comment, error) {
	if e.EventType != CommentCreated {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrUnknownEvent, CommentCreated, e.EventType)
	}
	var p CommentPayload
	if err := json.Unmarshal(e.Payload, &p); err != nil {
		return nil, err
	}
	return domain.RestoreComment(
		domain.CommentID(p.CommentID),
		domain.PostID(p.PostID),
		domain.UserID(p.AuthorID),
		domain.RestoreCommentBody(p.Body),
		p.CreatedAt,
		p.UpdatedAt,
		nil,
	), nil
}

func (e Envelope) ReadPosition() (domain.ReadPosition, error) {
	if e.EventType != ReadPositionChanged {
		return domain.ReadPosition{}, fmt.Errorf("%w: expected %s, got %s", ErrUnknownEvent, ReadPositionChanged, e.EventType)
	}
	var p ReadPositionPayload
	if err := json.Unmarshal(e.Payload, &p); err != nil {
		return domain.ReadPosition{}, err
	}
	return domain.NewReadPosition(
		domain.ConversationID(p.ConversationID),
		domain.UserID(p.UserID),
		p.LastReadAt,
	), nil
}
