package domain

import "time"

// Message is immutable once created.
type Message struct {
	id             MessageID
	conversationID ConversationID
	senderID       UserID
	body           MessageBody
	createdAt      time.Time
}

func NewMessage(id MessageID, conversationID ConversationID, senderID UserID, body MessageBody, createdAt time.Time) *Message {
	return &Message{
		id:             id,
		conversationID: conversationID,
		senderID:       senderID.Canonical(),
		body:           body,
		createdAt:      createdAt,
	}
}

func (m *Message) ID() MessageID                  { return m.id }
func (m *Message) EntityID() string               { return string(m.id) }
func (m *Message) ConversationID() ConversationID { return m.conversationID }
func (m *Message) SenderID() UserID               { return m.senderID }
func (m *Message) Body() MessageBody              { return m.body }
func (m *Message) CreatedAt() time.Time           { return m.createdAt }
