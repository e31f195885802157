package domain

import "time"

// ReadPosition marks the boundary between read and unread messages for one
// user in one conversation.
type ReadPosition struct {
	conversationID ConversationID
	userID         UserID
	lastReadAt     time.Time
}

func NewReadPosition(conversationID ConversationID, userID UserID, lastReadAt time.Time) ReadPosition {
	return ReadPosition{
		conversationID: conversationID,
		userID:         userID.Canonical(),
		lastReadAt:     lastReadAt,
	}
}

func (p ReadPosition) ConversationID() ConversationID { return p.conversationID }
func (p ReadPosition) UserID() UserID                 { return p.userID }
func (p ReadPosition) LastReadAt() time.Time          { return p.lastReadAt }

// HasRead reports whether a message created at createdAt is read.
// The boundary is inclusive.
func (p ReadPosition) HasRead(createdAt time.Time) bool {
	return !createdAt.After(p.lastReadAt)
}

// Advance returns the position moved to at, never backward.
func (p ReadPosition) Advance(at time.Time) ReadPosition {
	if at.After(p.lastReadAt) {
		p.lastReadAt = at
	}
	return p
}

// Equal compares positions by value.
func (p ReadPosition) Equal(o ReadPosition) bool {
	return p.conversationID == o.conversationID &&
		p.userID == o.userID &&
		p.lastReadAt.Equal(o.lastReadAt)
}
