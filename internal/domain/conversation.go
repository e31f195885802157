package domain

import (
	"fmt"
	"time"
)

type Member struct {
	UserID   UserID
	JoinedAt time.Time
}

// Conversation Invariants:
// 1. Membership: exactly 2 members, fixed at creation. There is no join or leave.
// 2. Uniqueness: at most one conversation per unordered member pair (see PairKey).
type Conversation struct {
	id        ConversationID
	members   []Member
	createdAt time.Time
}

// NewDirectConversation starts a 1:1 conversation with both users joined at now.
func NewDirectConversation(id ConversationID, a, b UserID, now time.Time) (*Conversation, error) {
	a, b = a.Canonical(), b.Canonical()
	if a == b {
		return nil, ErrSelfConversation
	}
	return &Conversation{
		id: id,
		members: []Member{
			{UserID: a, JoinedAt: now},
			{UserID: b, JoinedAt: now},
		},
		createdAt: now,
	}, nil
}

// RestoreConversation rebuilds a conversation loaded from storage.
func RestoreConversation(id ConversationID, members []Member, createdAt time.Time) *Conversation {
	return &Conversation{
		id:        id,
		members:   append([]Member(nil), members...),
		createdAt: createdAt,
	}
}

func (c *Conversation) ID() ConversationID   { return c.id }
func (c *Conversation) EntityID() string     { return string(c.id) }
func (c *Conversation) CreatedAt() time.Time { return c.createdAt }

// Members returns a copy of the member list.
func (c *Conversation) Members() []Member {
	return append([]Member(nil), c.members...)
}

func (c *Conversation) IsMember(userID UserID) bool {
	for _, m := range c.members {
		if m.UserID.Canonical() == userID.Canonical() {
			return true
		}
	}
	return false
}

// PairKey is the storage key enforcing one conversation per member pair.
// It is empty for conversations that do not have exactly two members.
func (c *Conversation) PairKey() string {
	if len(c.members) != 2 {
		return ""
	}
	return PairKey(c.members[0].UserID, c.members[1].UserID)
}

// PairKey normalizes an unordered user pair.
func PairKey(a, b UserID) string {
	p1, p2 := string(a.Canonical()), string(b.Canonical())
	if p1 > p2 {
		p1, p2 = p2, p1
	}
	return fmt.Sprintf("direct:%s:%s", p1, p2)
}
