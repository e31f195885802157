package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Identifier types share the same representation but are distinct types so
// that, for example, a PostID cannot be passed where a UserID is expected.
// Conversions like UserID(s) are the trusted rehydration path; untrusted
// input must go through the Parse functions.
type (
	UserID         string
	PostID         string
	CommentID      string
	ConversationID string
	MessageID      string
)

// canonicalUUIDLen is the length of the 8-4-4-4-12 form. uuid.Validate also
// accepts the braced, urn and hyphenless forms, which are rejected here.
const canonicalUUIDLen = 36

func validateUUID(typeName, raw string) error {
	if len(raw) != canonicalUUIDLen || uuid.Validate(raw) != nil {
		return &InvalidIDError{Type: typeName, Value: raw}
	}
	return nil
}

func ParseUserID(raw string) (UserID, error) {
	if err := validateUUID("UserId", raw); err != nil {
		return "", err
	}
	return UserID(raw), nil
}

func ParsePostID(raw string) (PostID, error) {
	if err := validateUUID("PostId", raw); err != nil {
		return "", err
	}
	return PostID(raw), nil
}

func ParseCommentID(raw string) (CommentID, error) {
	if err := validateUUID("CommentId", raw); err != nil {
		return "", err
	}
	return CommentID(raw), nil
}

func ParseConversationID(raw string) (ConversationID, error) {
	if err := validateUUID("ConversationId", raw); err != nil {
		return "", err
	}
	return ConversationID(raw), nil
}

func ParseMessageID(raw string) (MessageID, error) {
	if err := validateUUID("MessageId", raw); err != nil {
		return "", err
	}
	return MessageID(raw), nil
}

func NewPostID() PostID                 { return PostID(uuid.NewString()) }
func NewCommentID() CommentID           { return CommentID(uuid.NewString()) }
func NewConversationID() ConversationID { return ConversationID(uuid.NewString()) }
func NewMessageID() MessageID           { return MessageID(uuid.NewString()) }

func (id UserID) String() string         { return string(id) }
func (id PostID) String() string         { return string(id) }
func (id CommentID) String() string      { return string(id) }
func (id ConversationID) String() string { return string(id) }
func (id MessageID) String() string      { return string(id) }

// Canonical returns the lower-case spelling under which a user is stored and
// compared. Parsing keeps the caller's spelling.
func (id UserID) Canonical() UserID { return UserID(strings.ToLower(string(id))) }
