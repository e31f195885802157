package repository

import (
	"context"

	"github.com/SARVESHVARADKAR123/townsquare/internal/domain"
)

// Single-entity finders return the domain not-found error of their entity
// when nothing matches, except where noted. Save on a mutable entity is an
// upsert. Implementations write the matching outbox event atomically with
// the change.

type UserRepository interface {
	FindByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	Save(ctx context.Context, user *domain.User) error
}

type ConversationRepository interface {
	FindByID(ctx context.Context, id domain.ConversationID) (*domain.Conversation, error)

	// FindByMembers looks up the conversation of an unordered member pair.
	FindByMembers(ctx context.Context, a, b domain.UserID) (*domain.Conversation, error)

	// FindAllByUserID returns the user's conversations, newest first.
	FindAllByUserID(ctx context.Context, userID domain.UserID) ([]*domain.Conversation, error)

	// Save inserts a new conversation. It returns domain.ErrConversationExists
	// when the member pair already has one.
	Save(ctx context.Context, conv *domain.Conversation) error
}

type MessageRepository interface {
	// FindByConversationID returns messages in ascending creation order.
	FindByConversationID(ctx context.Context, id domain.ConversationID) ([]*domain.Message, error)
	// FindLatestByConversationID returns nil, nil for an empty conversation.
	FindLatestByConversationID(ctx context.Context, id domain.ConversationID) (*domain.Message, error)
	Save(ctx context.Context, msg *domain.Message) error
}

type ReadReceiptRepository interface {
	FindByConversationAndUser(ctx context.Context, convID domain.ConversationID, userID domain.UserID) (*domain.ReadPosition, error)
	FindAllByConversationID(ctx context.Context, convID domain.ConversationID) ([]domain.ReadPosition, error)

	// Upsert stores the position, never moving lastReadAt backward, and
	// returns the position actually stored.
	Upsert(ctx context.Context, pos domain.ReadPosition) (domain.ReadPosition, error)

	// CountUnread counts messages after the user's read position that the
	// user did not send. With no position every such message counts.
	CountUnread(ctx context.Context, convID domain.ConversationID, userID domain.UserID) (int, error)
}

type PostRepository interface {
	// FindByID ignores deleted posts.
	FindByID(ctx context.Context, id domain.PostID) (*domain.Post, error)
	// FindForUpdate includes deleted posts.
	FindForUpdate(ctx context.Context, id domain.PostID) (*domain.Post, error)
	// FindAll returns active posts, newest first.
	FindAll(ctx context.Context) ([]*domain.Post, error)
	Save(ctx context.Context, post *domain.Post) error
}

type CommentRepository interface {
	FindByID(ctx context.Context, id domain.CommentID) (*domain.Comment, error)
	FindForUpdate(ctx context.Context, id domain.CommentID) (*domain.Comment, error)
	// FindByPostID returns active comments, oldest first.
	FindByPostID(ctx context.Context, postID domain.PostID) ([]*domain.Comment, error)
	Save(ctx context.Context, comment *domain.Comment) error
}
