package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/townsquare/internal/domain"
	"github.com/SARVESHVARADKAR123/townsquare/internal/realtime"
	"github.com/SARVESHVARADKAR123/townsquare/internal/repository"
	"github.com/SARVESHVARADKAR123/townsquare/internal/security"
)

type MessageFeed interface {
	Messages(ctx context.Context, id domain.ConversationID) (*realtime.Subscription[*domain.Message], error)
}

type CommentFeed interface {
	Comments(ctx context.Context, id domain.PostID) (*realtime.Subscription[*domain.Comment], error)
}

type ReadReceiptFeed interface {
	ReadReceipts(ctx context.Context, id domain.ConversationID) (*realtime.Subscription[domain.ReadPosition], error)
}

type Dependencies struct {
	Users         repository.UserRepository
	Conversations repository.ConversationRepository
	Messages      repository.MessageRepository
	ReadReceipts  repository.ReadReceiptRepository
	Posts         repository.PostRepository
	Comments      repository.CommentRepository

	MessageFeed     MessageFeed
	CommentFeed     CommentFeed
	ReadReceiptFeed ReadReceiptFeed

	Identity security.IdentityProvider

	// Now defaults to time.Now.
	Now func() time.Time
	Log *zap.Logger
}

type Service struct {
	users         repository.UserRepository
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	receipts      repository.ReadReceiptRepository
	posts         repository.PostRepository
	comments      repository.CommentRepository

	messageFeed     MessageFeed
	commentFeed     CommentFeed
	readReceiptFeed ReadReceiptFeed

	identity security.IdentityProvider
	clock    func() time.Time
	log      *zap.Logger
}

func New(deps Dependencies) *Service {
	s := &Service{
		users:           deps.Users,
		conversations:   deps.Conversations,
		messages:        deps.Messages,
		receipts:        deps.ReadReceipts,
		posts:           deps.Posts,
		comments:        deps.Comments,
		messageFeed:     deps.MessageFeed,
		commentFeed:     deps.CommentFeed,
		readReceiptFeed: deps.ReadReceiptFeed,
		identity:        deps.Identity,
		clock:           deps.Now,
		log:             deps.Log,
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// now is truncated to the microsecond precision of the Postgres store so a
// timestamp compares the same before and after a round trip.
func (s *Service) now() time.Time {
	return s.clock().UTC().Truncate(time.Microsecond)
}

// memberConversation loads a conversation the user belongs to. A missing
// conversation is reported before missing membership.
func (s *Service) memberConversation(ctx context.Context, convID domain.ConversationID, userID domain.UserID) (*domain.Conversation, error) {
	conv, err := s.conversations.FindByID(ctx, convID)
	if err != nil {
		return nil, err
	}
	if !conv.IsMember(userID) {
		return nil, domain.ErrNotMember
	}
	return conv, nil
}
