package application

import (
	"context"

	"github.com/SARVESHVARADKAR123/townsquare/internal/domain"
	"github.com/SARVESHVARADKAR123/townsquare/internal/realtime"
)

// Membership is checked once, at subscribe time. That is sufficient while
// conversation membership is immutable.

func (s *Service) SubscribeToMessages(ctx context.Context, rawConversationID, rawRequesterID string) (*realtime.Subscription[*domain.Message], error) {
	convID, err := domain.ParseConversationID(rawConversationID)
	if err != nil {
		return nil, err
	}
	requesterID, err := domain.ParseUserID(rawRequesterID)
	if err != nil {
		return nil, err
	}
	if _, err := s.memberConversation(ctx, convID, requesterID); err != nil {
		return nil, err
	}
	return s.messageFeed.Messages(ctx, convID)
}

func (s *Service) SubscribeToReadReceipts(ctx context.Context, rawConversationID, rawRequesterID string) (*realtime.Subscription[domain.ReadPosition], error) {
	convID, err := domain.ParseConversationID(rawConversationID)
	if err != nil {
		return nil, err
	}
	requesterID, err := domain.ParseUserID(rawRequesterID)
	if err != nil {
		return nil, err
	}
	if _, err := s.memberConversation(ctx, convID, requesterID); err != nil {
		return nil, err
	}
	return s.readReceiptFeed.ReadReceipts(ctx, convID)
}

// SubscribeToComments is open to everyone; only the post id is checked.
func (s *Service) SubscribeToComments(ctx context.Context, rawPostID string) (*realtime.Subscription[*domain.Comment], error) {
	postID, err := domain.ParsePostID(rawPostID)
	if err != nil {
		return nil, err
	}
	return s.commentFeed.Comments(ctx, postID)
}
