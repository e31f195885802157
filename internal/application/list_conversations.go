package application

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/SARVESHVARADKAR123/townsquare/internal/domain"
)

// fanOutLimit bounds concurrent per-conversation queries.
const fanOutLimit = 8

type ConversationSummary struct {
	Conversation *domain.Conversation
	// LastMessage is nil for a conversation without messages.
	LastMessage *domain.Message
	UnreadCount int
}

// ListConversations returns the user's conversations, newest first, each
// with its latest message and the user's unread count.
func (s *Service) ListConversations(ctx context.Context, rawUserID string) ([]ConversationSummary, error) {
	userID, err := domain.ParseUserID(rawUserID)
	if err != nil {
		return nil, err
	}

	convs, err := s.conversations.FindAllByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	summaries := make([]ConversationSummary, len(convs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)

	for i, conv := range convs {
		summaries[i].Conversation = conv
		g.Go(func() error {
			last, err := s.messages.FindLatestByConversationID(gctx, conv.ID())
			if err != nil {
				return fmt.Errorf("failed to load last message of %s: %w", conv.ID(), err)
			}
			unread, err := s.receipts.CountUnread(gctx, conv.ID(), userID)
			if err != nil {
				return fmt.Errorf("failed to count unread in %s: %w", conv.ID(), err)
			}
			summaries[i].LastMessage = last
			summaries[i].UnreadCount = unread
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}
