package application

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/SARVESHVARADKAR123/townsquare/internal/domain"
)

// MarkConversationAsRead moves the user's read position to now. The stored
// position never moves backward; the returned value is what was stored.
func (s *Service) MarkConversationAsRead(ctx context.Context, rawConversationID, rawUserID string) (domain.ReadPosition, error) {
	convID, err := domain.ParseConversationID(rawConversationID)
	if err != nil {
		return domain.ReadPosition{}, err
	}
	userID, err := domain.ParseUserID(rawUserID)
	if err != nil {
		return domain.ReadPosition{}, err
	}

	s.log.Info("MarkConversationAsRead requested",
		zap.String("conversation_id", string(convID)),
		zap.String("user_id", string(userID)),
	)

	if _, err := s.memberConversation(ctx, convID, userID); err != nil {
		return domain.ReadPosition{}, err
	}

	stored, err := s.receipts.Upsert(ctx, domain.NewReadPosition(convID, userID, s.now()))
	if err != nil {
		return domain.ReadPosition{}, fmt.Errorf("failed to update read position: %w", err)
	}
	return stored, nil
}

func (s *Service) GetReadPositions(ctx context.Context, rawConversationID, rawRequesterID string) ([]domain.ReadPosition, error) {
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

	positions, err := s.receipts.FindAllByConversationID(ctx, convID)
	if err != nil {
		return nil, fmt.Errorf("failed to load read positions: %w", err)
	}
	return positions, nil
}

// GetUnreadCounts counts, per conversation of the user, the messages from
// other members created after the user's read position.
func (s *Service) GetUnreadCounts(ctx context.Context, rawUserID string) (map[domain.ConversationID]int, error) {
	userID, err := domain.ParseUserID(rawUserID)
	if err != nil {
		return nil, err
	}

	convs, err := s.conversations.FindAllByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	var mu sync.Mutex
	counts := make(map[domain.ConversationID]int, len(convs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)
	for _, conv := range convs {
		g.Go(func() error {
			n, err := s.receipts.CountUnread(gctx, conv.ID(), userID)
			if err != nil {
				return fmt.Errorf("failed to count unread in %s: %w", conv.ID(), err)
			}
			mu.Lock()
			counts[conv.ID()] = n
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}
