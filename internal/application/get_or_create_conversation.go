package application

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/townsquare/internal/domain"
)

// GetOrCreateConversation returns the single conversation of an unordered
// user pair, creating it on first use.
func (s *Service) GetOrCreateConversation(ctx context.Context, rawUserA, rawUserB string) (*domain.Conversation, error) {
	a, err := domain.ParseUserID(rawUserA)
	if err != nil {
		return nil, err
	}
	b, err := domain.ParseUserID(rawUserB)
	if err != nil {
		return nil, err
	}

	candidate, err := domain.NewDirectConversation(domain.NewConversationID(), a, b, s.now())
	if err != nil {
		return nil, err
	}

	s.log.Info("GetOrCreateConversation requested",
		zap.String("user_id", string(a)),
		zap.String("peer_id", string(b)),
	)

	existing, err := s.conversations.FindByMembers(ctx, a, b)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up conversation: %w", err)
	}

	if err := s.conversations.Save(ctx, candidate); err != nil {
		if !errors.Is(err, domain.ErrConversationExists) {
			return nil, fmt.Errorf("failed to create conversation: %w", err)
		}
		// Lost the creation race: the winner's row is authoritative.
		s.log.Info("conversation created concurrently, refetching",
			zap.String("pair_key", candidate.PairKey()),
		)
		winner, err := s.conversations.FindByMembers(ctx, a, b)
		if err != nil {
			return nil, fmt.Errorf("failed to refetch conversation: %w", err)
		}
		return winner, nil
	}

	s.log.Info("conversation created", zap.String("conversation_id", string(candidate.ID())))
	return candidate, nil
}
