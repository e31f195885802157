package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/townsquare/internal/domain"
)

type SendMessageCommand struct {
	ConversationID string
	SenderID       string
	Body           string
}

// SendMessage stores a message from a member. Realtime delivery follows from
// the stored change, not from this call.
func (s *Service) SendMessage(ctx context.Context, cmd SendMessageCommand) (*domain.Message, error) {
	convID, err := domain.ParseConversationID(cmd.ConversationID)
	if err != nil {
		return nil, err
	}
	senderID, err := domain.ParseUserID(cmd.SenderID)
	if err != nil {
		return nil, err
	}
	body, err := domain.NewMessageBody(cmd.Body)
	if err != nil {
		return nil, err
	}

	s.log.Info("SendMessage requested",
		zap.String("conversation_id", string(convID)),
		zap.String("user_id", string(senderID)),
	)

	if _, err := s.memberConversation(ctx, convID, senderID); err != nil {
		return nil, err
	}

	msg := domain.NewMessage(domain.NewMessageID(), convID, senderID, body, s.now())
	if err := s.messages.Save(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}
	return msg, nil
}

// ListMessages returns the whole history in ascending creation order.
func (s *Service) ListMessages(ctx context.Context, rawConversationID, rawRequesterID string) ([]*domain.Message, error) {
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

	msgs, err := s.messages.FindByConversationID(ctx, convID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return msgs, nil
}
