package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/SARVESHVARADKAR123/townsquare/internal/application"
	"github.com/SARVESHVARADKAR123/townsquare/internal/realtime"
)

// headerSubscribed is sent once a stream's subscription is live, so clients
// can wait for it before expecting events.
const headerSubscribed = "x-subscribed"

func caller(ctx context.Context) (string, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return "", status.Error(codes.Unauthenticated, err.Error())
	}
	return userID, nil
}

func (s *Server) GetOrCreateConversation(ctx context.Context, req *GetOrCreateConversationRequest) (*Conversation, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	conv, err := s.app.GetOrCreateConversation(ctx, userID, req.PeerID)
	if err != nil {
		return nil, MapError(err)
	}
	return conversationToWire(conv), nil
}

func (s *Server) SendMessage(ctx context.Context, req *SendMessageRequest) (*Message, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	msg, err := s.app.SendMessage(ctx, application.SendMessageCommand{
		ConversationID: req.ConversationID,
		SenderID:       userID,
		Body:           req.Body,
	})
	if err != nil {
		return nil, MapError(err)
	}
	return messageToWire(msg), nil
}

func (s *Server) ListMessages(ctx context.Context, req *ConversationRequest) (*MessageList, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	msgs, err := s.app.ListMessages(ctx, req.ConversationID, userID)
	if err != nil {
		return nil, MapError(err)
	}
	out := &MessageList{Messages: make([]*Message, len(msgs))}
	for i, m := range msgs {
		out.Messages[i] = messageToWire(m)
	}
	return out, nil
}

func (s *Server) MarkConversationAsRead(ctx context.Context, req *ConversationRequest) (*ReadPosition, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	pos, err := s.app.MarkConversationAsRead(ctx, req.ConversationID, userID)
	if err != nil {
		return nil, MapError(err)
	}
	return readPositionToWire(pos), nil
}

func (s *Server) GetReadPositions(ctx context.Context, req *ConversationRequest) (*ReadPositionList, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	positions, err := s.app.GetReadPositions(ctx, req.ConversationID, userID)
	if err != nil {
		return nil, MapError(err)
	}
	out := &ReadPositionList{Positions: make([]*ReadPosition, len(positions))}
	for i, p := range positions {
		out.Positions[i] = readPositionToWire(p)
	}
	return out, nil
}

func (s *Server) GetUnreadCounts(ctx context.Context, _ *Empty) (*UnreadCounts, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.app.GetUnreadCounts(ctx, userID)
	if err != nil {
		return nil, MapError(err)
	}
	out := &UnreadCounts{Counts: make(map[string]int, len(counts))}
	for id, n := range counts {
		out.Counts[string(id)] = n
	}
	return out, nil
}

func (s *Server) ListConversations(ctx context.Context, _ *Empty) (*ConversationSummaryList, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	summaries, err := s.app.ListConversations(ctx, userID)
	if err != nil {
		return nil, MapError(err)
	}
	out := &ConversationSummaryList{Conversations: make([]*ConversationSummary, len(summaries))}
	for i, sm := range summaries {
		out.Conversations[i] = summaryToWire(sm)
	}
	return out, nil
}

func (s *Server) SubscribeMessages(req *ConversationRequest, stream grpc.ServerStreamingServer[Message]) error {
	ctx := stream.Context()
	userID, err := caller(ctx)
	if err != nil {
		return err
	}
	sub, err := s.app.SubscribeToMessages(ctx, req.ConversationID, userID)
	if err != nil {
		return MapError(err)
	}
	return forward(stream, sub, messageToWire)
}

func (s *Server) SubscribeReadReceipts(req *ConversationRequest, stream grpc.ServerStreamingServer[ReadPosition]) error {
	ctx := stream.Context()
	userID, err := caller(ctx)
	if err != nil {
		return err
	}
	sub, err := s.app.SubscribeToReadReceipts(ctx, req.ConversationID, userID)
	if err != nil {
		return MapError(err)
	}
	return forward(stream, sub, readPositionToWire)
}

// forward relays subscription events until the client cancels.
func forward[T, W any](stream grpc.ServerStreamingServer[W], sub *realtime.Subscription[T], convert func(T) *W) error {
	defer sub.Unsubscribe()

	if err := stream.SendHeader(metadata.Pairs(headerSubscribed, "true")); err != nil {
		return err
	}

	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				return nil
			}
			if err := stream.Send(convert(ev)); err != nil {
				return err
			}
		case <-stream.Context().Done():
			return nil
		}
	}
}
