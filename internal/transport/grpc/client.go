package grpc

import (
	"context"
	"io"

	"google.golang.org/grpc"
)

// Client calls messaging.v1.MessagingApi with the JSON codec.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func withCodec(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
}

func invoke[Res any](ctx context.Context, cc grpc.ClientConnInterface, method string, in interface{}, opts []grpc.CallOption) (*Res, error) {
	out := new(Res)
	if err := cc.Invoke(ctx, method, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetOrCreateConversation(ctx context.Context, in *GetOrCreateConversationRequest, opts ...grpc.CallOption) (*Conversation, error) {
	return invoke[Conversation](ctx, c.cc, MessagingApi_GetOrCreateConversation_FullMethodName, in, opts)
}

func (c *Client) SendMessage(ctx context.Context, in *SendMessageRequest, opts ...grpc.CallOption) (*Message, error) {
	return invoke[Message](ctx, c.cc, MessagingApi_SendMessage_FullMethodName, in, opts)
}

func (c *Client) ListMessages(ctx context.Context, in *ConversationRequest, opts ...grpc.CallOption) (*MessageList, error) {
	return invoke[MessageList](ctx, c.cc, MessagingApi_ListMessages_FullMethodName, in, opts)
}

func (c *Client) MarkConversationAsRead(ctx context.Context, in *ConversationRequest, opts ...grpc.CallOption) (*ReadPosition, error) {
	return invoke[ReadPosition](ctx, c.cc, MessagingApi_MarkConversationAsRead_FullMethodName, in, opts)
}

func (c *Client) GetReadPositions(ctx context.Context, in *ConversationRequest, opts ...grpc.CallOption) (*ReadPositionList, error) {
	return invoke[ReadPositionList](ctx, c.cc, MessagingApi_GetReadPositions_FullMethodName, in, opts)
}

func (c *Client) GetUnreadCounts(ctx context.Context, opts ...grpc.CallOption) (*UnreadCounts, error) {
	return invoke[UnreadCounts](ctx, c.cc, MessagingApi_GetUnreadCounts_FullMethodName, &Empty{}, opts)
}

func (c *Client) ListConversations(ctx context.Context, opts ...grpc.CallOption) (*ConversationSummaryList, error) {
	return invoke[ConversationSummaryList](ctx, c.cc, MessagingApi_ListConversations_FullMethodName, &Empty{}, opts)
}

func subscribe[Res any](ctx context.Context, cc grpc.ClientConnInterface, desc *grpc.StreamDesc, method string, in *ConversationRequest, opts []grpc.CallOption) (grpc.ServerStreamingClient[Res], error) {
	stream, err := cc.NewStream(ctx, desc, method, withCodec(opts)...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[ConversationRequest, Res]{ClientStream: stream}
	// io.EOF means the server already ended the stream; Recv reports why.
	if err := x.ClientStream.SendMsg(in); err != nil && err != io.EOF {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

// SubscribeMessages opens a message stream. Header() returns once the
// server-side subscription is live.
func (c *Client) SubscribeMessages(ctx context.Context, in *ConversationRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[Message], error) {
	return subscribe[Message](ctx, c.cc, &MessagingApi_ServiceDesc.Streams[0], MessagingApi_SubscribeMessages_FullMethodName, in, opts)
}

func (c *Client) SubscribeReadReceipts(ctx context.Context, in *ConversationRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[ReadPosition], error) {
	return subscribe[ReadPosition](ctx, c.cc, &MessagingApi_ServiceDesc.Streams[1], MessagingApi_SubscribeReadReceipts_FullMethodName, in, opts)
}
