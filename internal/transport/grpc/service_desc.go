package grpc

import (
	"context"

	"google.golang.org/grpc"
)

const serviceName = "messaging.v1.MessagingApi"

const (
	MessagingApi_GetOrCreateConversation_FullMethodName = "/messaging.v1.MessagingApi/GetOrCreateConversation"
	MessagingApi_SendMessage_FullMethodName             = "/messaging.v1.MessagingApi/SendMessage"
	MessagingApi_ListMessages_FullMethodName            = "/messaging.v1.MessagingApi/ListMessages"
	MessagingApi_MarkConversationAsRead_FullMethodName  = "/messaging.v1.MessagingApi/MarkConversationAsRead"
	MessagingApi_GetReadPositions_FullMethodName        = "/messaging.v1.MessagingApi/GetReadPositions"
	MessagingApi_GetUnreadCounts_FullMethodName         = "/messaging.v1.MessagingApi/GetUnreadCounts"
	MessagingApi_ListConversations_FullMethodName       = "/messaging.v1.MessagingApi/ListConversations"
	MessagingApi_SubscribeMessages_FullMethodName       = "/messaging.v1.MessagingApi/SubscribeMessages"
	MessagingApi_SubscribeReadReceipts_FullMethodName   = "/messaging.v1.MessagingApi/SubscribeReadReceipts"
)

// MessagingApiServer is the server API of messaging.v1.MessagingApi. The
// caller is identified by the access token in the request metadata.
type MessagingApiServer interface {
	GetOrCreateConversation(context.Context, *GetOrCreateConversationRequest) (*Conversation, error)
	SendMessage(context.Context, *SendMessageRequest) (*Message, error)
	ListMessages(context.Context, *ConversationRequest) (*MessageList, error)
	MarkConversationAsRead(context.Context, *ConversationRequest) (*ReadPosition, error)
	GetReadPositions(context.Context, *ConversationRequest) (*ReadPositionList, error)
	GetUnreadCounts(context.Context, *Empty) (*UnreadCounts, error)
	ListConversations(context.Context, *Empty) (*ConversationSummaryList, error)
	SubscribeMessages(*ConversationRequest, grpc.ServerStreamingServer[Message]) error
	SubscribeReadReceipts(*ConversationRequest, grpc.ServerStreamingServer[ReadPosition]) error
}

func RegisterMessagingApiServer(s grpc.ServiceRegistrar, srv MessagingApiServer) {
	s.RegisterService(&MessagingApi_ServiceDesc, srv)
}

// unaryHandler adapts a typed server method to grpc.MethodDesc.
func unaryHandler[Req, Res any](
	fullMethod string,
	call func(MessagingApiServer, context.Context, *Req) (*Res, error),
) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(MessagingApiServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(MessagingApiServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func _MessagingApi_SubscribeMessages_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(ConversationRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(MessagingApiServer).SubscribeMessages(m, &grpc.GenericServerStream[ConversationRequest, Message]{ServerStream: stream})
}

func _MessagingApi_SubscribeReadReceipts_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(ConversationRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(MessagingApiServer).SubscribeReadReceipts(m, &grpc.GenericServerStream[ConversationRequest, ReadPosition]{ServerStream: stream})
}

var MessagingApi_ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*MessagingApiServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetOrCreateConversation",
			Handler:    unaryHandler(MessagingApi_GetOrCreateConversation_FullMethodName, MessagingApiServer.GetOrCreateConversation),
		},
		{
			MethodName: "SendMessage",
			Handler:    unaryHandler(MessagingApi_SendMessage_FullMethodName, MessagingApiServer.SendMessage),
		},
		{
			MethodName: "ListMessages",
			Handler:    unaryHandler(MessagingApi_ListMessages_FullMethodName, MessagingApiServer.ListMessages),
		},
		{
			MethodName: "MarkConversationAsRead",
			Handler:    unaryHandler(MessagingApi_MarkConversationAsRead_FullMethodName, MessagingApiServer.MarkConversationAsRead),
		},
		{
			MethodName: "GetReadPositions",
			Handler:    unaryHandler(MessagingApi_GetReadPositions_FullMethodName, MessagingApiServer.GetReadPositions),
		},
		{
			MethodName: "GetUnreadCounts",
			Handler:    unaryHandler(MessagingApi_GetUnreadCounts_FullMethodName, MessagingApiServer.GetUnreadCounts),
		},
		{
			MethodName: "ListConversations",
			Handler:    unaryHandler(MessagingApi_ListConversations_FullMethodName, MessagingApiServer.ListConversations),
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "SubscribeMessages",
			Handler:       _MessagingApi_SubscribeMessages_Handler,
			ServerStreams: true,
		},
		{
			StreamName:    "SubscribeReadReceipts",
			Handler:       _MessagingApi_SubscribeReadReceipts_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "messaging/v1/messaging_api.json",
}
