package grpc

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/SARVESHVARADKAR123/townsquare/internal/security"
)

type contextKey string

const (
	UserIDKey           contextKey = "user_id"
	HeaderAuthorization            = "authorization"
)

// Authenticator verifies the bearer access token carried in request metadata.
type Authenticator struct {
	Secret   string
	Issuer   string
	Audience string
}

func (a Authenticator) authenticate(ctx context.Context) (context.Context, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "metadata is not provided")
	}

	values := md.Get(HeaderAuthorization)
	if len(values) == 0 || values[0] == "" {
		return nil, status.Error(codes.Unauthenticated, "authorization header is missing")
	}

	token, found := strings.CutPrefix(values[0], "Bearer ")
	if !found || token == "" {
		return nil, status.Error(codes.Unauthenticated, "invalid token format")
	}

	userID, err := security.ParseAccess(token, a.Secret, a.Issuer, a.Audience)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	return context.WithValue(ctx, UserIDKey, userID), nil
}

func (a Authenticator) UnaryInterceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {

	newCtx, err := a.authenticate(ctx)
	if err != nil {
		return nil, err
	}
	return handler(newCtx, req)
}

func (a Authenticator) StreamInterceptor(
	srv interface{},
	ss grpc.ServerStream,
	info *grpc.StreamServerInfo,
	handler grpc.StreamHandler,
) error {

	newCtx, err := a.authenticate(ss.Context())
	if err != nil {
		return err
	}
	return handler(srv, &authenticatedStream{ServerStream: ss, ctx: newCtx})
}

type authenticatedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *authenticatedStream) Context() context.Context { return s.ctx }

// GetUserID retrieves the authenticated user ID from context.
func GetUserID(ctx context.Context) (string, error) {
	val := ctx.Value(UserIDKey)
	if val == nil {
		return "", errors.New("user id not found in context")
	}
	id, ok := val.(string)
	if !ok {
		return "", errors.New("invalid user id type")
	}
	return id, nil
}

// WithAccessToken attaches token to outgoing calls made with ctx.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, HeaderAuthorization, "Bearer "+token)
}
