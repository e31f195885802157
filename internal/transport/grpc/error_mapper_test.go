package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/SARVESHVARADKAR123/townsquare/internal/domain"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode codes.Code
	}{
		{
			name:     "Nil error",
			err:      nil,
			wantCode: codes.OK,
		},
		{
			name:     "Conversation not found",
			err:      domain.ErrConversationNotFound,
			wantCode: codes.NotFound,
		},
		{
			name:     "Wrapped not found",
			err:      fmt.Errorf("lookup: %w", domain.ErrUserNotFound),
			wantCode: codes.NotFound,
		},
		{
			name:     "Not member",
			err:      domain.ErrNotMember,
			wantCode: codes.PermissionDenied,
		},
		{
			name:     "Invalid credentials",
			err:      domain.ErrInvalidCredentials,
			wantCode: codes.Unauthenticated,
		},
		{
			name:     "Self conversation",
			err:      domain.ErrSelfConversation,
			wantCode: codes.InvalidArgument,
		},
		{
			name:     "Already deleted",
			err:      domain.ErrPostAlreadyDeleted,
			wantCode: codes.FailedPrecondition,
		},
		{
			name:     "Conversation exists",
			err:      domain.ErrConversationExists,
			wantCode: codes.AlreadyExists,
		},
		{
			name:     "Deadline",
			err:      fmt.Errorf("query: %w", context.DeadlineExceeded),
			wantCode: codes.DeadlineExceeded,
		},
		{
			name:     "Already gRPC error",
			err:      status.Error(codes.Unavailable, "try later"),
			wantCode: codes.Unavailable,
		},
		{
			name:     "Unknown error wrapped",
			err:      errors.New("something went wrong"),
			wantCode: codes.Internal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotErr := MapError(tt.err)
			if tt.err == nil {
				if gotErr != nil {
					t.Errorf("MapError() = %v, want nil", gotErr)
				}
				return
			}

			st, ok := status.FromError(gotErr)
			if !ok {
				t.Errorf("MapError() did not return a gRPC status error")
				return
			}

			if st.Code() != tt.wantCode {
				t.Errorf("MapError() code = %v, want %v", st.Code(), tt.wantCode)
			}
		})
	}
}
