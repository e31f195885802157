package grpc

import (
	"context"
	"net"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/SARVESHVARADKAR123/townsquare/internal/application"
	"github.com/SARVESHVARADKAR123/townsquare/internal/observability"
)

type Server struct {
	grpcServer *grpc.Server
	app        *application.Service
}

var _ MessagingApiServer = (*Server)(nil)

func New(app *application.Service, auth Authenticator) *Server {
	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.UnaryInterceptor(auth.UnaryInterceptor),
		grpc.StreamInterceptor(auth.StreamInterceptor),
	)

	s := &Server{
		grpcServer: grpcServer,
		app:        app,
	}

	RegisterMessagingApiServer(grpcServer, s)

	return s
}

// Start listens on addr and serves until Stop. A bare port is accepted.
func (s *Server) Start(addr string) error {
	lisAddr := addr
	if len(addr) > 0 && addr[0] != ':' && !hasHost(addr) {
		lisAddr = ":" + addr
	}

	lis, err := net.Listen("tcp", lisAddr)
	if err != nil {
		return err
	}
	return s.Serve(lis)
}

func (s *Server) Serve(lis net.Listener) error {
	observability.GetLogger(context.Background()).Info("gRPC listening", zap.String("addr", lis.Addr().String()))
	if err := s.grpcServer.Serve(lis); err != nil && err != grpc.ErrServerStopped {
		return err
	}
	return nil
}

func (s *Server) Stop() {
	observability.GetLogger(context.Background()).Info("shutting down gRPC")
	s.grpcServer.GracefulStop()
}

func hasHost(addr string) bool {
	_, _, err := net.SplitHostPort(addr)
	return err == nil
}
