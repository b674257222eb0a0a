// Package grpc exposes the account engine as the accounts.v1.AccountService
// gRPC service.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/accountkeeper/internal/logging"
	"github.com/dmitrijs2005/accountkeeper/internal/rpc"
	"github.com/dmitrijs2005/accountkeeper/internal/server/services"
	"google.golang.org/grpc"
)

type GRPCServer struct {
	address  string
	accounts services.AccountAPI
	logger   logging.Logger
}

var _ rpc.AccountServiceServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, accounts services.AccountAPI) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		accounts: accounts,
	}
}

// newServer builds the grpc.Server with the service and interceptors
// registered.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))
	rpc.RegisterAccountServiceServer(srv, s)
	return srv
}

// Run serves until ctx is cancelled, then stops gracefully.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
