package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// NewGRPCServer returns a gRPC server with the Runner registered and request
// logging installed.
func NewGRPCServer(r *Runner, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(logRequests(r.logger())))
	s := grpc.NewServer(opts...)
	Register(s, r)
	return s
}

func logRequests(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Info("rpc", "method", info.FullMethod,
			"code", status.Code(err).String(), "duration", time.Since(start))
		return resp, err
	}
}

// Serve listens on addr and serves until ctx is cancelled, then stops
// gracefully.
func Serve(ctx context.Context, addr string, r *Runner) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return serveListener(ctx, lis, r)
}

func serveListener(ctx context.Context, lis net.Listener, r *Runner) error {
	s := NewGRPCServer(r)
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			s.GracefulStop()
		case <-done:
		}
	}()

	r.logger().Info("runner listening", "addr", lis.Addr().String())
	if err := s.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}
