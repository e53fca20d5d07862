// Package handlers provides the HTTP and gRPC servers of the catalog,
// bridging the transport layer and business logic: routing, request
// decoding, error mapping and JSON rendering.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/protobuf/encoding/protojson"
)

const shutdownTimeout = 5 * time.Second

// RouteRegistrar adds its routes to the gateway mux.
type RouteRegistrar interface {
	RegisterRoutes(mux *runtime.ServeMux) error
}

// Server holds references to both a gRPC server and an HTTP server.
type Server struct {
	grpcServer   *grpc.Server
	health       *health.Server
	httpServer   *http.Server
	mux          *runtime.ServeMux
	middleware   []func(http.Handler) http.Handler
	logger       *zap.Logger
	grpcEndpoint string
	httpEndpoint string

	stopOnce sync.Once
	stopped  chan struct{}
}

// NewServer constructs a Server with separate endpoints for gRPC and HTTP.
// The gRPC server carries the health and reflection services only.
func NewServer(
	grpcPort int,
	httpPort int,
	logger *zap.Logger,
	grpcOpts ...grpc.ServerOption,
) *Server {
	grpcServer := grpc.NewServer(grpcOpts...)
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	return &Server{
		grpcServer:   grpcServer,
		health:       healthServer,
		httpServer:   &http.Server{ReadHeaderTimeout: 10 * time.Second},
		mux:          NewServeMux(),
		logger:       logger.Named("server"),
		grpcEndpoint: fmt.Sprintf(":%d", grpcPort),
		httpEndpoint: fmt.Sprintf(":%d", httpPort),
		stopped:      make(chan struct{}),
	}
}

// NewServeMux returns a gateway mux rendering JSON with camelCase names,
// zero values included and unknown request fields discarded.
func NewServeMux() *runtime.ServeMux {
	return runtime.NewServeMux(
		runtime.WithMarshalerOption(runtime.MIMEWildcard, &runtime.JSONPb{
			MarshalOptions: protojson.MarshalOptions{
				EmitUnpopulated: true,
			},
			UnmarshalOptions: protojson.UnmarshalOptions{
				DiscardUnknown: true,
			},
		}),
	)
}

// RegisterRoutes mounts the routes of every registrar on the HTTP mux.
func (s *Server) RegisterRoutes(registrars ...RouteRegistrar) error {
	for _, r := range registrars {
		if err := r.RegisterRoutes(s.mux); err != nil {
			return fmt.Errorf("failed to register routes: %w", err)
		}
	}
	return nil
}

// Use appends HTTP middleware. The first one added is the outermost.
func (s *Server) Use(mw ...func(http.Handler) http.Handler) {
	s.middleware = append(s.middleware, mw...)
}

// Handler returns the mux wrapped in the registered middleware.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	for i := len(s.middleware) - 1; i >= 0; i-- {
		h = s.middleware[i](h)
	}
	return h
}

// Start listens on the configured endpoints and serves until ctx is
// cancelled or a server fails.
func (s *Server) Start(ctx context.Context) error {
	grpcLis, err := net.Listen("tcp", s.grpcEndpoint)
	if err != nil {
		return fmt.Errorf("gRPC listen error: %w", err)
	}
	httpLis, err := net.Listen("tcp", s.httpEndpoint)
	if err != nil {
		grpcLis.Close()
		return fmt.Errorf("HTTP listen error: %w", err)
	}
	return s.Serve(ctx, grpcLis, httpLis)
}

// Serve runs the gRPC and HTTP servers on the given listeners. When ctx is
// done or either server fails, both are stopped and the first error returned.
func (s *Server) Serve(ctx context.Context, grpcLis, httpLis net.Listener) error {
	s.httpServer.Handler = s.Handler()
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Starting gRPC server", zap.String("endpoint", grpcLis.Addr().String()))
		if err := s.grpcServer.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("gRPC serve error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		s.logger.Info("Starting HTTP server", zap.String("endpoint", httpLis.Addr().String()))
		if err := s.httpServer.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP serve error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		select {
		case <-gctx.Done():
			s.Stop()
		case <-s.stopped:
		}
		return nil
	})

	return g.Wait()
}

// Stop gracefully shuts down both gRPC and HTTP servers. It is safe to
// call more than once.
func (s *Server) Stop() {
	s.stopOnce.Do(s.stop)
}

func (s *Server) stop() {
	defer close(s.stopped)
	s.logger.Info("Shutting down servers...")
	s.health.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	stopped := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-ctx.Done():
		s.grpcServer.Stop()
	}

	s.logger.Info("Servers stopped")
}
