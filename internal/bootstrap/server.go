package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/Domenick1991/airline-booking/config"
	toolsapi "github.com/Domenick1991/airline-booking/internal/api/tools_service_api"
	"github.com/gin-gonic/gin"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const shutdownTimeout = 5 * time.Second

type Servers struct {
	grpcServer *grpc.Server
	httpServer *http.Server
	gatewayCC  *grpc.ClientConn
}

// Run starts the gRPC server and the HTTP server (REST API, tool gateway,
// swagger) and blocks until ctx is canceled or a server fails.
func Run(ctx context.Context, cfg *config.Config, log *slog.Logger, tools toolsapi.Invoker, router *gin.Engine) error {
	s, err := newServers(cfg, log, tools, router)
	if err != nil {
		return err
	}
	defer s.gatewayCC.Close()

	errCh := make(chan error, 2)

	lis, err := net.Listen("tcp", cfg.GRPC.Address)
	if err != nil {
		return fmt.Errorf("listen gRPC %s: %w", cfg.GRPC.Address, err)
	}
	go func() {
		log.Info("grpc server started", slog.String("address", cfg.GRPC.Address))
		errCh <- s.grpcServer.Serve(lis)
	}()

	go func() {
		log.Info("http server started", slog.String("address", cfg.HTTP.Address))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.grpcServer.Stop()
		return err
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		s.grpcServer.GracefulStop()
		return nil
	}
}

func newServers(cfg *config.Config, log *slog.Logger, tools toolsapi.Invoker, router *gin.Engine) (*Servers, error) {
	grpcSrv := grpc.NewServer(grpc.UnaryInterceptor(toolsapi.LoggingInterceptor(log)))
	toolsapi.RegisterToolsServiceServer(grpcSrv, toolsapi.NewServer(tools, log))

	cc, err := grpc.NewClient(dialTarget(cfg.GRPC.Address), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial tools gateway: %w", err)
	}

	mux := runtime.NewServeMux()
	if err := toolsapi.RegisterGateway(mux, toolsapi.NewClient(cc)); err != nil {
		_ = cc.Close()
		return nil, fmt.Errorf("register tools gateway: %w", err)
	}
	router.Any("/v1/*path", gin.WrapH(mux))

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Servers{
		grpcServer: grpcSrv,
		httpServer: httpSrv,
		gatewayCC:  cc,
	}, nil
}

// dialTarget turns a listen address such as ":9090" into a dialable one.
func dialTarget(address string) string {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host != "" {
		return address
	}
	return net.JoinHostPort("localhost", port)
}
