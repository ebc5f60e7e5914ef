package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/Domenick1991/skyreserve/api"
	"github.com/Domenick1991/skyreserve/config"
	_ "github.com/Domenick1991/skyreserve/docs"
	flightsapi "github.com/Domenick1991/skyreserve/internal/api/flights_service_api"
	"github.com/Domenick1991/skyreserve/internal/api/gateway"
	paymentsapi "github.com/Domenick1991/skyreserve/internal/api/payments_service_api"
	reservationsapi "github.com/Domenick1991/skyreserve/internal/api/reservations_service_api"
	"github.com/Domenick1991/skyreserve/internal/service/flights"
	"github.com/Domenick1991/skyreserve/internal/service/payment"
	"github.com/Domenick1991/skyreserve/internal/service/reservation"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	httpSwagger "github.com/swaggo/http-swagger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

// Services are the use cases exposed by both transports.
type Services struct {
	Flights      flights.FlightUseCase
	Reservations reservation.ReservationUseCase
	Payments     payment.PaymentUseCase
}

type Servers struct {
	grpcServer  *grpc.Server
	httpServer  *http.Server
	gatewayConn *grpc.ClientConn
}

// Run starts gRPC and HTTP (REST, grpc-gateway, swagger) servers and blocks until context is canceled or a server fails.
func Run(ctx context.Context, cfg *config.Config, svc Services) error {
	s, err := newServers(cfg, svc)
	if err != nil {
		return err
	}
	defer s.gatewayConn.Close()

	errCh := make(chan error, 2)

	// gRPC server
	lis, err := net.Listen("tcp", cfg.GRPC.Address)
	if err != nil {
		return fmt.Errorf("listen gRPC %s: %w", cfg.GRPC.Address, err)
	}
	go func() { errCh <- s.grpcServer.Serve(lis) }()

	// HTTP: REST + gateway + swagger
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	log.Printf("servers started http=%s grpc=%s", cfg.HTTP.Address, cfg.GRPC.Address)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.grpcServer.GracefulStop()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newServers(cfg *config.Config, svc Services) (*Servers, error) {
	grpcSrv := grpc.NewServer(grpc.UnaryInterceptor(logUnary))

	flightsapi.NewServer(svc.Flights).Register(grpcSrv)
	reservationsapi.NewServer(svc.Reservations).Register(grpcSrv)
	paymentsapi.NewServer(svc.Payments).Register(grpcSrv)

	conn, err := grpc.NewClient(cfg.GRPC.Address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial gRPC for gateway: %w", err)
	}
	mux := runtime.NewServeMux()
	if err := gateway.Register(mux, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("register gateway: %w", err)
	}

	handler := http.NewServeMux()
	handler.Handle("/api/", api.NewRouter(svc.Flights, svc.Reservations, svc.Payments))
	handler.Handle("/v1/", mux)
	if cfg.HTTP.Swagger {
		handler.Handle("/swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	}

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Servers{
		grpcServer:  grpcSrv,
		httpServer:  httpSrv,
		gatewayConn: conn,
	}, nil
}

func logUnary(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	log.Printf("grpc method=%s code=%s duration=%s", info.FullMethod, status.Code(err), time.Since(start))
	return resp, err
}
