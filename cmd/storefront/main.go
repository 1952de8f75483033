package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/jcmexdev/maison-storefront/internal/auth"
	"github.com/jcmexdev/maison-storefront/internal/catalog"
	"github.com/jcmexdev/maison-storefront/internal/checkout"
	"github.com/jcmexdev/maison-storefront/internal/checkout/saga"
	"github.com/jcmexdev/maison-storefront/internal/httpx"
	"github.com/jcmexdev/maison-storefront/internal/notify"
	"github.com/jcmexdev/maison-storefront/internal/pkg/config"
	"github.com/jcmexdev/maison-storefront/internal/pkg/interceptors"
	"github.com/jcmexdev/maison-storefront/internal/pkg/telemetry"
	"github.com/jcmexdev/maison-storefront/internal/storefront"
)

func main() {
	cfg := config.Load()
	telemetry.InitLogger(telemetry.LoggerOptions{Service: cfg.ServiceName, Env: cfg.AppEnv, Level: cfg.LogLevel})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("storefront stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	if cfg.TracingEnabled {
		shutdown, err := telemetry.SetupTracer(ctx, telemetry.TracerOptions{
			ServiceName: cfg.ServiceName,
			Endpoint:    cfg.OTLPEndpoint,
			Env:         cfg.AppEnv,
		})
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				slog.Error("tracer shutdown error", "error", err)
			}
		}()
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.close(); err != nil {
			slog.Error("store close error", "error", err)
		}
	}()

	products := catalog.Default()
	registry := storefront.NewRegistry(storefront.Deps{
		Store:        store.store,
		Catalog:      products,
		Verifier:     auth.DefaultVerifier(),
		Payments:     checkout.NewSimulatedGateway(cfg.SimulatedLatency),
		Journal:      saga.NewStoreJournal(store.store),
		LoginLatency: cfg.SimulatedLatency,
		Notify:       notify.Options{},
	}, storefront.RegistryOptions{IdleTTL: cfg.ScopeIdleTTL})
	defer registry.Close()
	go registry.Run(ctx, cfg.ScopeIdleTTL/2)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(httpx.NewRouter(httpx.NewHandler(registry, products, store)), "storefront"),
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.UnaryInterceptor(interceptors.UnaryServerInterceptor()),
	)
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return err
	}

	errCh := make(chan error, 2)
	go func() {
		slog.Info("storefront HTTP running", "addr", cfg.HTTPAddr, "store", cfg.StoreBackend)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		slog.Info("health gRPC running", "addr", cfg.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- err
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case serveErr = <-errCh:
		slog.Error("server failed", "error", serveErr)
	}

	healthServer.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown error", "error", err)
	}
	grpcServer.GracefulStop()
	return serveErr
}
