package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"messageapi/internal/wire"
)

func main() {
	log.Println("Initializing application...")
	app, cleanup, err := wire.InitializeApplication()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer cleanup()

	if err := run(app); err != nil {
		app.Logger.Error("Server stopped with error", "error", err)
		cleanup()
		os.Exit(1)
	}
}

func run(app *wire.Application) error {
	logger := app.Logger
	cfg := app.Config

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if n := cfg.Fixtures.OnStartup; n > 0 {
		if _, err := app.Loader.Load(ctx, n, cfg.Fixtures.Append); err != nil {
			return err
		}
	}

	server := &http.Server{
		Addr:           cfg.Server.HTTPAddr(),
		Handler:        app.Router,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	var grpcListener net.Listener
	if cfg.Server.GRPCEnabled {
		lis, err := net.Listen("tcp", cfg.Server.GRPCAddr())
		if err != nil {
			return err
		}
		grpcListener = lis
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server starting", "addr", server.Addr, "driver", cfg.Database.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if grpcListener != nil {
		g.Go(func() error {
			logger.Info("gRPC server starting", "addr", grpcListener.Addr().String())
			return app.GRPC.Serve(grpcListener)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down servers...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace())
		defer cancel()

		app.GRPC.GracefulStop()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server forced to shutdown", "error", err)
			return err
		}

		logger.Info("Server gracefully stopped")
		return nil
	})

	return g.Wait()
}
