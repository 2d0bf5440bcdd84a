package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joseph-ayodele/papers-tracker/internal/autofill"
	"github.com/joseph-ayodele/papers-tracker/internal/common"
	"github.com/joseph-ayodele/papers-tracker/internal/courses"
	"github.com/joseph-ayodele/papers-tracker/internal/ocr"
	"github.com/joseph-ayodele/papers-tracker/internal/repository"
	"github.com/joseph-ayodele/papers-tracker/internal/server"
)

func main() {
	cfg := common.LoadConfig()
	logger := common.NewLogger(os.Stdout, cfg.Log)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	// Context with signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	table, err := courses.Load(cfg.Autofill.CoursesFile, logger)
	if err != nil {
		logger.Error("failed to load course table", "error", err)
		os.Exit(1)
	}
	extractor := ocr.NewExtractor(ocr.ConfigFrom(cfg.OCR), logger)
	resolver := autofill.NewResolver(table, extractor, autofill.WithLogger(logger))

	// Catalogue
	db, err := repository.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.HealthCheck(ctx, cfg.Database.DialTimeout); err != nil {
		logger.Error("database health failed", "error", err)
		os.Exit(1)
	}
	if err := db.Migrate(ctx); err != nil {
		logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}
	papers := repository.NewPaperRepository(db, logger)

	// gRPC server
	grpcServer, hs := server.NewGRPCServer(
		server.NewAutofillService(resolver, logger),
		server.NewCatalogueService(papers, logger),
		logger,
	)

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		logger.Error("listen failed", "addr", cfg.Server.GRPCAddr, "error", err)
		os.Exit(1)
	}
	logger.Info("gRPC serving", "addr", lis.Addr().String(), "courses", table.Len())

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- grpcServer.Serve(lis)
	}()

	select {
	case err := <-serveErr:
		logger.Error("grpc serve failed", "error", err)
		os.Exit(1)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	hs.Shutdown()
	done := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(cfg.Server.ShutdownTimeout):
		logger.Warn("graceful stop timed out, forcing")
		grpcServer.Stop()
	}
	logger.Info("stopped")
}
