package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"techblog/internal/config"
	"techblog/internal/content"
	"techblog/internal/http"
	"techblog/internal/importer"
	"techblog/internal/markdown"
	"techblog/internal/service"
	"techblog/internal/storage"
)

//go:generate swagger generate spec -o swagger.json

// General API information
//
// This API serves tech blog posts: listing, search, category filtering, and
// articles rendered to a block document with a table of contents.
//
// swagger:meta
//
// ---
// swagger: '2.0'
// info:
//   title: Tech Blog API
//   description: |
//     Lists and searches posts imported from a markdown content directory and
//     renders article bodies to a typed block document.
//   version: 1.0.0
// schemes:
//   - http
//   - https
// consumes:
//   - application/json
// produces:
//   - application/json

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	postRepo := storage.NewPostRepo(db)

	// Create import pipeline over the content directory
	loader := content.NewLoader(cfg.ContentDir)
	importPipeline := importer.NewPipeline(loader, postRepo)
	slog.Info("Content loader initialized", "content_dir", loader.Root())

	blogService := service.NewBlogService(postRepo)

	deps := &http.Deps{
		BlogService:  blogService,
		Importer:     importPipeline,
		HTMLRenderer: markdown.NewHTMLRenderer(cfg.CodeStyle),
	}
	router := http.NewRouter(deps)

	// Start importing in background after router is ready
	if cfg.ImportOnStart {
		go func() {
			slog.Info("Starting background import of content")
			result, err := importPipeline.ImportAll(ctx, importer.Options{})
			if err != nil {
				slog.Error("Import completed with errors", "error", err, "failed", result.Failed)
			} else {
				slog.Info("Import completed successfully", "imported", result.Imported, "skipped", result.Skipped)
			}
		}()
	}

	// Start API server
	addr := ":" + cfg.APIPort
	server := &nethttp.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Starting API server", "addr", addr, "code_style", cfg.CodeStyle)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, nethttp.ErrServerClosed) {
			log.Fatalf("API server failed to start: %v", err)
		}
	case <-ctx.Done():
		slog.Info("Shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("API server shutdown failed", "error", err)
		}
	}
}
