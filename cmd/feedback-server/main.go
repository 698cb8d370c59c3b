package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"intake-backend/internal/auth"
	"intake-backend/internal/config"
	"intake-backend/internal/database"
	"intake-backend/internal/logging"
	"intake-backend/internal/metrics"
	"intake-backend/internal/notify"
	"intake-backend/internal/repository"
	"intake-backend/internal/server"

	"github.com/spf13/pflag"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "❌ feedback-server: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cfg, err := config.LoadFeedback(args)
	if err != nil {
		return err
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	// Connect to MongoDB
	client, db, err := database.ConnectMongo(cfg.MongoURI, cfg.DBName)
	if err != nil {
		return fmt.Errorf("connect to MongoDB: %w", err)
	}
	defer client.Disconnect(context.Background())
	log.Info("✅ Connected to MongoDB")

	feedbackRepo := repository.NewFeedbackRepo(db)

	// Ensure indexes
	indexCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := feedbackRepo.EnsureIndexes(indexCtx); err != nil {
		log.WithError(err).Warn("⚠️  Failed to create feedback indexes")
	}
	cancel()

	handler := server.NewFeedbackRouter(server.FeedbackDeps{
		Feedback:       feedbackRepo,
		Sessions:       auth.NewSessionStore(cfg.AdminPassword),
		Cookies:        auth.NewCookieCodec(cfg.SessionSecret, cfg.SessionLifetime, cfg.SecureCookies),
		Notifier:       notify.New(cfg.ResendAPIKey, cfg.NotifyFrom, cfg.NotifyTo, log),
		Metrics:        metrics.New("feedback"),
		AllowedOrigins: cfg.AllowedOrigins,
		Log:            log,
	})

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return server.Run(ctx, srv, cfg.ShutdownTimeout, log)
}
