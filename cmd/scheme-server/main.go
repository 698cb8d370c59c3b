package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"intake-backend/internal/auth"
	"intake-backend/internal/config"
	"intake-backend/internal/database"
	"intake-backend/internal/logging"
	"intake-backend/internal/metrics"
	"intake-backend/internal/notify"
	"intake-backend/internal/receipt"
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
		fmt.Fprintf(os.Stderr, "❌ scheme-server: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cfg, err := config.LoadScheme(args)
	if err != nil {
		return err
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	// Connect to PostgreSQL
	db, err := database.OpenPostgres(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("✅ Connected to PostgreSQL")

	if cfg.RunMigrations {
		if err := database.RunMigrations(ctx, db); err != nil {
			return err
		}
	}

	receipts := receipt.NewGenerator(cfg.Location())
	if cfg.ReceiptFontFile != "" {
		ttf, err := receipt.LoadFont(cfg.ReceiptFontFile)
		if err != nil {
			return err
		}
		receipts.WithFont(ttf)
	}

	// Initialize repositories
	schemeRepo := repository.NewSchemeRepo(db)
	applicationRepo := repository.NewApplicationRepo(db)

	creds := auth.NewCredentials(cfg.AdminUsername, cfg.AdminPasswordHash)
	log.WithField("admin", creds.Username()).Info("Admin login enabled")

	handler := server.NewSchemeRouter(server.SchemeDeps{
		Schemes:        schemeRepo,
		Applications:   applicationRepo,
		Credentials:    creds,
		Tokens:         auth.NewMemoryTokenStore(cfg.TokenTTL),
		Receipts:       receipts,
		Notifier:       notify.New(cfg.ResendAPIKey, cfg.NotifyFrom, cfg.NotifyTo, log),
		Metrics:        metrics.New("scheme"),
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
