package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mr-saberi/siite/internal/auth"
	"github.com/mr-saberi/siite/internal/config"
	"github.com/mr-saberi/siite/internal/handlers"
	"github.com/mr-saberi/siite/internal/notify"
	"github.com/mr-saberi/siite/internal/session"
	"github.com/mr-saberi/siite/internal/store"
)

func main() {
	// Bootstrap logger until the configured level is known.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})))

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Init DB
	db, err := store.NewStore(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	adminCred, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		slog.Error("Failed to hash admin password", "error", err)
		os.Exit(1)
	}
	if _, err := db.Seed(ctx, store.SeedOptions{
		AdminUsername:   cfg.AdminUsername,
		AdminCredential: adminCred,
		Catalog:         cfg.SeedCatalog,
	}); err != nil {
		slog.Error("Failed to seed database", "error", err)
		os.Exit(1)
	}

	// 3. Session Setup
	sessionStore, closeSessions, err := newSessionStore(ctx, cfg, db)
	if err != nil {
		slog.Error("Failed to initialize session store", "error", err)
		os.Exit(1)
	}
	defer closeSessions()

	sessions := session.NewManager(sessionStore, db, session.Options{
		TTL:     cfg.SessionTTL,
		HashKey: cfg.SessionKey,
		Secure:  cfg.CookieSecure,
		Domain:  cfg.CookieDomain,
	})
	go sessions.RunPruner(ctx, cfg.SessionPruneInterval)

	if cfg.AllowPlainPasswords {
		if plain, err := db.ListPlainCredentialUsers(ctx); err == nil && len(plain) > 0 {
			slog.Warn("Users with plain-text passwords exist. Run `cli hash-passwords` to upgrade them.", "count", len(plain))
		}
	}

	// 4. Setup Handlers
	var mailer notify.Mailer = notify.LogMailer{}
	if cfg.MailerConfigured() {
		mailer = notify.NewResendMailer(cfg.ResendAPIKey, cfg.ContactFrom, cfg.ContactTo)
	}

	api := &handlers.API{
		Store:     db,
		Sessions:  sessions,
		Verifier:  auth.NewVerifier(db, cfg.AllowPlainPasswords),
		Mailer:    mailer,
		UploadDir: cfg.UploadDir,
	}

	loginLimiter := handlers.NewRateLimiter(cfg.LoginRatePerMinute, cfg.LoginRatePerMinute)
	defer loginLimiter.Close()
	contactLimiter := handlers.NewRateLimiter(5, 3)
	defer contactLimiter.Close()

	handler := handlers.NewRouter(api, handlers.RouterOptions{
		CSRFEnabled:  cfg.CSRFEnabled,
		CSRFKey:      cfg.CSRFKey,
		CookieSecure: cfg.CookieSecure,
		// Trust local development origins
		TrustedOrigins: []string{"localhost:" + cfg.Port, "127.0.0.1:" + cfg.Port, "localhost:5173"},
		LoginLimiter:   loginLimiter,
		ContactLimiter: contactLimiter,
	})

	// 5. Start Server with Graceful Shutdown
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.Port, "db", cfg.DBDriver, "sessions", cfg.SessionBackend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited gracefully.")
}

func newSessionStore(ctx context.Context, cfg *config.Config, db *store.Store) (session.Store, func(), error) {
	switch cfg.SessionBackend {
	case config.BackendSQL:
		return db.Sessions(), func() {}, nil
	case config.BackendRedis:
		client, err := session.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisStore(client), func() { client.Close() }, nil
	default:
		return session.NewMemoryStore(), func() {}, nil
	}
}
