package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/ericfisherdev/mytodo/internal/adapter/driven/argon2id"
	sqliteadapter "github.com/ericfisherdev/mytodo/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/mytodo/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/mytodo/internal/adapter/driving/web"
	"github.com/ericfisherdev/mytodo/internal/application"
	"github.com/ericfisherdev/mytodo/internal/config"
)

func main() {
	// Cancel on SIGINT or SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

// run serves until ctx is canceled or the server fails, then shuts down.
func run(ctx context.Context) error {
	// 1. Load configuration (fail fast on missing required env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"session_ttl", cfg.SessionTTL,
		"session_sweep_interval", cfg.SessionSweepInterval,
		"cookie_secure", cfg.CookieSecure,
	)

	// 2. Derive a cancelable context so a server failure also triggers shutdown.
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire adapters.
	userStore := sqliteadapter.NewUserRepo(db)
	sessionStore := sqliteadapter.NewSessionRepo(db)
	todoStore := sqliteadapter.NewTodoRepo(db)
	hasher := argon2id.NewHasher([]byte(cfg.SecretKeyBase))

	// 6. Create services.
	authSvc, err := application.NewAuthService(userStore, sessionStore, hasher, cfg.SessionTTL)
	if err != nil {
		return err
	}
	todoSvc := application.NewTodoService(todoStore)

	// 7. Start the expired-session sweeper.
	sweeper := application.NewSessionSweeper(sessionStore, cfg.SessionSweepInterval)
	var background sync.WaitGroup
	background.Go(func() { sweeper.Start(ctx) })
	// Runs before the database is closed.
	defer func() {
		stop()
		background.Wait()
	}()

	// 8. Register API and GUI routes on one mux.
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, httphandler.NewHandler(authSvc, todoSvc, cfg.CookieSecure, logger))
	webhandler.RegisterRoutes(mux, webhandler.NewHandler(todoSvc, logger))

	// Apply middleware.
	handler := httphandler.ApplyMiddleware(mux, authSvc, logger)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
			stop()
		}
	}()

	slog.Info("mytodo started", "listen_addr", cfg.ListenAddr)

	// 9. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 10. Graceful shutdown with 10s timeout for in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
