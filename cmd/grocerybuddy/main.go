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

	"github.com/dukerupert/grocerybuddy/internal/config"
	"github.com/dukerupert/grocerybuddy/internal/database"
	"github.com/dukerupert/grocerybuddy/internal/logging"
	"github.com/dukerupert/grocerybuddy/internal/server"
	"github.com/dukerupert/grocerybuddy/internal/session"
	"github.com/dukerupert/grocerybuddy/internal/store"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(os.Stderr, cfg.LogLevel, cfg.Production())

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", "error", err, "path", cfg.DatabaseURL)
		os.Exit(1)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var sessionStore session.Store = store.NewSessionStore(db)
	if cfg.SessionStore == config.SessionStoreRedis {
		rdb, err := session.DialRedis(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		sessionStore = session.NewRedisStore(rdb)
	}
	logger.Info("session store", "backend", cfg.SessionStore)

	sessions := session.NewManager(sessionStore, cfg.SessionSecret, cfg.SessionTTL, cfg.Production())
	srv := server.New(db, sessions, server.Options{
		Production:        cfg.Production(),
		BcryptCost:        cfg.BcryptCost,
		AllowedOrigins:    cfg.AllowedOrigins,
		TrustProxyHeaders: cfg.TrustProxyHeaders,
	}, logger)

	go sessions.RunJanitor(ctx, cfg.JanitorInterval)
	go srv.RateLimiter().RunCleanup(ctx, 5*time.Minute)

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("grocerybuddy running", "addr", "http://localhost"+cfg.Addr(), "env", cfg.Env)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
