package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/cecepns/stroke-care/internal/config"
	httpHandler "github.com/cecepns/stroke-care/internal/delivery/http"
	"github.com/cecepns/stroke-care/internal/delivery/ws"
	"github.com/cecepns/stroke-care/internal/middleware"
	"github.com/cecepns/stroke-care/internal/repository"
	"github.com/cecepns/stroke-care/internal/usecase"
)

func main() {
	// Load .env file (ignore error if not exists, e.g. in production)
	_ = godotenv.Load()

	cfg := config.LoadFromEnv()
	logger := newLogger(cfg.LogLevel)

	db, err := repository.Open(cfg.DatabasePath)
	if err != nil {
		logger.Error("failed to open database", slog.String("path", cfg.DatabasePath), slog.Any("error", err))
		os.Exit(1)
	}

	users := repository.NewUserRepository(db)
	messages := repository.NewMessageRepository(db)
	materials := repository.NewMaterialRepository(db)
	notes := repository.NewHealthNoteRepository(db)
	screenings := repository.NewScreeningRepository(db)

	auth := usecase.NewAuthService(users, cfg.JWTSecret, cfg.TokenTTL)
	resolver := usecase.NewIdentityResolver(users)
	relay := ws.NewRelay(logger, messages, resolver, cfg.MaxContentLength)

	handler := httpHandler.NewHandler(logger, cfg, auth, users, messages, materials, notes, screenings, relay)

	mux := http.NewServeMux()
	handler.Routes(mux)

	// Layered rate limits: websocket upgrades, auth endpoints and the rest
	// of the API each get their own per-IP budget.
	apiLimiter := middleware.NewIPRateLimiter(cfg.RateLimitAPI, int(cfg.RateLimitAPI)*2)
	wsLimiter := middleware.NewIPRateLimiter(cfg.RateLimitWS, int(cfg.RateLimitWS)*2)
	strictLimiter := middleware.NewIPRateLimiter(cfg.RateLimitStrict, int(cfg.RateLimitStrict)*2)

	outer := http.NewServeMux()
	outer.Handle("/ws", middleware.RateLimitMiddleware(wsLimiter)(mux))
	outer.Handle("/api/auth/", middleware.RateLimitMiddleware(strictLimiter)(mux))
	outer.Handle("/api/", middleware.RateLimitMiddleware(apiLimiter)(mux))
	outer.Handle("/", mux)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      middleware.SecurityHeaders(outer),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", slog.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server exited")
}

func newLogger(level string) *slog.Logger {
	var out io.Writer = os.Stdout
	lvl := slog.LevelInfo
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	case "silent", "off":
		out = io.Discard
	}
	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: lvl}))
}
