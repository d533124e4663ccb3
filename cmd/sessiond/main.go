package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/example/interview-sessions/internal/application"
	"github.com/example/interview-sessions/internal/config"
	"github.com/example/interview-sessions/internal/httptransport"
	"github.com/example/interview-sessions/internal/joinwindow"
	"github.com/example/interview-sessions/internal/notify"
	"github.com/example/interview-sessions/internal/persistence/sqlite"
	"github.com/example/interview-sessions/internal/presence"
	"github.com/example/interview-sessions/internal/roomtoken"
	"github.com/example/interview-sessions/internal/upstream"
	"github.com/example/interview-sessions/internal/ws"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	storage, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := func() string { return uuid.NewString() }

	scheduleRepo := sqlite.NewScheduleRepository(storage)
	sessionRepo := sqlite.NewSessionRepository(storage)
	messageRepo := sqlite.NewChatMessageRepository(storage)

	issuer, err := roomtoken.NewIssuer(cfg.RoomAPIKey, cfg.RoomAPISecret, cfg.RoomTokenTTL, time.Now)
	if err != nil {
		logger.Error("failed to construct token issuer", "error", err)
		os.Exit(1)
	}

	profiles := upstream.NewProfileClient(cfg.ProfileServiceURL, nil)
	scoring := upstream.NewScoringClient(cfg.ScoringServiceURL, nil)

	var notifier application.NotificationSender
	if cfg.SMTPHost != "" {
		notifier = notify.NewMailer(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
	} else {
		logger.Warn("smtp host not configured, meeting invites disabled")
	}

	sessionService := application.NewSessionService(application.SessionServiceConfig{
		Schedules: scheduleRepo,
		Sessions:  sessionRepo,
		Profiles:  profiles,
		Scoring:   scoring,
		Notifier:  notifier,
		Tokens:    issuer,
		Window: joinwindow.Policy{
			GraceBefore: cfg.JoinGraceBefore,
			GraceAfter:  cfg.JoinGraceAfter,
		},
		JoinURLBase: cfg.JoinURLBase,
		IDGenerator: idGenerator,
		Logger:      logger,
	})

	online := presence.NewRegistry()
	wsHandler := ws.NewHandler(online, logger)
	chatService := application.NewChatService(messageRepo, online, wsHandler, idGenerator, time.Now, logger)
	wsHandler.AttachChat(chatService)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Sessions: httptransport.NewSessionHandler(sessionService, logger),
		Chat:     httptransport.NewChatHandler(chatService, online, profiles, logger),
		WS:       wsHandler,
		APIMiddleware: []func(http.Handler) http.Handler{
			httptransport.RequireIdentity(logger),
		},
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("session API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}
