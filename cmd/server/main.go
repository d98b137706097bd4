package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"neuralserver/internal/config"
	"neuralserver/internal/httpapi"
	"neuralserver/internal/keepalive"
	"neuralserver/internal/service"
	"neuralserver/internal/store/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	logger := newLogger(cfg)

	var (
		authSvc     *service.AuthService
		friendsSvc  *service.FriendsService
		feedSvc     *service.FeedService
		messagesSvc *service.MessagesService
		musicSvc    *service.MusicService
		profilesSvc *service.ProfilesService
		dbPing      func(context.Context) error
	)

	if cfg.DBDSN != "" {
		pgPool, err := postgres.Open(context.Background(), cfg.DBDSN)
		if err != nil {
			logger.Error("db open failed", "err", err)
			os.Exit(1)
		}
		defer pgPool.Close()

		users := postgres.NewUsersStore(pgPool)
		friendships := postgres.NewFriendshipsStore(pgPool)
		posts := postgres.NewPostsStore(pgPool)
		messages := postgres.NewMessagesStore(pgPool)
		tracks := postgres.NewTracksStore(pgPool)

		authSvc = &service.AuthService{
			Users:           users,
			TokenPrefix:     cfg.TokenPrefix,
			GuestNamePrefix: cfg.GuestNamePrefix,
			IsAdminName:     cfg.IsAdminName,
			GoogleClientID:  cfg.GoogleClientID,
			AppleServiceID:  cfg.AppleServiceID,
		}
		friendsSvc = &service.FriendsService{
			Users:       users,
			Friendships: friendships,
		}
		feedSvc = &service.FeedService{Posts: posts}
		messagesSvc = &service.MessagesService{Messages: messages}
		musicSvc = &service.MusicService{Tracks: tracks}
		profilesSvc = &service.ProfilesService{
			Users:       users,
			Posts:       posts,
			Friendships: friendships,
		}
		dbPing = pgPool.Ping

		seeded, err := musicSvc.Seed(context.Background())
		if err != nil {
			logger.Error("music seed failed", "err", err)
			os.Exit(1)
		}
		if seeded > 0 {
			logger.Info("seeded default stations", "count", seeded)
		}
	}

	router := httpapi.NewRouter(httpapi.RouterOpts{
		Logger:     logger,
		IsProd:     cfg.IsProd(),
		CORSOrigin: cfg.CORSOrigin,
		DBPing:     dbPing,
		Auth:       authSvc,
		Friends:    friendsSvc,
		Feed:       feedSvc,
		Messages:   messagesSvc,
		Music:      musicSvc,
		Profiles:   profilesSvc,
	})

	pinger := keepalive.New(cfg.PublicURL, logger)
	if err := pinger.Start(cfg.KeepAliveInterval); err != nil {
		logger.Error("keepalive start failed", "err", err)
		os.Exit(1)
	}
	defer pinger.Stop()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "env", cfg.Env, "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProd() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
