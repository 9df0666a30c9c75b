package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/tripweave-app/tripweave/internal/ai"
	"github.com/tripweave-app/tripweave/internal/api"
	"github.com/tripweave-app/tripweave/internal/auth"
	"github.com/tripweave-app/tripweave/internal/config"
	"github.com/tripweave-app/tripweave/internal/database"
	"github.com/tripweave-app/tripweave/internal/events"
	mw "github.com/tripweave-app/tripweave/internal/middleware"
	redisclient "github.com/tripweave-app/tripweave/internal/redis"
	"github.com/tripweave-app/tripweave/internal/server"
	"github.com/tripweave-app/tripweave/internal/suggest"
	"github.com/tripweave-app/tripweave/internal/trips"
	"github.com/tripweave-app/tripweave/internal/users"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := database.RunMigrations(cfg.DB.DSN(), "migrations"); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	rdb, err := redisclient.NewClient(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	// NATS is optional; the API works without realtime events.
	var eventsClient *events.Client
	var publisher *events.Publisher
	if cfg.NATS.URL != "" {
		eventsClient, err = events.NewClient(ctx, cfg.NATS)
		if err != nil {
			slog.Warn("NATS unavailable, realtime events disabled", "error", err)
		} else {
			defer eventsClient.Close()
			publisher = events.NewPublisher(eventsClient.JetStream())
		}
	}

	// Auth + users
	jwtManager := auth.NewJWTManager(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry)
	authSvc := auth.NewService(jwtManager, rdb)
	userSvc := users.NewService(users.NewRepository(pool))
	authHandler := auth.NewHandler(authSvc, userSvc)

	// Trips
	tripsSvc := trips.NewService(trips.NewRepository(pool), publisher)
	tripsHandler := trips.NewHandler(tripsSvc)

	// Suggestions
	completer := ai.NewClient(cfg.AI)
	suggestSvc := suggest.NewService(suggest.NewRepository(pool), completer, publisher, cfg.Quota.DailyLimit)
	suggestHandler := suggest.NewHandler(suggestSvc)

	authLimiter := mw.NewRateLimiter(rdb, "ratelimit:auth:", 10, 60)
	// Mirrors the per-user minute limit so one IP cannot spray requests
	// across many user ids.
	suggestLimiter := mw.NewRateLimiter(rdb, "ratelimit:suggest:", cfg.Quota.MinuteLimit, 60)

	handler := api.NewRouter(pool, func() error {
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer pingCancel()
		return rdb.Ping(pingCtx).Err()
	}, eventsClient, api.RouterConfig{
		CORSAllowedOrigins: cfg.Server.CORSOrigins,
		AuthRateLimiter:    authLimiter.Middleware,
		SuggestRateLimiter: suggestLimiter.Middleware,
	}, api.HandlerSet{
		Register: authHandler.Register,
		Login:    authHandler.Login,
		Refresh:  authHandler.Refresh,
		Logout:   authHandler.Logout,

		CreateWorkspace: tripsHandler.CreateWorkspace,
		ListWorkspaces:  tripsHandler.ListWorkspaces,
		GetWorkspace:    tripsHandler.GetWorkspace,
		CreateIdea:      tripsHandler.CreateIdea,
		ListIdeas:       tripsHandler.ListIdeas,
		GetIdea:         tripsHandler.GetIdea,
		PromoteIdea:     tripsHandler.PromoteIdea,
		DeleteIdea:      tripsHandler.DeleteIdea,
		CreateProposal:  tripsHandler.CreateProposal,
		ListProposals:   tripsHandler.ListProposals,
		LikeIdea:        tripsHandler.LikeIdea,
		UnlikeIdea:      tripsHandler.UnlikeIdea,

		GenerateSuggestion: suggestHandler.Generate,
		GetSuggestionQuota: suggestHandler.Quota,

		AuthMiddleware: auth.Middleware(authSvc),
	})

	return server.New(cfg.Server, handler).Start()
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	slog.SetDefault(slog.New(handler))
}
