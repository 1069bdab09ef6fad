package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SahilxSingh/EduConnect/internal/bootstrap"
	"github.com/SahilxSingh/EduConnect/internal/config"
	"github.com/SahilxSingh/EduConnect/internal/modules/ai/provider"
	"github.com/SahilxSingh/EduConnect/internal/server"
	"github.com/SahilxSingh/EduConnect/pkg/database"
	"github.com/SahilxSingh/EduConnect/pkg/logger"
	"github.com/SahilxSingh/EduConnect/pkg/storage"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Configure(logger.Config{Level: "info"})
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.Configure(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	}).With().Str("host", config.Hostname()).Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.Database())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	redisClient := connectRedis(ctx, cfg, log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	var searchClient meilisearch.ServiceManager
	if host := cfg.MeiliHost(); host != "" {
		searchClient = meilisearch.New(host, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	} else {
		log.Warn().Msg("MEILISEARCH_HOST not set, search disabled")
	}

	var mediaStorage storage.MediaStorage
	if cfg.CloudinaryURL != "" {
		mediaStorage, err = storage.NewCloudinaryStorage(cfg.CloudinaryURL, cfg.CloudinaryUploadFolder)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize cloudinary storage")
		}
	} else {
		log.Warn().Msg("CLOUDINARY_URL not set, uploads disabled")
	}

	deps := server.Deps{
		Config:  cfg,
		DB:      db,
		Redis:   redisClient,
		Search:  searchClient,
		Storage: mediaStorage,
		Log:     log,
	}

	if cfg.GeminiAPIKey != "" {
		gemini, err := provider.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize gemini client")
		}
		defer gemini.Close()

		for _, name := range cfg.GeminiModels {
			deps.AIProviders = append(deps.AIProviders, gemini.Model(name))
		}
		deps.AIModels = gemini
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set, ask-doubt disabled")
	}

	srv, err := server.NewServer(ctx, deps)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build server")
	}
	srv.StartAgents()

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", httpServer.Addr).Str("env", cfg.AppEnv).Msg("server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	srv.Shutdown(shutdownCtx)

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// connectRedis returns nil when REDIS_URL is unset or unreachable; rate
// limits, realtime streams and agent dedupe are then disabled.
func connectRedis(ctx context.Context, cfg *config.Config, log zerolog.Logger) *redis.Client {
	if cfg.RedisURL == "" {
		log.Warn().Msg("REDIS_URL not set, realtime and rate limits disabled")
		return nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid REDIS_URL")
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis unreachable, continuing without it")
		_ = client.Close()
		return nil
	}
	return client
}
