package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/seo-writer/internal/api"
	"github.com/Rrens/seo-writer/internal/api/handler"
	"github.com/Rrens/seo-writer/internal/config"
	"github.com/Rrens/seo-writer/internal/llm"
	"github.com/Rrens/seo-writer/internal/llm/anthropic"
	"github.com/Rrens/seo-writer/internal/llm/gemini"
	"github.com/Rrens/seo-writer/internal/llm/ollama"
	"github.com/Rrens/seo-writer/internal/llm/openai"
	"github.com/Rrens/seo-writer/internal/logger"
	"github.com/Rrens/seo-writer/internal/repository/mongo"
	"github.com/Rrens/seo-writer/internal/repository/postgres"
	"github.com/Rrens/seo-writer/internal/repository/redis"
	"github.com/Rrens/seo-writer/internal/security"
	"github.com/Rrens/seo-writer/internal/service"
	"github.com/Rrens/seo-writer/internal/wordpress"
)

func main() {
	// Load .env file - try multiple locations
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logCloser, err := logger.Setup(cfg.Logging, os.Getenv("ENV") == "production")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Msg("Starting SEO Writer API server")

	ctx := context.Background()

	// Document store
	mongoDB, err := mongo.NewDB(ctx, cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer mongoDB.Close(context.Background())

	if err := mongoDB.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to create MongoDB indexes")
	}

	// Publish history
	if err := postgres.RunMigrations(cfg.Database.DSN(), cfg.Database.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	pgDB, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pgDB.Close()

	redisClient, err := redis.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	encryptor, err := newEncryptor(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize encryptor")
	}

	jwtManager := security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	llmRouter := newLLMRouter(cfg.LLM)

	userRepo := mongo.NewUserRepository(mongoDB)
	contentRepo := mongo.NewContentRepository(mongoDB)
	historyRepo := postgres.NewPublishHistoryRepository(pgDB)
	userCache := redis.NewUserCache(redisClient, cfg.Auth.UserCacheTTL)
	wpClient := wordpress.NewClient(cfg.WordPress.RequestTimeout)

	router := api.NewRouter(cfg, api.Dependencies{
		Auth: service.NewAuthService(userRepo, userCache, jwtManager, cfg.Auth.MonthlyLimit),
		Content: service.NewContentService(contentRepo, userRepo, userCache, llmRouter, service.GenerationConfig{
			DefaultModel: cfg.LLM.DefaultModel,
			MaxTokens:    cfg.LLM.MaxTokens,
			Temperature:  cfg.LLM.Temperature,
		}),
		Publishing:  service.NewPublishingService(contentRepo, userRepo, historyRepo, wpClient, encryptor),
		Sites:       service.NewSiteService(userRepo, userCache, wpClient, encryptor),
		LLMRouter:   llmRouter,
		RateLimiter: redis.NewRateLimiter(redisClient, cfg.Security.RateLimit.RequestsPerMinute, cfg.Security.RateLimit.Burst),
		Readiness: map[string]handler.Pinger{
			"mongo":    mongoDB,
			"postgres": pgDB,
			"redis":    redisClient,
		},
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

// newEncryptor prefers an explicit base64 key and falls back to one derived from the JWT secret
func newEncryptor(cfg *config.Config) (*security.Encryptor, error) {
	if cfg.Security.EncryptionKey != "" {
		return security.NewEncryptorFromBase64(cfg.Security.EncryptionKey)
	}
	log.Warn().Msg("ENCRYPTION_KEY not set, deriving site password key from JWT secret")
	return security.NewEncryptor(security.DeriveKey(cfg.Auth.JWTSecret))
}

func newLLMRouter(cfg config.LLMConfig) *llm.Router {
	router := llm.NewRouter(cfg.DefaultProvider)

	if cfg.OpenAI.APIKey != "" {
		router.RegisterProvider(openai.NewProvider(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL))
		log.Info().Msg("OpenAI provider registered")
	}
	if cfg.Anthropic.APIKey != "" {
		router.RegisterProvider(anthropic.NewProvider(cfg.Anthropic.APIKey, cfg.Anthropic.Model, cfg.Anthropic.BaseURL))
		log.Info().Msg("Anthropic provider registered")
	}
	if cfg.Gemini.APIKey != "" {
		router.RegisterProvider(gemini.NewProvider(cfg.Gemini))
		log.Info().Msg("Gemini provider registered")
	}
	if cfg.Ollama.Host != "" {
		router.RegisterProvider(ollama.NewProvider(cfg.Ollama.Host, cfg.Ollama.DefaultModel))
		log.Info().Str("host", cfg.Ollama.Host).Msg("Ollama provider registered")
	}

	if len(router.ListProviders()) == 0 {
		log.Warn().Msg("No LLM provider configured, content generation will fail")
	}

	return router
}
