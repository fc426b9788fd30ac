package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Rrens/seo-writer/internal/api/handler"
	customMiddleware "github.com/Rrens/seo-writer/internal/api/middleware"
	"github.com/Rrens/seo-writer/internal/config"
	"github.com/Rrens/seo-writer/internal/llm"
	"github.com/Rrens/seo-writer/internal/service"
)

// Dependencies are the wired services the HTTP layer serves
type Dependencies struct {
	Auth        *service.AuthService
	Content     *service.ContentService
	Publishing  *service.PublishingService
	Sites       *service.SiteService
	LLMRouter   *llm.Router
	RateLimiter customMiddleware.Limiter
	Readiness   map[string]handler.Pinger
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	if cfg.Server.MiddlewareTimeout > 0 {
		r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authHandler := handler.NewAuthHandler(deps.Auth)
	contentHandler := handler.NewContentHandler(deps.Content, deps.LLMRouter)
	wordpressHandler := handler.NewWordPressHandler(deps.Sites, deps.Publishing)

	authMiddleware := customMiddleware.NewAuthMiddleware(deps.Auth)

	// protected applies the shared auth gate, then the per-user limiter when configured
	protected := func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		if deps.RateLimiter != nil {
			r.Use(customMiddleware.NewRateLimitMiddleware(deps.RateLimiter).Limit)
		}
	}

	// Health
	r.Get("/api/test", handler.ServerTest)
	r.Get("/health", handler.HealthCheck)
	r.Get("/ready", handler.ReadyCheck(deps.Readiness))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)

		r.Group(func(r chi.Router) {
			protected(r)
			r.Get("/profile", authHandler.Profile)
			r.Patch("/profile", authHandler.UpdateProfile)
		})
	})

	r.Route("/content", func(r chi.Router) {
		protected(r)

		r.Post("/generate", contentHandler.Generate)
		r.Get("/my-content", contentHandler.List)
		r.Get("/models", contentHandler.Models)
		r.Get("/{id}", contentHandler.Get)
		r.Patch("/{id}", contentHandler.Update)
		r.Delete("/{id}", contentHandler.Delete)
	})

	r.Route("/wordpress", func(r chi.Router) {
		protected(r)

		r.Post("/sites", wordpressHandler.AddSite)
		r.Get("/sites", wordpressHandler.ListSites)
		r.Post("/publish/{contentId}", wordpressHandler.Publish)
		r.Post("/schedule/{contentId}", wordpressHandler.Schedule)
		r.Get("/history/{contentId}", wordpressHandler.History)
	})

	return r
}
