// Package premiumservice предоставляет маршруты для основного приложения.
package premiumservice

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/dijital-miras/premium-service/internal/http/handlers/auth/login"
	"github.com/dijital-miras/premium-service/internal/http/handlers/auth/register"
	"github.com/dijital-miras/premium-service/internal/http/handlers/health"
	"github.com/dijital-miras/premium-service/internal/http/handlers/premium/featurelock"
	"github.com/dijital-miras/premium-service/internal/http/handlers/premium/plans"
	"github.com/dijital-miras/premium-service/internal/http/handlers/premium/section"
	"github.com/dijital-miras/premium-service/internal/http/handlers/premium/share"
	"github.com/dijital-miras/premium-service/internal/http/handlers/premium/status"
	"github.com/dijital-miras/premium-service/internal/http/handlers/premium/subscribe"
	"github.com/dijital-miras/premium-service/internal/http/handlers/premium/trial"
	"github.com/dijital-miras/premium-service/internal/http/handlers/premium/watch"
	"github.com/dijital-miras/premium-service/internal/http/middlewarectx"
	authservice "github.com/dijital-miras/premium-service/internal/services/auth"
	"github.com/dijital-miras/premium-service/internal/services/premium"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, authService *authservice.Service, premiumService *premium.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Get("/premium/plans", plans.New(logger).ServeHTTP)
		r.Get("/health", health.New(logger).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/premium", status.New(logger, premiumService).ServeHTTP)
			r.Post("/premium/trial", trial.New(logger, premiumService).ServeHTTP)
			r.Post("/premium/subscribe", subscribe.New(logger, premiumService).ServeHTTP)
			r.Post("/premium/share", share.New(logger, premiumService).ServeHTTP)
			r.Get("/premium/features/lock", featurelock.New(logger, premiumService).ServeHTTP)
			r.Get("/premium/watch", watch.New(logger, premiumService).ServeHTTP)

			// Разделы приложения: платные закрыты серверным гейтом
			r.Route("/sections", func(r chi.Router) {
				r.Use(middlewarectx.PremiumGateMiddleware(logger, premiumService, "/api/v1/sections"))
				r.Get("/*", section.New(logger, "/api/v1/sections").ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
