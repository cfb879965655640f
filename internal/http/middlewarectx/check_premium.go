package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/dijital-miras/premium-service/internal/http/response"
)

// GateService определяет интерфейс для проверки доступа к маршрутам приложения.
type GateService interface {
	FeatureLocked(ctx context.Context, userUID, route string) bool
}

// PremiumGateMiddleware создает middleware, которое закрывает платные разделы
// приложения для пользователей без премиум-доступа. Маршрут раздела получается
// из пути запроса отбрасыванием префикса точки монтирования; при отсутствии
// идентификации доступ закрывается.
func PremiumGateMiddleware(log *slog.Logger, gate GateService, mountPrefix string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userUID, ok := r.Context().Value(UserUID).(string)
			if !ok || userUID == "" {
				log.Error("user identification missing")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			route := strings.TrimPrefix(r.URL.Path, mountPrefix)
			if gate.FeatureLocked(r.Context(), userUID, route) {
				log.Info("premium feature locked, access denied",
					slog.String("route", route))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("premium access required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
