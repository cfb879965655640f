// Package featurelock реализует HTTP-обработчик для проверки доступа к разделу приложения.
//
// Handler извлекает идентификатор раздела из query-параметра route и отвечает,
// закрыт ли раздел для текущего пользователя. Неизвестные разделы считаются платными.
package featurelock

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/dijital-miras/premium-service/internal/http/middlewarectx"
	"github.com/dijital-miras/premium-service/internal/http/response"
)

// Handler обрабатывает запросы на проверку доступа к разделу.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики проверки доступа.
type Service interface {
	FeatureLocked(ctx context.Context, userUID, routeID string) bool
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Проверка доступа к разделу
// @Description Отвечает, закрыт ли указанный раздел приложения для текущего пользователя.
// @Tags Premium
// @Produce  json
// @Param route query string true "Идентификатор раздела, например /vasiyet"
// @Success 200 {object} map[string]any "Признак блокировки раздела"
// @Failure 400 {object} response.ErrorResponse "Не указан раздел"
// @Failure 401 {object} response.ErrorResponse "Пользователь не идентифицирован"
// @Security BearerAuth
// @Router /premium/features/lock [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.premium.featurelock"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("failed to get useruid from context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("failed to get info about user"))
		return
	}

	route := r.URL.Query().Get("route")
	if route == "" {
		log.Error("missing route query parameter")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing route query parameter"))
		return
	}

	locked := h.service.FeatureLocked(r.Context(), userUID, route)

	log.Info("feature lock checked",
		slog.String("route", route),
		slog.Bool("locked", locked))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"route":  route,
		"locked": locked,
	}))
}
