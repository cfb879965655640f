// Package status реализует HTTP-обработчик для получения сводки по премиум-доступу.
//
// Handler извлекает UID пользователя из контекста запроса, вызывает бизнес-логику
// и возвращает сводку: признак премиума, остаток дней триала и запись подписки.
package status

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/dijital-miras/premium-service/internal/http/middlewarectx"
	"github.com/dijital-miras/premium-service/internal/http/response"
	"github.com/dijital-miras/premium-service/internal/models"
)

// Handler обрабатывает запросы на получение сводки по подписке пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики для расчёта сводки.
type Service interface {
	Snapshot(ctx context.Context, userUID string) models.EntitlementSnapshot
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Сводка по премиум-доступу
// @Description Возвращает признак премиума, остаток дней триала и запись подписки пользователя.
// @Tags Premium
// @Produce  json
// @Success 200 {object} map[string]any "Сводка по подписке"
// @Failure 401 {object} response.ErrorResponse "Пользователь не идентифицирован"
// @Security BearerAuth
// @Router /premium [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.premium.status"

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

	snap := h.service.Snapshot(r.Context(), userUID)

	log.Info("success to build premium snapshot",
		slog.Bool("is_premium", snap.IsPremium),
		slog.Int("days_left_in_trial", snap.DaysLeftInTrial))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"is_premium":         snap.IsPremium,
		"days_left_in_trial": snap.DaysLeftInTrial,
		"subscription":       snap.Subscription,
	}))
}
