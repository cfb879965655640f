// Package trial реализует HTTP-обработчик для запуска пробного периода.
//
// Handler извлекает UID пользователя из контекста запроса и делегирует запуск
// триала бизнес-логике. Повторный запуск перезаписывает запись подписки целиком.
package trial

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/dijital-miras/premium-service/internal/http/middlewarectx"
	"github.com/dijital-miras/premium-service/internal/http/response"
	"github.com/dijital-miras/premium-service/internal/models"
	"github.com/dijital-miras/premium-service/internal/services/premium"
)

// Handler обрабатывает запросы на запуск пробного периода.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики запуска триала.
type Service interface {
	StartTrial(ctx context.Context, userUID string) (*models.Record, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Запуск пробного периода
// @Description Запускает трёхдневный пробный период. Существующая запись подписки перезаписывается.
// @Tags Premium
// @Produce  json
// @Success 200 {object} map[string]any "Триал запущен"
// @Failure 401 {object} response.ErrorResponse "Пользователь не идентифицирован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /premium/trial [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.premium.trial"

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

	rec, err := h.service.StartTrial(r.Context(), userUID)
	if err != nil {
		if errors.Is(err, premium.ErrNoUser) {
			log.Error("unknown user", slog.String("useruid", userUID))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("failed to get info about user"))
			return
		}
		log.Error("failed to start trial", slog.String("useruid", userUID))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not start trial"))
		return
	}

	log.Info("trial started", slog.Time("trial_end", *rec.TrialEnd))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"subscription": rec,
	}))
}
