// Package share реализует HTTP-обработчик для учёта ежедневных «поделиться».
//
// Handler извлекает UID пользователя из контекста и делегирует учёт действия
// бизнес-логике. За календарный день засчитывается не более одного действия;
// серия из трёх последовательных дней приносит суточный премиум-доступ.
package share

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/dijital-miras/premium-service/internal/http/middlewarectx"
	"github.com/dijital-miras/premium-service/internal/http/response"
	"github.com/dijital-miras/premium-service/internal/lib/sl"
	"github.com/dijital-miras/premium-service/internal/models"
	"github.com/dijital-miras/premium-service/internal/services/premium"
)

// Handler обрабатывает запросы на учёт успешного «поделиться».
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики учёта «поделиться».
type Service interface {
	RegisterShare(ctx context.Context, userUID string) (models.ShareResult, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Учёт успешного «поделиться»
// @Description Засчитывает одно действие за календарный день. Серия из трёх дней подряд даёт 24 часа премиума.
// @Tags Premium
// @Produce  json
// @Success 200 {object} map[string]any "Результат учёта: прогресс, повтор или награда"
// @Failure 401 {object} response.ErrorResponse "Пользователь не идентифицирован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /premium/share [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.premium.share"

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

	res, err := h.service.RegisterShare(r.Context(), userUID)
	if err != nil {
		if errors.Is(err, premium.ErrNoUser) {
			log.Error("unknown user", slog.String("useruid", userUID))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("failed to get info about user"))
			return
		}
		log.Error("failed to register share", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not register share"))
		return
	}

	log.Info("share registered",
		slog.String("outcome", string(res.Outcome)),
		slog.Int("streak", res.Streak))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"outcome":    res.Outcome,
		"streak":     res.Streak,
		"reward_end": res.RewardEnd,
	}))
}
