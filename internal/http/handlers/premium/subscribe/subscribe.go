// Package subscribe реализует HTTP-обработчик для оформления платного тарифа.
//
// Handler декодирует и валидирует тело запроса, извлекает UID пользователя из
// контекста и делегирует оформление тарифа бизнес-логике. Запись подписки
// обновляется слиянием: накопленный прогресс стрика сохраняется.
package subscribe

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/dijital-miras/premium-service/internal/http/middlewarectx"
	"github.com/dijital-miras/premium-service/internal/http/response"
	"github.com/dijital-miras/premium-service/internal/lib/sl"
	"github.com/dijital-miras/premium-service/internal/models"
	"github.com/dijital-miras/premium-service/internal/services/premium"
)

// Request — входные данные для оформления тарифа.
type Request struct {
	PlanID  string `json:"plan_id" validate:"required"`
	Billing string `json:"billing" validate:"required,oneof=monthly annual"`
}

// Service описывает интерфейс бизнес-логики оформления тарифа.
type Service interface {
	SubscribeToPlan(ctx context.Context, userUID, planID string, billing models.Billing) (*models.Record, error)
}

// Handler обрабатывает запросы на оформление тарифа.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Оформление платного тарифа
// @Description Активирует выбранный тариф с месячной или годовой оплатой. Прогресс стрика сохраняется.
// @Tags Premium
// @Accept  json
// @Produce  json
// @Param request body Request true "Тариф и тип оплаты"
// @Success 200 {object} map[string]any "Тариф активирован"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или неизвестный тариф"
// @Failure 401 {object} response.ErrorResponse "Пользователь не идентифицирован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /premium/subscribe [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.premium.subscribe"

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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	rec, err := h.service.SubscribeToPlan(r.Context(), userUID, req.PlanID, models.Billing(req.Billing))
	if err != nil {
		switch {
		case errors.Is(err, premium.ErrNoUser):
			log.Error("unknown user", slog.String("useruid", userUID))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("failed to get info about user"))
		case errors.Is(err, premium.ErrUnknownPlan):
			log.Error("unknown plan", slog.String("plan_id", req.PlanID))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("unknown plan"))
		default:
			log.Error("failed to subscribe to plan", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not subscribe to plan"))
		}
		return
	}

	log.Info("plan activated", slog.String("plan_id", req.PlanID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"subscription": rec,
	}))
}
