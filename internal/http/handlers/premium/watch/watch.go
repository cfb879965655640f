// Package watch реализует HTTP-обработчик живой подписки на изменения записи.
//
// Handler открывает поток Server-Sent Events и транслирует в него события
// изменения записи подписки пользователя до разрыва соединения клиентом.
package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/dijital-miras/premium-service/internal/http/middlewarectx"
	"github.com/dijital-miras/premium-service/internal/http/response"
	"github.com/dijital-miras/premium-service/internal/lib/sl"
	"github.com/dijital-miras/premium-service/internal/models"
)

// Handler обрабатывает запросы на живую подписку на изменения записи.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс живой подписки на изменения.
type Service interface {
	Watch(ctx context.Context, userUID string) (<-chan *models.Record, func(), error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Живая подписка на изменения записи
// @Description Открывает поток Server-Sent Events с событиями изменения записи подписки пользователя.
// @Tags Premium
// @Produce  text/event-stream
// @Success 200 {string} string "Поток событий"
// @Failure 401 {object} response.ErrorResponse "Пользователь не идентифицирован"
// @Failure 500 {object} response.ErrorResponse "Поток недоступен"
// @Security BearerAuth
// @Router /premium/watch [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.premium.watch"

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

	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Error("streaming unsupported by response writer")
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("streaming unsupported"))
		return
	}

	// Глобальный WriteTimeout сервера закрыл бы долгоживущий поток; для этого
	// соединения дедлайн записи снимается целиком.
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		log.Warn("failed to clear write deadline", sl.Err(err))
	}

	events, stop, err := h.service.Watch(r.Context(), userUID)
	if err != nil {
		log.Error("failed to open change feed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not open change feed"))
		return
	}
	defer stop()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	log.Info("change feed opened", slog.String("useruid", userUID))

	for {
		select {
		case <-r.Context().Done():
			log.Info("client disconnected", slog.String("useruid", userUID))
			return
		case rec, open := <-events:
			if !open {
				return
			}
			payload, err := json.Marshal(rec)
			if err != nil {
				log.Error("failed to marshal record", sl.Err(err))
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
