// Package section реализует HTTP-обработчик проверки доступности раздела приложения.
//
// Сам по себе обработчик лишь подтверждает доступ: платные разделы до него не
// доходят, их отсекает middleware премиум-гейта на группе маршрутов.
package section

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/dijital-miras/premium-service/internal/http/response"
)

// Handler подтверждает доступность раздела приложения.
type Handler struct {
	log         *slog.Logger
	mountPrefix string
}

// New создает новый Handler с переданным логгером и префиксом точки монтирования.
func New(log *slog.Logger, mountPrefix string) *Handler {
	return &Handler{
		log:         log,
		mountPrefix: mountPrefix,
	}
}

// ServeHTTP godoc
// @Summary Доступность раздела приложения
// @Description Подтверждает доступ к разделу. Платные разделы без премиума отклоняются гейтом со статусом 403.
// @Tags Premium
// @Produce  json
// @Success 200 {object} map[string]any "Раздел доступен"
// @Failure 401 {object} response.ErrorResponse "Пользователь не идентифицирован"
// @Failure 403 {object} response.ErrorResponse "Требуется премиум-доступ"
// @Security BearerAuth
// @Router /sections/{route} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	route := strings.TrimPrefix(r.URL.Path, h.mountPrefix)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"route":     route,
		"available": true,
	}))
}
