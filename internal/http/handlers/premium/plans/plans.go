// Package plans реализует HTTP-обработчик для получения каталога тарифов.
package plans

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/dijital-miras/premium-service/internal/http/response"
	"github.com/dijital-miras/premium-service/internal/models"
)

// Handler обрабатывает запросы на получение каталога тарифов.
type Handler struct {
	log *slog.Logger
}

// New создает новый Handler с переданным логгером.
func New(log *slog.Logger) *Handler {
	return &Handler{
		log: log,
	}
}

// ServeHTTP godoc
// @Summary Каталог тарифов
// @Description Возвращает список доступных тарифов с ценами и составом возможностей.
// @Tags Premium
// @Produce  json
// @Success 200 {object} map[string]any "Список тарифов"
// @Router /premium/plans [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.OKWithData(map[string]any{
		"plans": models.Plans,
	}))
}
