// Package overview реализует HTTP-обработчик сводных показателей панели администратора.
package overview

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mrkexxx/tifo.vn/internal/http/response"
	"github.com/mrkexxx/tifo.vn/internal/lib/sl"
	"github.com/mrkexxx/tifo.vn/internal/models"
)

// Handler обрабатывает запросы на получение сводных показателей.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис отчётов
}

// Service описывает интерфейс бизнес-логики сводных показателей.
type Service interface {
	Overview(ctx context.Context) (*models.Overview, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Сводные показатели
// @Description Возвращает суммарную выручку, число заказов, пользователей и сумму невыплаченных комиссий.
// @Tags Reports
// @Produce  json
// @Success 200 {object} map[string]any "Сводные показатели"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /reports/overview [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report.overview"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	res, err := h.service.Overview(r.Context())
	if err != nil {
		log.Error("failed to build overview", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build overview"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"overview": res,
	}))
}
