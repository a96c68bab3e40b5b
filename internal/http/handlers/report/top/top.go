// Package top реализует HTTP-обработчик рейтинга продавцов по выручке.
package top

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mrkexxx/tifo.vn/internal/http/response"
	"github.com/mrkexxx/tifo.vn/internal/lib/sl"
	"github.com/mrkexxx/tifo.vn/internal/models"
)

// Handler обрабатывает запросы на получение рейтинга продавцов.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис отчётов
}

// Service описывает интерфейс бизнес-логики рейтинга продавцов.
type Service interface {
	Top(ctx context.Context, n int) ([]*models.ResellerTotal, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Рейтинг продавцов
// @Description Возвращает продавцов с наибольшей оплаченной выручкой, по убыванию.
// @Tags Reports
// @Produce  json
// @Param n query int false "Размер рейтинга" default(5)
// @Success 200 {object} map[string]any "Рейтинг продавцов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /reports/top [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report.top"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	n := 5
	if v, err := strconv.Atoi(r.URL.Query().Get("n")); err == nil && v > 0 {
		n = v
	}

	res, err := h.service.Top(r.Context(), n)
	if err != nil {
		log.Error("failed to build top resellers report", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build top resellers report"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"resellers": res,
	}))
}
