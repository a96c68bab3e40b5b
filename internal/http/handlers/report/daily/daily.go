// Package daily реализует HTTP-обработчик отчёта по дневной выручке.
//
// Handler извлекает инициатора из контекста: продавец получает выручку
// только по своим заказам, администратор — по всем.
package daily

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mrkexxx/tifo.vn/internal/http/middlewarectx"
	"github.com/mrkexxx/tifo.vn/internal/http/response"
	"github.com/mrkexxx/tifo.vn/internal/lib/sl"
	"github.com/mrkexxx/tifo.vn/internal/models"
)

// Handler обрабатывает запросы на получение дневной выручки.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис отчётов
}

// Service описывает интерфейс бизнес-логики отчёта по дням.
type Service interface {
	Daily(ctx context.Context, actor models.Actor, days int) ([]*models.DailyRevenue, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Выручка по дням
// @Description Возвращает оплаченную выручку за последние N календарных дней, включая дни без продаж. Продавец видит только свой оборот.
// @Tags Reports
// @Produce  json
// @Param days query int false "Число дней" default(7)
// @Success 200 {object} map[string]any "Выручка по дням"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /reports/daily [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report.daily"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, ok := middlewarectx.ActorFromContext(r.Context())
	if !ok {
		log.Error("actor not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	days := 7
	if v, err := strconv.Atoi(r.URL.Query().Get("days")); err == nil && v > 0 {
		days = v
	}

	res, err := h.service.Daily(r.Context(), actor, days)
	if err != nil {
		log.Error("failed to build daily report", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build daily report"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"days": res,
	}))
}
