// Package monthly реализует HTTP-обработчик отчёта по месячной выручке.
//
// Handler извлекает инициатора из контекста: продавец получает агрегаты
// только по своим заказам, администратор — по всем.
package monthly

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mrkexxx/tifo.vn/internal/http/middlewarectx"
	"github.com/mrkexxx/tifo.vn/internal/http/response"
	"github.com/mrkexxx/tifo.vn/internal/lib/sl"
	"github.com/mrkexxx/tifo.vn/internal/models"
)

// Handler обрабатывает запросы на получение месячной выручки.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис отчётов
}

// Service описывает интерфейс бизнес-логики отчёта по месяцам.
type Service interface {
	Monthly(ctx context.Context, actor models.Actor) ([]*models.MonthlyRevenue, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Выручка по месяцам
// @Description Возвращает помесячные агрегаты оплаченной выручки со справочной ставкой и комиссией.
// @Tags Reports
// @Produce  json
// @Success 200 {object} map[string]any "Выручка по месяцам"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /reports/monthly [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report.monthly"
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

	res, err := h.service.Monthly(r.Context(), actor)
	if err != nil {
		log.Error("failed to build monthly report", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build monthly report"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"months": res,
	}))
}
