// Package daterange реализует HTTP-обработчик итогов произвольного периода.
package daterange

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mrkexxx/tifo.vn/internal/http/response"
	"github.com/mrkexxx/tifo.vn/internal/lib/errs"
	"github.com/mrkexxx/tifo.vn/internal/lib/sl"
	"github.com/mrkexxx/tifo.vn/internal/models"
)

// dateLayout — формат границ периода в строке запроса.
const dateLayout = "2006-01-02"

// Handler обрабатывает запросы на получение итогов периода.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис отчётов
}

// Service описывает интерфейс бизнес-логики итогов периода.
type Service interface {
	Range(ctx context.Context, from, to time.Time) (*models.RangeSummary, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Итоги периода
// @Description Возвращает число и сумму оплаченных заказов и сумму комиссий за период, обе границы включительно.
// @Tags Reports
// @Produce  json
// @Param from query string true "Начало периода (YYYY-MM-DD)"
// @Param to query string true "Конец периода (YYYY-MM-DD)"
// @Success 200 {object} map[string]any "Итоги периода"
// @Failure 400 {object} response.ErrorResponse "Некорректные границы периода"
// @Failure 422 {object} response.ErrorResponse "Пустой период"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /reports/range [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report.daterange"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	from, err := time.Parse(dateLayout, r.URL.Query().Get("from"))
	if err != nil {
		log.Error("failed to parse from date", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid from date, expected YYYY-MM-DD"))
		return
	}
	to, err := time.Parse(dateLayout, r.URL.Query().Get("to"))
	if err != nil {
		log.Error("failed to parse to date", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid to date, expected YYYY-MM-DD"))
		return
	}

	res, err := h.service.Range(r.Context(), from, to)
	if err != nil {
		log.Error("failed to build range report", sl.Err(err))
		if errors.Is(err, errs.ErrValidation) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build range report"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"summary": res,
	}))
}
