// Package status реализует HTTP-обработчик перехода статуса комиссии.
//
// Handler принимает новый статус и вызывает бизнес-логику перехода.
// Переходы строго последовательные: pending -> approved -> paid.
package status

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/mrkexxx/tifo.vn/internal/http/response"
	"github.com/mrkexxx/tifo.vn/internal/lib/errs"
	"github.com/mrkexxx/tifo.vn/internal/lib/sl"
)

// Request описывает тело запроса перехода статуса.
type Request struct {
	Status string `json:"status" validate:"required"` // Новый статус комиссии
}

// Handler обрабатывает запросы на переход статуса комиссии.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики комиссий
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики перехода статуса комиссии.
type Service interface {
	UpdateStatus(ctx context.Context, id, newStatus string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Перевести комиссию в новый статус
// @Description Переводит комиссию по цепочке pending -> approved -> paid. Пропуски и возвраты запрещены.
// @Tags Commissions
// @Accept  json
// @Produce  json
// @Param id path string true "ID комиссии"
// @Param request body Request true "Новый статус"
// @Success 200 {object} map[string]any "Статус обновлён"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Комиссия не найдена"
// @Failure 409 {object} response.ErrorResponse "Недопустимый переход или конфликт обновления"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /commissions/{id}/status [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.commission.status"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	id := chi.URLParam(r, "id")

	if err := h.service.UpdateStatus(r.Context(), id, req.Status); err != nil {
		log.Error("failed to update commission status", sl.Err(err))
		switch {
		case errors.Is(err, errs.ErrValidation):
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(err.Error()))
		case errors.Is(err, errs.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("commission not found"))
		case errors.Is(err, errs.ErrInvalidTransition), errors.Is(err, errs.ErrConflict):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(err.Error()))
		default:
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update commission status"))
		}
		return
	}

	log.Info("commission status updated", slog.String("id", id), slog.String("status", req.Status))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id":     id,
		"status": req.Status,
	}))
}
