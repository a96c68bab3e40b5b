// Package list реализует HTTP-обработчик выборки комиссий.
//
// Handler читает параметры фильтрации из строки запроса, извлекает
// инициатора из контекста и возвращает список комиссий с учётом его роли:
// продавец видит только собственные вознаграждения.
package list

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

// Handler обрабатывает запросы на получение списка комиссий.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики комиссий
}

// Service описывает интерфейс бизнес-логики выборки комиссий.
type Service interface {
	List(ctx context.Context, actor models.Actor, filter models.CommissionFilter) ([]*models.Commission, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список комиссий
// @Description Возвращает комиссии с учётом роли: продавец видит только свои, администратор — все.
// @Tags Commissions
// @Produce  json
// @Param status query string false "Фильтр по статусу комиссии"
// @Param limit query int false "Размер страницы" default(20)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} map[string]any "Список комиссий"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /commissions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.commission.list"
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

	filter := models.CommissionFilter{Limit: 20, Offset: 0}
	if v := r.URL.Query().Get("status"); v != "" {
		filter.Status = &v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		filter.Limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		filter.Offset = v
	}

	res, err := h.service.List(r.Context(), actor, filter)
	if err != nil {
		log.Error("failed to list commissions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list commissions"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"commissions": res,
	}))
}
