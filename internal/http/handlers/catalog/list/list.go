// Package list реализует HTTP-обработчик выборки пакетов каталога.
//
// Handler извлекает инициатора из контекста: администратор получает весь
// каталог, остальные роли видят только активные пакеты.
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

// Handler обрабатывает запросы на получение списка пакетов.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис каталога пакетов
}

// Service описывает интерфейс бизнес-логики выборки пакетов.
type Service interface {
	ListPackages(ctx context.Context, actor models.Actor, limit, offset int) ([]*models.Package, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список пакетов
// @Description Возвращает пакеты каталога. Администратор видит все, остальные роли только активные.
// @Tags Catalog
// @Produce  json
// @Param limit query int false "Размер страницы" default(20)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} map[string]any "Список пакетов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /packages [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.list"
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

	limit, offset := 20, 0
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = v
	}

	res, err := h.service.ListPackages(r.Context(), actor, limit, offset)
	if err != nil {
		log.Error("failed to list packages", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list packages"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"packages": res,
	}))
}
