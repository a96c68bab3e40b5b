// Package tifo предоставляет маршруты для основного приложения.
package tifo

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/mrkexxx/tifo.vn/internal/http/handlers/auth/login"
	"github.com/mrkexxx/tifo.vn/internal/http/handlers/auth/register"
	catalogcreate "github.com/mrkexxx/tifo.vn/internal/http/handlers/catalog/create"
	cataloglist "github.com/mrkexxx/tifo.vn/internal/http/handlers/catalog/list"
	catalogupdate "github.com/mrkexxx/tifo.vn/internal/http/handlers/catalog/update"
	commissionlist "github.com/mrkexxx/tifo.vn/internal/http/handlers/commission/list"
	commissionstatus "github.com/mrkexxx/tifo.vn/internal/http/handlers/commission/status"
	customerlist "github.com/mrkexxx/tifo.vn/internal/http/handlers/customer/list"
	"github.com/mrkexxx/tifo.vn/internal/http/handlers/health"
	ordercreate "github.com/mrkexxx/tifo.vn/internal/http/handlers/order/create"
	orderlist "github.com/mrkexxx/tifo.vn/internal/http/handlers/order/list"
	orderread "github.com/mrkexxx/tifo.vn/internal/http/handlers/order/read"
	orderstatus "github.com/mrkexxx/tifo.vn/internal/http/handlers/order/status"
	reportdaily "github.com/mrkexxx/tifo.vn/internal/http/handlers/report/daily"
	reportdaterange "github.com/mrkexxx/tifo.vn/internal/http/handlers/report/daterange"
	reportmonthly "github.com/mrkexxx/tifo.vn/internal/http/handlers/report/monthly"
	reportoverview "github.com/mrkexxx/tifo.vn/internal/http/handlers/report/overview"
	reporttop "github.com/mrkexxx/tifo.vn/internal/http/handlers/report/top"
	"github.com/mrkexxx/tifo.vn/internal/http/middlewarectx"
	"github.com/mrkexxx/tifo.vn/internal/models"
	authservice "github.com/mrkexxx/tifo.vn/internal/services/auth"
	catalogservice "github.com/mrkexxx/tifo.vn/internal/services/catalog"
	commissionservice "github.com/mrkexxx/tifo.vn/internal/services/commission"
	orderservice "github.com/mrkexxx/tifo.vn/internal/services/order"
	reportservice "github.com/mrkexxx/tifo.vn/internal/services/report"
	"github.com/mrkexxx/tifo.vn/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, db *repository.Storage,
	authService *authservice.AuthService,
	orderService *orderservice.OrderService,
	commissionService *commissionservice.CommissionService,
	catalogService *catalogservice.CatalogService,
	reportService *reportservice.ReportService,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/packages", cataloglist.New(logger, catalogService).ServeHTTP)
			r.Get("/orders", orderlist.New(logger, orderService).ServeHTTP)
			r.Get("/orders/{id}", orderread.New(logger, orderService).ServeHTTP)
			r.Get("/commissions", commissionlist.New(logger, commissionService).ServeHTTP)
			r.Get("/reports/daily", reportdaily.New(logger, reportService).ServeHTTP)
			r.Get("/reports/monthly", reportmonthly.New(logger, reportService).ServeHTTP)

			// Оформление заказов и справочник клиентов доступны администратору и продавцам
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(logger, models.RoleAdmin, models.RoleReseller, models.RoleCTV))
				r.Post("/orders", ordercreate.New(logger, orderService).ServeHTTP)
				r.Get("/customers", customerlist.New(logger, catalogService).ServeHTTP)
			})

			// Административные операции
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(logger, models.RoleAdmin))
				r.Patch("/orders/{id}/status", orderstatus.New(logger, orderService).ServeHTTP)
				r.Patch("/commissions/{id}/status", commissionstatus.New(logger, commissionService).ServeHTTP)
				r.Post("/packages", catalogcreate.New(logger, catalogService).ServeHTTP)
				r.Put("/packages/{id}", catalogupdate.New(logger, catalogService).ServeHTTP)
				r.Get("/reports/top", reporttop.New(logger, reportService).ServeHTTP)
				r.Get("/reports/range", reportdaterange.New(logger, reportService).ServeHTTP)
				r.Get("/reports/overview", reportoverview.New(logger, reportService).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger, db).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
