// Package tifo собирает основной HTTP-сервис платформы продаж:
// хранилище, миграции, кеш, брокер событий, бизнес-сервисы и сервер.
package tifo

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/mrkexxx/tifo.vn/internal/cache"
	"github.com/mrkexxx/tifo.vn/internal/config"
	"github.com/mrkexxx/tifo.vn/internal/lib/jwt"
	"github.com/mrkexxx/tifo.vn/internal/migrations"
	"github.com/mrkexxx/tifo.vn/internal/rabbitmq"
	authservice "github.com/mrkexxx/tifo.vn/internal/services/auth"
	catalogservice "github.com/mrkexxx/tifo.vn/internal/services/catalog"
	commissionservice "github.com/mrkexxx/tifo.vn/internal/services/commission"
	orderservice "github.com/mrkexxx/tifo.vn/internal/services/order"
	reportservice "github.com/mrkexxx/tifo.vn/internal/services/report"
	"github.com/mrkexxx/tifo.vn/internal/storage/repository"
)

// App содержит собранные зависимости основного сервиса.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New собирает приложение: подключает базу, применяет миграции,
// поднимает кеш и брокер, создает сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.AddressRabbit, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetSalesQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}
	publisher := rabbitmq.NewPublisher(ch)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := authservice.NewAuthService(db, jwtMaker)

	rates, err := commissionservice.NewRates(db, cfg.ReportTimezone)
	if err != nil {
		return nil, err
	}
	orderService := orderservice.NewOrderService(db, rates, publisher, logger)
	commissionService := commissionservice.NewCommissionService(db, publisher, logger)
	catalogService := catalogservice.NewCatalogService(db, cacheRedis, logger)
	reportService, err := reportservice.NewReportService(db, cacheRedis, cfg.ReportTimezone, logger)
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db, authService, orderService, commissionService, catalogService, reportService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до отмены контекста
// либо до ошибки сервера. При отмене контекста завершает работу корректно.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.ch.Close(); cerr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", cerr))
		}
		if cerr := a.conn.Close(); cerr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", cerr))
		}
		a.db.DB.Close()
		return err
	}
}
