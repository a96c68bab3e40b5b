// Package sender собирает воркер email-уведомлений: подключение к брокеру,
// SMTP-транспорт и подписку на очереди событий продаж.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/mrkexxx/tifo.vn/internal/config"
	"github.com/mrkexxx/tifo.vn/internal/lib/smtp"
	"github.com/mrkexxx/tifo.vn/internal/rabbitmq"
	senderservice "github.com/mrkexxx/tifo.vn/internal/services/sender"
)

// App содержит зависимости воркера уведомлений.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

// New собирает воркер: подключает брокер, объявляет очереди и SMTP-транспорт.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.AddressRabbit, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetSalesQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}

	newTransport := smtp.NewTransport(cfg, logger)
	senderService := senderservice.NewSenderService(logger, newTransport)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run подписывается на очереди событий и блокируется до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, "sales.order.paid", a.senderService.SendOrderPaidNotification)
	if err != nil {
		a.logger.Error("failed to start sales.order.paid consumer", slog.Any("err", err))
		return err
	}

	err = rabbitmq.ConsumerMessage(ctx, a.ch, "sales.commission.paid", a.senderService.SendCommissionPaidNotification)
	if err != nil {
		a.logger.Error("failed to start sales.commission.paid consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("Sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
