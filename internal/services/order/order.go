// Package services содержит бизнес-логику оформления заказов:
// валидацию, снимок цены, расчёт срока действия, атомарное создание
// комиссионной записи и переходы статуса оплаты.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mrkexxx/tifo.vn/internal/lib/errs"
	"github.com/mrkexxx/tifo.vn/internal/lib/month"
	"github.com/mrkexxx/tifo.vn/internal/lib/sl"
	"github.com/mrkexxx/tifo.vn/internal/models"
	commission "github.com/mrkexxx/tifo.vn/internal/services/commission"
)

// OrderRepository определяет методы для работы с заказами в хранилище.
type OrderRepository interface {
	// CreateOrderWithCommission создает заказ и комиссию в одной транзакции.
	CreateOrderWithCommission(ctx context.Context, order models.Order, comm *models.Commission) (string, error)
	// GetOrder возвращает заказ по ID вместе со связанными данными.
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	// ListOrders возвращает список заказов по фильтру.
	ListOrders(ctx context.Context, filter models.OrderFilter) ([]*models.Order, error)
	// UpdateOrderStatus переводит заказ из статуса from в to.
	UpdateOrderStatus(ctx context.Context, id, from, to string) (int, error)
	// GetOrderStatus возвращает текущий статус оплаты заказа.
	GetOrderStatus(ctx context.Context, id string) (string, error)
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// GetPackage возвращает пакет по ID.
	GetPackage(ctx context.Context, id string) (*models.Package, error)
}

// RateCalculator вычисляет ставку комиссии продавца на момент заказа.
type RateCalculator interface {
	Percent(ctx context.Context, role, resellerUID string, at time.Time) (int, error)
}

// EventPublisher публикует доменные события в брокер сообщений.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// OrderService реализует бизнес-логику работы с заказами.
type OrderService struct {
	repo      OrderRepository
	rates     RateCalculator
	publisher EventPublisher
	log       *slog.Logger
}

// NewOrderService создает новый экземпляр OrderService.
func NewOrderService(repo OrderRepository, rates RateCalculator, publisher EventPublisher, log *slog.Logger) *OrderService {
	return &OrderService{
		repo:      repo,
		rates:     rates,
		publisher: publisher,
		log:       log,
	}
}

// Create оформляет заказ от имени инициатора. Продавец становится
// продавцом заказа, администратор оформляет прямую продажу без
// комиссии. Сумма заказа — снимок цены пакета, дата окончания
// считается прибавлением срока пакета в календарных месяцах.
func (s *OrderService) Create(ctx context.Context, actor models.Actor, req models.DummyOrder) (string, error) {
	if !models.PaymentMethods[req.PaymentMethod] {
		return "", fmt.Errorf("%w: unknown payment method %q", errs.ErrValidation, req.PaymentMethod)
	}
	if !actor.IsAdmin() && !actor.IsSeller() {
		return "", fmt.Errorf("%w: role %q cannot place orders", errs.ErrValidation, actor.Role)
	}

	pkg, err := s.repo.GetPackage(ctx, req.PackageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: package %s", errs.ErrNotFound, req.PackageID)
		}
		return "", err
	}
	if !pkg.IsActive {
		return "", fmt.Errorf("%w: package %s is not active", errs.ErrValidation, req.PackageID)
	}

	customer, err := s.repo.GetUser(ctx, req.CustomerUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: customer %s", errs.ErrNotFound, req.CustomerUID)
		}
		return "", err
	}
	if customer.Role != models.RoleCustomer {
		return "", fmt.Errorf("%w: user %s is not a customer", errs.ErrValidation, req.CustomerUID)
	}

	now := time.Now().UTC()
	order := models.Order{
		CustomerUID:    req.CustomerUID,
		PackageID:      req.PackageID,
		Amount:         pkg.Price,
		PaymentStatus:  models.OrderPending,
		PaymentMethod:  req.PaymentMethod,
		OrderDate:      now,
		ActivationDate: now,
		ExpiryDate:     month.Add(now, pkg.Duration),
	}
	if req.Notes != "" {
		order.Notes = &req.Notes
	}

	var comm *models.Commission
	if actor.IsSeller() {
		order.ResellerUID = &actor.UID
		percent, err := s.rates.Percent(ctx, actor.Role, actor.UID, now)
		if err != nil {
			return "", err
		}
		comm = &models.Commission{
			ResellerUID: actor.UID,
			Percent:     percent,
			Amount:      commission.Amount(pkg.Price, percent),
			Status:      models.CommissionPending,
		}
	}

	id, err := s.repo.CreateOrderWithCommission(ctx, order, comm)
	if err != nil {
		return "", err
	}

	s.log.Info("created new order",
		slog.String("id", id),
		slog.Int64("amount", order.Amount),
		slog.Bool("with_commission", comm != nil))
	return id, nil
}

// Get возвращает заказ по ID с учётом роли: продавец видит только свои
// заказы, клиент — только собственные, администратор — любые.
func (s *OrderService) Get(ctx context.Context, actor models.Actor, id string) (*models.Order, error) {
	item, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: order %s", errs.ErrNotFound, id)
		}
		return nil, err
	}
	if !s.canSee(actor, item) {
		// Чужой заказ неотличим от несуществующего
		return nil, fmt.Errorf("%w: order %s", errs.ErrNotFound, id)
	}
	return item, nil
}

// List возвращает заказы с учётом роли инициатора.
func (s *OrderService) List(ctx context.Context, actor models.Actor, filter models.OrderFilter) ([]*models.Order, error) {
	switch {
	case actor.IsAdmin():
	case actor.IsSeller():
		filter.ResellerUID = &actor.UID
	default:
		filter.CustomerUID = &actor.UID
	}
	return s.repo.ListOrders(ctx, filter)
}

// UpdateStatus переводит заказ в новый статус оплаты. Из pending заказ
// переходит в paid либо cancelled, оба статуса терминальные. При
// переходе в paid публикуется событие для уведомления клиента.
func (s *OrderService) UpdateStatus(ctx context.Context, id, newStatus string) error {
	if !models.IsOrderStatus(newStatus) {
		return fmt.Errorf("%w: unknown order status %q", errs.ErrValidation, newStatus)
	}

	current, err := s.repo.GetOrderStatus(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: order %s", errs.ErrNotFound, id)
		}
		return err
	}
	if !models.CanTransitOrder(current, newStatus) {
		return fmt.Errorf("%w: order %s -> %s", errs.ErrInvalidTransition, current, newStatus)
	}

	affected, err := s.repo.UpdateOrderStatus(ctx, id, current, newStatus)
	if err != nil {
		return err
	}
	if affected == 0 {
		// Статус изменился между чтением и обновлением
		return fmt.Errorf("%w: order %s", errs.ErrConflict, id)
	}

	s.log.Info("order status updated",
		slog.String("id", id),
		slog.String("from", current),
		slog.String("to", newStatus))

	if newStatus == models.OrderPaid {
		s.publishPaidEvent(ctx, id)
	}
	return nil
}

func (s *OrderService) canSee(actor models.Actor, item *models.Order) bool {
	switch {
	case actor.IsAdmin():
		return true
	case actor.IsSeller():
		return item.ResellerUID != nil && *item.ResellerUID == actor.UID
	default:
		return item.CustomerUID == actor.UID
	}
}

func (s *OrderService) publishPaidEvent(ctx context.Context, id string) {
	item, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		s.log.Warn("failed to load order for paid event", sl.Err(err))
		return
	}
	event := models.OrderPaidEvent{
		OrderID:       item.ID,
		CustomerEmail: item.Customer.Email,
		CustomerName:  item.Customer.Name,
		PackageName:   item.Package.Name,
		Amount:        item.Amount,
		ExpiryDate:    item.ExpiryDate,
	}
	if err := s.publisher.Publish("order.paid", event); err != nil {
		s.log.Warn("failed to publish order.paid event", sl.Err(err))
	}
}
