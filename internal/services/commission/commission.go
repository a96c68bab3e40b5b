// Package services содержит бизнес-логику учёта комиссионных записей:
// выборку с учётом роли, переходы статусов и публикацию событий выплат.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mrkexxx/tifo.vn/internal/lib/errs"
	"github.com/mrkexxx/tifo.vn/internal/lib/sl"
	"github.com/mrkexxx/tifo.vn/internal/models"
)

// CommissionRepository определяет методы для работы с комиссиями в хранилище.
type CommissionRepository interface {
	// GetCommission возвращает комиссию по ID вместе с данными продавца.
	GetCommission(ctx context.Context, id string) (*models.Commission, error)
	// ListCommissions возвращает список комиссий по фильтру.
	ListCommissions(ctx context.Context, filter models.CommissionFilter) ([]*models.Commission, error)
	// UpdateCommissionStatus переводит комиссию из статуса from в to.
	UpdateCommissionStatus(ctx context.Context, id, from, to string, paidAt *time.Time) (int, error)
	// GetCommissionStatus возвращает текущий статус комиссии.
	GetCommissionStatus(ctx context.Context, id string) (string, error)
}

// EventPublisher публикует доменные события в брокер сообщений.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// CommissionService реализует бизнес-логику работы с комиссиями.
type CommissionService struct {
	repo      CommissionRepository
	publisher EventPublisher
	log       *slog.Logger
}

// NewCommissionService создает новый экземпляр CommissionService.
func NewCommissionService(repo CommissionRepository, publisher EventPublisher, log *slog.Logger) *CommissionService {
	return &CommissionService{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// List возвращает комиссии с учётом роли инициатора: продавец видит
// только свои записи, администратор — все.
func (s *CommissionService) List(ctx context.Context, actor models.Actor, filter models.CommissionFilter) ([]*models.Commission, error) {
	if !actor.IsAdmin() {
		filter.ResellerUID = &actor.UID
	}
	return s.repo.ListCommissions(ctx, filter)
}

// UpdateStatus переводит комиссию в новый статус. Допустимы только
// последовательные переходы pending -> approved -> paid; при переходе
// в paid фиксируется момент выплаты и публикуется событие.
func (s *CommissionService) UpdateStatus(ctx context.Context, id, newStatus string) error {
	if !models.IsCommissionStatus(newStatus) {
		return fmt.Errorf("%w: unknown commission status %q", errs.ErrValidation, newStatus)
	}

	current, err := s.repo.GetCommissionStatus(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: commission %s", errs.ErrNotFound, id)
		}
		return err
	}
	if !models.CanTransitCommission(current, newStatus) {
		return fmt.Errorf("%w: commission %s -> %s", errs.ErrInvalidTransition, current, newStatus)
	}

	var paidAt *time.Time
	if newStatus == models.CommissionPaid {
		now := time.Now().UTC()
		paidAt = &now
	}

	affected, err := s.repo.UpdateCommissionStatus(ctx, id, current, newStatus, paidAt)
	if err != nil {
		return err
	}
	if affected == 0 {
		// Статус изменился между чтением и обновлением
		return fmt.Errorf("%w: commission %s", errs.ErrConflict, id)
	}

	s.log.Info("commission status updated",
		slog.String("id", id),
		slog.String("from", current),
		slog.String("to", newStatus))

	if newStatus == models.CommissionPaid {
		s.publishPaidEvent(ctx, id)
	}
	return nil
}

func (s *CommissionService) publishPaidEvent(ctx context.Context, id string) {
	item, err := s.repo.GetCommission(ctx, id)
	if err != nil {
		s.log.Warn("failed to load commission for paid event", sl.Err(err))
		return
	}
	event := models.CommissionPaidEvent{
		CommissionID:  item.ID,
		ResellerEmail: item.Reseller.Email,
		ResellerName:  item.Reseller.Name,
		Percent:       item.Percent,
		Amount:        item.Amount,
	}
	if err := s.publisher.Publish("commission.paid", event); err != nil {
		s.log.Warn("failed to publish commission.paid event", sl.Err(err))
	}
}
