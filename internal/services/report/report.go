// Package services содержит бизнес-логику отчётов по выручке:
// дневные и месячные агрегаты, рейтинг продавцов и сводку для панели
// администратора, с кешированием результатов.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mrkexxx/tifo.vn/internal/lib/errs"
	"github.com/mrkexxx/tifo.vn/internal/lib/tier"
	"github.com/mrkexxx/tifo.vn/internal/models"
	commission "github.com/mrkexxx/tifo.vn/internal/services/commission"
)

// ReportRepository определяет методы агрегирующих выборок в хранилище.
type ReportRepository interface {
	// DailyPaidRevenue возвращает выручку по дням начиная с since,
	// при ненулевом resellerUID только по заказам одного продавца.
	DailyPaidRevenue(ctx context.Context, resellerUID *string, since time.Time, tz string) ([]*models.DailyRevenue, error)
	// MonthlyPaidRevenue возвращает помесячные агрегаты оплаченных заказов.
	MonthlyPaidRevenue(ctx context.Context, resellerUID *string, tz string) ([]*models.MonthlyRevenue, error)
	// TopResellers возвращает n продавцов с наибольшей выручкой.
	TopResellers(ctx context.Context, n int) ([]*models.ResellerTotal, error)
	// RangePaidSummary возвращает итоги периода [from, to).
	RangePaidSummary(ctx context.Context, from, to time.Time) (*models.RangeSummary, error)
	// SumPaidRevenue возвращает суммарную оплаченную выручку.
	SumPaidRevenue(ctx context.Context) (int64, error)
	// CountOrders возвращает общее количество заказов.
	CountOrders(ctx context.Context) (int, error)
	// CountUsers возвращает общее количество пользователей.
	CountUsers(ctx context.Context) (int, error)
	// SumPendingCommissions возвращает сумму комиссий в статусе pending.
	SumPendingCommissions(ctx context.Context) (int64, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// cacheTTL — время жизни кешированных отчётов.
const cacheTTL = 5 * time.Minute

// ReportService реализует бизнес-логику отчётов по выручке.
type ReportService struct {
	repo  ReportRepository
	cache Cache
	loc   *time.Location
	tz    string
	log   *slog.Logger
}

// NewReportService создает новый экземпляр ReportService для отчётной таймзоны tz.
func NewReportService(repo ReportRepository, cache Cache, tz string, log *slog.Logger) (*ReportService, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid report timezone %q: %w", tz, err)
	}
	return &ReportService{
		repo:  repo,
		cache: cache,
		loc:   loc,
		tz:    tz,
		log:   log,
	}, nil
}

// Daily возвращает выручку за последние days календарных дней отчётной
// таймзоны, включая сегодняшний. Продавец видит только свой оборот,
// администратор — общий. Дни без продаж возвращаются с нулевой выручкой.
func (s *ReportService) Daily(ctx context.Context, actor models.Actor, days int) ([]*models.DailyRevenue, error) {
	var resellerUID *string
	if !actor.IsAdmin() {
		resellerUID = &actor.UID
	}

	now := time.Now().In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	since := today.AddDate(0, 0, -(days - 1))

	rows, err := s.repo.DailyPaidRevenue(ctx, resellerUID, since, s.tz)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]int64, len(rows))
	for _, row := range rows {
		byDay[row.Date.Format("2006-01-02")] = row.Revenue
	}

	result := make([]*models.DailyRevenue, 0, days)
	for i := range days {
		day := since.AddDate(0, 0, i)
		result = append(result, &models.DailyRevenue{
			Date:    day,
			Revenue: byDay[day.Format("2006-01-02")],
		})
	}
	return result, nil
}

// Monthly возвращает помесячные агрегаты оплаченных заказов. Продавец
// видит только свой оборот, администратор — общий. Ставка и комиссия
// в строках справочные и считаются по месячному обороту.
func (s *ReportService) Monthly(ctx context.Context, actor models.Actor) ([]*models.MonthlyRevenue, error) {
	var resellerUID *string
	if !actor.IsAdmin() {
		resellerUID = &actor.UID
	}

	rows, err := s.repo.MonthlyPaidRevenue(ctx, resellerUID, s.tz)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		row.Percent = tier.Rate(row.Revenue)
		row.Commission = commission.Amount(row.Revenue, row.Percent)
	}
	return rows, nil
}

// Top возвращает n продавцов с наибольшей оплаченной выручкой.
// Результат кешируется, сбой кеша выборку не прерывает.
func (s *ReportService) Top(ctx context.Context, n int) ([]*models.ResellerTotal, error) {
	cacheKey := fmt.Sprintf("report:top:%d", n)
	var cached []*models.ResellerTotal
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read report cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return cached, nil
	}

	result, err := s.repo.TopResellers(ctx, n)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, result, cacheTTL); err != nil {
		s.log.Warn("failed to cache report", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// Range возвращает итоги произвольного периода: число и сумму
// оплаченных заказов и сумму комиссий по ним. Границы трактуются как
// календарные дни отчётной таймзоны, обе включительно.
func (s *ReportService) Range(ctx context.Context, from, to time.Time) (*models.RangeSummary, error) {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, s.loc)
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, s.loc).AddDate(0, 0, 1)
	if !end.After(start) {
		return nil, fmt.Errorf("%w: report period is empty", errs.ErrValidation)
	}

	result, err := s.repo.RangePaidSummary(ctx, start, end)
	if err != nil {
		return nil, err
	}
	result.From = start
	result.To = end.AddDate(0, 0, -1)
	return result, nil
}

// Overview возвращает сводные показатели для панели администратора.
func (s *ReportService) Overview(ctx context.Context) (*models.Overview, error) {
	revenue, err := s.repo.SumPaidRevenue(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.repo.CountOrders(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.repo.SumPendingCommissions(ctx)
	if err != nil {
		return nil, err
	}
	return &models.Overview{
		TotalRevenue:       revenue,
		TotalOrders:        orders,
		TotalUsers:         users,
		PendingCommissions: pending,
	}, nil
}
