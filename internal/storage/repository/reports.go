package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/mrkexxx/tifo.vn/internal/models"
)

// DailyPaidRevenue возвращает выручку по оплаченным заказам, сгруппированную
// по календарным дням отчётной таймзоны, начиная с момента since.
// При ненулевом resellerUID выборка ограничивается заказами одного
// продавца. Дни без продаж в выборку не попадают, их дополняет сервис
// отчётов.
func (s *Storage) DailyPaidRevenue(ctx context.Context, resellerUID *string, since time.Time, tz string) ([]*models.DailyRevenue, error) {
	const op = "storage.DailyPaidRevenue"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT date_trunc('day', order_date AT TIME ZONE $1) AS day,
				  SUM(amount)
			  FROM orders
			  WHERE payment_status = 'paid'
			    AND order_date >= $2
			    AND ($3::uuid IS NULL OR reseller_uid = $3)
			  GROUP BY day
			  ORDER BY day`
	rows, err := s.DB.QueryContext(ctx, query, tz, since, resellerUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.DailyRevenue
	for rows.Next() {
		var item models.DailyRevenue
		if err := rows.Scan(&item.Date, &item.Revenue); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// MonthlyPaidRevenue возвращает число и сумму оплаченных заказов,
// сгруппированных по календарным месяцам даты заказа в отчётной
// таймзоне. При ненулевом resellerUID выборка ограничивается
// заказами одного продавца.
func (s *Storage) MonthlyPaidRevenue(ctx context.Context, resellerUID *string, tz string) ([]*models.MonthlyRevenue, error) {
	const op = "storage.MonthlyPaidRevenue"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT to_char(order_date AT TIME ZONE $1, 'YYYY-MM') AS month,
				  COUNT(*),
				  SUM(amount)
			  FROM orders
			  WHERE payment_status = 'paid'
			    AND ($2::uuid IS NULL OR reseller_uid = $2)
			  GROUP BY month
			  ORDER BY month DESC`
	rows, err := s.DB.QueryContext(ctx, query, tz, resellerUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.MonthlyRevenue
	for rows.Next() {
		var item models.MonthlyRevenue
		if err := rows.Scan(&item.Month, &item.Orders, &item.Revenue); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// TopResellers возвращает n продавцов с наибольшей суммой оплаченных заказов.
func (s *Storage) TopResellers(ctx context.Context, n int) ([]*models.ResellerTotal, error) {
	const op = "storage.TopResellers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT o.reseller_uid, r.name, SUM(o.amount) AS total
			  FROM orders o
			  JOIN users r ON o.reseller_uid = r.uid
			  WHERE o.payment_status = 'paid'
			    AND o.reseller_uid IS NOT NULL
			  GROUP BY o.reseller_uid, r.name
			  ORDER BY total DESC
			  LIMIT $1`
	rows, err := s.DB.QueryContext(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.ResellerTotal
	for rows.Next() {
		var item models.ResellerTotal
		if err := rows.Scan(&item.ResellerUID, &item.Name, &item.Total); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// SumResellerMonthRevenue возвращает сумму оплаченных заказов продавца
// за календарный месяц в формате YYYY-MM в отчётной таймзоне.
// Используется для определения ставки комиссии при создании заказа.
func (s *Storage) SumResellerMonthRevenue(ctx context.Context, resellerUID, month, tz string) (int64, error) {
	const op = "storage.SumResellerMonthRevenue"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COALESCE(SUM(amount), 0)
			  FROM orders
			  WHERE payment_status = 'paid'
			    AND reseller_uid = $1
			    AND to_char(order_date AT TIME ZONE $2, 'YYYY-MM') = $3`
	var total int64
	if err := s.DB.QueryRowContext(ctx, query, resellerUID, tz, month).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}

// RangePaidSummary возвращает итоги периода [from, to): число и сумму
// оплаченных заказов и сумму привязанных к ним комиссий.
func (s *Storage) RangePaidSummary(ctx context.Context, from, to time.Time) (*models.RangeSummary, error) {
	const op = "storage.RangePaidSummary"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(o.id),
				  COALESCE(SUM(o.amount), 0),
				  COALESCE(SUM(c.amount), 0)
			  FROM orders o
			  LEFT JOIN commissions c ON c.order_id = o.id
			  WHERE o.payment_status = 'paid'
			    AND o.order_date >= $1
			    AND o.order_date < $2`
	var item models.RangeSummary
	if err := s.DB.QueryRowContext(ctx, query, from, to).
		Scan(&item.Orders, &item.Revenue, &item.Commission); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &item, nil
}

// SumPaidRevenue возвращает суммарную выручку по всем оплаченным заказам.
func (s *Storage) SumPaidRevenue(ctx context.Context) (int64, error) {
	const op = "storage.SumPaidRevenue"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COALESCE(SUM(amount), 0) FROM orders WHERE payment_status = 'paid'`
	var total int64
	if err := s.DB.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}
