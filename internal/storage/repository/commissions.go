package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mrkexxx/tifo.vn/internal/models"
)

// GetCommission возвращает комиссионную запись по её ID вместе
// с данными продавца.
func (s *Storage) GetCommission(ctx context.Context, id string) (*models.Commission, error) {
	const op = "storage.GetCommission"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT cm.id, cm.order_id, cm.reseller_uid, cm.percent, cm.amount,
				  cm.status, cm.paid_at, cm.created_at,
				  r.name, r.email
			  FROM commissions cm
			  JOIN users r ON cm.reseller_uid = r.uid
			  WHERE cm.id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	item, err := scanCommissionRow(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return item, nil
}

// ListCommissions возвращает список комиссий с учётом фильтров и пагинацией.
// Пустые поля фильтра не ограничивают выборку.
func (s *Storage) ListCommissions(ctx context.Context, filter models.CommissionFilter) ([]*models.Commission, error) {
	const op = "storage.ListCommissions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT cm.id, cm.order_id, cm.reseller_uid, cm.percent, cm.amount,
				  cm.status, cm.paid_at, cm.created_at,
				  r.name, r.email
			  FROM commissions cm
			  JOIN users r ON cm.reseller_uid = r.uid
			  WHERE ($1::uuid IS NULL OR cm.reseller_uid = $1)
			    AND ($2::text IS NULL OR cm.status = $2)
			  ORDER BY cm.created_at DESC
			  LIMIT $3 OFFSET $4`
	rows, err := s.DB.QueryContext(ctx, query,
		filter.ResellerUID, filter.Status, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Commission
	for rows.Next() {
		item, err := scanCommissionRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateCommissionStatus переводит комиссию из статуса from в статус to
// и возвращает количество изменённых строк. Момент выплаты paidAt
// записывается только при переходе в paid, иначе передаётся nil.
func (s *Storage) UpdateCommissionStatus(ctx context.Context, id, from, to string, paidAt *time.Time) (int, error) {
	const op = "storage.UpdateCommissionStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE commissions
			  SET status = $1, paid_at = COALESCE($2, paid_at)
			  WHERE id = $3 AND status = $4`
	result, err := s.DB.ExecContext(ctx, query, to, paidAt, id, from)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// GetCommissionStatus возвращает текущий статус комиссионной записи.
func (s *Storage) GetCommissionStatus(ctx context.Context, id string) (string, error) {
	const op = "storage.GetCommissionStatus"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT status FROM commissions WHERE id = $1`
	var status string
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&status); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return status, nil
}

// SumPendingCommissions возвращает суммарный объём комиссий в статусе pending.
func (s *Storage) SumPendingCommissions(ctx context.Context) (int64, error) {
	const op = "storage.SumPendingCommissions"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COALESCE(SUM(amount), 0) FROM commissions WHERE status = 'pending'`
	var total int64
	if err := s.DB.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}

// scanCommissionRow читает строку join-запроса комиссии и собирает
// модель вместе со связанным продавцом.
func scanCommissionRow(scan func(dest ...any) error) (*models.Commission, error) {
	var item models.Commission
	var paidAt sql.NullTime
	reseller := models.User{}

	if err := scan(&item.ID, &item.OrderID, &item.ResellerUID, &item.Percent, &item.Amount,
		&item.Status, &paidAt, &item.CreatedAt,
		&reseller.Name, &reseller.Email); err != nil {
		return nil, err
	}

	if paidAt.Valid {
		item.PaidAt = &paidAt.Time
	}
	reseller.UID = item.ResellerUID
	item.Reseller = &reseller
	return &item, nil
}
