package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mrkexxx/tifo.vn/internal/models"
)

// CreateOrderWithCommission вставляет заказ и, если передана комиссия,
// комиссионную запись в одной транзакции. Либо создаются обе строки,
// либо ни одной. Возвращает ID нового заказа.
func (s *Storage) CreateOrderWithCommission(ctx context.Context,
	order models.Order, commission *models.Commission) (string, error) {
	const op = "storage.CreateOrderWithCommission"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	queryOrder := `INSERT INTO orders (customer_uid, package_id, reseller_uid, amount,
				       payment_status, payment_method, order_date, activation_date,
				       expiry_date, notes)
				   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
				   RETURNING id`
	var orderID string
	err = tx.QueryRowContext(ctx, queryOrder,
		order.CustomerUID, order.PackageID, order.ResellerUID, order.Amount,
		order.PaymentStatus, order.PaymentMethod, order.OrderDate, order.ActivationDate,
		order.ExpiryDate, order.Notes).Scan(&orderID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if commission != nil {
		queryCommission := `INSERT INTO commissions (order_id, reseller_uid, percent, amount, status)
							VALUES ($1, $2, $3, $4, $5)`
		_, err = tx.ExecContext(ctx, queryCommission,
			orderID, commission.ResellerUID, commission.Percent, commission.Amount,
			commission.Status)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return orderID, nil
}

// GetOrder возвращает заказ по его ID вместе с данными клиента,
// пакета и продавца.
func (s *Storage) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	const op = "storage.GetOrder"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT o.id, o.customer_uid, o.package_id, o.reseller_uid, o.amount,
				  o.payment_status, o.payment_method, o.order_date, o.activation_date,
				  o.expiry_date, o.notes, o.created_at,
				  c.name, c.email, c.phone,
				  p.name, p.duration_months, p.price,
				  r.name, r.email
			  FROM orders o
			  JOIN users c ON o.customer_uid = c.uid
			  JOIN packages p ON o.package_id = p.id
			  LEFT JOIN users r ON o.reseller_uid = r.uid
			  WHERE o.id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	item, err := scanOrderRow(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return item, nil
}

// ListOrders возвращает список заказов с учётом фильтров и пагинацией.
// Пустые поля фильтра не ограничивают выборку.
func (s *Storage) ListOrders(ctx context.Context, filter models.OrderFilter) ([]*models.Order, error) {
	const op = "storage.ListOrders"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT o.id, o.customer_uid, o.package_id, o.reseller_uid, o.amount,
				  o.payment_status, o.payment_method, o.order_date, o.activation_date,
				  o.expiry_date, o.notes, o.created_at,
				  c.name, c.email, c.phone,
				  p.name, p.duration_months, p.price,
				  r.name, r.email
			  FROM orders o
			  JOIN users c ON o.customer_uid = c.uid
			  JOIN packages p ON o.package_id = p.id
			  LEFT JOIN users r ON o.reseller_uid = r.uid
			  WHERE ($1::uuid IS NULL OR o.reseller_uid = $1)
			    AND ($2::uuid IS NULL OR o.customer_uid = $2)
			    AND ($3::text IS NULL OR o.payment_status = $3)
			  ORDER BY o.order_date DESC
			  LIMIT $4 OFFSET $5`
	rows, err := s.DB.QueryContext(ctx, query,
		filter.ResellerUID, filter.CustomerUID, filter.Status, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Order
	for rows.Next() {
		item, err := scanOrderRow(rows.Scan)
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

// UpdateOrderStatus переводит заказ из статуса from в статус to
// и возвращает количество изменённых строк. Ноль строк означает,
// что заказ отсутствует либо его текущий статус не равен from.
func (s *Storage) UpdateOrderStatus(ctx context.Context, id, from, to string) (int, error) {
	const op = "storage.UpdateOrderStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE orders
			  SET payment_status = $1
			  WHERE id = $2 AND payment_status = $3`
	result, err := s.DB.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// GetOrderStatus возвращает текущий статус оплаты заказа.
func (s *Storage) GetOrderStatus(ctx context.Context, id string) (string, error) {
	const op = "storage.GetOrderStatus"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT payment_status FROM orders WHERE id = $1`
	var status string
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&status); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return status, nil
}

// CountOrders возвращает общее количество заказов в любом статусе.
func (s *Storage) CountOrders(ctx context.Context) (int, error) {
	const op = "storage.CountOrders"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*) FROM orders`
	var total int
	if err := s.DB.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}

// scanOrderRow читает строку join-запроса заказа и собирает модель
// вместе со связанными клиентом, пакетом и продавцом.
func scanOrderRow(scan func(dest ...any) error) (*models.Order, error) {
	var item models.Order
	var resellerUID, notes, customerPhone sql.NullString
	var resellerName, resellerEmail sql.NullString
	customer := models.User{}
	pkg := models.Package{}

	if err := scan(&item.ID, &item.CustomerUID, &item.PackageID, &resellerUID, &item.Amount,
		&item.PaymentStatus, &item.PaymentMethod, &item.OrderDate, &item.ActivationDate,
		&item.ExpiryDate, &notes, &item.CreatedAt,
		&customer.Name, &customer.Email, &customerPhone,
		&pkg.Name, &pkg.Duration, &pkg.Price,
		&resellerName, &resellerEmail); err != nil {
		return nil, err
	}

	if resellerUID.Valid {
		item.ResellerUID = &resellerUID.String
	}
	if notes.Valid {
		item.Notes = &notes.String
	}
	if customerPhone.Valid {
		customer.Phone = &customerPhone.String
	}
	customer.UID = item.CustomerUID
	pkg.ID = item.PackageID
	item.Customer = &customer
	item.Package = &pkg

	if resellerName.Valid {
		item.Reseller = &models.User{
			UID:   resellerUID.String,
			Name:  resellerName.String,
			Email: resellerEmail.String,
		}
	}
	return &item, nil
}
