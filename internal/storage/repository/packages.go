package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mrkexxx/tifo.vn/internal/models"
)

// CreatePackage вставляет новый пакет и возвращает его ID.
func (s *Storage) CreatePackage(ctx context.Context, pkg models.Package) (string, error) {
	const op = "storage.CreatePackage"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO packages (name, duration_months, price, description, is_active)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		pkg.Name, pkg.Duration, pkg.Price, pkg.Description, pkg.IsActive).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// UpdatePackage обновляет пакет по его ID и возвращает количество изменённых строк.
func (s *Storage) UpdatePackage(ctx context.Context, pkg models.Package, id string) (int, error) {
	const op = "storage.UpdatePackage"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE packages
			  SET name = $1, duration_months = $2, price = $3, description = $4, is_active = $5
			  WHERE id = $6`
	result, err := s.DB.ExecContext(ctx, query,
		pkg.Name, pkg.Duration, pkg.Price, pkg.Description, pkg.IsActive, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// GetPackage возвращает пакет по его ID.
func (s *Storage) GetPackage(ctx context.Context, id string) (*models.Package, error) {
	const op = "storage.GetPackage"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, duration_months, price, description, is_active, created_at
			  FROM packages
			  WHERE id = $1`
	p := &models.Package{}
	row := s.DB.QueryRowContext(ctx, query, id)

	var description sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &p.Duration, &p.Price,
		&description, &p.IsActive, &p.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if description.Valid {
		p.Description = &description.String
	}
	return p, nil
}

// ListPackages возвращает список пакетов с пагинацией.
// При onlyActive = true выбираются только доступные для продажи пакеты.
func (s *Storage) ListPackages(ctx context.Context, onlyActive bool, limit, offset int) ([]*models.Package, error) {
	const op = "storage.ListPackages"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, duration_months, price, description, is_active, created_at
			  FROM packages
			  WHERE (NOT $1 OR is_active)
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, onlyActive, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Package
	for rows.Next() {
		var p models.Package
		var description sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &p.Duration, &p.Price,
			&description, &p.IsActive, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if description.Valid {
			p.Description = &description.String
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
