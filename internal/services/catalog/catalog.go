// Package services содержит бизнес-логику каталога пакетов
// и справочника клиентов, включая кеширование.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mrkexxx/tifo.vn/internal/lib/errs"
	"github.com/mrkexxx/tifo.vn/internal/models"
)

// CatalogRepository определяет методы для работы с пакетами и клиентами в хранилище.
type CatalogRepository interface {
	// CreatePackage добавляет новый пакет и возвращает его ID.
	CreatePackage(ctx context.Context, pkg models.Package) (string, error)
	// UpdatePackage обновляет пакет по ID.
	UpdatePackage(ctx context.Context, pkg models.Package, id string) (int, error)
	// GetPackage возвращает пакет по ID.
	GetPackage(ctx context.Context, id string) (*models.Package, error)
	// ListPackages возвращает список пакетов с пагинацией.
	ListPackages(ctx context.Context, onlyActive bool, limit, offset int) ([]*models.Package, error)
	// ListCustomers возвращает список клиентов с пагинацией.
	ListCustomers(ctx context.Context, limit, offset int) ([]*models.User, error)
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

// activeListKey — ключ кеша полного списка активных пакетов.
const activeListKey = "packages:active"

// activeListCap — верхняя граница размера кешируемого списка активных
// пакетов. Каталог на порядки меньше, граница только защищает кеш.
const activeListCap = 500

// CatalogService реализует бизнес-логику каталога пакетов.
type CatalogService struct {
	repo  CatalogRepository
	cache Cache
	log   *slog.Logger
}

// NewCatalogService создает новый экземпляр CatalogService.
func NewCatalogService(repo CatalogRepository, cache Cache, log *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// CreatePackage добавляет новый пакет и инвалидирует кеш списка.
func (s *CatalogService) CreatePackage(ctx context.Context, req models.DummyPackage) (string, error) {
	pkg := models.Package{
		Name:     req.Name,
		Duration: req.Duration,
		Price:    req.Price,
		IsActive: true,
	}
	if req.Description != "" {
		pkg.Description = &req.Description
	}
	if req.IsActive != nil {
		pkg.IsActive = *req.IsActive
	}

	id, err := s.repo.CreatePackage(ctx, pkg)
	if err != nil {
		return "", err
	}
	s.log.Info("created new package", slog.String("id", id))

	if err := s.cache.Invalidate(activeListKey); err != nil {
		s.log.Warn("failed to invalidate package cache", slog.Any("err", err))
	}
	return id, nil
}

// UpdatePackage обновляет пакет по ID и инвалидирует кеш списка.
// Цена в уже оформленных заказах не пересчитывается.
func (s *CatalogService) UpdatePackage(ctx context.Context, id string, req models.DummyPackage) error {
	pkg := models.Package{
		Name:     req.Name,
		Duration: req.Duration,
		Price:    req.Price,
		IsActive: true,
	}
	if req.Description != "" {
		pkg.Description = &req.Description
	}
	if req.IsActive != nil {
		pkg.IsActive = *req.IsActive
	}

	affected, err := s.repo.UpdatePackage(ctx, pkg, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: package %s", errs.ErrNotFound, id)
	}
	s.log.Info("updated package", slog.String("id", id))

	if err := s.cache.Invalidate(activeListKey); err != nil {
		s.log.Warn("failed to invalidate package cache", slog.Any("err", err))
	}
	return nil
}

// GetPackage возвращает пакет по ID.
func (s *CatalogService) GetPackage(ctx context.Context, id string) (*models.Package, error) {
	item, err := s.repo.GetPackage(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: package %s", errs.ErrNotFound, id)
		}
		return nil, err
	}
	return item, nil
}

// ListPackages возвращает список пакетов. Администратор видит все
// пакеты, остальные роли — только активные. Список активных пакетов
// кешируется целиком, страница нарезается из кеша, поэтому размер
// страницы запроса на содержимое кеша не влияет.
func (s *CatalogService) ListPackages(ctx context.Context, actor models.Actor, limit, offset int) ([]*models.Package, error) {
	if actor.IsAdmin() {
		return s.repo.ListPackages(ctx, false, limit, offset)
	}

	var active []*models.Package
	found, err := s.cache.Get(activeListKey, &active)
	if err != nil {
		s.log.Warn("failed to read package cache", slog.Any("err", err))
	}
	if !found {
		active, err = s.repo.ListPackages(ctx, true, activeListCap, 0)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(activeListKey, active, time.Hour); err != nil {
			s.log.Warn("failed to cache packages", slog.Any("err", err))
		}
	}

	if offset >= len(active) {
		return []*models.Package{}, nil
	}
	end := offset + limit
	if end > len(active) {
		end = len(active)
	}
	return active[offset:end], nil
}

// ListCustomers возвращает список клиентов с пагинацией.
func (s *CatalogService) ListCustomers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	return s.repo.ListCustomers(ctx, limit, offset)
}
