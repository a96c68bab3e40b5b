package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mrkexxx/tifo.vn/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreatePackage(ctx context.Context, pkg models.Package) (string, error) {
	args := m.Called(ctx, pkg)
	return args.String(0), args.Error(1)
}
func (m *RepoMock) UpdatePackage(ctx context.Context, pkg models.Package, id string) (int, error) {
	args := m.Called(ctx, pkg, id)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) GetPackage(ctx context.Context, id string) (*models.Package, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Package), args.Error(1)
}
func (m *RepoMock) ListPackages(ctx context.Context, onlyActive bool, limit, offset int) ([]*models.Package, error) {
	args := m.Called(ctx, onlyActive, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Package), args.Error(1)
}
func (m *RepoMock) ListCustomers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func activePackages(n int) []*models.Package {
	result := make([]*models.Package, 0, n)
	for i := 0; i < n; i++ {
		result = append(result, &models.Package{
			ID:       string(rune('a' + i)),
			Name:     "Goi " + string(rune('A'+i)),
			Duration: 1,
			Price:    1_000_000,
			IsActive: true,
		})
	}
	return result
}

func TestCatalogService_ListPackages(t *testing.T) {
	seller := models.Actor{UID: "res-1", Role: models.RoleReseller}
	admin := models.Actor{UID: "adm-1", Role: models.RoleAdmin}

	t.Run("cache miss loads full active list and slices page", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewCatalogService(repo, cache, newNoopLogger())

		full := activePackages(5)
		cache.On("Get", activeListKey, mock.Anything).Return(false, nil).Once()
		repo.On("ListPackages", mock.Anything, true, activeListCap, 0).Return(full, nil).Once()
		cache.On("Set", activeListKey, full, time.Hour).Return(nil).Once()

		got, err := svc.ListPackages(context.Background(), seller, 3, 0)

		require.NoError(t, err)
		assert.Equal(t, full[:3], got)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("larger page after smaller one is served fully from cache", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewCatalogService(repo, cache, newNoopLogger())

		full := activePackages(5)
		cache.On("Get", activeListKey, mock.Anything).Return(true, nil).
			Run(func(args mock.Arguments) {
				*args.Get(1).(*[]*models.Package) = full
			}).Twice()

		small, err := svc.ListPackages(context.Background(), seller, 2, 0)
		require.NoError(t, err)
		require.Len(t, small, 2)

		// Страница большего размера не должна получить урезанный список
		large, err := svc.ListPackages(context.Background(), seller, 5, 0)
		require.NoError(t, err)
		assert.Equal(t, full, large)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("offset beyond cached list returns empty page", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewCatalogService(repo, cache, newNoopLogger())

		cache.On("Get", activeListKey, mock.Anything).Return(true, nil).
			Run(func(args mock.Arguments) {
				*args.Get(1).(*[]*models.Package) = activePackages(2)
			}).Once()

		got, err := svc.ListPackages(context.Background(), seller, 10, 5)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("admin bypasses cache and sees inactive packages", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewCatalogService(repo, cache, newNoopLogger())

		all := activePackages(2)
		all[1].IsActive = false
		repo.On("ListPackages", mock.Anything, false, 20, 0).Return(all, nil).Once()

		got, err := svc.ListPackages(context.Background(), admin, 20, 0)
		require.NoError(t, err)
		assert.Equal(t, all, got)
		repo.AssertExpectations(t)
		cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})
}
