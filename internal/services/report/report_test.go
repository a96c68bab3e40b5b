package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mrkexxx/tifo.vn/internal/lib/errs"
	"github.com/mrkexxx/tifo.vn/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) DailyPaidRevenue(ctx context.Context, resellerUID *string, since time.Time, tz string) ([]*models.DailyRevenue, error) {
	args := m.Called(ctx, resellerUID, since, tz)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.DailyRevenue), args.Error(1)
}
func (m *RepoMock) MonthlyPaidRevenue(ctx context.Context, resellerUID *string, tz string) ([]*models.MonthlyRevenue, error) {
	args := m.Called(ctx, resellerUID, tz)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MonthlyRevenue), args.Error(1)
}
func (m *RepoMock) TopResellers(ctx context.Context, n int) ([]*models.ResellerTotal, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ResellerTotal), args.Error(1)
}
func (m *RepoMock) SumPaidRevenue(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *RepoMock) CountOrders(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) CountUsers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) SumPendingCommissions(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *RepoMock) RangePaidSummary(ctx context.Context, from, to time.Time) (*models.RangeSummary, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RangeSummary), args.Error(1)
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

func newService(t *testing.T, repo *RepoMock, cache *CacheMock) *ReportService {
	svc, err := NewReportService(repo, cache, "UTC", newNoopLogger())
	require.NoError(t, err)
	return svc
}

func TestReportService_Daily(t *testing.T) {
	resellerUID := "res-1"

	tests := []struct {
		name            string
		actor           models.Actor
		wantResellerUID *string
	}{
		{
			name:            "admin sees overall revenue",
			actor:           models.Actor{UID: "adm-1", Role: models.RoleAdmin},
			wantResellerUID: nil,
		},
		{
			name:            "reseller is scoped to own revenue",
			actor:           models.Actor{UID: resellerUID, Role: models.RoleReseller},
			wantResellerUID: &resellerUID,
		},
		{
			name:            "ctv is scoped to own revenue",
			actor:           models.Actor{UID: resellerUID, Role: models.RoleCTV},
			wantResellerUID: &resellerUID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := newService(t, repo, new(CacheMock))

			now := time.Now().UTC()
			today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
			since := today.AddDate(0, 0, -6)

			// Продажи только в два из семи дней
			repo.On("DailyPaidRevenue", mock.Anything, tt.wantResellerUID, since, "UTC").
				Return([]*models.DailyRevenue{
					{Date: since, Revenue: 1_000_000},
					{Date: today, Revenue: 3_000_000},
				}, nil).Once()

			got, err := svc.Daily(context.Background(), tt.actor, 7)

			require.NoError(t, err)
			require.Len(t, got, 7)
			assert.Equal(t, since, got[0].Date)
			assert.Equal(t, int64(1_000_000), got[0].Revenue)
			for i := 1; i < 6; i++ {
				assert.Equal(t, int64(0), got[i].Revenue)
			}
			assert.Equal(t, today, got[6].Date)
			assert.Equal(t, int64(3_000_000), got[6].Revenue)
			repo.AssertExpectations(t)
		})
	}
}

func TestReportService_Range(t *testing.T) {
	t.Run("period bounds are inclusive calendar days", func(t *testing.T) {
		repo := new(RepoMock)
		svc := newService(t, repo, new(CacheMock))

		start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
		repo.On("RangePaidSummary", mock.Anything, start, end).
			Return(&models.RangeSummary{Orders: 5, Revenue: 10_000_000, Commission: 1_500_000}, nil).Once()

		got, err := svc.Range(context.Background(),
			time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC),
			time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC))

		require.NoError(t, err)
		assert.Equal(t, start, got.From)
		assert.Equal(t, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), got.To)
		assert.Equal(t, 5, got.Orders)
		assert.Equal(t, int64(10_000_000), got.Revenue)
		assert.Equal(t, int64(1_500_000), got.Commission)
		repo.AssertExpectations(t)
	})

	t.Run("inverted period is rejected", func(t *testing.T) {
		repo := new(RepoMock)
		svc := newService(t, repo, new(CacheMock))

		_, err := svc.Range(context.Background(),
			time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

		assert.ErrorIs(t, err, errs.ErrValidation)
		repo.AssertExpectations(t)
	})
}

func TestReportService_Monthly(t *testing.T) {
	resellerUID := "res-1"

	tests := []struct {
		name            string
		actor           models.Actor
		wantResellerUID *string
	}{
		{
			name:            "admin sees overall revenue",
			actor:           models.Actor{UID: "adm-1", Role: models.RoleAdmin},
			wantResellerUID: nil,
		},
		{
			name:            "seller is scoped to own revenue",
			actor:           models.Actor{UID: resellerUID, Role: models.RoleReseller},
			wantResellerUID: &resellerUID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := newService(t, repo, new(CacheMock))

			repo.On("MonthlyPaidRevenue", mock.Anything, tt.wantResellerUID, "UTC").
				Return([]*models.MonthlyRevenue{
					{Month: "2025-06", Orders: 12, Revenue: 25_000_000},
					{Month: "2025-05", Orders: 3, Revenue: 6_000_000},
				}, nil).Once()

			got, err := svc.Monthly(context.Background(), tt.actor)

			require.NoError(t, err)
			require.Len(t, got, 2)
			// Ставка считается по месячному обороту
			assert.Equal(t, 15, got[0].Percent)
			assert.Equal(t, int64(3_750_000), got[0].Commission)
			assert.Equal(t, 10, got[1].Percent)
			assert.Equal(t, int64(600_000), got[1].Commission)
			repo.AssertExpectations(t)
		})
	}
}

func TestReportService_Top(t *testing.T) {
	top := []*models.ResellerTotal{
		{ResellerUID: "res-1", Name: "Tran Thi B", Total: 50_000_000},
	}

	t.Run("cache miss fetches and caches", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := newService(t, repo, cache)

		cache.On("Get", "report:top:5", mock.Anything).Return(false, nil).Once()
		repo.On("TopResellers", mock.Anything, 5).Return(top, nil).Once()
		cache.On("Set", "report:top:5", mock.Anything, cacheTTL).Return(nil).Once()

		got, err := svc.Top(context.Background(), 5)
		require.NoError(t, err)
		assert.Equal(t, top, got)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("cache failure falls back to repository", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := newService(t, repo, cache)

		cache.On("Get", "report:top:5", mock.Anything).Return(false, errors.New("redis down")).Once()
		repo.On("TopResellers", mock.Anything, 5).Return(top, nil).Once()
		cache.On("Set", "report:top:5", mock.Anything, cacheTTL).Return(errors.New("redis down")).Once()

		got, err := svc.Top(context.Background(), 5)
		require.NoError(t, err)
		assert.Equal(t, top, got)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})
}

func TestReportService_Overview(t *testing.T) {
	repo := new(RepoMock)
	svc := newService(t, repo, new(CacheMock))

	repo.On("SumPaidRevenue", mock.Anything).Return(int64(120_000_000), nil).Once()
	repo.On("CountOrders", mock.Anything).Return(42, nil).Once()
	repo.On("CountUsers", mock.Anything).Return(17, nil).Once()
	repo.On("SumPendingCommissions", mock.Anything).Return(int64(4_500_000), nil).Once()

	got, err := svc.Overview(context.Background())

	require.NoError(t, err)
	assert.Equal(t, &models.Overview{
		TotalRevenue:       120_000_000,
		TotalOrders:        42,
		TotalUsers:         17,
		PendingCommissions: 4_500_000,
	}, got)
	repo.AssertExpectations(t)
}
