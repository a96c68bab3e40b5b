package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mrkexxx/tifo.vn/internal/lib/errs"
	"github.com/mrkexxx/tifo.vn/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateOrderWithCommission(ctx context.Context, order models.Order, comm *models.Commission) (string, error) {
	args := m.Called(ctx, order, comm)
	return args.String(0), args.Error(1)
}
func (m *RepoMock) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}
func (m *RepoMock) ListOrders(ctx context.Context, filter models.OrderFilter) ([]*models.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}
func (m *RepoMock) UpdateOrderStatus(ctx context.Context, id, from, to string) (int, error) {
	args := m.Called(ctx, id, from, to)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) GetOrderStatus(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}
func (m *RepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *RepoMock) GetPackage(ctx context.Context, id string) (*models.Package, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Package), args.Error(1)
}

type RatesMock struct{ mock.Mock }

func (m *RatesMock) Percent(ctx context.Context, role, resellerUID string, at time.Time) (int, error) {
	args := m.Called(ctx, role, resellerUID, at)
	return args.Int(0), args.Error(1)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(routingKey string, message any) error {
	return m.Called(routingKey, message).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestOrderService_Create(t *testing.T) {
	activePackage := &models.Package{
		ID:       "pkg-1",
		Name:     "Premium 6 months",
		Duration: 6,
		Price:    2_000_000,
		IsActive: true,
	}
	customer := &models.User{UID: "cust-1", Role: models.RoleCustomer}
	req := models.DummyOrder{
		CustomerUID:   "cust-1",
		PackageID:     "pkg-1",
		PaymentMethod: "bank_transfer",
	}

	tests := []struct {
		name       string
		actor      models.Actor
		req        models.DummyOrder
		setupMocks func(r *RepoMock, rates *RatesMock)
		wantID     string
		wantErr    error
	}{
		{
			name:  "seller order creates commission at computed rate",
			actor: models.Actor{UID: "res-1", Role: models.RoleReseller},
			req:   req,
			setupMocks: func(r *RepoMock, rates *RatesMock) {
				r.On("GetPackage", mock.Anything, "pkg-1").Return(activePackage, nil).Once()
				r.On("GetUser", mock.Anything, "cust-1").Return(customer, nil).Once()
				rates.On("Percent", mock.Anything, models.RoleReseller, "res-1", mock.Anything).
					Return(15, nil).Once()
				r.On("CreateOrderWithCommission", mock.Anything,
					mock.MatchedBy(func(o models.Order) bool {
						return o.Amount == 2_000_000 &&
							o.PaymentStatus == models.OrderPending &&
							o.ResellerUID != nil && *o.ResellerUID == "res-1"
					}),
					mock.MatchedBy(func(c *models.Commission) bool {
						return c != nil && c.Percent == 15 && c.Amount == 300_000 &&
							c.Status == models.CommissionPending
					})).Return("order-1", nil).Once()
			},
			wantID: "order-1",
		},
		{
			name:  "admin direct sale has no commission",
			actor: models.Actor{UID: "adm-1", Role: models.RoleAdmin},
			req:   req,
			setupMocks: func(r *RepoMock, _ *RatesMock) {
				r.On("GetPackage", mock.Anything, "pkg-1").Return(activePackage, nil).Once()
				r.On("GetUser", mock.Anything, "cust-1").Return(customer, nil).Once()
				r.On("CreateOrderWithCommission", mock.Anything,
					mock.MatchedBy(func(o models.Order) bool { return o.ResellerUID == nil }),
					(*models.Commission)(nil)).Return("order-2", nil).Once()
			},
			wantID: "order-2",
		},
		{
			name:  "unknown payment method",
			actor: models.Actor{UID: "res-1", Role: models.RoleReseller},
			req: models.DummyOrder{
				CustomerUID:   "cust-1",
				PackageID:     "pkg-1",
				PaymentMethod: "paypal",
			},
			setupMocks: func(_ *RepoMock, _ *RatesMock) {},
			wantErr:    errs.ErrValidation,
		},
		{
			name:       "customer cannot place orders",
			actor:      models.Actor{UID: "cust-1", Role: models.RoleCustomer},
			req:        req,
			setupMocks: func(_ *RepoMock, _ *RatesMock) {},
			wantErr:    errs.ErrValidation,
		},
		{
			name:  "missing package",
			actor: models.Actor{UID: "res-1", Role: models.RoleReseller},
			req:   req,
			setupMocks: func(r *RepoMock, _ *RatesMock) {
				r.On("GetPackage", mock.Anything, "pkg-1").
					Return(nil, fmt.Errorf("storage.GetPackage: %w", sql.ErrNoRows)).Once()
			},
			wantErr: errs.ErrNotFound,
		},
		{
			name:  "inactive package",
			actor: models.Actor{UID: "res-1", Role: models.RoleReseller},
			req:   req,
			setupMocks: func(r *RepoMock, _ *RatesMock) {
				inactive := *activePackage
				inactive.IsActive = false
				r.On("GetPackage", mock.Anything, "pkg-1").Return(&inactive, nil).Once()
			},
			wantErr: errs.ErrValidation,
		},
		{
			name:  "recipient must have customer role",
			actor: models.Actor{UID: "res-1", Role: models.RoleReseller},
			req:   req,
			setupMocks: func(r *RepoMock, _ *RatesMock) {
				r.On("GetPackage", mock.Anything, "pkg-1").Return(activePackage, nil).Once()
				r.On("GetUser", mock.Anything, "cust-1").
					Return(&models.User{UID: "cust-1", Role: models.RoleReseller}, nil).Once()
			},
			wantErr: errs.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			rates := new(RatesMock)
			publisher := new(PublisherMock)
			svc := NewOrderService(repo, rates, publisher, newNoopLogger())

			tt.setupMocks(repo, rates)

			got, err := svc.Create(context.Background(), tt.actor, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, got)
			}

			repo.AssertExpectations(t)
			rates.AssertExpectations(t)
		})
	}
}

func TestOrderService_UpdateStatus(t *testing.T) {
	resellerUID := "res-1"
	paidOrder := &models.Order{
		ID:          "order-1",
		CustomerUID: "cust-1",
		ResellerUID: &resellerUID,
		Amount:      2_000_000,
		ExpiryDate:  time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC),
		Customer:    &models.User{UID: "cust-1", Email: "cust@example.com", Name: "Nguyen Van A"},
		Package:     &models.Package{ID: "pkg-1", Name: "Premium 6 months"},
	}

	tests := []struct {
		name       string
		newStatus  string
		setupMocks func(r *RepoMock, p *PublisherMock)
		wantErr    error
	}{
		{
			name:      "pending to paid publishes event",
			newStatus: models.OrderPaid,
			setupMocks: func(r *RepoMock, p *PublisherMock) {
				r.On("GetOrderStatus", mock.Anything, "order-1").Return(models.OrderPending, nil).Once()
				r.On("UpdateOrderStatus", mock.Anything, "order-1", models.OrderPending, models.OrderPaid).
					Return(1, nil).Once()
				r.On("GetOrder", mock.Anything, "order-1").Return(paidOrder, nil).Once()
				p.On("Publish", "order.paid", mock.MatchedBy(func(e models.OrderPaidEvent) bool {
					return e.OrderID == "order-1" && e.CustomerEmail == "cust@example.com"
				})).Return(nil).Once()
			},
		},
		{
			name:      "pending to cancelled publishes nothing",
			newStatus: models.OrderCancelled,
			setupMocks: func(r *RepoMock, _ *PublisherMock) {
				r.On("GetOrderStatus", mock.Anything, "order-1").Return(models.OrderPending, nil).Once()
				r.On("UpdateOrderStatus", mock.Anything, "order-1", models.OrderPending, models.OrderCancelled).
					Return(1, nil).Once()
			},
		},
		{
			name:       "unknown status",
			newStatus:  "refunded",
			setupMocks: func(_ *RepoMock, _ *PublisherMock) {},
			wantErr:    errs.ErrValidation,
		},
		{
			name:      "missing order",
			newStatus: models.OrderPaid,
			setupMocks: func(r *RepoMock, _ *PublisherMock) {
				r.On("GetOrderStatus", mock.Anything, "order-1").
					Return("", fmt.Errorf("storage.GetOrderStatus: %w", sql.ErrNoRows)).Once()
			},
			wantErr: errs.ErrNotFound,
		},
		{
			name:      "paid is terminal",
			newStatus: models.OrderCancelled,
			setupMocks: func(r *RepoMock, _ *PublisherMock) {
				r.On("GetOrderStatus", mock.Anything, "order-1").Return(models.OrderPaid, nil).Once()
			},
			wantErr: errs.ErrInvalidTransition,
		},
		{
			name:      "concurrent update loses the race",
			newStatus: models.OrderPaid,
			setupMocks: func(r *RepoMock, _ *PublisherMock) {
				r.On("GetOrderStatus", mock.Anything, "order-1").Return(models.OrderPending, nil).Once()
				r.On("UpdateOrderStatus", mock.Anything, "order-1", models.OrderPending, models.OrderPaid).
					Return(0, nil).Once()
			},
			wantErr: errs.ErrConflict,
		},
		{
			name:      "publish failure does not fail the transition",
			newStatus: models.OrderPaid,
			setupMocks: func(r *RepoMock, p *PublisherMock) {
				r.On("GetOrderStatus", mock.Anything, "order-1").Return(models.OrderPending, nil).Once()
				r.On("UpdateOrderStatus", mock.Anything, "order-1", models.OrderPending, models.OrderPaid).
					Return(1, nil).Once()
				r.On("GetOrder", mock.Anything, "order-1").Return(paidOrder, nil).Once()
				p.On("Publish", "order.paid", mock.Anything).Return(errors.New("broker down")).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			publisher := new(PublisherMock)
			svc := NewOrderService(repo, new(RatesMock), publisher, newNoopLogger())

			tt.setupMocks(repo, publisher)

			err := svc.UpdateStatus(context.Background(), "order-1", tt.newStatus)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			repo.AssertExpectations(t)
			publisher.AssertExpectations(t)
		})
	}
}

func TestOrderService_List(t *testing.T) {
	resellerUID := "res-1"
	customerUID := "cust-1"

	tests := []struct {
		name       string
		actor      models.Actor
		wantFilter models.OrderFilter
	}{
		{
			name:       "admin sees everything",
			actor:      models.Actor{UID: "adm-1", Role: models.RoleAdmin},
			wantFilter: models.OrderFilter{Limit: 10},
		},
		{
			name:       "seller is scoped to own orders",
			actor:      models.Actor{UID: resellerUID, Role: models.RoleCTV},
			wantFilter: models.OrderFilter{ResellerUID: &resellerUID, Limit: 10},
		},
		{
			name:       "customer is scoped to own orders",
			actor:      models.Actor{UID: customerUID, Role: models.RoleCustomer},
			wantFilter: models.OrderFilter{CustomerUID: &customerUID, Limit: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := NewOrderService(repo, new(RatesMock), new(PublisherMock), newNoopLogger())

			repo.On("ListOrders", mock.Anything, tt.wantFilter).
				Return([]*models.Order{}, nil).Once()

			_, err := svc.List(context.Background(), tt.actor, models.OrderFilter{Limit: 10})
			assert.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}
}
