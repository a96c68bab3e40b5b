package status

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mrkexxx/tifo.vn/internal/lib/errs"
)

// MockService реализует интерфейс status.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) UpdateStatus(ctx context.Context, id, newStatus string) error {
	args := m.Called(ctx, id, newStatus)
	return args.Error(0)
}

func TestStatusHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		id             string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешный переход в paid",
			id:   "order-1",
			body: `{"status":"paid"}`,
			setupMock: func(m *MockService) {
				m.On("UpdateStatus", mock.Anything, "order-1", "paid").Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"paid"`,
		},
		{
			name:           "некорректный JSON",
			id:             "order-1",
			body:           `{invalid`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:           "пустой статус",
			id:             "order-1",
			body:           `{"status":""}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Status is a required field`,
		},
		{
			name: "неизвестный статус",
			id:   "order-1",
			body: `{"status":"refunded"}`,
			setupMock: func(m *MockService) {
				m.On("UpdateStatus", mock.Anything, "order-1", "refunded").
					Return(fmt.Errorf("services.order.UpdateStatus: %w", errs.ErrValidation))
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "заказ не найден",
			id:   "missing",
			body: `{"status":"paid"}`,
			setupMock: func(m *MockService) {
				m.On("UpdateStatus", mock.Anything, "missing", "paid").
					Return(fmt.Errorf("services.order.UpdateStatus: %w", errs.ErrNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"order not found"`,
		},
		{
			name: "переход из терминального статуса",
			id:   "order-2",
			body: `{"status":"cancelled"}`,
			setupMock: func(m *MockService) {
				m.On("UpdateStatus", mock.Anything, "order-2", "cancelled").
					Return(fmt.Errorf("services.order.UpdateStatus: %w", errs.ErrInvalidTransition))
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "конфликт одновременного обновления",
			id:   "order-3",
			body: `{"status":"paid"}`,
			setupMock: func(m *MockService) {
				m.On("UpdateStatus", mock.Anything, "order-3", "paid").
					Return(fmt.Errorf("services.order.UpdateStatus: %w", errs.ErrConflict))
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "ошибка сервиса",
			id:   "order-4",
			body: `{"status":"paid"}`,
			setupMock: func(m *MockService) {
				m.On("UpdateStatus", mock.Anything, "order-4", "paid").
					Return(errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not update order status"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPatch, "/orders/"+tt.id+"/status", strings.NewReader(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
					"response body should contain %s, got %s", tt.expectedBody, w.Body.String())
			}

			mockService.AssertExpectations(t)
		})
	}
}
