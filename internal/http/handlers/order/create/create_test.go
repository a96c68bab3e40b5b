package create

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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mrkexxx/tifo.vn/internal/http/middlewarectx"
	"github.com/mrkexxx/tifo.vn/internal/lib/errs"
	"github.com/mrkexxx/tifo.vn/internal/models"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, actor models.Actor, req models.DummyOrder) (string, error) {
	args := m.Called(ctx, actor, req)
	return args.String(0), args.Error(1)
}

func withActor(r *http.Request, uid, role string) *http.Request {
	ctx := context.WithValue(r.Context(), middlewarectx.UID, uid)
	ctx = context.WithValue(ctx, middlewarectx.Role, role)
	return r.WithContext(ctx)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	validBody := `{"customer_uid":"0198f8a2-3b66-7e15-8a4c-111111111111",` +
		`"package_id":"0198f8a2-3b66-7e15-8a4c-222222222222","payment_method":"cash"}`

	tests := []struct {
		name           string
		body           string
		actorUID       string
		actorRole      string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:      "успешное оформление заказа",
			body:      validBody,
			actorUID:  "reseller-1",
			actorRole: models.RoleReseller,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything,
					models.Actor{UID: "reseller-1", Role: models.RoleReseller},
					mock.AnythingOfType("models.DummyOrder")).
					Return("order-id-1", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"id":"order-id-1"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{invalid`,
			actorUID:       "reseller-1",
			actorRole:      models.RoleReseller,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:           "отсутствует обязательное поле",
			body:           `{"package_id":"0198f8a2-3b66-7e15-8a4c-222222222222","payment_method":"cash"}`,
			actorUID:       "reseller-1",
			actorRole:      models.RoleReseller,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field CustomerUID is a required field`,
		},
		{
			name:           "нет инициатора в контексте",
			body:           validBody,
			actorUID:       "",
			actorRole:      "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:      "пакет не найден",
			body:      validBody,
			actorUID:  "admin-1",
			actorRole: models.RoleAdmin,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.Anything, mock.Anything).
					Return("", fmt.Errorf("services.order.Create: %w", errs.ErrNotFound))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:      "клиент не может оформлять заказы",
			body:      validBody,
			actorUID:  "customer-1",
			actorRole: models.RoleCustomer,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.Anything, mock.Anything).
					Return("", fmt.Errorf("services.order.Create: %w", errs.ErrValidation))
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:      "ошибка сервиса",
			body:      validBody,
			actorUID:  "reseller-1",
			actorRole: models.RoleReseller,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.Anything, mock.Anything).
					Return("", errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not create order"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(tt.body))
			if tt.actorUID != "" {
				req = withActor(req, tt.actorUID, tt.actorRole)
			}

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
