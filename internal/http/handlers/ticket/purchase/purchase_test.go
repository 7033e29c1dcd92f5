package purchase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/event-ticketing/internal/http/middlewarectx"
	"github.com/magabrotheeeer/event-ticketing/internal/models"
)

// MockService реализует интерфейс purchase.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Purchase(ctx context.Context, username string, eventID, quantity int) (*models.Ticket, error) {
	args := m.Called(ctx, username, eventID, quantity)
	if res := args.Get(0); res != nil {
		return res.(*models.Ticket), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestPurchaseHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		eventID        string
		username       string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:     "успешная покупка билетов",
			eventID:  "42",
			username: "alice",
			body:     `{"quantity":2}`,
			setupMock: func(m *MockService) {
				ticket := &models.Ticket{
					UID:          "2b1f0c1e-8f43-4a1d-9a35-1f2d3c4b5a69",
					Username:     "alice",
					EventID:      42,
					Quantity:     2,
					PurchaseDate: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
				}
				m.On("Purchase", mock.Anything, "alice", 42, 2).Return(ticket, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `purchase successful`,
		},
		{
			name:           "отсутствует пользователь в контексте",
			eventID:        "42",
			username:       "",
			body:           `{"quantity":2}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `unauthorized`,
		},
		{
			name:           "некорректный id события",
			eventID:        "abc",
			username:       "alice",
			body:           `{"quantity":2}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid event id`,
		},
		{
			name:           "некорректный JSON в теле запроса",
			eventID:        "42",
			username:       "alice",
			body:           `{"quantity":`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `failed to decode request`,
		},
		{
			name:           "нулевое количество билетов",
			eventID:        "42",
			username:       "alice",
			body:           `{"quantity":0}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"status":"Error"`,
		},
		{
			name:           "количество сверх допустимого",
			eventID:        "42",
			username:       "alice",
			body:           `{"quantity":9223372036854775807}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `above the allowed maximum`,
		},
		{
			name:     "событие не найдено",
			eventID:  "777",
			username: "alice",
			body:     `{"quantity":2}`,
			setupMock: func(m *MockService) {
				m.On("Purchase", mock.Anything, "alice", 777, 2).
					Return(nil, models.ErrEventNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `event not found`,
		},
		{
			name:     "недостаточно билетов",
			eventID:  "42",
			username: "alice",
			body:     `{"quantity":10}`,
			setupMock: func(m *MockService) {
				m.On("Purchase", mock.Anything, "alice", 42, 10).
					Return(nil, &models.InsufficientCapacityError{Remaining: 3})
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `not enough tickets: 3 remaining`,
		},
		{
			name:     "конфликт не разрешился после повторов",
			eventID:  "42",
			username: "alice",
			body:     `{"quantity":2}`,
			setupMock: func(m *MockService) {
				m.On("Purchase", mock.Anything, "alice", 42, 2).
					Return(nil, models.ErrTransientConflict)
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `purchase temporarily unavailable`,
		},
		{
			name:     "ошибка сервиса покупки",
			eventID:  "42",
			username: "alice",
			body:     `{"quantity":2}`,
			setupMock: func(m *MockService) {
				m.On("Purchase", mock.Anything, "alice", 42, 2).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `could not purchase tickets`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/events/"+tt.eventID+"/purchase", strings.NewReader(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.eventID)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			if tt.username != "" {
				ctx = context.WithValue(ctx, middlewarectx.User, tt.username)
			}
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
