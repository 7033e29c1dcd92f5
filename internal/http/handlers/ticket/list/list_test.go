package list

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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/event-ticketing/internal/http/middlewarectx"
	"github.com/magabrotheeeer/event-ticketing/internal/models"
)

// MockService реализует интерфейс list.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context, username string, limit, offset int) ([]*models.Ticket, error) {
	args := m.Called(ctx, username, limit, offset)
	if res := args.Get(0); res != nil {
		return res.([]*models.Ticket), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		url            string
		username       string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:     "успешное получение билетов",
			url:      "/tickets/list",
			username: "alice",
			setupMock: func(m *MockService) {
				tickets := []*models.Ticket{
					{
						UID:          "2b1f0c1e-8f43-4a1d-9a35-1f2d3c4b5a69",
						Username:     "alice",
						EventID:      42,
						Quantity:     2,
						PurchaseDate: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
					},
				}
				m.On("List", mock.Anything, "alice", 20, 0).Return(tickets, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"EventID":42`,
		},
		{
			name:     "явные limit и offset",
			url:      "/tickets/list?limit=5&offset=10",
			username: "alice",
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything, "alice", 5, 10).Return([]*models.Ticket{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"tickets":[]`,
		},
		{
			name:           "некорректный limit",
			url:            "/tickets/list?limit=0",
			username:       "alice",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid limit`,
		},
		{
			name:           "отсутствует пользователь в контексте",
			url:            "/tickets/list",
			username:       "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `unauthorized`,
		},
		{
			name:     "ошибка сервиса билетов",
			url:      "/tickets/list",
			username: "alice",
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything, "alice", 20, 0).Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `could not list tickets`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.username != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.User, tt.username))
			}

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
