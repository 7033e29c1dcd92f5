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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/event-ticketing/internal/models"
)

// MockService реализует интерфейс list.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context, limit, offset int) ([]*models.Event, error) {
	args := m.Called(ctx, limit, offset)
	if res := args.Get(0); res != nil {
		return res.([]*models.Event), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		url            string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "список с параметрами по умолчанию",
			url:  "/events",
			setupMock: func(m *MockService) {
				events := []*models.Event{
					{ID: 1, Name: "Rock Festival", TotalTickets: 500, TicketsSold: 12},
					{ID: 2, Name: "Jazz Night", TotalTickets: 80, TicketsSold: 80},
				}
				m.On("List", mock.Anything, 20, 0).Return(events, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"Name":"Jazz Night"`,
		},
		{
			name: "список с явными limit и offset",
			url:  "/events?limit=5&offset=10",
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything, 5, 10).Return([]*models.Event{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"events":[]`,
		},
		{
			name:           "некорректный limit",
			url:            "/events?limit=abc",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid limit`,
		},
		{
			name:           "limit сверх допустимого",
			url:            "/events?limit=1000",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid limit`,
		},
		{
			name:           "отрицательный offset",
			url:            "/events?offset=-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid offset`,
		},
		{
			name: "ошибка сервиса списка",
			url:  "/events",
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything, 20, 0).Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `could not list events`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
