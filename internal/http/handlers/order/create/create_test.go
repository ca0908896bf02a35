package create

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/cabinconnect/internal/http/middlewarectx"
	"github.com/magabrotheeeer/cabinconnect/internal/models"
	orderservice "github.com/magabrotheeeer/cabinconnect/internal/services/order"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, userUID string, req models.DummyOrder) (int, error) {
	args := m.Called(ctx, userUID, req)
	return args.Int(0), args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tomorrow := time.Now().Add(24 * time.Hour).Format(time.RFC3339)

	tests := []struct {
		name           string
		requestBody    string
		withUserUID    bool
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "успешное создание",
			requestBody: `{"date":"` + tomorrow + `","note":"front path"}`,
			withUserUID: true,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "uid-1", mock.MatchedBy(func(req models.DummyOrder) bool {
					return req.Date == tomorrow && req.Note == "front path"
				})).Return(5, nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"id":5`,
		},
		{
			name:           "некорректное тело запроса",
			requestBody:    `not a json`,
			withUserUID:    true,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:           "дата не передана",
			requestBody:    `{"note":"front path"}`,
			withUserUID:    true,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Date is a required field`,
		},
		{
			name:           "нет UID в контексте",
			requestBody:    `{"date":"` + tomorrow + `"}`,
			withUserUID:    false,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:        "нераспознанная дата",
			requestBody: `{"date":"31-12-2026"}`,
			withUserUID: true,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "uid-1", mock.Anything).
					Return(0, orderservice.ErrInvalidDate).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid date format, expected RFC3339"`,
		},
		{
			name:        "пользователь не житель",
			requestBody: `{"date":"` + tomorrow + `"}`,
			withUserUID: true,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "uid-1", mock.Anything).
					Return(0, orderservice.ErrNotAResident).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"User is not a cabin resident"`,
		},
		{
			name:        "прошедшая дата",
			requestBody: `{"date":"2020-01-01T10:00:00Z"}`,
			withUserUID: true,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "uid-1", mock.Anything).
					Return(0, orderservice.ErrPastDate).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"Cannot create an order for a past date."`,
		},
		{
			name:        "дубликат заказа",
			requestBody: `{"date":"` + tomorrow + `"}`,
			withUserUID: true,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "uid-1", mock.Anything).
					Return(0, orderservice.ErrDuplicateOrder).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"A snow shoveling order already exists for this date."`,
		},
		{
			name:        "ошибка сервиса",
			requestBody: `{"date":"` + tomorrow + `"}`,
			withUserUID: true,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "uid-1", mock.Anything).
					Return(0, errors.New("db error")).Once()
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

			req := httptest.NewRequest(http.MethodPost, "/order/snow_shoveling/",
				bytes.NewReader([]byte(tt.requestBody)))
			if tt.withUserUID {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, "uid-1"))
			}

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}

	t.Run("структура успешного ответа", func(t *testing.T) {
		mockService := new(MockService)
		mockService.On("Create", mock.Anything, "uid-1", mock.Anything).Return(12, nil).Once()

		handler := New(logger, mockService)

		req := httptest.NewRequest(http.MethodPost, "/order/snow_shoveling/",
			bytes.NewReader([]byte(`{"date":"`+tomorrow+`"}`)))
		req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, "uid-1"))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		var got map[string]any
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, "OK", got["status"])
		data, ok := got["data"].(map[string]any)
		assert.True(t, ok)
		assert.Equal(t, float64(12), data["id"])
	})
}
