package subscribe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dijital-miras/premium-service/internal/http/middlewarectx"
	"github.com/dijital-miras/premium-service/internal/models"
	"github.com/dijital-miras/premium-service/internal/services/premium"
)

// Мок сервиса с методом SubscribeToPlan
type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) SubscribeToPlan(ctx context.Context, userUID, planID string, billing models.Billing) (*models.Record, error) {
	args := m.Called(ctx, userUID, planID, billing)
	rec, _ := args.Get(0).(*models.Record)
	return rec, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSubscribeHandler_ServeHTTP(t *testing.T) {
	plan := "basic"
	billing := models.BillingMonthly

	tests := []struct {
		name           string
		userUID        string
		requestBody    interface{}
		mockCall       bool
		mockRec        *models.Record
		mockErr        error
		wantStatusCode int
		wantStatus     string
		wantError      string
	}{
		{
			name:        "plan activated",
			userUID:     "uid-1",
			requestBody: Request{PlanID: "basic", Billing: "monthly"},
			mockCall:    true,
			mockRec: &models.Record{
				UserUID: "uid-1",
				Status:  models.StatusActive,
				Plan:    &plan,
				Billing: &billing,
			},
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "missing useruid in context",
			userUID:        "",
			requestBody:    Request{PlanID: "basic", Billing: "monthly"},
			wantStatusCode: http.StatusUnauthorized,
			wantStatus:     "Error",
			wantError:      "failed to get info about user",
		},
		{
			name:           "invalid json body",
			userUID:        "uid-1",
			requestBody:    "{broken",
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
			wantError:      "invalid request body",
		},
		{
			name:           "validation error - bad billing",
			userUID:        "uid-1",
			requestBody:    Request{PlanID: "basic", Billing: "weekly"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     "Error",
			wantError:      "field Billing must be one of: monthly annual",
		},
		{
			name:           "unknown plan",
			userUID:        "uid-1",
			requestBody:    Request{PlanID: "platinum", Billing: "monthly"},
			mockCall:       true,
			mockErr:        premium.ErrUnknownPlan,
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
			wantError:      "unknown plan",
		},
		{
			name:           "unknown user",
			userUID:        "uid-ghost",
			requestBody:    Request{PlanID: "basic", Billing: "annual"},
			mockCall:       true,
			mockErr:        premium.ErrNoUser,
			wantStatusCode: http.StatusUnauthorized,
			wantStatus:     "Error",
			wantError:      "failed to get info about user",
		},
		{
			name:           "storage error",
			userUID:        "uid-1",
			requestBody:    Request{PlanID: "basic", Billing: "monthly"},
			mockCall:       true,
			mockErr:        errors.New("storage error"),
			wantStatusCode: http.StatusInternalServerError,
			wantStatus:     "Error",
			wantError:      "could not subscribe to plan",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			logger := newNoopLogger()
			handler := New(logger, serviceMock)

			if tt.mockCall {
				serviceMock.On("SubscribeToPlan", mock.Anything, tt.userUID,
					mock.Anything, mock.Anything).
					Return(tt.mockRec, tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/premium/subscribe", bytes.NewReader(bodyBytes))
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
			if tt.userUID != "" {
				ctx = context.WithValue(ctx, middlewarectx.UserUID, tt.userUID)
			}
			req = req.WithContext(ctx)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			}

			if tt.wantStatusCode == http.StatusOK {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				sub, ok := data["subscription"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, "active", sub["status"])
				assert.Equal(t, "basic", sub["plan"])
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
