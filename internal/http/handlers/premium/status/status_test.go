package status

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dijital-miras/premium-service/internal/http/middlewarectx"
	"github.com/dijital-miras/premium-service/internal/models"
)

// Мок сервиса с методом Snapshot
type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Snapshot(ctx context.Context, userUID string) models.EntitlementSnapshot {
	args := m.Called(ctx, userUID)
	return args.Get(0).(models.EntitlementSnapshot)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestStatusHandler_ServeHTTP(t *testing.T) {
	trialEnd := time.Now().Add(48 * time.Hour)

	tests := []struct {
		name           string
		userUID        string
		snapshot       models.EntitlementSnapshot
		wantStatusCode int
		wantStatus     string
		wantPremium    bool
		wantDaysLeft   float64
	}{
		{
			name:    "active trial",
			userUID: "uid-1",
			snapshot: models.EntitlementSnapshot{
				IsPremium:       true,
				DaysLeftInTrial: 2,
				Subscription: &models.Record{
					UserUID:  "uid-1",
					Status:   models.StatusTrial,
					TrialEnd: &trialEnd,
				},
			},
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
			wantPremium:    true,
			wantDaysLeft:   2,
		},
		{
			name:    "no subscription record",
			userUID: "uid-2",
			snapshot: models.EntitlementSnapshot{
				IsPremium:       false,
				DaysLeftInTrial: 0,
				Subscription:    nil,
			},
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
			wantPremium:    false,
			wantDaysLeft:   0,
		},
		{
			name:           "missing useruid in context",
			userUID:        "",
			wantStatusCode: http.StatusUnauthorized,
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			logger := newNoopLogger()
			handler := New(logger, serviceMock)

			if tt.userUID != "" {
				serviceMock.On("Snapshot", mock.Anything, tt.userUID).
					Return(tt.snapshot).Once()
			}

			req := httptest.NewRequest(http.MethodGet, "/premium", nil)
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
			if tt.userUID != "" {
				ctx = context.WithValue(ctx, middlewarectx.UserUID, tt.userUID)
			}
			req = req.WithContext(ctx)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err := json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantStatusCode == http.StatusOK {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, tt.wantPremium, data["is_premium"])
				assert.Equal(t, tt.wantDaysLeft, data["days_left_in_trial"])
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
