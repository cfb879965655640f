package watch

import (
	"bufio"
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

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dijital-miras/premium-service/internal/http/middlewarectx"
	"github.com/dijital-miras/premium-service/internal/models"
)

// Мок сервиса с методом Watch
type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Watch(ctx context.Context, userUID string) (<-chan *models.Record, func(), error) {
	args := m.Called(ctx, userUID)
	var events <-chan *models.Record
	if ch, ok := args.Get(0).(chan *models.Record); ok {
		events = ch
	}
	var stop func()
	if fn, ok := args.Get(1).(func()); ok {
		stop = fn
	}
	return events, stop, args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestWatchHandler_ServeHTTP(t *testing.T) {
	t.Run("missing useruid in context", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		handler := New(newNoopLogger(), serviceMock)

		req := httptest.NewRequest(http.MethodGet, "/premium/watch", nil)
		ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
		req = req.WithContext(ctx)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var got map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "Error", got["status"])
		serviceMock.AssertExpectations(t)
	})

	t.Run("feed open failure", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		serviceMock.On("Watch", mock.Anything, "uid-1").
			Return(nil, nil, errors.New("feed unavailable")).Once()
		handler := New(newNoopLogger(), serviceMock)

		req := httptest.NewRequest(http.MethodGet, "/premium/watch", nil)
		ctx := context.WithValue(req.Context(), middlewarectx.UserUID, "uid-1")
		req = req.WithContext(ctx)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		serviceMock.AssertExpectations(t)
	})

	t.Run("delivers record events until feed closes", func(t *testing.T) {
		events := make(chan *models.Record, 1)
		events <- &models.Record{UserUID: "uid-1", Status: models.StatusTrial}
		close(events)

		stopCalled := false
		serviceMock := new(ServiceMock)
		serviceMock.On("Watch", mock.Anything, "uid-1").
			Return(events, func() { stopCalled = true }, nil).Once()
		handler := New(newNoopLogger(), serviceMock)

		req := httptest.NewRequest(http.MethodGet, "/premium/watch", nil)
		ctx := context.WithValue(req.Context(), middlewarectx.UserUID, "uid-1")
		req = req.WithContext(ctx)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
		assert.True(t, stopCalled)

		body := rec.Body.String()
		require.True(t, strings.HasPrefix(body, "data: "))

		var got models.Record
		payload := strings.TrimSpace(strings.TrimPrefix(body, "data: "))
		require.NoError(t, json.Unmarshal([]byte(payload), &got))
		assert.Equal(t, "uid-1", got.UserUID)
		assert.Equal(t, models.StatusTrial, got.Status)
	})
}

// Поток должен пережить глобальный WriteTimeout сервера: дедлайн записи
// снимается для соединения, и событие, опубликованное позже таймаута,
// всё равно доходит до клиента.
func TestWatchHandler_StreamSurvivesWriteTimeout(t *testing.T) {
	events := make(chan *models.Record)
	serviceMock := new(ServiceMock)
	serviceMock.On("Watch", mock.Anything, "uid-1").
		Return(events, func() {}, nil).Once()
	handler := New(newNoopLogger(), serviceMock)

	withUser := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), middlewarectx.UserUID, "uid-1")
		handler.ServeHTTP(w, r.WithContext(ctx))
	})

	srv := httptest.NewUnstartedServer(withUser)
	srv.Config.WriteTimeout = 200 * time.Millisecond
	srv.Start()
	defer srv.Close()

	go func() {
		// Публикация заведомо позже WriteTimeout сервера.
		time.Sleep(600 * time.Millisecond)
		events <- &models.Record{UserUID: "uid-1", Status: models.StatusActive}
		close(events)
	}()

	resp, err := http.Get(srv.URL + "/premium/watch")
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	reader := bufio.NewReader(resp.Body)
	var payload string
	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err, "stream closed before the event arrived")
		if strings.HasPrefix(line, "data: ") {
			payload = strings.TrimSpace(strings.TrimPrefix(line, "data: "))
			break
		}
	}

	var got models.Record
	require.NoError(t, json.Unmarshal([]byte(payload), &got))
	assert.Equal(t, "uid-1", got.UserUID)
	assert.Equal(t, models.StatusActive, got.Status)
	serviceMock.AssertExpectations(t)
}
