package sender

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	smtplib "github.com/dijital-miras/premium-service/internal/lib/smtp"
	"github.com/dijital-miras/premium-service/internal/models"
)

type ClientMock struct {
	mock.Mock
	body bytes.Buffer
}

func (m *ClientMock) Mail(from string) error { return m.Called(from).Error(0) }
func (m *ClientMock) Rcpt(to string) error   { return m.Called(to).Error(0) }
func (m *ClientMock) Data() (io.WriteCloser, error) {
	args := m.Called()
	return nopWriteCloser{&m.body}, args.Error(1)
}
func (m *ClientMock) Quit() error  { return m.Called().Error(0) }
func (m *ClientMock) Close() error { return nil }

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

type TransportMock struct {
	mock.Mock
	client smtplib.Client
}

func (m *TransportMock) Connect() (smtplib.Client, error) {
	args := m.Called()
	return m.client, args.Error(1)
}
func (m *TransportMock) GetSMTPUser() string { return "noreply@dijitalmiras.app" }

type UsersMock struct{ mock.Mock }

func (m *UsersMock) GetUserByUID(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func okClient() *ClientMock {
	client := new(ClientMock)
	client.On("Mail", mock.Anything).Return(nil)
	client.On("Rcpt", mock.Anything).Return(nil)
	client.On("Data").Return(nil, nil)
	client.On("Quit").Return(nil)
	return client
}

func TestService_SendTrialExpiringReminder(t *testing.T) {
	client := okClient()
	transport := &TransportMock{client: client}
	transport.On("Connect").Return(nil, nil)

	svc := New(new(UsersMock), transport, newNoopLogger())

	body, err := json.Marshal(models.TrialReminder{
		Email:    "ayse@example.com",
		Username: "ayse",
		TrialEnd: time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.NoError(t, svc.SendTrialExpiringReminder(body))
	msg := client.body.String()
	assert.Contains(t, msg, "To: ayse@example.com")
	assert.Contains(t, msg, "Deneme süreniz")
	assert.Contains(t, msg, "Merhaba ayse")
	client.AssertCalled(t, "Rcpt", "ayse@example.com")
}

func TestService_SendRewardGrantedNotice(t *testing.T) {
	client := okClient()
	transport := &TransportMock{client: client}
	transport.On("Connect").Return(nil, nil)

	users := new(UsersMock)
	users.On("GetUserByUID", mock.Anything, "uid-1").
		Return(&models.User{UUID: "uid-1", Email: "ali@example.com", Username: "ali"}, nil)

	svc := New(users, transport, newNoopLogger())

	body, err := json.Marshal(models.RewardGranted{
		UserUID:   "uid-1",
		RewardEnd: time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.NoError(t, svc.SendRewardGrantedNotice(body))
	msg := client.body.String()
	assert.Contains(t, msg, "To: ali@example.com")
	assert.Contains(t, msg, "premium")
}

func TestService_SendTrialExpiringReminder_BadPayload(t *testing.T) {
	svc := New(new(UsersMock), &TransportMock{}, newNoopLogger())
	assert.Error(t, svc.SendTrialExpiringReminder([]byte("not a json")))
}
