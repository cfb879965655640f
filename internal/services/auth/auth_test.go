package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dijital-miras/premium-service/internal/lib/jwt"
	"github.com/dijital-miras/premium-service/internal/lib/password"
	"github.com/dijital-miras/premium-service/internal/models"
)

type UsersMock struct{ mock.Mock }

func (m *UsersMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *UsersMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newMaker() *jwt.MakerImpl {
	return jwt.NewMaker("test-secret", time.Hour)
}

func TestService_Register(t *testing.T) {
	users := new(UsersMock)
	users.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Email == "a@b.c" && u.Username == "ayse" &&
			u.UUID != "" && u.PasswordHash != "secret123"
	})).Return("uid-1", nil)

	svc := New(users, newMaker())
	uid, err := svc.Register(context.Background(), "a@b.c", "ayse", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", uid)
	users.AssertExpectations(t)
}

func TestService_Login(t *testing.T) {
	hashed, err := password.GetHash("secret123")
	require.NoError(t, err)

	tests := []struct {
		name        string
		setupMock   func(*UsersMock)
		rawPassword string
		wantErr     bool
	}{
		{
			name: "successful login returns valid token",
			setupMock: func(m *UsersMock) {
				m.On("GetUserByUsername", mock.Anything, "ayse").
					Return(&models.User{UUID: "uid-1", Username: "ayse", PasswordHash: hashed}, nil)
			},
			rawPassword: "secret123",
		},
		{
			name: "wrong password",
			setupMock: func(m *UsersMock) {
				m.On("GetUserByUsername", mock.Anything, "ayse").
					Return(&models.User{UUID: "uid-1", Username: "ayse", PasswordHash: hashed}, nil)
			},
			rawPassword: "wrong",
			wantErr:     true,
		},
		{
			name: "user not found",
			setupMock: func(m *UsersMock) {
				m.On("GetUserByUsername", mock.Anything, "ayse").
					Return(nil, errors.New("no rows"))
			},
			rawPassword: "secret123",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UsersMock)
			tt.setupMock(users)

			svc := New(users, newMaker())
			token, err := svc.Login(context.Background(), "ayse", tt.rawPassword)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			user, err := svc.ValidateToken(context.Background(), token)
			require.NoError(t, err)
			assert.Equal(t, "ayse", user.Username)
			assert.Equal(t, "uid-1", user.UUID)
		})
	}
}

func TestService_ValidateToken_Invalid(t *testing.T) {
	svc := New(new(UsersMock), newMaker())
	_, err := svc.ValidateToken(context.Background(), "not-a-token")
	assert.Error(t, err)
}
