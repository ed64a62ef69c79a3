package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-quora-api/internal/types"
)

// MockAuthRepo is a mock implementation of auth.AuthRepo
type MockAuthRepo struct {
	mock.Mock
}

func (m *MockAuthRepo) GetUserByUsername(ctx context.Context, username string) (*types.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockAuthRepo) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockAuthRepo) GetUserByUUID(ctx context.Context, userUUID string) (*types.User, error) {
	args := m.Called(ctx, userUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockAuthRepo) CreateUser(ctx context.Context, user *types.User) (*types.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockAuthRepo) DeleteUser(ctx context.Context, userUUID string) error {
	args := m.Called(ctx, userUUID)
	return args.Error(0)
}

func (m *MockAuthRepo) CreateSession(ctx context.Context, session *types.AuthSession) (*types.AuthSession, error) {
	args := m.Called(ctx, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.AuthSession), args.Error(1)
}

func (m *MockAuthRepo) GetSessionByToken(ctx context.Context, accessToken string) (*types.AuthSession, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.AuthSession), args.Error(1)
}

func (m *MockAuthRepo) SetSessionLogout(ctx context.Context, accessToken string, logoutAt time.Time) error {
	args := m.Called(ctx, accessToken, logoutAt)
	return args.Error(0)
}

// MockGuard is a mock implementation of auth.Guard
type MockGuard struct {
	mock.Mock
}

func (m *MockGuard) CheckAuthorization(ctx context.Context, accessToken, signedOutMessage string) (*types.AuthSession, error) {
	args := m.Called(ctx, accessToken, signedOutMessage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.AuthSession), args.Error(1)
}

// MockSessionEvictor is a mock implementation of SessionEvictor
type MockSessionEvictor struct {
	mock.Mock
}

func (m *MockSessionEvictor) EvictSessions() {
	m.Called()
}

func setupAdminServiceTest() (*AdminServiceImpl, *MockAuthRepo, *MockGuard, *MockSessionEvictor) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockRepo := new(MockAuthRepo)
	mockGuard := new(MockGuard)
	mockEvictor := new(MockSessionEvictor)
	service := NewAdminService(mockRepo, mockGuard, mockEvictor, logger)
	return service, mockRepo, mockGuard, mockEvictor
}

func adminSession() *types.AuthSession {
	return &types.AuthSession{
		UUID:        "session-uuid-1",
		AccessToken: "tok",
		User:        &types.User{ID: 1, UUID: "admin-uuid", Role: types.RoleAdmin},
	}
}

func nonAdminSession() *types.AuthSession {
	return &types.AuthSession{
		UUID:        "session-uuid-2",
		AccessToken: "tok",
		User:        &types.User{ID: 2, UUID: "user-uuid-1", Role: types.RoleNonAdmin},
	}
}

func TestAdminServiceImpl_DeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("admin deletes and cached sessions are evicted", func(t *testing.T) {
		service, mockRepo, mockGuard, mockEvictor := setupAdminServiceTest()
		target := &types.User{ID: 3, UUID: "target-uuid", Username: "target"}
		mockGuard.On("CheckAuthorization", mock.Anything, "tok", "User is signed out").
			Return(adminSession(), nil).Once()
		mockRepo.On("GetUserByUUID", mock.Anything, "target-uuid").Return(target, nil).Once()
		mockRepo.On("DeleteUser", mock.Anything, "target-uuid").Return(nil).Once()
		mockEvictor.On("EvictSessions").Return().Once()

		deleted, err := service.DeleteUser(ctx, "target-uuid", "tok")
		require.NoError(t, err)
		assert.Equal(t, target, deleted)
		mockRepo.AssertExpectations(t)
		mockGuard.AssertExpectations(t)
		mockEvictor.AssertExpectations(t)
	})

	t.Run("non-admin is rejected before any lookup", func(t *testing.T) {
		service, mockRepo, mockGuard, mockEvictor := setupAdminServiceTest()
		mockGuard.On("CheckAuthorization", mock.Anything, "tok", "User is signed out").
			Return(nonAdminSession(), nil).Once()

		_, err := service.DeleteUser(ctx, "target-uuid", "tok")
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrUnauthorized))
		de, ok := types.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "ATHR-003", de.Code)
		assert.Equal(t, "Unauthorized Access, Entered user is not an admin", de.Message)
		mockRepo.AssertNotCalled(t, "GetUserByUUID", mock.Anything, mock.Anything)
		mockRepo.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything)
		mockEvictor.AssertNotCalled(t, "EvictSessions")
		mockGuard.AssertExpectations(t)
	})

	t.Run("unknown target", func(t *testing.T) {
		service, mockRepo, mockGuard, mockEvictor := setupAdminServiceTest()
		mockGuard.On("CheckAuthorization", mock.Anything, "tok", "User is signed out").
			Return(adminSession(), nil).Once()
		mockRepo.On("GetUserByUUID", mock.Anything, "ghost-uuid").
			Return(nil, fmt.Errorf("user not found: %w", types.ErrNotFound)).Once()

		_, err := service.DeleteUser(ctx, "ghost-uuid", "tok")
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrNotFound))
		de, ok := types.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "USR-001", de.Code)
		assert.Equal(t, "User with entered uuid to be deleted does not exist", de.Message)
		mockEvictor.AssertNotCalled(t, "EvictSessions")
		mockRepo.AssertExpectations(t)
	})

	t.Run("guard failure", func(t *testing.T) {
		service, mockRepo, mockGuard, _ := setupAdminServiceTest()
		mockGuard.On("CheckAuthorization", mock.Anything, "nope", "User is signed out").
			Return(nil, types.NewDomainError(types.ErrUnauthorized, "ATHR-001", "User has not signed in")).Once()

		_, err := service.DeleteUser(ctx, "target-uuid", "nope")
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrUnauthorized))
		mockRepo.AssertNotCalled(t, "GetUserByUUID", mock.Anything, mock.Anything)
		mockGuard.AssertExpectations(t)
	})
}
