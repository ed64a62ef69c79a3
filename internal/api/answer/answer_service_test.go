package answer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-quora-api/internal/types"
)

// MockAnswerRepo is a mock implementation of AnswerRepo
type MockAnswerRepo struct {
	mock.Mock
}

func (m *MockAnswerRepo) Create(ctx context.Context, answer *types.Answer) (*types.Answer, error) {
	args := m.Called(ctx, answer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Answer), args.Error(1)
}

func (m *MockAnswerRepo) GetByUUID(ctx context.Context, answerUUID string) (*types.Answer, error) {
	args := m.Called(ctx, answerUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Answer), args.Error(1)
}

func (m *MockAnswerRepo) GetQuestion(ctx context.Context, questionUUID string) (*types.Question, error) {
	args := m.Called(ctx, questionUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Question), args.Error(1)
}

func (m *MockAnswerRepo) GetAllForQuestion(ctx context.Context, questionID int64) ([]types.Answer, error) {
	args := m.Called(ctx, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Answer), args.Error(1)
}

func (m *MockAnswerRepo) UpdateContent(ctx context.Context, answerUUID, content string) error {
	args := m.Called(ctx, answerUUID, content)
	return args.Error(0)
}

func (m *MockAnswerRepo) Delete(ctx context.Context, answerUUID string) error {
	args := m.Called(ctx, answerUUID)
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

func setupAnswerServiceTest() (*AnswerServiceImpl, *MockAnswerRepo, *MockGuard) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockRepo := new(MockAnswerRepo)
	mockGuard := new(MockGuard)
	service := NewAnswerService(mockRepo, mockGuard, logger)
	return service, mockRepo, mockGuard
}

func activeSession(userUUID string, role string) *types.AuthSession {
	return &types.AuthSession{
		UUID:        "session-uuid-1",
		AccessToken: "tok",
		User:        &types.User{ID: 1, UUID: userUUID, Role: role},
	}
}

func notFoundErr(what string) error {
	return fmt.Errorf("%s not found: %w", what, types.ErrNotFound)
}

func TestAnswerServiceImpl_Create(t *testing.T) {
	ctx := context.Background()
	question := &types.Question{ID: 10, UUID: "q-uuid-1", Content: "What is Go?"}

	t.Run("success", func(t *testing.T) {
		service, mockRepo, mockGuard := setupAnswerServiceTest()
		session := activeSession("user-uuid-1", types.RoleNonAdmin)
		mockRepo.On("GetQuestion", mock.Anything, "q-uuid-1").Return(question, nil).Once()
		mockGuard.On("CheckAuthorization", mock.Anything, "tok",
			"User is signed out.Sign in first to post an answer").Return(session, nil).Once()
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*types.Answer")).
			Return(&types.Answer{UUID: "a-uuid-1"}, nil).Once()

		created, err := service.Create(ctx, "A compiled language.", "q-uuid-1", "tok")
		require.NoError(t, err)
		assert.Equal(t, "a-uuid-1", created.UUID)

		arg := mockRepo.Calls[1].Arguments.Get(1).(*types.Answer)
		assert.Equal(t, int64(10), arg.QuestionID)
		assert.Equal(t, int64(1), arg.UserID)
		assert.False(t, arg.Date.IsZero())
		mockRepo.AssertExpectations(t)
		mockGuard.AssertExpectations(t)
	})

	t.Run("invalid question reported before the token is checked", func(t *testing.T) {
		service, mockRepo, mockGuard := setupAnswerServiceTest()
		mockRepo.On("GetQuestion", mock.Anything, "ghost-uuid").Return(nil, notFoundErr("question")).Once()

		_, err := service.Create(ctx, "An answer.", "ghost-uuid", "whatever-token")
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrNotFound))
		de, ok := types.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "QUES-001", de.Code)
		assert.Equal(t, "The question entered is invalid", de.Message)
		mockGuard.AssertNotCalled(t, "CheckAuthorization", mock.Anything, mock.Anything, mock.Anything)
		mockRepo.AssertExpectations(t)
	})

	t.Run("guard failure after a valid question", func(t *testing.T) {
		service, mockRepo, mockGuard := setupAnswerServiceTest()
		mockRepo.On("GetQuestion", mock.Anything, "q-uuid-1").Return(question, nil).Once()
		mockGuard.On("CheckAuthorization", mock.Anything, "nope", mock.Anything).
			Return(nil, types.NewDomainError(types.ErrUnauthorized, "ATHR-001", "User has not signed in")).Once()

		_, err := service.Create(ctx, "An answer.", "q-uuid-1", "nope")
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrUnauthorized))
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		mockRepo.AssertExpectations(t)
	})
}

func TestAnswerServiceImpl_EditContent(t *testing.T) {
	ctx := context.Background()
	existing := &types.Answer{ID: 5, UUID: "a-uuid-1", Answer: "old", OwnerUUID: "user-uuid-1"}

	t.Run("owner edits", func(t *testing.T) {
		service, mockRepo, mockGuard := setupAnswerServiceTest()
		session := activeSession("user-uuid-1", types.RoleNonAdmin)
		mockGuard.On("CheckAuthorization", mock.Anything, "tok", mock.Anything).Return(session, nil).Once()
		mockRepo.On("GetByUUID", mock.Anything, "a-uuid-1").Return(existing, nil).Once()
		mockRepo.On("UpdateContent", mock.Anything, "a-uuid-1", "better answer").Return(nil).Once()

		edited, err := service.EditContent(ctx, "a-uuid-1", "better answer", "tok")
		require.NoError(t, err)
		assert.Equal(t, "better answer", edited.Answer)
		mockRepo.AssertExpectations(t)
	})

	t.Run("non-owner is rejected even as admin", func(t *testing.T) {
		service, mockRepo, mockGuard := setupAnswerServiceTest()
		session := activeSession("admin-uuid", types.RoleAdmin)
		mockGuard.On("CheckAuthorization", mock.Anything, "tok", mock.Anything).Return(session, nil).Once()
		mockRepo.On("GetByUUID", mock.Anything, "a-uuid-1").Return(existing, nil).Once()

		_, err := service.EditContent(ctx, "a-uuid-1", "better answer", "tok")
		require.Error(t, err)
		de, ok := types.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "ATHR-003", de.Code)
		assert.Equal(t, "Only the answer owner can edit the answer", de.Message)
		mockRepo.AssertNotCalled(t, "UpdateContent", mock.Anything, mock.Anything, mock.Anything)
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown answer", func(t *testing.T) {
		service, mockRepo, mockGuard := setupAnswerServiceTest()
		session := activeSession("user-uuid-1", types.RoleNonAdmin)
		mockGuard.On("CheckAuthorization", mock.Anything, "tok", mock.Anything).Return(session, nil).Once()
		mockRepo.On("GetByUUID", mock.Anything, "ghost-uuid").Return(nil, notFoundErr("answer")).Once()

		_, err := service.EditContent(ctx, "ghost-uuid", "better answer", "tok")
		require.Error(t, err)
		de, ok := types.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "ANS-001", de.Code)
		mockRepo.AssertExpectations(t)
	})
}

func TestAnswerServiceImpl_Delete(t *testing.T) {
	ctx := context.Background()
	existing := &types.Answer{ID: 5, UUID: "a-uuid-1", Answer: "old", OwnerUUID: "user-uuid-1"}

	t.Run("admin deletes another user's answer", func(t *testing.T) {
		service, mockRepo, mockGuard := setupAnswerServiceTest()
		session := activeSession("admin-uuid", types.RoleAdmin)
		mockGuard.On("CheckAuthorization", mock.Anything, "tok", mock.Anything).Return(session, nil).Once()
		mockRepo.On("GetByUUID", mock.Anything, "a-uuid-1").Return(existing, nil).Once()
		mockRepo.On("Delete", mock.Anything, "a-uuid-1").Return(nil).Once()

		deleted, err := service.Delete(ctx, "a-uuid-1", "tok")
		require.NoError(t, err)
		assert.Equal(t, "a-uuid-1", deleted.UUID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("non-owner non-admin is rejected", func(t *testing.T) {
		service, mockRepo, mockGuard := setupAnswerServiceTest()
		session := activeSession("user-uuid-2", types.RoleNonAdmin)
		mockGuard.On("CheckAuthorization", mock.Anything, "tok", mock.Anything).Return(session, nil).Once()
		mockRepo.On("GetByUUID", mock.Anything, "a-uuid-1").Return(existing, nil).Once()

		_, err := service.Delete(ctx, "a-uuid-1", "tok")
		require.Error(t, err)
		de, ok := types.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "ATHR-003", de.Code)
		assert.Equal(t, "Only the answer owner or admin can delete the answer", de.Message)
		mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		mockRepo.AssertExpectations(t)
	})
}

func TestAnswerServiceImpl_GetAllForQuestion(t *testing.T) {
	ctx := context.Background()
	question := &types.Question{ID: 10, UUID: "q-uuid-1", Content: "What is Go?"}

	t.Run("success", func(t *testing.T) {
		service, mockRepo, mockGuard := setupAnswerServiceTest()
		session := activeSession("user-uuid-1", types.RoleNonAdmin)
		answers := []types.Answer{{UUID: "a-uuid-1", Answer: "A language.", QuestionContent: "What is Go?"}}
		mockRepo.On("GetQuestion", mock.Anything, "q-uuid-1").Return(question, nil).Once()
		mockGuard.On("CheckAuthorization", mock.Anything, "tok",
			"User is signed out.Sign in first to get the answers").Return(session, nil).Once()
		mockRepo.On("GetAllForQuestion", mock.Anything, int64(10)).Return(answers, nil).Once()

		out, err := service.GetAllForQuestion(ctx, "q-uuid-1", "tok")
		require.NoError(t, err)
		assert.Equal(t, answers, out)
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown question reported before the token is checked", func(t *testing.T) {
		service, mockRepo, mockGuard := setupAnswerServiceTest()
		mockRepo.On("GetQuestion", mock.Anything, "ghost-uuid").Return(nil, notFoundErr("question")).Once()

		_, err := service.GetAllForQuestion(ctx, "ghost-uuid", "whatever-token")
		require.Error(t, err)
		de, ok := types.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "QUES-001", de.Code)
		assert.Equal(t, "The question with entered uuid whose details are to be seen does not exist", de.Message)
		mockGuard.AssertNotCalled(t, "CheckAuthorization", mock.Anything, mock.Anything, mock.Anything)
		mockRepo.AssertExpectations(t)
	})
}
