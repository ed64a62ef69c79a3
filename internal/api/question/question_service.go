package question

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-quora-api/internal/api/auth"
	"github.com/FACorreiaa/go-quora-api/internal/types"
)

var _ QuestionService = (*QuestionServiceImpl)(nil)

// QuestionService owns the question lifecycle. Every operation resolves the
// caller through the authorization guard first; edit is owner-only, delete
// is owner-or-admin.
type QuestionService interface {
	Create(ctx context.Context, content, accessToken string) (*types.Question, error)
	GetAll(ctx context.Context, accessToken string) ([]types.Question, error)
	GetAllByUser(ctx context.Context, userUUID, accessToken string) ([]types.Question, error)
	EditContent(ctx context.Context, questionUUID, content, accessToken string) (*types.Question, error)
	Delete(ctx context.Context, questionUUID, accessToken string) (*types.Question, error)
}

type QuestionServiceImpl struct {
	logger *slog.Logger
	guard  auth.Guard
	repo   QuestionRepo
}

func NewQuestionService(repo QuestionRepo, guard auth.Guard, logger *slog.Logger) *QuestionServiceImpl {
	return &QuestionServiceImpl{
		logger: logger,
		guard:  guard,
		repo:   repo,
	}
}

func (s *QuestionServiceImpl) Create(ctx context.Context, content, accessToken string) (*types.Question, error) {
	ctx, span := otel.Tracer("QuestionService").Start(ctx, "Create")
	defer span.End()

	l := s.logger.With(slog.String("method", "Create"))

	session, err := s.guard.CheckAuthorization(ctx, accessToken,
		"User is signed out.Sign in first to post a question")
	if err != nil {
		span.SetStatus(codes.Error, "Authorization failed")
		return nil, err
	}

	question := &types.Question{
		UUID:      uuid.NewString(),
		Content:   content,
		Date:      time.Now(),
		UserID:    session.User.ID,
		OwnerUUID: session.User.UUID,
	}
	created, err := s.repo.Create(ctx, question)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create question", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create question")
		return nil, err
	}

	l.InfoContext(ctx, "Question created", slog.String("questionUUID", created.UUID))
	span.SetStatus(codes.Ok, "Question created")
	return created, nil
}

func (s *QuestionServiceImpl) GetAll(ctx context.Context, accessToken string) ([]types.Question, error) {
	ctx, span := otel.Tracer("QuestionService").Start(ctx, "GetAll")
	defer span.End()

	if _, err := s.guard.CheckAuthorization(ctx, accessToken,
		"User is signed out.Sign in first to get all questions"); err != nil {
		span.SetStatus(codes.Error, "Authorization failed")
		return nil, err
	}

	questions, err := s.repo.GetAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list questions")
		return nil, err
	}

	span.SetStatus(codes.Ok, "Questions listed")
	return questions, nil
}

func (s *QuestionServiceImpl) GetAllByUser(ctx context.Context, userUUID, accessToken string) ([]types.Question, error) {
	ctx, span := otel.Tracer("QuestionService").Start(ctx, "GetAllByUser", trace.WithAttributes(
		attribute.String("user.uuid", userUUID),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "GetAllByUser"), slog.String("userUUID", userUUID))

	if _, err := s.guard.CheckAuthorization(ctx, accessToken,
		"User is signed out.Sign in first to get all questions posted by a specific user"); err != nil {
		span.SetStatus(codes.Error, "Authorization failed")
		return nil, err
	}

	userID, err := s.repo.GetUserIDByUUID(ctx, userUUID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			l.WarnContext(ctx, "Target user not found")
			span.SetStatus(codes.Error, "User not found")
			return nil, types.NewDomainError(types.ErrNotFound, "USR-001",
				"User with entered uuid whose question details are to be seen does not exist")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "User lookup failed")
		return nil, fmt.Errorf("error resolving question owner: %w", err)
	}

	questions, err := s.repo.GetAllByUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list user questions")
		return nil, err
	}

	span.SetStatus(codes.Ok, "User questions listed")
	return questions, nil
}

func (s *QuestionServiceImpl) EditContent(ctx context.Context, questionUUID, content, accessToken string) (*types.Question, error) {
	ctx, span := otel.Tracer("QuestionService").Start(ctx, "EditContent", trace.WithAttributes(
		attribute.String("question.uuid", questionUUID),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "EditContent"), slog.String("questionUUID", questionUUID))

	session, err := s.guard.CheckAuthorization(ctx, accessToken,
		"User is signed out.Sign in first to edit the question")
	if err != nil {
		span.SetStatus(codes.Error, "Authorization failed")
		return nil, err
	}

	question, err := s.repo.GetByUUID(ctx, questionUUID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "Question not found")
			return nil, types.NewDomainError(types.ErrNotFound, "QUES-001",
				"Entered question uuid does not exist")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Question lookup failed")
		return nil, fmt.Errorf("error fetching question: %w", err)
	}

	if question.OwnerUUID != session.User.UUID {
		l.WarnContext(ctx, "Edit denied, caller is not the owner",
			slog.String("callerUUID", session.User.UUID))
		span.SetStatus(codes.Error, "Not the owner")
		return nil, types.NewDomainError(types.ErrUnauthorized, "ATHR-003",
			"Only the question owner can edit the question")
	}

	if err := s.repo.UpdateContent(ctx, questionUUID, content); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update question")
		return nil, err
	}
	question.Content = content

	l.InfoContext(ctx, "Question edited")
	span.SetStatus(codes.Ok, "Question edited")
	return question, nil
}

func (s *QuestionServiceImpl) Delete(ctx context.Context, questionUUID, accessToken string) (*types.Question, error) {
	ctx, span := otel.Tracer("QuestionService").Start(ctx, "Delete", trace.WithAttributes(
		attribute.String("question.uuid", questionUUID),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Delete"), slog.String("questionUUID", questionUUID))

	session, err := s.guard.CheckAuthorization(ctx, accessToken,
		"User is signed out.Sign in first to delete a question")
	if err != nil {
		span.SetStatus(codes.Error, "Authorization failed")
		return nil, err
	}

	question, err := s.repo.GetByUUID(ctx, questionUUID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "Question not found")
			return nil, types.NewDomainError(types.ErrNotFound, "QUES-001",
				"Entered question uuid does not exist")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Question lookup failed")
		return nil, fmt.Errorf("error fetching question: %w", err)
	}

	if question.OwnerUUID != session.User.UUID && session.User.Role != types.RoleAdmin {
		l.WarnContext(ctx, "Delete denied, caller is neither owner nor admin",
			slog.String("callerUUID", session.User.UUID))
		span.SetStatus(codes.Error, "Not owner or admin")
		return nil, types.NewDomainError(types.ErrUnauthorized, "ATHR-003",
			"Only the question owner or admin can delete the question")
	}

	if err := s.repo.Delete(ctx, questionUUID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete question")
		return nil, err
	}

	l.InfoContext(ctx, "Question deleted")
	span.SetStatus(codes.Ok, "Question deleted")
	return question, nil
}
