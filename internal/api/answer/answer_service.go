package answer

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

var _ AnswerService = (*AnswerServiceImpl)(nil)

// AnswerService owns the answer lifecycle. Create and the per-question list
// validate the parent question before resolving the caller, so an invalid
// question id is reported the same way regardless of the token presented.
type AnswerService interface {
	Create(ctx context.Context, answerContent, questionUUID, accessToken string) (*types.Answer, error)
	EditContent(ctx context.Context, answerUUID, content, accessToken string) (*types.Answer, error)
	Delete(ctx context.Context, answerUUID, accessToken string) (*types.Answer, error)
	GetAllForQuestion(ctx context.Context, questionUUID, accessToken string) ([]types.Answer, error)
}

type AnswerServiceImpl struct {
	logger *slog.Logger
	guard  auth.Guard
	repo   AnswerRepo
}

func NewAnswerService(repo AnswerRepo, guard auth.Guard, logger *slog.Logger) *AnswerServiceImpl {
	return &AnswerServiceImpl{
		logger: logger,
		guard:  guard,
		repo:   repo,
	}
}

func (s *AnswerServiceImpl) Create(ctx context.Context, answerContent, questionUUID, accessToken string) (*types.Answer, error) {
	ctx, span := otel.Tracer("AnswerService").Start(ctx, "Create", trace.WithAttributes(
		attribute.String("question.uuid", questionUUID),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Create"), slog.String("questionUUID", questionUUID))

	question, err := s.repo.GetQuestion(ctx, questionUUID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "Question not found")
			return nil, types.NewDomainError(types.ErrNotFound, "QUES-001",
				"The question entered is invalid")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Question lookup failed")
		return nil, fmt.Errorf("error fetching question: %w", err)
	}

	session, err := s.guard.CheckAuthorization(ctx, accessToken,
		"User is signed out.Sign in first to post an answer")
	if err != nil {
		span.SetStatus(codes.Error, "Authorization failed")
		return nil, err
	}

	answer := &types.Answer{
		UUID:         uuid.NewString(),
		Answer:       answerContent,
		Date:         time.Now(),
		UserID:       session.User.ID,
		OwnerUUID:    session.User.UUID,
		QuestionID:   question.ID,
		QuestionUUID: question.UUID,
	}
	created, err := s.repo.Create(ctx, answer)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create answer", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create answer")
		return nil, err
	}

	l.InfoContext(ctx, "Answer created", slog.String("answerUUID", created.UUID))
	span.SetStatus(codes.Ok, "Answer created")
	return created, nil
}

func (s *AnswerServiceImpl) EditContent(ctx context.Context, answerUUID, content, accessToken string) (*types.Answer, error) {
	ctx, span := otel.Tracer("AnswerService").Start(ctx, "EditContent", trace.WithAttributes(
		attribute.String("answer.uuid", answerUUID),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "EditContent"), slog.String("answerUUID", answerUUID))

	session, err := s.guard.CheckAuthorization(ctx, accessToken,
		"User is signed out.Sign in first to edit an answer")
	if err != nil {
		span.SetStatus(codes.Error, "Authorization failed")
		return nil, err
	}

	answer, err := s.repo.GetByUUID(ctx, answerUUID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "Answer not found")
			return nil, types.NewDomainError(types.ErrNotFound, "ANS-001",
				"Entered answer uuid does not exist")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Answer lookup failed")
		return nil, fmt.Errorf("error fetching answer: %w", err)
	}

	if answer.OwnerUUID != session.User.UUID {
		l.WarnContext(ctx, "Edit denied, caller is not the owner",
			slog.String("callerUUID", session.User.UUID))
		span.SetStatus(codes.Error, "Not the owner")
		return nil, types.NewDomainError(types.ErrUnauthorized, "ATHR-003",
			"Only the answer owner can edit the answer")
	}

	if err := s.repo.UpdateContent(ctx, answerUUID, content); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update answer")
		return nil, err
	}
	answer.Answer = content

	l.InfoContext(ctx, "Answer edited")
	span.SetStatus(codes.Ok, "Answer edited")
	return answer, nil
}

func (s *AnswerServiceImpl) Delete(ctx context.Context, answerUUID, accessToken string) (*types.Answer, error) {
	ctx, span := otel.Tracer("AnswerService").Start(ctx, "Delete", trace.WithAttributes(
		attribute.String("answer.uuid", answerUUID),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Delete"), slog.String("answerUUID", answerUUID))

	session, err := s.guard.CheckAuthorization(ctx, accessToken,
		"User is signed out.Sign in first to delete an answer")
	if err != nil {
		span.SetStatus(codes.Error, "Authorization failed")
		return nil, err
	}

	answer, err := s.repo.GetByUUID(ctx, answerUUID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "Answer not found")
			return nil, types.NewDomainError(types.ErrNotFound, "ANS-001",
				"Entered answer uuid does not exist")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Answer lookup failed")
		return nil, fmt.Errorf("error fetching answer: %w", err)
	}

	if answer.OwnerUUID != session.User.UUID && session.User.Role != types.RoleAdmin {
		l.WarnContext(ctx, "Delete denied, caller is neither owner nor admin",
			slog.String("callerUUID", session.User.UUID))
		span.SetStatus(codes.Error, "Not owner or admin")
		return nil, types.NewDomainError(types.ErrUnauthorized, "ATHR-003",
			"Only the answer owner or admin can delete the answer")
	}

	if err := s.repo.Delete(ctx, answerUUID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete answer")
		return nil, err
	}

	l.InfoContext(ctx, "Answer deleted")
	span.SetStatus(codes.Ok, "Answer deleted")
	return answer, nil
}

func (s *AnswerServiceImpl) GetAllForQuestion(ctx context.Context, questionUUID, accessToken string) ([]types.Answer, error) {
	ctx, span := otel.Tracer("AnswerService").Start(ctx, "GetAllForQuestion", trace.WithAttributes(
		attribute.String("question.uuid", questionUUID),
	))
	defer span.End()

	question, err := s.repo.GetQuestion(ctx, questionUUID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "Question not found")
			return nil, types.NewDomainError(types.ErrNotFound, "QUES-001",
				"The question with entered uuid whose details are to be seen does not exist")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Question lookup failed")
		return nil, fmt.Errorf("error fetching question: %w", err)
	}

	if _, err := s.guard.CheckAuthorization(ctx, accessToken,
		"User is signed out.Sign in first to get the answers"); err != nil {
		span.SetStatus(codes.Error, "Authorization failed")
		return nil, err
	}

	answers, err := s.repo.GetAllForQuestion(ctx, question.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list answers")
		return nil, err
	}

	span.SetStatus(codes.Ok, "Answers listed")
	return answers, nil
}
