package answer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/go-quora-api/app/db"
	"github.com/FACorreiaa/go-quora-api/internal/types"
)

var _ AnswerRepo = (*PostgresAnswerRepo)(nil)

// AnswerRepo is the entity-store contract for answers. GetQuestion resolves
// the parent question so the service can report an invalid question before
// anything else.
type AnswerRepo interface {
	Create(ctx context.Context, answer *types.Answer) (*types.Answer, error)
	GetByUUID(ctx context.Context, answerUUID string) (*types.Answer, error)
	GetQuestion(ctx context.Context, questionUUID string) (*types.Question, error)
	GetAllForQuestion(ctx context.Context, questionID int64) ([]types.Answer, error)
	UpdateContent(ctx context.Context, answerUUID, content string) error
	Delete(ctx context.Context, answerUUID string) error
}

type PostgresAnswerRepo struct {
	logger *slog.Logger
	pgpool database.PGX
}

func NewPostgresAnswerRepo(pgpool database.PGX, logger *slog.Logger) *PostgresAnswerRepo {
	return &PostgresAnswerRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresAnswerRepo) Create(ctx context.Context, answer *types.Answer) (*types.Answer, error) {
	ctx, span := otel.Tracer("AnswerRepo").Start(ctx, "Create", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "answer"),
	))
	defer span.End()

	err := r.pgpool.QueryRow(ctx,
		`INSERT INTO answer (uuid, ans, date, user_id, question_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		answer.UUID, answer.Answer, answer.Date, answer.UserID, answer.QuestionID,
	).Scan(&answer.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return nil, fmt.Errorf("database error creating answer: %w", err)
	}

	span.SetStatus(codes.Ok, "Answer created")
	return answer, nil
}

// GetByUUID resolves the answer together with its owner's and question's
// public ids so the service can enforce ownership without extra round trips.
func (r *PostgresAnswerRepo) GetByUUID(ctx context.Context, answerUUID string) (*types.Answer, error) {
	ctx, span := otel.Tracer("AnswerRepo").Start(ctx, "GetByUUID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "answer"),
	))
	defer span.End()

	var a types.Answer
	err := r.pgpool.QueryRow(ctx,
		`SELECT a.id, a.uuid, a.ans, a.date, a.user_id, u.uuid, a.question_id, q.uuid, q.content
		 FROM answer a
		 JOIN users u ON u.id = a.user_id
		 JOIN question q ON q.id = a.question_id
		 WHERE a.uuid = $1`,
		answerUUID,
	).Scan(&a.ID, &a.UUID, &a.Answer, &a.Date, &a.UserID, &a.OwnerUUID,
		&a.QuestionID, &a.QuestionUUID, &a.QuestionContent)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Answer not found")
			return nil, fmt.Errorf("answer not found: %w", types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error fetching answer: %w", err)
	}

	span.SetStatus(codes.Ok, "Answer fetched")
	return &a, nil
}

func (r *PostgresAnswerRepo) GetQuestion(ctx context.Context, questionUUID string) (*types.Question, error) {
	ctx, span := otel.Tracer("AnswerRepo").Start(ctx, "GetQuestion", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "question"),
	))
	defer span.End()

	var q types.Question
	err := r.pgpool.QueryRow(ctx,
		`SELECT q.id, q.uuid, q.content, q.date, q.user_id, u.uuid
		 FROM question q
		 JOIN users u ON u.id = q.user_id
		 WHERE q.uuid = $1`,
		questionUUID,
	).Scan(&q.ID, &q.UUID, &q.Content, &q.Date, &q.UserID, &q.OwnerUUID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Question not found")
			return nil, fmt.Errorf("question not found: %w", types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error fetching question: %w", err)
	}

	span.SetStatus(codes.Ok, "Question fetched")
	return &q, nil
}

func (r *PostgresAnswerRepo) GetAllForQuestion(ctx context.Context, questionID int64) ([]types.Answer, error) {
	ctx, span := otel.Tracer("AnswerRepo").Start(ctx, "GetAllForQuestion", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "answer"),
	))
	defer span.End()

	rows, err := r.pgpool.Query(ctx,
		`SELECT a.id, a.uuid, a.ans, a.date, a.user_id, u.uuid, a.question_id, q.uuid, q.content
		 FROM answer a
		 JOIN users u ON u.id = a.user_id
		 JOIN question q ON q.id = a.question_id
		 WHERE a.question_id = $1
		 ORDER BY a.id`,
		questionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error listing answers: %w", err)
	}
	defer rows.Close()

	answers := make([]types.Answer, 0)
	for rows.Next() {
		var a types.Answer
		if err := rows.Scan(&a.ID, &a.UUID, &a.Answer, &a.Date, &a.UserID, &a.OwnerUUID,
			&a.QuestionID, &a.QuestionUUID, &a.QuestionContent); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Row scan failed")
			return nil, fmt.Errorf("error scanning answer row: %w", err)
		}
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Row iteration failed")
		return nil, fmt.Errorf("error iterating answer rows: %w", err)
	}

	span.SetStatus(codes.Ok, "Answers listed")
	return answers, nil
}

// UpdateContent rewrites the answer text inside an explicit transaction
// scope, re-stamping the date.
func (r *PostgresAnswerRepo) UpdateContent(ctx context.Context, answerUUID, content string) error {
	ctx, span := otel.Tracer("AnswerRepo").Start(ctx, "UpdateContent", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "answer"),
	))
	defer span.End()

	err := pgx.BeginFunc(ctx, r.pgpool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			"UPDATE answer SET ans = $1, date = $2 WHERE uuid = $3",
			content, time.Now(), answerUUID)
		if err != nil {
			return fmt.Errorf("database error updating answer: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("answer not found: %w", types.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return err
	}

	span.SetStatus(codes.Ok, "Answer updated")
	return nil
}

func (r *PostgresAnswerRepo) Delete(ctx context.Context, answerUUID string) error {
	ctx, span := otel.Tracer("AnswerRepo").Start(ctx, "Delete", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "answer"),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx, "DELETE FROM answer WHERE uuid = $1", answerUUID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB DELETE failed")
		return fmt.Errorf("database error deleting answer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Answer not found")
		return fmt.Errorf("answer not found: %w", types.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Answer deleted")
	return nil
}
