package question

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

var _ QuestionRepo = (*PostgresQuestionRepo)(nil)

// QuestionRepo is the entity-store contract for questions. Single-row
// lookups return ErrNotFound-wrapped errors when no row matches; list
// operations return empty slices, never an error, for zero rows.
type QuestionRepo interface {
	Create(ctx context.Context, question *types.Question) (*types.Question, error)
	GetByUUID(ctx context.Context, questionUUID string) (*types.Question, error)
	GetAll(ctx context.Context) ([]types.Question, error)
	GetAllByUser(ctx context.Context, userID int64) ([]types.Question, error)
	GetUserIDByUUID(ctx context.Context, userUUID string) (int64, error)
	UpdateContent(ctx context.Context, questionUUID, content string) error
	Delete(ctx context.Context, questionUUID string) error
}

type PostgresQuestionRepo struct {
	logger *slog.Logger
	pgpool database.PGX
}

func NewPostgresQuestionRepo(pgpool database.PGX, logger *slog.Logger) *PostgresQuestionRepo {
	return &PostgresQuestionRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresQuestionRepo) Create(ctx context.Context, question *types.Question) (*types.Question, error) {
	ctx, span := otel.Tracer("QuestionRepo").Start(ctx, "Create", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "question"),
	))
	defer span.End()

	err := r.pgpool.QueryRow(ctx,
		`INSERT INTO question (uuid, content, date, user_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		question.UUID, question.Content, question.Date, question.UserID,
	).Scan(&question.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return nil, fmt.Errorf("database error creating question: %w", err)
	}

	span.SetStatus(codes.Ok, "Question created")
	return question, nil
}

// GetByUUID resolves the question together with its owner's public id so
// the service can enforce ownership without a second round trip.
func (r *PostgresQuestionRepo) GetByUUID(ctx context.Context, questionUUID string) (*types.Question, error) {
	ctx, span := otel.Tracer("QuestionRepo").Start(ctx, "GetByUUID", trace.WithAttributes(
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

func (r *PostgresQuestionRepo) GetAll(ctx context.Context) ([]types.Question, error) {
	ctx, span := otel.Tracer("QuestionRepo").Start(ctx, "GetAll", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "question"),
	))
	defer span.End()

	rows, err := r.pgpool.Query(ctx,
		`SELECT q.id, q.uuid, q.content, q.date, q.user_id, u.uuid
		 FROM question q
		 JOIN users u ON u.id = q.user_id
		 ORDER BY q.id`)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error listing questions: %w", err)
	}
	defer rows.Close()

	questions, err := scanQuestions(rows)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Row scan failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "Questions listed")
	return questions, nil
}

func (r *PostgresQuestionRepo) GetAllByUser(ctx context.Context, userID int64) ([]types.Question, error) {
	ctx, span := otel.Tracer("QuestionRepo").Start(ctx, "GetAllByUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "question"),
	))
	defer span.End()

	rows, err := r.pgpool.Query(ctx,
		`SELECT q.id, q.uuid, q.content, q.date, q.user_id, u.uuid
		 FROM question q
		 JOIN users u ON u.id = q.user_id
		 WHERE q.user_id = $1
		 ORDER BY q.id`,
		userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error listing user questions: %w", err)
	}
	defer rows.Close()

	questions, err := scanQuestions(rows)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Row scan failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "User questions listed")
	return questions, nil
}

func scanQuestions(rows pgx.Rows) ([]types.Question, error) {
	questions := make([]types.Question, 0)
	for rows.Next() {
		var q types.Question
		if err := rows.Scan(&q.ID, &q.UUID, &q.Content, &q.Date, &q.UserID, &q.OwnerUUID); err != nil {
			return nil, fmt.Errorf("error scanning question row: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating question rows: %w", err)
	}
	return questions, nil
}

func (r *PostgresQuestionRepo) GetUserIDByUUID(ctx context.Context, userUUID string) (int64, error) {
	ctx, span := otel.Tracer("QuestionRepo").Start(ctx, "GetUserIDByUUID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	var id int64
	err := r.pgpool.QueryRow(ctx, "SELECT id FROM users WHERE uuid = $1", userUUID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "User not found")
			return 0, fmt.Errorf("user not found: %w", types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return 0, fmt.Errorf("database error fetching user id: %w", err)
	}

	span.SetStatus(codes.Ok, "User id fetched")
	return id, nil
}

// UpdateContent rewrites the question text inside an explicit transaction
// scope so the edit is one unit with any future audit write.
func (r *PostgresQuestionRepo) UpdateContent(ctx context.Context, questionUUID, content string) error {
	ctx, span := otel.Tracer("QuestionRepo").Start(ctx, "UpdateContent", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "question"),
	))
	defer span.End()

	err := pgx.BeginFunc(ctx, r.pgpool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			"UPDATE question SET content = $1, date = $2 WHERE uuid = $3",
			content, time.Now(), questionUUID)
		if err != nil {
			return fmt.Errorf("database error updating question: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("question not found: %w", types.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return err
	}

	span.SetStatus(codes.Ok, "Question updated")
	return nil
}

// Delete removes the question row; its answers go with it through the
// store's foreign-key cascade.
func (r *PostgresQuestionRepo) Delete(ctx context.Context, questionUUID string) error {
	ctx, span := otel.Tracer("QuestionRepo").Start(ctx, "Delete", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "question"),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx, "DELETE FROM question WHERE uuid = $1", questionUUID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB DELETE failed")
		return fmt.Errorf("database error deleting question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Question not found")
		return fmt.Errorf("question not found: %w", types.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Question deleted")
	return nil
}
