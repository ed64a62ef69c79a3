package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/go-quora-api/app/db"
	"github.com/FACorreiaa/go-quora-api/internal/types"
)

var _ AuthRepo = (*PostgresAuthRepo)(nil)

// AuthRepo is the entity-store contract for users and bearer-token sessions.
// Lookups return ErrNotFound-wrapped errors when no row matches; CreateUser
// maps store-level uniqueness violations to the same conflict failures the
// service pre-checks produce, so races lose cleanly.
type AuthRepo interface {
	GetUserByUsername(ctx context.Context, username string) (*types.User, error)
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)
	GetUserByUUID(ctx context.Context, userUUID string) (*types.User, error)
	CreateUser(ctx context.Context, user *types.User) (*types.User, error)
	DeleteUser(ctx context.Context, userUUID string) error
	CreateSession(ctx context.Context, session *types.AuthSession) (*types.AuthSession, error)
	GetSessionByToken(ctx context.Context, accessToken string) (*types.AuthSession, error)
	SetSessionLogout(ctx context.Context, accessToken string, logoutAt time.Time) error
}

type PostgresAuthRepo struct {
	logger *slog.Logger
	pgpool database.PGX
}

func NewPostgresAuthRepo(pgpool database.PGX, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

const userColumns = `id, uuid, firstname, lastname, username, email, password, salt,
       country, aboutme, dob, role, contactnumber`

func scanUser(row pgx.Row) (*types.User, error) {
	var u types.User
	err := row.Scan(
		&u.ID, &u.UUID, &u.FirstName, &u.LastName, &u.Username, &u.Email,
		&u.Password, &u.Salt, &u.Country, &u.AboutMe, &u.DOB, &u.Role, &u.ContactNumber,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PostgresAuthRepo) getUserBy(ctx context.Context, column, value string) (*types.User, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "GetUserBy", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
		attribute.String("db.lookup.column", column),
	))
	defer span.End()

	query := fmt.Sprintf("SELECT %s FROM users WHERE %s = $1", userColumns, column)
	user, err := scanUser(r.pgpool.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "User not found")
			return nil, fmt.Errorf("user not found: %w", types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}

	span.SetStatus(codes.Ok, "User fetched")
	return user, nil
}

func (r *PostgresAuthRepo) GetUserByUsername(ctx context.Context, username string) (*types.User, error) {
	return r.getUserBy(ctx, "username", username)
}

func (r *PostgresAuthRepo) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	return r.getUserBy(ctx, "email", email)
}

func (r *PostgresAuthRepo) GetUserByUUID(ctx context.Context, userUUID string) (*types.User, error) {
	return r.getUserBy(ctx, "uuid", userUUID)
}

// CreateUser inserts the user inside an explicit transaction so the insert
// and its surrogate-id read are one unit. Unique-constraint violations map
// to the signup conflict failures; the constraint name decides which one.
func (r *PostgresAuthRepo) CreateUser(ctx context.Context, user *types.User) (*types.User, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "CreateUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "CreateUser"), slog.String("username", user.Username))

	err := pgx.BeginFunc(ctx, r.pgpool, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx,
			`INSERT INTO users (uuid, firstname, lastname, username, email, password, salt,
			                    country, aboutme, dob, role, contactnumber)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			 RETURNING id`,
			user.UUID, user.FirstName, user.LastName, user.Username, user.Email,
			user.Password, user.Salt, user.Country, user.AboutMe, user.DOB,
			user.Role, user.ContactNumber,
		).Scan(&user.ID)
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			l.WarnContext(ctx, "Unique constraint violation on signup", slog.String("constraint", pgErr.ConstraintName))
			span.SetStatus(codes.Error, "Signup conflict")
			if strings.Contains(pgErr.ConstraintName, "email") {
				return nil, types.NewDomainError(types.ErrConflict, "SGR-002",
					"This user has already been registered, try with any other emailId")
			}
			return nil, types.NewDomainError(types.ErrConflict, "SGR-001",
				"Try any other Username, this Username has already been taken")
		}
		l.ErrorContext(ctx, "Failed to insert user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return nil, fmt.Errorf("database error creating user: %w", err)
	}

	span.SetStatus(codes.Ok, "User created")
	return user, nil
}

// DeleteUser removes the user row; questions, answers and sessions go with
// it through the store's foreign-key cascade.
func (r *PostgresAuthRepo) DeleteUser(ctx context.Context, userUUID string) error {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "DeleteUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx, "DELETE FROM users WHERE uuid = $1", userUUID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB DELETE failed")
		return fmt.Errorf("database error deleting user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "User not found")
		return fmt.Errorf("user not found: %w", types.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "User deleted")
	return nil
}

func (r *PostgresAuthRepo) CreateSession(ctx context.Context, session *types.AuthSession) (*types.AuthSession, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "CreateSession", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "user_auth"),
	))
	defer span.End()

	err := r.pgpool.QueryRow(ctx,
		`INSERT INTO user_auth (uuid, user_id, access_token, login_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		session.UUID, session.User.ID, session.AccessToken, session.LoginAt, session.ExpiresAt,
	).Scan(&session.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return nil, fmt.Errorf("database error creating session: %w", err)
	}

	span.SetStatus(codes.Ok, "Session created")
	return session, nil
}

func (r *PostgresAuthRepo) GetSessionByToken(ctx context.Context, accessToken string) (*types.AuthSession, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "GetSessionByToken", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "user_auth"),
	))
	defer span.End()

	var s types.AuthSession
	var u types.User
	err := r.pgpool.QueryRow(ctx,
		`SELECT ua.id, ua.uuid, ua.access_token, ua.login_at, ua.expires_at, ua.logout_at,
		        u.id, u.uuid, u.firstname, u.lastname, u.username, u.email, u.password, u.salt,
		        u.country, u.aboutme, u.dob, u.role, u.contactnumber
		 FROM user_auth ua
		 JOIN users u ON u.id = ua.user_id
		 WHERE ua.access_token = $1`,
		accessToken,
	).Scan(
		&s.ID, &s.UUID, &s.AccessToken, &s.LoginAt, &s.ExpiresAt, &s.LogoutAt,
		&u.ID, &u.UUID, &u.FirstName, &u.LastName, &u.Username, &u.Email, &u.Password, &u.Salt,
		&u.Country, &u.AboutMe, &u.DOB, &u.Role, &u.ContactNumber,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Session not found")
			return nil, fmt.Errorf("session not found: %w", types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error fetching session: %w", err)
	}

	s.User = &u
	span.SetStatus(codes.Ok, "Session fetched")
	return &s, nil
}

// SetSessionLogout stamps logout_at on the session row. Intentionally not
// filtered on logout_at IS NULL: repeated sign-out re-stamps the timestamp,
// only an unknown token is an error at the service layer.
func (r *PostgresAuthRepo) SetSessionLogout(ctx context.Context, accessToken string, logoutAt time.Time) error {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "SetSessionLogout", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "user_auth"),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx,
		"UPDATE user_auth SET logout_at = $1 WHERE access_token = $2",
		logoutAt, accessToken)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return fmt.Errorf("database error updating session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Session not found")
		return fmt.Errorf("session not found: %w", types.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Session logged out")
	return nil
}
