package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-quora-api/internal/types"
)

func setupAuthRepoTest(t *testing.T) (*PostgresAuthRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPostgresAuthRepo(mockPool, logger), mockPool
}

func userRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "uuid", "firstname", "lastname", "username", "email", "password", "salt",
		"country", "aboutme", "dob", "role", "contactnumber",
	})
}

func TestPostgresAuthRepo_GetUserByUsername(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo, mockPool := setupAuthRepoTest(t)
		mockPool.ExpectQuery(`FROM users WHERE username = \$1`).
			WithArgs("rahul").
			WillReturnRows(userRows().AddRow(
				int64(1), "user-uuid-1", "Rahul", "Sharma", "rahul", "rahul@example.com",
				"hash", "salt", "India", "about", "1990-01-01", "nonadmin", "9998887776",
			))

		user, err := repo.GetUserByUsername(ctx, "rahul")
		require.NoError(t, err)
		assert.Equal(t, "user-uuid-1", user.UUID)
		assert.Equal(t, "rahul", user.Username)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("no row maps to not found", func(t *testing.T) {
		repo, mockPool := setupAuthRepoTest(t)
		mockPool.ExpectQuery(`FROM users WHERE username = \$1`).
			WithArgs("ghost").
			WillReturnRows(userRows())

		_, err := repo.GetUserByUsername(ctx, "ghost")
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrNotFound))
		require.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPostgresAuthRepo_CreateUser(t *testing.T) {
	ctx := context.Background()
	user := &types.User{
		UUID: "user-uuid-1", FirstName: "Rahul", LastName: "Sharma",
		Username: "rahul", Email: "rahul@example.com", Password: "hash", Salt: "salt",
		Country: "India", AboutMe: "about", DOB: "1990-01-01",
		Role: types.RoleNonAdmin, ContactNumber: "9998887776",
	}

	t.Run("success", func(t *testing.T) {
		repo, mockPool := setupAuthRepoTest(t)
		mockPool.ExpectBegin()
		mockPool.ExpectQuery("INSERT INTO users").
			WithArgs(user.UUID, user.FirstName, user.LastName, user.Username, user.Email,
				user.Password, user.Salt, user.Country, user.AboutMe, user.DOB,
				user.Role, user.ContactNumber).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))
		mockPool.ExpectCommit()
		// BeginFunc's deferred cleanup still calls Rollback after the commit.
		mockPool.ExpectRollback()

		created, err := repo.CreateUser(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, int64(7), created.ID)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("username unique violation", func(t *testing.T) {
		repo, mockPool := setupAuthRepoTest(t)
		mockPool.ExpectBegin()
		mockPool.ExpectQuery("INSERT INTO users").
			WithArgs(user.UUID, user.FirstName, user.LastName, user.Username, user.Email,
				user.Password, user.Salt, user.Country, user.AboutMe, user.DOB,
				user.Role, user.ContactNumber).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})
		// BeginFunc rolls back on the insert error and again in its deferred cleanup.
		mockPool.ExpectRollback()
		mockPool.ExpectRollback()

		_, err := repo.CreateUser(ctx, user)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrConflict))
		de, ok := types.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "SGR-001", de.Code)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("email unique violation", func(t *testing.T) {
		repo, mockPool := setupAuthRepoTest(t)
		mockPool.ExpectBegin()
		mockPool.ExpectQuery("INSERT INTO users").
			WithArgs(user.UUID, user.FirstName, user.LastName, user.Username, user.Email,
				user.Password, user.Salt, user.Country, user.AboutMe, user.DOB,
				user.Role, user.ContactNumber).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
		mockPool.ExpectRollback()
		mockPool.ExpectRollback()

		_, err := repo.CreateUser(ctx, user)
		require.Error(t, err)
		de, ok := types.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "SGR-002", de.Code)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPostgresAuthRepo_GetSessionByToken(t *testing.T) {
	ctx := context.Background()

	t.Run("success resolves the user", func(t *testing.T) {
		repo, mockPool := setupAuthRepoTest(t)
		loginAt := time.Now()
		mockPool.ExpectQuery("FROM user_auth ua").
			WithArgs("tok").
			WillReturnRows(pgxmock.NewRows([]string{
				"id", "uuid", "access_token", "login_at", "expires_at", "logout_at",
				"u_id", "u_uuid", "firstname", "lastname", "username", "email", "password", "salt",
				"country", "aboutme", "dob", "role", "contactnumber",
			}).AddRow(
				int64(3), "session-uuid-1", "tok", loginAt, loginAt.Add(10*time.Hour), nil,
				int64(1), "user-uuid-1", "Rahul", "Sharma", "rahul", "rahul@example.com", "hash", "salt",
				"India", "about", "1990-01-01", "nonadmin", "9998887776",
			))

		session, err := repo.GetSessionByToken(ctx, "tok")
		require.NoError(t, err)
		assert.Equal(t, "session-uuid-1", session.UUID)
		require.NotNil(t, session.User)
		assert.Equal(t, "user-uuid-1", session.User.UUID)
		assert.True(t, session.Active())
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("unknown token maps to not found", func(t *testing.T) {
		repo, mockPool := setupAuthRepoTest(t)
		mockPool.ExpectQuery("FROM user_auth ua").
			WithArgs("nope").
			WillReturnRows(pgxmock.NewRows([]string{"id"}))

		_, err := repo.GetSessionByToken(ctx, "nope")
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrNotFound))
		require.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPostgresAuthRepo_SetSessionLogout(t *testing.T) {
	ctx := context.Background()
	logoutAt := time.Now()

	t.Run("success", func(t *testing.T) {
		repo, mockPool := setupAuthRepoTest(t)
		mockPool.ExpectExec("UPDATE user_auth SET logout_at").
			WithArgs(logoutAt, "tok").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, repo.SetSessionLogout(ctx, "tok", logoutAt))
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("missing session maps to not found", func(t *testing.T) {
		repo, mockPool := setupAuthRepoTest(t)
		mockPool.ExpectExec("UPDATE user_auth SET logout_at").
			WithArgs(logoutAt, "nope").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.SetSessionLogout(ctx, "nope", logoutAt)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrNotFound))
		require.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPostgresAuthRepo_DeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo, mockPool := setupAuthRepoTest(t)
		mockPool.ExpectExec("DELETE FROM users WHERE uuid").
			WithArgs("user-uuid-1").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		require.NoError(t, repo.DeleteUser(ctx, "user-uuid-1"))
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("missing user maps to not found", func(t *testing.T) {
		repo, mockPool := setupAuthRepoTest(t)
		mockPool.ExpectExec("DELETE FROM users WHERE uuid").
			WithArgs("ghost-uuid").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := repo.DeleteUser(ctx, "ghost-uuid")
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrNotFound))
		require.NoError(t, mockPool.ExpectationsWereMet())
	})
}
