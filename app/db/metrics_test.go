package database

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithMetrics_PassThrough(t *testing.T) {
	ctx := context.Background()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	db := WithMetrics(mockPool)

	t.Run("exec result and error pass through", func(t *testing.T) {
		mockPool.ExpectExec("UPDATE user_auth").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		tag, err := db.Exec(ctx, "UPDATE user_auth SET logout_at = now()")
		require.NoError(t, err)
		assert.Equal(t, int64(1), tag.RowsAffected())

		execErr := errors.New("connection reset")
		mockPool.ExpectExec("UPDATE user_auth").WillReturnError(execErr)

		_, err = db.Exec(ctx, "UPDATE user_auth SET logout_at = now()")
		assert.ErrorIs(t, err, execErr)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("query row scan passes through", func(t *testing.T) {
		mockPool.ExpectQuery("SELECT id FROM users").
			WithArgs("u").
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))

		var id int64
		require.NoError(t, db.QueryRow(ctx, "SELECT id FROM users WHERE uuid = $1", "u").Scan(&id))
		assert.Equal(t, int64(42), id)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("begin passes through", func(t *testing.T) {
		mockPool.ExpectBegin()
		mockPool.ExpectRollback()

		tx, err := db.Begin(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.Rollback(ctx))
		require.NoError(t, mockPool.ExpectationsWereMet())
	})
}
