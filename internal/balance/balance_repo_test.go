package balance_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/parryG11/hr/internal/balance"
	balanceerrors "github.com/parryG11/hr/internal/balance/errors"
)

func testKey() balance.Key {
	return balance.Key{
		EmployeeID:  uuid.New(),
		LeaveTypeID: uuid.New(),
		Year:        2024,
	}
}

func TestBalanceRepository_ApplyDelta(t *testing.T) {
	ctx := context.Background()

	t.Run("success applies the guarded update", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		assert.NoError(t, err)
		defer db.Close()

		key := testKey()
		mock.ExpectExec(`UPDATE leave_balances`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := balance.NewRepository(db)
		assert.NoError(t, repo.ApplyDelta(ctx, key, decimal.NewFromInt(5)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative missing row reports not found", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		assert.NoError(t, err)
		defer db.Close()

		key := testKey()
		mock.ExpectExec(`UPDATE leave_balances`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT allocated, used, created_at, updated_at`).
			WillReturnError(sql.ErrNoRows)

		repo := balance.NewRepository(db)
		err = repo.ApplyDelta(ctx, key, decimal.NewFromInt(5))
		assert.ErrorIs(t, err, balanceerrors.ErrBalanceNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative guard failure reports the shortfall", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		assert.NoError(t, err)
		defer db.Close()

		key := testKey()
		mock.ExpectExec(`UPDATE leave_balances`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		now := time.Now()
		mock.ExpectQuery(`SELECT allocated, used, created_at, updated_at`).
			WillReturnRows(sqlmock.NewRows([]string{"allocated", "used", "created_at", "updated_at"}).
				AddRow("20", "18", now, now))

		repo := balance.NewRepository(db)
		err = repo.ApplyDelta(ctx, key, decimal.NewFromInt(5))
		assert.True(t, balanceerrors.IsInsufficientBalance(err))
		assert.Contains(t, err.Error(), "2 available")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success read after the debit reflects it exactly once", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		assert.NoError(t, err)
		defer db.Close()

		key := testKey()
		mock.ExpectExec(`UPDATE leave_balances`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		now := time.Now()
		mock.ExpectQuery(`SELECT allocated, used, created_at, updated_at`).
			WillReturnRows(sqlmock.NewRows([]string{"allocated", "used", "created_at", "updated_at"}).
				AddRow("20", "5", now, now))

		repo := balance.NewRepository(db)
		assert.NoError(t, repo.ApplyDelta(ctx, key, decimal.NewFromInt(5)))

		b, err := repo.Get(ctx, key)
		assert.NoError(t, err)
		assert.Equal(t, "5", b.Used.String())
		assert.Equal(t, "15", b.Remaining().String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBalanceRepository_Allocate(t *testing.T) {
	ctx := context.Background()

	t.Run("negative rejects a negative allocation", func(t *testing.T) {
		db, _, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		repo := balance.NewRepository(db)
		_, err = repo.Allocate(ctx, testKey(), decimal.NewFromInt(-1))
		assert.ErrorIs(t, err, balanceerrors.ErrInvalidAllocation)
	})

	t.Run("negative refuses lowering allocated below used", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`INSERT INTO leave_balances`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := balance.NewRepository(db)
		_, err = repo.Allocate(ctx, testKey(), decimal.NewFromInt(3))
		assert.ErrorIs(t, err, balanceerrors.ErrInvalidAllocation)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
