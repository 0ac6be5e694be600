package balance

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	balanceerrors "github.com/parryG11/hr/internal/balance/errors"
)

//go:generate mockgen -source=balance_repo.go -destination=mock/balance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Get(ctx context.Context, key Key) (*LeaveBalance, error)
	ApplyDelta(ctx context.Context, key Key, delta decimal.Decimal) error
	Allocate(ctx context.Context, key Key, allocated decimal.Decimal) (*LeaveBalance, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]LeaveBalance, error)
}

type repository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

type querier interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

func (r *repository) querier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *repository) Get(ctx context.Context, key Key) (*LeaveBalance, error) {
	query := `
SELECT allocated, used, created_at, updated_at
FROM leave_balances
WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3
`

	b := LeaveBalance{
		EmployeeID:  key.EmployeeID,
		LeaveTypeID: key.LeaveTypeID,
		Year:        key.Year,
	}
	err := r.querier().QueryRowContext(ctx, query, key.EmployeeID, key.LeaveTypeID, key.Year).
		Scan(&b.Allocated, &b.Used, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, balanceerrors.ErrBalanceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ApplyDelta is the single mutation point of the ledger. The guarded
// UPDATE only commits a new `used` inside [0, allocated], and the row
// lock it takes serializes concurrent writers on the same key.
func (r *repository) ApplyDelta(ctx context.Context, key Key, delta decimal.Decimal) error {
	query := `
UPDATE leave_balances
SET used = used + $4, updated_at = NOW()
WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3
	AND used + $4 >= 0
	AND used + $4 <= allocated
`

	res, err := r.querier().ExecContext(ctx, query, key.EmployeeID, key.LeaveTypeID, key.Year, delta)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	// Nothing matched: either the row does not exist or the guard failed.
	// Re-read inside the same transaction to report which.
	b, err := r.Get(ctx, key)
	if err != nil {
		return err
	}
	if delta.IsPositive() {
		return balanceerrors.NewInsufficientBalance(delta, b.Remaining())
	}
	return balanceerrors.NewReleaseExceedsUsed(delta.Neg(), b.Used)
}

func (r *repository) Allocate(ctx context.Context, key Key, allocated decimal.Decimal) (*LeaveBalance, error) {
	if allocated.IsNegative() {
		return nil, balanceerrors.ErrInvalidAllocation
	}

	query := `
INSERT INTO leave_balances (employee_id, leave_type_id, year, allocated, used, created_at, updated_at)
VALUES ($1, $2, $3, $4, 0, NOW(), NOW())
ON CONFLICT (employee_id, leave_type_id, year) DO UPDATE
SET allocated = EXCLUDED.allocated, updated_at = NOW()
WHERE leave_balances.used <= EXCLUDED.allocated
`

	res, err := r.querier().ExecContext(ctx, query, key.EmployeeID, key.LeaveTypeID, key.Year, allocated)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// Lowering the allocation below what is already used would break
		// the used <= allocated invariant.
		return nil, balanceerrors.ErrInvalidAllocation
	}

	return r.Get(ctx, key)
}

func (r *repository) ListByEmployee(ctx context.Context, employeeID string) ([]LeaveBalance, error) {
	query := `
SELECT employee_id, leave_type_id, year, allocated, used, created_at, updated_at
FROM leave_balances
WHERE employee_id = $1
ORDER BY year DESC, leave_type_id
`

	rows, err := r.querier().QueryContext(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []LeaveBalance
	for rows.Next() {
		var b LeaveBalance
		if err := rows.Scan(
			&b.EmployeeID,
			&b.LeaveTypeID,
			&b.Year,
			&b.Allocated,
			&b.Used,
			&b.CreatedAt,
			&b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return balances, nil
}
