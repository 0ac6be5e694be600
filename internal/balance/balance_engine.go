package balance

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
)

// Engine applies balance movements for the leave request lifecycle.
// Every method runs against the caller's transaction so a failed
// movement rolls back together with the request change that caused it.
type Engine struct {
	repo Repository
}

func NewEngine(repo Repository) *Engine {
	return &Engine{repo: repo}
}

// Reserve debits days from the remaining balance of key.
func (e *Engine) Reserve(ctx context.Context, tx *sql.Tx, key Key, days int) error {
	return e.repo.WithTx(tx).ApplyDelta(ctx, key, decimal.NewFromInt(int64(days)))
}

// Release credits previously reserved days back to key.
func (e *Engine) Release(ctx context.Context, tx *sql.Tx, key Key, days int) error {
	return e.repo.WithTx(tx).ApplyDelta(ctx, key, decimal.NewFromInt(int64(days)).Neg())
}

// Adjust moves a reservation from (oldKey, oldDays) to (newKey, newDays).
// On the same key it applies only the net difference, so an unchanged
// duration touches nothing. Across keys it releases the old reservation
// first and then reserves against the new one; if the new reservation
// fails the caller's rollback restores the released days.
func (e *Engine) Adjust(ctx context.Context, tx *sql.Tx, oldKey Key, oldDays int, newKey Key, newDays int) error {
	repo := e.repo.WithTx(tx)

	if oldKey == newKey {
		diff := decimal.NewFromInt(int64(newDays - oldDays))
		if diff.IsZero() {
			return nil
		}
		return repo.ApplyDelta(ctx, oldKey, diff)
	}

	if err := repo.ApplyDelta(ctx, oldKey, decimal.NewFromInt(int64(oldDays)).Neg()); err != nil {
		return err
	}
	return repo.ApplyDelta(ctx, newKey, decimal.NewFromInt(int64(newDays)))
}
