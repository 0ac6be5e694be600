package balance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Key identifies one ledger row: the balance of one employee for one
// leave type in one year.
type Key struct {
	EmployeeID  uuid.UUID
	LeaveTypeID uuid.UUID
	Year        int
}

// LeaveBalance is a ledger row. Remaining is always derived as
// allocated - used and never stored.
type LeaveBalance struct {
	EmployeeID  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	LeaveTypeID uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Year        int             `gorm:"primaryKey"`
	Allocated   decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	Used        decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}

func (b LeaveBalance) Remaining() decimal.Decimal {
	return b.Allocated.Sub(b.Used)
}
