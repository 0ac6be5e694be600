package leavetype

import (
	"time"

	"github.com/google/uuid"
)

// LeaveType is immutable reference data: rows are created once and never
// updated or deleted while balances or requests reference them.
type LeaveType struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(100);not null;uniqueIndex:uq_leave_type_name"`
	CreatedAt time.Time
}
