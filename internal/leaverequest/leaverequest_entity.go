package leaverequest

import (
	"time"

	"github.com/google/uuid"
)

type LeaveRequest struct {
	ID         uuid.UUID
	EmployeeID uuid.UUID
	// EmployeeName is denormalized at create time so listings never
	// join against the employees table.
	EmployeeName string
	LeaveTypeID  uuid.UUID

	StartDate time.Time
	EndDate   time.Time
	TotalDays int
	Reason    string

	Status          string
	CreatedBy       uuid.UUID
	ApprovedBy      *uuid.UUID
	ApprovedAt      *time.Time
	RejectionReason *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BalanceYear is the ledger year a request draws from. A request is
// attributed entirely to the year it starts in.
func (l LeaveRequest) BalanceYear() int {
	return l.StartDate.Year()
}
