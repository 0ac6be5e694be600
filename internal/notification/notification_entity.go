package notification

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeLeaveRequestCreated  = "leave_request_created"
	TypeLeaveRequestApproved = "leave_request_approved"
	TypeLeaveRequestRejected = "leave_request_rejected"
	TypeAppointmentCreated   = "appointment_created"
)

// Notification is an in-app message for one user. Rows are written by
// the emitter, flipped to read by the recipient and never deleted.
type Notification struct {
	ID              uuid.UUID
	RecipientUserID uuid.UUID
	Type            string
	Message         string
	Link            string
	Read            bool
	DispatchedAt    *time.Time
	CreatedAt       time.Time
}
