package appointment

import "time"

type CreateAppointmentRequest struct {
	Title             string `json:"title" binding:"required,max=255"`
	Notes             string `json:"notes"`
	ParticipantUserID string `json:"participantUserId" binding:"required,uuid"`
	StartsAt          string `json:"startsAt" binding:"required"`
	EndsAt            string `json:"endsAt" binding:"required"`
	Location          string `json:"location" binding:"max=255"`
}

type UpdateAppointmentRequest struct {
	Title    string `json:"title" binding:"required,max=255"`
	Notes    string `json:"notes"`
	StartsAt string `json:"startsAt" binding:"required"`
	EndsAt   string `json:"endsAt" binding:"required"`
	Location string `json:"location" binding:"max=255"`
}

type AppointmentResponse struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	Notes             string `json:"notes"`
	ParticipantUserID string `json:"participantUserId"`
	StartsAt          string `json:"startsAt"`
	EndsAt            string `json:"endsAt"`
	Location          string `json:"location"`
	CreatedBy         string `json:"createdBy"`
	CreatedAt         string `json:"createdAt"`
}

func mapToResponse(a Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:                a.ID.String(),
		Title:             a.Title,
		Notes:             a.Notes,
		ParticipantUserID: a.ParticipantUserID.String(),
		StartsAt:          a.StartsAt.Format(time.RFC3339),
		EndsAt:            a.EndsAt.Format(time.RFC3339),
		Location:          a.Location,
		CreatedBy:         a.CreatedBy.String(),
		CreatedAt:         a.CreatedAt.Format(time.RFC3339),
	}
}
