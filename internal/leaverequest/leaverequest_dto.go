package leaverequest

import "time"

type CreateLeaveRequestRequest struct {
	EmployeeID  string `json:"employeeId" binding:"required,uuid"`
	LeaveTypeID string `json:"leaveTypeId" binding:"required,uuid"`
	StartDate   string `json:"startDate" binding:"required"`
	EndDate     string `json:"endDate" binding:"required"`
	Reason      string `json:"reason"`
}

// UpdateLeaveRequestRequest edits the details of a pending request.
// Status changes go through the dedicated transition endpoints.
type UpdateLeaveRequestRequest struct {
	LeaveTypeID string `json:"leaveTypeId" binding:"required,uuid"`
	StartDate   string `json:"startDate" binding:"required"`
	EndDate     string `json:"endDate" binding:"required"`
	Reason      string `json:"reason"`
}

type RejectLeaveRequestRequest struct {
	RejectionReason string `json:"rejectionReason" binding:"required"`
}

type ListFilter struct {
	EmployeeID string
	Status     string
}

type LeaveRequestResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employeeId"`
	EmployeeName    string  `json:"employeeName"`
	LeaveTypeID     string  `json:"leaveTypeId"`
	StartDate       string  `json:"startDate"`
	EndDate         string  `json:"endDate"`
	TotalDays       int     `json:"totalDays"`
	Reason          string  `json:"reason"`
	Status          string  `json:"status"`
	CreatedBy       string  `json:"createdBy"`
	ApprovedBy      *string `json:"approvedBy,omitempty"`
	ApprovedAt      *string `json:"approvedAt,omitempty"`
	RejectionReason *string `json:"rejectionReason,omitempty"`
	CreatedAt       string  `json:"createdAt"`
}

func mapToResponse(l LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:              l.ID.String(),
		EmployeeID:      l.EmployeeID.String(),
		EmployeeName:    l.EmployeeName,
		LeaveTypeID:     l.LeaveTypeID.String(),
		StartDate:       l.StartDate.Format("2006-01-02"),
		EndDate:         l.EndDate.Format("2006-01-02"),
		TotalDays:       l.TotalDays,
		Reason:          l.Reason,
		Status:          l.Status,
		CreatedBy:       l.CreatedBy.String(),
		RejectionReason: l.RejectionReason,
		CreatedAt:       l.CreatedAt.Format(time.RFC3339),
	}
	if l.ApprovedBy != nil {
		v := l.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if l.ApprovedAt != nil {
		v := l.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	return resp
}

func mapToListResponse(requests []LeaveRequest) []LeaveRequestResponse {
	resp := make([]LeaveRequestResponse, len(requests))
	for i, l := range requests {
		resp[i] = mapToResponse(l)
	}
	return resp
}
