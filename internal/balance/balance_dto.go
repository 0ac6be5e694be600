package balance

type AllocateBalanceRequest struct {
	EmployeeID  string `json:"employeeId" binding:"required,uuid"`
	LeaveTypeID string `json:"leaveTypeId" binding:"required,uuid"`
	Year        int    `json:"year" binding:"required,min=2000,max=2200"`
	Allocated   string `json:"allocated" binding:"required"`
}

type BalanceResponse struct {
	EmployeeID  string `json:"employeeId"`
	LeaveTypeID string `json:"leaveTypeId"`
	Year        int    `json:"year"`
	Allocated   string `json:"allocated"`
	Used        string `json:"used"`
	Remaining   string `json:"remaining"`
}

func mapToResponse(b LeaveBalance) BalanceResponse {
	return BalanceResponse{
		EmployeeID:  b.EmployeeID.String(),
		LeaveTypeID: b.LeaveTypeID.String(),
		Year:        b.Year,
		Allocated:   b.Allocated.String(),
		Used:        b.Used.String(),
		Remaining:   b.Remaining().String(),
	}
}
