package employee

type CreateEmployeeRequest struct {
	FullName       string `json:"full_name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	DepartmentID   string `json:"department_id" binding:"required,uuid"`
	EmployeeNumber string `json:"employee_number"`
	Phone          string `json:"phone"`
	HireDate       string `json:"hire_date" binding:"required"`
}

type UpdateEmployeeRequest struct {
	FullName     string `json:"full_name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	DepartmentID string `json:"department_id" binding:"required,uuid"`
	Phone        string `json:"phone"`
}

type EmployeeResponse struct {
	ID             string `json:"id"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	DepartmentID   string `json:"department_id,omitempty"`
	EmployeeNumber string `json:"employee_number,omitempty"`
	Phone          string `json:"phone,omitempty"`
	HireDate       string `json:"hire_date,omitempty"`
}
