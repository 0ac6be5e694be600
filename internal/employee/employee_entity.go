package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Employee struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	DepartmentID   *uuid.UUID `gorm:"type:uuid;index"`
	FullName       string     `gorm:"type:varchar(255);not null"`
	Email          string     `gorm:"type:varchar(255);uniqueIndex:uq_employee_email"`
	EmployeeNumber string     `gorm:"type:varchar(30);uniqueIndex:uq_employee_number"`
	Phone          string     `gorm:"type:varchar(30)"`
	HireDate       time.Time  `gorm:"type:date"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}
