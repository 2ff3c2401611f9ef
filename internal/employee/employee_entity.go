package employee

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Employee carries the contractual payroll terms next to the personal
// record: BaseSalary is the monthly wage every calculation starts from,
// Dependents drives the dependent exemption.
type Employee struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID        uuid.UUID `gorm:"type:uuid;index"`
	EmployeeNumber   string    `gorm:"size:32"`
	FullName         string
	Email            string `gorm:"uniqueIndex"`
	Phone            string
	HireDate         time.Time `gorm:"type:date"`
	EmploymentStatus string
	BaseSalary       decimal.Decimal `gorm:"type:decimal(18,2)"`
	Dependents       int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
