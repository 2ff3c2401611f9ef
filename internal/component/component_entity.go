package component

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalaryComponent is one configurable row of a company's payroll catalog.
// System rows are seeded on a company's first catalog write and cannot be
// deleted or re-coded; the calculation engine depends on their codes.
type SalaryComponent struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID `gorm:"type:uuid;index"`
	Code      string    `gorm:"size:64"`
	Name      string
	Type      string // EARNING | DEDUCTION | TAX
	Method    string // FIXED | FORMULA
	Formula   string
	Amount    decimal.Decimal `gorm:"type:decimal(18,2)"`
	IsSystem  bool
	SortOrder int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (SalaryComponent) TableName() string {
	return "salary_components"
}
