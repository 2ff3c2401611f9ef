package insurancerate

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InsuranceRate is one effective-dated statutory rate row per scheme.
// Payroll picks, per scheme, the row with the latest effective date not
// after the run date, so history stays queryable.
type InsuranceRate struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID     uuid.UUID `gorm:"type:uuid;index"`
	Scheme        string    `gorm:"size:16"` // BHXH | BHYT | BHTN | UNION
	EmployeeRate  decimal.Decimal  `gorm:"type:decimal(5,2)"`
	EmployerRate  decimal.Decimal  `gorm:"type:decimal(5,2)"`
	CapBase       *decimal.Decimal `gorm:"type:decimal(18,2)"` // null = uncapped
	EffectiveDate time.Time        `gorm:"type:date"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (InsuranceRate) TableName() string {
	return "insurance_rates"
}
