package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayrollRecord is one persisted payslip for an employee and month. The
// headline figures are stored as columns for querying; the full
// component and insurance itemization is kept as a JSON document so the
// record survives later catalog changes unchanged.
type PayrollRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_payroll_company_status"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_payroll_employee_period,unique"`
	Period     string    `gorm:"size:7;not null;index:idx_payroll_employee_period,unique"` // YYYY-MM

	GrossIncome       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	InsuranceEmployee decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	InsuranceEmployer decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TaxableIncome     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PersonalIncomeTax decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	NetIncome         decimal.Decimal `gorm:"type:decimal(18,2);not null"`

	Breakdown []byte `gorm:"type:jsonb"`

	Status    string     `gorm:"type:varchar(20);not null;default:'DRAFT';index:idx_payroll_company_status"`
	PaidAt    *time.Time `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PayrollRecord) TableName() string {
	return "payroll_records"
}
