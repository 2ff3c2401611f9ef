package taxbracket

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxBracket is one persisted band of a company's progressive PIT
// schedule. The table is only meaningful as a whole, so writes replace
// the full set.
type TaxBracket struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID      uuid.UUID `gorm:"type:uuid;index"`
	MinIncome      decimal.Decimal  `gorm:"type:decimal(18,2)"`
	MaxIncome      *decimal.Decimal `gorm:"type:decimal(18,2)"` // null = open-ended final band
	Rate           decimal.Decimal  `gorm:"type:decimal(5,2)"`
	SubtractAmount decimal.Decimal  `gorm:"type:decimal(18,2)"`
	SortOrder      int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (TaxBracket) TableName() string {
	return "tax_brackets"
}
