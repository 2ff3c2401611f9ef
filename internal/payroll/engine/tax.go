package engine

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Bracket is one band of the progressive personal income tax schedule.
// SubtractAmount is the pre-computed constant of the quick-deduction
// method: tax = income*rate/100 - subtract.
type Bracket struct {
	MinIncome      decimal.Decimal
	MaxIncome      *decimal.Decimal // nil = open-ended final band
	Rate           decimal.Decimal  // percent
	SubtractAmount decimal.Decimal
	Order          int
}

// ValidateBrackets checks the table invariants: rows sorted by order are
// contiguous and non-overlapping starting at zero, rates strictly
// increase, and only the last row is open-ended.
func ValidateBrackets(brackets []Bracket) error {
	if len(brackets) == 0 {
		return &BracketTableError{Reason: "empty bracket table"}
	}

	rows := make([]Bracket, len(brackets))
	copy(rows, brackets)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Order < rows[j].Order })

	if !rows[0].MinIncome.IsZero() {
		return &BracketTableError{Order: rows[0].Order, Reason: "first band must start at zero"}
	}

	for i := range rows {
		last := i == len(rows)-1
		if last {
			if rows[i].MaxIncome != nil {
				return &BracketTableError{Order: rows[i].Order, Reason: "last band must be open-ended"}
			}
			break
		}
		if rows[i].MaxIncome == nil {
			return &BracketTableError{Order: rows[i].Order, Reason: "only the last band may be open-ended"}
		}
		if rows[i].MaxIncome.LessThanOrEqual(rows[i].MinIncome) {
			return &BracketTableError{Order: rows[i].Order, Reason: "band upper bound not above lower bound"}
		}
		if !rows[i+1].MinIncome.Equal(*rows[i].MaxIncome) {
			return &BracketTableError{Order: rows[i+1].Order, Reason: "bands are not contiguous"}
		}
		if rows[i+1].Rate.LessThanOrEqual(rows[i].Rate) {
			return &BracketTableError{Order: rows[i+1].Order, Reason: "rates must strictly increase"}
		}
	}
	return nil
}

// ComputeTax applies the bracket table to a taxable income figure. The
// caller must have validated the table. Band selection uses a closed
// upper bound: income exactly equal to a band's max belongs to that band,
// not the next one. Non-positive income is not taxed.
func ComputeTax(taxableIncome decimal.Decimal, brackets []Bracket) decimal.Decimal {
	if taxableIncome.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	rows := make([]Bracket, len(brackets))
	copy(rows, brackets)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Order < rows[j].Order })

	var band Bracket
	for _, row := range rows {
		band = row
		if row.MaxIncome == nil || taxableIncome.LessThanOrEqual(*row.MaxIncome) {
			break
		}
	}

	hundred := decimal.NewFromInt(100)
	tax := taxableIncome.Mul(band.Rate).Div(hundred).Sub(band.SubtractAmount).Round(0)
	if tax.IsNegative() {
		// a well-formed table never produces this, but tax must not go below zero
		return decimal.Zero
	}
	return tax
}
