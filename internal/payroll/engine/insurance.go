package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// InsuranceScheme identifies one statutory contribution scheme.
type InsuranceScheme string

const (
	SchemeBHXH  InsuranceScheme = "BHXH"  // social insurance
	SchemeBHYT  InsuranceScheme = "BHYT"  // health insurance
	SchemeBHTN  InsuranceScheme = "BHTN"  // unemployment insurance
	SchemeUnion InsuranceScheme = "UNION" // trade union fee
)

// schemeOrder fixes the itemization order in payslip output.
var schemeOrder = []InsuranceScheme{SchemeBHXH, SchemeBHYT, SchemeBHTN, SchemeUnion}

// InsuranceRate is one effective-dated rate row. Several rows may exist
// per scheme over time; a run picks the row with the latest effective
// date not after the payroll period.
type InsuranceRate struct {
	Scheme        InsuranceScheme
	EmployeeRate  decimal.Decimal // percent
	EmployerRate  decimal.Decimal // percent
	CapBase       *decimal.Decimal // nil = uncapped
	EffectiveDate time.Time
}

// SchemeContribution is the per-scheme line of the insurance breakdown.
type SchemeContribution struct {
	Scheme         InsuranceScheme
	Base           decimal.Decimal // wage base after cap clamping
	EmployeeAmount decimal.Decimal
	EmployerAmount decimal.Decimal
}

// InsuranceResult itemizes statutory contributions for one run.
type InsuranceResult struct {
	EmployeeTotal decimal.Decimal
	EmployerTotal decimal.Decimal
	PerScheme     []SchemeContribution
}

// ComputeInsurance applies the effective rate of each scheme to the wage
// base. The base is clamped to the scheme's cap when one is configured.
// A scheme with no rate row effective at asOf contributes nothing; that
// is a valid "not applicable" state, not an error.
//
// Each side of each scheme is rounded to the currency unit independently
// and the totals sum the rounded amounts. Statutory filings round per
// scheme, and payslips must match them to the dong.
func ComputeInsurance(wageBase decimal.Decimal, rates []InsuranceRate, asOf time.Time) InsuranceResult {
	hundred := decimal.NewFromInt(100)
	result := InsuranceResult{
		EmployeeTotal: decimal.Zero,
		EmployerTotal: decimal.Zero,
	}

	for _, scheme := range schemeOrder {
		rate, ok := effectiveRate(rates, scheme, asOf)
		if !ok {
			continue
		}

		base := wageBase
		if rate.CapBase != nil && base.GreaterThan(*rate.CapBase) {
			base = *rate.CapBase
		}

		employee := base.Mul(rate.EmployeeRate).Div(hundred).Round(0)
		employer := base.Mul(rate.EmployerRate).Div(hundred).Round(0)

		result.PerScheme = append(result.PerScheme, SchemeContribution{
			Scheme:         scheme,
			Base:           base,
			EmployeeAmount: employee,
			EmployerAmount: employer,
		})
		result.EmployeeTotal = result.EmployeeTotal.Add(employee)
		result.EmployerTotal = result.EmployerTotal.Add(employer)
	}

	return result
}

func effectiveRate(rates []InsuranceRate, scheme InsuranceScheme, asOf time.Time) (InsuranceRate, bool) {
	var best InsuranceRate
	found := false
	for _, rate := range rates {
		if rate.Scheme != scheme || rate.EffectiveDate.After(asOf) {
			continue
		}
		if !found || rate.EffectiveDate.After(best.EffectiveDate) {
			best = rate
			found = true
		}
	}
	return best, found
}
