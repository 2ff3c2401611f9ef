package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultComponents is the system component set a fresh installation
// starts from. Proration and overtime both derive from the unprorated
// BASE_SALARY: overtime must not shrink with the day ratio, so neither
// formula reads SALARY_BY_DAYS.
func DefaultComponents() []Component {
	return []Component{
		{Code: CodeBaseSalary, Name: "Base salary", Type: TypeEarning, Method: MethodFixed, IsSystem: true, Order: 10},
		{Code: CodeSalaryByDays, Name: "Salary by work days", Type: TypeEarning, Method: MethodFormula,
			Formula: "[BASE_SALARY] / [STANDARD_DAYS] * [ACTUAL_DAYS]", IsSystem: true, Order: 20},
		{Code: CodeOvertime, Name: "Overtime pay", Type: TypeEarning, Method: MethodFormula,
			Formula: "[BASE_SALARY] / [STANDARD_DAYS] / 8 * [OT_HOURS] * 1.5", IsSystem: true, Order: 30},
		{Code: CodeLunchAllowance, Name: "Lunch allowance", Type: TypeEarning, Method: MethodFixed, Order: 40},
		{Code: CodeBonus, Name: "Bonus", Type: TypeEarning, Method: MethodFixed, Order: 50},
		{Code: CodeGrossIncome, Name: "Gross income", Type: TypeEarning, Method: MethodFormula,
			Formula: "[SALARY_BY_DAYS] + [OVERTIME] + [LUNCH_ALLOWANCE] + [BONUS]", IsSystem: true, Order: 60},
		{Code: CodeNonTaxable, Name: "Non-taxable income", Type: TypeDeduction, Method: MethodFormula,
			Formula: "[LUNCH_ALLOWANCE]", IsSystem: true, Order: 70},
		{Code: CodePIT, Name: "Personal income tax", Type: TypeTax, Method: MethodFixed, IsSystem: true, Order: 80},
	}
}

// DefaultCatalog builds the default component set. It always validates.
func DefaultCatalog() *Catalog {
	catalog, err := BuildCatalog(DefaultComponents())
	if err != nil {
		panic(err)
	}
	return catalog
}

// DefaultBrackets is the monthly progressive PIT schedule (VND) with the
// quick-deduction constants pre-computed.
func DefaultBrackets() []Bracket {
	mk := func(order int, min, max, rate, subtract int64) Bracket {
		b := Bracket{
			MinIncome:      decimal.NewFromInt(min),
			Rate:           decimal.NewFromInt(rate),
			SubtractAmount: decimal.NewFromInt(subtract),
			Order:          order,
		}
		if max > 0 {
			m := decimal.NewFromInt(max)
			b.MaxIncome = &m
		}
		return b
	}
	return []Bracket{
		mk(1, 0, 5_000_000, 5, 0),
		mk(2, 5_000_000, 10_000_000, 10, 250_000),
		mk(3, 10_000_000, 18_000_000, 15, 750_000),
		mk(4, 18_000_000, 32_000_000, 20, 1_650_000),
		mk(5, 32_000_000, 52_000_000, 25, 3_250_000),
		mk(6, 52_000_000, 80_000_000, 30, 5_850_000),
		mk(7, 80_000_000, 0, 35, 9_850_000),
	}
}

// DefaultInsuranceRates is the statutory rate set with the common
// contribution cap. The union fee has no employee side and no cap.
func DefaultInsuranceRates(effective time.Time) []InsuranceRate {
	capBase := decimal.NewFromInt(36_000_000)
	pct := func(v string) decimal.Decimal { return decimal.RequireFromString(v) }
	return []InsuranceRate{
		{Scheme: SchemeBHXH, EmployeeRate: pct("8"), EmployerRate: pct("17.5"), CapBase: &capBase, EffectiveDate: effective},
		{Scheme: SchemeBHYT, EmployeeRate: pct("1.5"), EmployerRate: pct("3"), CapBase: &capBase, EffectiveDate: effective},
		{Scheme: SchemeBHTN, EmployeeRate: pct("1"), EmployerRate: pct("1"), CapBase: &capBase, EffectiveDate: effective},
		{Scheme: SchemeUnion, EmployeeRate: pct("0"), EmployerRate: pct("2"), EffectiveDate: effective},
	}
}
