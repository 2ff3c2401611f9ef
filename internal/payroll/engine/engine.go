// Package engine computes payslips from a configurable salary component
// catalog, statutory insurance rates and a progressive tax table. It is
// pure: one Calculate call is a deterministic function of its inputs,
// performs no I/O, and either returns a complete payslip or a typed
// error, never a partial result. Configuration is passed per call as an
// immutable snapshot, so independent runs may execute concurrently.
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// Input carries everything one payroll run needs. Catalog, Rates and
// Brackets come from configuration storage verbatim; Inputs is built
// fresh per employee and period.
type Input struct {
	Inputs   Inputs
	Catalog  *Catalog
	Rates    []InsuranceRate
	Brackets []Bracket
	AsOf     time.Time
}

// Payslip is the structured result of one run. Headline figures are
// rounded to the currency unit; Breakdown keeps the unrounded component
// values for auditing.
type Payslip struct {
	GrossIncome       decimal.Decimal
	InsuranceEmployee decimal.Decimal
	InsuranceEmployer decimal.Decimal
	InsuranceDetail   []SchemeContribution
	TaxableIncome     decimal.Decimal
	PersonalIncomeTax decimal.Decimal
	NetIncome         decimal.Decimal
	Breakdown         Results
}

// Calculate runs the full pipeline:
//
//	catalog evaluation -> gross -> insurance -> taxable income -> tax -> net
//
// Insurance is based on the contractual BASE_SALARY, not the gross:
// bonuses and overtime do not raise contributions. Taxable income is
// gross minus non-taxable income, employee insurance and the personal
// and dependent exemptions; the exemption figures come from inputs or
// catalog components, never from constants baked into the engine.
func Calculate(in Input) (*Payslip, error) {
	if err := ValidateBrackets(in.Brackets); err != nil {
		return nil, err
	}

	results, err := in.Catalog.Evaluate(in.Inputs)
	if err != nil {
		return nil, err
	}

	gross := results[CodeGrossIncome]
	wageBase := results[CodeBaseSalary]
	insurance := ComputeInsurance(wageBase, in.Rates, in.AsOf)

	dependents := resolve(InputDependents, results, in.Inputs)
	taxable := gross.
		Sub(resolve(CodeNonTaxable, results, in.Inputs)).
		Sub(insurance.EmployeeTotal).
		Sub(resolve(InputPersonalExemption, results, in.Inputs)).
		Sub(resolve(InputDependentExemption, results, in.Inputs).Mul(dependents))

	tax := ComputeTax(taxable, in.Brackets)
	results[CodePIT] = tax

	net := gross.Sub(insurance.EmployeeTotal).Sub(tax)

	return &Payslip{
		GrossIncome:       gross.Round(0),
		InsuranceEmployee: insurance.EmployeeTotal,
		InsuranceEmployer: insurance.EmployerTotal,
		InsuranceDetail:   insurance.PerScheme,
		TaxableIncome:     taxable.Round(0),
		PersonalIncomeTax: tax,
		NetIncome:         net.Round(0),
		Breakdown:         results,
	}, nil
}

// resolve looks a name up in the results first, then the raw inputs.
// Exemption and dependent figures are optional; absence means zero.
func resolve(name string, results Results, inputs Inputs) decimal.Decimal {
	if v, ok := results[name]; ok {
		return v
	}
	if v, ok := inputs[name]; ok {
		return v
	}
	return decimal.Zero
}
