package engine

import (
	"sort"

	"github.com/shopspring/decimal"
)

type ComponentType string

const (
	TypeEarning   ComponentType = "EARNING"
	TypeDeduction ComponentType = "DEDUCTION"
	TypeTax       ComponentType = "TAX"
)

type ComputeMethod string

const (
	MethodFixed   ComputeMethod = "FIXED"
	MethodFormula ComputeMethod = "FORMULA"
)

// Well-known component codes. BASE_SALARY is the contractual wage every
// derived amount is computed from; GROSS_INCOME and PIT are the two slots
// the engine itself reads and writes, so a catalog without them is
// rejected at build time.
const (
	CodeBaseSalary     = "BASE_SALARY"
	CodeSalaryByDays   = "SALARY_BY_DAYS"
	CodeOvertime       = "OVERTIME"
	CodeLunchAllowance = "LUNCH_ALLOWANCE"
	CodeBonus          = "BONUS"
	CodeNonTaxable     = "NON_TAXABLE_INCOME"
	CodeGrossIncome    = "GROSS_INCOME"
	CodePIT            = "PIT"
)

// Raw input names recognized alongside component codes when formulas and
// the tax step resolve references.
const (
	InputStandardDays       = "STANDARD_DAYS"
	InputActualDays         = "ACTUAL_DAYS"
	InputOTHours            = "OT_HOURS"
	InputDependents         = "DEPENDENTS"
	InputPersonalExemption  = "PERSONAL_EXEMPTION"
	InputDependentExemption = "DEPENDENT_EXEMPTION"
)

// Inputs holds the caller-supplied raw numbers for one payroll run. It is
// read-only during evaluation.
type Inputs map[string]decimal.Decimal

// Results maps component code to its evaluated value. Each entry is
// written exactly once per run.
type Results map[string]decimal.Decimal

// Component is one configurable salary line item.
type Component struct {
	Code     string
	Name     string
	Type     ComponentType
	Method   ComputeMethod
	Formula  string
	Amount   decimal.Decimal // stored value for FIXED components
	IsSystem bool
	Order    int

	expr Expr // compiled formula, set by BuildCatalog
}

// Catalog is a validated, immutable set of components in evaluation order.
// Build one per configuration snapshot and share it freely: Evaluate never
// mutates the catalog, so concurrent runs need no locking.
type Catalog struct {
	components []Component
}

// Components returns the catalog rows in evaluation order.
func (c *Catalog) Components() []Component {
	out := make([]Component, len(c.components))
	copy(out, c.components)
	return out
}

// requiredSystemCodes are the slots the engine depends on (see Calculate).
var requiredSystemCodes = []string{CodeBaseSalary, CodeGrossIncome, CodePIT}

// BuildCatalog validates the component list and compiles every formula.
// inputNames are the raw input names formulas may reference in addition to
// earlier component codes; the well-known input names are always allowed.
//
// Validation happens entirely before anything is evaluated:
// unique codes, FORMULA components carry a formula, every reference
// resolves to an earlier component (no forward references, hence no
// cycles) or to a recognized input name, and the required system
// components are present.
func BuildCatalog(components []Component, inputNames ...string) (*Catalog, error) {
	known := map[string]bool{
		InputStandardDays:       true,
		InputActualDays:         true,
		InputOTHours:            true,
		InputDependents:         true,
		InputPersonalExemption:  true,
		InputDependentExemption: true,
	}
	for _, name := range inputNames {
		known[name] = true
	}

	ordered := make([]Component, len(components))
	copy(ordered, components)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Order < ordered[j].Order
	})

	seen := make(map[string]bool, len(ordered))
	evaluated := make(map[string]bool, len(ordered))
	for i := range ordered {
		comp := &ordered[i]
		if comp.Code == "" {
			return nil, &CatalogValidationError{Reason: "component without a code"}
		}
		if seen[comp.Code] {
			return nil, &CatalogValidationError{Code: comp.Code, Reason: "duplicate component code"}
		}
		seen[comp.Code] = true

		switch comp.Type {
		case TypeEarning, TypeDeduction, TypeTax:
		default:
			return nil, &CatalogValidationError{Code: comp.Code, Reason: "unknown component type"}
		}

		switch comp.Method {
		case MethodFixed:
			if comp.Formula != "" {
				return nil, &CatalogValidationError{Code: comp.Code, Reason: "FIXED component carries a formula"}
			}
		case MethodFormula:
			if comp.Formula == "" {
				return nil, &CatalogValidationError{Code: comp.Code, Reason: "FORMULA component without a formula"}
			}
			expr, err := ParseFormula(comp.Formula)
			if err != nil {
				return nil, &CatalogValidationError{Code: comp.Code, Reason: err.Error()}
			}
			for _, ref := range ExprRefs(expr) {
				if evaluated[ref] || known[ref] {
					continue
				}
				if ref == comp.Code {
					return nil, &CatalogValidationError{Code: comp.Code, Reason: "component references itself"}
				}
				if seen[ref] {
					return nil, &CatalogValidationError{Code: comp.Code, Reason: "reference to tax slot [" + ref + "]"}
				}
				if laterCode(ordered[i+1:], ref) {
					return nil, &CatalogValidationError{Code: comp.Code, Reason: "forward reference to [" + ref + "]"}
				}
				return nil, &CatalogValidationError{Code: comp.Code, Reason: "unresolved reference to [" + ref + "]"}
			}
			comp.expr = expr
		default:
			return nil, &CatalogValidationError{Code: comp.Code, Reason: "unknown compute method"}
		}

		if comp.Type != TypeTax {
			evaluated[comp.Code] = true
		}
	}

	for _, code := range requiredSystemCodes {
		if !seen[code] {
			return nil, &CatalogValidationError{Code: code, Reason: "required system component is missing"}
		}
		// BASE_SALARY and GROSS_INCOME feed the run and must produce a
		// value; a TAX-typed row would be skipped by Evaluate and read
		// back as a silent zero.
		if code != CodePIT && !evaluated[code] {
			return nil, &CatalogValidationError{Code: code, Reason: "required system component cannot be a TAX slot"}
		}
	}

	return &Catalog{components: ordered}, nil
}

func laterCode(rest []Component, code string) bool {
	for i := range rest {
		if rest[i].Code == code {
			return true
		}
	}
	return false
}

// Evaluate runs every EARNING and DEDUCTION component in order and returns
// the results map. TAX components are slots the engine fills after the tax
// step, so they stay unwritten here; that keeps every entry written exactly
// once per run.
//
// FIXED components honor a caller override under their code in inputs
// (the only sanctioned override path); without one the stored amount is
// used, and a FIXED component with neither resolves to zero. Any formula
// failure aborts with a ComponentEvaluationError: no partial results are
// ever returned.
func (c *Catalog) Evaluate(inputs Inputs) (Results, error) {
	results := make(Results, len(c.components))
	for i := range c.components {
		comp := &c.components[i]
		if comp.Type == TypeTax {
			continue
		}

		switch comp.Method {
		case MethodFixed:
			if override, ok := inputs[comp.Code]; ok {
				results[comp.Code] = override
			} else {
				results[comp.Code] = comp.Amount
			}
		case MethodFormula:
			value, err := comp.expr.Eval(results, inputs)
			if err != nil {
				return nil, &ComponentEvaluationError{Code: comp.Code, Err: err}
			}
			results[comp.Code] = value
		}
	}
	return results, nil
}
