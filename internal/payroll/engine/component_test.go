package engine_test

import (
	"testing"

	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/payroll/engine"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func systemSlots(order int) []engine.Component {
	return []engine.Component{
		{Code: engine.CodeBaseSalary, Name: "Base salary", Type: engine.TypeEarning, Method: engine.MethodFixed, IsSystem: true, Order: order},
		{Code: engine.CodeGrossIncome, Name: "Gross income", Type: engine.TypeEarning, Method: engine.MethodFormula,
			Formula: "[BASE_SALARY]", IsSystem: true, Order: order + 1},
		{Code: engine.CodePIT, Name: "Personal income tax", Type: engine.TypeTax, Method: engine.MethodFixed, IsSystem: true, Order: order + 2},
	}
}

func TestBuildCatalog_Validation(t *testing.T) {
	t.Run("default catalog is valid", func(t *testing.T) {
		catalog, err := engine.BuildCatalog(engine.DefaultComponents())
		assert.NoError(t, err)
		assert.NotNil(t, catalog)
	})

	cases := []struct {
		name       string
		components []engine.Component
		wantCode   string
		wantReason string
	}{
		{
			name: "duplicate code",
			components: append(systemSlots(10), engine.Component{
				Code: engine.CodeBaseSalary, Type: engine.TypeEarning, Method: engine.MethodFixed, Order: 99,
			}),
			wantCode: engine.CodeBaseSalary,
		},
		{
			name: "formula component without formula",
			components: append(systemSlots(10), engine.Component{
				Code: "BONUS", Type: engine.TypeEarning, Method: engine.MethodFormula, Order: 99,
			}),
			wantCode: "BONUS",
		},
		{
			name: "unresolved reference",
			components: append(systemSlots(10), engine.Component{
				Code: "BROKEN", Type: engine.TypeEarning, Method: engine.MethodFormula,
				Formula: "[NONEXISTENT] * 2", Order: 99,
			}),
			wantCode: "BROKEN",
		},
		{
			name: "forward reference",
			components: append(systemSlots(10),
				engine.Component{Code: "EARLY", Type: engine.TypeEarning, Method: engine.MethodFormula,
					Formula: "[LATE] + 1", Order: 98},
				engine.Component{Code: "LATE", Type: engine.TypeEarning, Method: engine.MethodFixed, Order: 99},
			),
			wantCode: "EARLY",
		},
		{
			name: "cycle surfaces as forward reference",
			components: append(systemSlots(10),
				engine.Component{Code: "A", Type: engine.TypeEarning, Method: engine.MethodFormula, Formula: "[B]", Order: 98},
				engine.Component{Code: "B", Type: engine.TypeEarning, Method: engine.MethodFormula, Formula: "[A]", Order: 99},
			),
			wantCode: "A",
		},
		{
			name:       "missing required system component",
			components: systemSlots(10)[:2], // PIT dropped
			wantCode:   engine.CodePIT,
		},
		{
			name: "self reference",
			components: append(systemSlots(10), engine.Component{
				Code: "COMPOUND", Type: engine.TypeEarning, Method: engine.MethodFormula,
				Formula: "[COMPOUND] * 2", Order: 99,
			}),
			wantCode:   "COMPOUND",
			wantReason: "references itself",
		},
		{
			name: "required system component typed as tax slot",
			components: []engine.Component{
				{Code: engine.CodeBaseSalary, Type: engine.TypeEarning, Method: engine.MethodFixed, Order: 10},
				{Code: engine.CodeGrossIncome, Type: engine.TypeTax, Method: engine.MethodFixed, Order: 20},
				{Code: engine.CodePIT, Type: engine.TypeTax, Method: engine.MethodFixed, Order: 30},
			},
			wantCode:   engine.CodeGrossIncome,
			wantReason: "cannot be a TAX slot",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := engine.BuildCatalog(tc.components)
			var vErr *engine.CatalogValidationError
			assert.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.wantCode, vErr.Code)
			if tc.wantReason != "" {
				assert.Contains(t, vErr.Reason, tc.wantReason)
			}
		})
	}
}

func TestCatalogEvaluate_FixedOverride(t *testing.T) {
	catalog, err := engine.BuildCatalog(engine.DefaultComponents())
	assert.NoError(t, err)

	inputs := engine.Inputs{
		engine.CodeBaseSalary:     dec("30000000"),
		engine.InputStandardDays:  dec("22"),
		engine.InputActualDays:    dec("22"),
		engine.InputOTHours:       dec("0"),
		engine.CodeLunchAllowance: dec("1500000"),
	}

	results, err := catalog.Evaluate(inputs)
	assert.NoError(t, err)

	// FIXED with caller override
	assert.True(t, results[engine.CodeBaseSalary].Equal(dec("30000000")))
	// FIXED with neither stored amount nor override resolves to zero
	assert.True(t, results[engine.CodeBonus].IsZero())
	// FORMULA ignores any would-be override and computes
	assert.True(t, results[engine.CodeGrossIncome].Equal(dec("31500000")))
	// tax slots are not written during catalog evaluation
	_, ok := results[engine.CodePIT]
	assert.False(t, ok)
}

func TestCatalogEvaluate_FormulaNotOverridable(t *testing.T) {
	catalog, err := engine.BuildCatalog(engine.DefaultComponents())
	assert.NoError(t, err)

	inputs := engine.Inputs{
		engine.CodeBaseSalary:    dec("30000000"),
		engine.InputStandardDays: dec("22"),
		engine.InputActualDays:   dec("22"),
		engine.InputOTHours:      dec("0"),
		// attempted bypass of the computed gross
		engine.CodeGrossIncome: dec("1"),
	}

	results, err := catalog.Evaluate(inputs)
	assert.NoError(t, err)
	assert.True(t, results[engine.CodeGrossIncome].Equal(dec("30000000")),
		"FORMULA components must ignore raw-input injection")
}

func TestCatalogEvaluate_AbortsWithoutPartialResults(t *testing.T) {
	components := append(systemSlots(10), engine.Component{
		Code: "PER_DAY", Type: engine.TypeEarning, Method: engine.MethodFormula,
		Formula: "[BASE_SALARY] / [STANDARD_DAYS]", Order: 99,
	})
	catalog, err := engine.BuildCatalog(components)
	assert.NoError(t, err)

	results, err := catalog.Evaluate(engine.Inputs{
		engine.CodeBaseSalary:    dec("30000000"),
		engine.InputStandardDays: decimal.Zero,
	})
	var evalErr *engine.ComponentEvaluationError
	assert.ErrorAs(t, err, &evalErr)
	assert.Equal(t, "PER_DAY", evalErr.Code)
	assert.ErrorIs(t, err, engine.ErrDivisionByZero)
	assert.Nil(t, results)
}

func TestCatalogEvaluate_Deterministic(t *testing.T) {
	catalog, err := engine.BuildCatalog(engine.DefaultComponents())
	assert.NoError(t, err)

	inputs := engine.Inputs{
		engine.CodeBaseSalary:     dec("27355000"),
		engine.InputStandardDays:  dec("21"),
		engine.InputActualDays:    dec("17"),
		engine.InputOTHours:       dec("13"),
		engine.CodeLunchAllowance: dec("730000"),
	}

	first, err := catalog.Evaluate(inputs)
	assert.NoError(t, err)
	second, err := catalog.Evaluate(inputs)
	assert.NoError(t, err)

	assert.Equal(t, len(first), len(second))
	for code, v := range first {
		assert.True(t, v.Equal(second[code]), "component %s drifted between runs", code)
	}
}
