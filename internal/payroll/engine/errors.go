package engine

import (
	"errors"
	"fmt"
)

// ErrDivisionByZero is returned when a formula divides by a value that
// evaluates to zero at runtime (e.g. STANDARD_DAYS = 0).
var ErrDivisionByZero = errors.New("division by zero")

// CatalogValidationError reports a catalog that cannot be evaluated:
// duplicate codes, a FORMULA component without a formula, an unresolvable
// or forward reference, or a missing required system component. It is
// raised before any component is evaluated.
type CatalogValidationError struct {
	Code   string // offending component code, empty for catalog-level faults
	Reason string
}

func (e *CatalogValidationError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("invalid salary component catalog: %s", e.Reason)
	}
	return fmt.Sprintf("invalid salary component %s: %s", e.Code, e.Reason)
}

// UnknownReferenceError reports a [NAME] token that resolves neither to an
// evaluated component nor to a raw input.
type UnknownReferenceError struct {
	Name string
}

func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("unknown reference [%s]", e.Name)
}

// ComponentEvaluationError wraps a formula failure with the code of the
// component being evaluated so callers can point at the broken row.
type ComponentEvaluationError struct {
	Code string
	Err  error
}

func (e *ComponentEvaluationError) Error() string {
	return fmt.Sprintf("evaluate component %s: %v", e.Code, e.Err)
}

func (e *ComponentEvaluationError) Unwrap() error {
	return e.Err
}

// BracketTableError reports a progressive tax table that violates its
// ordering invariants.
type BracketTableError struct {
	Order  int
	Reason string
}

func (e *BracketTableError) Error() string {
	return fmt.Sprintf("invalid tax bracket (order %d): %s", e.Order, e.Reason)
}
