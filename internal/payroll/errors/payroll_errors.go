package payrollerrors

import (
	"net/http"

	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/shared/apperror"
)

var (
	ErrPayrollNotFound = apperror.New(
		apperror.CodeNotFound,
		"Payroll record not found",
		http.StatusNotFound,
	)
	ErrEmployeeNotInCompany = apperror.New(
		apperror.CodeInvalidInput,
		"Employee does not belong to this company",
		http.StatusBadRequest,
	)
	ErrInvalidPeriodFormat = apperror.New(
		apperror.CodeInvalidInput,
		"period must be a YYYY-MM month",
		http.StatusBadRequest,
	)
	ErrPeriodAlreadyCalculated = apperror.New(
		apperror.CodeConflict,
		"A payroll record already exists for this employee and period",
		http.StatusConflict,
	)
	ErrRegenerateOnlyDraft = apperror.New(
		apperror.CodeInvalidState,
		"Payroll can only be regenerated while status is DRAFT",
		http.StatusConflict,
	)
	ErrAlreadyPaid = apperror.New(
		apperror.CodeInvalidState,
		"Payroll record is already marked as paid",
		http.StatusConflict,
	)
	ErrDeletePaidRecord = apperror.New(
		apperror.CodeInvalidState,
		"A paid payroll record cannot be deleted",
		http.StatusConflict,
	)
)

// InvalidInput flags one bad raw input value by name.
func InvalidInput(name string) *apperror.AppError {
	return apperror.New(
		apperror.CodeInvalidInput,
		"input "+name+" must be a decimal number",
		http.StatusBadRequest,
	)
}

// InvalidConfiguration wraps an engine rejection of the company's
// catalog, bracket table, or a component evaluation failure.
func InvalidConfiguration(err error) *apperror.AppError {
	return apperror.Wrap(
		err,
		apperror.CodeUnprocessable,
		err.Error(),
		http.StatusUnprocessableEntity,
	)
}
