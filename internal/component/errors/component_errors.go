package componenterrors

import (
	"net/http"

	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/shared/apperror"
)

var (
	ErrComponentCodeExists = apperror.New(
		apperror.CodeConflict,
		"A salary component with this code already exists",
		http.StatusConflict,
	)

	ErrSystemComponentImmutable = apperror.New(
		apperror.CodeInvalidState,
		"System salary components cannot be deleted",
		http.StatusConflict,
	)

	ErrComponentNotFound = apperror.New(
		apperror.CodeNotFound,
		"Salary component not found",
		http.StatusNotFound,
	)
)

// InvalidCatalog wraps an engine validation failure so the client sees
// which component broke the catalog.
func InvalidCatalog(err error) *apperror.AppError {
	return apperror.Wrap(
		err,
		apperror.CodeUnprocessable,
		err.Error(),
		http.StatusUnprocessableEntity,
	)
}
