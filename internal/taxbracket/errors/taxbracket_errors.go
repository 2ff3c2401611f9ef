package taxbrackerrors

import (
	"net/http"

	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/shared/apperror"
)

var ErrBracketTableEmpty = apperror.New(
	apperror.CodeNotFound,
	"No tax brackets configured for this company",
	http.StatusNotFound,
)

// InvalidTable wraps a bracket table validation failure so the client
// sees which band is broken.
func InvalidTable(err error) *apperror.AppError {
	return apperror.Wrap(
		err,
		apperror.CodeUnprocessable,
		err.Error(),
		http.StatusUnprocessableEntity,
	)
}
