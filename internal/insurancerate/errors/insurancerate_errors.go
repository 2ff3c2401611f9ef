package insurancerateerrors

import (
	"net/http"

	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/shared/apperror"
)

var (
	ErrRateNotFound = apperror.New(
		apperror.CodeNotFound,
		"Insurance rate not found",
		http.StatusNotFound,
	)
	ErrRateAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"An insurance rate for this scheme and effective date already exists",
		http.StatusConflict,
	)
	ErrInvalidEffectiveDate = apperror.New(
		apperror.CodeInvalidInput,
		"effective_date must be a YYYY-MM-DD date",
		http.StatusBadRequest,
	)
	ErrNegativeRate = apperror.New(
		apperror.CodeInvalidInput,
		"Contribution rates cannot be negative",
		http.StatusBadRequest,
	)
)
