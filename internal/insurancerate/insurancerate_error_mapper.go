package insurancerate

import (
	"errors"
	"strings"

	insurancerateerrors "github.com/nguyenhung1993/phoenix-admin-sub000/internal/insurancerate/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return insurancerateerrors.ErrRateNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_insurance_rate_scheme_effective" {
			return insurancerateerrors.ErrRateAlreadyExists
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_insurance_rate_scheme_effective") {
		return insurancerateerrors.ErrRateAlreadyExists
	}

	return err
}
