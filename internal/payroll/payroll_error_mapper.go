package payroll

import (
	"errors"
	"strings"

	payrollerrors "github.com/nguyenhung1993/phoenix-admin-sub000/internal/payroll/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return payrollerrors.ErrPayrollNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "idx_payroll_employee_period" {
			return payrollerrors.ErrPeriodAlreadyCalculated
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "idx_payroll_employee_period") {
		return payrollerrors.ErrPeriodAlreadyCalculated
	}

	return err
}
