package component

import (
	"errors"
	"strings"

	componenterrors "github.com/nguyenhung1993/phoenix-admin-sub000/internal/component/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return componenterrors.ErrComponentNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_component_code" {
			return componenterrors.ErrComponentCodeExists
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_component_code") {
		return componenterrors.ErrComponentCodeExists
	}

	return err
}
