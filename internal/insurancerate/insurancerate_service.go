package insurancerate

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	insurancerateerrors "github.com/nguyenhung1993/phoenix-admin-sub000/internal/insurancerate/errors"
	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type Service interface {
	Create(ctx context.Context, companyID string, req CreateInsuranceRateRequest) (InsuranceRateResponse, error)
	GetAll(ctx context.Context, companyID string) ([]InsuranceRateResponse, error)
	GetByID(ctx context.Context, companyID, id string) (InsuranceRateResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateInsuranceRateRequest) (InsuranceRateResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	db   *sql.DB
	repo Repository
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

func (s *service) Create(
	ctx context.Context,
	companyID string,
	req CreateInsuranceRateRequest,
) (InsuranceRateResponse, error) {

	parsed, err := parseRateFields(req.EmployeeRate, req.EmployerRate, req.CapBase, req.EffectiveDate)
	if err != nil {
		return InsuranceRateResponse{}, err
	}

	row := &InsuranceRate{
		ID:            uuid.New(),
		CompanyID:     uuid.MustParse(companyID),
		Scheme:        req.Scheme,
		EmployeeRate:  parsed.employee,
		EmployerRate:  parsed.employer,
		CapBase:       parsed.capBase,
		EffectiveDate: parsed.effective,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return InsuranceRateResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.Create(ctx, row); err != nil {
		return InsuranceRateResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return InsuranceRateResponse{}, err
	}

	return mapToResponse(*row), nil
}

func (s *service) GetAll(
	ctx context.Context,
	companyID string,
) ([]InsuranceRateResponse, error) {

	rows, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	return mapToListResponse(rows), nil
}

func (s *service) GetByID(
	ctx context.Context,
	companyID, id string,
) (InsuranceRateResponse, error) {

	row, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return InsuranceRateResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*row), nil
}

func (s *service) Update(
	ctx context.Context,
	companyID, id string,
	req UpdateInsuranceRateRequest,
) (InsuranceRateResponse, error) {

	parsed, err := parseRateFields(req.EmployeeRate, req.EmployerRate, req.CapBase, req.EffectiveDate)
	if err != nil {
		return InsuranceRateResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return InsuranceRateResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return InsuranceRateResponse{}, mapRepositoryError(err)
	}

	row.EmployeeRate = parsed.employee
	row.EmployerRate = parsed.employer
	row.CapBase = parsed.capBase
	row.EffectiveDate = parsed.effective

	if err := qtx.Update(ctx, row); err != nil {
		return InsuranceRateResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return InsuranceRateResponse{}, err
	}

	return mapToResponse(*row), nil
}

func (s *service) Delete(
	ctx context.Context,
	companyID, id string,
) error {

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByIDAndCompany(ctx, companyID, id); err != nil {
		return mapRepositoryError(err)
	}
	if err := qtx.Delete(ctx, companyID, id); err != nil {
		return mapRepositoryError(err)
	}

	return tx.Commit()
}

type parsedRate struct {
	employee  decimal.Decimal
	employer  decimal.Decimal
	capBase   *decimal.Decimal
	effective time.Time
}

func parseRateFields(employee, employer string, capBase *string, effectiveDate string) (parsedRate, error) {
	var out parsedRate
	var err error

	out.employee, err = parsePercent("employee_rate", employee)
	if err != nil {
		return out, err
	}
	out.employer, err = parsePercent("employer_rate", employer)
	if err != nil {
		return out, err
	}
	if capBase != nil {
		v, err := decimal.NewFromString(*capBase)
		if err != nil || v.IsNegative() {
			return out, apperror.InvalidField("cap_base")
		}
		out.capBase = &v
	}
	out.effective, err = time.Parse(dateLayout, effectiveDate)
	if err != nil {
		return out, insurancerateerrors.ErrInvalidEffectiveDate
	}
	return out, nil
}

func parsePercent(field, raw string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperror.New(
			apperror.CodeInvalidInput,
			fmt.Sprintf("%s must be a decimal number", field),
			http.StatusBadRequest,
		)
	}
	if v.IsNegative() {
		return decimal.Zero, insurancerateerrors.ErrNegativeRate
	}
	return v, nil
}

func mapToResponse(row InsuranceRate) InsuranceRateResponse {
	resp := InsuranceRateResponse{
		ID:            row.ID.String(),
		Scheme:        row.Scheme,
		EmployeeRate:  row.EmployeeRate.String(),
		EmployerRate:  row.EmployerRate.String(),
		EffectiveDate: row.EffectiveDate.Format(dateLayout),
	}
	if row.CapBase != nil {
		s := row.CapBase.String()
		resp.CapBase = &s
	}
	return resp
}

func mapToListResponse(rows []InsuranceRate) []InsuranceRateResponse {
	res := make([]InsuranceRateResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res
}
