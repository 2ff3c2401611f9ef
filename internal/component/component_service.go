package component

import (
	"context"
	"database/sql"
	"net/http"
	"strings"

	componenterrors "github.com/nguyenhung1993/phoenix-admin-sub000/internal/component/errors"
	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/payroll/engine"
	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Service interface {
	Create(ctx context.Context, companyID string, req CreateComponentRequest) (ComponentResponse, error)
	GetAll(ctx context.Context, companyID string) ([]ComponentResponse, error)
	GetByID(ctx context.Context, companyID, id string) (ComponentResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateComponentRequest) (ComponentResponse, error)
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
	req CreateComponentRequest,
) (ComponentResponse, error) {

	amount, err := parseAmount(req.Method, req.Amount)
	if err != nil {
		return ComponentResponse{}, err
	}

	row := &SalaryComponent{
		ID:        uuid.New(),
		CompanyID: uuid.MustParse(companyID),
		Code:      strings.ToUpper(strings.TrimSpace(req.Code)),
		Name:      req.Name,
		Type:      req.Type,
		Method:    req.Method,
		Formula:   req.Formula,
		Amount:    amount,
		SortOrder: req.Order,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ComponentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	existing, err := qtx.FindAllByCompany(ctx, companyID)
	if err != nil {
		return ComponentResponse{}, err
	}
	if len(existing) == 0 {
		// first write for this company: install the system catalog so
		// the new row has the slots the engine requires to validate
		// against
		existing, err = seedSystemComponents(ctx, qtx, companyID)
		if err != nil {
			return ComponentResponse{}, err
		}
	}
	if err := validateCatalog(append(existing, *row)); err != nil {
		return ComponentResponse{}, err
	}

	if err := qtx.Create(ctx, row); err != nil {
		return ComponentResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return ComponentResponse{}, err
	}

	return mapToResponse(*row), nil
}

func (s *service) GetAll(
	ctx context.Context,
	companyID string,
) ([]ComponentResponse, error) {

	rows, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	return mapToListResponse(rows), nil
}

func (s *service) GetByID(
	ctx context.Context,
	companyID, id string,
) (ComponentResponse, error) {

	row, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return ComponentResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*row), nil
}

func (s *service) Update(
	ctx context.Context,
	companyID, id string,
	req UpdateComponentRequest,
) (ComponentResponse, error) {

	amount, err := parseAmount(req.Method, req.Amount)
	if err != nil {
		return ComponentResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ComponentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return ComponentResponse{}, mapRepositoryError(err)
	}

	if row.IsSystem && req.Type != row.Type {
		return ComponentResponse{}, componenterrors.ErrSystemComponentImmutable
	}

	row.Name = req.Name
	row.Type = req.Type
	row.Method = req.Method
	row.Formula = req.Formula
	row.Amount = amount
	row.SortOrder = req.Order

	all, err := qtx.FindAllByCompany(ctx, companyID)
	if err != nil {
		return ComponentResponse{}, err
	}
	for i := range all {
		if all[i].ID == row.ID {
			all[i] = *row
		}
	}
	if err := validateCatalog(all); err != nil {
		return ComponentResponse{}, err
	}

	if err := qtx.Update(ctx, row); err != nil {
		return ComponentResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return ComponentResponse{}, err
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

	row, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if row.IsSystem {
		return componenterrors.ErrSystemComponentImmutable
	}

	all, err := qtx.FindAllByCompany(ctx, companyID)
	if err != nil {
		return err
	}
	remaining := make([]SalaryComponent, 0, len(all))
	for _, c := range all {
		if c.ID != row.ID {
			remaining = append(remaining, c)
		}
	}
	if err := validateCatalog(remaining); err != nil {
		return err
	}

	if err := qtx.Delete(ctx, companyID, id); err != nil {
		return mapRepositoryError(err)
	}

	return tx.Commit()
}

// seedSystemComponents persists the engine's default component set for a
// company, in the caller's transaction. Without it no custom row could
// ever be created: every write validates the full catalog, and the
// required system slots would not exist yet.
func seedSystemComponents(
	ctx context.Context,
	repo Repository,
	companyID string,
) ([]SalaryComponent, error) {
	defaults := engine.DefaultComponents()
	rows := make([]SalaryComponent, len(defaults))
	for i, c := range defaults {
		rows[i] = SalaryComponent{
			ID:        uuid.New(),
			CompanyID: uuid.MustParse(companyID),
			Code:      c.Code,
			Name:      c.Name,
			Type:      string(c.Type),
			Method:    string(c.Method),
			Formula:   c.Formula,
			Amount:    c.Amount,
			IsSystem:  c.IsSystem,
			SortOrder: c.Order,
		}
		if err := repo.Create(ctx, &rows[i]); err != nil {
			return nil, mapRepositoryError(err)
		}
	}
	return rows, nil
}

// validateCatalog runs the proposed row set through the calculation
// engine's catalog builder so a change that would break payroll (cycle,
// forward reference, missing system slot) is rejected before commit.
func validateCatalog(rows []SalaryComponent) error {
	comps := make([]engine.Component, len(rows))
	for i, r := range rows {
		comps[i] = engine.Component{
			Code:     r.Code,
			Name:     r.Name,
			Type:     engine.ComponentType(r.Type),
			Method:   engine.ComputeMethod(r.Method),
			Formula:  r.Formula,
			Amount:   r.Amount,
			IsSystem: r.IsSystem,
			Order:    r.SortOrder,
		}
	}
	if _, err := engine.BuildCatalog(comps); err != nil {
		return componenterrors.InvalidCatalog(err)
	}
	return nil
}

func parseAmount(method, raw string) (decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		if method == string(engine.MethodFixed) {
			return decimal.Zero, apperror.RequiredField("amount")
		}
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperror.New(
			apperror.CodeInvalidInput,
			"amount must be a decimal number",
			http.StatusBadRequest,
		)
	}
	return amount, nil
}

func mapToResponse(row SalaryComponent) ComponentResponse {
	return ComponentResponse{
		ID:       row.ID.String(),
		Code:     row.Code,
		Name:     row.Name,
		Type:     row.Type,
		Method:   row.Method,
		Formula:  row.Formula,
		Amount:   row.Amount.String(),
		IsSystem: row.IsSystem,
		Order:    row.SortOrder,
	}
}

func mapToListResponse(rows []SalaryComponent) []ComponentResponse {
	res := make([]ComponentResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res
}
