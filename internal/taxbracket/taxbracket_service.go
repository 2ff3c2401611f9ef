package taxbracket

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/payroll/engine"
	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/shared/apperror"
	taxbrackerrors "github.com/nguyenhung1993/phoenix-admin-sub000/internal/taxbracket/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Service interface {
	GetAll(ctx context.Context, companyID string) ([]BracketResponse, error)
	Replace(ctx context.Context, companyID string, req ReplaceBracketsRequest) ([]BracketResponse, error)
}

type service struct {
	db   *sql.DB
	repo Repository
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

func (s *service) GetAll(
	ctx context.Context,
	companyID string,
) ([]BracketResponse, error) {

	rows, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	return mapToListResponse(rows), nil
}

// Replace swaps the company's entire bracket table in one transaction.
// The incoming set is validated as a whole first: a progressive schedule
// has no meaningful intermediate state, so partial edits are not offered.
func (s *service) Replace(
	ctx context.Context,
	companyID string,
	req ReplaceBracketsRequest,
) ([]BracketResponse, error) {

	rows, err := parseBrackets(companyID, req)
	if err != nil {
		return nil, err
	}

	if err := engine.ValidateBrackets(toEngineBrackets(rows)); err != nil {
		return nil, taxbrackerrors.InvalidTable(err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.DeleteAllByCompany(ctx, companyID); err != nil {
		return nil, err
	}
	if err := qtx.CreateBatch(ctx, rows); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return mapToListResponse(rows), nil
}

func parseBrackets(companyID string, req ReplaceBracketsRequest) ([]TaxBracket, error) {
	company := uuid.MustParse(companyID)
	rows := make([]TaxBracket, len(req.Brackets))
	for i, b := range req.Brackets {
		min, err := parseMoney(fmt.Sprintf("brackets[%d].min_income", i), b.MinIncome)
		if err != nil {
			return nil, err
		}
		rate, err := parseMoney(fmt.Sprintf("brackets[%d].rate", i), b.Rate)
		if err != nil {
			return nil, err
		}
		subtract := decimal.Zero
		if b.SubtractAmount != "" {
			subtract, err = parseMoney(fmt.Sprintf("brackets[%d].subtract_amount", i), b.SubtractAmount)
			if err != nil {
				return nil, err
			}
		}
		row := TaxBracket{
			ID:             uuid.New(),
			CompanyID:      company,
			MinIncome:      min,
			Rate:           rate,
			SubtractAmount: subtract,
			SortOrder:      b.Order,
		}
		if b.MaxIncome != nil {
			max, err := parseMoney(fmt.Sprintf("brackets[%d].max_income", i), *b.MaxIncome)
			if err != nil {
				return nil, err
			}
			row.MaxIncome = &max
		}
		rows[i] = row
	}
	return rows, nil
}

func parseMoney(field, raw string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperror.New(
			apperror.CodeInvalidInput,
			fmt.Sprintf("%s must be a decimal number", field),
			http.StatusBadRequest,
		)
	}
	return v, nil
}

func toEngineBrackets(rows []TaxBracket) []engine.Bracket {
	brackets := make([]engine.Bracket, len(rows))
	for i, r := range rows {
		brackets[i] = engine.Bracket{
			MinIncome:      r.MinIncome,
			MaxIncome:      r.MaxIncome,
			Rate:           r.Rate,
			SubtractAmount: r.SubtractAmount,
			Order:          r.SortOrder,
		}
	}
	return brackets
}

func mapToResponse(row TaxBracket) BracketResponse {
	resp := BracketResponse{
		ID:             row.ID.String(),
		MinIncome:      row.MinIncome.String(),
		Rate:           row.Rate.String(),
		SubtractAmount: row.SubtractAmount.String(),
		Order:          row.SortOrder,
	}
	if row.MaxIncome != nil {
		s := row.MaxIncome.String()
		resp.MaxIncome = &s
	}
	return resp
}

func mapToListResponse(rows []TaxBracket) []BracketResponse {
	res := make([]BracketResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res
}
