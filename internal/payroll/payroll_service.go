package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/component"
	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/employee"
	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/events"
	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/insurancerate"
	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/messaging/kafka"
	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/payroll/engine"
	payrollerrors "github.com/nguyenhung1993/phoenix-admin-sub000/internal/payroll/errors"
	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/shared/contextutil"
	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/taxbracket"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	StatusDraft = "DRAFT"
	StatusPaid  = "PAID"
)

const BreakdownKeyPrefix = "payrolls:breakdown:"

func GetBreakdownKey(companyID, payrollID string) string {
	return BreakdownKeyPrefix + companyID + ":" + payrollID
}

type Service interface {
	Calculate(ctx context.Context, companyID string, req CalculatePayrollRequest) (PayslipResponse, error)
	Create(ctx context.Context, companyID string, req CreatePayrollRequest) (PayrollResponse, error)
	GetAll(ctx context.Context, companyID string, filter GetPayrollsFilterRequest) ([]PayrollResponse, error)
	GetByID(ctx context.Context, companyID, id string) (PayrollResponse, error)
	GetBreakdown(ctx context.Context, companyID, id string) (PayslipResponse, error)
	Regenerate(ctx context.Context, companyID, id string, req RegeneratePayrollRequest) (PayrollResponse, error)
	MarkAsPaid(ctx context.Context, companyID, id string) (PayrollResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	db         *sql.DB
	repo       Repository
	employees  employee.Repository
	components component.Repository
	brackets   taxbracket.Repository
	rates      insurancerate.Repository
	outbox     kafka.OutboxRepository
	rdb        *redis.Client
	sf         *singleflight.Group
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	components component.Repository,
	brackets taxbracket.Repository,
	rates insurancerate.Repository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, employees, components, brackets, rates, nil, rdb, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	components component.Repository,
	brackets taxbracket.Repository,
	rates insurancerate.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		employees:  employees,
		components: components,
		brackets:   brackets,
		rates:      rates,
		outbox:     outboxRepo,
		rdb:        rdb,
		sf:         &singleflight.Group{},
		logger:     l,
	}
}

// Calculate runs the engine without persisting anything. It is the same
// pipeline a persisted run uses; there is no second calculation path.
func (s *service) Calculate(
	ctx context.Context,
	companyID string,
	req CalculatePayrollRequest,
) (PayslipResponse, error) {
	_, payslip, err := s.run(ctx, companyID, req)
	if err != nil {
		return PayslipResponse{}, err
	}
	return mapPayslipToResponse(payslip), nil
}

func (s *service) Create(
	ctx context.Context,
	companyID string,
	req CreatePayrollRequest,
) (PayrollResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create payroll requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("period", req.Period),
	)

	empl, payslip, err := s.run(ctx, companyID, req)
	if err != nil {
		return PayrollResponse{}, err
	}

	breakdown, err := json.Marshal(mapPayslipToResponse(payslip))
	if err != nil {
		return PayrollResponse{}, err
	}

	record := &PayrollRecord{
		ID:                uuid.New(),
		CompanyID:         uuid.MustParse(companyID),
		EmployeeID:        empl.ID,
		Period:            req.Period,
		GrossIncome:       payslip.GrossIncome,
		InsuranceEmployee: payslip.InsuranceEmployee,
		InsuranceEmployer: payslip.InsuranceEmployer,
		TaxableIncome:     payslip.TaxableIncome,
		PersonalIncomeTax: payslip.PersonalIncomeTax,
		NetIncome:         payslip.NetIncome,
		Breakdown:         breakdown,
		Status:            StatusDraft,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.HasPeriod(ctx, companyID, req.EmployeeID, req.Period, nil)
	if err != nil {
		return PayrollResponse{}, err
	}
	if exists {
		return PayrollResponse{}, payrollerrors.ErrPeriodAlreadyCalculated
	}

	if err := qtx.Create(ctx, record); err != nil {
		s.logger.Error("create payroll persist failed", zap.Error(err))
		return PayrollResponse{}, err
	}

	if s.outbox != nil {
		event := events.PayslipCalculatedEvent{
			EventType:  "payslip_calculated",
			RequestID:  rid,
			PayrollID:  record.ID.String(),
			CompanyID:  companyID,
			EmployeeID: empl.ID.String(),
			Period:     record.Period,
			NetIncome:  record.NetIncome.String(),
			OccurredAt: time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return PayrollResponse{}, err
		}

		outboxRepo := s.outbox.WithTx(tx)
		if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "payroll",
			AggregateID:   record.ID.String(),
			EventType:     event.EventType,
			Topic:         events.PayslipCalculatedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("create payroll outbox persist failed",
				zap.String("payroll_id", record.ID.String()),
				zap.Error(err),
			)
			return PayrollResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return PayrollResponse{}, err
	}

	s.logger.Info("create payroll success",
		zap.String("request_id", rid),
		zap.String("payroll_id", record.ID.String()),
		zap.String("period", record.Period),
	)

	return mapToResponse(*record), nil
}

func (s *service) GetAll(
	ctx context.Context,
	companyID string,
	filter GetPayrollsFilterRequest,
) ([]PayrollResponse, error) {
	records, err := s.repo.FindAllByCompany(ctx, companyID, filter)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(records), nil
}

func (s *service) GetByID(
	ctx context.Context,
	companyID, id string,
) (PayrollResponse, error) {
	record, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*record), nil
}

// GetBreakdown serves the stored itemization. Records are immutable once
// written, so the document is cached aggressively and loads collapse
// under singleflight.
func (s *service) GetBreakdown(
	ctx context.Context,
	companyID, id string,
) (PayslipResponse, error) {
	cacheKey := GetBreakdownKey(companyID, id)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp PayslipResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		record, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		var resp PayslipResponse
		if err := json.Unmarshal(record.Breakdown, &resp); err != nil {
			return nil, err
		}

		if s.rdb != nil {
			s.rdb.Set(ctx, cacheKey, record.Breakdown, 24*time.Hour)
		}

		return resp, nil
	})

	if err != nil {
		return PayslipResponse{}, err
	}

	return v.(PayslipResponse), nil
}

// Regenerate recalculates a draft record in place against the current
// configuration, for example after a bracket table correction.
func (s *service) Regenerate(
	ctx context.Context,
	companyID, id string,
	req RegeneratePayrollRequest,
) (PayrollResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	record, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}
	if record.Status != StatusDraft {
		return PayrollResponse{}, payrollerrors.ErrRegenerateOnlyDraft
	}

	runReq := CalculatePayrollRequest{
		EmployeeID: record.EmployeeID.String(),
		Period:     record.Period,
		Inputs:     req.Inputs,
	}

	empl, payslip, err := s.run(ctx, companyID, runReq)
	if err != nil {
		return PayrollResponse{}, err
	}
	if empl.ID != record.EmployeeID {
		return PayrollResponse{}, payrollerrors.ErrEmployeeNotInCompany
	}

	breakdown, err := json.Marshal(mapPayslipToResponse(payslip))
	if err != nil {
		return PayrollResponse{}, err
	}

	record.GrossIncome = payslip.GrossIncome
	record.InsuranceEmployee = payslip.InsuranceEmployee
	record.InsuranceEmployer = payslip.InsuranceEmployer
	record.TaxableIncome = payslip.TaxableIncome
	record.PersonalIncomeTax = payslip.PersonalIncomeTax
	record.NetIncome = payslip.NetIncome
	record.Breakdown = breakdown

	if err := qtx.Update(ctx, record); err != nil {
		return PayrollResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PayrollResponse{}, err
	}

	s.invalidateBreakdownCache(ctx, companyID, id)

	s.logger.Info("regenerate payroll success", zap.String("payroll_id", id))

	return mapToResponse(*record), nil
}

func (s *service) MarkAsPaid(
	ctx context.Context,
	companyID, id string,
) (PayrollResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	record, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}
	if record.Status == StatusPaid {
		return PayrollResponse{}, payrollerrors.ErrAlreadyPaid
	}

	now := time.Now().UTC()
	record.Status = StatusPaid
	record.PaidAt = &now

	if err := qtx.Update(ctx, record); err != nil {
		return PayrollResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PayrollResponse{}, err
	}

	s.logger.Info("mark payroll paid", zap.String("payroll_id", id))

	return mapToResponse(*record), nil
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

	record, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if record.Status == StatusPaid {
		return payrollerrors.ErrDeletePaidRecord
	}

	if err := qtx.Delete(ctx, companyID, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.invalidateBreakdownCache(ctx, companyID, id)

	s.logger.Info("delete payroll success", zap.String("payroll_id", id))
	return nil
}

// run loads the employee and the company's configuration snapshot,
// builds the raw inputs, and hands everything to the engine.
func (s *service) run(
	ctx context.Context,
	companyID string,
	req CalculatePayrollRequest,
) (*employee.Employee, *engine.Payslip, error) {
	empl, err := s.employees.FindByIDAndCompany(ctx, companyID, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, payrollerrors.ErrEmployeeNotInCompany
		}
		return nil, nil, err
	}

	period, err := time.Parse("2006-01", req.Period)
	if err != nil {
		return nil, nil, payrollerrors.ErrInvalidPeriodFormat
	}
	asOf := period.AddDate(0, 1, -1) // last day of the month

	catalog, brackets, rates, err := s.loadSnapshot(ctx, companyID, asOf)
	if err != nil {
		return nil, nil, err
	}

	inputs, err := buildInputs(empl, req.Inputs)
	if err != nil {
		return nil, nil, err
	}

	payslip, err := engine.Calculate(engine.Input{
		Inputs:   inputs,
		Catalog:  catalog,
		Rates:    rates,
		Brackets: brackets,
		AsOf:     asOf,
	})
	if err != nil {
		return nil, nil, payrollerrors.InvalidConfiguration(err)
	}

	return empl, payslip, nil
}

// loadSnapshot reads the company's payroll configuration in one pass.
// Companies without custom rows run on the seeded defaults.
func (s *service) loadSnapshot(
	ctx context.Context,
	companyID string,
	asOf time.Time,
) (*engine.Catalog, []engine.Bracket, []engine.InsuranceRate, error) {
	componentRows, err := s.components.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, nil, nil, err
	}
	var catalog *engine.Catalog
	if len(componentRows) == 0 {
		catalog = engine.DefaultCatalog()
	} else {
		comps := make([]engine.Component, len(componentRows))
		for i, r := range componentRows {
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
		catalog, err = engine.BuildCatalog(comps)
		if err != nil {
			return nil, nil, nil, payrollerrors.InvalidConfiguration(err)
		}
	}

	bracketRows, err := s.brackets.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, nil, nil, err
	}
	var brackets []engine.Bracket
	if len(bracketRows) == 0 {
		brackets = engine.DefaultBrackets()
	} else {
		brackets = make([]engine.Bracket, len(bracketRows))
		for i, r := range bracketRows {
			brackets[i] = engine.Bracket{
				MinIncome:      r.MinIncome,
				MaxIncome:      r.MaxIncome,
				Rate:           r.Rate,
				SubtractAmount: r.SubtractAmount,
				Order:          r.SortOrder,
			}
		}
	}

	rateRows, err := s.rates.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, nil, nil, err
	}
	var rates []engine.InsuranceRate
	if len(rateRows) == 0 {
		rates = engine.DefaultInsuranceRates(asOf.AddDate(-1, 0, 0))
	} else {
		rates = make([]engine.InsuranceRate, len(rateRows))
		for i, r := range rateRows {
			rates[i] = engine.InsuranceRate{
				Scheme:        engine.InsuranceScheme(r.Scheme),
				EmployeeRate:  r.EmployeeRate,
				EmployerRate:  r.EmployerRate,
				CapBase:       r.CapBase,
				EffectiveDate: r.EffectiveDate,
			}
		}
	}

	return catalog, brackets, rates, nil
}

// Exemption amounts applied when the caller does not override them.
var (
	defaultPersonalExemption  = decimal.NewFromInt(11_000_000)
	defaultDependentExemption = decimal.NewFromInt(4_400_000)
	defaultStandardDays       = decimal.NewFromInt(22)
)

func buildInputs(empl *employee.Employee, raw map[string]string) (engine.Inputs, error) {
	inputs := engine.Inputs{
		engine.CodeBaseSalary:          empl.BaseSalary,
		engine.InputDependents:         decimal.NewFromInt(int64(empl.Dependents)),
		engine.InputStandardDays:       defaultStandardDays,
		engine.InputOTHours:            decimal.Zero,
		engine.InputPersonalExemption:  defaultPersonalExemption,
		engine.InputDependentExemption: defaultDependentExemption,
	}

	for name, value := range raw {
		name = strings.ToUpper(strings.TrimSpace(name))
		v, err := decimal.NewFromString(value)
		if err != nil {
			return nil, payrollerrors.InvalidInput(name)
		}
		inputs[name] = v
	}

	// a full month worked unless stated otherwise
	if _, ok := inputs[engine.InputActualDays]; !ok {
		inputs[engine.InputActualDays] = inputs[engine.InputStandardDays]
	}

	return inputs, nil
}

func (s *service) invalidateBreakdownCache(ctx context.Context, companyID, id string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetBreakdownKey(companyID, id)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate payroll breakdown cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

func mapPayslipToResponse(p *engine.Payslip) PayslipResponse {
	detail := make([]SchemeContributionResponse, len(p.InsuranceDetail))
	for i, d := range p.InsuranceDetail {
		detail[i] = SchemeContributionResponse{
			Scheme:         string(d.Scheme),
			Base:           d.Base.String(),
			EmployeeAmount: d.EmployeeAmount.String(),
			EmployerAmount: d.EmployerAmount.String(),
		}
	}

	breakdown := make(map[string]string, len(p.Breakdown))
	for code, v := range p.Breakdown {
		breakdown[code] = v.String()
	}

	return PayslipResponse{
		GrossIncome:       p.GrossIncome.String(),
		InsuranceEmployee: p.InsuranceEmployee.String(),
		InsuranceEmployer: p.InsuranceEmployer.String(),
		InsuranceDetail:   detail,
		TaxableIncome:     p.TaxableIncome.String(),
		PersonalIncomeTax: p.PersonalIncomeTax.String(),
		NetIncome:         p.NetIncome.String(),
		Breakdown:         breakdown,
	}
}

func mapToResponse(record PayrollRecord) PayrollResponse {
	resp := PayrollResponse{
		ID:                record.ID.String(),
		CompanyID:         record.CompanyID.String(),
		EmployeeID:        record.EmployeeID.String(),
		Period:            record.Period,
		GrossIncome:       record.GrossIncome.String(),
		InsuranceEmployee: record.InsuranceEmployee.String(),
		InsuranceEmployer: record.InsuranceEmployer.String(),
		TaxableIncome:     record.TaxableIncome.String(),
		PersonalIncomeTax: record.PersonalIncomeTax.String(),
		NetIncome:         record.NetIncome.String(),
		Status:            record.Status,
	}
	if record.PaidAt != nil {
		v := record.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &v
	}
	return resp
}

func mapToListResponse(records []PayrollRecord) []PayrollResponse {
	resp := make([]PayrollResponse, len(records))
	for i, record := range records {
		resp[i] = mapToResponse(record)
	}
	return resp
}
