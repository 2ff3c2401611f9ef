package payroll_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/component"
	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/employee"
	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/insurancerate"
	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/messaging/kafka"
	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/payroll"
	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/shared/apperror"
	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/taxbracket"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func appCode(t *testing.T, err error) string {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	return apperror.ToHTTP(err).Code
}

type fakePayrollRepo struct {
	CreateFn    func(ctx context.Context, record *payroll.PayrollRecord) error
	FindAllFn   func(ctx context.Context, companyID string, filter payroll.GetPayrollsFilterRequest) ([]payroll.PayrollRecord, error)
	FindByIDFn  func(ctx context.Context, companyID, id string) (*payroll.PayrollRecord, error)
	UpdateFn    func(ctx context.Context, record *payroll.PayrollRecord) error
	DeleteFn    func(ctx context.Context, companyID, id string) error
	HasPeriodFn func(ctx context.Context, companyID, employeeID, period string, excludeID *string) (bool, error)
}

func (f *fakePayrollRepo) WithTx(tx *sql.Tx) payroll.Repository { return f }
func (f *fakePayrollRepo) Create(ctx context.Context, record *payroll.PayrollRecord) error {
	return f.CreateFn(ctx, record)
}
func (f *fakePayrollRepo) FindAllByCompany(ctx context.Context, companyID string, filter payroll.GetPayrollsFilterRequest) ([]payroll.PayrollRecord, error) {
	return f.FindAllFn(ctx, companyID, filter)
}
func (f *fakePayrollRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*payroll.PayrollRecord, error) {
	return f.FindByIDFn(ctx, companyID, id)
}
func (f *fakePayrollRepo) Update(ctx context.Context, record *payroll.PayrollRecord) error {
	return f.UpdateFn(ctx, record)
}
func (f *fakePayrollRepo) Delete(ctx context.Context, companyID, id string) error {
	return f.DeleteFn(ctx, companyID, id)
}
func (f *fakePayrollRepo) HasPeriod(ctx context.Context, companyID, employeeID, period string, excludeID *string) (bool, error) {
	return f.HasPeriodFn(ctx, companyID, employeeID, period, excludeID)
}

type fakeEmployeeRepo struct {
	FindByIDFn func(ctx context.Context, companyID, id string) (*employee.Employee, error)
}

func (f *fakeEmployeeRepo) WithTx(tx *sql.Tx) employee.Repository { return f }
func (f *fakeEmployeeRepo) Create(ctx context.Context, empl *employee.Employee) error {
	return nil
}
func (f *fakeEmployeeRepo) FindAllByCompany(ctx context.Context, companyID string) ([]employee.Employee, error) {
	return nil, nil
}
func (f *fakeEmployeeRepo) FindOptionsByCompany(ctx context.Context, companyID string) ([]employee.Employee, error) {
	return nil, nil
}
func (f *fakeEmployeeRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*employee.Employee, error) {
	return f.FindByIDFn(ctx, companyID, id)
}
func (f *fakeEmployeeRepo) Update(ctx context.Context, empl *employee.Employee) error { return nil }
func (f *fakeEmployeeRepo) Delete(ctx context.Context, companyID, id string) error   { return nil }

type fakeComponentRepo struct {
	FindAllFn func(ctx context.Context, companyID string) ([]component.SalaryComponent, error)
}

func (f *fakeComponentRepo) WithTx(tx *sql.Tx) component.Repository { return f }
func (f *fakeComponentRepo) Create(ctx context.Context, c *component.SalaryComponent) error {
	return nil
}
func (f *fakeComponentRepo) FindAllByCompany(ctx context.Context, companyID string) ([]component.SalaryComponent, error) {
	return f.FindAllFn(ctx, companyID)
}
func (f *fakeComponentRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*component.SalaryComponent, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeComponentRepo) Update(ctx context.Context, c *component.SalaryComponent) error {
	return nil
}
func (f *fakeComponentRepo) Delete(ctx context.Context, companyID, id string) error { return nil }

type fakeBracketRepo struct {
	FindAllFn func(ctx context.Context, companyID string) ([]taxbracket.TaxBracket, error)
}

func (f *fakeBracketRepo) WithTx(tx *sql.Tx) taxbracket.Repository { return f }
func (f *fakeBracketRepo) FindAllByCompany(ctx context.Context, companyID string) ([]taxbracket.TaxBracket, error) {
	return f.FindAllFn(ctx, companyID)
}
func (f *fakeBracketRepo) DeleteAllByCompany(ctx context.Context, companyID string) error {
	return nil
}
func (f *fakeBracketRepo) CreateBatch(ctx context.Context, brackets []taxbracket.TaxBracket) error {
	return nil
}

type fakeRateRepo struct {
	FindAllFn func(ctx context.Context, companyID string) ([]insurancerate.InsuranceRate, error)
}

func (f *fakeRateRepo) WithTx(tx *sql.Tx) insurancerate.Repository { return f }
func (f *fakeRateRepo) Create(ctx context.Context, rate *insurancerate.InsuranceRate) error {
	return nil
}
func (f *fakeRateRepo) FindAllByCompany(ctx context.Context, companyID string) ([]insurancerate.InsuranceRate, error) {
	return f.FindAllFn(ctx, companyID)
}
func (f *fakeRateRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*insurancerate.InsuranceRate, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeRateRepo) Update(ctx context.Context, rate *insurancerate.InsuranceRate) error {
	return nil
}
func (f *fakeRateRepo) Delete(ctx context.Context, companyID, id string) error { return nil }

type fakeOutboxRepo struct {
	CreateFn func(ctx context.Context, event kafka.OutboxEvent) error
}

func (f *fakeOutboxRepo) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutboxRepo) Create(ctx context.Context, event kafka.OutboxEvent) error {
	return f.CreateFn(ctx, event)
}
func (f *fakeOutboxRepo) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutboxRepo) MarkSent(ctx context.Context, id string) error      { return nil }
func (f *fakeOutboxRepo) MarkFailed(ctx context.Context, id, r string) error { return nil }

type serviceDeps struct {
	db         *sql.DB
	sqlMock    sqlmock.Sqlmock
	repo       *fakePayrollRepo
	employees  *fakeEmployeeRepo
	components *fakeComponentRepo
	brackets   *fakeBracketRepo
	rates      *fakeRateRepo
	outbox     *fakeOutboxRepo
	redismock  redismock.ClientMock
	service    payroll.Service
}

// setupServiceTest wires the service against a company with no custom
// configuration rows, so runs use the seeded defaults unless a test
// installs its own FindAllFn.
func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()
	db, sqlMock, _ := sqlmock.New()
	redisClient, redisMock := redismock.NewClientMock()

	repo := &fakePayrollRepo{}
	employees := &fakeEmployeeRepo{}
	components := &fakeComponentRepo{
		FindAllFn: func(ctx context.Context, companyID string) ([]component.SalaryComponent, error) {
			return nil, nil
		},
	}
	brackets := &fakeBracketRepo{
		FindAllFn: func(ctx context.Context, companyID string) ([]taxbracket.TaxBracket, error) {
			return nil, nil
		},
	}
	rates := &fakeRateRepo{
		FindAllFn: func(ctx context.Context, companyID string) ([]insurancerate.InsuranceRate, error) {
			return nil, nil
		},
	}
	outbox := &fakeOutboxRepo{
		CreateFn: func(ctx context.Context, event kafka.OutboxEvent) error { return nil },
	}

	svc := payroll.NewServiceWithOutbox(db, repo, employees, components, brackets, rates, outbox, redisClient)

	return &serviceDeps{
		db:         db,
		sqlMock:    sqlMock,
		repo:       repo,
		employees:  employees,
		components: components,
		brackets:   brackets,
		rates:      rates,
		outbox:     outbox,
		redismock:  redisMock,
		service:    svc,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func worker(companyID string, baseSalary string, dependents int) *employee.Employee {
	return &employee.Employee{
		ID:         uuid.New(),
		CompanyID:  uuid.MustParse(companyID),
		FullName:   "Nguyen Van A",
		BaseSalary: dec(baseSalary),
		Dependents: dependents,
	}
}

func TestPayrollService_Calculate(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	t.Run("full month on default configuration", func(t *testing.T) {
		deps := setupServiceTest(t)
		empl := worker(companyID, "30000000", 1)
		deps.employees.FindByIDFn = func(ctx context.Context, cid, id string) (*employee.Employee, error) {
			assert.Equal(t, companyID, cid)
			return empl, nil
		}

		resp, err := deps.service.Calculate(ctx, companyID, payroll.CalculatePayrollRequest{
			EmployeeID: empl.ID.String(),
			Period:     "2026-06",
		})

		assert.NoError(t, err)
		assert.Equal(t, "30000000", resp.GrossIncome)
		// BHXH 8% + BHYT 1.5% + BHTN 1% of the 30M base
		assert.Equal(t, "3150000", resp.InsuranceEmployee)
		// 30M - 3.15M - 11M personal - 4.4M for one dependent
		assert.Equal(t, "11450000", resp.TaxableIncome)
		// band 3: 11.45M * 15% - 750k
		assert.Equal(t, "967500", resp.PersonalIncomeTax)
		assert.Equal(t, "25882500", resp.NetIncome)

		assert.Len(t, resp.InsuranceDetail, 4)
		assert.Equal(t, "BHXH", resp.InsuranceDetail[0].Scheme)
		assert.Equal(t, "30000000", resp.InsuranceDetail[0].Base)
		assert.Contains(t, resp.Breakdown, "SALARY_BY_DAYS")
	})

	t.Run("overtime and partial month from raw inputs", func(t *testing.T) {
		deps := setupServiceTest(t)
		empl := worker(companyID, "22000000", 0)
		deps.employees.FindByIDFn = func(ctx context.Context, cid, id string) (*employee.Employee, error) {
			return empl, nil
		}

		resp, err := deps.service.Calculate(ctx, companyID, payroll.CalculatePayrollRequest{
			EmployeeID: empl.ID.String(),
			Period:     "2026-06",
			Inputs: map[string]string{
				"actual_days": "20",
				"OT_HOURS":    "10",
			},
		})

		assert.NoError(t, err)
		// 20 of 22 days at 1M/day, plus 10 OT hours at 125k * 1.5
		assert.Equal(t, "21875000", resp.GrossIncome)
		assert.Equal(t, "2310000", resp.InsuranceEmployee)
		assert.Equal(t, "8565000", resp.TaxableIncome)
		assert.Equal(t, "606500", resp.PersonalIncomeTax)
		assert.Equal(t, "18958500", resp.NetIncome)
	})

	t.Run("insurance capped above the contribution ceiling", func(t *testing.T) {
		deps := setupServiceTest(t)
		empl := worker(companyID, "50000000", 0)
		deps.employees.FindByIDFn = func(ctx context.Context, cid, id string) (*employee.Employee, error) {
			return empl, nil
		}

		resp, err := deps.service.Calculate(ctx, companyID, payroll.CalculatePayrollRequest{
			EmployeeID: empl.ID.String(),
			Period:     "2026-06",
		})

		assert.NoError(t, err)
		// all three employee schemes clamp to the 36M cap: 10.5% of 36M
		assert.Equal(t, "3780000", resp.InsuranceEmployee)
		assert.Equal(t, "36000000", resp.InsuranceDetail[0].Base)
	})

	t.Run("malformed raw input", func(t *testing.T) {
		deps := setupServiceTest(t)
		empl := worker(companyID, "30000000", 0)
		deps.employees.FindByIDFn = func(ctx context.Context, cid, id string) (*employee.Employee, error) {
			return empl, nil
		}

		_, err := deps.service.Calculate(ctx, companyID, payroll.CalculatePayrollRequest{
			EmployeeID: empl.ID.String(),
			Period:     "2026-06",
			Inputs:     map[string]string{"OT_HOURS": "ten"},
		})

		assert.Equal(t, apperror.CodeInvalidInput, appCode(t, err))
	})

	t.Run("malformed period", func(t *testing.T) {
		deps := setupServiceTest(t)
		empl := worker(companyID, "30000000", 0)
		deps.employees.FindByIDFn = func(ctx context.Context, cid, id string) (*employee.Employee, error) {
			return empl, nil
		}

		_, err := deps.service.Calculate(ctx, companyID, payroll.CalculatePayrollRequest{
			EmployeeID: empl.ID.String(),
			Period:     "06/2026",
		})

		assert.Equal(t, apperror.CodeInvalidInput, appCode(t, err))
	})

	t.Run("employee of another company", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.employees.FindByIDFn = func(ctx context.Context, cid, id string) (*employee.Employee, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Calculate(ctx, companyID, payroll.CalculatePayrollRequest{
			EmployeeID: uuid.New().String(),
			Period:     "2026-06",
		})

		assert.Equal(t, apperror.CodeInvalidInput, appCode(t, err))
	})

	t.Run("broken company catalog is unprocessable", func(t *testing.T) {
		deps := setupServiceTest(t)
		empl := worker(companyID, "30000000", 0)
		deps.employees.FindByIDFn = func(ctx context.Context, cid, id string) (*employee.Employee, error) {
			return empl, nil
		}
		deps.components.FindAllFn = func(ctx context.Context, cid string) ([]component.SalaryComponent, error) {
			// a catalog missing the required system slots
			return []component.SalaryComponent{
				{Code: "BASE_SALARY", Name: "Base salary", Type: "EARNING", Method: "FIXED", IsSystem: true, SortOrder: 10},
			}, nil
		}

		_, err := deps.service.Calculate(ctx, companyID, payroll.CalculatePayrollRequest{
			EmployeeID: empl.ID.String(),
			Period:     "2026-06",
		})

		assert.Equal(t, apperror.CodeUnprocessable, appCode(t, err))
	})
}

func TestPayrollService_Create(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	t.Run("success persists record and outbox event", func(t *testing.T) {
		deps := setupServiceTest(t)
		empl := worker(companyID, "30000000", 1)
		deps.employees.FindByIDFn = func(ctx context.Context, cid, id string) (*employee.Employee, error) {
			return empl, nil
		}
		deps.repo.HasPeriodFn = func(ctx context.Context, cid, eid, period string, excludeID *string) (bool, error) {
			assert.Equal(t, "2026-06", period)
			return false, nil
		}

		var stored *payroll.PayrollRecord
		deps.repo.CreateFn = func(ctx context.Context, record *payroll.PayrollRecord) error {
			stored = record
			return nil
		}

		var event kafka.OutboxEvent
		deps.outbox.CreateFn = func(ctx context.Context, e kafka.OutboxEvent) error {
			event = e
			return nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Create(ctx, companyID, payroll.CreatePayrollRequest{
			EmployeeID: empl.ID.String(),
			Period:     "2026-06",
		})

		assert.NoError(t, err)
		assert.Equal(t, "DRAFT", resp.Status)
		assert.Equal(t, "2026-06", resp.Period)
		assert.Equal(t, "25882500", resp.NetIncome)
		assert.Nil(t, resp.PaidAt)

		if assert.NotNil(t, stored) {
			assert.Equal(t, empl.ID, stored.EmployeeID)
			var breakdown payroll.PayslipResponse
			assert.NoError(t, json.Unmarshal(stored.Breakdown, &breakdown))
			assert.Equal(t, "25882500", breakdown.NetIncome)
		}

		assert.Equal(t, "payslip_calculated", event.EventType)
		assert.Equal(t, "hr.payroll.payslip.calculated.v1", event.Topic)
		var payload map[string]any
		assert.NoError(t, json.Unmarshal(event.Payload, &payload))
		assert.Equal(t, "payslip_calculated", payload["event_type"])
		assert.Equal(t, "25882500", payload["net_income"])

		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("duplicate period rolls back", func(t *testing.T) {
		deps := setupServiceTest(t)
		empl := worker(companyID, "30000000", 0)
		deps.employees.FindByIDFn = func(ctx context.Context, cid, id string) (*employee.Employee, error) {
			return empl, nil
		}
		deps.repo.HasPeriodFn = func(ctx context.Context, cid, eid, period string, excludeID *string) (bool, error) {
			return true, nil
		}
		deps.repo.CreateFn = func(ctx context.Context, record *payroll.PayrollRecord) error {
			t.Fatal("create must not run for a duplicate period")
			return nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Create(ctx, companyID, payroll.CreatePayrollRequest{
			EmployeeID: empl.ID.String(),
			Period:     "2026-06",
		})

		assert.Equal(t, apperror.CodeConflict, appCode(t, err))
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("calculation failure happens before the transaction", func(t *testing.T) {
		deps := setupServiceTest(t)
		empl := worker(companyID, "30000000", 0)
		deps.employees.FindByIDFn = func(ctx context.Context, cid, id string) (*employee.Employee, error) {
			return empl, nil
		}

		_, err := deps.service.Create(ctx, companyID, payroll.CreatePayrollRequest{
			EmployeeID: empl.ID.String(),
			Period:     "2026-06",
			Inputs:     map[string]string{"BONUS": "not-a-number"},
		})

		assert.Equal(t, apperror.CodeInvalidInput, appCode(t, err))
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestPayrollService_Regenerate(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	draftRecord := func(empl *employee.Employee) *payroll.PayrollRecord {
		return &payroll.PayrollRecord{
			ID:         uuid.New(),
			CompanyID:  uuid.MustParse(companyID),
			EmployeeID: empl.ID,
			Period:     "2026-06",
			NetIncome:  dec("1"),
			Breakdown:  []byte(`{}`),
			Status:     payroll.StatusDraft,
		}
	}

	t.Run("draft recalculates in place", func(t *testing.T) {
		deps := setupServiceTest(t)
		empl := worker(companyID, "30000000", 1)
		record := draftRecord(empl)

		deps.employees.FindByIDFn = func(ctx context.Context, cid, id string) (*employee.Employee, error) {
			return empl, nil
		}
		deps.repo.FindByIDFn = func(ctx context.Context, cid, id string) (*payroll.PayrollRecord, error) {
			return record, nil
		}
		var updated *payroll.PayrollRecord
		deps.repo.UpdateFn = func(ctx context.Context, r *payroll.PayrollRecord) error {
			updated = r
			return nil
		}

		expectTx(t, deps.sqlMock, true)
		deps.redismock.ExpectDel(payroll.GetBreakdownKey(companyID, record.ID.String())).SetVal(1)

		resp, err := deps.service.Regenerate(ctx, companyID, record.ID.String(), payroll.RegeneratePayrollRequest{})

		assert.NoError(t, err)
		assert.Equal(t, "25882500", resp.NetIncome)
		if assert.NotNil(t, updated) {
			assert.True(t, updated.NetIncome.Equal(dec("25882500")))
			assert.Equal(t, payroll.StatusDraft, updated.Status)
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("paid record is rejected", func(t *testing.T) {
		deps := setupServiceTest(t)
		empl := worker(companyID, "30000000", 1)
		record := draftRecord(empl)
		record.Status = payroll.StatusPaid

		deps.repo.FindByIDFn = func(ctx context.Context, cid, id string) (*payroll.PayrollRecord, error) {
			return record, nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Regenerate(ctx, companyID, record.ID.String(), payroll.RegeneratePayrollRequest{})

		assert.Equal(t, apperror.CodeInvalidState, appCode(t, err))
	})

	t.Run("unknown record", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.FindByIDFn = func(ctx context.Context, cid, id string) (*payroll.PayrollRecord, error) {
			return nil, gorm.ErrRecordNotFound
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Regenerate(ctx, companyID, uuid.New().String(), payroll.RegeneratePayrollRequest{})

		assert.Equal(t, apperror.CodeNotFound, appCode(t, err))
	})
}

func TestPayrollService_MarkAsPaid(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	t.Run("draft becomes paid with a timestamp", func(t *testing.T) {
		deps := setupServiceTest(t)
		record := &payroll.PayrollRecord{
			ID:        uuid.New(),
			CompanyID: uuid.MustParse(companyID),
			Period:    "2026-06",
			Status:    payroll.StatusDraft,
		}
		deps.repo.FindByIDFn = func(ctx context.Context, cid, id string) (*payroll.PayrollRecord, error) {
			return record, nil
		}
		deps.repo.UpdateFn = func(ctx context.Context, r *payroll.PayrollRecord) error { return nil }

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.MarkAsPaid(ctx, companyID, record.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, payroll.StatusPaid, resp.Status)
		assert.NotNil(t, resp.PaidAt)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("already paid", func(t *testing.T) {
		deps := setupServiceTest(t)
		now := time.Now()
		record := &payroll.PayrollRecord{
			ID:     uuid.New(),
			Status: payroll.StatusPaid,
			PaidAt: &now,
		}
		deps.repo.FindByIDFn = func(ctx context.Context, cid, id string) (*payroll.PayrollRecord, error) {
			return record, nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.MarkAsPaid(ctx, companyID, record.ID.String())

		assert.Equal(t, apperror.CodeInvalidState, appCode(t, err))
	})
}

func TestPayrollService_Delete(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	t.Run("draft is deleted and cache dropped", func(t *testing.T) {
		deps := setupServiceTest(t)
		record := &payroll.PayrollRecord{ID: uuid.New(), Status: payroll.StatusDraft}
		deps.repo.FindByIDFn = func(ctx context.Context, cid, id string) (*payroll.PayrollRecord, error) {
			return record, nil
		}
		deleted := false
		deps.repo.DeleteFn = func(ctx context.Context, cid, id string) error {
			deleted = true
			return nil
		}

		expectTx(t, deps.sqlMock, true)
		deps.redismock.ExpectDel(payroll.GetBreakdownKey(companyID, record.ID.String())).SetVal(1)

		err := deps.service.Delete(ctx, companyID, record.ID.String())

		assert.NoError(t, err)
		assert.True(t, deleted)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("paid record cannot be deleted", func(t *testing.T) {
		deps := setupServiceTest(t)
		record := &payroll.PayrollRecord{ID: uuid.New(), Status: payroll.StatusPaid}
		deps.repo.FindByIDFn = func(ctx context.Context, cid, id string) (*payroll.PayrollRecord, error) {
			return record, nil
		}
		deps.repo.DeleteFn = func(ctx context.Context, cid, id string) error {
			t.Fatal("delete must not run for a paid record")
			return nil
		}

		expectTx(t, deps.sqlMock, false)

		err := deps.service.Delete(ctx, companyID, record.ID.String())

		assert.Equal(t, apperror.CodeInvalidState, appCode(t, err))
	})
}

func TestPayrollService_GetBreakdown(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	recordID := uuid.New().String()
	cacheKey := payroll.GetBreakdownKey(companyID, recordID)

	breakdownJSON := `{"gross_income":"30000000","net_income":"25882500"}`

	t.Run("cache hit skips the repository", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.FindByIDFn = func(ctx context.Context, cid, id string) (*payroll.PayrollRecord, error) {
			t.Fatal("repository must not be hit on a cache hit")
			return nil, nil
		}

		deps.redismock.ExpectGet(cacheKey).SetVal(breakdownJSON)

		resp, err := deps.service.GetBreakdown(ctx, companyID, recordID)

		assert.NoError(t, err)
		assert.Equal(t, "25882500", resp.NetIncome)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("cache miss loads and caches the stored document", func(t *testing.T) {
		deps := setupServiceTest(t)
		record := &payroll.PayrollRecord{
			ID:        uuid.MustParse(recordID),
			Breakdown: []byte(breakdownJSON),
			Status:    payroll.StatusDraft,
		}
		deps.repo.FindByIDFn = func(ctx context.Context, cid, id string) (*payroll.PayrollRecord, error) {
			return record, nil
		}

		deps.redismock.ExpectGet(cacheKey).RedisNil()
		deps.redismock.ExpectSet(cacheKey, []byte(breakdownJSON), 24*time.Hour).SetVal("OK")

		resp, err := deps.service.GetBreakdown(ctx, companyID, recordID)

		assert.NoError(t, err)
		assert.Equal(t, "30000000", resp.GrossIncome)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("unknown record", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.FindByIDFn = func(ctx context.Context, cid, id string) (*payroll.PayrollRecord, error) {
			return nil, gorm.ErrRecordNotFound
		}

		deps.redismock.ExpectGet(cacheKey).RedisNil()

		_, err := deps.service.GetBreakdown(ctx, companyID, recordID)

		assert.Equal(t, apperror.CodeNotFound, appCode(t, err))
	})
}

func TestPayrollService_GetAll(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	deps := setupServiceTest(t)
	paidAt := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	deps.repo.FindAllFn = func(ctx context.Context, cid string, filter payroll.GetPayrollsFilterRequest) ([]payroll.PayrollRecord, error) {
		assert.Equal(t, "PAID", filter.Status)
		return []payroll.PayrollRecord{
			{
				ID:        uuid.New(),
				CompanyID: uuid.MustParse(companyID),
				Period:    "2026-06",
				NetIncome: dec("25882500"),
				Status:    payroll.StatusPaid,
				PaidAt:    &paidAt,
			},
		}, nil
	}

	resp, err := deps.service.GetAll(ctx, companyID, payroll.GetPayrollsFilterRequest{Status: "PAID"})

	assert.NoError(t, err)
	if assert.Len(t, resp, 1) {
		assert.Equal(t, payroll.StatusPaid, resp[0].Status)
		if assert.NotNil(t, resp[0].PaidAt) {
			assert.Equal(t, "2026-07-01T09:00:00Z", *resp[0].PaidAt)
		}
	}
}
