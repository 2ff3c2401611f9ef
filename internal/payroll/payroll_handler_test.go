package payroll_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/payroll"
	payrollerrors "github.com/nguyenhung1993/phoenix-admin-sub000/internal/payroll/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func mustDecodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakePayrollService struct {
	calculateFn    func(ctx context.Context, companyID string, req payroll.CalculatePayrollRequest) (payroll.PayslipResponse, error)
	createFn       func(ctx context.Context, companyID string, req payroll.CreatePayrollRequest) (payroll.PayrollResponse, error)
	getAllFn       func(ctx context.Context, companyID string, filter payroll.GetPayrollsFilterRequest) ([]payroll.PayrollResponse, error)
	getByIDFn      func(ctx context.Context, companyID, id string) (payroll.PayrollResponse, error)
	getBreakdownFn func(ctx context.Context, companyID, id string) (payroll.PayslipResponse, error)
	regenerateFn   func(ctx context.Context, companyID, id string, req payroll.RegeneratePayrollRequest) (payroll.PayrollResponse, error)
	markPaidFn     func(ctx context.Context, companyID, id string) (payroll.PayrollResponse, error)
	deleteFn       func(ctx context.Context, companyID, id string) error
}

func (f *fakePayrollService) Calculate(ctx context.Context, companyID string, req payroll.CalculatePayrollRequest) (payroll.PayslipResponse, error) {
	return f.calculateFn(ctx, companyID, req)
}

func (f *fakePayrollService) Create(ctx context.Context, companyID string, req payroll.CreatePayrollRequest) (payroll.PayrollResponse, error) {
	return f.createFn(ctx, companyID, req)
}

func (f *fakePayrollService) GetAll(ctx context.Context, companyID string, filter payroll.GetPayrollsFilterRequest) ([]payroll.PayrollResponse, error) {
	return f.getAllFn(ctx, companyID, filter)
}

func (f *fakePayrollService) GetByID(ctx context.Context, companyID, id string) (payroll.PayrollResponse, error) {
	return f.getByIDFn(ctx, companyID, id)
}

func (f *fakePayrollService) GetBreakdown(ctx context.Context, companyID, id string) (payroll.PayslipResponse, error) {
	return f.getBreakdownFn(ctx, companyID, id)
}

func (f *fakePayrollService) Regenerate(ctx context.Context, companyID, id string, req payroll.RegeneratePayrollRequest) (payroll.PayrollResponse, error) {
	return f.regenerateFn(ctx, companyID, id, req)
}

func (f *fakePayrollService) MarkAsPaid(ctx context.Context, companyID, id string) (payroll.PayrollResponse, error) {
	return f.markPaidFn(ctx, companyID, id)
}

func (f *fakePayrollService) Delete(ctx context.Context, companyID, id string) error {
	return f.deleteFn(ctx, companyID, id)
}

func TestPayrollHandler_Calculate(t *testing.T) {
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	svc := &fakePayrollService{
		calculateFn: func(ctx context.Context, cid string, req payroll.CalculatePayrollRequest) (payroll.PayslipResponse, error) {
			assert.Equal(t, companyID, cid)
			assert.Equal(t, employeeID, req.EmployeeID)
			assert.Equal(t, "2026-06", req.Period)
			assert.Equal(t, "16", req.Inputs["OT_HOURS"])
			return payroll.PayslipResponse{NetIncome: "27382500"}, nil
		},
	}

	h := payroll.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := `{"employee_id":"` + employeeID + `","period":"2026-06","inputs":{"OT_HOURS":"16"}}`
	c.Request = httptest.NewRequest(http.MethodPost, "/payrolls/calculate", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("company_id", companyID)

	h.Calculate(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)

	var resp payroll.PayslipResponse
	assert.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, "27382500", resp.NetIncome)
}

func TestPayrollHandler_Calculate_MissingPeriod(t *testing.T) {
	svc := &fakePayrollService{
		calculateFn: func(ctx context.Context, cid string, req payroll.CalculatePayrollRequest) (payroll.PayslipResponse, error) {
			t.Fatal("service must not be called on a binding failure")
			return payroll.PayslipResponse{}, nil
		},
	}

	h := payroll.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := `{"employee_id":"` + uuid.New().String() + `"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/payrolls/calculate", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("company_id", uuid.New().String())

	h.Calculate(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestPayrollHandler_Create(t *testing.T) {
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	svc := &fakePayrollService{
		createFn: func(ctx context.Context, cid string, req payroll.CreatePayrollRequest) (payroll.PayrollResponse, error) {
			assert.Equal(t, companyID, cid)
			return payroll.PayrollResponse{
				ID:         uuid.New().String(),
				CompanyID:  cid,
				EmployeeID: req.EmployeeID,
				Period:     req.Period,
				Status:     payroll.StatusDraft,
			}, nil
		},
	}

	h := payroll.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := `{"employee_id":"` + employeeID + `","period":"2026-06"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/payrolls", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("company_id", companyID)

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)
}

func TestPayrollHandler_Create_DuplicatePeriod(t *testing.T) {
	svc := &fakePayrollService{
		createFn: func(ctx context.Context, cid string, req payroll.CreatePayrollRequest) (payroll.PayrollResponse, error) {
			return payroll.PayrollResponse{}, payrollerrors.ErrPeriodAlreadyCalculated
		},
	}

	h := payroll.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := `{"employee_id":"` + uuid.New().String() + `","period":"2026-06"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/payrolls", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("company_id", uuid.New().String())

	h.Create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
	assert.Equal(t, "CONFLICT", env.Error.Code)
}

func TestPayrollHandler_Regenerate_InvalidState(t *testing.T) {
	svc := &fakePayrollService{
		regenerateFn: func(ctx context.Context, companyID, id string, req payroll.RegeneratePayrollRequest) (payroll.PayrollResponse, error) {
			return payroll.PayrollResponse{}, payrollerrors.ErrRegenerateOnlyDraft
		},
	}

	h := payroll.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	id := uuid.New().String()
	c.Request = httptest.NewRequest(http.MethodPost, "/payrolls/"+id+"/regenerate", nil)
	c.Params = []gin.Param{{Key: "id", Value: id}}
	c.Set("company_id", uuid.New().String())

	h.Regenerate(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
	assert.Equal(t, "INVALID_STATE", env.Error.Code)
}

func TestPayrollHandler_GetBreakdown(t *testing.T) {
	companyID := uuid.New().String()
	payrollID := uuid.New().String()

	svc := &fakePayrollService{
		getBreakdownFn: func(ctx context.Context, cid, id string) (payroll.PayslipResponse, error) {
			assert.Equal(t, companyID, cid)
			assert.Equal(t, payrollID, id)
			return payroll.PayslipResponse{
				GrossIncome: "31500000",
				NetIncome:   "27382500",
				Breakdown:   map[string]string{"BASE_SALARY": "30000000"},
			}, nil
		},
	}

	h := payroll.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/payrolls/"+payrollID+"/breakdown", nil)
	c.Params = []gin.Param{{Key: "id", Value: payrollID}}
	c.Set("company_id", companyID)

	h.GetBreakdown(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)
}

func TestPayrollHandler_MarkAsPaidAndDelete(t *testing.T) {
	companyID := uuid.New().String()
	id := uuid.New().String()

	svc := &fakePayrollService{
		markPaidFn: func(ctx context.Context, cid, pid string) (payroll.PayrollResponse, error) {
			assert.Equal(t, companyID, cid)
			assert.Equal(t, id, pid)
			return payroll.PayrollResponse{ID: id, Status: payroll.StatusPaid}, nil
		},
		deleteFn: func(ctx context.Context, cid, pid string) error {
			return payrollerrors.ErrDeletePaidRecord
		},
	}

	h := payroll.NewHandler(svc)

	wPaid := httptest.NewRecorder()
	cPaid, _ := gin.CreateTestContext(wPaid)
	cPaid.Request = httptest.NewRequest(http.MethodPost, "/payrolls/"+id+"/mark-paid", nil)
	cPaid.Params = []gin.Param{{Key: "id", Value: id}}
	cPaid.Set("company_id", companyID)
	h.MarkAsPaid(cPaid)
	assert.Equal(t, http.StatusOK, wPaid.Code)

	wDel := httptest.NewRecorder()
	cDel, _ := gin.CreateTestContext(wDel)
	cDel.Request = httptest.NewRequest(http.MethodDelete, "/payrolls/"+id, nil)
	cDel.Params = []gin.Param{{Key: "id", Value: id}}
	cDel.Set("company_id", companyID)
	h.Delete(cDel)
	assert.Equal(t, http.StatusConflict, wDel.Code)
	env := mustDecodeEnvelope(t, wDel.Body.Bytes())
	assert.Equal(t, "INVALID_STATE", env.Error.Code)
}
