package payroll

// CalculatePayrollRequest drives both the preview endpoint and a
// persisted run. Inputs carries raw numbers keyed by component code or
// input name (ACTUAL_DAYS, OT_HOURS, BONUS, ...); the employee's
// contractual base salary and dependents are filled in automatically.
type CalculatePayrollRequest struct {
	EmployeeID string            `json:"employee_id" binding:"required,uuid"`
	Period     string            `json:"period" binding:"required"` // YYYY-MM
	Inputs     map[string]string `json:"inputs"`
}

type CreatePayrollRequest = CalculatePayrollRequest

// RegeneratePayrollRequest optionally overrides the raw inputs of a
// draft run; the employee and period stay those of the stored record.
type RegeneratePayrollRequest struct {
	Inputs map[string]string `json:"inputs"`
}

type GetPayrollsFilterRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=DRAFT PAID"`
	Period string `form:"period" binding:"omitempty"`
}

type SchemeContributionResponse struct {
	Scheme         string `json:"scheme"`
	Base           string `json:"base"`
	EmployeeAmount string `json:"employee_amount"`
	EmployerAmount string `json:"employer_amount"`
}

// PayslipResponse is the full calculation result: headline figures plus
// the per-component and per-scheme itemization.
type PayslipResponse struct {
	GrossIncome       string                       `json:"gross_income"`
	InsuranceEmployee string                       `json:"insurance_employee"`
	InsuranceEmployer string                       `json:"insurance_employer"`
	InsuranceDetail   []SchemeContributionResponse `json:"insurance_detail"`
	TaxableIncome     string                       `json:"taxable_income"`
	PersonalIncomeTax string                       `json:"personal_income_tax"`
	NetIncome         string                       `json:"net_income"`
	Breakdown         map[string]string            `json:"breakdown"`
}

type PayrollResponse struct {
	ID                string  `json:"id"`
	CompanyID         string  `json:"company_id"`
	EmployeeID        string  `json:"employee_id"`
	Period            string  `json:"period"`
	GrossIncome       string  `json:"gross_income"`
	InsuranceEmployee string  `json:"insurance_employee"`
	InsuranceEmployer string  `json:"insurance_employer"`
	TaxableIncome     string  `json:"taxable_income"`
	PersonalIncomeTax string  `json:"personal_income_tax"`
	NetIncome         string  `json:"net_income"`
	Status            string  `json:"status"`
	PaidAt            *string `json:"paid_at,omitempty"`
}
