package insurancerate

type CreateInsuranceRateRequest struct {
	Scheme        string  `json:"scheme" binding:"required,oneof=BHXH BHYT BHTN UNION"`
	EmployeeRate  string  `json:"employee_rate" binding:"required"`
	EmployerRate  string  `json:"employer_rate" binding:"required"`
	CapBase       *string `json:"cap_base"`
	EffectiveDate string  `json:"effective_date" binding:"required"`
}

type UpdateInsuranceRateRequest struct {
	EmployeeRate  string  `json:"employee_rate" binding:"required"`
	EmployerRate  string  `json:"employer_rate" binding:"required"`
	CapBase       *string `json:"cap_base"`
	EffectiveDate string  `json:"effective_date" binding:"required"`
}

type InsuranceRateResponse struct {
	ID            string  `json:"id"`
	Scheme        string  `json:"scheme"`
	EmployeeRate  string  `json:"employee_rate"`
	EmployerRate  string  `json:"employer_rate"`
	CapBase       *string `json:"cap_base,omitempty"`
	EffectiveDate string  `json:"effective_date"`
}
