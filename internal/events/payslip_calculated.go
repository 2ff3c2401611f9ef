package events

import "time"

const PayslipCalculatedTopic = "hr.payroll.payslip.calculated.v1"

// PayslipCalculatedEvent is published through the outbox after a payroll
// run is persisted, so downstream consumers (reporting, notifications)
// never observe a run that was rolled back.
type PayslipCalculatedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	PayrollID  string    `json:"payroll_id"`
	CompanyID  string    `json:"company_id"`
	EmployeeID string    `json:"employee_id"`
	Period     string    `json:"period"` // YYYY-MM
	NetIncome  string    `json:"net_income"`
	OccurredAt time.Time `json:"occurred_at"`
}
