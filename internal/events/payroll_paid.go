package events

import "time"

const PayrollPaidTopic = "hr.payroll.paid.v1"

// PayrollPaidEvent feeds downstream consumers (finance export, notification)
// once a payroll record transitions to paid.
type PayrollPaidEvent struct {
	EventType   string    `json:"event_type"`
	PayrollID   string    `json:"payroll_id"`
	EmployeeID  string    `json:"employee_id"`
	Month       string    `json:"month"`
	NetSalary   float64   `json:"net_salary"`
	PaymentDate string    `json:"payment_date"`
	OccurredAt  time.Time `json:"occurred_at"`
}
