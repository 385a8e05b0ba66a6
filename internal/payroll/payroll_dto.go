package payroll

type CalculatePayrollRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	Month      string `json:"month" binding:"required"`
}

type GenerateBulkRequest struct {
	Month string `json:"month" binding:"required"`
}

type GetPayrollsFilterRequest struct {
	Month      string `form:"month"`
	EmployeeID string `form:"employee_id"`
	Status     string `form:"status"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

type BreakdownResponse struct {
	Basic           float64 `json:"basic"`
	HRA             float64 `json:"hra"`
	Conveyance      float64 `json:"conveyance"`
	Medical         float64 `json:"medical"`
	Tax             float64 `json:"tax"`
	PF              float64 `json:"pf"`
	OtherDeductions float64 `json:"other_deductions"`
}

type AttendanceSummaryResponse struct {
	WorkingDays int     `json:"working_days"`
	PresentDays float64 `json:"present_days"`
	LeaveDays   int     `json:"leave_days"`
}

type PayrollResponse struct {
	ID           string                    `json:"id"`
	EmployeeID   string                    `json:"employee_id"`
	EmployeeName string                    `json:"employee_name,omitempty"`
	Month        string                    `json:"month"`
	BaseSalary   float64                   `json:"base_salary"`
	Bonus        float64                   `json:"bonus"`
	Deductions   float64                   `json:"deductions"`
	NetSalary    float64                   `json:"net_salary"`
	Status       string                    `json:"status"`
	PaymentDate  *string                   `json:"payment_date"`
	PayslipURL   *string                   `json:"payslip_url"`
	Breakdown    BreakdownResponse         `json:"breakdown"`
	Attendance   AttendanceSummaryResponse `json:"attendance"`
}

// BulkResult reports best-effort batch generation: per-employee failures are
// absorbed into Skipped, never raised.
type BulkResult struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
}

type StatusSummary struct {
	Status      string  `json:"status"`
	Count       int64   `json:"count"`
	TotalSalary float64 `json:"total_salary"`
	AvgSalary   float64 `json:"avg_salary"`
}

type DepartmentSummary struct {
	Department  string  `json:"department"`
	Count       int64   `json:"count"`
	TotalSalary float64 `json:"total_salary"`
	AvgSalary   float64 `json:"avg_salary"`
}

type SummaryResponse struct {
	Month        string              `json:"month"`
	ByStatus     []StatusSummary     `json:"by_status"`
	ByDepartment []DepartmentSummary `json:"by_department"`
}
