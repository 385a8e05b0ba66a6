package reports

type PayrollReportFilterRequest struct {
	Month string `form:"month"`
}

type AttendanceReportFilterRequest struct {
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	Department string `form:"department"`
}

type LeaveReportFilterRequest struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Status    string `form:"status"`
	Type      string `form:"type"`
}

type PayrollReportRow struct {
	PayrollID    string  `json:"payroll_id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	Department   string  `json:"department"`
	NetSalary    float64 `json:"net_salary"`
	Status       string  `json:"status"`
}

type PayrollStatusRollup struct {
	Status      string  `json:"status"`
	Count       int     `json:"count"`
	TotalAmount float64 `json:"total_amount"`
}

type PayrollReportResponse struct {
	Month   string                `json:"month"`
	Records []PayrollReportRow    `json:"records"`
	Summary []PayrollStatusRollup `json:"summary"`
}

type AttendanceReportRow struct {
	EmployeeID     string  `json:"employee_id"`
	EmployeeName   string  `json:"employee_name"`
	Department     string  `json:"department"`
	PresentDays    int     `json:"present_days"`
	AbsentDays     int     `json:"absent_days"`
	LateDays       int     `json:"late_days"`
	HalfdayDays    int     `json:"halfday_days"`
	TotalHours     float64 `json:"total_hours"`
	AttendanceRate float64 `json:"attendance_rate"`
}

type ReportPeriod struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type AttendanceReportResponse struct {
	Period ReportPeriod          `json:"period"`
	Rows   []AttendanceReportRow `json:"rows"`
}

type LeaveReportRow struct {
	Department    string `json:"department"`
	Type          string `json:"type"`
	Status        string `json:"status"`
	Count         int    `json:"count"`
	TotalDays     int    `json:"total_days"`
	EmployeeCount int    `json:"employee_count"`
}

type LeaveReportResponse struct {
	Filters LeaveReportFilterRequest `json:"filters"`
	Rows    []LeaveReportRow         `json:"rows"`
}

type DashboardStatsResponse struct {
	TotalEmployees  int64   `json:"total_employees"`
	ActiveEmployees int64   `json:"active_employees"`
	PendingLeaves   int64   `json:"pending_leaves"`
	MonthlyPayroll  float64 `json:"monthly_payroll"`
	PendingPayroll  int64   `json:"pending_payroll"`
	AttendanceRate  float64 `json:"attendance_rate"`
}
