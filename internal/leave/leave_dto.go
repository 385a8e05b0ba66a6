package leave

type ApplyLeaveRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	Type       string `json:"type" binding:"required"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
	Reason     string `json:"reason" binding:"required"`
}

type GetLeavesFilterRequest struct {
	EmployeeID string `form:"employee_id"`
	Status     string `form:"status"`
	Type       string `form:"type"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

type LeaveResponse struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	Type         string `json:"type"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Days         int    `json:"days"`
	Reason       string `json:"reason"`
	Status       string `json:"status"`
	AppliedDate  string `json:"applied_date"`
}

type LeaveBalance struct {
	Entitled  int `json:"entitled"`
	Used      int `json:"used"`
	Remaining int `json:"remaining"`
}

// BalanceResponse maps leave type to its yearly balance. Remaining is not
// clamped and may go negative.
type BalanceResponse map[string]LeaveBalance
