package attendance

type ClockInRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	Date       string `json:"date"`
	CheckIn    string `json:"check_in" binding:"required"`
}

type ClockOutRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	Date       string `json:"date"`
	CheckOut   string `json:"check_out" binding:"required"`
}

type MarkAbsentRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	Date       string `json:"date" binding:"required"`
}

type GetHistoryFilterRequest struct {
	StartDate string `form:"start_date" binding:"required"`
	EndDate   string `form:"end_date" binding:"required"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
}

type AttendanceResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name,omitempty"`
	Date         string  `json:"date"`
	Status       string  `json:"status"`
	CheckIn      *string `json:"check_in"`
	CheckOut     *string `json:"check_out"`
	TotalHours   float64 `json:"total_hours"`
}

type MonthlyStatsResponse struct {
	TotalDays      int     `json:"total_days"`
	PresentDays    int     `json:"present_days"`
	AbsentDays     int     `json:"absent_days"`
	LateDays       int     `json:"late_days"`
	HalfdayDays    int     `json:"halfday_days"`
	AttendanceRate float64 `json:"attendance_rate"`
	TotalHours     float64 `json:"total_hours"`
}
