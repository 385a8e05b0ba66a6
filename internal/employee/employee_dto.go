package employee

type CreateEmployeeRequest struct {
	Name       string  `json:"name" binding:"required"`
	Email      string  `json:"email" binding:"required,email"`
	Role       string  `json:"role" binding:"required"`
	Department string  `json:"department" binding:"required"`
	Salary     float64 `json:"salary"`
	JoinDate   string  `json:"join_date" binding:"required"`
}

type UpdateEmployeeRequest struct {
	Name       *string  `json:"name"`
	Role       *string  `json:"role"`
	Department *string  `json:"department"`
	Status     *string  `json:"status"`
	Salary     *float64 `json:"salary"`
}

type GetEmployeesFilterRequest struct {
	Department string `form:"department"`
	Status     string `form:"status"`
	Search     string `form:"search"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

type EmployeeResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Role       string  `json:"role"`
	Department string  `json:"department"`
	Status     string  `json:"status"`
	Salary     float64 `json:"salary"`
	JoinDate   string  `json:"join_date"`
}

type DepartmentStat struct {
	Department string  `json:"department"`
	Count      int64   `json:"count"`
	TotalSalary float64 `json:"total_salary"`
	AvgSalary  float64 `json:"avg_salary"`
}

type EmployeeStatsResponse struct {
	TotalEmployees int64            `json:"total_employees"`
	TotalSalary    float64          `json:"total_salary"`
	ByDepartment   []DepartmentStat `json:"by_department"`
}
