package payroll

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

// StatusTally is one group-by row of the monthly attendance aggregation.
type StatusTally struct {
	Status string
	Count  int
}

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, record *PayrollRecord) error
	FindByID(ctx context.Context, id string) (*PayrollRecord, error)
	FindByEmployeeAndMonth(ctx context.Context, employeeID, month string) (*PayrollRecord, error)
	FindAll(ctx context.Context, filter GetPayrollsFilterRequest) ([]PayrollRecord, int64, error)
	Update(ctx context.Context, record *PayrollRecord) error
	FindEmployee(ctx context.Context, employeeID string) (*EmployeeRef, error)
	FindActiveEmployees(ctx context.Context) ([]EmployeeRef, error)
	AttendanceTallies(ctx context.Context, employeeID string, start, end time.Time) ([]StatusTally, error)
	CountApprovedLeaves(ctx context.Context, employeeID string, start, end time.Time) (int, error)
	SummaryByStatus(ctx context.Context, month string) ([]StatusSummary, error)
	SummaryByDepartment(ctx context.Context, month string) ([]DepartmentSummary, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, record *PayrollRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*PayrollRecord, error) {
	var record PayrollRecord
	err := r.db.WithContext(ctx).
		Preload("Employee").
		First(&record, "id = ?", id).Error
	return &record, err
}

func (r *repository) FindByEmployeeAndMonth(ctx context.Context, employeeID, month string) (*PayrollRecord, error) {
	var record PayrollRecord
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("month = ?", month).
		First(&record).Error
	return &record, err
}

func (r *repository) FindAll(ctx context.Context, filter GetPayrollsFilterRequest) ([]PayrollRecord, int64, error) {
	db := r.db.WithContext(ctx).Model(&PayrollRecord{})

	if filter.Month != "" {
		db = db.Where("month = ?", filter.Month)
	}
	if filter.EmployeeID != "" {
		db = db.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 10
	}

	var rows []PayrollRecord
	err := db.
		Preload("Employee").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error
	return rows, total, err
}

func (r *repository) Update(ctx context.Context, record *PayrollRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *repository) FindEmployee(ctx context.Context, employeeID string) (*EmployeeRef, error) {
	var e EmployeeRef
	err := r.db.WithContext(ctx).First(&e, "id = ?", employeeID).Error
	return &e, err
}

func (r *repository) FindActiveEmployees(ctx context.Context) ([]EmployeeRef, error) {
	var rows []EmployeeRef
	err := r.db.WithContext(ctx).
		Where("status = ?", "active").
		Find(&rows).Error
	return rows, err
}

func (r *repository) AttendanceTallies(ctx context.Context, employeeID string, start, end time.Time) ([]StatusTally, error) {
	var tallies []StatusTally
	err := r.db.WithContext(ctx).
		Table("attendances").
		Select("status, COUNT(*) AS count").
		Where("employee_id = ?", employeeID).
		Where("attendance_date BETWEEN ? AND ?", start.Format("2006-01-02"), end.Format("2006-01-02")).
		Group("status").
		Scan(&tallies).Error
	return tallies, err
}

// CountApprovedLeaves counts approved requests whose range intersects
// [start, end].
func (r *repository) CountApprovedLeaves(ctx context.Context, employeeID string, start, end time.Time) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("leave_requests").
		Where("employee_id = ?", employeeID).
		Where("status = ?", "approved").
		Where("start_date <= ? AND end_date >= ?", end.Format("2006-01-02"), start.Format("2006-01-02")).
		Count(&count).Error
	return int(count), err
}

func (r *repository) SummaryByStatus(ctx context.Context, month string) ([]StatusSummary, error) {
	var rows []StatusSummary
	err := r.db.WithContext(ctx).
		Model(&PayrollRecord{}).
		Select("status, COUNT(*) AS count, SUM(net_salary) AS total_salary, ROUND(AVG(net_salary)::numeric, 2) AS avg_salary").
		Where("month = ?", month).
		Group("status").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) SummaryByDepartment(ctx context.Context, month string) ([]DepartmentSummary, error) {
	var rows []DepartmentSummary
	err := r.db.WithContext(ctx).
		Table("payroll_records").
		Select("employees.department, COUNT(*) AS count, SUM(payroll_records.net_salary) AS total_salary, ROUND(AVG(payroll_records.net_salary)::numeric, 2) AS avg_salary").
		Joins("JOIN employees ON employees.id = payroll_records.employee_id").
		Where("payroll_records.month = ?", month).
		Group("employees.department").
		Order("employees.department ASC").
		Scan(&rows).Error
	return rows, err
}
