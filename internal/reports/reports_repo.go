package reports

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type payrollMonthRollup struct {
	TotalPaid    float64
	PendingCount int64
}

type attendanceRateRow struct {
	TotalRecords   int64
	PresentRecords int64
}

//go:generate mockgen -source=reports_repo.go -destination=mock/reports_repo_mock.go -package=mock
type Repository interface {
	PayrollRecordsByMonth(ctx context.Context, month string) ([]PayrollReportRow, error)
	PayrollRollupByMonth(ctx context.Context, month string) ([]PayrollStatusRollup, error)
	AttendanceTallies(ctx context.Context, start, end time.Time, department string) ([]AttendanceReportRow, error)
	LeaveTallies(ctx context.Context, filter LeaveReportFilterRequest, start, end *time.Time) ([]LeaveReportRow, error)
	CountEmployees(ctx context.Context) (int64, error)
	CountActiveEmployees(ctx context.Context) (int64, error)
	CountPendingLeaves(ctx context.Context) (int64, error)
	PayrollMonthRollup(ctx context.Context, month string) (payrollMonthRollup, error)
	AttendanceRate(ctx context.Context, start, end time.Time) (attendanceRateRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) PayrollRecordsByMonth(ctx context.Context, month string) ([]PayrollReportRow, error) {
	var rows []PayrollReportRow
	err := r.db.WithContext(ctx).
		Table("payroll_records").
		Select(`payroll_records.id AS payroll_id,
			payroll_records.employee_id,
			employees.name AS employee_name,
			employees.department,
			payroll_records.net_salary,
			payroll_records.status`).
		Joins("JOIN employees ON employees.id = payroll_records.employee_id").
		Where("payroll_records.month = ?", month).
		Order("employees.department ASC, employees.name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) PayrollRollupByMonth(ctx context.Context, month string) ([]PayrollStatusRollup, error) {
	var rollup []PayrollStatusRollup
	err := r.db.WithContext(ctx).
		Table("payroll_records").
		Select("status, COUNT(*) AS count, COALESCE(SUM(net_salary), 0) AS total_amount").
		Where("month = ?", month).
		Group("status").
		Scan(&rollup).Error
	return rollup, err
}

func (r *repository) AttendanceTallies(ctx context.Context, start, end time.Time, department string) ([]AttendanceReportRow, error) {
	query := r.db.WithContext(ctx).
		Table("attendances").
		Select(`attendances.employee_id,
			employees.name AS employee_name,
			employees.department,
			SUM(CASE WHEN attendances.status = 'present' THEN 1 ELSE 0 END) AS present_days,
			SUM(CASE WHEN attendances.status = 'absent' THEN 1 ELSE 0 END) AS absent_days,
			SUM(CASE WHEN attendances.status = 'late' THEN 1 ELSE 0 END) AS late_days,
			SUM(CASE WHEN attendances.status = 'halfday' THEN 1 ELSE 0 END) AS halfday_days,
			COALESCE(SUM(attendances.total_hours), 0) AS total_hours`).
		Joins("JOIN employees ON employees.id = attendances.employee_id").
		Where("attendances.date BETWEEN ? AND ?", start, end).
		Group("attendances.employee_id, employees.name, employees.department")

	if department != "" {
		query = query.Where("employees.department = ?", department)
	}

	var rows []AttendanceReportRow
	err := query.Scan(&rows).Error
	return rows, err
}

func (r *repository) LeaveTallies(ctx context.Context, filter LeaveReportFilterRequest, start, end *time.Time) ([]LeaveReportRow, error) {
	query := r.db.WithContext(ctx).
		Table("leave_requests").
		Select(`employees.department,
			leave_requests.leave_type AS type,
			leave_requests.status,
			COUNT(*) AS count,
			COALESCE(SUM(leave_requests.days), 0) AS total_days,
			COUNT(DISTINCT leave_requests.employee_id) AS employee_count`).
		Joins("JOIN employees ON employees.id = leave_requests.employee_id").
		Group("employees.department, leave_requests.leave_type, leave_requests.status")

	if start != nil && end != nil {
		query = query.Where("leave_requests.start_date <= ? AND leave_requests.end_date >= ?", *end, *start)
	}
	if filter.Status != "" {
		query = query.Where("leave_requests.status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("leave_requests.leave_type = ?", filter.Type)
	}

	var rows []LeaveReportRow
	err := query.Scan(&rows).Error
	return rows, err
}

func (r *repository) CountEmployees(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("employees").Count(&count).Error
	return count, err
}

func (r *repository) CountActiveEmployees(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("employees").Where("status = ?", "active").Count(&count).Error
	return count, err
}

func (r *repository) CountPendingLeaves(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("leave_requests").Where("status = ?", "pending").Count(&count).Error
	return count, err
}

func (r *repository) PayrollMonthRollup(ctx context.Context, month string) (payrollMonthRollup, error) {
	var rollup payrollMonthRollup
	err := r.db.WithContext(ctx).
		Table("payroll_records").
		Select(`COALESCE(SUM(CASE WHEN status = 'paid' THEN net_salary ELSE 0 END), 0) AS total_paid,
			SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END) AS pending_count`).
		Where("month = ?", month).
		Scan(&rollup).Error
	return rollup, err
}

func (r *repository) AttendanceRate(ctx context.Context, start, end time.Time) (attendanceRateRow, error) {
	var row attendanceRateRow
	err := r.db.WithContext(ctx).
		Table("attendances").
		Select(`COUNT(*) AS total_records,
			SUM(CASE WHEN status = 'present' THEN 1 ELSE 0 END) AS present_records`).
		Where("date BETWEEN ? AND ?", start, end).
		Scan(&row).Error
	return row, err
}
