package attendance

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

// StatusTally is one group-by row of the monthly aggregation.
type StatusTally struct {
	Status     string
	Count      int
	TotalHours float64
}

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Attendance) error
	FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)
	FindAllByDate(ctx context.Context, date time.Time) ([]Attendance, error)
	FindByEmployeeBetween(ctx context.Context, employeeID string, start, end time.Time, page, pageSize int) ([]Attendance, int64, error)
	TalliesByStatus(ctx context.Context, employeeID string, start, end time.Time) ([]StatusTally, error)
	Update(ctx context.Context, a *Attendance) error
	EmployeeExists(ctx context.Context, employeeID string) (bool, error)
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

func (r *repository) Create(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error) {
	var a Attendance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("attendance_date = ?", date.Format("2006-01-02")).
		First(&a).Error
	return &a, err
}

func (r *repository) FindAllByDate(ctx context.Context, date time.Time) ([]Attendance, error) {
	var rows []Attendance
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("attendance_date = ?", date.Format("2006-01-02")).
		Order("check_in ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByEmployeeBetween(
	ctx context.Context,
	employeeID string,
	start, end time.Time,
	page, pageSize int,
) ([]Attendance, int64, error) {
	db := r.db.WithContext(ctx).
		Model(&Attendance{}).
		Where("employee_id = ?", employeeID).
		Where("attendance_date BETWEEN ? AND ?", start.Format("2006-01-02"), end.Format("2006-01-02"))

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []Attendance
	err := db.
		Order("attendance_date DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error
	return rows, total, err
}

func (r *repository) TalliesByStatus(ctx context.Context, employeeID string, start, end time.Time) ([]StatusTally, error) {
	var tallies []StatusTally
	err := r.db.WithContext(ctx).
		Model(&Attendance{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total_hours), 0) AS total_hours").
		Where("employee_id = ?", employeeID).
		Where("attendance_date BETWEEN ? AND ?", start.Format("2006-01-02"), end.Format("2006-01-02")).
		Group("status").
		Scan(&tallies).Error
	return tallies, err
}

func (r *repository) Update(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *repository) EmployeeExists(ctx context.Context, employeeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("employees").
		Where("id = ?", employeeID).
		Count(&count).Error
	return count > 0, err
}
