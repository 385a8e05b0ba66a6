package leave

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

// TypeDays is one group-by row of the yearly balance aggregation.
type TypeDays struct {
	Type string
	Days int
}

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *Leave) error
	FindByID(ctx context.Context, id string) (*Leave, error)
	FindAll(ctx context.Context, filter GetLeavesFilterRequest) ([]Leave, int64, error)
	Update(ctx context.Context, l *Leave) error
	HasOverlappingActive(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error)
	ApprovedDaysByType(ctx context.Context, employeeID string, yearStart, yearEnd time.Time) ([]TypeDays, error)
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

func (r *repository) Create(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Leave, error) {
	var l Leave
	err := r.db.WithContext(ctx).
		Preload("Employee").
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindAll(ctx context.Context, filter GetLeavesFilterRequest) ([]Leave, int64, error) {
	db := r.db.WithContext(ctx).Model(&Leave{})

	if filter.EmployeeID != "" {
		db = db.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		db = db.Where("leave_type = ?", filter.Type)
	}
	if filter.StartDate != "" && filter.EndDate != "" {
		db = db.Where("NOT (end_date < ? OR start_date > ?)", filter.StartDate, filter.EndDate)
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

	var rows []Leave
	err := db.
		Preload("Employee").
		Order("applied_date DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error
	return rows, total, err
}

func (r *repository) Update(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Save(l).Error
}

// HasOverlappingActive reports whether a pending or approved request for the
// employee intersects [startDate, endDate]. Two ranges overlap unless one
// ends before the other starts.
func (r *repository) HasOverlappingActive(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Leave{}).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", []string{StatusPending, StatusApproved}).
		Where("NOT (end_date < ? OR start_date > ?)",
			startDate.Format("2006-01-02"), endDate.Format("2006-01-02")).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ApprovedDaysByType(ctx context.Context, employeeID string, yearStart, yearEnd time.Time) ([]TypeDays, error) {
	var rows []TypeDays
	err := r.db.WithContext(ctx).
		Model(&Leave{}).
		Select("leave_type AS type, COALESCE(SUM(days), 0) AS days").
		Where("employee_id = ?", employeeID).
		Where("status = ?", StatusApproved).
		Where("start_date >= ? AND end_date <= ?",
			yearStart.Format("2006-01-02"), yearEnd.Format("2006-01-02")).
		Group("leave_type").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) EmployeeExists(ctx context.Context, employeeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("employees").
		Where("id = ?", employeeID).
		Count(&count).Error
	return count > 0, err
}
