package employee

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *Employee) error
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindAll(ctx context.Context, filter GetEmployeesFilterRequest) ([]Employee, int64, error)
	FindAllActive(ctx context.Context) ([]Employee, error)
	Update(ctx context.Context, e *Employee) error
	StatsByDepartment(ctx context.Context) ([]DepartmentStat, error)
	CountActive(ctx context.Context) (int64, error)
	SumActiveSalary(ctx context.Context) (float64, error)
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

func (r *repository) Create(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) FindAll(ctx context.Context, filter GetEmployeesFilterRequest) ([]Employee, int64, error) {
	db := r.db.WithContext(ctx).Model(&Employee{})

	if filter.Department != "" {
		db = db.Where("department = ?", filter.Department)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		db = db.Where("name ILIKE ? OR email ILIKE ?", pattern, pattern)
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

	var rows []Employee
	err := db.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error
	return rows, total, err
}

func (r *repository) FindAllActive(ctx context.Context) ([]Employee, error) {
	var rows []Employee
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusActive).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *repository) StatsByDepartment(ctx context.Context) ([]DepartmentStat, error) {
	var stats []DepartmentStat
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Select("department, COUNT(*) AS count, SUM(salary) AS total_salary, ROUND(AVG(salary)::numeric, 2) AS avg_salary").
		Group("department").
		Order("department ASC").
		Scan(&stats).Error
	return stats, err
}

func (r *repository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("status = ?", StatusActive).
		Count(&count).Error
	return count, err
}

func (r *repository) SumActiveSalary(ctx context.Context) (float64, error) {
	var total sql.NullFloat64
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Select("SUM(salary)").
		Where("status = ?", StatusActive).
		Scan(&total).Error
	return total.Float64, err
}
