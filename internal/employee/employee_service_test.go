package employee

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	employeeerrors "go-hrms/internal/employee/errors"
	"go-hrms/internal/messaging/kafka"
)

type fakeRepo struct {
	withTxFn            func(tx *sql.Tx) Repository
	createFn            func(ctx context.Context, e *Employee) error
	findByIDFn          func(ctx context.Context, id string) (*Employee, error)
	findAllFn           func(ctx context.Context, filter GetEmployeesFilterRequest) ([]Employee, int64, error)
	findAllActiveFn     func(ctx context.Context) ([]Employee, error)
	updateFn            func(ctx context.Context, e *Employee) error
	statsByDepartmentFn func(ctx context.Context) ([]DepartmentStat, error)
	countActiveFn       func(ctx context.Context) (int64, error)
	sumActiveSalaryFn   func(ctx context.Context) (float64, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f.withTxFn(tx) }
func (f *fakeRepo) Create(ctx context.Context, e *Employee) error {
	return f.createFn(ctx, e)
}
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*Employee, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRepo) FindAll(ctx context.Context, filter GetEmployeesFilterRequest) ([]Employee, int64, error) {
	return f.findAllFn(ctx, filter)
}
func (f *fakeRepo) FindAllActive(ctx context.Context) ([]Employee, error) {
	return f.findAllActiveFn(ctx)
}
func (f *fakeRepo) Update(ctx context.Context, e *Employee) error { return f.updateFn(ctx, e) }
func (f *fakeRepo) StatsByDepartment(ctx context.Context) ([]DepartmentStat, error) {
	return f.statsByDepartmentFn(ctx)
}
func (f *fakeRepo) CountActive(ctx context.Context) (int64, error) { return f.countActiveFn(ctx) }
func (f *fakeRepo) SumActiveSalary(ctx context.Context) (float64, error) {
	return f.sumActiveSalaryFn(ctx)
}

type fakeOutbox struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}
func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error               { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, reason string) error { return nil }

func newFakeRepo() (*fakeRepo, *Employee) {
	saved := &Employee{}
	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.createFn = func(ctx context.Context, e *Employee) error { *saved = *e; return nil }
	repo.updateFn = func(ctx context.Context, e *Employee) error { *saved = *e; return nil }
	repo.findByIDFn = func(ctx context.Context, id string) (*Employee, error) {
		if saved.ID == uuid.Nil {
			return nil, gorm.ErrRecordNotFound
		}
		copied := *saved
		return &copied, nil
	}
	return repo, saved
}

func validCreateRequest() CreateEmployeeRequest {
	return CreateEmployeeRequest{
		Name:       "Jordan Smith",
		Email:      "jordan.smith@example.com",
		Role:       "Engineer",
		Department: "Engineering",
		Salary:     100000,
		JoinDate:   "2023-06-01",
	}
}

func TestService_Create(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo, saved := newFakeRepo()
	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Create(context.Background(), validCreateRequest())
	assert.NoError(t, err)
	assert.Equal(t, StatusActive, resp.Status)
	assert.Equal(t, "2023-06-01", resp.JoinDate)
	assert.Equal(t, "jordan.smith@example.com", saved.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_StagesOutboxEvent(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo, _ := newFakeRepo()
	outbox := &fakeOutbox{}
	svc := NewServiceWithOutbox(db, repo, outbox)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Create(context.Background(), validCreateRequest())
	assert.NoError(t, err)

	assert.Len(t, outbox.created, 1)
	event := outbox.created[0]
	assert.Equal(t, "employee.created", event.EventType)
	assert.Equal(t, "employee", event.AggregateType)
	assert.Equal(t, resp.ID, event.AggregateID)
}

func TestService_Create_NegativeSalary(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo, _ := newFakeRepo()
	svc := NewService(db, repo)

	req := validCreateRequest()
	req.Salary = -1
	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, employeeerrors.ErrInvalidSalary)
}

func TestService_Create_BadJoinDate(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo, _ := newFakeRepo()
	svc := NewService(db, repo)

	req := validCreateRequest()
	req.JoinDate = "01/06/2023"
	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, employeeerrors.ErrInvalidDateFormat)
}

func TestService_Update(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo, saved := newFakeRepo()
	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	created, err := svc.Create(context.Background(), validCreateRequest())
	assert.NoError(t, err)

	newRole := "Staff Engineer"
	newSalary := 120000.0
	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Update(context.Background(), created.ID, UpdateEmployeeRequest{
		Role:   &newRole,
		Salary: &newSalary,
	})
	assert.NoError(t, err)
	assert.Equal(t, "Staff Engineer", resp.Role)
	assert.Equal(t, 120000.0, resp.Salary)
	// Untouched fields survive a partial update.
	assert.Equal(t, "Jordan Smith", saved.Name)
}

func TestService_Update_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo, _ := newFakeRepo()
	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Update(context.Background(), uuid.New().String(), UpdateEmployeeRequest{})
	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
}

func TestService_Deactivate(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo, saved := newFakeRepo()
	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	created, err := svc.Create(context.Background(), validCreateRequest())
	assert.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Deactivate(context.Background(), created.ID)
	assert.NoError(t, err)
	assert.Equal(t, StatusInactive, resp.Status)
	assert.Equal(t, StatusInactive, saved.Status)
}

func TestService_GetAll_InvalidStatus(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo, _ := newFakeRepo()
	svc := NewService(db, repo)

	_, _, err := svc.GetAll(context.Background(), GetEmployeesFilterRequest{Status: "terminated"})
	assert.ErrorIs(t, err, employeeerrors.ErrInvalidStatus)
}

func TestService_GetByID_InvalidID(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo, _ := newFakeRepo()
	svc := NewService(db, repo)

	_, err := svc.GetByID(context.Background(), "42")
	assert.ErrorIs(t, err, employeeerrors.ErrInvalidEmployeeID)
}

func TestService_Stats(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo, _ := newFakeRepo()
	repo.statsByDepartmentFn = func(ctx context.Context) ([]DepartmentStat, error) {
		return []DepartmentStat{
			{Department: "Engineering", Count: 4, TotalSalary: 400000, AvgSalary: 100000},
		}, nil
	}
	repo.countActiveFn = func(ctx context.Context) (int64, error) { return 4, nil }
	repo.sumActiveSalaryFn = func(ctx context.Context) (float64, error) { return 400000, nil }
	svc := NewService(db, repo)

	stats, err := svc.Stats(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalEmployees)
	assert.Equal(t, 400000.0, stats.TotalSalary)
	assert.Len(t, stats.ByDepartment, 1)
}
