package leave

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	leaveerrors "go-hrms/internal/leave/errors"
	"go-hrms/internal/shared/clock"
)

type fakeRepo struct {
	withTxFn               func(tx *sql.Tx) Repository
	createFn               func(ctx context.Context, l *Leave) error
	findByIDFn             func(ctx context.Context, id string) (*Leave, error)
	findAllFn              func(ctx context.Context, filter GetLeavesFilterRequest) ([]Leave, int64, error)
	updateFn               func(ctx context.Context, l *Leave) error
	hasOverlappingActiveFn func(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error)
	approvedDaysByTypeFn   func(ctx context.Context, employeeID string, yearStart, yearEnd time.Time) ([]TypeDays, error)
	employeeExistsFn       func(ctx context.Context, employeeID string) (bool, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f.withTxFn(tx) }
func (f *fakeRepo) Create(ctx context.Context, l *Leave) error {
	return f.createFn(ctx, l)
}
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*Leave, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRepo) FindAll(ctx context.Context, filter GetLeavesFilterRequest) ([]Leave, int64, error) {
	return f.findAllFn(ctx, filter)
}
func (f *fakeRepo) Update(ctx context.Context, l *Leave) error { return f.updateFn(ctx, l) }
func (f *fakeRepo) HasOverlappingActive(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error) {
	return f.hasOverlappingActiveFn(ctx, employeeID, startDate, endDate)
}
func (f *fakeRepo) ApprovedDaysByType(ctx context.Context, employeeID string, yearStart, yearEnd time.Time) ([]TypeDays, error) {
	return f.approvedDaysByTypeFn(ctx, employeeID, yearStart, yearEnd)
}
func (f *fakeRepo) EmployeeExists(ctx context.Context, employeeID string) (bool, error) {
	return f.employeeExistsFn(ctx, employeeID)
}

func newFakeRepo() (*fakeRepo, *Leave) {
	saved := &Leave{}
	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.employeeExistsFn = func(ctx context.Context, employeeID string) (bool, error) { return true, nil }
	repo.createFn = func(ctx context.Context, l *Leave) error { *saved = *l; return nil }
	repo.updateFn = func(ctx context.Context, l *Leave) error { *saved = *l; return nil }
	repo.hasOverlappingActiveFn = func(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error) {
		return false, nil
	}
	repo.findByIDFn = func(ctx context.Context, id string) (*Leave, error) {
		if saved.ID == uuid.Nil {
			return nil, gorm.ErrRecordNotFound
		}
		copied := *saved
		return &copied, nil
	}
	return repo, saved
}

func fixedClock() clock.Clock {
	return clock.Fixed(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC))
}

func TestService_Apply_InclusiveDayCount(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo, saved := newFakeRepo()
	svc := NewService(db, repo, fixedClock())

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Apply(context.Background(), ApplyLeaveRequest{
		EmployeeID: uuid.New().String(),
		Type:       TypeVacation,
		StartDate:  "2024-03-01",
		EndDate:    "2024-03-03",
		Reason:     "family trip",
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, resp.Days)
	assert.Equal(t, StatusPending, resp.Status)
	assert.Equal(t, "2024-03-15", saved.AppliedDate.Format("2006-01-02"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Apply_SingleDay(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo, _ := newFakeRepo()
	svc := NewService(db, repo, fixedClock())

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Apply(context.Background(), ApplyLeaveRequest{
		EmployeeID: uuid.New().String(),
		Type:       TypeSick,
		StartDate:  "2024-03-20",
		EndDate:    "2024-03-20",
		Reason:     "fever",
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, resp.Days)
}

func TestService_Apply_EndBeforeStart(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo, _ := newFakeRepo()
	svc := NewService(db, repo, fixedClock())

	_, err := svc.Apply(context.Background(), ApplyLeaveRequest{
		EmployeeID: uuid.New().String(),
		Type:       TypeSick,
		StartDate:  "2024-03-10",
		EndDate:    "2024-03-05",
		Reason:     "oops",
	})
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
}

func TestService_Apply_InvalidType(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo, _ := newFakeRepo()
	svc := NewService(db, repo, fixedClock())

	_, err := svc.Apply(context.Background(), ApplyLeaveRequest{
		EmployeeID: uuid.New().String(),
		Type:       "sabbatical",
		StartDate:  "2024-03-01",
		EndDate:    "2024-03-03",
		Reason:     "rest",
	})
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidLeaveType)
}

func TestService_Apply_OverlapRejected(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo, _ := newFakeRepo()
	repo.hasOverlappingActiveFn = func(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error) {
		return true, nil
	}
	svc := NewService(db, repo, fixedClock())

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Apply(context.Background(), ApplyLeaveRequest{
		EmployeeID: uuid.New().String(),
		Type:       TypePersonal,
		StartDate:  "2024-03-01",
		EndDate:    "2024-03-03",
		Reason:     "errand",
	})
	assert.ErrorIs(t, err, leaveerrors.ErrLeaveOverlap)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Apply_AfterRejectionSucceeds(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	// Status-aware fake: only pending and approved rows block a new
	// application, mirroring the repository's conflict rule.
	var rows []Leave
	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.employeeExistsFn = func(ctx context.Context, employeeID string) (bool, error) { return true, nil }
	repo.createFn = func(ctx context.Context, l *Leave) error {
		rows = append(rows, *l)
		return nil
	}
	repo.updateFn = func(ctx context.Context, l *Leave) error {
		for i := range rows {
			if rows[i].ID == l.ID {
				rows[i] = *l
			}
		}
		return nil
	}
	repo.findByIDFn = func(ctx context.Context, id string) (*Leave, error) {
		for i := range rows {
			if rows[i].ID.String() == id {
				copied := rows[i]
				return &copied, nil
			}
		}
		return nil, gorm.ErrRecordNotFound
	}
	repo.hasOverlappingActiveFn = func(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error) {
		for _, row := range rows {
			if row.Status != StatusPending && row.Status != StatusApproved {
				continue
			}
			if row.EndDate.Before(startDate) || row.StartDate.After(endDate) {
				continue
			}
			return true, nil
		}
		return false, nil
	}

	svc := NewService(db, repo, fixedClock())
	employeeID := uuid.New().String()
	req := ApplyLeaveRequest{
		EmployeeID: employeeID,
		Type:       TypeVacation,
		StartDate:  "2024-03-01",
		EndDate:    "2024-03-03",
		Reason:     "family trip",
	}

	mock.ExpectBegin()
	mock.ExpectCommit()
	first, err := svc.Apply(context.Background(), req)
	assert.NoError(t, err)

	// The pending request blocks a second one over the same window.
	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err = svc.Apply(context.Background(), req)
	assert.ErrorIs(t, err, leaveerrors.ErrLeaveOverlap)

	mock.ExpectBegin()
	mock.ExpectCommit()
	rejected, err := svc.Reject(context.Background(), first.ID)
	assert.NoError(t, err)
	assert.Equal(t, StatusRejected, rejected.Status)

	// Once rejected, the window is free again.
	mock.ExpectBegin()
	mock.ExpectCommit()
	retried, err := svc.Apply(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, StatusPending, retried.Status)
	assert.NotEqual(t, first.ID, retried.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ApproveThenReject(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo, saved := newFakeRepo()
	svc := NewService(db, repo, fixedClock())

	mock.ExpectBegin()
	mock.ExpectCommit()
	applied, err := svc.Apply(context.Background(), ApplyLeaveRequest{
		EmployeeID: uuid.New().String(),
		Type:       TypeVacation,
		StartDate:  "2024-04-01",
		EndDate:    "2024-04-05",
		Reason:     "holiday",
	})
	assert.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()
	approved, err := svc.Approve(context.Background(), applied.ID)
	assert.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)
	assert.Equal(t, StatusApproved, saved.Status)

	// Decided requests are immutable.
	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err = svc.Reject(context.Background(), applied.ID)
	assert.ErrorIs(t, err, leaveerrors.ErrAlreadyDecided)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Approve_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo, _ := newFakeRepo()
	svc := NewService(db, repo, fixedClock())

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Approve(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
}

func TestService_Balance(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo, _ := newFakeRepo()
	repo.approvedDaysByTypeFn = func(ctx context.Context, employeeID string, yearStart, yearEnd time.Time) ([]TypeDays, error) {
		assert.Equal(t, 2024, yearStart.Year())
		assert.Equal(t, 2024, yearEnd.Year())
		return []TypeDays{
			{Type: TypeSick, Days: 4},
			{Type: TypeVacation, Days: 17},
		}, nil
	}
	svc := NewService(db, repo, fixedClock())

	balance, err := svc.Balance(context.Background(), uuid.New().String())
	assert.NoError(t, err)

	assert.Equal(t, LeaveBalance{Entitled: 10, Used: 4, Remaining: 6}, balance[TypeSick])
	// Over-consumption yields a negative remainder rather than clamping.
	assert.Equal(t, LeaveBalance{Entitled: 15, Used: 17, Remaining: -2}, balance[TypeVacation])
	assert.Equal(t, LeaveBalance{Entitled: 5, Used: 0, Remaining: 5}, balance[TypePersonal])
	assert.Equal(t, LeaveBalance{Entitled: 0, Used: 0, Remaining: 0}, balance[TypeUnpaid])
}

func TestService_Balance_UnknownEmployee(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo, _ := newFakeRepo()
	repo.employeeExistsFn = func(ctx context.Context, employeeID string) (bool, error) { return false, nil }
	svc := NewService(db, repo, fixedClock())

	_, err := svc.Balance(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, leaveerrors.ErrEmployeeNotFound)
}
