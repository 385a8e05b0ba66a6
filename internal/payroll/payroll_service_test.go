package payroll

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	payrollerrors "go-hrms/internal/payroll/errors"
	"go-hrms/internal/shared/clock"
)

type fakeRepo struct {
	withTxFn                 func(tx *sql.Tx) Repository
	createFn                 func(ctx context.Context, record *PayrollRecord) error
	findByIDFn               func(ctx context.Context, id string) (*PayrollRecord, error)
	findByEmployeeAndMonthFn func(ctx context.Context, employeeID, month string) (*PayrollRecord, error)
	findAllFn                func(ctx context.Context, filter GetPayrollsFilterRequest) ([]PayrollRecord, int64, error)
	updateFn                 func(ctx context.Context, record *PayrollRecord) error
	findEmployeeFn           func(ctx context.Context, employeeID string) (*EmployeeRef, error)
	findActiveEmployeesFn    func(ctx context.Context) ([]EmployeeRef, error)
	attendanceTalliesFn      func(ctx context.Context, employeeID string, start, end time.Time) ([]StatusTally, error)
	countApprovedLeavesFn    func(ctx context.Context, employeeID string, start, end time.Time) (int, error)
	summaryByStatusFn        func(ctx context.Context, month string) ([]StatusSummary, error)
	summaryByDepartmentFn    func(ctx context.Context, month string) ([]DepartmentSummary, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f.withTxFn(tx) }
func (f *fakeRepo) Create(ctx context.Context, record *PayrollRecord) error {
	return f.createFn(ctx, record)
}
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*PayrollRecord, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRepo) FindByEmployeeAndMonth(ctx context.Context, employeeID, month string) (*PayrollRecord, error) {
	return f.findByEmployeeAndMonthFn(ctx, employeeID, month)
}
func (f *fakeRepo) FindAll(ctx context.Context, filter GetPayrollsFilterRequest) ([]PayrollRecord, int64, error) {
	return f.findAllFn(ctx, filter)
}
func (f *fakeRepo) Update(ctx context.Context, record *PayrollRecord) error {
	return f.updateFn(ctx, record)
}
func (f *fakeRepo) FindEmployee(ctx context.Context, employeeID string) (*EmployeeRef, error) {
	return f.findEmployeeFn(ctx, employeeID)
}
func (f *fakeRepo) FindActiveEmployees(ctx context.Context) ([]EmployeeRef, error) {
	return f.findActiveEmployeesFn(ctx)
}
func (f *fakeRepo) AttendanceTallies(ctx context.Context, employeeID string, start, end time.Time) ([]StatusTally, error) {
	return f.attendanceTalliesFn(ctx, employeeID, start, end)
}
func (f *fakeRepo) CountApprovedLeaves(ctx context.Context, employeeID string, start, end time.Time) (int, error) {
	return f.countApprovedLeavesFn(ctx, employeeID, start, end)
}
func (f *fakeRepo) SummaryByStatus(ctx context.Context, month string) ([]StatusSummary, error) {
	return f.summaryByStatusFn(ctx, month)
}
func (f *fakeRepo) SummaryByDepartment(ctx context.Context, month string) ([]DepartmentSummary, error) {
	return f.summaryByDepartmentFn(ctx, month)
}

type fakeStore struct {
	saveFn func(key string, data []byte) (string, error)
}

func (f *fakeStore) Save(key string, data []byte) (string, error) { return f.saveFn(key, data) }

func newFakeRepo(salary float64) (*fakeRepo, *PayrollRecord) {
	employee := &EmployeeRef{
		ID:         uuid.New(),
		Name:       "Jordan Smith",
		Role:       "Engineer",
		Department: "Engineering",
		Status:     "active",
		Salary:     salary,
	}
	saved := &PayrollRecord{}
	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.findEmployeeFn = func(ctx context.Context, employeeID string) (*EmployeeRef, error) {
		return employee, nil
	}
	repo.findByEmployeeAndMonthFn = func(ctx context.Context, employeeID, month string) (*PayrollRecord, error) {
		if saved.ID == uuid.Nil {
			return nil, gorm.ErrRecordNotFound
		}
		copied := *saved
		return &copied, nil
	}
	repo.findByIDFn = func(ctx context.Context, id string) (*PayrollRecord, error) {
		if saved.ID == uuid.Nil {
			return nil, gorm.ErrRecordNotFound
		}
		copied := *saved
		copied.Employee = employee
		return &copied, nil
	}
	repo.createFn = func(ctx context.Context, record *PayrollRecord) error { *saved = *record; return nil }
	repo.updateFn = func(ctx context.Context, record *PayrollRecord) error { *saved = *record; return nil }
	repo.attendanceTalliesFn = func(ctx context.Context, employeeID string, start, end time.Time) ([]StatusTally, error) {
		return nil, nil
	}
	repo.countApprovedLeavesFn = func(ctx context.Context, employeeID string, start, end time.Time) (int, error) {
		return 0, nil
	}
	repo.findActiveEmployeesFn = func(ctx context.Context) ([]EmployeeRef, error) {
		return []EmployeeRef{*employee}, nil
	}
	return repo, saved
}

func newFakeStore() *fakeStore {
	return &fakeStore{saveFn: func(key string, data []byte) (string, error) {
		return "/payslips/" + key, nil
	}}
}

func fixedClock() clock.Clock {
	return clock.Fixed(time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC))
}

func TestService_Calculate_Breakdown(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo, saved := newFakeRepo(100000)
	svc := NewService(db, repo, newFakeStore(), fixedClock())

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Calculate(context.Background(), CalculatePayrollRequest{
		EmployeeID: uuid.New().String(),
		Month:      "2024-03",
	})
	assert.NoError(t, err)

	assert.Equal(t, 50000.0, resp.Breakdown.Basic)
	assert.Equal(t, 20000.0, resp.Breakdown.HRA)
	assert.Equal(t, 10000.0, resp.Breakdown.Conveyance)
	assert.Equal(t, 10000.0, resp.Breakdown.Medical)
	assert.Equal(t, 12000.0, resp.Breakdown.PF)
	// Gross of 90000 falls entirely inside the exempt tax bracket.
	assert.Equal(t, 0.0, resp.Breakdown.Tax)
	assert.Equal(t, 78000.0, resp.NetSalary)
	assert.Equal(t, StatusPending, resp.Status)
	assert.Equal(t, "Jordan Smith", resp.EmployeeName)
	assert.Nil(t, resp.PaymentDate)
	assert.Equal(t, 22, saved.Attendance.WorkingDays)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Calculate_AttendanceDeductions(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo, saved := newFakeRepo(100000)
	repo.attendanceTalliesFn = func(ctx context.Context, employeeID string, start, end time.Time) ([]StatusTally, error) {
		return []StatusTally{
			{Status: "present", Count: 18},
			{Status: "late", Count: 2},
			{Status: "halfday", Count: 1},
			{Status: "absent", Count: 1},
		}, nil
	}
	repo.countApprovedLeavesFn = func(ctx context.Context, employeeID string, start, end time.Time) (int, error) {
		return 1, nil
	}
	svc := NewService(db, repo, newFakeStore(), fixedClock())

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Calculate(context.Background(), CalculatePayrollRequest{
		EmployeeID: uuid.New().String(),
		Month:      "2024-03",
	})
	assert.NoError(t, err)

	dailyRate := 100000.0 / 22
	lateDeduction := dailyRate * 2 * 0.1
	absentDeduction := dailyRate * 1
	assert.InDelta(t, lateDeduction+absentDeduction, resp.Breakdown.OtherDeductions, 0.001)
	assert.InDelta(t, 12000+lateDeduction+absentDeduction, resp.Deductions, 0.001)
	assert.InDelta(t, 90000-resp.Deductions, resp.NetSalary, 0.001)

	// 18 present + 0.5 per half day - 0.1 per late arrival + approved leaves.
	assert.InDelta(t, 19.3, saved.Attendance.PresentDays, 0.001)
	assert.Equal(t, 1, saved.Attendance.LeaveDays)
}

func TestService_Calculate_HighSalaryTax(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo, _ := newFakeRepo(1200000)
	svc := NewService(db, repo, newFakeStore(), fixedClock())

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Calculate(context.Background(), CalculatePayrollRequest{
		EmployeeID: uuid.New().String(),
		Month:      "2024-03",
	})
	assert.NoError(t, err)

	// Gross 1080000 -> 112500 + 30% of the 80000 above the cap.
	assert.InDelta(t, 136500.0, resp.Breakdown.Tax, 0.001)
}

func TestService_Calculate_DuplicateMonth(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo, _ := newFakeRepo(100000)
	svc := NewService(db, repo, newFakeStore(), fixedClock())
	employeeID := uuid.New().String()

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err := svc.Calculate(context.Background(), CalculatePayrollRequest{EmployeeID: employeeID, Month: "2024-03"})
	assert.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err = svc.Calculate(context.Background(), CalculatePayrollRequest{EmployeeID: employeeID, Month: "2024-03"})
	assert.ErrorIs(t, err, payrollerrors.ErrPayrollAlreadyProcessed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Calculate_UnknownEmployee(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo, _ := newFakeRepo(100000)
	repo.findEmployeeFn = func(ctx context.Context, employeeID string) (*EmployeeRef, error) {
		return nil, gorm.ErrRecordNotFound
	}
	svc := NewService(db, repo, newFakeStore(), fixedClock())

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Calculate(context.Background(), CalculatePayrollRequest{
		EmployeeID: uuid.New().String(),
		Month:      "2024-03",
	})
	assert.ErrorIs(t, err, payrollerrors.ErrEmployeeNotFound)
}

func TestService_Calculate_BadMonth(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo, _ := newFakeRepo(100000)
	svc := NewService(db, repo, newFakeStore(), fixedClock())

	_, err := svc.Calculate(context.Background(), CalculatePayrollRequest{
		EmployeeID: uuid.New().String(),
		Month:      "March 2024",
	})
	assert.ErrorIs(t, err, payrollerrors.ErrInvalidMonthFormat)
}

func TestService_GenerateBulk_CountsProcessed(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo, _ := newFakeRepo(100000)
	svc := NewService(db, repo, newFakeStore(), fixedClock())

	mock.ExpectBegin()
	mock.ExpectCommit()
	result, err := svc.GenerateBulk(context.Background(), "2024-03")
	assert.NoError(t, err)
	assert.Equal(t, BulkResult{Processed: 1, Skipped: 0}, result)
}

func TestService_GenerateBulk_AbsorbsFailures(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo, _ := newFakeRepo(100000)
	repo.findActiveEmployeesFn = func(ctx context.Context) ([]EmployeeRef, error) {
		return []EmployeeRef{
			{ID: uuid.New(), Salary: 100000},
			{ID: uuid.New(), Salary: 90000},
			{ID: uuid.New(), Salary: 80000},
		}, nil
	}
	svc := NewService(db, repo, newFakeStore(), fixedClock())

	// No transaction expectations are queued, so every per-employee
	// calculation fails and lands in the skip count.
	result, err := svc.GenerateBulk(context.Background(), "2024-03")
	assert.NoError(t, err)
	assert.Equal(t, BulkResult{Processed: 0, Skipped: 3}, result)
}

func TestService_ProcessPayment(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo, saved := newFakeRepo(100000)
	svc := NewService(db, repo, newFakeStore(), fixedClock())

	mock.ExpectBegin()
	mock.ExpectCommit()
	calcResp, err := svc.Calculate(context.Background(), CalculatePayrollRequest{
		EmployeeID: uuid.New().String(),
		Month:      "2024-03",
	})
	assert.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.ProcessPayment(context.Background(), calcResp.ID)
	assert.NoError(t, err)
	assert.Equal(t, StatusPaid, resp.Status)
	assert.NotNil(t, resp.PaymentDate)
	assert.Equal(t, "2024-04-02", *resp.PaymentDate)
	assert.NotNil(t, resp.PayslipURL)
	assert.Equal(t, StatusPaid, saved.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ProcessPayment_AlreadyPaid(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo, saved := newFakeRepo(100000)
	paymentDate := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	*saved = PayrollRecord{
		ID:          uuid.New(),
		EmployeeID:  uuid.New(),
		Month:       "2024-03",
		Status:      StatusPaid,
		PaymentDate: &paymentDate,
	}
	svc := NewService(db, repo, newFakeStore(), fixedClock())

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.ProcessPayment(context.Background(), saved.ID.String())
	assert.ErrorIs(t, err, payrollerrors.ErrPayrollAlreadyPaid)
}

func TestService_ProcessPayment_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo, _ := newFakeRepo(100000)
	svc := NewService(db, repo, newFakeStore(), fixedClock())

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.ProcessPayment(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, payrollerrors.ErrPayrollNotFound)
}

func TestService_GeneratePayslip_KeyAndURL(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo, saved := newFakeRepo(100000)
	var savedKey string
	store := &fakeStore{saveFn: func(key string, data []byte) (string, error) {
		savedKey = key
		assert.True(t, len(data) > 0)
		return "/payslips/" + key, nil
	}}
	svc := NewService(db, repo, store, fixedClock())

	mock.ExpectBegin()
	mock.ExpectCommit()
	calcResp, err := svc.Calculate(context.Background(), CalculatePayrollRequest{
		EmployeeID: uuid.New().String(),
		Month:      "2024-03",
	})
	assert.NoError(t, err)

	resp, err := svc.GeneratePayslip(context.Background(), calcResp.ID)
	assert.NoError(t, err)
	assert.Equal(t, "payslip-"+saved.EmployeeID.String()+"-2024-03.pdf", savedKey)
	assert.Equal(t, "/payslips/"+savedKey, *resp.PayslipURL)
}

func TestService_GetByID_InvalidID(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo, _ := newFakeRepo(100000)
	svc := NewService(db, repo, newFakeStore(), fixedClock())

	_, err := svc.GetByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, payrollerrors.ErrInvalidPayrollID)
}

func TestService_GetAll_InvalidStatus(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo, _ := newFakeRepo(100000)
	svc := NewService(db, repo, newFakeStore(), fixedClock())

	_, _, err := svc.GetAll(context.Background(), GetPayrollsFilterRequest{Status: "settled"})
	assert.ErrorIs(t, err, payrollerrors.ErrInvalidStatusFilter)
}

func TestService_Summary(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo, _ := newFakeRepo(100000)
	repo.summaryByStatusFn = func(ctx context.Context, month string) ([]StatusSummary, error) {
		return []StatusSummary{{Status: StatusPaid, Count: 3, TotalSalary: 210000, AvgSalary: 70000}}, nil
	}
	repo.summaryByDepartmentFn = func(ctx context.Context, month string) ([]DepartmentSummary, error) {
		return []DepartmentSummary{{Department: "Engineering", Count: 3, TotalSalary: 210000, AvgSalary: 70000}}, nil
	}
	svc := NewService(db, repo, newFakeStore(), fixedClock())

	resp, err := svc.Summary(context.Background(), "2024-03")
	assert.NoError(t, err)
	assert.Equal(t, "2024-03", resp.Month)
	assert.Len(t, resp.ByStatus, 1)
	assert.Len(t, resp.ByDepartment, 1)
}
