package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go-hrms/internal/events"
	"go-hrms/internal/messaging/kafka"
	payrollerrors "go-hrms/internal/payroll/errors"
	"go-hrms/internal/shared/clock"
	"go-hrms/internal/shared/contextutil"
	"go-hrms/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// bulkConcurrency bounds per-employee parallelism in GenerateBulk. Each
// employee's calculation is independent, so workers never contend beyond the
// storage layer's uniqueness checks.
const bulkConcurrency = 4

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	Calculate(ctx context.Context, req CalculatePayrollRequest) (PayrollResponse, error)
	GenerateBulk(ctx context.Context, month string) (BulkResult, error)
	ProcessPayment(ctx context.Context, payrollID string) (PayrollResponse, error)
	GeneratePayslip(ctx context.Context, payrollID string) (PayrollResponse, error)
	GetAll(ctx context.Context, filter GetPayrollsFilterRequest) ([]PayrollResponse, int64, error)
	GetByID(ctx context.Context, id string) (PayrollResponse, error)
	Summary(ctx context.Context, month string) (SummaryResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	store  storage.Store
	outbox kafka.OutboxRepository
	clk    clock.Clock
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, store storage.Store, clk clock.Clock) Service {
	return &service{db: db, repo: repo, store: store, clk: clk, logger: zap.L().Named("payroll.service")}
}

// NewServiceWithOutbox stages a payroll-paid event in the same transaction
// as the payment update.
func NewServiceWithOutbox(db *sql.DB, repo Repository, store storage.Store, outbox kafka.OutboxRepository, clk clock.Clock) Service {
	return &service{db: db, repo: repo, store: store, outbox: outbox, clk: clk, logger: zap.L().Named("payroll.service")}
}

func (s *service) Calculate(ctx context.Context, req CalculatePayrollRequest) (PayrollResponse, error) {
	s.logger.Debug("calculate payroll requested",
		zap.String("employee_id", req.EmployeeID),
		zap.String("month", req.Month),
	)

	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidEmployeeID
	}
	monthStart, monthEnd, err := monthRange(req.Month)
	if err != nil {
		return PayrollResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("calculate payroll begin tx failed", zap.Error(err))
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	emp, err := qtx.FindEmployee(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollResponse{}, payrollerrors.ErrEmployeeNotFound
		}
		return PayrollResponse{}, err
	}

	_, err = qtx.FindByEmployeeAndMonth(ctx, req.EmployeeID, req.Month)
	if err == nil {
		s.logger.Warn("duplicate payroll rejected",
			zap.String("employee_id", req.EmployeeID),
			zap.String("month", req.Month),
		)
		return PayrollResponse{}, payrollerrors.ErrPayrollAlreadyProcessed
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return PayrollResponse{}, err
	}

	tallies, err := qtx.AttendanceTallies(ctx, req.EmployeeID, monthStart, monthEnd)
	if err != nil {
		return PayrollResponse{}, err
	}
	approvedLeaves, err := qtx.CountApprovedLeaves(ctx, req.EmployeeID, monthStart, monthEnd)
	if err != nil {
		return PayrollResponse{}, err
	}

	var presentDays, lateDays, halfDays, absentDays int
	for _, t := range tallies {
		switch t.Status {
		case "present":
			presentDays = t.Count
		case "late":
			lateDays = t.Count
		case "halfday":
			halfDays = t.Count
		case "absent":
			absentDays = t.Count
		}
	}

	// Attendance-adjusted working-day credit: half days count half, each
	// late arrival forfeits a tenth of a day.
	effectiveDays := float64(presentDays) +
		float64(halfDays)*0.5 -
		float64(lateDays)*latePenaltyRate +
		float64(approvedLeaves)

	salary := emp.Salary
	basic := salary * basicRate
	hra := salary * hraRate
	conveyance := salary * conveyanceRate
	medical := salary * medicalRate
	pf := salary * pfRate

	// PF and tax are deductions, not part of gross.
	grossSalary := basic + hra + conveyance + medical

	tax := CalculateTax(grossSalary)
	dailyRate := salary / workingDaysInMonth
	lateDeduction := dailyRate * float64(lateDays) * latePenaltyRate
	absentDeduction := dailyRate * float64(absentDays)
	totalDeductions := tax + pf + lateDeduction + absentDeduction

	netSalary := grossSalary - totalDeductions

	record := &PayrollRecord{
		ID:         uuid.New(),
		EmployeeID: employeeUUID,
		Month:      req.Month,
		BaseSalary: salary,
		Bonus:      0,
		Deductions: totalDeductions,
		NetSalary:  netSalary,
		Status:     StatusPending,
		Breakdown: Breakdown{
			Basic:           basic,
			HRA:             hra,
			Conveyance:      conveyance,
			Medical:         medical,
			Tax:             tax,
			PF:              pf,
			OtherDeductions: lateDeduction + absentDeduction,
		},
		Attendance: AttendanceSummary{
			WorkingDays: workingDaysInMonth,
			PresentDays: effectiveDays,
			LeaveDays:   approvedLeaves,
		},
	}

	if err := qtx.Create(ctx, record); err != nil {
		return PayrollResponse{}, mapCreateError(err)
	}
	if err := tx.Commit(); err != nil {
		return PayrollResponse{}, mapCreateError(err)
	}

	s.logger.Info("calculate payroll success",
		zap.String("payroll_id", record.ID.String()),
		zap.String("month", req.Month),
		zap.Float64("net_salary", netSalary),
	)

	record.Employee = emp
	return mapToResponse(*record), nil
}

// GenerateBulk runs Calculate for every active employee. Best-effort batch:
// a per-employee failure increments Skipped and never aborts the rest.
func (s *service) GenerateBulk(ctx context.Context, month string) (BulkResult, error) {
	if _, _, err := monthRange(month); err != nil {
		return BulkResult{}, err
	}

	employees, err := s.repo.FindActiveEmployees(ctx)
	if err != nil {
		return BulkResult{}, err
	}

	var mu sync.Mutex
	var result BulkResult

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkConcurrency)

	for _, emp := range employees {
		emp := emp
		g.Go(func() error {
			_, calcErr := s.Calculate(gctx, CalculatePayrollRequest{
				EmployeeID: emp.ID.String(),
				Month:      month,
			})

			mu.Lock()
			defer mu.Unlock()
			if calcErr != nil {
				s.logger.Warn("skipping payroll for employee",
					zap.String("employee_id", emp.ID.String()),
					zap.String("month", month),
					zap.Error(calcErr),
				)
				result.Skipped++
				return nil
			}
			result.Processed++
			return nil
		})
	}

	_ = g.Wait()

	s.logger.Info("bulk payroll generation finished",
		zap.String("month", month),
		zap.Int("processed", result.Processed),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

func (s *service) ProcessPayment(ctx context.Context, payrollID string) (PayrollResponse, error) {
	s.logger.Debug("process payment requested", zap.String("payroll_id", payrollID))

	if _, err := uuid.Parse(payrollID); err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidPayrollID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("process payment begin tx failed", zap.Error(err))
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	record, err := qtx.FindByID(ctx, payrollID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollResponse{}, payrollerrors.ErrPayrollNotFound
		}
		return PayrollResponse{}, err
	}
	if record.Status == StatusPaid {
		return PayrollResponse{}, payrollerrors.ErrPayrollAlreadyPaid
	}

	// Payment date is server-generated so the audit trail cannot be skewed
	// by the caller.
	paymentDate := dateOnly(s.clk.Now())
	record.Status = StatusPaid
	record.PaymentDate = &paymentDate

	if err := qtx.Update(ctx, record); err != nil {
		s.logger.Error("process payment persist failed", zap.String("payroll_id", payrollID), zap.Error(err))
		return PayrollResponse{}, err
	}

	if s.outbox != nil {
		if err := s.stagePaidEvent(ctx, tx, record); err != nil {
			s.logger.Error("stage payroll paid event failed", zap.Error(err))
			return PayrollResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("process payment commit failed", zap.String("payroll_id", payrollID), zap.Error(err))
		return PayrollResponse{}, err
	}

	s.logger.Info("payment processed",
		zap.String("payroll_id", payrollID),
		zap.String("payment_date", paymentDate.Format("2006-01-02")),
	)

	// Payslip generation is a side effect of payment; the payment itself is
	// already committed if rendering fails.
	return s.GeneratePayslip(ctx, payrollID)
}

func (s *service) stagePaidEvent(ctx context.Context, tx *sql.Tx, record *PayrollRecord) error {
	payload, err := json.Marshal(events.PayrollPaidEvent{
		EventType:   "payroll.paid",
		PayrollID:   record.ID.String(),
		EmployeeID:  record.EmployeeID.String(),
		Month:       record.Month,
		NetSalary:   record.NetSalary,
		PaymentDate: record.PaymentDate.Format("2006-01-02"),
		OccurredAt:  s.clk.Now(),
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "payroll",
		AggregateID:   record.ID.String(),
		EventType:     "payroll.paid",
		Topic:         events.PayrollPaidTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) GeneratePayslip(ctx context.Context, payrollID string) (PayrollResponse, error) {
	if _, err := uuid.Parse(payrollID); err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidPayrollID
	}

	record, err := s.repo.FindByID(ctx, payrollID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollResponse{}, payrollerrors.ErrPayrollNotFound
		}
		return PayrollResponse{}, err
	}
	if record.Employee == nil {
		return PayrollResponse{}, payrollerrors.ErrEmployeeNotFound
	}

	doc, err := renderPayslip(buildPayslipSections(record))
	if err != nil {
		s.logger.Error("render payslip failed", zap.String("payroll_id", payrollID), zap.Error(err))
		return PayrollResponse{}, err
	}

	// Re-rendering overwrites the previous document at the same key;
	// (employee, month) pairs are unique so nothing else can live there.
	key := payslipKey(record.EmployeeID.String(), record.Month)
	url, err := s.store.Save(key, doc)
	if err != nil {
		s.logger.Error("store payslip failed", zap.String("payroll_id", payrollID), zap.Error(err))
		return PayrollResponse{}, err
	}

	record.PayslipURL = &url
	if err := s.repo.Update(ctx, record); err != nil {
		return PayrollResponse{}, err
	}

	s.logger.Info("payslip generated",
		zap.String("payroll_id", payrollID),
		zap.String("payslip_url", url),
	)
	return mapToResponse(*record), nil
}

func (s *service) GetAll(ctx context.Context, filter GetPayrollsFilterRequest) ([]PayrollResponse, int64, error) {
	if filter.Status != "" &&
		filter.Status != StatusPending && filter.Status != StatusProcessing && filter.Status != StatusPaid {
		return nil, 0, payrollerrors.ErrInvalidStatusFilter
	}

	rows, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	resp := make([]PayrollResponse, len(rows))
	for i, r := range rows {
		resp[i] = mapToResponse(r)
	}
	return resp, total, nil
}

func (s *service) GetByID(ctx context.Context, id string) (PayrollResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidPayrollID
	}

	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollResponse{}, payrollerrors.ErrPayrollNotFound
		}
		return PayrollResponse{}, err
	}
	return mapToResponse(*record), nil
}

func (s *service) Summary(ctx context.Context, month string) (SummaryResponse, error) {
	if _, _, err := monthRange(month); err != nil {
		return SummaryResponse{}, err
	}

	byStatus, err := s.repo.SummaryByStatus(ctx, month)
	if err != nil {
		return SummaryResponse{}, err
	}
	byDepartment, err := s.repo.SummaryByDepartment(ctx, month)
	if err != nil {
		return SummaryResponse{}, err
	}

	return SummaryResponse{
		Month:        month,
		ByStatus:     byStatus,
		ByDepartment: byDepartment,
	}, nil
}

// monthRange resolves a "YYYY-MM" month to its first and last calendar day.
func monthRange(month string) (time.Time, time.Time, error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, payrollerrors.ErrInvalidMonthFormat
	}
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return start, end, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func mapToResponse(record PayrollRecord) PayrollResponse {
	resp := PayrollResponse{
		ID:         record.ID.String(),
		EmployeeID: record.EmployeeID.String(),
		Month:      record.Month,
		BaseSalary: record.BaseSalary,
		Bonus:      record.Bonus,
		Deductions: record.Deductions,
		NetSalary:  record.NetSalary,
		Status:     record.Status,
		PayslipURL: record.PayslipURL,
		Breakdown: BreakdownResponse{
			Basic:           record.Breakdown.Basic,
			HRA:             record.Breakdown.HRA,
			Conveyance:      record.Breakdown.Conveyance,
			Medical:         record.Breakdown.Medical,
			Tax:             record.Breakdown.Tax,
			PF:              record.Breakdown.PF,
			OtherDeductions: record.Breakdown.OtherDeductions,
		},
		Attendance: AttendanceSummaryResponse{
			WorkingDays: record.Attendance.WorkingDays,
			PresentDays: record.Attendance.PresentDays,
			LeaveDays:   record.Attendance.LeaveDays,
		},
	}
	if record.Employee != nil {
		resp.EmployeeName = record.Employee.Name
	}
	if record.PaymentDate != nil {
		v := record.PaymentDate.Format("2006-01-02")
		resp.PaymentDate = &v
	}
	return resp
}
