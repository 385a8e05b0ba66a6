package leave

import (
	"context"
	"database/sql"
	"errors"
	"time"

	leaveerrors "go-hrms/internal/leave/errors"
	"go-hrms/internal/shared/clock"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Apply(ctx context.Context, req ApplyLeaveRequest) (LeaveResponse, error)
	Approve(ctx context.Context, id string) (LeaveResponse, error)
	Reject(ctx context.Context, id string) (LeaveResponse, error)
	GetAll(ctx context.Context, filter GetLeavesFilterRequest) ([]LeaveResponse, int64, error)
	Balance(ctx context.Context, employeeID string) (BalanceResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	clk    clock.Clock
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, clk clock.Clock) Service {
	return &service{db: db, repo: repo, clk: clk, logger: zap.L().Named("leave.service")}
}

func (s *service) Apply(ctx context.Context, req ApplyLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("apply leave requested",
		zap.String("employee_id", req.EmployeeID),
		zap.String("type", req.Type),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	if !validLeaveType(req.Type) {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveType
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	if endDate.Before(startDate) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("apply leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.EmployeeExists(ctx, req.EmployeeID)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !exists {
		return LeaveResponse{}, leaveerrors.ErrEmployeeNotFound
	}

	overlap, err := qtx.HasOverlappingActive(ctx, req.EmployeeID, startDate, endDate)
	if err != nil {
		s.logger.Error("apply leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		s.logger.Warn("apply leave overlap detected",
			zap.String("employee_id", req.EmployeeID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	// Inclusive range: a single-day leave counts as one day.
	days := int(endDate.Sub(startDate).Hours()/24) + 1
	l := &Leave{
		ID:          uuid.New(),
		EmployeeID:  employeeUUID,
		Type:        req.Type,
		StartDate:   startDate,
		EndDate:     endDate,
		Days:        days,
		Reason:      req.Reason,
		Status:      StatusPending,
		AppliedDate: dateOnly(s.clk.Now()),
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("apply leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("apply leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("apply leave success",
		zap.String("leave_id", l.ID.String()),
		zap.Int("days", days),
	)
	return mapToResponse(*l), nil
}

func (s *service) Approve(ctx context.Context, id string) (LeaveResponse, error) {
	return s.decide(ctx, id, StatusApproved)
}

func (s *service) Reject(ctx context.Context, id string) (LeaveResponse, error) {
	return s.decide(ctx, id, StatusRejected)
}

// decide performs the one-way pending -> approved/rejected transition.
// Decided requests are immutable.
func (s *service) decide(ctx context.Context, id, targetStatus string) (LeaveResponse, error) {
	s.logger.Debug("decide leave requested",
		zap.String("leave_id", id),
		zap.String("target_status", targetStatus),
	)

	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("decide leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if l.Status != StatusPending {
		s.logger.Warn("decide leave rejected, request already decided",
			zap.String("leave_id", id),
			zap.String("current_status", l.Status),
		)
		return LeaveResponse{}, leaveerrors.ErrAlreadyDecided
	}

	l.Status = targetStatus

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("decide leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("decide leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("decide leave success",
		zap.String("leave_id", id),
		zap.String("status", targetStatus),
	)
	return mapToResponse(*l), nil
}

func (s *service) GetAll(ctx context.Context, filter GetLeavesFilterRequest) ([]LeaveResponse, int64, error) {
	rows, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return mapToListResponse(rows), total, nil
}

func (s *service) Balance(ctx context.Context, employeeID string) (BalanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, leaveerrors.ErrInvalidEmployeeID
	}

	exists, err := s.repo.EmployeeExists(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, leaveerrors.ErrEmployeeNotFound
	}

	year := s.clk.Now().Year()
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	used, err := s.repo.ApprovedDaysByType(ctx, employeeID, yearStart, yearEnd)
	if err != nil {
		return nil, err
	}

	usedByType := make(map[string]int, len(used))
	for _, u := range used {
		usedByType[u.Type] = u.Days
	}

	balance := make(BalanceResponse, len(yearlyEntitlements))
	for leaveType, entitled := range yearlyEntitlements {
		balance[leaveType] = LeaveBalance{
			Entitled:  entitled,
			Used:      usedByType[leaveType],
			Remaining: entitled - usedByType[leaveType],
		}
	}
	return balance, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func mapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:          l.ID.String(),
		EmployeeID:  l.EmployeeID.String(),
		Type:        l.Type,
		StartDate:   l.StartDate.Format("2006-01-02"),
		EndDate:     l.EndDate.Format("2006-01-02"),
		Days:        l.Days,
		Reason:      l.Reason,
		Status:      l.Status,
		AppliedDate: l.AppliedDate.Format("2006-01-02"),
	}
	if l.Employee != nil {
		resp.EmployeeName = l.Employee.Name
	}
	return resp
}

func mapToListResponse(rows []Leave) []LeaveResponse {
	resp := make([]LeaveResponse, len(rows))
	for i, l := range rows {
		resp[i] = mapToResponse(l)
	}
	return resp
}
