package reports

import (
	"context"
	"time"

	reportserrors "go-hrms/internal/reports/errors"
	"go-hrms/internal/shared/clock"

	"go.uber.org/zap"
)

//go:generate mockgen -source=reports_service.go -destination=mock/reports_service_mock.go -package=mock
type Service interface {
	PayrollReport(ctx context.Context, filter PayrollReportFilterRequest) (PayrollReportResponse, error)
	AttendanceReport(ctx context.Context, filter AttendanceReportFilterRequest) (AttendanceReportResponse, error)
	LeaveReport(ctx context.Context, filter LeaveReportFilterRequest) (LeaveReportResponse, error)
	DashboardStats(ctx context.Context) (DashboardStatsResponse, error)
}

type service struct {
	repo   Repository
	clk    clock.Clock
	logger *zap.Logger
}

func NewService(repo Repository, clk clock.Clock) Service {
	return &service{repo: repo, clk: clk, logger: zap.L().Named("reports.service")}
}

func (s *service) PayrollReport(ctx context.Context, filter PayrollReportFilterRequest) (PayrollReportResponse, error) {
	s.logger.Debug("payroll report requested", zap.String("month", filter.Month))

	if filter.Month == "" {
		return PayrollReportResponse{}, reportserrors.ErrMonthRequired
	}
	if _, err := time.Parse("2006-01", filter.Month); err != nil {
		return PayrollReportResponse{}, reportserrors.ErrInvalidMonthFormat
	}

	records, err := s.repo.PayrollRecordsByMonth(ctx, filter.Month)
	if err != nil {
		s.logger.Error("payroll report query failed", zap.Error(err))
		return PayrollReportResponse{}, err
	}
	summary, err := s.repo.PayrollRollupByMonth(ctx, filter.Month)
	if err != nil {
		s.logger.Error("payroll rollup query failed", zap.Error(err))
		return PayrollReportResponse{}, err
	}

	return PayrollReportResponse{
		Month:   filter.Month,
		Records: records,
		Summary: summary,
	}, nil
}

func (s *service) AttendanceReport(ctx context.Context, filter AttendanceReportFilterRequest) (AttendanceReportResponse, error) {
	s.logger.Debug("attendance report requested",
		zap.String("start_date", filter.StartDate),
		zap.String("end_date", filter.EndDate),
		zap.String("department", filter.Department),
	)

	if filter.StartDate == "" || filter.EndDate == "" {
		return AttendanceReportResponse{}, reportserrors.ErrDateRangeRequired
	}
	start, err := time.Parse("2006-01-02", filter.StartDate)
	if err != nil {
		return AttendanceReportResponse{}, reportserrors.ErrInvalidDateFormat
	}
	end, err := time.Parse("2006-01-02", filter.EndDate)
	if err != nil {
		return AttendanceReportResponse{}, reportserrors.ErrInvalidDateFormat
	}
	if end.Before(start) {
		return AttendanceReportResponse{}, reportserrors.ErrInvalidDateRange
	}

	rows, err := s.repo.AttendanceTallies(ctx, start, end, filter.Department)
	if err != nil {
		s.logger.Error("attendance report query failed", zap.Error(err))
		return AttendanceReportResponse{}, err
	}

	for i := range rows {
		total := rows[i].PresentDays + rows[i].AbsentDays + rows[i].LateDays + rows[i].HalfdayDays
		if total > 0 {
			rows[i].AttendanceRate = float64(rows[i].PresentDays) / float64(total) * 100
		}
	}

	return AttendanceReportResponse{
		Period: ReportPeriod{StartDate: filter.StartDate, EndDate: filter.EndDate},
		Rows:   rows,
	}, nil
}

func (s *service) LeaveReport(ctx context.Context, filter LeaveReportFilterRequest) (LeaveReportResponse, error) {
	s.logger.Debug("leave report requested",
		zap.String("status", filter.Status),
		zap.String("type", filter.Type),
	)

	// The date window is optional and only filters when both ends are set,
	// matching requests that overlap the window.
	var start, end *time.Time
	if filter.StartDate != "" && filter.EndDate != "" {
		s2, err := time.Parse("2006-01-02", filter.StartDate)
		if err != nil {
			return LeaveReportResponse{}, reportserrors.ErrInvalidDateFormat
		}
		e2, err := time.Parse("2006-01-02", filter.EndDate)
		if err != nil {
			return LeaveReportResponse{}, reportserrors.ErrInvalidDateFormat
		}
		if e2.Before(s2) {
			return LeaveReportResponse{}, reportserrors.ErrInvalidDateRange
		}
		start, end = &s2, &e2
	}

	rows, err := s.repo.LeaveTallies(ctx, filter, start, end)
	if err != nil {
		s.logger.Error("leave report query failed", zap.Error(err))
		return LeaveReportResponse{}, err
	}

	return LeaveReportResponse{Filters: filter, Rows: rows}, nil
}

func (s *service) DashboardStats(ctx context.Context) (DashboardStatsResponse, error) {
	now := s.clk.Now()
	currentMonth := now.Format("2006-01")
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	totalEmployees, err := s.repo.CountEmployees(ctx)
	if err != nil {
		return DashboardStatsResponse{}, err
	}
	activeEmployees, err := s.repo.CountActiveEmployees(ctx)
	if err != nil {
		return DashboardStatsResponse{}, err
	}
	pendingLeaves, err := s.repo.CountPendingLeaves(ctx)
	if err != nil {
		return DashboardStatsResponse{}, err
	}
	payroll, err := s.repo.PayrollMonthRollup(ctx, currentMonth)
	if err != nil {
		return DashboardStatsResponse{}, err
	}
	attendance, err := s.repo.AttendanceRate(ctx, monthStart, monthEnd)
	if err != nil {
		return DashboardStatsResponse{}, err
	}

	stats := DashboardStatsResponse{
		TotalEmployees:  totalEmployees,
		ActiveEmployees: activeEmployees,
		PendingLeaves:   pendingLeaves,
		MonthlyPayroll:  payroll.TotalPaid,
		PendingPayroll:  payroll.PendingCount,
	}
	if attendance.TotalRecords > 0 {
		stats.AttendanceRate = float64(attendance.PresentRecords) / float64(attendance.TotalRecords) * 100
	}

	return stats, nil
}
