package attendance

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	attendanceerrors "go-hrms/internal/attendance/errors"
	"go-hrms/internal/shared/clock"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// lateThreshold is the policy cut-off: a check-in strictly after 09:00 on
// the attendance date counts as late.
const lateThreshold = 9 * time.Hour

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	ClockIn(ctx context.Context, req ClockInRequest) (AttendanceResponse, error)
	ClockOut(ctx context.Context, req ClockOutRequest) (AttendanceResponse, error)
	MarkAbsent(ctx context.Context, req MarkAbsentRequest) (AttendanceResponse, error)
	MonthlyStats(ctx context.Context, employeeID, month string) (MonthlyStatsResponse, error)
	GetToday(ctx context.Context) ([]AttendanceResponse, error)
	GetHistory(ctx context.Context, employeeID string, filter GetHistoryFilterRequest) ([]AttendanceResponse, int64, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	clk    clock.Clock
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, clk clock.Clock) Service {
	return &service{db: db, repo: repo, clk: clk, logger: zap.L().Named("attendance.service")}
}

func (s *service) ClockIn(ctx context.Context, req ClockInRequest) (AttendanceResponse, error) {
	s.logger.Debug("clock in requested",
		zap.String("employee_id", req.EmployeeID),
		zap.String("date", req.Date),
		zap.String("check_in", req.CheckIn),
	)

	employeeUUID, date, err := s.validateEmployeeAndDate(req.EmployeeID, req.Date)
	if err != nil {
		return AttendanceResponse{}, err
	}
	checkIn, err := parseClockTime(date, req.CheckIn)
	if err != nil {
		return AttendanceResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("clock in begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.EmployeeExists(ctx, req.EmployeeID)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if !exists {
		return AttendanceResponse{}, attendanceerrors.ErrEmployeeNotFound
	}

	_, err = qtx.FindByEmployeeAndDate(ctx, req.EmployeeID, date)
	if err == nil {
		s.logger.Warn("duplicate clock in rejected",
			zap.String("employee_id", req.EmployeeID),
			zap.String("date", date.Format("2006-01-02")),
		)
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyClockedIn
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}

	status := StatusPresent
	if checkIn.After(date.Add(lateThreshold)) {
		status = StatusLate
	}

	row := &Attendance{
		ID:         uuid.New(),
		EmployeeID: employeeUUID,
		Date:       date,
		Status:     status,
		CheckIn:    &checkIn,
		TotalHours: 0,
	}

	if err := qtx.Create(ctx, row); err != nil {
		return AttendanceResponse{}, mapCreateError(err)
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, mapCreateError(err)
	}

	s.logger.Info("clock in recorded",
		zap.String("attendance_id", row.ID.String()),
		zap.String("status", status),
	)
	return mapToResponse(*row), nil
}

func (s *service) ClockOut(ctx context.Context, req ClockOutRequest) (AttendanceResponse, error) {
	s.logger.Debug("clock out requested",
		zap.String("employee_id", req.EmployeeID),
		zap.String("date", req.Date),
		zap.String("check_out", req.CheckOut),
	)

	_, date, err := s.validateEmployeeAndDate(req.EmployeeID, req.Date)
	if err != nil {
		return AttendanceResponse{}, err
	}
	checkOut, err := parseClockTime(date, req.CheckOut)
	if err != nil {
		return AttendanceResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("clock out begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row, err := qtx.FindByEmployeeAndDate(ctx, req.EmployeeID, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrClockInNotFound
		}
		return AttendanceResponse{}, err
	}
	if row.CheckOut != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyClockedOut
	}

	if row.CheckIn != nil {
		duration := checkOut.Sub(*row.CheckIn)
		if duration <= 0 {
			return AttendanceResponse{}, attendanceerrors.ErrCheckOutBeforeCheckIn
		}
		row.TotalHours = roundHours(duration.Hours())
	}
	row.CheckOut = &checkOut

	if err := qtx.Update(ctx, row); err != nil {
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("clock out recorded",
		zap.String("attendance_id", row.ID.String()),
		zap.Float64("total_hours", row.TotalHours),
	)
	return mapToResponse(*row), nil
}

// MarkAbsent creates a terminal absent record. It is only valid while no
// attendance exists for that (employee, date).
func (s *service) MarkAbsent(ctx context.Context, req MarkAbsentRequest) (AttendanceResponse, error) {
	employeeUUID, date, err := s.validateEmployeeAndDate(req.EmployeeID, req.Date)
	if err != nil {
		return AttendanceResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("mark absent begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.EmployeeExists(ctx, req.EmployeeID)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if !exists {
		return AttendanceResponse{}, attendanceerrors.ErrEmployeeNotFound
	}

	_, err = qtx.FindByEmployeeAndDate(ctx, req.EmployeeID, date)
	if err == nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyClockedIn
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}

	row := &Attendance{
		ID:         uuid.New(),
		EmployeeID: employeeUUID,
		Date:       date,
		Status:     StatusAbsent,
		TotalHours: 0,
	}

	if err := qtx.Create(ctx, row); err != nil {
		return AttendanceResponse{}, mapCreateError(err)
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, mapCreateError(err)
	}

	s.logger.Info("absence recorded",
		zap.String("employee_id", req.EmployeeID),
		zap.String("date", date.Format("2006-01-02")),
	)
	return mapToResponse(*row), nil
}

func (s *service) MonthlyStats(ctx context.Context, employeeID, month string) (MonthlyStatsResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return MonthlyStatsResponse{}, attendanceerrors.ErrInvalidEmployeeID
	}
	start, end, err := MonthRange(month)
	if err != nil {
		return MonthlyStatsResponse{}, err
	}

	tallies, err := s.repo.TalliesByStatus(ctx, employeeID, start, end)
	if err != nil {
		return MonthlyStatsResponse{}, err
	}

	var stats MonthlyStatsResponse
	for _, t := range tallies {
		stats.TotalDays += t.Count
		stats.TotalHours += t.TotalHours
		switch t.Status {
		case StatusPresent:
			stats.PresentDays = t.Count
		case StatusAbsent:
			stats.AbsentDays = t.Count
		case StatusLate:
			stats.LateDays = t.Count
		case StatusHalfday:
			stats.HalfdayDays = t.Count
		}
	}
	if stats.TotalDays > 0 {
		stats.AttendanceRate = float64(stats.PresentDays) / float64(stats.TotalDays) * 100
	}
	stats.TotalHours = roundHours(stats.TotalHours)

	return stats, nil
}

func (s *service) GetToday(ctx context.Context) ([]AttendanceResponse, error) {
	today := dateOnly(s.clk.Now())
	rows, err := s.repo.FindAllByDate(ctx, today)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetHistory(ctx context.Context, employeeID string, filter GetHistoryFilterRequest) ([]AttendanceResponse, int64, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, 0, attendanceerrors.ErrInvalidEmployeeID
	}
	start, err := parseDate(filter.StartDate)
	if err != nil {
		return nil, 0, err
	}
	end, err := parseDate(filter.EndDate)
	if err != nil {
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

	rows, total, err := s.repo.FindByEmployeeBetween(ctx, employeeID, start, end, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return mapToListResponse(rows), total, nil
}

func (s *service) validateEmployeeAndDate(employeeID, rawDate string) (uuid.UUID, time.Time, error) {
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return uuid.Nil, time.Time{}, attendanceerrors.ErrInvalidEmployeeID
	}

	if rawDate == "" {
		return employeeUUID, dateOnly(s.clk.Now()), nil
	}
	date, err := parseDate(rawDate)
	if err != nil {
		return uuid.Nil, time.Time{}, err
	}
	return employeeUUID, date, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, attendanceerrors.ErrInvalidDateFormat
	}
	return t, nil
}

// parseClockTime anchors a wall-clock value like "08:30" on the attendance
// date.
func parseClockTime(date time.Time, v string) (time.Time, error) {
	layout := "15:04"
	if len(v) == len("15:04:05") {
		layout = "15:04:05"
	}
	t, err := time.Parse(layout, v)
	if err != nil {
		return time.Time{}, attendanceerrors.ErrInvalidTimeFormat
	}
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), t.Second(), 0, time.UTC,
	), nil
}

// MonthRange resolves a "YYYY-MM" month to its first and last calendar day.
func MonthRange(month string) (time.Time, time.Time, error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, attendanceerrors.ErrInvalidMonthFormat
	}
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return start, end, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func roundHours(h float64) float64 {
	return math.Round(h*100) / 100
}

func mapToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:         a.ID.String(),
		EmployeeID: a.EmployeeID.String(),
		Date:       a.Date.Format("2006-01-02"),
		Status:     a.Status,
		TotalHours: a.TotalHours,
	}
	if a.Employee != nil {
		resp.EmployeeName = a.Employee.Name
	}
	if a.CheckIn != nil {
		v := a.CheckIn.Format(time.RFC3339)
		resp.CheckIn = &v
	}
	if a.CheckOut != nil {
		v := a.CheckOut.Format(time.RFC3339)
		resp.CheckOut = &v
	}
	return resp
}

func mapToListResponse(rows []Attendance) []AttendanceResponse {
	resp := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		resp[i] = mapToResponse(r)
	}
	return resp
}
