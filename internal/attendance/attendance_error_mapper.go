package attendance

import (
	"errors"
	"strings"

	attendanceerrors "go-hrms/internal/attendance/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// mapCreateError catches the unique-violation fallback when two requests
// race past the existence check for the same (employee, date).
func mapCreateError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_attendance_employee_date" {
			return attendanceerrors.ErrAlreadyClockedIn
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_attendance_employee_date") {
		return attendanceerrors.ErrAlreadyClockedIn
	}

	return err
}
