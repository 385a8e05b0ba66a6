package payroll

import (
	"errors"
	"strings"

	payrollerrors "go-hrms/internal/payroll/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// mapCreateError catches the unique-violation fallback when two requests
// race past the existence check for the same (employee, month).
func mapCreateError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_payroll_employee_month" {
			return payrollerrors.ErrPayrollAlreadyProcessed
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_payroll_employee_month") {
		return payrollerrors.ErrPayrollAlreadyProcessed
	}

	return err
}
