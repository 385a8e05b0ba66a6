package leave

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newGormMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return gdb, mock
}

const overlapCountSQL = `SELECT count(*) FROM "leave_requests" WHERE employee_id = $1 AND status IN ($2,$3) AND NOT (end_date < $4 OR start_date > $5)`

func TestRepository_HasOverlappingActive_FiltersDecidedRequests(t *testing.T) {
	gdb, mock := newGormMock(t)
	repo := NewRepository(gdb)

	employeeID := uuid.New().String()
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)

	// Only pending and approved requests block a new application. A
	// rejected request in the same window must not count, so the status
	// filter has to reach the database alongside the window predicate.
	mock.ExpectQuery(regexp.QuoteMeta(overlapCountSQL)).
		WithArgs(employeeID, StatusPending, StatusApproved, "2024-03-01", "2024-03-03").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	overlapping, err := repo.HasOverlappingActive(context.Background(), employeeID, start, end)
	assert.NoError(t, err)
	assert.False(t, overlapping)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_HasOverlappingActive_ReportsConflict(t *testing.T) {
	gdb, mock := newGormMock(t)
	repo := NewRepository(gdb)

	employeeID := uuid.New().String()
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(overlapCountSQL)).
		WithArgs(employeeID, StatusPending, StatusApproved, "2024-03-01", "2024-03-03").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	overlapping, err := repo.HasOverlappingActive(context.Background(), employeeID, start, end)
	assert.NoError(t, err)
	assert.True(t, overlapping)
	assert.NoError(t, mock.ExpectationsWereMet())
}
