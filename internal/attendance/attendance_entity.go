package attendance

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
	StatusHalfday = "halfday"
)

// Attendance holds one record per (employee, date). The composite unique
// index is the storage-side guard behind the one-clock-in-per-day rule.
type Attendance struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_employee_date"`
	Date       time.Time  `gorm:"column:attendance_date;type:date;not null;uniqueIndex:uq_attendance_employee_date;index"`
	Status     string     `gorm:"column:status;type:varchar(10);not null"`
	CheckIn    *time.Time `gorm:"column:check_in;type:timestamptz"`
	CheckOut   *time.Time `gorm:"column:check_out;type:timestamptz"`
	TotalHours float64    `gorm:"column:total_hours;not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Employee   *EmployeeRef `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (Attendance) TableName() string {
	return "attendances"
}

type EmployeeRef struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string    `gorm:"column:name"`
	Department string    `gorm:"column:department"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}
