package payroll

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusPaid       = "paid"
)

// Salary composition policy: fractions of base salary per component and the
// fixed number of working days charged against a month.
const (
	basicRate      = 0.5
	hraRate        = 0.2
	conveyanceRate = 0.1
	medicalRate    = 0.1
	pfRate         = 0.12

	// latePenaltyRate prices one late arrival at a tenth of a working day.
	latePenaltyRate = 0.1

	// workingDaysInMonth is a policy constant, not derived from the calendar.
	workingDaysInMonth = 22
)

type Breakdown struct {
	Basic           float64 `gorm:"column:basic;not null;default:0"`
	HRA             float64 `gorm:"column:hra;not null;default:0"`
	Conveyance      float64 `gorm:"column:conveyance;not null;default:0"`
	Medical         float64 `gorm:"column:medical;not null;default:0"`
	Tax             float64 `gorm:"column:tax;not null;default:0"`
	PF              float64 `gorm:"column:pf;not null;default:0"`
	OtherDeductions float64 `gorm:"column:other_deductions;not null;default:0"`
}

type AttendanceSummary struct {
	WorkingDays int     `gorm:"column:working_days;not null;default:0"`
	PresentDays float64 `gorm:"column:present_days;not null;default:0"`
	LeaveDays   int     `gorm:"column:leave_days;not null;default:0"`
}

// PayrollRecord is one employee's payroll for one month. The composite
// unique index guarantees at most one record per (employee, month).
type PayrollRecord struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_employee_month"`
	Month       string     `gorm:"column:month;type:varchar(7);not null;uniqueIndex:uq_payroll_employee_month;index"`
	BaseSalary  float64    `gorm:"column:base_salary;not null"`
	Bonus       float64    `gorm:"column:bonus;not null;default:0"`
	Deductions  float64    `gorm:"column:deductions;not null;default:0"`
	NetSalary   float64    `gorm:"column:net_salary;not null"`
	Status      string     `gorm:"column:status;type:varchar(12);not null;default:pending;index"`
	PaymentDate *time.Time `gorm:"column:payment_date;type:date"`
	PayslipURL  *string    `gorm:"column:payslip_url"`
	Breakdown   Breakdown  `gorm:"embedded;embeddedPrefix:breakdown_"`

	Attendance AttendanceSummary `gorm:"embedded;embeddedPrefix:attendance_"`

	CreatedAt time.Time
	UpdatedAt time.Time
	Employee  *EmployeeRef `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (PayrollRecord) TableName() string {
	return "payroll_records"
}

// EmployeeRef is the slice of the employees table payroll needs.
type EmployeeRef struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string    `gorm:"column:name"`
	Role       string    `gorm:"column:role"`
	Department string    `gorm:"column:department"`
	Status     string    `gorm:"column:status"`
	Salary     float64   `gorm:"column:salary"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}
