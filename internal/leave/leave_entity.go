package leave

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	TypeSick     = "sick"
	TypeVacation = "vacation"
	TypePersonal = "personal"
	TypeUnpaid   = "unpaid"
)

// yearlyEntitlements is the fixed per-type leave policy.
var yearlyEntitlements = map[string]int{
	TypeSick:     10,
	TypeVacation: 15,
	TypePersonal: 5,
	TypeUnpaid:   0,
}

type Leave struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Type        string    `gorm:"column:leave_type;type:varchar(10);not null"`
	StartDate   time.Time `gorm:"column:start_date;type:date;not null;index"`
	EndDate     time.Time `gorm:"column:end_date;type:date;not null;index"`
	Days        int       `gorm:"column:days;not null"`
	Reason      string    `gorm:"column:reason;type:text;not null"`
	Status      string    `gorm:"column:status;type:varchar(10);not null;default:pending;index"`
	AppliedDate time.Time `gorm:"column:applied_date;type:date;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Employee    *EmployeeRef `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (Leave) TableName() string {
	return "leave_requests"
}

type EmployeeRef struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string    `gorm:"column:name"`
	Department string    `gorm:"column:department"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}

func validLeaveType(t string) bool {
	_, ok := yearlyEntitlements[t]
	return ok
}
