package employee

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Employee struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name       string    `gorm:"column:name;type:varchar(120);not null"`
	Email      string    `gorm:"column:email;type:varchar(255);not null;uniqueIndex:uq_employee_email"`
	Role       string    `gorm:"column:role;type:varchar(80);not null"`
	Department string    `gorm:"column:department;type:varchar(80);not null;index"`
	Status     string    `gorm:"column:status;type:varchar(10);not null;default:active;index"`
	Salary     float64   `gorm:"column:salary;not null"`
	JoinDate   time.Time `gorm:"column:join_date;type:date;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Employee) TableName() string {
	return "employees"
}
