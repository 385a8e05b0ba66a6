package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	employeeerrors "go-hrms/internal/employee/errors"
	"go-hrms/internal/events"
	"go-hrms/internal/messaging/kafka"
	"go-hrms/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, filter GetEmployeesFilterRequest) ([]EmployeeResponse, int64, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Deactivate(ctx context.Context, id string) (EmployeeResponse, error)
	Stats(ctx context.Context) (EmployeeStatsResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{db: db, repo: repo, logger: zap.L().Named("employee.service")}
}

// NewServiceWithOutbox stages an employee-created event in the same
// transaction as the insert.
func NewServiceWithOutbox(db *sql.DB, repo Repository, outbox kafka.OutboxRepository) Service {
	return &service{db: db, repo: repo, outbox: outbox, logger: zap.L().Named("employee.service")}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	s.logger.Debug("create employee requested",
		zap.String("email", req.Email),
		zap.String("department", req.Department),
	)

	if req.Salary < 0 {
		return EmployeeResponse{}, employeeerrors.ErrInvalidSalary
	}
	joinDate, err := time.Parse("2006-01-02", req.JoinDate)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidDateFormat
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	e := &Employee{
		ID:         uuid.New(),
		Name:       req.Name,
		Email:      req.Email,
		Role:       req.Role,
		Department: req.Department,
		Status:     StatusActive,
		Salary:     req.Salary,
		JoinDate:   joinDate,
	}

	if err := qtx.Create(ctx, e); err != nil {
		s.logger.Warn("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		if err := s.stageCreatedEvent(ctx, tx, e); err != nil {
			s.logger.Error("stage employee created event failed", zap.Error(err))
			return EmployeeResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create employee commit failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	s.logger.Info("create employee success", zap.String("employee_id", e.ID.String()))

	return mapToResponse(*e), nil
}

func (s *service) stageCreatedEvent(ctx context.Context, tx *sql.Tx, e *Employee) error {
	payload, err := json.Marshal(events.EmployeeCreatedEvent{
		EventType:  "employee.created",
		EmployeeID: e.ID.String(),
		Department: e.Department,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "employee",
		AggregateID:   e.ID.String(),
		EventType:     "employee.created",
		Topic:         events.EmployeeLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) GetAll(ctx context.Context, filter GetEmployeesFilterRequest) ([]EmployeeResponse, int64, error) {
	if filter.Status != "" && filter.Status != StatusActive && filter.Status != StatusInactive {
		return nil, 0, employeeerrors.ErrInvalidStatus
	}

	rows, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, mapRepositoryError(err)
	}

	resp := make([]EmployeeResponse, len(rows))
	for i, e := range rows {
		resp[i] = mapToResponse(e)
	}
	return resp, total, nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*e), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	if req.Salary != nil && *req.Salary < 0 {
		return EmployeeResponse{}, employeeerrors.ErrInvalidSalary
	}
	if req.Status != nil && *req.Status != StatusActive && *req.Status != StatusInactive {
		return EmployeeResponse{}, employeeerrors.ErrInvalidStatus
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	e, err := qtx.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if req.Name != nil {
		e.Name = *req.Name
	}
	if req.Role != nil {
		e.Role = *req.Role
	}
	if req.Department != nil {
		e.Department = *req.Department
	}
	if req.Status != nil {
		e.Status = *req.Status
	}
	if req.Salary != nil {
		e.Salary = *req.Salary
	}

	if err := qtx.Update(ctx, e); err != nil {
		s.logger.Error("update employee persist failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	s.logger.Info("update employee success", zap.String("employee_id", id))

	return mapToResponse(*e), nil
}

// Deactivate is a soft delete: employees are never hard-removed, only
// flipped to inactive.
func (s *service) Deactivate(ctx context.Context, id string) (EmployeeResponse, error) {
	inactive := StatusInactive
	return s.Update(ctx, id, UpdateEmployeeRequest{Status: &inactive})
}

func (s *service) Stats(ctx context.Context) (EmployeeStatsResponse, error) {
	byDepartment, err := s.repo.StatsByDepartment(ctx)
	if err != nil {
		return EmployeeStatsResponse{}, mapRepositoryError(err)
	}

	totalEmployees, err := s.repo.CountActive(ctx)
	if err != nil {
		return EmployeeStatsResponse{}, mapRepositoryError(err)
	}

	totalSalary, err := s.repo.SumActiveSalary(ctx)
	if err != nil {
		return EmployeeStatsResponse{}, mapRepositoryError(err)
	}

	return EmployeeStatsResponse{
		TotalEmployees: totalEmployees,
		TotalSalary:    totalSalary,
		ByDepartment:   byDepartment,
	}, nil
}

func mapToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:         e.ID.String(),
		Name:       e.Name,
		Email:      e.Email,
		Role:       e.Role,
		Department: e.Department,
		Status:     e.Status,
		Salary:     e.Salary,
		JoinDate:   e.JoinDate.Format("2006-01-02"),
	}
}
