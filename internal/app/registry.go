package app

import (
	"database/sql"
	"os"

	"go-hrms/internal/attendance"
	"go-hrms/internal/employee"
	"go-hrms/internal/leave"
	"go-hrms/internal/messaging/kafka"
	"go-hrms/internal/payroll"
	"go-hrms/internal/reports"
	"go-hrms/internal/shared/clock"
	"go-hrms/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	clk := clock.System()

	payslipDir := os.Getenv("PAYSLIP_DIR")
	if payslipDir == "" {
		payslipDir = "payslips"
	}
	payslipBaseURL := os.Getenv("PAYSLIP_BASE_URL")
	if payslipBaseURL == "" {
		payslipBaseURL = "/payslips"
	}
	payslipStore := storage.NewFileStore(payslipDir, payslipBaseURL)

	// --- Repositories ---
	employeeRepo := employee.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	payrollRepo := payroll.NewRepository(gormDB)
	reportsRepo := reports.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	employeeService := employee.NewServiceWithOutbox(db, employeeRepo, outboxRepo)
	attendanceService := attendance.NewService(db, attendanceRepo, clk)
	leaveService := leave.NewService(db, leaveRepo, clk)
	payrollService := payroll.NewServiceWithOutbox(db, payrollRepo, payslipStore, outboxRepo, clk)
	reportsService := reports.NewService(reportsRepo, clk)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	leaveHandler := leave.NewHandler(leaveService)
	payrollHandler := payroll.NewHandlerWithRedis(payrollService, rdb)
	reportsHandler := reports.NewHandler(reportsService)

	// --- Routes ---
	api := router.Group("/api/v1")
	{
		employee.RegisterRoutes(api, employeeHandler)
		attendance.RegisterRoutes(api, attendanceHandler)
		leave.RegisterRoutes(api, leaveHandler)
		payroll.RegisterRoutes(api, payrollHandler, rdb)
		reports.RegisterRoutes(api, reportsHandler)
	}

	// Rendered payslips are served straight off the store directory.
	router.Static(payslipBaseURL, payslipDir)

	return nil
}
