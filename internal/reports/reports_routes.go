package reports

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, handler *Handler) {
	reports := rg.Group("/reports")
	{
		reports.GET("/payroll", handler.PayrollReport)
		reports.GET("/attendance", handler.AttendanceReport)
		reports.GET("/leave", handler.LeaveReport)
		reports.GET("/dashboard", handler.DashboardStats)
	}
}
