package payroll

import (
	"go-hrms/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RegisterRoutes mounts the payroll endpoints. When a redis client is given,
// mutating endpoints run behind the idempotency guard.
func RegisterRoutes(rg *gin.RouterGroup, handler *Handler, rdb ...*redis.Client) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	payrolls := rg.Group("/payrolls")
	{
		payrolls.GET("", handler.GetAll)
		payrolls.GET("/summary", handler.Summary)
		payrolls.GET("/:id", handler.GetByID)
		payrolls.GET("/:id/payslip/download", handler.DownloadPayslip)
		payrolls.POST("/:id/payslip", handler.GeneratePayslip)

		if redisClient != nil {
			payrolls.POST("", middleware.Idempotency(redisClient), handler.Calculate)
			payrolls.POST("/bulk", middleware.Idempotency(redisClient), handler.GenerateBulk)
			payrolls.POST("/:id/pay", middleware.Idempotency(redisClient), handler.ProcessPayment)
		} else {
			payrolls.POST("", handler.Calculate)
			payrolls.POST("/bulk", handler.GenerateBulk)
			payrolls.POST("/:id/pay", handler.ProcessPayment)
		}
	}
}
