package attendance

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, handler *Handler) {
	attendances := rg.Group("/attendance")
	{
		attendances.POST("/clock-in", handler.ClockIn)
		attendances.POST("/clock-out", handler.ClockOut)
		attendances.POST("/absent", handler.MarkAbsent)
		attendances.GET("/today", handler.GetToday)
		attendances.GET("/:id/stats", handler.MonthlyStats)
		attendances.GET("/:id/history", handler.GetHistory)
	}
}
