package employee

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, handler *Handler) {
	employees := rg.Group("/employees")
	{
		employees.POST("", handler.Create)
		employees.GET("", handler.GetAll)
		employees.GET("/stats", handler.Stats)
		employees.GET("/:id", handler.GetByID)
		employees.PUT("/:id", handler.Update)
		employees.DELETE("/:id", handler.Deactivate)
	}
}
