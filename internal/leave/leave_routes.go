package leave

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, handler *Handler) {
	leaves := rg.Group("/leaves")
	{
		leaves.POST("", handler.Apply)
		leaves.GET("", handler.GetAll)
		leaves.PUT("/:id/approve", handler.Approve)
		leaves.PUT("/:id/reject", handler.Reject)
		leaves.GET("/balance/:id", handler.Balance)
	}
}
