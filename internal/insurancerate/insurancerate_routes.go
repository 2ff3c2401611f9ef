package insurancerate

import (
	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	rates := r.Group("/insurance-rates")

	rates.Use(middleware.CompanyScope())

	{
		rates.GET("", h.GetAll)
		rates.POST("", h.Create)
		rates.GET("/:id", h.GetById)
		rates.PUT("/:id", h.Update)
		rates.DELETE("/:id", h.Delete)
	}
}
