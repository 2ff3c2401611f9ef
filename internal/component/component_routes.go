package component

import (
	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	components := r.Group("/salary-components")

	components.Use(middleware.CompanyScope())

	{
		components.GET("", h.GetAll)
		components.POST("", h.Create)
		components.GET("/:id", h.GetById)
		components.PUT("/:id", h.Update)
		components.DELETE("/:id", h.Delete)
	}
}
