package employee

import (
	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	employees := r.Group("/employees")
	employees.Use(middleware.CompanyScope())
	{
		employees.GET("",
			middleware.RateLimitByIP(3, 10),
			handler.GetAll,
		)

		employees.GET("/options",
			middleware.RateLimitByIP(5, 20), // cheap read, looser limit
			handler.GetOptions,
		)

		employees.GET("/:id",
			middleware.RateLimitByIP(3, 10),
			handler.GetById,
		)

		employees.POST("",
			middleware.RateLimitByIP(0.5, 2),
			handler.Create,
		)

		employees.PUT("/:id",
			middleware.RateLimitByIP(0.5, 2),
			handler.Update,
		)

		employees.DELETE("/:id",
			middleware.RateLimitByIP(0.1, 1),
			handler.Delete,
		)
	}
}
