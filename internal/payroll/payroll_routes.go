package payroll

import (
	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, redisClient *redis.Client) {
	payrolls := r.Group("/payrolls")
	payrolls.Use(middleware.CompanyScope())
	{
		payrolls.POST("/calculate",
			middleware.RateLimitByIP(2, 5),
			handler.Calculate,
		)

		createHandlers := []gin.HandlerFunc{middleware.RateLimitByIP(0.5, 2)}
		if redisClient != nil {
			createHandlers = append(createHandlers, middleware.Idempotency(redisClient))
		}
		createHandlers = append(createHandlers, handler.Create)
		payrolls.POST("", createHandlers...)

		payrolls.GET("",
			middleware.RateLimitByIP(3, 10),
			handler.GetAll,
		)

		payrolls.GET("/:id",
			middleware.RateLimitByIP(3, 10),
			handler.GetById,
		)

		payrolls.GET("/:id/breakdown",
			middleware.RateLimitByIP(3, 10),
			handler.GetBreakdown,
		)

		payrolls.POST("/:id/regenerate",
			middleware.RateLimitByIP(0.5, 2),
			handler.Regenerate,
		)

		payrolls.POST("/:id/mark-paid",
			middleware.RateLimitByIP(0.5, 2),
			handler.MarkAsPaid,
		)

		payrolls.DELETE("/:id",
			middleware.RateLimitByIP(0.1, 1),
			handler.Delete,
		)
	}
}
