package taxbracket

import (
	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	brackets := r.Group("/tax-brackets")

	brackets.Use(middleware.CompanyScope())

	{
		brackets.GET("", h.GetAll)
		brackets.PUT("", h.Replace)
	}
}
