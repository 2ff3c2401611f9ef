package middleware

import (
	"net/http"

	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const CompanyHeader = "X-Company-ID"

// CompanyScope resolves the tenant for the request from the X-Company-ID
// header and stores it in the gin context under "company_id". Every
// company-scoped route group mounts this.
func CompanyScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(CompanyHeader)
		if raw == "" {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR",
				"X-Company-ID header is required", nil)
			c.Abort()
			return
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR",
				"X-Company-ID must be a valid UUID", nil)
			c.Abort()
			return
		}
		c.Set("company_id", id.String())
		c.Next()
	}
}
