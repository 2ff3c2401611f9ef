package app

import (
	"net/http"
	"os"

	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/component"
	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/employee"
	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/insurancerate"
	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/middleware"
	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/payroll"
	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/shared/connection"
	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/taxbracket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp connects the infrastructure, migrates the schema and wires
// every module onto the router.
func BuildApp(router *gin.Engine) error {
	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	db, err := gormDB.DB()
	if err != nil {
		return err
	}

	if err := gormDB.AutoMigrate(
		&employee.Employee{},
		&component.SalaryComponent{},
		&taxbracket.TaxBracket{},
		&insurancerate.InsuranceRate{},
		&payroll.PayrollRecord{},
	); err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}

	router.Use(middleware.RequestID(zap.L()))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return registerModules(router, db, gormDB, redisClient)
}
