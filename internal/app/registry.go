package app

import (
	"database/sql"

	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/component"
	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/employee"
	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/insurancerate"
	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/messaging/kafka"
	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/payroll"
	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/shared/counter"
	"github.com/nguyenhung1993/phoenix-admin-sub000/internal/taxbracket"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	componentRepo := component.NewRepository(gormDB)
	bracketRepo := taxbracket.NewRepository(gormDB)
	rateRepo := insurancerate.NewRepository(gormDB)
	payrollRepo := payroll.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	employeeService := employee.NewServiceWithOutbox(db, employeeRepo, counterRepo, outboxRepo, rdb)
	componentService := component.NewService(db, componentRepo)
	bracketService := taxbracket.NewService(db, bracketRepo)
	rateService := insurancerate.NewService(db, rateRepo)
	payrollService := payroll.NewServiceWithOutbox(
		db, payrollRepo, employeeRepo, componentRepo, bracketRepo, rateRepo, outboxRepo, rdb,
	)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService)
	componentHandler := component.NewHandler(componentService)
	bracketHandler := taxbracket.NewHandler(bracketService)
	rateHandler := insurancerate.NewHandler(rateService)
	payrollHandler := payroll.NewHandlerWithRedis(payrollService, rdb)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		employee.RegisterRoutes(api, employeeHandler)
		component.RegisterRoutes(api, componentHandler)
		taxbracket.RegisterRoutes(api, bracketHandler)
		insurancerate.RegisterRoutes(api, rateHandler)
		payroll.RegisterRoutes(api, payrollHandler, rdb)
	}

	return nil
}
