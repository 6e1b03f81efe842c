package app

import (
	"database/sql"
	"path/filepath"

	"go-roster/internal/absence"
	"go-roster/internal/employee"
	"go-roster/internal/messaging/kafka"
	"go-roster/internal/middleware"
	"go-roster/internal/preset"
	"go-roster/internal/rbac"
	"go-roster/internal/rbac/infra"
	"go-roster/internal/roster"

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
	rbacRepo := rbac.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	absenceRepo := absence.NewRepository(gormDB)
	presetRepo := preset.NewRepository(gormDB)
	rosterRepo := roster.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("configs", "rbac_model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	employeeService := employee.NewService(db, employeeRepo)
	absenceService := absence.NewService(db, absenceRepo)
	presetService := preset.NewService(db, presetRepo)
	rosterService := roster.NewService(
		db,
		rosterRepo,
		employeeService,
		absenceService,
		presetService,
		outboxRepo,
		rdb,
	)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService)
	absenceHandler := absence.NewHandler(absenceService)
	presetHandler := preset.NewHandler(presetService)
	rosterHandler := roster.NewHandler(rosterService)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	api.Use(middleware.Idempotency(rdb))
	{
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		absence.RegisterRoutes(api, absenceHandler, rbacService)
		preset.RegisterRoutes(api, presetHandler, rbacService)
		roster.RegisterRoutes(api, rosterHandler, rbacService)
	}

	rbac.RegisterRoutes(router, rbacHandler)

	return nil
}
