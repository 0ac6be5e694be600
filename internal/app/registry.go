package app

import (
	"database/sql"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/parryG11/hr/internal/appointment"
	"github.com/parryG11/hr/internal/auth"
	"github.com/parryG11/hr/internal/balance"
	"github.com/parryG11/hr/internal/config"
	"github.com/parryG11/hr/internal/department"
	"github.com/parryG11/hr/internal/employee"
	"github.com/parryG11/hr/internal/leaverequest"
	"github.com/parryG11/hr/internal/leavetype"
	"github.com/parryG11/hr/internal/messaging/kafka"
	"github.com/parryG11/hr/internal/notification"
	"github.com/parryG11/hr/internal/rbac"
	"github.com/parryG11/hr/internal/rbac/infra"
	"github.com/parryG11/hr/internal/shared/counter"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	cfg *config.Config,
) error {
	logger := zap.L()

	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	departmentRepo := department.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveTypeRepo := leavetype.NewRepository(gormDB)
	appointmentRepo := appointment.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	balanceRepo := balance.NewRepository(db)
	leaveRequestRepo := leaverequest.NewRepository(db)
	notificationRepo := notification.NewRepository(db)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Core wiring ---
	balanceEngine := balance.NewEngine(balanceRepo)
	emitter := notification.NewEmitter(db, notificationRepo, outboxRepo)

	// --- Services ---
	authService := auth.NewService(authRepo, rbacService, employeeRepo)
	departmentService := department.NewService(departmentRepo)
	employeeService := employee.NewService(employeeRepo, counterRepo, rdb)
	leaveTypeService := leavetype.NewService(leaveTypeRepo)
	balanceService := balance.NewService(balanceRepo, employeeRepo, leaveTypeRepo)
	leaveRequestService := leaverequest.NewService(
		db, leaveRequestRepo, balanceEngine, emitter,
		cfg.DayCountMode, cfg.AdminRecipientID,
	)
	notificationService := notification.NewService(notificationRepo)
	appointmentService := appointment.NewService(appointmentRepo, emitter)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	departmentHandler := department.NewHandler(departmentService)
	employeeHandler := employee.NewHandler(employeeService)
	leaveTypeHandler := leavetype.NewHandler(leaveTypeService)
	balanceHandler := balance.NewHandler(balanceService)
	leaveRequestHandler := leaverequest.NewHandler(leaveRequestService)
	notificationHandler := notification.NewHandler(notificationService)
	appointmentHandler := appointment.NewHandler(appointmentService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		department.RegisterRoutes(api, departmentHandler, rbacService)
		employee.RegisterRoutes(api, employeeHandler, rbacService, logger)
		leavetype.RegisterRoutes(api, leaveTypeHandler, rbacService)
		balance.RegisterRoutes(api, balanceHandler, rbacService, logger)
		leaverequest.RegisterRoutes(api, leaveRequestHandler, rbacService, rdb, logger)
		notification.RegisterRoutes(api, notificationHandler, logger)
		appointment.RegisterRoutes(api, appointmentHandler, rbacService, rdb, logger)
	}

	return nil
}
