package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/handlers"
	"github.com/BruksfildServices01/barber-booking/internal/infra/lock"
	infraRepo "github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
	ucLedger "github.com/BruksfildServices01/barber-booking/internal/usecase/ledger"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

// Infra são os singletons montados no main.
type Infra struct {
	DB      *gorm.DB
	Cache   domain.SlotCache
	Audit   *audit.Dispatcher
	Logger  *zap.Logger
	Limiter *middleware.IPRateLimiter
}

func RegisterRoutes(r *gin.Engine, cfg *config.Config, infra Infra) {

	// ======================================================
	// INFRA
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(infra.DB)
	ledgerRepo := infraRepo.NewLedgerGormRepository(infra.DB)
	calendarRepo := infraRepo.NewCalendarGormRepository(infra.DB)

	validate := validators.New(cfg.CheckEmailDomain)
	incomeBridge := ucLedger.NewIncomeBridge(ledgerRepo, infra.Audit, infra.Logger)

	// um único mutex por agenda para todos os casos de uso
	deps := ucAppointment.Deps{
		Repo:     appointmentRepo,
		Locks:    lock.NewKeyed(),
		Cache:    infra.Cache,
		Audit:    infra.Audit,
		Ledger:   incomeBridge,
		Validate: validate,
		Logger:   infra.Logger,
		Timeout:  cfg.BookingTimeout,
		SlotStep: cfg.SlotStep(),
	}

	// ======================================================
	// USE CASES
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(deps)
	updateAppointmentUC := ucAppointment.NewUpdateAppointment(deps)
	deleteAppointmentUC := ucAppointment.NewDeleteAppointment(deps)
	listAppointmentsUC := ucAppointment.NewListAppointments(deps)
	availabilityUC := ucAppointment.NewGetAvailability(deps)
	conflictValidator := ucAppointment.NewConflictValidator(appointmentRepo)
	addIncomeLinesUC := ucAppointment.NewAddIncomeLines(deps)

	transactionsUC := ucLedger.NewTransactions(ledgerRepo, validate, infra.Audit)

	// ======================================================
	// HANDLERS
	// ======================================================
	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		updateAppointmentUC,
		deleteAppointmentUC,
		listAppointmentsUC,
		availabilityUC,
		conflictValidator,
		addIncomeLinesUC,
	)
	publicHandler := handlers.NewPublicHandler(
		appointmentRepo,
		calendarRepo,
		createAppointmentUC,
		availabilityUC,
	)
	workingHoursHandler := handlers.NewWorkingHoursHandler(calendarRepo, infra.Cache, infra.Audit)
	blockedIntervalHandler := handlers.NewBlockedIntervalHandler(calendarRepo, infra.Cache, infra.Audit)
	transactionHandler := handlers.NewTransactionHandler(transactionsUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(infra.DB)

	// ======================================================
	// ROTAS
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		// ------------------------------
		// API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public")
		if infra.Limiter != nil {
			publicAPI.Use(infra.Limiter.Middleware())
		}
		{
			publicAPI.GET("/:slug/services", publicHandler.ListServices)
			publicAPI.GET("/:slug/availability", publicHandler.Availability)
			publicAPI.POST("/:slug/appointments", publicHandler.CreateAppointment)
		}

		// ------------------------------
		// API PRIVADA
		// ------------------------------
		secured := api.Group("/me")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/availability", appointmentHandler.Availability)
			secured.GET("/availability/check", appointmentHandler.CheckSlot)

			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments", appointmentHandler.List)
			secured.PATCH("/appointments/:id", appointmentHandler.Update)
			secured.PATCH("/appointments/:id/confirm", appointmentHandler.Confirm)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.DELETE("/appointments/:id", appointmentHandler.Delete)
			secured.POST("/appointments/:id/income-lines", appointmentHandler.AddIncomeLines)

			secured.GET("/working-hours", workingHoursHandler.Get)
			secured.PUT("/working-hours", workingHoursHandler.Update)

			secured.GET("/blocked-intervals", blockedIntervalHandler.List)
			secured.POST("/blocked-intervals", blockedIntervalHandler.Create)
			secured.DELETE("/blocked-intervals/:id", blockedIntervalHandler.Delete)

			secured.GET("/transactions", transactionHandler.List)
			secured.POST("/transactions", transactionHandler.Create)
			secured.PATCH("/transactions/:id", transactionHandler.Update)
			secured.DELETE("/transactions/:id", transactionHandler.Delete)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
