package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/dentalflow/lab-system/docs"
	"github.com/dentalflow/lab-system/internal/api/handler"
	"github.com/dentalflow/lab-system/internal/api/middleware"
	"github.com/dentalflow/lab-system/internal/core/domain"
	"github.com/dentalflow/lab-system/internal/core/service"
	mongorepo "github.com/dentalflow/lab-system/internal/infrastructure/db/mongo"
	redisinfra "github.com/dentalflow/lab-system/internal/infrastructure/db/redis"
	"github.com/dentalflow/lab-system/internal/infrastructure/queue"
)

// RouterDeps carries the external dependencies the router wires together.
type RouterDeps struct {
	DB            *mongo.Database
	Redis         *redis.Client
	JWTSecret     string
	TokenTTL      time.Duration
	FanoutWorkers int
	Log           zerolog.Logger
}

// Router bundles the Echo instance with the dispatcher whose workers the
// caller must start.
type Router struct {
	Echo       *echo.Echo
	Dispatcher *queue.Dispatcher
}

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(deps RouterDeps) *Router {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("lab"))

	// --- Repositories ---
	orderRepo := mongorepo.NewOrderRepository(deps.DB)
	auditRepo := mongorepo.NewAuditRepository(deps.DB)
	actorRepo := mongorepo.NewActorRepository(deps.DB)
	branchRepo := mongorepo.NewBranchRepository(deps.DB)
	clinicRepo := mongorepo.NewClinicRepository(deps.DB)
	patientRepo := mongorepo.NewPatientRepository(deps.DB)
	catalogRepo := mongorepo.NewCatalogRepository(deps.DB)
	notificationRepo := mongorepo.NewNotificationRepository(deps.DB)

	// --- Fanout pipeline ---
	dedup := redisinfra.NewDedupChecker(deps.Redis)
	notifier := redisinfra.NewChangeNotifier(deps.Redis)
	fanout := service.NewFanoutService(notificationRepo, dedup, notifier, deps.Log)
	dispatcher := queue.NewDispatcher(deps.FanoutWorkers, fanout, deps.Log)

	// --- Services ---
	orderService := service.NewOrderService(orderRepo, patientRepo, dispatcher, deps.Log)
	timelineService := service.NewTimelineService(orderRepo, auditRepo, actorRepo, deps.Log)
	directoryService := service.NewDirectoryService(actorRepo, branchRepo, clinicRepo, patientRepo, orderRepo, deps.Log)
	catalogService := service.NewCatalogService(catalogRepo, deps.Log)
	adminService := service.NewAdminService(actorRepo, branchRepo, clinicRepo, orderRepo, deps.Log)
	authService := service.NewAuthService(actorRepo, clinicRepo, deps.JWTSecret, deps.TokenTTL)
	notificationService := service.NewNotificationService(notificationRepo)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	orderHandler := handler.NewOrderHandler(orderService)
	timelineHandler := handler.NewTimelineHandler(timelineService)
	directoryHandler := handler.NewDirectoryHandler(directoryService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	adminHandler := handler.NewAdminHandler(adminService)
	notificationHandler := handler.NewNotificationHandler(notificationService)

	// --- Public routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.DB, deps.Redis)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Authenticated routes ---
	auth := middleware.Auth(deps.JWTSecret)
	v1 := e.Group("/v1", auth)

	pedidos := v1.Group("", middleware.RequireCapability(domain.CapabilityPedidos))
	pedidos.POST("/orders", orderHandler.Create)
	pedidos.GET("/orders", orderHandler.List)
	pedidos.GET("/orders/:id", orderHandler.Get)
	pedidos.POST("/orders/:id/advance", orderHandler.Advance)
	pedidos.POST("/orders/:id/cancel", orderHandler.Cancel)
	pedidos.POST("/orders/:id/attachments", orderHandler.AddAttachment)
	pedidos.GET("/orders/:id/timeline", timelineHandler.Get)

	v1.GET("/dashboard", orderHandler.Dashboard, middleware.RequireCapability(domain.CapabilityHome))

	pacientes := v1.Group("", middleware.RequireCapability(domain.CapabilityPacientes))
	pacientes.GET("/patients", directoryHandler.ListPatients)
	pacientes.POST("/patients", directoryHandler.CreatePatient)

	// Dentist listing is left to the service: plain dentists may read their
	// own row even though they lack the directory capability.
	v1.GET("/dentists", directoryHandler.ListDentists)
	v1.GET("/clinics", directoryHandler.ListClinics, middleware.RequireCapability(domain.CapabilityClinicas))
	v1.GET("/branches", directoryHandler.ListBranches, middleware.RequireCapability(domain.CapabilityFiliais))

	v1.GET("/products", catalogHandler.ListProducts)
	v1.GET("/colors", catalogHandler.ListColors)
	v1.POST("/products", catalogHandler.CreateProduct, middleware.RequireCapability(domain.CapabilityAdmin))
	v1.POST("/colors", catalogHandler.CreateColor, middleware.RequireCapability(domain.CapabilityAdmin))

	v1.GET("/notifications", notificationHandler.List)
	v1.POST("/notifications/:id/read", notificationHandler.MarkRead)

	admin := v1.Group("/admin", middleware.RequireCapability(domain.CapabilityAdmin))
	admin.POST("/branches", adminHandler.CreateBranch)
	admin.POST("/clinics", adminHandler.CreateClinic)
	admin.POST("/actors", adminHandler.CreateActor)
	admin.PATCH("/actors/:id", adminHandler.UpdateActor)
	admin.DELETE("/actors/:id", adminHandler.DeleteActor)
	admin.POST("/actors/:id/reset-password", adminHandler.ResetPassword)
	admin.POST("/actors/:id/confirm-contact", adminHandler.ConfirmContact)
	admin.GET("/accounts", adminHandler.ListAccounts)
	admin.DELETE("/orphans", adminHandler.RemoveOrphan)

	return &Router{Echo: e, Dispatcher: dispatcher}
}
