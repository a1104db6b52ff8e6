package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockroom/internal/core/events"
	"stockroom/internal/domain/catalogs/group"
	"stockroom/internal/domain/catalogs/supplier"
	"stockroom/internal/domain/catalogs/unit"
	"stockroom/internal/domain/inventory"
	"stockroom/internal/domain/preferences"
	"stockroom/internal/domain/reports"
	"stockroom/internal/infrastructure/backup"
	"stockroom/internal/infrastructure/http/v1/handlers"
	"stockroom/internal/infrastructure/http/v1/middleware"
	"stockroom/pkg/logger"
)

// RouterConfig holds everything the API serves.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// Metrics records requests and serves /metrics; may be nil
	Metrics Metrics

	// Bus publishes mutations and feeds the /events stream
	Bus *events.Bus

	// Store is checked by the readiness probe; may be nil
	Store  handlers.Pinger
	Driver string

	Ledger      *inventory.Ledger
	Items       *inventory.ItemService
	Units       *unit.Service
	Groups      *group.Service
	Suppliers   *supplier.Service
	Reports     *reports.Service
	Backup      *backup.Service
	Preferences *preferences.Service

	// Development enables gin debug mode
	Development bool
}

// Metrics is the part of the metrics registry the router uses.
type Metrics interface {
	middleware.RequestRecorder
	Handler() http.Handler
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Development {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.Bus == nil {
		cfg.Bus = events.NewBus()
	}

	router := gin.New()

	var recorder middleware.RequestRecorder
	if cfg.Metrics != nil {
		recorder = cfg.Metrics
	}

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace(cfg.Logger))
	router.Use(middleware.Logger(cfg.Logger, recorder))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Store, cfg.Driver)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	v1 := router.Group("/api/v1")
	{
		base := handlers.NewBaseHandler()

		registerInventoryRoutes(v1, base, cfg)
		registerCatalogRoutes(v1, base, cfg)
		registerReportRoutes(v1, base, cfg)
		registerServiceRoutes(v1, base, cfg)
	}

	return router
}

// registerInventoryRoutes registers stock items and the ledger.
func registerInventoryRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	itemHandler := handlers.NewItemHandler(base, cfg.Items, cfg.Reports)
	items := rg.Group("/items")
	RegisterCatalogRoutes(items, itemHandler)
	items.GET("/:id/history", itemHandler.History)

	txHandler := handlers.NewTransactionHandler(base, cfg.Ledger, cfg.Reports)
	txs := rg.Group("/transactions")
	{
		txs.GET("", txHandler.List)
		txs.POST("", txHandler.Create)
		txs.POST("/reconcile", txHandler.Reconcile)
		txs.GET("/:id", txHandler.Get)
		txs.PUT("/:id", txHandler.Update)
		txs.DELETE("/:id", txHandler.Delete)
	}
}

// registerCatalogRoutes registers the reference catalogs.
func registerCatalogRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	RegisterCatalogRoutes(rg.Group("/units"), handlers.NewUnitHandler(base, cfg.Units, cfg.Bus))
	RegisterCatalogRoutes(rg.Group("/groups"), handlers.NewGroupHandler(base, cfg.Groups, cfg.Bus))
	RegisterCatalogRoutes(rg.Group("/suppliers"), handlers.NewSupplierHandler(base, cfg.Suppliers, cfg.Bus))
}

// registerReportRoutes registers report endpoints.
func registerReportRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	reportHandler := handlers.NewReportsHandler(base, cfg.Reports)

	reportsGroup := rg.Group("/reports")
	reportsGroup.GET("/dashboard", reportHandler.Dashboard)
	reportsGroup.GET("/low-stock", reportHandler.LowStock)
	reportsGroup.GET("/export.xlsx", reportHandler.Export)
}

// registerServiceRoutes registers backup, preferences and the event stream.
func registerServiceRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	if cfg.Backup != nil {
		backupHandler := handlers.NewBackupHandler(base, cfg.Backup)
		rg.GET("/backup", backupHandler.Export)
		rg.POST("/backup", backupHandler.Import)
	}

	prefsHandler := handlers.NewPreferencesHandler(base, cfg.Preferences)
	rg.GET("/preferences", prefsHandler.Get)
	rg.PUT("/preferences", prefsHandler.Update)

	rg.GET("/events", handlers.NewEventsHandler(cfg.Bus).Stream)
}
