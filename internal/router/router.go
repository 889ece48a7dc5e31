package router

import (
	"time"

	"github.com/froma1976/ailogistic/internal/config"
	"github.com/froma1976/ailogistic/internal/handler"
	"github.com/froma1976/ailogistic/internal/middleware"
	"github.com/froma1976/ailogistic/internal/service"
	"github.com/froma1976/ailogistic/internal/store"
	"github.com/froma1976/ailogistic/internal/syncer"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB
// The notifier and sync service are shared with the scheduler goroutines, so
// the caller owns them.
func New(cfg *config.Config, db *gorm.DB, notifier *store.Notifier, sync *syncer.Service) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	refRepo := store.NewReferenceRepository(db)
	invRepo := store.NewInventoryRepository(db)
	prodRepo := store.NewProductionRepository(db)
	outboxRepo := store.NewOutboxRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	logger := log.Logger
	refSvc := service.NewReferenceService(logger, refRepo, invRepo, outboxRepo, notifier)
	invSvc := service.NewInventoryService(logger, refRepo, invRepo, prodRepo, outboxRepo, notifier)
	prodSvc := service.NewProductionService(logger, refRepo, invRepo, prodRepo, outboxRepo, notifier)
	simSvc := service.NewSimulationService(logger, refRepo, invRepo, prodRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	refsH := handler.NewReferencesHandler(refSvc)
	invH := handler.NewInventoryHandler(invSvc)
	prodH := handler.NewProductionHandler(prodSvc)
	simH := handler.NewSimulationHandler(simSvc, cfg.ExportPath)
	syncH := handler.NewSyncHandler(sync)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, sync))

	v1 := r.Group("/v1")
	{
		refs := v1.Group("/references")
		{
			refs.POST("", refsH.Create)
			refs.GET("", refsH.List)
			refs.PUT("/:code", refsH.Update)
			refs.DELETE("/:code", refsH.Delete)
			refs.POST("/import", refsH.ImportXLSX)
		}

		inv := v1.Group("/inventory")
		{
			inv.POST("/quick-entry", invH.QuickEntry)
			inv.PUT("/day", invH.EditDay)
			inv.DELETE("/day", invH.ResetDay)
			inv.GET("/day", invH.DayLog)
			inv.GET("/stock/:code", invH.Stock)
			inv.GET("/dashboard", invH.Dashboard)
		}

		prod := v1.Group("/production")
		{
			prod.POST("", prodH.Record)
			prod.GET("", prodH.History)
		}

		sim := v1.Group("/simulation")
		{
			sim.POST("/week", simH.SimulateWeek)
			sim.GET("/ruptures", simH.Ruptures)
			sim.POST("/week/export", simH.ExportSimulationXLSX)
			sim.GET("/ruptures/export", simH.ExportRupturesXLSX)
			sim.GET("/ruptures/export/pdf", simH.ExportRupturesPDF)
		}

		syncGroup := v1.Group("/sync")
		{
			syncGroup.GET("/status", syncH.Status)
			syncGroup.POST("/trigger", syncH.Trigger)
		}
	}

	return r
}
