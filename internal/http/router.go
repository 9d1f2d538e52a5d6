package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/scriptpulse-backend/internal/http/handlers"
	httpMW "github.com/yungbote/scriptpulse-backend/internal/http/middleware"
	"github.com/yungbote/scriptpulse-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	AuthMiddleware *httpMW.AuthMiddleware

	ScriptHandler      *httpH.ScriptHandler
	SnapshotHandler    *httpH.SnapshotHandler
	CalibrationHandler *httpH.CalibrationHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("scriptpulse-backend"))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")

	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Scripts
		if cfg.ScriptHandler != nil {
			protected.POST("/scripts/generate", cfg.ScriptHandler.Generate)
			protected.POST("/scripts/rescore", cfg.ScriptHandler.Rescore)
		}

		// Snapshots
		if cfg.SnapshotHandler != nil {
			protected.POST("/snapshots", cfg.SnapshotHandler.Save)
			protected.GET("/snapshots", cfg.SnapshotHandler.List)
			protected.GET("/snapshots/:id", cfg.SnapshotHandler.Get)
			protected.POST("/snapshots/:id/publish", cfg.SnapshotHandler.Publish)
		}

		// Calibration
		if cfg.CalibrationHandler != nil {
			protected.POST("/outcomes", cfg.CalibrationHandler.IngestOutcome)
			protected.GET("/calibration/summary", cfg.CalibrationHandler.Summary)
			protected.POST("/benchmarks", cfg.CalibrationHandler.ImportBenchmarks)
		}
	}

	return r
}
