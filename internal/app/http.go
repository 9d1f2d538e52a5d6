package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/scriptpulse-backend/internal/http"
	httpH "github.com/yungbote/scriptpulse-backend/internal/http/handlers"
	httpMW "github.com/yungbote/scriptpulse-backend/internal/http/middleware"
	"github.com/yungbote/scriptpulse-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health      *httpH.HealthHandler
	Script      *httpH.ScriptHandler
	Snapshot    *httpH.SnapshotHandler
	Calibration *httpH.CalibrationHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:      httpH.NewHealthHandler(),
		Script:      httpH.NewScriptHandler(services.Scripts),
		Snapshot:    httpH.NewSnapshotHandler(services.Scripts),
		Calibration: httpH.NewCalibrationHandler(services.Calibration),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Identity),
	}
}

func wireRouter(log *logger.Logger, handlers Handlers, middleware Middleware) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		Log:                log,
		AuthMiddleware:     middleware.Auth,
		ScriptHandler:      handlers.Script,
		SnapshotHandler:    handlers.Snapshot,
		CalibrationHandler: handlers.Calibration,
		HealthHandler:      handlers.Health,
	})
}
