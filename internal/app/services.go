package app

import (
	"gorm.io/gorm"

	calmod "github.com/yungbote/scriptpulse-backend/internal/modules/calibration"
	scriptsmod "github.com/yungbote/scriptpulse-backend/internal/modules/scripts"
	"github.com/yungbote/scriptpulse-backend/internal/platform/logger"
	"github.com/yungbote/scriptpulse-backend/internal/scoring"
	"github.com/yungbote/scriptpulse-backend/internal/services"
)

type Services struct {
	Identity services.IdentityService

	Scripts     scriptsmod.Usecases
	Calibration calmod.Usecases
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients) Services {
	log.Info("Wiring services...")

	policy := scoring.CurrentPolicy(log)

	scripts := scriptsmod.NewUsecases(scriptsmod.UsecasesDeps{
		DB:           db,
		Log:          log,
		GenAI:        clients.GenAI,
		GenAITimeout: cfg.GenAITimeout,
		Variants:     repos.Variant,
		Snapshots:    repos.Snapshot,
		Outcomes:     repos.Outcome,
		Benchmarks:   repos.Benchmark,
		Cache:        clients.BenchmarkCache,
		Policy:       policy,
	})

	calibration := calmod.NewUsecases(calmod.UsecasesDeps{
		DB:         db,
		Log:        log,
		Snapshots:  repos.Snapshot,
		Outcomes:   repos.Outcome,
		Benchmarks: repos.Benchmark,
		Cache:      clients.BenchmarkCache,
		Policy:     policy,
	})

	return Services{
		Identity:    services.NewIdentityService(log, cfg.JWTSecretKey),
		Scripts:     scripts,
		Calibration: calibration,
	}
}
