package calibration

import (
	"gorm.io/gorm"

	redisclient "github.com/yungbote/scriptpulse-backend/internal/clients/redis"
	calrepos "github.com/yungbote/scriptpulse-backend/internal/data/repos/calibration"
	scriptrepos "github.com/yungbote/scriptpulse-backend/internal/data/repos/scripts"
	"github.com/yungbote/scriptpulse-backend/internal/platform/logger"
	"github.com/yungbote/scriptpulse-backend/internal/scoring"
)

type UsecasesDeps struct {
	DB  *gorm.DB
	Log *logger.Logger

	Snapshots  scriptrepos.SnapshotRepo
	Outcomes   calrepos.OutcomeRepo
	Benchmarks calrepos.BenchmarkRepo

	// Cache may be nil; benchmark imports then skip invalidation.
	Cache redisclient.BenchmarkCache

	Policy scoring.Policy
}

type Usecases struct {
	deps UsecasesDeps
}

func NewUsecases(deps UsecasesDeps) Usecases {
	if deps.Log != nil {
		deps.Log = deps.Log.With("module", "calibration")
	}
	return Usecases{deps: deps}
}
