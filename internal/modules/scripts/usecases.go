package scripts

import (
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/scriptpulse-backend/internal/clients/genai"
	redisclient "github.com/yungbote/scriptpulse-backend/internal/clients/redis"
	calrepos "github.com/yungbote/scriptpulse-backend/internal/data/repos/calibration"
	scriptrepos "github.com/yungbote/scriptpulse-backend/internal/data/repos/scripts"
	"github.com/yungbote/scriptpulse-backend/internal/platform/logger"
	"github.com/yungbote/scriptpulse-backend/internal/scoring"
)

type UsecasesDeps struct {
	DB  *gorm.DB
	Log *logger.Logger

	// GenAI may be nil; generation then always takes the template path.
	GenAI        genai.Client
	GenAITimeout time.Duration

	Variants  scriptrepos.VariantRepo
	Snapshots scriptrepos.SnapshotRepo

	Outcomes   calrepos.OutcomeRepo
	Benchmarks calrepos.BenchmarkRepo

	// Cache may be nil; benchmark reads then go straight to the store.
	Cache redisclient.BenchmarkCache

	Policy scoring.Policy
}

type Usecases struct {
	deps UsecasesDeps
}

func NewUsecases(deps UsecasesDeps) Usecases {
	if deps.GenAITimeout <= 0 {
		deps.GenAITimeout = 20 * time.Second
	}
	if deps.Log != nil {
		deps.Log = deps.Log.With("module", "scripts")
	}
	return Usecases{deps: deps}
}
