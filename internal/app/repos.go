package app

import (
	"gorm.io/gorm"

	calrepos "github.com/yungbote/scriptpulse-backend/internal/data/repos/calibration"
	scriptrepos "github.com/yungbote/scriptpulse-backend/internal/data/repos/scripts"
	"github.com/yungbote/scriptpulse-backend/internal/platform/logger"
)

type Repos struct {
	Variant  scriptrepos.VariantRepo
	Snapshot scriptrepos.SnapshotRepo

	Outcome   calrepos.OutcomeRepo
	Benchmark calrepos.BenchmarkRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Variant:   scriptrepos.NewVariantRepo(db, log),
		Snapshot:  scriptrepos.NewSnapshotRepo(db, log),
		Outcome:   calrepos.NewOutcomeRepo(db, log),
		Benchmark: calrepos.NewBenchmarkRepo(db, log),
	}
}
