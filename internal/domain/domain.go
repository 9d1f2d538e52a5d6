package domain

import (
	"github.com/yungbote/scriptpulse-backend/internal/domain/calibration"
	"github.com/yungbote/scriptpulse-backend/internal/domain/scripts"
)

type ScriptVariant = scripts.ScriptVariant
type DraftSnapshot = scripts.DraftSnapshot

type OutcomeRecord = calibration.OutcomeRecord
type BenchmarkStat = calibration.BenchmarkStat

// AllModels is the automigrate list, in FK-safe order.
func AllModels() []any {
	return []any{
		&scripts.ScriptVariant{},
		&scripts.DraftSnapshot{},
		&calibration.OutcomeRecord{},
		&calibration.BenchmarkStat{},
	}
}
