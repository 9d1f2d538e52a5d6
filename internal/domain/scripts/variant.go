package scripts

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ScriptVariant is one generated candidate from a single generation
// request. Rows are append-only: a variant is written once with its scores
// and never touched again, so snapshots can reference it as lineage.
type ScriptVariant struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index:idx_script_variant_batch,priority:1" json:"user_id"`
	BatchID uuid.UUID `gorm:"type:uuid;not null;index:idx_script_variant_batch,priority:2" json:"batch_id"`

	Platform        string `gorm:"column:platform;not null" json:"platform"`
	Rank            int    `gorm:"column:rank;not null" json:"rank"`
	Label           string `gorm:"column:label;not null" json:"label"`
	ScriptText      string `gorm:"column:script_text;not null" json:"script_text"`
	DurationSeconds int    `gorm:"column:duration_seconds;not null" json:"duration_seconds"`

	DetectorRankings   datatypes.JSON `gorm:"column:detector_rankings;type:jsonb" json:"detector_rankings"`
	ScoreBreakdown     datatypes.JSON `gorm:"column:score_breakdown;type:jsonb" json:"score_breakdown"`
	ExpectedLiftPoints float64        `gorm:"column:expected_lift_points;not null;default:0" json:"expected_lift_points"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (ScriptVariant) TableName() string { return "script_variant" }
