package scripts

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DraftSnapshot is a user-initiated save of a rescored draft. Score fields
// are immutable once written; the only column ever updated afterwards is
// the advisory MarkedPublishedAt stamp.
type DraftSnapshot struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_draft_snapshot_scope,priority:1" json:"user_id"`

	Platform     string     `gorm:"column:platform;not null;index:idx_draft_snapshot_scope,priority:2" json:"platform"`
	SourceItemID *string    `gorm:"column:source_item_id" json:"source_item_id,omitempty"`
	VariantID    *uuid.UUID `gorm:"type:uuid;index" json:"variant_id,omitempty"`

	ScriptText      string `gorm:"column:script_text;not null" json:"script_text"`
	DurationSeconds int    `gorm:"column:duration_seconds;not null" json:"duration_seconds"`

	BaselineScore *float64 `gorm:"column:baseline_score" json:"baseline_score,omitempty"`
	RescoredScore float64  `gorm:"column:rescored_score;not null" json:"rescored_score"`
	DeltaScore    *float64 `gorm:"column:delta_score" json:"delta_score,omitempty"`

	DetectorRankings datatypes.JSON `gorm:"column:detector_rankings;type:jsonb" json:"detector_rankings"`
	NextActions      datatypes.JSON `gorm:"column:next_actions;type:jsonb" json:"next_actions"`
	LineLevelEdits   datatypes.JSON `gorm:"column:line_level_edits;type:jsonb" json:"line_level_edits"`
	ScoreBreakdown   datatypes.JSON `gorm:"column:score_breakdown;type:jsonb" json:"score_breakdown"`

	MarkedPublishedAt *time.Time `gorm:"column:marked_published_at" json:"marked_published_at,omitempty"`
	CreatedAt         time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_draft_snapshot_scope,priority:3,sort:desc" json:"created_at"`
}

func (DraftSnapshot) TableName() string { return "draft_snapshot" }
