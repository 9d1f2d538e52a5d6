package calibration

import (
	"time"

	"github.com/google/uuid"
)

// OutcomeRecord ties real post-publication metrics back to the snapshot
// whose prediction they test. Rows are append-only and immutable; revised
// metrics arrive as a new row for the same snapshot.
type OutcomeRecord struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_outcome_scope,priority:1" json:"user_id"`

	Platform        string    `gorm:"column:platform;not null;index:idx_outcome_scope,priority:2" json:"platform"`
	DraftSnapshotID uuid.UUID `gorm:"type:uuid;not null;index" json:"draft_snapshot_id"`
	PostedAt        time.Time `gorm:"column:posted_at;not null;index:idx_outcome_scope,priority:3" json:"posted_at"`

	Views            int64   `gorm:"column:views;not null;default:0" json:"views"`
	Likes            int64   `gorm:"column:likes;not null;default:0" json:"likes"`
	Comments         int64   `gorm:"column:comments;not null;default:0" json:"comments"`
	Shares           int64   `gorm:"column:shares;not null;default:0" json:"shares"`
	Saves            int64   `gorm:"column:saves;not null;default:0" json:"saves"`
	AvgViewDurationS float64 `gorm:"column:avg_view_duration_s;not null;default:0" json:"avg_view_duration_s"`

	PredictedScore   float64 `gorm:"column:predicted_score;not null" json:"predicted_score"`
	ActualScore      float64 `gorm:"column:actual_score;not null" json:"actual_score"`
	CalibrationDelta float64 `gorm:"column:calibration_delta;not null" json:"calibration_delta"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (OutcomeRecord) TableName() string { return "outcome_record" }
