package calibration

import (
	"time"

	"github.com/google/uuid"
)

// BenchmarkStat is one captured competitor-channel aggregate. The external
// fetcher imports these; the combiner's competitor channel only reads them.
type BenchmarkStat struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_benchmark_scope,priority:1" json:"user_id"`

	Platform   string `gorm:"column:platform;not null;index:idx_benchmark_scope,priority:2" json:"platform"`
	ChannelRef string `gorm:"column:channel_ref;not null" json:"channel_ref"`

	MedianViews      int64   `gorm:"column:median_views;not null;default:0" json:"median_views"`
	EngagementRate   float64 `gorm:"column:engagement_rate;not null;default:0" json:"engagement_rate"`
	TypicalDurationS float64 `gorm:"column:typical_duration_s;not null;default:0" json:"typical_duration_s"`
	SampleVideos     int     `gorm:"column:sample_videos;not null;default:0" json:"sample_videos"`

	CapturedAt time.Time `gorm:"column:captured_at;not null" json:"captured_at"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (BenchmarkStat) TableName() string { return "benchmark_stat" }
