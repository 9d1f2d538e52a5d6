package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/scriptpulse-backend/internal/domain"
)

func SeedSnapshot(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, platform string, rescored float64) *types.DraftSnapshot {
	tb.Helper()
	s := &types.DraftSnapshot{
		ID:               uuid.New(),
		UserID:           userID,
		Platform:         platform,
		ScriptText:       "Hook line.\nBody line.\nComment below.",
		DurationSeconds:  30,
		RescoredScore:    rescored,
		DetectorRankings: datatypes.JSON([]byte("[]")),
		NextActions:      datatypes.JSON([]byte("[]")),
		LineLevelEdits:   datatypes.JSON([]byte("[]")),
		ScoreBreakdown:   datatypes.JSON([]byte("{}")),
		CreatedAt:        time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed snapshot: %v", err)
	}
	return s
}

func SeedOutcome(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, snapshotID uuid.UUID, platform string, postedAt time.Time, predicted, actual float64) *types.OutcomeRecord {
	tb.Helper()
	o := &types.OutcomeRecord{
		ID:               uuid.New(),
		UserID:           userID,
		Platform:         platform,
		DraftSnapshotID:  snapshotID,
		PostedAt:         postedAt.UTC(),
		Views:            1000,
		Likes:            50,
		PredictedScore:   predicted,
		ActualScore:      actual,
		CalibrationDelta: actual - predicted,
		CreatedAt:        time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(o).Error; err != nil {
		tb.Fatalf("seed outcome: %v", err)
	}
	return o
}

func SeedBenchmark(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, platform, channelRef string, capturedAt time.Time) *types.BenchmarkStat {
	tb.Helper()
	b := &types.BenchmarkStat{
		ID:               uuid.New(),
		UserID:           userID,
		Platform:         platform,
		ChannelRef:       channelRef,
		MedianViews:      50000,
		EngagementRate:   0.08,
		TypicalDurationS: 30,
		SampleVideos:     12,
		CapturedAt:       capturedAt.UTC(),
		CreatedAt:        time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(b).Error; err != nil {
		tb.Fatalf("seed benchmark: %v", err)
	}
	return b
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrFloat(v float64) *float64 { return &v }

func PtrTime(v time.Time) *time.Time { return &v }
