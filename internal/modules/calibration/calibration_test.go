package calibration

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	calrepos "github.com/yungbote/scriptpulse-backend/internal/data/repos/calibration"
	scriptrepos "github.com/yungbote/scriptpulse-backend/internal/data/repos/scripts"
	"github.com/yungbote/scriptpulse-backend/internal/data/repos/testutil"
	"github.com/yungbote/scriptpulse-backend/internal/platform/apierr"
	"github.com/yungbote/scriptpulse-backend/internal/platform/dbctx"
	"github.com/yungbote/scriptpulse-backend/internal/scoring"
)

func newTestUsecases(t *testing.T) (Usecases, *gorm.DB) {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	u := NewUsecases(UsecasesDeps{
		DB:         tx,
		Log:        log,
		Snapshots:  scriptrepos.NewSnapshotRepo(tx, log),
		Outcomes:   calrepos.NewOutcomeRepo(tx, log),
		Benchmarks: calrepos.NewBenchmarkRepo(tx, log),
		Policy:     scoring.CurrentPolicy(log),
	})
	return u, tx
}

func TestIngest_Validation(t *testing.T) {
	u, _ := newTestUsecases(t)
	ctx := context.Background()

	if _, err := u.Ingest(ctx, IngestInput{DraftSnapshotID: uuid.New()}); err == nil {
		t.Fatalf("expected unauthorized")
	}
	if _, err := u.Ingest(ctx, IngestInput{UserID: uuid.New()}); err == nil {
		t.Fatalf("expected invalid_draft_snapshot_id")
	}
	_, err := u.Ingest(ctx, IngestInput{
		UserID:          uuid.New(),
		DraftSnapshotID: uuid.New(),
		Metrics:         scoring.ActualMetrics{Views: -1},
	})
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Code != "invalid_metrics" {
		t.Fatalf("expected invalid_metrics, got %v", err)
	}
}

func TestIngest_UnknownSnapshot(t *testing.T) {
	u, _ := newTestUsecases(t)

	_, err := u.Ingest(context.Background(), IngestInput{
		UserID:          uuid.New(),
		DraftSnapshotID: uuid.New(),
		Metrics:         scoring.ActualMetrics{Views: 100},
	})
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Code != "snapshot_not_found" || ae.Status != 404 {
		t.Fatalf("expected 404 snapshot_not_found, got %v", err)
	}
}

func TestIngest_RecordsOutcome(t *testing.T) {
	u, tx := newTestUsecases(t)
	ctx := context.Background()
	userID := uuid.New()

	snap := testutil.SeedSnapshot(t, ctx, tx, userID, "tiktok", 72)

	metrics := scoring.ActualMetrics{
		Views:            25000,
		Likes:            1800,
		Comments:         240,
		Shares:           130,
		Saves:            90,
		AvgViewDurationS: 21,
	}
	outcome, err := u.Ingest(ctx, IngestInput{
		UserID:          userID,
		DraftSnapshotID: snap.ID,
		Metrics:         metrics,
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	if outcome.Platform != "tiktok" {
		t.Fatalf("platform must come from the snapshot, got %q", outcome.Platform)
	}
	if outcome.PredictedScore != 72 {
		t.Fatalf("predicted must default to the snapshot's rescored score, got %v", outcome.PredictedScore)
	}
	wantActual := scoring.ScoreActualMetrics(metrics, snap.DurationSeconds)
	if outcome.ActualScore != wantActual {
		t.Fatalf("actual %v, want %v", outcome.ActualScore, wantActual)
	}
	if math.Abs(outcome.CalibrationDelta-(wantActual-72)) > 1e-9 {
		t.Fatalf("delta %v, want %v", outcome.CalibrationDelta, wantActual-72)
	}

	// A second measurement of the same snapshot is a second row.
	again, err := u.Ingest(ctx, IngestInput{
		UserID:          userID,
		DraftSnapshotID: snap.ID,
		Metrics:         metrics,
	})
	if err != nil {
		t.Fatalf("second Ingest: %v", err)
	}
	if again.ID == outcome.ID {
		t.Fatalf("each measurement must be its own row")
	}
}

func TestIngest_ExplicitPredictedWins(t *testing.T) {
	u, tx := newTestUsecases(t)
	ctx := context.Background()
	userID := uuid.New()

	snap := testutil.SeedSnapshot(t, ctx, tx, userID, "tiktok", 72)
	predicted := 61.5
	outcome, err := u.Ingest(ctx, IngestInput{
		UserID:          userID,
		DraftSnapshotID: snap.ID,
		Metrics:         scoring.ActualMetrics{Views: 500},
		PredictedScore:  &predicted,
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if outcome.PredictedScore != predicted {
		t.Fatalf("request predicted score must win, got %v", outcome.PredictedScore)
	}
}

func TestSummarize_Empty(t *testing.T) {
	u, _ := newTestUsecases(t)

	sum, err := u.Summarize(context.Background(), uuid.New(), "tiktok", time.Now().UTC())
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if sum.Confidence != scoring.ConfidenceLow {
		t.Fatalf("no outcomes must read low confidence, got %q", sum.Confidence)
	}
	if sum.Trend != TrendFlat {
		t.Fatalf("no outcomes must read flat trend, got %q", sum.Trend)
	}
	if sum.D30.Bias != scoring.BiasNeutral {
		t.Fatalf("empty window must be neutral, got %q", sum.D30.Bias)
	}
}

func TestSummarize_UnderPredictionBias(t *testing.T) {
	u, tx := newTestUsecases(t)
	ctx := context.Background()
	userID := uuid.New()
	now := time.Now().UTC()

	snap := testutil.SeedSnapshot(t, ctx, tx, userID, "tiktok", 60)
	// Actuals consistently 10 points above predictions within the last week.
	for i := 0; i < 4; i++ {
		postedAt := now.AddDate(0, 0, -(i + 1))
		testutil.SeedOutcome(t, ctx, tx, userID, snap.ID, "tiktok", postedAt, 60, 70)
	}

	sum, err := u.Summarize(ctx, userID, "tiktok", now)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if sum.D7.Count != 4 || sum.D30.Count != 4 {
		t.Fatalf("window counts wrong: d7=%d d30=%d", sum.D7.Count, sum.D30.Count)
	}
	if math.Abs(sum.D30.MeanDelta-10) > 1e-9 {
		t.Fatalf("mean delta %v, want 10", sum.D30.MeanDelta)
	}
	if sum.D30.Bias != scoring.BiasUnderPrediction {
		t.Fatalf("expected under_prediction, got %q", sum.D30.Bias)
	}
	if sum.Confidence != scoring.ConfidenceMedium {
		t.Fatalf("4 outcomes must read medium confidence, got %q", sum.Confidence)
	}
	if len(sum.NextActions) == 0 {
		t.Fatalf("a biased window must produce advisory actions")
	}
	if len(sum.RecentOutcomes) != 4 {
		t.Fatalf("expected 4 recent outcomes, got %d", len(sum.RecentOutcomes))
	}
}

func TestIngest_ZeroViewsReadsOverPrediction(t *testing.T) {
	u, tx := newTestUsecases(t)
	ctx := context.Background()
	userID := uuid.New()
	now := time.Now().UTC()

	snap := testutil.SeedSnapshot(t, ctx, tx, userID, "tiktok", 72)
	outcome, err := u.Ingest(ctx, IngestInput{
		UserID:          userID,
		DraftSnapshotID: snap.ID,
		PostedAt:        now.AddDate(0, 0, -2),
		Metrics:         scoring.ActualMetrics{},
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if outcome.ActualScore != 0 {
		t.Fatalf("a post nobody watched must score 0, got %v", outcome.ActualScore)
	}
	if outcome.CalibrationDelta != -72 {
		t.Fatalf("delta %v, want -72", outcome.CalibrationDelta)
	}

	sum, err := u.Summarize(ctx, userID, "tiktok", now)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if sum.D30.Bias != scoring.BiasOverPrediction {
		t.Fatalf("a -72 drift must read over_prediction, got %q", sum.D30.Bias)
	}
	if len(sum.NextActions) == 0 {
		t.Fatalf("over-prediction must produce advisory actions")
	}
}

func TestSummarize_HighConfidenceAtKHigh(t *testing.T) {
	u, tx := newTestUsecases(t)
	ctx := context.Background()
	userID := uuid.New()
	now := time.Now().UTC()

	snap := testutil.SeedSnapshot(t, ctx, tx, userID, "tiktok", 60)
	for i := 0; i < u.deps.Policy.KHigh; i++ {
		postedAt := now.AddDate(0, 0, -(i%20 + 1))
		testutil.SeedOutcome(t, ctx, tx, userID, snap.ID, "tiktok", postedAt, 60, 61)
	}

	sum, err := u.Summarize(ctx, userID, "tiktok", now)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if sum.Confidence != scoring.ConfidenceHigh {
		t.Fatalf("expected high confidence at k_high outcomes, got %q", sum.Confidence)
	}
	if sum.D30.Bias != scoring.BiasNeutral {
		t.Fatalf("a 1-point delta sits inside tolerance, got %q", sum.D30.Bias)
	}
}

func TestImportBenchmarks(t *testing.T) {
	u, _ := newTestUsecases(t)
	ctx := context.Background()
	userID := uuid.New()
	now := time.Now().UTC()

	_, err := u.ImportBenchmarks(ctx, ImportBenchmarksInput{UserID: userID, Platform: " "})
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Code != "missing_platform" {
		t.Fatalf("expected missing_platform, got %v", err)
	}

	_, err = u.ImportBenchmarks(ctx, ImportBenchmarksInput{UserID: userID, Platform: "tiktok"})
	if !errors.As(err, &ae) || ae.Code != "empty_benchmark_rows" {
		t.Fatalf("expected empty_benchmark_rows, got %v", err)
	}

	rows, err := u.ImportBenchmarks(ctx, ImportBenchmarksInput{
		UserID:   userID,
		Platform: "TikTok",
		Rows: []BenchmarkRowInput{
			{ChannelRef: "@fitcoach", MedianViews: 42000, EngagementRate: 0.07, TypicalDurationS: 28, SampleVideos: 15, CapturedAt: now},
			{ChannelRef: "@mealprepper", MedianViews: 18000, EngagementRate: 0.05, TypicalDurationS: 45, SampleVideos: 9, CapturedAt: now},
		},
	})
	if err != nil {
		t.Fatalf("ImportBenchmarks: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 stored rows, got %d", len(rows))
	}
	for _, r := range rows {
		if r.Platform != "tiktok" {
			t.Fatalf("platform not normalized: %q", r.Platform)
		}
		if r.UserID != userID {
			t.Fatalf("row not scoped to user")
		}
	}

	stored, err := u.deps.Benchmarks.ListByUserPlatform(dbctx.Context{Ctx: ctx}, userID, "tiktok")
	if err != nil {
		t.Fatalf("ListByUserPlatform: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 persisted benchmarks, got %d", len(stored))
	}
}
