package calibration

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/scriptpulse-backend/internal/domain"
	"github.com/yungbote/scriptpulse-backend/internal/platform/apierr"
	"github.com/yungbote/scriptpulse-backend/internal/platform/dbctx"
	"github.com/yungbote/scriptpulse-backend/internal/scoring"
)

type IngestInput struct {
	UserID          uuid.UUID
	DraftSnapshotID uuid.UUID
	PostedAt        time.Time
	Metrics         scoring.ActualMetrics

	// PredictedScore, when supplied, is what the user saw at publish time
	// and wins over the snapshot's stored score. Nil copies the snapshot's
	// rescored score.
	PredictedScore *float64
}

// Ingest records one measurement of a published snapshot. Deliberately not
// idempotent: a 7-day and a 30-day measurement of the same snapshot are
// two rows, and that is the point.
func (u Usecases) Ingest(ctx context.Context, in IngestInput) (*types.OutcomeRecord, error) {
	if in.UserID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	if in.DraftSnapshotID == uuid.Nil {
		return nil, apierr.New(http.StatusBadRequest, "invalid_draft_snapshot_id", nil)
	}
	if err := validateMetrics(in.Metrics); err != nil {
		return nil, apierr.New(http.StatusBadRequest, "invalid_metrics", err)
	}
	if in.PredictedScore != nil && (math.IsNaN(*in.PredictedScore) || math.IsInf(*in.PredictedScore, 0)) {
		return nil, apierr.New(http.StatusBadRequest, "invalid_predicted_score", fmt.Errorf("predicted_score must be finite"))
	}

	dbc := dbctx.Context{Ctx: ctx}
	snapshot, err := u.deps.Snapshots.GetByID(dbc, in.UserID, in.DraftSnapshotID)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "snapshot_load_failed", err)
	}
	if snapshot == nil {
		return nil, apierr.New(http.StatusNotFound, "snapshot_not_found", nil)
	}

	postedAt := in.PostedAt
	if postedAt.IsZero() {
		postedAt = time.Now().UTC()
	}

	predicted := snapshot.RescoredScore
	if in.PredictedScore != nil {
		predicted = *in.PredictedScore
	}

	// Same scale as predictions: the one historical-channel scoring
	// function maps raw metrics onto 0..100.
	actual := scoring.ScoreActualMetrics(in.Metrics, snapshot.DurationSeconds)

	row := &types.OutcomeRecord{
		ID:               uuid.New(),
		UserID:           in.UserID,
		Platform:         snapshot.Platform,
		DraftSnapshotID:  snapshot.ID,
		PostedAt:         postedAt.UTC(),
		Views:            in.Metrics.Views,
		Likes:            in.Metrics.Likes,
		Comments:         in.Metrics.Comments,
		Shares:           in.Metrics.Shares,
		Saves:            in.Metrics.Saves,
		AvgViewDurationS: in.Metrics.AvgViewDurationS,
		PredictedScore:   predicted,
		ActualScore:      actual,
		CalibrationDelta: actual - predicted,
		CreatedAt:        time.Now().UTC(),
	}

	if err := u.deps.Outcomes.Create(dbc, row); err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "outcome_save_failed", err)
	}
	return row, nil
}

func validateMetrics(m scoring.ActualMetrics) error {
	if m.Views < 0 || m.Likes < 0 || m.Comments < 0 || m.Shares < 0 || m.Saves < 0 {
		return fmt.Errorf("metric counts must be non-negative")
	}
	if m.AvgViewDurationS < 0 {
		return fmt.Errorf("avg_view_duration_s must be non-negative")
	}
	if math.IsNaN(m.AvgViewDurationS) || math.IsInf(m.AvgViewDurationS, 0) {
		return fmt.Errorf("avg_view_duration_s must be finite")
	}
	return nil
}
