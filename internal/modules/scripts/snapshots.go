package scripts

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/scriptpulse-backend/internal/domain"
	"github.com/yungbote/scriptpulse-backend/internal/platform/apierr"
	"github.com/yungbote/scriptpulse-backend/internal/platform/dbctx"
)

// rescoredScoreTolerance is how far a client's rescored_score may drift
// from the server's own rescore of the same text before the save is
// rejected as stale.
const rescoredScoreTolerance = 1.0

const maxSnapshotListLimit = 200

type SaveSnapshotInput struct {
	UserID          uuid.UUID
	Platform        string
	SourceItemID    *string
	VariantID       *uuid.UUID
	ScriptText      string
	DurationSeconds int
	Tone            string
	HookStyle       string
	CTAStyle        string
	PacingStyle     string

	BaselineScore *float64

	// RescoredScore is the combined score the client saw on its last
	// rescore of exactly this text. Nil means the draft was never
	// rescored, which rejects the save.
	RescoredScore *float64
}

// SaveSnapshot persists one approved iteration. The invariant "a snapshot
// is only created from a rescore of the current text" is enforced by
// recomputing: the submitted text is rescored server-side and the stored
// rankings, actions, edits and breakdown are the recomputed ones.
func (u Usecases) SaveSnapshot(ctx context.Context, in SaveSnapshotInput) (*types.DraftSnapshot, error) {
	if in.UserID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	if strings.TrimSpace(in.ScriptText) == "" {
		return nil, apierr.New(http.StatusBadRequest, "empty_script_text", nil)
	}
	if in.RescoredScore == nil {
		return nil, apierr.New(http.StatusPreconditionFailed, "rescore_required", fmt.Errorf("draft must be rescored before saving"))
	}
	if math.IsNaN(*in.RescoredScore) || math.IsInf(*in.RescoredScore, 0) {
		return nil, apierr.New(http.StatusBadRequest, "invalid_rescored_score", fmt.Errorf("rescored_score must be finite"))
	}

	if in.VariantID != nil && u.deps.Variants != nil {
		variant, err := u.deps.Variants.GetByID(dbctx.Context{Ctx: ctx}, in.UserID, *in.VariantID)
		if err != nil {
			return nil, apierr.New(http.StatusInternalServerError, "variant_lookup_failed", err)
		}
		if variant == nil {
			return nil, apierr.New(http.StatusBadRequest, "invalid_variant_id", fmt.Errorf("variant %s not found", *in.VariantID))
		}
	}

	rescored, err := u.Rescore(ctx, RescoreInput{
		UserID:          in.UserID,
		Platform:        in.Platform,
		ScriptText:      in.ScriptText,
		DurationSeconds: in.DurationSeconds,
		Tone:            in.Tone,
		HookStyle:       in.HookStyle,
		CTAStyle:        in.CTAStyle,
		PacingStyle:     in.PacingStyle,
		BaselineScore:   in.BaselineScore,
	})
	if err != nil {
		return nil, err
	}
	if math.Abs(rescored.ScoreBreakdown.Combined-*in.RescoredScore) > rescoredScoreTolerance {
		return nil, apierr.New(http.StatusPreconditionFailed, "stale_rescore",
			fmt.Errorf("submitted rescored_score %.1f does not match the current text (scores %.1f); rescore and retry",
				*in.RescoredScore, rescored.ScoreBreakdown.Combined))
	}

	duration := in.DurationSeconds
	if duration == 0 {
		duration = 30
	}

	row := &types.DraftSnapshot{
		ID:               uuid.New(),
		UserID:           in.UserID,
		Platform:         strings.ToLower(strings.TrimSpace(in.Platform)),
		SourceItemID:     in.SourceItemID,
		VariantID:        in.VariantID,
		ScriptText:       in.ScriptText,
		DurationSeconds:  duration,
		BaselineScore:    in.BaselineScore,
		RescoredScore:    rescored.ScoreBreakdown.Combined,
		DetectorRankings: mustJSON(rescored.DetectorRankings),
		NextActions:      mustJSON(rescored.NextActions),
		LineLevelEdits:   mustJSON(rescored.LineLevelEdits),
		ScoreBreakdown:   mustJSON(rescored.ScoreBreakdown),
		CreatedAt:        time.Now().UTC(),
	}
	if in.BaselineScore != nil {
		delta := row.RescoredScore - *in.BaselineScore
		row.DeltaScore = &delta
	}

	if err := u.deps.Snapshots.Create(dbctx.Context{Ctx: ctx}, row); err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "snapshot_save_failed", err)
	}
	return row, nil
}

func (u Usecases) ListSnapshots(ctx context.Context, userID uuid.UUID, platform string, limit int) ([]*types.DraftSnapshot, error) {
	if userID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > maxSnapshotListLimit {
		limit = maxSnapshotListLimit
	}
	rows, err := u.deps.Snapshots.ListByUserPlatform(dbctx.Context{Ctx: ctx}, userID, platform, limit)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "snapshot_list_failed", err)
	}
	return rows, nil
}

func (u Usecases) GetSnapshot(ctx context.Context, userID, id uuid.UUID) (*types.DraftSnapshot, error) {
	if userID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	if id == uuid.Nil {
		return nil, apierr.New(http.StatusBadRequest, "invalid_snapshot_id", nil)
	}
	row, err := u.deps.Snapshots.GetByID(dbctx.Context{Ctx: ctx}, userID, id)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "snapshot_load_failed", err)
	}
	if row == nil {
		return nil, apierr.New(http.StatusNotFound, "snapshot_not_found", nil)
	}
	return row, nil
}

// MarkPublished stamps the advisory publish marker and returns the updated
// row. The marker is bookkeeping only: outcome ingestion never checks it.
func (u Usecases) MarkPublished(ctx context.Context, userID, id uuid.UUID) (*types.DraftSnapshot, error) {
	if userID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	if id == uuid.Nil {
		return nil, apierr.New(http.StatusBadRequest, "invalid_snapshot_id", nil)
	}
	dbc := dbctx.Context{Ctx: ctx}
	touched, err := u.deps.Snapshots.MarkPublished(dbc, userID, id, time.Now().UTC())
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "snapshot_publish_failed", err)
	}
	if !touched {
		return nil, apierr.New(http.StatusNotFound, "snapshot_not_found", nil)
	}
	row, err := u.deps.Snapshots.GetByID(dbc, userID, id)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "snapshot_load_failed", err)
	}
	return row, nil
}
