package scripts

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/scriptpulse-backend/internal/clients/genai"
	types "github.com/yungbote/scriptpulse-backend/internal/domain"
	"github.com/yungbote/scriptpulse-backend/internal/platform/apierr"
	"github.com/yungbote/scriptpulse-backend/internal/platform/dbctx"
	"github.com/yungbote/scriptpulse-backend/internal/scoring"
	"github.com/yungbote/scriptpulse-backend/internal/scoring/detect"
)

const (
	defaultVariantCount = 3
	maxVariantCount     = 8

	generationPathBackend  = "generated"
	generationPathFallback = "fallback"
)

type GenerateInput struct {
	UserID          uuid.UUID
	Topic           string
	TargetAudience  string
	Objective       string
	Platform        string
	Tone            string
	HookStyle       string
	CTAStyle        string
	PacingStyle     string
	DurationSeconds int
	N               int
}

// GenerationMeta records which path produced the batch. Falling back is a
// success; callers learn about it here, never through an error.
type GenerationMeta struct {
	Path           string `json:"path"`
	UsedFallback   bool   `json:"used_fallback"`
	FallbackReason string `json:"fallback_reason,omitempty"`
}

type VariantView struct {
	ID                 uuid.UUID              `json:"id"`
	Rank               int                    `json:"rank"`
	Label              string                 `json:"label"`
	ScriptText         string                 `json:"script_text"`
	DurationSeconds    int                    `json:"duration_seconds"`
	DetectorRankings   []detect.Ranking       `json:"detector_rankings"`
	ScoreBreakdown     scoring.ScoreBreakdown `json:"score_breakdown"`
	ExpectedLiftPoints float64                `json:"expected_lift_points"`
}

type GenerateOutput struct {
	BatchID        uuid.UUID      `json:"batch_id"`
	Variants       []VariantView  `json:"variants"`
	GenerationMeta GenerationMeta `json:"generation_meta"`
}

type candidate struct {
	ID    uuid.UUID
	Label string
	Text  string
	Score scoredScript
}

func (u Usecases) Generate(ctx context.Context, in GenerateInput) (GenerateOutput, error) {
	if in.UserID == uuid.Nil {
		return GenerateOutput{}, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	topic := strings.TrimSpace(in.Topic)
	if topic == "" {
		return GenerateOutput{}, apierr.New(http.StatusBadRequest, "missing_topic", nil)
	}
	if in.DurationSeconds < 0 {
		return GenerateOutput{}, apierr.New(http.StatusBadRequest, "invalid_duration", fmt.Errorf("duration_seconds must be non-negative"))
	}
	duration := in.DurationSeconds
	if duration == 0 {
		duration = 30
	}
	n := in.N
	if n <= 0 {
		n = defaultVariantCount
	}
	if n > maxVariantCount {
		n = maxVariantCount
	}

	constraints := detect.Constraints{
		Platform:        strings.ToLower(strings.TrimSpace(in.Platform)),
		Tone:            in.Tone,
		HookStyle:       in.HookStyle,
		CTAStyle:        in.CTAStyle,
		PacingStyle:     in.PacingStyle,
		DurationSeconds: duration,
		Topic:           topic,
		TargetAudience:  in.TargetAudience,
		Objective:       in.Objective,
	}

	cands, meta := u.produceCandidates(ctx, in, topic, duration, n)

	chctx := u.channelContext(ctx, in.UserID, constraints.Platform, duration)

	// The naive baseline rides along in the same scoring pass; its combined
	// score anchors expected_lift_points for every candidate.
	var naive scoredScript
	var g errgroup.Group
	g.Go(func() error {
		naive = u.scoreText(naiveScript(topic), constraints, chctx, nil)
		return nil
	})
	for i := range cands {
		i := i
		g.Go(func() error {
			cands[i].Score = u.scoreText(cands[i].Text, constraints, chctx, nil)
			return nil
		})
	}
	_ = g.Wait()

	sort.SliceStable(cands, func(a, b int) bool {
		if cands[a].Score.Breakdown.Combined != cands[b].Score.Breakdown.Combined {
			return cands[a].Score.Breakdown.Combined > cands[b].Score.Breakdown.Combined
		}
		return cands[a].ID.String() < cands[b].ID.String()
	})

	batchID := uuid.New()
	now := time.Now().UTC()
	rows := make([]*types.ScriptVariant, 0, len(cands))
	views := make([]VariantView, 0, len(cands))
	for i, c := range cands {
		lift := c.Score.Breakdown.Combined - naive.Breakdown.Combined
		if lift < 0 {
			lift = 0
		}
		views = append(views, VariantView{
			ID:                 c.ID,
			Rank:               i + 1,
			Label:              c.Label,
			ScriptText:         c.Text,
			DurationSeconds:    duration,
			DetectorRankings:   c.Score.Rankings,
			ScoreBreakdown:     c.Score.Breakdown,
			ExpectedLiftPoints: lift,
		})
		rows = append(rows, &types.ScriptVariant{
			ID:                 c.ID,
			UserID:             in.UserID,
			BatchID:            batchID,
			Platform:           constraints.Platform,
			Rank:               i + 1,
			Label:              c.Label,
			ScriptText:         c.Text,
			DurationSeconds:    duration,
			DetectorRankings:   mustJSON(c.Score.Rankings),
			ScoreBreakdown:     mustJSON(c.Score.Breakdown),
			ExpectedLiftPoints: lift,
			CreatedAt:          now,
		})
	}

	if u.deps.Variants != nil {
		if err := u.deps.Variants.CreateBatch(dbctx.Context{Ctx: ctx}, rows); err != nil {
			return GenerateOutput{}, apierr.New(http.StatusInternalServerError, "variant_save_failed", err)
		}
	}

	return GenerateOutput{
		BatchID:        batchID,
		Variants:       views,
		GenerationMeta: meta,
	}, nil
}

// produceCandidates asks the generation backend for n scripts, bounded by
// the configured timeout. Any backend failure downgrades the whole batch to
// the template bank; the reason travels in the meta, not in an error.
func (u Usecases) produceCandidates(ctx context.Context, in GenerateInput, topic string, duration, n int) ([]candidate, GenerationMeta) {
	if u.deps.GenAI == nil {
		return u.templateCandidates(topic, in.TargetAudience, n), GenerationMeta{
			Path:           generationPathFallback,
			UsedFallback:   true,
			FallbackReason: "generation backend not configured",
		}
	}

	bank := angleTemplates()
	genCtx, cancel := context.WithTimeout(ctx, u.deps.GenAITimeout)
	defer cancel()

	cands := make([]candidate, n)
	g, gctx := errgroup.WithContext(genCtx)
	for i := 0; i < n; i++ {
		i := i
		angle := bank[i%len(bank)]
		g.Go(func() error {
			text, err := u.deps.GenAI.GenerateScript(gctx, genai.ScriptRequest{
				Topic:           topic,
				TargetAudience:  in.TargetAudience,
				Objective:       in.Objective,
				Platform:        in.Platform,
				Tone:            in.Tone,
				HookStyle:       in.HookStyle,
				CTAStyle:        in.CTAStyle,
				PacingStyle:     in.PacingStyle,
				DurationSeconds: duration,
				AngleHint:       angle.Label,
			})
			if err != nil {
				return err
			}
			cands[i] = candidate{ID: uuid.New(), Label: angle.Label, Text: text}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if u.deps.Log != nil {
			u.deps.Log.Warn("generation backend failed; using template fallback", "error", err)
		}
		return u.templateCandidates(topic, in.TargetAudience, n), GenerationMeta{
			Path:           generationPathFallback,
			UsedFallback:   true,
			FallbackReason: err.Error(),
		}
	}

	// Backends occasionally echo near-identical scripts across angles; a
	// duplicate slot is re-filled from the template bank so the batch stays
	// n distinct candidates.
	seen := make(map[string]bool, n)
	for i := range cands {
		key := strings.TrimSpace(strings.ToLower(cands[i].Text))
		if key == "" || seen[key] {
			label, text := templateScript(topic, in.TargetAudience, i)
			cands[i].Label = label
			cands[i].Text = text
			key = strings.TrimSpace(strings.ToLower(text))
		}
		seen[key] = true
	}

	return cands, GenerationMeta{Path: generationPathBackend}
}

func (u Usecases) templateCandidates(topic, audience string, n int) []candidate {
	out := make([]candidate, 0, n)
	for i := 0; i < n; i++ {
		label, text := templateScript(topic, audience, i)
		out = append(out, candidate{ID: uuid.New(), Label: label, Text: text})
	}
	return out
}
