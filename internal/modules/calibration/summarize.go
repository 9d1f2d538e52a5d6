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

const (
	TrendImproving = "improving"
	TrendWorsening = "worsening"
	TrendFlat      = "flat"

	recentOutcomeCount = 10
)

// DriftWindow aggregates the calibration error of the outcomes whose
// posted_at falls inside the window. Derived on read, never stored.
type DriftWindow struct {
	MeanDelta    float64 `json:"mean_delta"`
	MeanAbsError float64 `json:"mean_abs_error"`
	Count        int     `json:"count"`
	Bias         string  `json:"bias"`
}

type CalibrationSummary struct {
	D7             DriftWindow            `json:"d7"`
	D30            DriftWindow            `json:"d30"`
	Confidence     string                 `json:"confidence"`
	Trend          string                 `json:"trend"`
	NextActions    []string               `json:"next_actions"`
	RecentOutcomes []*types.OutcomeRecord `json:"recent_outcomes"`
}

// Summarize recomputes the 7- and 30-day drift windows for (user,
// platform) as of now. Reads go straight to the store so a caller who just
// ingested an outcome sees it reflected immediately.
func (u Usecases) Summarize(ctx context.Context, userID uuid.UUID, platform string, now time.Time) (CalibrationSummary, error) {
	if userID == uuid.Nil {
		return CalibrationSummary{}, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	dbc := dbctx.Context{Ctx: ctx}
	outcomes, err := u.deps.Outcomes.ListSince(dbc, userID, platform, now.AddDate(0, 0, -30))
	if err != nil {
		return CalibrationSummary{}, apierr.New(http.StatusInternalServerError, "outcome_list_failed", err)
	}

	d7 := u.window(outcomes, now.AddDate(0, 0, -7), now)
	d30 := u.window(outcomes, now.AddDate(0, 0, -30), now)

	recent, err := u.deps.Outcomes.ListRecent(dbc, userID, platform, recentOutcomeCount)
	if err != nil {
		return CalibrationSummary{}, apierr.New(http.StatusInternalServerError, "outcome_list_failed", err)
	}

	return CalibrationSummary{
		D7:             d7,
		D30:            d30,
		Confidence:     u.confidence(d30),
		Trend:          u.trend(d7, d30),
		NextActions:    u.nextActions(d30, platform),
		RecentOutcomes: recent,
	}, nil
}

func (u Usecases) window(outcomes []*types.OutcomeRecord, from, to time.Time) DriftWindow {
	var deltas []float64
	for _, o := range outcomes {
		if o.PostedAt.Before(from) || o.PostedAt.After(to) {
			continue
		}
		deltas = append(deltas, o.CalibrationDelta)
	}
	w := DriftWindow{Count: len(deltas), Bias: scoring.BiasNeutral}
	if len(deltas) == 0 {
		return w
	}
	var sum, absSum float64
	for _, d := range deltas {
		sum += d
		absSum += math.Abs(d)
	}
	w.MeanDelta = sum / float64(len(deltas))
	w.MeanAbsError = absSum / float64(len(deltas))
	w.Bias = scoring.ClassifyBias(w.MeanDelta, u.deps.Policy.BiasTolerance)
	return w
}

func (u Usecases) confidence(d30 DriftWindow) string {
	switch {
	case d30.Count == 0:
		return scoring.ConfidenceLow
	case d30.Count >= u.deps.Policy.KHigh:
		return scoring.ConfidenceHigh
	default:
		return scoring.ConfidenceMedium
	}
}

// trend compares the 7-day error to the 30-day error; only a materially
// different MAE (by the policy margin) moves the needle off flat.
func (u Usecases) trend(d7, d30 DriftWindow) string {
	if d7.Count == 0 || d30.Count == 0 {
		return TrendFlat
	}
	diff := d7.MeanAbsError - d30.MeanAbsError
	switch {
	case diff <= -u.deps.Policy.TrendMargin:
		return TrendImproving
	case diff >= u.deps.Policy.TrendMargin:
		return TrendWorsening
	default:
		return TrendFlat
	}
}

// nextActions turns the 30-day bias into advisory hints. Nothing here is
// applied automatically; the weights only change when an operator acts.
func (u Usecases) nextActions(d30 DriftWindow, platform string) []string {
	p := platform
	if p == "" {
		p = "all platforms"
	}
	var out []string
	switch d30.Bias {
	case scoring.BiasUnderPrediction:
		out = append(out,
			fmt.Sprintf("Scores for %s are running %.1f points under reality; consider shifting weight toward the competitor_metrics channel.", p, d30.MeanDelta),
			"Review recent high performers for hook patterns the detectors under-reward.",
		)
	case scoring.BiasOverPrediction:
		out = append(out,
			fmt.Sprintf("Scores for %s are running %.1f points over reality; consider shifting weight toward the historical_metrics channel.", p, -d30.MeanDelta),
			"Compare predicted retention against actual average view duration on recent posts.",
		)
	default:
		if d30.Count > 0 {
			out = append(out, "Calibration is within tolerance; keep logging outcomes after each post.")
		}
	}
	if d30.Count < u.deps.Policy.KHigh {
		out = append(out, fmt.Sprintf("Log more outcomes to tighten calibration (%d of %d in the last 30 days).", d30.Count, u.deps.Policy.KHigh))
	}
	return out
}
