package scripts

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/yungbote/scriptpulse-backend/internal/domain"
	"github.com/yungbote/scriptpulse-backend/internal/platform/dbctx"
	"github.com/yungbote/scriptpulse-backend/internal/scoring"
	"github.com/yungbote/scriptpulse-backend/internal/scoring/detect"
)

const historicalLookbackDays = 90

// channelContext holds the per-request readings of the competitor and
// historical channels plus the creator's current calibration bias. Built
// once per request and reused across a whole generation batch so every
// candidate is scored against the same evidence.
type channelContext struct {
	CompetitorScore   float64
	CompetitorSamples int

	HistoricalScore   float64
	HistoricalSamples int

	Bias string
}

func (u Usecases) channelContext(ctx context.Context, userID uuid.UUID, platform string, duration int) channelContext {
	dbc := dbctx.Context{Ctx: ctx}
	out := channelContext{Bias: scoring.BiasNeutral}

	benchmarks := u.loadBenchmarks(ctx, userID, platform)
	aggs := make([]scoring.BenchmarkAggregate, 0, len(benchmarks))
	for _, b := range benchmarks {
		aggs = append(aggs, scoring.BenchmarkAggregate{
			MedianViews:      b.MedianViews,
			EngagementRate:   b.EngagementRate,
			TypicalDurationS: b.TypicalDurationS,
			SampleVideos:     b.SampleVideos,
		})
	}
	out.CompetitorScore, out.CompetitorSamples = scoring.CompetitorFit(aggs, duration)

	if u.deps.Outcomes != nil {
		since := time.Now().UTC().AddDate(0, 0, -historicalLookbackDays)
		outcomes, err := u.deps.Outcomes.ListSince(dbc, userID, platform, since)
		if err != nil {
			if u.deps.Log != nil {
				u.deps.Log.Warn("historical channel read failed; scoring without it", "error", err)
			}
			outcomes = nil
		}
		actuals := make([]float64, 0, len(outcomes))
		deltas := make([]float64, 0, len(outcomes))
		biasCutoff := time.Now().UTC().AddDate(0, 0, -30)
		for _, o := range outcomes {
			actuals = append(actuals, o.ActualScore)
			if !o.PostedAt.Before(biasCutoff) {
				deltas = append(deltas, o.CalibrationDelta)
			}
		}
		out.HistoricalScore, out.HistoricalSamples = scoring.HistoricalFit(actuals)
		if len(deltas) > 0 {
			out.Bias = scoring.ClassifyBias(meanOf(deltas), u.deps.Policy.BiasTolerance)
		}
	}

	return out
}

func (u Usecases) loadBenchmarks(ctx context.Context, userID uuid.UUID, platform string) []*types.BenchmarkStat {
	if u.deps.Cache != nil {
		if rows, ok := u.deps.Cache.Get(ctx, userID.String(), platform); ok {
			return rows
		}
	}
	if u.deps.Benchmarks == nil {
		return nil
	}
	rows, err := u.deps.Benchmarks.ListByUserPlatform(dbctx.Context{Ctx: ctx}, userID, platform)
	if err != nil {
		if u.deps.Log != nil {
			u.deps.Log.Warn("benchmark read failed; scoring without competitor channel", "error", err)
		}
		return nil
	}
	if u.deps.Cache != nil {
		u.deps.Cache.Set(ctx, userID.String(), platform, rows)
	}
	return rows
}

// scoredScript is one full evaluation of one text: the suite rankings plus
// the combined breakdown.
type scoredScript struct {
	Rankings  []detect.Ranking
	Breakdown scoring.ScoreBreakdown
}

func (u Usecases) scoreText(text string, c detect.Constraints, chctx channelContext, baseline *float64) scoredScript {
	rankings := detect.EvaluateAll(detect.Registry(), text, c)
	breakdown := scoring.Combine(scoring.CombineInput{
		Policy:   u.deps.Policy,
		Platform: c.Platform,
		Channels: scoring.ChannelScores{
			Platform:   detect.MeanScore(rankings),
			Competitor: chctx.CompetitorScore,
			Historical: chctx.HistoricalScore,
		},
		Samples: scoring.ChannelSamples{
			Platform:   len(rankings),
			Competitor: chctx.CompetitorSamples,
			Historical: chctx.HistoricalSamples,
		},
		Baseline:        baseline,
		CalibrationBias: chctx.Bias,
	})
	return scoredScript{Rankings: rankings, Breakdown: breakdown}
}

func mustJSON(v any) datatypes.JSON {
	raw, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON([]byte("null"))
	}
	return datatypes.JSON(raw)
}

func meanOf(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
