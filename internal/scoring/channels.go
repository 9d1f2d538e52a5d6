package scoring

import "math"

// ActualMetrics are the raw post-publication numbers for one published
// script.
type ActualMetrics struct {
	Views            int64   `json:"views"`
	Likes            int64   `json:"likes"`
	Comments         int64   `json:"comments"`
	Shares           int64   `json:"shares"`
	Saves            int64   `json:"saves"`
	AvgViewDurationS float64 `json:"avg_view_duration_s"`
}

// BenchmarkAggregate is one competitor channel's captured norms.
type BenchmarkAggregate struct {
	MedianViews      int64
	EngagementRate   float64
	TypicalDurationS float64
	SampleVideos     int
}

// Saturation points for the actual-metrics scale. A post at or beyond all
// three saturates at 100.
const (
	reachSaturationLogViews  = 6.0  // 1M views
	engagementSaturationRate = 0.12 // 12% engaged per view
	watchSaturationRatio     = 0.8  // 80% average watch-through
)

// ScoreActualMetrics maps raw outcome metrics onto the same 0..100 scale
// predictions use. Ingestion and the historical channel share this one
// function, so predicted and actual scores stay comparable.
func ScoreActualMetrics(m ActualMetrics, durationSeconds int) float64 {
	duration := float64(durationSeconds)
	if duration <= 0 {
		duration = 30
	}

	reach := 0.0
	if m.Views > 0 {
		reach = math.Log10(float64(m.Views)+1) / reachSaturationLogViews * 40
		if reach > 40 {
			reach = 40
		}
	}

	engagement := 0.0
	if m.Views > 0 {
		er := float64(m.Likes+m.Comments+m.Shares+m.Saves) / float64(m.Views)
		engagement = er / engagementSaturationRate * 35
		if engagement > 35 {
			engagement = 35
		}
	}

	watch := 0.0
	if m.AvgViewDurationS > 0 {
		ratio := m.AvgViewDurationS / duration
		watch = ratio / watchSaturationRatio * 25
		if watch > 25 {
			watch = 25
		}
	}

	return clamp(reach+engagement+watch, 0, 100)
}

// HistoricalFit aggregates the creator's recent actual scores into the
// historical channel. Zero samples means the channel has nothing to say;
// the combiner substitutes the neutral midpoint.
func HistoricalFit(actualScores []float64) (score float64, samples int) {
	if len(actualScores) == 0 {
		return 0, 0
	}
	return meanOf(actualScores), len(actualScores)
}

// CompetitorFit scores how well a draft's shape matches what is working
// in the creator's competitive set: duration proximity to benchmark norms
// plus how active the niche is. Sample count is the number of benchmark
// videos behind the aggregates.
func CompetitorFit(stats []BenchmarkAggregate, durationSeconds int) (score float64, samples int) {
	if len(stats) == 0 {
		return 0, 0
	}

	var weightSum, durationSum, erSum float64
	for _, s := range stats {
		w := float64(s.SampleVideos)
		if w < 1 {
			w = 1
		}
		samples += int(w)
		weightSum += w
		durationSum += s.TypicalDurationS * w
		erSum += s.EngagementRate * w
	}
	typicalDuration := durationSum / weightSum
	nicheER := erSum / weightSum

	durationFit := 100.0
	if durationSeconds > 0 && typicalDuration > 0 {
		d := float64(durationSeconds)
		durationFit = 100 * math.Min(d, typicalDuration) / math.Max(d, typicalDuration)
	}

	nicheActivity := clamp(nicheER/0.10*100, 0, 100)

	return clamp(0.7*durationFit+0.3*nicheActivity, 0, 100), samples
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

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
