package scoring

import (
	"math"
	"testing"
)

func TestScoreActualMetrics_ZeroViewsScoresZero(t *testing.T) {
	got := ScoreActualMetrics(ActualMetrics{}, 30)
	if got != 0 {
		t.Fatalf("expected 0 for a dead post, got %v", got)
	}
}

func TestScoreActualMetrics_MonotonicInViews(t *testing.T) {
	small := ScoreActualMetrics(ActualMetrics{Views: 100, Likes: 5, AvgViewDurationS: 12}, 30)
	large := ScoreActualMetrics(ActualMetrics{Views: 100000, Likes: 5000, AvgViewDurationS: 12}, 30)
	if large <= small {
		t.Fatalf("expected more reach to score higher: small=%v large=%v", small, large)
	}
}

func TestScoreActualMetrics_SaturatesAt100(t *testing.T) {
	got := ScoreActualMetrics(ActualMetrics{
		Views:            5_000_000,
		Likes:            400_000,
		Comments:         100_000,
		Shares:           120_000,
		Saves:            90_000,
		AvgViewDurationS: 29,
	}, 30)
	if got != 100 {
		t.Fatalf("expected saturation at 100, got %v", got)
	}
}

func TestScoreActualMetrics_WatchThroughContributes(t *testing.T) {
	shallow := ScoreActualMetrics(ActualMetrics{Views: 1000, Likes: 50, AvgViewDurationS: 3}, 30)
	deep := ScoreActualMetrics(ActualMetrics{Views: 1000, Likes: 50, AvgViewDurationS: 24}, 30)
	if deep <= shallow {
		t.Fatalf("expected watch-through to lift score: shallow=%v deep=%v", shallow, deep)
	}
}

func TestHistoricalFit_MeanAndCount(t *testing.T) {
	score, n := HistoricalFit([]float64{40, 60, 80})
	if n != 3 {
		t.Fatalf("expected 3 samples, got %d", n)
	}
	if math.Abs(score-60) > 1e-9 {
		t.Fatalf("expected mean 60, got %v", score)
	}

	score, n = HistoricalFit(nil)
	if score != 0 || n != 0 {
		t.Fatalf("expected zero value for empty history, got score=%v n=%d", score, n)
	}
}

func TestCompetitorFit_DurationProximityWins(t *testing.T) {
	stats := []BenchmarkAggregate{
		{MedianViews: 50000, EngagementRate: 0.08, TypicalDurationS: 30, SampleVideos: 12},
	}
	matched, n := CompetitorFit(stats, 30)
	if n != 12 {
		t.Fatalf("expected 12 samples, got %d", n)
	}
	mismatched, _ := CompetitorFit(stats, 90)
	if matched <= mismatched {
		t.Fatalf("expected duration match to score higher: matched=%v mismatched=%v", matched, mismatched)
	}
}

func TestCompetitorFit_EmptyStatsMeansNoSamples(t *testing.T) {
	score, n := CompetitorFit(nil, 30)
	if score != 0 || n != 0 {
		t.Fatalf("expected zero value without benchmarks, got score=%v n=%d", score, n)
	}
}

func TestCompetitorFit_WeightsBySampleVideos(t *testing.T) {
	stats := []BenchmarkAggregate{
		{EngagementRate: 0.10, TypicalDurationS: 30, SampleVideos: 30},
		{EngagementRate: 0.01, TypicalDurationS: 120, SampleVideos: 1},
	}
	score, n := CompetitorFit(stats, 30)
	if n != 31 {
		t.Fatalf("expected 31 samples, got %d", n)
	}
	// The heavy 30s cohort should dominate the blended norms.
	if score < 80 {
		t.Fatalf("expected dominant cohort to carry the fit, got %v", score)
	}
}
