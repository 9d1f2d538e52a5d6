package scoring

import (
	"math"
	"testing"
)

func fullSamples(n int) ChannelSamples {
	return ChannelSamples{Platform: n, Competitor: n, Historical: n}
}

func TestCombine_WeightedSumMatchesRecordedWeights(t *testing.T) {
	p := fallbackPolicy()
	out := Combine(CombineInput{
		Policy:   p,
		Platform: "tiktok",
		Channels: ChannelScores{Platform: 80, Competitor: 60, Historical: 40},
		Samples:  fullSamples(20),
	})

	expected := out.Weights["platform"]*out.PlatformMetrics +
		out.Weights["competitor"]*out.CompetitorMetrics +
		out.Weights["historical"]*out.HistoricalMetrics
	if math.Abs(out.Combined-expected) > 1 {
		t.Fatalf("combined drifts from recorded weights: combined=%v expected=%v", out.Combined, expected)
	}

	wsum := out.Weights["platform"] + out.Weights["competitor"] + out.Weights["historical"]
	if math.Abs(wsum-1.0) > 0.001 {
		t.Fatalf("recorded weights sum to %v, want 1.0", wsum)
	}

	w := p.WeightsFor("tiktok")
	if out.Weights["platform"] != w.Platform || out.Weights["competitor"] != w.Competitor {
		t.Fatalf("recorded weights differ from policy: %v vs %+v", out.Weights, w)
	}
}

func TestCombine_ZeroSampleChannelGoesNeutralAndLow(t *testing.T) {
	out := Combine(CombineInput{
		Policy:   fallbackPolicy(),
		Platform: "tiktok",
		Channels: ChannelScores{Platform: 90, Competitor: 95, Historical: 95},
		Samples:  ChannelSamples{Platform: 7, Competitor: 10, Historical: 0},
	})
	if out.HistoricalMetrics != 50 {
		t.Fatalf("expected neutral 50 for empty channel, got %v", out.HistoricalMetrics)
	}
	if out.Confidence != ConfidenceLow {
		t.Fatalf("expected low confidence with a zero-sample channel, got %q", out.Confidence)
	}
	if out.SampleCounts["historical"] != 0 {
		t.Fatalf("expected recorded sample count 0, got %d", out.SampleCounts["historical"])
	}
}

func TestCombine_ConfidenceTiers(t *testing.T) {
	p := fallbackPolicy()
	high := Combine(CombineInput{Policy: p, Channels: ChannelScores{50, 50, 50}, Samples: fullSamples(p.HighSampleThreshold)})
	if high.Confidence != ConfidenceHigh {
		t.Fatalf("expected high at threshold samples, got %q", high.Confidence)
	}
	medium := Combine(CombineInput{Policy: p, Channels: ChannelScores{50, 50, 50}, Samples: ChannelSamples{Platform: p.HighSampleThreshold, Competitor: p.HighSampleThreshold, Historical: p.HighSampleThreshold - 1}})
	if medium.Confidence != ConfidenceMedium {
		t.Fatalf("expected medium below threshold, got %q", medium.Confidence)
	}
}

func TestCombine_CalibrationBiasDemotesConfidence(t *testing.T) {
	p := fallbackPolicy()
	in := CombineInput{
		Policy:          p,
		Channels:        ChannelScores{70, 70, 70},
		Samples:         fullSamples(p.HighSampleThreshold + 5),
		CalibrationBias: BiasOverPrediction,
	}
	out := Combine(in)
	if out.Confidence != ConfidenceMedium {
		t.Fatalf("expected high demoted to medium under bias, got %q", out.Confidence)
	}

	in.CalibrationBias = BiasNeutral
	if got := Combine(in).Confidence; got != ConfidenceHigh {
		t.Fatalf("expected neutral bias to leave confidence high, got %q", got)
	}
}

func TestCombine_BaselineDelta(t *testing.T) {
	p := fallbackPolicy()
	noBase := Combine(CombineInput{Policy: p, Channels: ChannelScores{70, 70, 70}, Samples: fullSamples(5)})
	if noBase.DeltaFromBaseline != nil {
		t.Fatalf("expected nil delta without baseline, got %v", *noBase.DeltaFromBaseline)
	}

	base := 60.0
	withBase := Combine(CombineInput{Policy: p, Channels: ChannelScores{70, 70, 70}, Samples: fullSamples(5), Baseline: &base})
	if withBase.DeltaFromBaseline == nil {
		t.Fatalf("expected delta with baseline")
	}
	if got := *withBase.DeltaFromBaseline; got != withBase.Combined-60 {
		t.Fatalf("unexpected delta: got=%v want=%v", got, withBase.Combined-60)
	}
}

func TestCombine_OutOfRangeChannelsClamped(t *testing.T) {
	out := Combine(CombineInput{
		Policy:   fallbackPolicy(),
		Channels: ChannelScores{Platform: 140, Competitor: -20, Historical: 50},
		Samples:  fullSamples(5),
	})
	if out.PlatformMetrics != 100 || out.CompetitorMetrics != 0 {
		t.Fatalf("expected clamped channels, got platform=%v competitor=%v", out.PlatformMetrics, out.CompetitorMetrics)
	}
	if out.Combined < 0 || out.Combined > 100 {
		t.Fatalf("combined out of range: %v", out.Combined)
	}
}

func TestClassifyBias_ToleranceBands(t *testing.T) {
	if got := ClassifyBias(5, 3); got != BiasUnderPrediction {
		t.Fatalf("expected under_prediction, got %q", got)
	}
	if got := ClassifyBias(-5, 3); got != BiasOverPrediction {
		t.Fatalf("expected over_prediction, got %q", got)
	}
	if got := ClassifyBias(2.9, 3); got != BiasNeutral {
		t.Fatalf("expected neutral inside tolerance, got %q", got)
	}
	if got := ClassifyBias(-3, 3); got != BiasNeutral {
		t.Fatalf("expected neutral at exactly -tolerance, got %q", got)
	}
}
