package scoring

import "math"

const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

const (
	BiasNeutral         = "neutral"
	BiasOverPrediction  = "over_prediction"
	BiasUnderPrediction = "under_prediction"
)

// ChannelScores are the three channel readings before weighting.
type ChannelScores struct {
	Platform   float64
	Competitor float64
	Historical float64
}

// ChannelSamples count the observations behind each channel: detectors
// evaluated, benchmark videos, and past outcomes respectively.
type ChannelSamples struct {
	Platform   int
	Competitor int
	Historical int
}

// ScoreBreakdown is the auditable output of one combination. Weights are
// the exact values used, copied from the policy at computation time.
type ScoreBreakdown struct {
	PlatformMetrics   float64            `json:"platform_metrics"`
	CompetitorMetrics float64            `json:"competitor_metrics"`
	HistoricalMetrics float64            `json:"historical_metrics"`
	Combined          float64            `json:"combined"`
	Confidence        string             `json:"confidence"`
	Weights           map[string]float64 `json:"weights"`
	SampleCounts      map[string]int     `json:"sample_counts"`
	DeltaFromBaseline *float64           `json:"delta_from_baseline,omitempty"`
}

type CombineInput struct {
	Policy   Policy
	Platform string
	Channels ChannelScores
	Samples  ChannelSamples

	// Baseline, when present, yields DeltaFromBaseline. Absent means
	// "no baseline", which is distinct from a delta of zero.
	Baseline *float64

	// CalibrationBias demotes confidence one tier when the 30-day drift
	// summary shows systematic over- or under-prediction.
	CalibrationBias string
}

// Combine folds the three channels into one combined score. A channel with
// zero samples contributes the neutral midpoint instead of its (meaningless)
// reading, and caps confidence at low.
func Combine(in CombineInput) ScoreBreakdown {
	p := in.Policy
	if len(p.Weights) == 0 {
		p = fallbackPolicy()
	}
	w := p.WeightsFor(in.Platform)

	platform := clamp(in.Channels.Platform, 0, 100)
	competitor := clamp(in.Channels.Competitor, 0, 100)
	historical := clamp(in.Channels.Historical, 0, 100)

	if in.Samples.Platform == 0 {
		platform = p.NeutralScore
	}
	if in.Samples.Competitor == 0 {
		competitor = p.NeutralScore
	}
	if in.Samples.Historical == 0 {
		historical = p.NeutralScore
	}

	combined := math.Round(w.Platform*platform + w.Competitor*competitor + w.Historical*historical)

	out := ScoreBreakdown{
		PlatformMetrics:   platform,
		CompetitorMetrics: competitor,
		HistoricalMetrics: historical,
		Combined:          clamp(combined, 0, 100),
		Confidence:        confidenceFor(p, in.Samples, in.CalibrationBias),
		Weights: map[string]float64{
			"platform":   w.Platform,
			"competitor": w.Competitor,
			"historical": w.Historical,
		},
		SampleCounts: map[string]int{
			"platform":   in.Samples.Platform,
			"competitor": in.Samples.Competitor,
			"historical": in.Samples.Historical,
		},
	}

	if in.Baseline != nil {
		d := out.Combined - clamp(*in.Baseline, 0, 100)
		out.DeltaFromBaseline = &d
	}

	return out
}

func confidenceFor(p Policy, s ChannelSamples, bias string) string {
	var level string
	switch {
	case s.Platform == 0 || s.Competitor == 0 || s.Historical == 0:
		level = ConfidenceLow
	case s.Platform >= p.HighSampleThreshold &&
		s.Competitor >= p.HighSampleThreshold &&
		s.Historical >= p.HighSampleThreshold:
		level = ConfidenceHigh
	default:
		level = ConfidenceMedium
	}
	if bias == BiasOverPrediction || bias == BiasUnderPrediction {
		level = demote(level)
	}
	return level
}

func demote(level string) string {
	switch level {
	case ConfidenceHigh:
		return ConfidenceMedium
	case ConfidenceMedium:
		return ConfidenceLow
	default:
		return ConfidenceLow
	}
}

// ClassifyBias buckets a mean calibration delta using the policy's
// tolerance. Positive delta means actuals ran ahead of predictions.
func ClassifyBias(meanDelta, tolerance float64) string {
	switch {
	case meanDelta > tolerance:
		return BiasUnderPrediction
	case meanDelta < -tolerance:
		return BiasOverPrediction
	default:
		return BiasNeutral
	}
}
