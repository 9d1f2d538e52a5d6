package detect

import (
	"fmt"
	"strings"
)

func pacingFit() Detector {
	return Detector{
		Key:             "pacing_fit",
		Label:           "Pacing fit",
		Priority:        4,
		Floor:           35,
		ActionThreshold: 65,
		Evaluate:        evalPacing,
	}
}

// Spoken short-form sits around 2.2-3.0 words/sec; punchy delivery runs
// hotter, narrative runs cooler.
func pacingBand(style string) (low, high float64) {
	switch strings.ToLower(strings.TrimSpace(style)) {
	case "punchy":
		return 2.6, 3.4
	case "narrative":
		return 1.8, 2.6
	default:
		return 2.2, 3.0
	}
}

func evalPacing(doc Doc, c Constraints) Result {
	if c.DurationSeconds <= 0 {
		return Result{Score: 50, Evidence: []string{"no target duration; pacing not assessed"}}
	}
	total := doc.WordCount()
	if total == 0 {
		return Result{Score: 0, Evidence: []string{"script has no words"}}
	}

	rate := float64(total) / float64(c.DurationSeconds)
	low, high := pacingBand(c.PacingStyle)

	var score float64
	switch {
	case rate >= low && rate <= high:
		score = 88
	case rate < low:
		score = 88 - (low-rate)*45
	default:
		score = 88 - (rate-high)*45
	}

	evidence := []string{fmt.Sprintf("~%.1f words/sec against a %.1f-%.1f target band", rate, low, high)}
	switch {
	case rate < low:
		evidence = append(evidence, fmt.Sprintf("script underfills %ds; add material or cut duration", c.DurationSeconds))
	case rate > high:
		evidence = append(evidence, fmt.Sprintf("too many words for %ds; trim or slow down", c.DurationSeconds))
	}

	return Result{Score: clampScore(score), Evidence: evidence}
}
