package detect

import (
	"fmt"
	"math"
	"regexp"
)

var (
	retentionCueTerms = []string{
		"but ", "here's the thing", "wait", "now ", "then ", "the best part",
		"first", "second", "third", "finally", "most people miss",
	}
	retentionOpenLoopTerms = []string{
		"by the end", "stick around", "i'll show you", "coming up", "in a second",
	}
	retentionListLineRe = regexp.MustCompile(`^(\d+[.):]|step\b|tip\b|rule\b)`)
)

func retentionDesign() Detector {
	return Detector{
		Key:             "retention_design",
		Label:           "Retention design",
		Priority:        2,
		Floor:           35,
		ActionThreshold: 65,
		Evaluate:        evalRetention,
	}
}

func evalRetention(doc Doc, c Constraints) Result {
	score := 45.0
	var evidence []string

	duration := c.DurationSeconds
	if duration <= 0 {
		duration = 30
	}

	cues := 0
	for _, ln := range doc.Lines {
		cues += countAny(ln.Text, retentionCueTerms)
	}
	expected := duration / 15
	if expected < 1 {
		expected = 1
	}
	ratio := float64(cues) / float64(expected)
	if ratio > 1 {
		ratio = 1
	}
	score += 25 * ratio
	if cues == 0 {
		evidence = append(evidence, "no re-engagement cues between hook and close")
	} else {
		evidence = append(evidence, fmt.Sprintf("%d re-engagement cues for ~%ds runtime", cues, duration))
	}

	if _, ok := containsAny(doc.Raw, retentionOpenLoopTerms); ok {
		score += 8
		evidence = append(evidence, "open loop promises a payoff")
	}

	listLines := 0
	for _, ln := range doc.Lines {
		if retentionListLineRe.MatchString(lowerTrim(ln.Text)) {
			listLines++
		}
	}
	if listLines >= 3 {
		score += 8
		evidence = append(evidence, fmt.Sprintf("numbered structure across %d lines", listLines))
	}

	longLines := 0
	for _, ln := range doc.Lines {
		if len(lineWords(ln.Text)) > 30 {
			longLines++
		}
	}
	if longLines > 0 {
		penalty := math.Min(float64(longLines)*6, 18)
		score -= penalty
		evidence = append(evidence, fmt.Sprintf("%d unbroken lines over 30 words risk drop-off", longLines))
	}

	if variance := lineLengthStddev(doc.Lines); len(doc.Lines) >= 4 && variance < 1.5 {
		score -= 10
		evidence = append(evidence, "every line runs the same length; rhythm goes flat")
	}

	return Result{Score: clampScore(score), Evidence: evidence}
}

func lineLengthStddev(lines []Line) float64 {
	if len(lines) == 0 {
		return 0
	}
	mean := 0.0
	counts := make([]float64, 0, len(lines))
	for _, ln := range lines {
		n := float64(len(lineWords(ln.Text)))
		counts = append(counts, n)
		mean += n
	}
	mean /= float64(len(counts))
	variance := 0.0
	for _, n := range counts {
		variance += (n - mean) * (n - mean)
	}
	variance /= float64(len(counts))
	return math.Sqrt(variance)
}
