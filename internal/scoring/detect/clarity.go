package detect

import (
	"fmt"
	"math"
	"strings"
)

var clarityFillerTerms = []string{
	"really", "very", "actually", "basically", "literally",
	"kind of", "sort of", "you know", "i mean", "honestly",
}

func clarity() Detector {
	return Detector{
		Key:             "clarity",
		Label:           "Clarity",
		Priority:        3,
		Floor:           40,
		ActionThreshold: 60,
		Evaluate:        evalClarity,
	}
}

func evalClarity(doc Doc, c Constraints) Result {
	score := 55.0
	var evidence []string

	total := doc.WordCount()
	if total == 0 {
		return Result{Score: 0, Evidence: []string{"script has no words"}}
	}

	avgSentence := float64(total) / math.Max(1, float64(len(doc.Sentences)))
	switch {
	case avgSentence <= 8:
		score += 15
		evidence = append(evidence, "short spoken sentences")
	case avgSentence <= 14:
		score += 8
	case avgSentence >= 22:
		score -= 15
		evidence = append(evidence, fmt.Sprintf("sentences average %.0f words; hard to follow out loud", avgSentence))
	}

	fillers := countAny(doc.Raw, clarityFillerTerms)
	fillerPer100 := float64(fillers) / float64(total) * 100
	if fillerPer100 > 4 {
		penalty := math.Min(fillerPer100*2, 18)
		score -= penalty
		evidence = append(evidence, fmt.Sprintf("%d filler words pad the runtime", fillers))
	}

	long := 0
	for _, w := range doc.Words {
		if len(w) >= 12 {
			long++
		}
	}
	longPer100 := float64(long) / float64(total) * 100
	if longPer100 > 3 {
		score -= math.Min(longPer100*2, 12)
		evidence = append(evidence, "dense vocabulary for a spoken script")
	}

	passive := strings.Count(strings.ToLower(doc.Raw), " was ") + strings.Count(strings.ToLower(doc.Raw), " were ")
	if passive > 0 {
		score -= math.Min(float64(passive)*3, 9)
		evidence = append(evidence, fmt.Sprintf("%d passive constructions slow the delivery", passive))
	}

	return Result{Score: clampScore(score), Evidence: evidence}
}
