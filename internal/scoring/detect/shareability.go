package detect

import (
	"fmt"
	"math"
	"strings"
)

var (
	shareRelatableTerms = []string{
		"we've all", "everyone", "nobody tells you", "if you", "when you",
		"you're not alone", "be honest",
	}
	shareEmotionTerms = []string{
		"surprising", "insane", "wild", "unbelievable", "game-changer",
		"shocking", "crazy", "mind-blowing",
	}
	shareSendTerms = []string{
		"send this to", "tag someone", "share this with",
	}
	shareUtilityTerms = []string{
		"step", "tip", "rule", "framework", "checklist", "template",
	}
)

func shareability() Detector {
	return Detector{
		Key:             "shareability",
		Label:           "Shareability",
		Priority:        6,
		Floor:           40,
		ActionThreshold: 60,
		Evaluate:        evalShareability,
	}
}

func evalShareability(doc Doc, c Constraints) Result {
	score := 45.0
	var evidence []string

	total := doc.WordCount()
	if total == 0 {
		return Result{Score: 0, Evidence: []string{"script has no words"}}
	}

	you := 0
	for _, w := range doc.Words {
		if w == "you" || w == "your" || w == "you're" {
			you++
		}
	}
	youPer100 := float64(you) / float64(total) * 100
	if youPer100 >= 2 {
		score += math.Min(youPer100*2, 12)
		evidence = append(evidence, "keeps the viewer in the frame")
	}

	if n := countAny(doc.Raw, shareRelatableTerms); n > 0 {
		score += math.Min(float64(n)*6, 12)
		evidence = append(evidence, fmt.Sprintf("%d relatability beats", n))
	}

	if n := countAny(doc.Raw, shareUtilityTerms); n > 0 {
		score += 10
		evidence = append(evidence, "save-worthy structure (steps or tips)")
	}

	emotion := countAny(doc.Raw, shareEmotionTerms)
	switch {
	case emotion > 4:
		score -= 6
		evidence = append(evidence, "hype words stacked past the point of credibility")
	case emotion > 0:
		score += math.Min(float64(emotion)*4, 8)
		evidence = append(evidence, "emotional charge without overload")
	}

	if term, ok := containsAny(doc.Raw, shareSendTerms); ok {
		score += 8
		evidence = append(evidence, fmt.Sprintf("explicit share prompt: %q", term))
	}

	if strings.Contains(strings.ToLower(c.Objective), "share") && countAny(doc.Raw, shareSendTerms) == 0 {
		evidence = append(evidence, "objective is shares but nothing asks for one")
	}

	return Result{Score: clampScore(score), Evidence: evidence}
}
