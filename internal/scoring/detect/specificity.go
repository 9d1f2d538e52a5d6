package detect

import (
	"fmt"
	"math"
	"regexp"
)

var (
	specNumberRe    = regexp.MustCompile(`\d+(\.\d+)?%?|\$\d+`)
	specTimeframeRe = regexp.MustCompile(`(?i)\b(in \d+ (days?|weeks?|months?|minutes?|hours?)|per (day|week|month)|every (day|week|morning|night))\b`)

	specVagueTerms = []string{
		"a lot", "some ", "many ", "tons of", "a bunch", "stuff", "things",
		"somehow", "pretty much", "a while",
	}
)

func specificity() Detector {
	return Detector{
		Key:             "specificity",
		Label:           "Specificity",
		Priority:        7,
		Floor:           40,
		ActionThreshold: 60,
		Evaluate:        evalSpecificity,
	}
}

func evalSpecificity(doc Doc, c Constraints) Result {
	score := 50.0
	var evidence []string

	total := doc.WordCount()
	if total == 0 {
		return Result{Score: 0, Evidence: []string{"script has no words"}}
	}

	numbers := len(specNumberRe.FindAllString(doc.Raw, -1))
	if numbers > 0 {
		score += math.Min(float64(numbers)*5, 20)
		evidence = append(evidence, fmt.Sprintf("%d concrete figures ground the claims", numbers))
	} else {
		evidence = append(evidence, "no numbers anywhere; claims float")
	}

	if specTimeframeRe.MatchString(doc.Raw) {
		score += 6
		evidence = append(evidence, "timeframe makes the promise checkable")
	}

	vague := 0
	vagueLine := 0
	for _, ln := range doc.Lines {
		if n := countAny(ln.Text, specVagueTerms); n > 0 {
			vague += n
			if vagueLine == 0 {
				vagueLine = ln.Number
			}
		}
	}
	if vague > 0 {
		score -= math.Min(float64(vague)*4, 16)
		evidence = append(evidence, fmt.Sprintf("%d vague quantifiers (first at line %d)", vague, vagueLine))
	}

	return Result{Score: clampScore(score), Evidence: evidence}
}
