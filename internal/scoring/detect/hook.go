package detect

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	hookDigitRe         = regexp.MustCompile(`\d`)
	hookInterrogativeRe = regexp.MustCompile(`(?i)^(what|why|how|who|which|when|where|did you|do you|have you|ever wonder)`)

	hookPowerTerms = []string{
		"nobody", "stop", "secret", "mistake", "never", "always",
		"truth", "wrong", "before you", "don't", "warning", "steal",
	}
	hookCuriosityTerms = []string{
		"here's", "this is why", "what happened", "until", "the real reason",
	}
	hookWeakOpeners = []string{
		"hi ", "hello", "hey guys", "hey everyone", "welcome back",
		"in this video", "in today's video", "today i", "today we",
	}
)

func hookStrength() Detector {
	return Detector{
		Key:             "hook_strength",
		Label:           "Hook strength",
		Priority:        1,
		Floor:           30,
		ActionThreshold: 70,
		Evaluate:        evalHook,
	}
}

func evalHook(doc Doc, c Constraints) Result {
	first, ok := doc.FirstLine()
	if !ok {
		return Result{Score: 0, Evidence: []string{"script has no lines"}}
	}

	score := 50.0
	var evidence []string
	hook := first.Text
	hookLower := strings.ToLower(hook)
	words := lineWords(hook)

	if opener, bad := containsAny(hookLower, hookWeakOpeners); bad && strings.Index(hookLower, opener) < 12 {
		score -= 20
		evidence = append(evidence, fmt.Sprintf("generic opener %q buries the hook", strings.TrimSpace(opener)))
	}

	switch n := len(words); {
	case n >= 4 && n <= 14:
		score += 10
		evidence = append(evidence, "hook lands in one breath")
	case n > 20:
		score -= 10
		evidence = append(evidence, fmt.Sprintf("hook runs long (%d words)", n))
	}

	if strings.Contains(hook, "?") || hookInterrogativeRe.MatchString(hook) {
		score += 8
		evidence = append(evidence, "opens with a question")
	}
	if hookDigitRe.MatchString(hook) {
		score += 8
		evidence = append(evidence, "concrete number in the first line")
	}

	if term, ok := containsAny(hookLower, hookPowerTerms); ok {
		score += 8
		evidence = append(evidence, fmt.Sprintf("tension word %q up front", term))
	}
	if term, ok := containsAny(hookLower, hookCuriosityTerms); ok {
		score += 6
		evidence = append(evidence, fmt.Sprintf("curiosity gap via %q", term))
	}
	if strings.Contains(hookLower, "you") {
		score += 5
		evidence = append(evidence, "speaks directly to the viewer")
	}

	if mismatch := hookStyleMismatch(c.HookStyle, hook); mismatch != "" {
		score -= 5
		evidence = append(evidence, mismatch)
	}

	return Result{Score: clampScore(score), Evidence: evidence}
}

// hookStyleMismatch flags the declared hook style only when the first line
// clearly does something else. Unknown styles are left alone.
func hookStyleMismatch(style, hook string) string {
	switch strings.ToLower(strings.TrimSpace(style)) {
	case "question":
		if !strings.Contains(hook, "?") && !hookInterrogativeRe.MatchString(hook) {
			return "declared question hook, but the first line never asks one"
		}
	case "bold_claim":
		if strings.Contains(hook, "?") {
			return "declared bold-claim hook, but the first line asks instead of claims"
		}
	case "stat_lead":
		if !hookDigitRe.MatchString(hook) {
			return "declared stat-lead hook, but the first line carries no number"
		}
	}
	return ""
}
