package scripts

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/scriptpulse-backend/internal/platform/apierr"
	"github.com/yungbote/scriptpulse-backend/internal/scoring"
	"github.com/yungbote/scriptpulse-backend/internal/scoring/detect"
)

type RescoreInput struct {
	UserID          uuid.UUID
	Platform        string
	ScriptText      string
	DurationSeconds int
	Tone            string
	HookStyle       string
	CTAStyle        string
	PacingStyle     string

	// BaselineScore, when present, yields delta_from_baseline. Nil means
	// no baseline, which is not the same as a baseline of zero.
	BaselineScore *float64
}

// NextAction is one ranked recommendation. The full list is returned; the
// UI surfaces the top three by convention.
type NextAction struct {
	DetectorKey string `json:"detector_key"`
	Title       string `json:"title"`
	Why         string `json:"why"`
}

// LineEdit points at one 1-based line with a concrete replacement. Emitted
// only when the detector can name its target line with confidence.
type LineEdit struct {
	DetectorKey   string `json:"detector_key"`
	DetectorLabel string `json:"detector_label"`
	LineNumber    int    `json:"line_number"`
	SuggestedLine string `json:"suggested_line"`
}

type RescoreOutput struct {
	ScoreBreakdown   scoring.ScoreBreakdown `json:"score_breakdown"`
	DetectorRankings []detect.Ranking       `json:"detector_rankings"`
	NextActions      []NextAction           `json:"next_actions"`
	LineLevelEdits   []LineEdit             `json:"line_level_edits"`
}

func (u Usecases) Rescore(ctx context.Context, in RescoreInput) (RescoreOutput, error) {
	if in.UserID == uuid.Nil {
		return RescoreOutput{}, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	text := strings.TrimSpace(in.ScriptText)
	if text == "" {
		return RescoreOutput{}, apierr.New(http.StatusBadRequest, "empty_script_text", nil)
	}
	if in.DurationSeconds < 0 {
		return RescoreOutput{}, apierr.New(http.StatusBadRequest, "invalid_duration", fmt.Errorf("duration_seconds must be non-negative"))
	}
	if in.BaselineScore != nil && (math.IsNaN(*in.BaselineScore) || math.IsInf(*in.BaselineScore, 0)) {
		return RescoreOutput{}, apierr.New(http.StatusBadRequest, "invalid_baseline", fmt.Errorf("baseline_score must be finite"))
	}
	duration := in.DurationSeconds
	if duration == 0 {
		duration = 30
	}

	constraints := detect.Constraints{
		Platform:        strings.ToLower(strings.TrimSpace(in.Platform)),
		Tone:            in.Tone,
		HookStyle:       in.HookStyle,
		CTAStyle:        in.CTAStyle,
		PacingStyle:     in.PacingStyle,
		DurationSeconds: duration,
	}

	chctx := u.channelContext(ctx, in.UserID, constraints.Platform, duration)
	scored := u.scoreText(in.ScriptText, constraints, chctx, in.BaselineScore)

	return RescoreOutput{
		ScoreBreakdown:   scored.Breakdown,
		DetectorRankings: scored.Rankings,
		NextActions:      u.nextActions(scored.Rankings),
		LineLevelEdits:   lineEdits(in.ScriptText, scored.Rankings, u.deps.Policy),
	}, nil
}

type actionCopy struct {
	Title string
	Why   string
}

func actionCopyFor(key string) actionCopy {
	switch key {
	case "hook_strength":
		return actionCopy{"Sharpen the opening hook", "the first line decides whether anyone sees the rest"}
	case "retention_design":
		return actionCopy{"Add a mid-script re-hook", "attention dips without an open loop or pattern break in the middle"}
	case "clarity":
		return actionCopy{"Cut filler and shorten sentences", "spoken scripts lose viewers on every word that earns nothing"}
	case "pacing_fit":
		return actionCopy{"Match the word count to the runtime", "the script's spoken pace sits outside the comfortable band for its duration"}
	case "cta_strength":
		return actionCopy{"Close with one clear ask", "a close without a single specific ask leaves engagement on the table"}
	case "shareability":
		return actionCopy{"Give viewers a reason to send it", "nothing here is framed for tagging, saving, or sending to a friend"}
	case "specificity":
		return actionCopy{"Replace vague claims with numbers", "concrete figures are what make a claim feel earned"}
	default:
		return actionCopy{"Improve " + key, "this dimension scores below its target"}
	}
}

// nextActions emits one recommendation per detector under its action
// threshold, ranked by threshold gap descending, detector priority on ties.
func (u Usecases) nextActions(rankings []detect.Ranking) []NextAction {
	type gapped struct {
		action   NextAction
		gap      float64
		priority int
	}
	var out []gapped
	byKey := detect.ByKey(rankings)
	for _, d := range detect.Registry() {
		rk, ok := byKey[d.Key]
		if !ok {
			continue
		}
		threshold := u.deps.Policy.ActionThresholdFor(d.Key, d.ActionThreshold)
		if rk.Score >= threshold {
			continue
		}
		cp := actionCopyFor(d.Key)
		why := cp.Why
		if len(rk.Evidence) > 0 {
			why = rk.Evidence[0]
		}
		out = append(out, gapped{
			action:   NextAction{DetectorKey: d.Key, Title: cp.Title, Why: why},
			gap:      threshold - rk.Score,
			priority: d.Priority,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].gap != out[j].gap {
			return out[i].gap > out[j].gap
		}
		return out[i].priority < out[j].priority
	})
	actions := make([]NextAction, 0, len(out))
	for _, g := range out {
		actions = append(actions, g.action)
	}
	return actions
}

// lineEdits targets one line per under-threshold detector that has a
// structural anchor: hook at the first line, CTA at the last, clarity at
// the heaviest filler line, pacing at the longest line, specificity at the
// first vague line. Detectors with no confident target emit nothing.
func lineEdits(scriptText string, rankings []detect.Ranking, policy scoring.Policy) []LineEdit {
	doc := detect.BuildDoc(scriptText)
	byKey := detect.ByKey(rankings)
	var edits []LineEdit

	below := func(d detect.Detector) bool {
		rk, ok := byKey[d.Key]
		if !ok {
			return false
		}
		return rk.Score < policy.ActionThresholdFor(d.Key, d.ActionThreshold)
	}

	for _, d := range detect.Registry() {
		if !below(d) {
			continue
		}
		switch d.Key {
		case "hook_strength":
			if first, ok := doc.FirstLine(); ok {
				edits = append(edits, LineEdit{
					DetectorKey:   d.Key,
					DetectorLabel: d.Label,
					LineNumber:    first.Number,
					SuggestedLine: suggestHook(first.Text),
				})
			}
		case "cta_strength":
			if last, ok := doc.LastLine(); ok && !detect.HasClosingCTA(doc) {
				edits = append(edits, LineEdit{
					DetectorKey:   d.Key,
					DetectorLabel: d.Label,
					LineNumber:    last.Number,
					SuggestedLine: last.Text + " Save this and send it to someone who needs it.",
				})
			}
		case "clarity":
			if ln, ok := detect.FillerLine(doc); ok {
				edits = append(edits, LineEdit{
					DetectorKey:   d.Key,
					DetectorLabel: d.Label,
					LineNumber:    ln.Number,
					SuggestedLine: detect.StripFillers(ln.Text),
				})
			}
		case "pacing_fit":
			if ln, ok := detect.LongestLine(doc); ok {
				edits = append(edits, LineEdit{
					DetectorKey:   d.Key,
					DetectorLabel: d.Label,
					LineNumber:    ln.Number,
					SuggestedLine: firstSentenceOf(ln.Text),
				})
			}
		case "specificity":
			if ln, ok := detect.VagueLine(doc); ok {
				edits = append(edits, LineEdit{
					DetectorKey:   d.Key,
					DetectorLabel: d.Label,
					LineNumber:    ln.Number,
					SuggestedLine: ln.Text + " Put an exact number on that.",
				})
			}
		}
	}

	sort.SliceStable(edits, func(i, j int) bool {
		return edits[i].LineNumber < edits[j].LineNumber
	})
	return edits
}

func suggestHook(current string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(current), ".!?")
	if trimmed == "" {
		return "Here's the mistake almost everyone makes."
	}
	return fmt.Sprintf("What nobody tells you: %s.", lowerFirst(trimmed))
}

func firstSentenceOf(text string) string {
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			return strings.TrimSpace(text[:i+1])
		}
	}
	words := strings.Fields(text)
	if len(words) > 12 {
		return strings.Join(words[:12], " ") + "."
	}
	return text
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
