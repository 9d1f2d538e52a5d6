package detect

import (
	"fmt"
	"sort"
)

// Constraints carries the creator-declared context a script is scored
// against. Unknown values degrade to a neutral profile, never an error.
type Constraints struct {
	Platform        string
	Tone            string
	HookStyle       string
	CTAStyle        string
	PacingStyle     string
	DurationSeconds int
	Topic           string
	TargetAudience  string
	Objective       string
}

// Result is a single detector's verdict. Evidence is ordered by impact,
// strongest finding first.
type Result struct {
	Score    float64
	Evidence []string
}

// Ranking is one row of a suite evaluation.
type Ranking struct {
	Key      string   `json:"detector_key"`
	Label    string   `json:"label"`
	Score    float64  `json:"score"`
	Evidence []string `json:"evidence"`
	Failed   bool     `json:"failed,omitempty"`
}

// Detector scores one independent dimension of a script. Floor is the
// score contributed when Evaluate fails; ActionThreshold is the default
// cutoff below which the rescorer suggests working on this dimension.
type Detector struct {
	Key             string
	Label           string
	Priority        int
	Floor           float64
	ActionThreshold float64
	Evaluate        func(doc Doc, c Constraints) Result
}

// Registry returns the full suite in priority order. The set is fixed at
// startup; per-platform tuning happens through the scoring policy, not by
// swapping detectors.
func Registry() []Detector {
	return []Detector{
		hookStrength(),
		retentionDesign(),
		clarity(),
		pacingFit(),
		ctaStrength(),
		shareability(),
		specificity(),
	}
}

// EvaluateAll runs every detector over one shared Doc and returns rankings
// sorted by score descending, priority ascending on ties. A detector that
// panics contributes its floor score with a failure note; the rest of the
// suite still runs.
func EvaluateAll(dets []Detector, scriptText string, c Constraints) []Ranking {
	doc := BuildDoc(scriptText)
	out := make([]Ranking, 0, len(dets))
	for _, d := range dets {
		out = append(out, evalOne(d, doc, c))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return priorityOf(dets, out[i].Key) < priorityOf(dets, out[j].Key)
	})
	return out
}

// MeanScore aggregates a suite run into the platform-quality channel score.
func MeanScore(rankings []Ranking) float64 {
	if len(rankings) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range rankings {
		sum += r.Score
	}
	return sum / float64(len(rankings))
}

// ByKey indexes rankings for threshold lookups.
func ByKey(rankings []Ranking) map[string]Ranking {
	out := make(map[string]Ranking, len(rankings))
	for _, r := range rankings {
		out[r.Key] = r
	}
	return out
}

func evalOne(d Detector, doc Doc, c Constraints) (rk Ranking) {
	rk = Ranking{Key: d.Key, Label: d.Label}
	defer func() {
		if r := recover(); r != nil {
			rk.Score = d.Floor
			rk.Evidence = []string{fmt.Sprintf("evaluation failed: %v", r)}
			rk.Failed = true
		}
	}()
	res := d.Evaluate(doc, c)
	rk.Score = clampScore(res.Score)
	rk.Evidence = res.Evidence
	return rk
}

func priorityOf(dets []Detector, key string) int {
	for _, d := range dets {
		if d.Key == key {
			return d.Priority
		}
	}
	return len(dets) + 1
}
