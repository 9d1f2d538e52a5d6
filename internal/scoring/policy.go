package scoring

import (
	"embed"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/scriptpulse-backend/internal/platform/logger"
)

const scoringPolicyEnv = "SCORING_POLICY_YAML"

//go:embed policy.yaml
var policyFS embed.FS

// ChannelWeights is one platform's weighting of the three signal channels.
// Rows always sum to 1.0.
type ChannelWeights struct {
	Platform   float64 `yaml:"platform" json:"platform"`
	Competitor float64 `yaml:"competitor" json:"competitor"`
	Historical float64 `yaml:"historical" json:"historical"`
}

// Policy is the full set of tunable scoring constants. Loaded once from
// the embedded YAML (or an override file) and never mutated; callers that
// persist scores snapshot the values they used.
type Policy struct {
	NeutralScore        float64                   `yaml:"neutral_score"`
	HighSampleThreshold int                       `yaml:"high_sample_threshold"`
	BiasTolerance       float64                   `yaml:"bias_tolerance"`
	KHigh               int                       `yaml:"k_high"`
	TrendMargin         float64                   `yaml:"trend_margin"`
	Weights             map[string]ChannelWeights `yaml:"weights"`
	ActionThresholds    map[string]float64        `yaml:"action_thresholds"`
}

func fallbackPolicy() Policy {
	return Policy{
		NeutralScore:        50,
		HighSampleThreshold: 8,
		BiasTolerance:       3.0,
		KHigh:               10,
		TrendMargin:         1.5,
		Weights: map[string]ChannelWeights{
			"default":         {Platform: 0.45, Competitor: 0.25, Historical: 0.30},
			"tiktok":          {Platform: 0.50, Competitor: 0.25, Historical: 0.25},
			"youtube_shorts":  {Platform: 0.40, Competitor: 0.30, Historical: 0.30},
			"instagram_reels": {Platform: 0.45, Competitor: 0.30, Historical: 0.25},
		},
		ActionThresholds: map[string]float64{},
	}
}

var policyOnce sync.Once
var policyCache Policy
var policyErr error

// CurrentPolicy returns the loaded policy, falling back to the in-code
// defaults when the YAML is missing or invalid.
func CurrentPolicy(log *logger.Logger) Policy {
	policyOnce.Do(func() {
		policyCache, policyErr = loadPolicy()
	})
	if policyErr != nil {
		if log != nil {
			log.Warn("scoring: policy load failed; using fallback", "error", policyErr)
		}
		return fallbackPolicy()
	}
	return policyCache
}

// WeightsFor resolves a platform's channel weights, dropping to the
// default row for platforms the policy does not know.
func (p Policy) WeightsFor(platform string) ChannelWeights {
	key := strings.ToLower(strings.TrimSpace(platform))
	if w, ok := p.Weights[key]; ok {
		return w
	}
	if w, ok := p.Weights["default"]; ok {
		return w
	}
	return fallbackPolicy().Weights["default"]
}

// ActionThresholdFor returns the policy override for a detector, or the
// detector's own default when no override exists.
func (p Policy) ActionThresholdFor(detectorKey string, detectorDefault float64) float64 {
	if v, ok := p.ActionThresholds[detectorKey]; ok {
		return v
	}
	return detectorDefault
}

func loadPolicy() (Policy, error) {
	data, err := readPolicyFile()
	if err != nil {
		return Policy{}, err
	}
	return parsePolicy(data)
}

func readPolicyFile() ([]byte, error) {
	if path := strings.TrimSpace(os.Getenv(scoringPolicyEnv)); path != "" {
		return os.ReadFile(path)
	}
	return policyFS.ReadFile("policy.yaml")
}

func parsePolicy(data []byte) (Policy, error) {
	p := fallbackPolicy()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Policy{}, err
	}
	if err := validatePolicy(&p); err != nil {
		return Policy{}, err
	}
	return p, nil
}

func validatePolicy(p *Policy) error {
	if p == nil {
		return errors.New("missing policy")
	}
	if p.NeutralScore < 0 || p.NeutralScore > 100 {
		return fmt.Errorf("neutral_score out of range: %v", p.NeutralScore)
	}
	if p.HighSampleThreshold < 1 {
		return fmt.Errorf("high_sample_threshold must be positive: %d", p.HighSampleThreshold)
	}
	if p.BiasTolerance < 0 {
		return fmt.Errorf("bias_tolerance must be non-negative: %v", p.BiasTolerance)
	}
	if p.KHigh < 1 {
		return fmt.Errorf("k_high must be positive: %d", p.KHigh)
	}
	if p.TrendMargin < 0 {
		return fmt.Errorf("trend_margin must be non-negative: %v", p.TrendMargin)
	}
	if _, ok := p.Weights["default"]; !ok {
		return errors.New("weights: default row is required")
	}
	for platform, w := range p.Weights {
		sum := w.Platform + w.Competitor + w.Historical
		if math.Abs(sum-1.0) > 0.001 {
			return fmt.Errorf("weights for %s sum to %v, want 1.0", platform, sum)
		}
		if w.Platform < 0 || w.Competitor < 0 || w.Historical < 0 {
			return fmt.Errorf("weights for %s contain a negative entry", platform)
		}
	}
	for key, v := range p.ActionThresholds {
		if v < 0 || v > 100 {
			return fmt.Errorf("action_threshold for %s out of range: %v", key, v)
		}
	}
	return nil
}
