package service

import (
	"time"

	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/model"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/valueobject"
)

// HeuristicResult is the outcome of rule-based scoring for one event.
type HeuristicResult struct {
	Score   float64
	Level   valueobject.RiskLevel
	Reasons []string
}

// HeuristicScorer maps a device fingerprint and the current time to a base
// risk score and a coarse level. Deterministic and side-effect free.
type HeuristicScorer struct {
	base       float64
	rules      []HeuristicRule
	thresholds valueobject.EventThresholds
}

// NewHeuristicScorer creates a scorer over the given rule registry.
func NewHeuristicScorer(base float64, rules []HeuristicRule, thresholds valueobject.EventThresholds) *HeuristicScorer {
	return &HeuristicScorer{
		base:       base,
		rules:      rules,
		thresholds: thresholds,
	}
}

// Score evaluates every registered rule in order. Each fired rule adds its
// penalty and contributes exactly one reason; the total is clamped to
// [0,100] before banding.
func (s *HeuristicScorer) Score(fp model.DeviceFingerprint, now time.Time) HeuristicResult {
	score := s.base
	reasons := make([]string, 0, len(s.rules))

	for _, rule := range s.rules {
		res := rule.Evaluate(fp, now)
		if res == nil {
			continue
		}
		score += res.Penalty
		reasons = append(reasons, res.Reason)
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return HeuristicResult{
		Score:   score,
		Level:   valueobject.RiskLevelFromEventScore(score, s.thresholds),
		Reasons: reasons,
	}
}
