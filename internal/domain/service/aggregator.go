package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/model"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/port"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/valueobject"
)

// MLDegradedReason is stamped into an assessment's reasons whenever the
// external scorer could not contribute.
const MLDegradedReason = "ML-degraded"

// AggregatorConfig holds the tunables of the risk aggregator.
type AggregatorConfig struct {
	EventThresholds     valueobject.EventThresholds
	AggregateThresholds valueobject.AggregateThresholds
	AvgWeight           float64
	MaxWeight           float64
	OverrideThreshold   float64
	MLTimeout           time.Duration
}

// DefaultAggregatorConfig returns the documented defaults: 0.7/0.3 weights,
// override at 70, 2s ML timeout.
func DefaultAggregatorConfig() AggregatorConfig {
	return AggregatorConfig{
		EventThresholds:     valueobject.DefaultEventThresholds(),
		AggregateThresholds: valueobject.DefaultAggregateThresholds(),
		AvgWeight:           0.7,
		MaxWeight:           0.3,
		OverrideThreshold:   70,
		MLTimeout:           2 * time.Second,
	}
}

// Aggregator merges the heuristic score, the external ML score and the
// user's historical risk figures into one actionable classification.
type Aggregator struct {
	heuristic    *HeuristicScorer
	ml           port.MLScorerClient
	contextRules []ContextRule
	cfg          AggregatorConfig
	logger       *slog.Logger
}

// NewAggregator creates an Aggregator.
func NewAggregator(
	heuristic *HeuristicScorer,
	ml port.MLScorerClient,
	contextRules []ContextRule,
	cfg AggregatorConfig,
	logger *slog.Logger,
) *Aggregator {
	return &Aggregator{
		heuristic:    heuristic,
		ml:           ml,
		contextRules: contextRules,
		cfg:          cfg,
		logger:       logger,
	}
}

// EventInput is one risk-bearing event to classify in real time.
type EventInput struct {
	Fingerprint model.DeviceFingerprint
	Context     EventContext
	Now         time.Time
}

// EventResult is the real-time classification of a single event.
type EventResult struct {
	HeuristicScore float64
	MLScore        *float64
	PrimaryScore   float64
	Level          valueobject.RiskLevel
	Reasons        []string
	MLDegraded     bool
}

type mlOutcome struct {
	score float64
	err   error
}

// EvaluateEvent classifies one login or transaction event. The ML call runs
// concurrently with heuristic scoring and is joined before the result is
// emitted; when it fails the assessment proceeds heuristic-only and is
// stamped ML-degraded. The higher of the two component scores drives the
// band so a single high-confidence signal is never diluted by a weaker one.
func (a *Aggregator) EvaluateEvent(ctx context.Context, in EventInput) EventResult {
	mlCh := make(chan mlOutcome, 1)
	go func() {
		mlCtx, cancel := context.WithTimeout(ctx, a.cfg.MLTimeout)
		defer cancel()
		score, err := a.ml.Score(mlCtx, in.Context.Features)
		mlCh <- mlOutcome{score: score, err: err}
	}()

	heuristic := a.heuristic.Score(in.Fingerprint, in.Now)

	reasons := append([]string(nil), heuristic.Reasons...)
	for _, rule := range a.contextRules {
		if reason, fired := rule.Evaluate(in.Context); fired {
			reasons = append(reasons, reason)
		}
	}

	result := EventResult{
		HeuristicScore: heuristic.Score,
		PrimaryScore:   heuristic.Score,
	}

	ml := <-mlCh
	if ml.err != nil {
		a.logger.Warn("ML scoring failed, continuing heuristic-only",
			slog.String("error", ml.err.Error()),
		)
		result.MLDegraded = true
		reasons = append(reasons, MLDegradedReason)
	} else {
		score := clamp(ml.score)
		result.MLScore = &score
		if score > result.PrimaryScore {
			result.PrimaryScore = score
		}
	}

	result.Level = valueobject.RiskLevelFromEventScore(result.PrimaryScore, a.cfg.EventThresholds)
	result.Reasons = reasons
	return result
}

// UserClassification is the user-level aggregate risk view.
type UserClassification struct {
	WeightedRisk float64
	Level        valueobject.RiskLevel
	Override     bool
}

// ClassifyUser bands a user's historical risk figures. The single-outlier
// override runs before weighted banding: a max at or above the override
// threshold forces HIGH regardless of the weighted figure, which is still
// computed and reported unchanged.
func (a *Aggregator) ClassifyUser(stats port.RiskStats) UserClassification {
	weighted := a.cfg.AvgWeight*stats.Avg + a.cfg.MaxWeight*stats.Max

	if stats.Max >= a.cfg.OverrideThreshold {
		return UserClassification{
			WeightedRisk: weighted,
			Level:        valueobject.RiskLevelHigh,
			Override:     true,
		}
	}

	return UserClassification{
		WeightedRisk: weighted,
		Level:        valueobject.RiskLevelFromWeighted(weighted, a.cfg.AggregateThresholds),
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
