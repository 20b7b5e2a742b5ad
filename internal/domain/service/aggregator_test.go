package service_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/model"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/port"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/service"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/valueobject"
)

type mockMLClient struct {
	score float64
	err   error
	delay time.Duration
}

func (m *mockMLClient) Score(ctx context.Context, _ model.RiskFeatureVector) (float64, error) {
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	return m.score, m.err
}

func newAggregator(ml port.MLScorerClient) *service.Aggregator {
	cfg := service.DefaultHeuristicConfig()
	scorer := service.NewHeuristicScorer(cfg.BaseScore, service.DefaultHeuristicRules(cfg), valueobject.DefaultEventThresholds())
	return service.NewAggregator(scorer, ml, service.DefaultContextRules(), service.DefaultAggregatorConfig(), slog.Default())
}

func TestAggregator_EvaluateEvent(t *testing.T) {
	daytime := time.Date(2026, 3, 14, 14, 0, 0, 0, time.UTC)
	desktop := fingerprintFor(t, "Mozilla/5.0 (Windows NT 10.0; Win64; x64)")

	t.Run("ML score above heuristic drives the band", func(t *testing.T) {
		agg := newAggregator(&mockMLClient{score: 90})

		res := agg.EvaluateEvent(context.Background(), service.EventInput{
			Fingerprint: desktop,
			Context:     service.EventContext{Kind: model.EventKindLogin},
			Now:         daytime,
		})

		assert.Equal(t, 50.0, res.HeuristicScore)
		assert.NotNil(t, res.MLScore)
		assert.Equal(t, 90.0, *res.MLScore)
		assert.Equal(t, 90.0, res.PrimaryScore)
		assert.Equal(t, valueobject.RiskLevelHigh, res.Level)
		assert.False(t, res.MLDegraded)
	})

	t.Run("heuristic wins when ML score is lower", func(t *testing.T) {
		agg := newAggregator(&mockMLClient{score: 10})

		night := time.Date(2026, 3, 14, 3, 0, 0, 0, time.UTC)
		res := agg.EvaluateEvent(context.Background(), service.EventInput{
			Fingerprint: desktop,
			Context:     service.EventContext{Kind: model.EventKindLogin},
			Now:         night,
		})

		assert.Equal(t, 70.0, res.PrimaryScore)
		assert.Equal(t, valueobject.RiskLevelMedium, res.Level)
	})

	t.Run("ML failure degrades gracefully", func(t *testing.T) {
		agg := newAggregator(&mockMLClient{err: port.ErrMLUnavailable})

		res := agg.EvaluateEvent(context.Background(), service.EventInput{
			Fingerprint: desktop,
			Context:     service.EventContext{Kind: model.EventKindLogin},
			Now:         daytime,
		})

		assert.True(t, res.MLDegraded)
		assert.Nil(t, res.MLScore)
		assert.Equal(t, 50.0, res.PrimaryScore)
		assert.Contains(t, res.Reasons, "ML-degraded")
	})

	t.Run("ML timeout degrades gracefully", func(t *testing.T) {
		agg := service.NewAggregator(
			service.NewHeuristicScorer(50, nil, valueobject.DefaultEventThresholds()),
			&mockMLClient{score: 95, delay: 200 * time.Millisecond},
			nil,
			service.AggregatorConfig{
				EventThresholds:     valueobject.DefaultEventThresholds(),
				AggregateThresholds: valueobject.DefaultAggregateThresholds(),
				AvgWeight:           0.7,
				MaxWeight:           0.3,
				OverrideThreshold:   70,
				MLTimeout:           10 * time.Millisecond,
			},
			slog.Default(),
		)

		res := agg.EvaluateEvent(context.Background(), service.EventInput{
			Fingerprint: desktop,
			Now:         daytime,
		})

		assert.True(t, res.MLDegraded)
		assert.Equal(t, []string{"ML-degraded"}, res.Reasons)
	})

	t.Run("context rule reasons follow heuristic reasons in order", func(t *testing.T) {
		agg := newAggregator(&mockMLClient{score: 40})

		night := time.Date(2026, 3, 14, 2, 0, 0, 0, time.UTC)
		res := agg.EvaluateEvent(context.Background(), service.EventInput{
			Fingerprint: desktop,
			Context: service.EventContext{
				Kind:      model.EventKindTransaction,
				Amount:    decimal.NewFromInt(50000),
				Features:  model.RiskFeatureVector{AvgAmount7d: 1000, TxVelocity1h: 8},
				NewDevice: true,
			},
			Now: night,
		})

		assert.Equal(t, []string{
			"Login outside usual hours",
			"Amount > 3x daily average",
			"New device + high amount",
			"High transaction velocity",
		}, res.Reasons)
	})

	t.Run("out-of-range ML score is clamped", func(t *testing.T) {
		agg := newAggregator(&mockMLClient{score: 180})

		res := agg.EvaluateEvent(context.Background(), service.EventInput{
			Fingerprint: desktop,
			Now:         daytime,
		})

		assert.Equal(t, 100.0, *res.MLScore)
		assert.Equal(t, 100.0, res.PrimaryScore)
	})

	t.Run("errors carry the sentinel", func(t *testing.T) {
		err := errors.New("dial tcp: connection refused")
		agg := newAggregator(&mockMLClient{err: err})

		res := agg.EvaluateEvent(context.Background(), service.EventInput{
			Fingerprint: desktop,
			Now:         daytime,
		})

		assert.True(t, res.MLDegraded)
	})
}

func TestAggregator_ClassifyUser(t *testing.T) {
	agg := newAggregator(&mockMLClient{})

	t.Run("single high-risk event overrides the weighted band", func(t *testing.T) {
		c := agg.ClassifyUser(port.RiskStats{Avg: 25, Max: 85, Count: 10})

		assert.Equal(t, valueobject.RiskLevelHigh, c.Level)
		assert.True(t, c.Override)
		assert.InDelta(t, 43.0, c.WeightedRisk, 0.0001)
	})

	t.Run("weighted banding without an outlier", func(t *testing.T) {
		c := agg.ClassifyUser(port.RiskStats{Avg: 50, Max: 50, Count: 4})

		assert.InDelta(t, 50.0, c.WeightedRisk, 0.0001)
		assert.Equal(t, valueobject.RiskLevelMedium, c.Level)
		assert.False(t, c.Override)
	})

	t.Run("weighted at the high boundary is inclusive", func(t *testing.T) {
		c := agg.ClassifyUser(port.RiskStats{Avg: 100, Max: 0, Count: 4})

		assert.InDelta(t, 70.0, c.WeightedRisk, 0.0001)
		assert.Equal(t, valueobject.RiskLevelHigh, c.Level)
		assert.False(t, c.Override)
	})

	t.Run("all-clear history stays low", func(t *testing.T) {
		c := agg.ClassifyUser(port.RiskStats{Avg: 20, Max: 35, Count: 6})

		assert.InDelta(t, 24.5, c.WeightedRisk, 0.0001)
		assert.Equal(t, valueobject.RiskLevelLow, c.Level)
	})

	t.Run("max exactly at the override threshold triggers it", func(t *testing.T) {
		c := agg.ClassifyUser(port.RiskStats{Avg: 10, Max: 70, Count: 3})

		assert.Equal(t, valueobject.RiskLevelHigh, c.Level)
		assert.True(t, c.Override)
	})
}
