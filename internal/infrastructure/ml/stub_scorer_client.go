package ml

import (
	"context"

	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/model"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/port"
)

// StubScorerClient always reports the scorer as unavailable. Deployments
// without an ML endpoint run heuristic-only and every assessment carries the
// degraded marker.
type StubScorerClient struct{}

// NewStubScorerClient creates a StubScorerClient.
func NewStubScorerClient() *StubScorerClient {
	return &StubScorerClient{}
}

// Score always fails with ErrMLUnavailable.
func (c *StubScorerClient) Score(_ context.Context, _ model.RiskFeatureVector) (float64, error) {
	return 0, port.ErrMLUnavailable
}
