package usecase

import (
	"context"
	"fmt"

	"github.com/AasthaThakker/DhanRaksha-sub001/internal/application/dto"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/port"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/service"
)

const defaultProfileLimit = 20

// GetUserRisk is the use case for the user-level aggregate risk profile.
type GetUserRisk struct {
	aggregator *service.Aggregator
	history    port.HistoryRepository
	repo       port.AssessmentRepository
}

// NewGetUserRisk creates a new GetUserRisk use case.
func NewGetUserRisk(
	aggregator *service.Aggregator,
	history port.HistoryRepository,
	repo port.AssessmentRepository,
) *GetUserRisk {
	return &GetUserRisk{
		aggregator: aggregator,
		history:    history,
		repo:       repo,
	}
}

// Execute computes the user's weighted risk classification over their
// recent history and attaches their latest assessments.
func (uc *GetUserRisk) Execute(ctx context.Context, req dto.GetUserRiskRequest) (dto.UserRiskResponse, error) {
	stats, err := uc.history.TransactionRiskStats(ctx, req.UserID)
	if err != nil {
		return dto.UserRiskResponse{}, fmt.Errorf("failed to load risk stats: %w", err)
	}

	classification := uc.aggregator.ClassifyUser(stats)

	limit := req.Limit
	if limit <= 0 {
		limit = defaultProfileLimit
	}

	assessments, err := uc.repo.FindByUserID(ctx, req.UserID, limit, req.Offset)
	if err != nil {
		return dto.UserRiskResponse{}, fmt.Errorf("failed to load assessments: %w", err)
	}

	recent := make([]dto.AssessmentResponse, 0, len(assessments))
	for _, a := range assessments {
		recent = append(recent, dto.FromModel(a))
	}

	return dto.UserRiskResponse{
		UserID:            req.UserID,
		WeightedRisk:      classification.WeightedRisk,
		RiskLevel:         classification.Level.String(),
		Override:          classification.Override,
		HistoricalAvg:     stats.Avg,
		HistoricalMax:     stats.Max,
		SampleCount:       stats.Count,
		RecentAssessments: recent,
	}, nil
}
