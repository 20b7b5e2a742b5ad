package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/AasthaThakker/DhanRaksha-sub001/internal/application/dto"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/model"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/port"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/service"
)

// recentSessionWindow bounds how many prior session records are inspected
// when deciding whether a device is new for the user.
const recentSessionWindow = 20

// EvaluateLogin is the use case for scoring a login event.
type EvaluateLogin struct {
	extractor  *service.Extractor
	aggregator *service.Aggregator
	sessions   port.SessionStore
	history    port.HistoryRepository
	repo       port.AssessmentRepository
	publisher  port.EventPublisher
	logger     *slog.Logger
}

// NewEvaluateLogin creates a new EvaluateLogin use case.
func NewEvaluateLogin(
	extractor *service.Extractor,
	aggregator *service.Aggregator,
	sessions port.SessionStore,
	history port.HistoryRepository,
	repo port.AssessmentRepository,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *EvaluateLogin {
	return &EvaluateLogin{
		extractor:  extractor,
		aggregator: aggregator,
		sessions:   sessions,
		history:    history,
		repo:       repo,
		publisher:  publisher,
		logger:     logger,
	}
}

// Execute fingerprints the login, scores it, persists the assessment and
// publishes the resulting events.
func (uc *EvaluateLogin) Execute(ctx context.Context, req dto.EvaluateLoginRequest) (dto.AssessmentResponse, error) {
	now := time.Now().UTC()

	assessment, err := model.NewRiskAssessment(req.UserID, uuid.Nil, model.EventKindLogin)
	if err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("failed to create assessment: %w", err)
	}

	fingerprint := uc.extractor.Extract(model.RequestMeta{
		Headers:    req.Headers,
		RemoteAddr: req.RemoteAddr,
		SessionID:  req.SessionID,
	}, now)

	newDevice := isNewDevice(uc.sessions, req.UserID.String(), fingerprint)
	features := buildFeatures(ctx, uc.history, uc.logger, req.UserID, now)

	result := uc.aggregator.EvaluateEvent(ctx, service.EventInput{
		Fingerprint: fingerprint,
		Context: service.EventContext{
			Kind:      model.EventKindLogin,
			Features:  features,
			NewDevice: newDevice,
		},
		Now: now,
	})

	// Record the session after evaluation so the current login never
	// matches itself in the new-device check.
	uc.sessions.Put(model.SessionKey(model.SessionKeyPrefixLogin, now, req.UserID.String()), fingerprint, req.UserID.String())
	if err := uc.history.RecordSessionEvent(ctx, req.UserID, fingerprint.DeviceType.String(), fingerprint.NetworkOrigin); err != nil {
		uc.logger.Warn("failed to record session event", slog.String("error", err.Error()))
	}

	stats, err := uc.history.TransactionRiskStats(ctx, req.UserID)
	if err != nil {
		uc.logger.Warn("failed to load risk stats", slog.String("error", err.Error()))
		stats = port.RiskStats{}
	}
	classification := uc.aggregator.ClassifyUser(stats)

	if err := assessment.Assess(model.AssessmentOutcome{
		HeuristicScore: result.HeuristicScore,
		MLScore:        result.MLScore,
		HistoricalAvg:  stats.Avg,
		HistoricalMax:  stats.Max,
		WeightedRisk:   classification.WeightedRisk,
		Level:          result.Level,
		Reasons:        result.Reasons,
		MLDegraded:     result.MLDegraded,
	}); err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("failed to assess login: %w", err)
	}

	if err := uc.repo.Save(ctx, assessment); err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("failed to save assessment: %w", err)
	}

	if evts := assessment.ClearEvents(); len(evts) > 0 {
		if err := uc.publisher.Publish(ctx, evts...); err != nil {
			return dto.AssessmentResponse{}, fmt.Errorf("failed to publish events: %w", err)
		}
	}

	return dto.FromModel(assessment), nil
}

// isNewDevice reports whether the fingerprint's device class and network
// origin have not been seen in the user's recent sessions. A user with no
// history is treated as being on a new device.
func isNewDevice(sessions port.SessionStore, userID string, fp model.DeviceFingerprint) bool {
	for _, rec := range sessions.RecentForUser(userID, recentSessionWindow) {
		if rec.Fingerprint.DeviceType.Equal(fp.DeviceType) && rec.Fingerprint.NetworkOrigin == fp.NetworkOrigin {
			return false
		}
	}
	return true
}

// buildFeatures assembles the ML feature vector from the user's behavioral
// baseline. Baseline lookup failures degrade to a zero baseline rather than
// failing the evaluation.
func buildFeatures(ctx context.Context, history port.HistoryRepository, logger *slog.Logger, userID uuid.UUID, now time.Time) model.RiskFeatureVector {
	baseline, err := history.BehaviorBaseline(ctx, userID)
	if err != nil {
		logger.Warn("failed to load behavior baseline", slog.String("error", err.Error()))
		baseline = port.BehaviorBaseline{}
	}

	return model.RiskFeatureVector{
		AvgAmount7d:      baseline.AvgAmount7d,
		TxVelocity1h:     baseline.TxVelocity1h,
		DeviceChangeFreq: baseline.DeviceChangeFreq,
		CurrentHour:      float64(now.Hour()),
		UsualHourMean:    baseline.UsualHourMean,
	}
}
