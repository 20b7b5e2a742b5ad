package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AasthaThakker/DhanRaksha-sub001/internal/application/dto"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/event"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/model"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/port"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/service"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/valueobject"
)

// EvaluateTransaction is the use case for scoring a transaction event. A
// HIGH classification holds the transaction as pending; anything lower lets
// it complete.
type EvaluateTransaction struct {
	extractor  *service.Extractor
	aggregator *service.Aggregator
	notifier   *service.Notifier
	sessions   port.SessionStore
	history    port.HistoryRepository
	repo       port.AssessmentRepository
	publisher  port.EventPublisher
	logger     *slog.Logger
}

// NewEvaluateTransaction creates a new EvaluateTransaction use case.
func NewEvaluateTransaction(
	extractor *service.Extractor,
	aggregator *service.Aggregator,
	notifier *service.Notifier,
	sessions port.SessionStore,
	history port.HistoryRepository,
	repo port.AssessmentRepository,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *EvaluateTransaction {
	return &EvaluateTransaction{
		extractor:  extractor,
		aggregator: aggregator,
		notifier:   notifier,
		sessions:   sessions,
		history:    history,
		repo:       repo,
		publisher:  publisher,
		logger:     logger,
	}
}

// Execute scores the transaction, persists the assessment, records the score
// into the user's history and publishes assessment plus notification events.
func (uc *EvaluateTransaction) Execute(ctx context.Context, req dto.EvaluateTransactionRequest) (dto.EvaluateTransactionResponse, error) {
	now := time.Now().UTC()

	assessment, err := model.NewRiskAssessment(req.UserID, req.TransactionID, model.EventKindTransaction)
	if err != nil {
		return dto.EvaluateTransactionResponse{}, fmt.Errorf("failed to create assessment: %w", err)
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
			Kind:      model.EventKindTransaction,
			Amount:    req.Amount,
			Features:  features,
			NewDevice: newDevice,
		},
		Now: now,
	})

	uc.sessions.Put(model.SessionKey(model.SessionKeyPrefixSession, now, req.UserID.String()), fingerprint, req.UserID.String())

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
		return dto.EvaluateTransactionResponse{}, fmt.Errorf("failed to assess transaction: %w", err)
	}

	if err := uc.repo.Save(ctx, assessment); err != nil {
		return dto.EvaluateTransactionResponse{}, fmt.Errorf("failed to save assessment: %w", err)
	}

	if err := uc.history.RecordTransactionRisk(ctx, req.UserID, req.TransactionID, req.Amount, result.PrimaryScore); err != nil {
		uc.logger.Warn("failed to record transaction risk", slog.String("error", err.Error()))
	}

	status := model.TransactionStatusCompleted
	if result.Level.Equal(valueobject.RiskLevelHigh) {
		status = model.TransactionStatusPending
	}

	intent := uc.notifier.IntentFor(req.TransactionType, req.Amount, req.Description, status, result.Reasons)

	evts := assessment.ClearEvents()
	evts = append(evts, event.NewNotificationRequested(req.UserID, intent.Kind, intent.Title, intent.Message))
	if err := uc.publisher.Publish(ctx, evts...); err != nil {
		return dto.EvaluateTransactionResponse{}, fmt.Errorf("failed to publish events: %w", err)
	}

	return dto.EvaluateTransactionResponse{
		Assessment:        dto.FromModel(assessment),
		TransactionStatus: status,
	}, nil
}
