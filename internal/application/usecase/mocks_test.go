package usecase_test

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/model"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/port"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/service"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/valueobject"
	"github.com/AasthaThakker/DhanRaksha-sub001/pkg/events"
)

// --- Mock implementations ---

type mockAssessmentRepository struct {
	savedAssessment *model.RiskAssessment
	saveFunc        func(ctx context.Context, assessment *model.RiskAssessment) error
	byUser          []*model.RiskAssessment
}

func (m *mockAssessmentRepository) Save(ctx context.Context, assessment *model.RiskAssessment) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, assessment)
	}
	m.savedAssessment = assessment
	return nil
}

func (m *mockAssessmentRepository) FindByTransactionID(_ context.Context, _ uuid.UUID) (*model.RiskAssessment, error) {
	return m.savedAssessment, nil
}

func (m *mockAssessmentRepository) FindByUserID(_ context.Context, _ uuid.UUID, _, _ int) ([]*model.RiskAssessment, error) {
	return m.byUser, nil
}

type mockHistoryRepository struct {
	stats    port.RiskStats
	statsErr error
	baseline port.BehaviorBaseline

	recordedScores  []float64
	recordedAmounts []decimal.Decimal
	sessionEvents   int
}

func (m *mockHistoryRepository) TransactionRiskStats(_ context.Context, _ uuid.UUID) (port.RiskStats, error) {
	return m.stats, m.statsErr
}

func (m *mockHistoryRepository) BehaviorBaseline(_ context.Context, _ uuid.UUID) (port.BehaviorBaseline, error) {
	return m.baseline, nil
}

func (m *mockHistoryRepository) RecordTransactionRisk(_ context.Context, _, _ uuid.UUID, amount decimal.Decimal, score float64) error {
	m.recordedAmounts = append(m.recordedAmounts, amount)
	m.recordedScores = append(m.recordedScores, score)
	return nil
}

func (m *mockHistoryRepository) RecordSessionEvent(_ context.Context, _ uuid.UUID, _, _ string) error {
	m.sessionEvents++
	return nil
}

type mockEventPublisher struct {
	mu          sync.Mutex
	published   []events.DomainEvent
	publishFunc func(ctx context.Context, evts ...events.DomainEvent) error
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, evts...)
	return nil
}

type mockSessionStore struct {
	records []model.SessionRecord
}

func (m *mockSessionStore) Put(key string, fingerprint model.DeviceFingerprint, userID string) {
	m.records = append(m.records, model.SessionRecord{Key: key, UserID: userID, Fingerprint: fingerprint})
}

func (m *mockSessionStore) RecentForUser(userID string, limit int) []model.SessionRecord {
	out := make([]model.SessionRecord, 0, limit)
	for i := len(m.records) - 1; i >= 0 && len(out) < limit; i-- {
		if m.records[i].UserID == userID {
			out = append(out, m.records[i])
		}
	}
	return out
}

type mockMLClient struct {
	score float64
	err   error
}

func (m *mockMLClient) Score(_ context.Context, _ model.RiskFeatureVector) (float64, error) {
	return m.score, m.err
}

// --- Shared wiring ---

func newTestAggregator(ml port.MLScorerClient) *service.Aggregator {
	cfg := service.DefaultHeuristicConfig()
	scorer := service.NewHeuristicScorer(cfg.BaseScore, service.DefaultHeuristicRules(cfg), valueobject.DefaultEventThresholds())
	return service.NewAggregator(scorer, ml, service.DefaultContextRules(), service.DefaultAggregatorConfig(), slog.Default())
}
