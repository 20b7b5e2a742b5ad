package port

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/model"
	"github.com/AasthaThakker/DhanRaksha-sub001/pkg/events"
)

// ErrMLUnavailable marks a scorer failure caused by the network, a timeout
// or a non-success HTTP status. Fail-open: callers proceed heuristic-only.
var ErrMLUnavailable = errors.New("ml scorer unavailable")

// ErrMLInvalidResponse marks a scorer response that is malformed, reports an
// internal error, or omits the expected score field.
var ErrMLInvalidResponse = errors.New("ml scorer returned invalid response")

// MLScorerClient is the port for the external machine-learning scoring
// service. A single synchronous call with a bounded timeout; no retries, no
// caching.
type MLScorerClient interface {
	// Score sends the feature vector and returns a risk score in [0,100].
	Score(ctx context.Context, features model.RiskFeatureVector) (float64, error)
}

// SessionStore is the port for the ephemeral session metadata store. Both
// operations are best-effort and never return errors: a missing entry means
// "unknown", never "verified safe".
type SessionStore interface {
	// Put inserts or fully overwrites the record for key. May evict the
	// oldest entries once capacity is exceeded.
	Put(key string, fingerprint model.DeviceFingerprint, userID string)

	// RecentForUser returns up to limit records for the user in descending
	// insertion order. Empty slice when none exist.
	RecentForUser(userID string, limit int) []model.SessionRecord
}

// RiskStats summarizes a user's recent transaction risk scores, as computed
// by the persistence collaborator's projections.
type RiskStats struct {
	Avg   float64
	Max   float64
	Count int
}

// BehaviorBaseline carries the historical figures the feature vector is
// built from.
type BehaviorBaseline struct {
	AvgAmount7d      float64
	TxVelocity1h     float64
	DeviceChangeFreq float64
	UsualHourMean    float64
}

// HistoryRepository reads per-user historical risk figures.
type HistoryRepository interface {
	// TransactionRiskStats returns average and maximum risk over the user's
	// recent transaction risk scores.
	TransactionRiskStats(ctx context.Context, userID uuid.UUID) (RiskStats, error)

	// BehaviorBaseline returns the behavioral figures used to build the
	// ML feature vector.
	BehaviorBaseline(ctx context.Context, userID uuid.UUID) (BehaviorBaseline, error)

	// RecordTransactionRisk appends a transaction risk score and its amount
	// to the user's history projection.
	RecordTransactionRisk(ctx context.Context, userID, transactionID uuid.UUID, amount decimal.Decimal, score float64) error

	// RecordSessionEvent appends a session observation to the behavioral
	// projection feeding the baseline figures.
	RecordSessionEvent(ctx context.Context, userID uuid.UUID, deviceType, networkOrigin string) error
}

// AssessmentRepository persists risk assessments.
type AssessmentRepository interface {
	// Save persists an assessment and its reasons.
	Save(ctx context.Context, assessment *model.RiskAssessment) error

	// FindByTransactionID retrieves the assessment for a transaction.
	FindByTransactionID(ctx context.Context, transactionID uuid.UUID) (*model.RiskAssessment, error)

	// FindByUserID retrieves a user's assessments, newest first.
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.RiskAssessment, error)
}

// EventPublisher is the port for publishing domain events.
type EventPublisher interface {
	Publish(ctx context.Context, evts ...events.DomainEvent) error
}
