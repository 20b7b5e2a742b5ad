package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/event"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/valueobject"
	"github.com/AasthaThakker/DhanRaksha-sub001/pkg/events"
)

// RiskAssessment is the aggregate root for behavioral risk decisions. One is
// created per risk-bearing event (login or transaction), consumed immediately
// by the caller and the notifier, and persisted only as risk history.
type RiskAssessment struct {
	events.EventCollector

	id             uuid.UUID
	userID         uuid.UUID
	transactionID  uuid.UUID
	eventKind      EventKind
	heuristicScore float64
	mlScore        *float64
	historicalAvg  float64
	historicalMax  float64
	weightedRisk   float64
	level          valueobject.RiskLevel
	reasons        []string
	mlDegraded     bool
	assessedAt     time.Time
	createdAt      time.Time
	version        int
}

// NewRiskAssessment creates an unscored assessment for an incoming event.
// Call Assess() to apply the aggregator's outcome.
func NewRiskAssessment(userID, transactionID uuid.UUID, kind EventKind) (*RiskAssessment, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("user ID is required")
	}
	if kind == EventKindTransaction && transactionID == uuid.Nil {
		return nil, fmt.Errorf("transaction ID is required for transaction events")
	}
	if kind != EventKindLogin && kind != EventKindTransaction {
		return nil, fmt.Errorf("invalid event kind: %s", kind)
	}

	return &RiskAssessment{
		id:            uuid.New(),
		userID:        userID,
		transactionID: transactionID,
		eventKind:     kind,
		level:         valueobject.RiskLevelLow,
		reasons:       make([]string, 0),
		createdAt:     time.Now().UTC(),
		version:       1,
	}, nil
}

// AssessmentOutcome is the aggregator's verdict applied to the aggregate.
type AssessmentOutcome struct {
	HeuristicScore float64
	MLScore        *float64
	HistoricalAvg  float64
	HistoricalMax  float64
	WeightedRisk   float64
	Level          valueobject.RiskLevel
	Reasons        []string
	MLDegraded     bool
}

// Assess applies a scoring outcome, clamping every score into [0,100] and
// recording the resulting domain events. This is the core state transition.
func (a *RiskAssessment) Assess(out AssessmentOutcome) error {
	if out.Level.IsZero() {
		return fmt.Errorf("risk level is required")
	}

	a.heuristicScore = clampScore(out.HeuristicScore)
	if out.MLScore != nil {
		ml := clampScore(*out.MLScore)
		a.mlScore = &ml
	} else {
		a.mlScore = nil
	}
	a.historicalAvg = clampScore(out.HistoricalAvg)
	a.historicalMax = clampScore(out.HistoricalMax)
	a.weightedRisk = clampScore(out.WeightedRisk)
	a.level = out.Level
	a.reasons = append([]string(nil), out.Reasons...)
	a.mlDegraded = out.MLDegraded
	a.assessedAt = time.Now().UTC()
	a.version++

	a.Record(event.NewAssessmentCompleted(
		a.id, a.userID, a.transactionID, string(a.eventKind),
		a.heuristicScore, a.mlScore, a.weightedRisk,
		a.level.String(), a.reasons, a.assessedAt,
	))

	if a.level.Equal(valueobject.RiskLevelHigh) {
		a.Record(event.NewUserFlagged(
			a.id, a.userID, a.level.String(), a.weightedRisk, a.reasons, a.assessedAt,
		))
	}

	return nil
}

// clampScore bounds a score into [0,100].
func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// --- Accessors ---

func (a *RiskAssessment) ID() uuid.UUID                 { return a.id }
func (a *RiskAssessment) UserID() uuid.UUID             { return a.userID }
func (a *RiskAssessment) TransactionID() uuid.UUID      { return a.transactionID }
func (a *RiskAssessment) EventKind() EventKind          { return a.eventKind }
func (a *RiskAssessment) HeuristicScore() float64       { return a.heuristicScore }
func (a *RiskAssessment) MLScore() *float64             { return a.mlScore }
func (a *RiskAssessment) HistoricalAvg() float64        { return a.historicalAvg }
func (a *RiskAssessment) HistoricalMax() float64        { return a.historicalMax }
func (a *RiskAssessment) WeightedRisk() float64         { return a.weightedRisk }
func (a *RiskAssessment) Level() valueobject.RiskLevel  { return a.level }
func (a *RiskAssessment) Reasons() []string             { return a.reasons }
func (a *RiskAssessment) MLDegraded() bool              { return a.mlDegraded }
func (a *RiskAssessment) AssessedAt() time.Time         { return a.assessedAt }
func (a *RiskAssessment) CreatedAt() time.Time          { return a.createdAt }
func (a *RiskAssessment) Version() int                  { return a.version }

// Reconstruct rebuilds a RiskAssessment from persisted data (no validation,
// no events).
func Reconstruct(
	id, userID, transactionID uuid.UUID,
	kind EventKind,
	heuristicScore float64,
	mlScore *float64,
	historicalAvg, historicalMax, weightedRisk float64,
	level valueobject.RiskLevel,
	reasons []string,
	mlDegraded bool,
	assessedAt time.Time,
	version int,
	createdAt time.Time,
) *RiskAssessment {
	return &RiskAssessment{
		id:             id,
		userID:         userID,
		transactionID:  transactionID,
		eventKind:      kind,
		heuristicScore: heuristicScore,
		mlScore:        mlScore,
		historicalAvg:  historicalAvg,
		historicalMax:  historicalMax,
		weightedRisk:   weightedRisk,
		level:          level,
		reasons:        reasons,
		mlDegraded:     mlDegraded,
		assessedAt:     assessedAt,
		version:        version,
		createdAt:      createdAt,
	}
}
