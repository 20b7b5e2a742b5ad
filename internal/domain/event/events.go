package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/AasthaThakker/DhanRaksha-sub001/pkg/events"
)

const (
	// EventTypeAssessmentCompleted is emitted when a risk assessment finishes.
	EventTypeAssessmentCompleted = "risk.assessment.completed"

	// EventTypeUserFlagged is emitted when an event is classified HIGH,
	// triggering review and potential account blocking downstream.
	EventTypeUserFlagged = "risk.user.flagged"

	// EventTypeNotificationRequested carries a notification intent for the
	// delivery collaborator.
	EventTypeNotificationRequested = "risk.notification.requested"
)

const aggregateTypeRiskAssessment = "RiskAssessment"

// AssessmentCompleted is published when a risk assessment has been produced
// for a login or transaction event.
type AssessmentCompleted struct {
	events.BaseEvent
	AssessmentID   uuid.UUID `json:"assessment_id"`
	UserID         uuid.UUID `json:"user_id"`
	TransactionID  uuid.UUID `json:"transaction_id,omitempty"`
	EventKind      string    `json:"event_kind"`
	HeuristicScore float64   `json:"heuristic_score"`
	MLScore        *float64  `json:"ml_score"`
	WeightedRisk   float64   `json:"weighted_risk"`
	RiskLevel      string    `json:"risk_level"`
	Reasons        []string  `json:"reasons"`
	AssessedAt     time.Time `json:"assessed_at"`
}

// NewAssessmentCompleted builds the event.
func NewAssessmentCompleted(
	assessmentID, userID, transactionID uuid.UUID,
	eventKind string,
	heuristicScore float64,
	mlScore *float64,
	weightedRisk float64,
	riskLevel string,
	reasons []string,
	assessedAt time.Time,
) AssessmentCompleted {
	return AssessmentCompleted{
		BaseEvent:      events.NewBaseEvent(EventTypeAssessmentCompleted, assessmentID, aggregateTypeRiskAssessment),
		AssessmentID:   assessmentID,
		UserID:         userID,
		TransactionID:  transactionID,
		EventKind:      eventKind,
		HeuristicScore: heuristicScore,
		MLScore:        mlScore,
		WeightedRisk:   weightedRisk,
		RiskLevel:      riskLevel,
		Reasons:        reasons,
		AssessedAt:     assessedAt,
	}
}

// UserFlagged is published when an assessment lands in the HIGH band.
type UserFlagged struct {
	events.BaseEvent
	AssessmentID uuid.UUID `json:"assessment_id"`
	UserID       uuid.UUID `json:"user_id"`
	RiskLevel    string    `json:"risk_level"`
	WeightedRisk float64   `json:"weighted_risk"`
	Reasons      []string  `json:"reasons"`
	FlaggedAt    time.Time `json:"flagged_at"`
}

// NewUserFlagged builds the event.
func NewUserFlagged(
	assessmentID, userID uuid.UUID,
	riskLevel string,
	weightedRisk float64,
	reasons []string,
	flaggedAt time.Time,
) UserFlagged {
	return UserFlagged{
		BaseEvent:    events.NewBaseEvent(EventTypeUserFlagged, assessmentID, aggregateTypeRiskAssessment),
		AssessmentID: assessmentID,
		UserID:       userID,
		RiskLevel:    riskLevel,
		WeightedRisk: weightedRisk,
		Reasons:      reasons,
		FlaggedAt:    flaggedAt,
	}
}

// NotificationRequested wraps a notification intent for the delivery
// collaborator. Delivery itself is outside this service.
type NotificationRequested struct {
	events.BaseEvent
	UserID  uuid.UUID `json:"user_id"`
	Kind    string    `json:"kind"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
}

// NewNotificationRequested builds the event.
func NewNotificationRequested(userID uuid.UUID, kind, title, message string) NotificationRequested {
	return NotificationRequested{
		BaseEvent: events.NewBaseEvent(EventTypeNotificationRequested, userID, "Notification"),
		UserID:    userID,
		Kind:      kind,
		Title:     title,
		Message:   message,
	}
}
