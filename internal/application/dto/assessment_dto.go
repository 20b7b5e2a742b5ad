package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/model"
)

// EvaluateLoginRequest is the input DTO for the EvaluateLogin use case.
type EvaluateLoginRequest struct {
	UserID     uuid.UUID         `json:"user_id"`
	Headers    map[string]string `json:"headers"`
	RemoteAddr string            `json:"remote_addr"`
	SessionID  string            `json:"session_id"`
}

// EvaluateTransactionRequest is the input DTO for the EvaluateTransaction
// use case.
type EvaluateTransactionRequest struct {
	UserID          uuid.UUID         `json:"user_id"`
	TransactionID   uuid.UUID         `json:"transaction_id"`
	Amount          decimal.Decimal   `json:"amount"`
	TransactionType string            `json:"transaction_type"`
	Description     string            `json:"description"`
	Headers         map[string]string `json:"headers"`
	RemoteAddr      string            `json:"remote_addr"`
	SessionID       string            `json:"session_id"`
}

// AssessmentResponse is the output DTO returned after an evaluation.
type AssessmentResponse struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	TransactionID  uuid.UUID `json:"transaction_id,omitempty"`
	EventKind      string    `json:"event_kind"`
	HeuristicScore float64   `json:"heuristic_score"`
	MLScore        *float64  `json:"ml_score"`
	WeightedRisk   float64   `json:"weighted_risk"`
	RiskLevel      string    `json:"risk_level"`
	Reasons        []string  `json:"reasons"`
	MLDegraded     bool      `json:"ml_degraded"`
	AssessedAt     time.Time `json:"assessed_at"`
}

// EvaluateTransactionResponse pairs the assessment with the resulting
// transaction status.
type EvaluateTransactionResponse struct {
	Assessment        AssessmentResponse `json:"assessment"`
	TransactionStatus string             `json:"transaction_status"`
}

// GetUserRiskRequest is the input DTO for the user risk profile use case.
type GetUserRiskRequest struct {
	UserID uuid.UUID `json:"user_id"`
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
}

// UserRiskResponse is the user-level aggregate risk view.
type UserRiskResponse struct {
	UserID            uuid.UUID            `json:"user_id"`
	WeightedRisk      float64              `json:"weighted_risk"`
	RiskLevel         string               `json:"risk_level"`
	Override          bool                 `json:"override"`
	HistoricalAvg     float64              `json:"historical_avg"`
	HistoricalMax     float64              `json:"historical_max"`
	SampleCount       int                  `json:"sample_count"`
	RecentAssessments []AssessmentResponse `json:"recent_assessments"`
}

// FromModel maps a domain aggregate to the response DTO.
func FromModel(a *model.RiskAssessment) AssessmentResponse {
	return AssessmentResponse{
		ID:             a.ID(),
		UserID:         a.UserID(),
		TransactionID:  a.TransactionID(),
		EventKind:      string(a.EventKind()),
		HeuristicScore: a.HeuristicScore(),
		MLScore:        a.MLScore(),
		WeightedRisk:   a.WeightedRisk(),
		RiskLevel:      a.Level().String(),
		Reasons:        a.Reasons(),
		MLDegraded:     a.MLDegraded(),
		AssessedAt:     a.AssessedAt(),
	}
}
