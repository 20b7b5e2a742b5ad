package grpc

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/AasthaThakker/DhanRaksha-sub001/internal/application/dto"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/application/usecase"
	"github.com/AasthaThakker/DhanRaksha-sub001/pkg/auth"
)

// requireRole checks that the caller has at least one of the given roles.
func requireRole(ctx context.Context, roles ...string) error {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return status.Error(codes.Unauthenticated, "authentication required")
	}
	for _, role := range roles {
		if claims.HasRole(role) {
			return nil
		}
	}
	return status.Error(codes.PermissionDenied, "insufficient permissions")
}

// Compile-time assertion that RiskServiceHandler implements RiskServiceServer.
var _ RiskServiceServer = (*RiskServiceHandler)(nil)

// RiskServiceHandler implements the gRPC RiskServiceServer interface.
type RiskServiceHandler struct {
	UnimplementedRiskServiceServer
	evaluateLogin       *usecase.EvaluateLogin
	evaluateTransaction *usecase.EvaluateTransaction
	getUserRisk         *usecase.GetUserRisk
	logger              *slog.Logger
}

// NewRiskServiceHandler creates a new gRPC handler.
func NewRiskServiceHandler(
	evaluateLogin *usecase.EvaluateLogin,
	evaluateTransaction *usecase.EvaluateTransaction,
	getUserRisk *usecase.GetUserRisk,
	logger *slog.Logger,
) *RiskServiceHandler {
	return &RiskServiceHandler{
		evaluateLogin:       evaluateLogin,
		evaluateTransaction: evaluateTransaction,
		getUserRisk:         getUserRisk,
		logger:              logger,
	}
}

// Proto-aligned request/response message types.

// RequestMetaMsg represents the proto RequestMeta message.
type RequestMetaMsg struct {
	Headers    map[string]string `json:"headers"`
	RemoteAddr string            `json:"remote_addr"`
	SessionID  string            `json:"session_id"`
}

// EvaluateLoginRequest represents the proto EvaluateLoginRequest message.
type EvaluateLoginRequest struct {
	UserID string          `json:"user_id"`
	Meta   *RequestMetaMsg `json:"meta"`
}

// AssessmentMsg represents the proto RiskAssessment message.
type AssessmentMsg struct {
	ID             string   `json:"id"`
	UserID         string   `json:"user_id"`
	TransactionID  string   `json:"transaction_id,omitempty"`
	EventKind      string   `json:"event_kind"`
	HeuristicScore float64  `json:"heuristic_score"`
	MLScore        *float64 `json:"ml_score"`
	WeightedRisk   float64  `json:"weighted_risk"`
	RiskLevel      string   `json:"risk_level"`
	Reasons        []string `json:"reasons"`
	MLDegraded     bool     `json:"ml_degraded"`
}

// EvaluateLoginResponse represents the proto EvaluateLoginResponse message.
type EvaluateLoginResponse struct {
	Assessment *AssessmentMsg `json:"assessment"`
}

// EvaluateTransactionRequest represents the proto EvaluateTransactionRequest message.
type EvaluateTransactionRequest struct {
	UserID          string          `json:"user_id"`
	TransactionID   string          `json:"transaction_id"`
	Amount          string          `json:"amount"`
	TransactionType string          `json:"transaction_type"`
	Description     string          `json:"description"`
	Meta            *RequestMetaMsg `json:"meta"`
}

// EvaluateTransactionResponse represents the proto EvaluateTransactionResponse message.
type EvaluateTransactionResponse struct {
	Assessment        *AssessmentMsg `json:"assessment"`
	TransactionStatus string         `json:"transaction_status"`
}

// GetUserRiskRequest represents the proto GetUserRiskRequest message.
type GetUserRiskRequest struct {
	UserID string `json:"user_id"`
	Limit  int32  `json:"limit"`
	Offset int32  `json:"offset"`
}

// GetUserRiskResponse represents the proto GetUserRiskResponse message.
type GetUserRiskResponse struct {
	UserID            string           `json:"user_id"`
	WeightedRisk      float64          `json:"weighted_risk"`
	RiskLevel         string           `json:"risk_level"`
	Override          bool             `json:"override"`
	HistoricalAvg     float64          `json:"historical_avg"`
	HistoricalMax     float64          `json:"historical_max"`
	SampleCount       int32            `json:"sample_count"`
	RecentAssessments []*AssessmentMsg `json:"recent_assessments"`
}

func assessmentMsg(a dto.AssessmentResponse) *AssessmentMsg {
	msg := &AssessmentMsg{
		ID:             a.ID.String(),
		UserID:         a.UserID.String(),
		EventKind:      a.EventKind,
		HeuristicScore: a.HeuristicScore,
		MLScore:        a.MLScore,
		WeightedRisk:   a.WeightedRisk,
		RiskLevel:      a.RiskLevel,
		Reasons:        a.Reasons,
		MLDegraded:     a.MLDegraded,
	}
	if a.TransactionID != uuid.Nil {
		msg.TransactionID = a.TransactionID.String()
	}
	return msg
}

func metaFields(meta *RequestMetaMsg) (map[string]string, string, string) {
	if meta == nil {
		return nil, "", ""
	}
	return meta.Headers, meta.RemoteAddr, meta.SessionID
}

// EvaluateLogin handles a login risk evaluation request.
func (h *RiskServiceHandler) EvaluateLogin(ctx context.Context, req *EvaluateLoginRequest) (*EvaluateLoginResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleOperator, auth.RoleAPIClient); err != nil {
		return nil, err
	}

	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid user_id: %v", err)
	}

	headers, remoteAddr, sessionID := metaFields(req.Meta)

	result, err := h.evaluateLogin.Execute(ctx, dto.EvaluateLoginRequest{
		UserID:     userID,
		Headers:    headers,
		RemoteAddr: remoteAddr,
		SessionID:  sessionID,
	})
	if err != nil {
		h.logger.Error("failed to evaluate login",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()),
		)
		return nil, status.Error(codes.Internal, "internal error")
	}

	return &EvaluateLoginResponse{Assessment: assessmentMsg(result)}, nil
}

// EvaluateTransaction handles a transaction risk evaluation request.
func (h *RiskServiceHandler) EvaluateTransaction(ctx context.Context, req *EvaluateTransactionRequest) (*EvaluateTransactionResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleOperator, auth.RoleAPIClient); err != nil {
		return nil, err
	}

	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid user_id: %v", err)
	}

	transactionID, err := uuid.Parse(req.TransactionID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid transaction_id: %v", err)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid amount: %v", err)
	}

	headers, remoteAddr, sessionID := metaFields(req.Meta)

	h.logger.Info("evaluating transaction",
		slog.String("user_id", userID.String()),
		slog.String("transaction_id", transactionID.String()),
	)

	result, err := h.evaluateTransaction.Execute(ctx, dto.EvaluateTransactionRequest{
		UserID:          userID,
		TransactionID:   transactionID,
		Amount:          amount,
		TransactionType: req.TransactionType,
		Description:     req.Description,
		Headers:         headers,
		RemoteAddr:      remoteAddr,
		SessionID:       sessionID,
	})
	if err != nil {
		h.logger.Error("failed to evaluate transaction",
			slog.String("transaction_id", transactionID.String()),
			slog.String("error", err.Error()),
		)
		return nil, status.Error(codes.Internal, "internal error")
	}

	return &EvaluateTransactionResponse{
		Assessment:        assessmentMsg(result.Assessment),
		TransactionStatus: result.TransactionStatus,
	}, nil
}

// GetUserRisk handles a user risk profile request.
func (h *RiskServiceHandler) GetUserRisk(ctx context.Context, req *GetUserRiskRequest) (*GetUserRiskResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleOperator, auth.RoleAuditor, auth.RoleAPIClient); err != nil {
		return nil, err
	}

	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid user_id: %v", err)
	}

	result, err := h.getUserRisk.Execute(ctx, dto.GetUserRiskRequest{
		UserID: userID,
		Limit:  int(req.Limit),
		Offset: int(req.Offset),
	})
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}

	recent := make([]*AssessmentMsg, 0, len(result.RecentAssessments))
	for _, a := range result.RecentAssessments {
		recent = append(recent, assessmentMsg(a))
	}

	return &GetUserRiskResponse{
		UserID:            result.UserID.String(),
		WeightedRisk:      result.WeightedRisk,
		RiskLevel:         result.RiskLevel,
		Override:          result.Override,
		HistoricalAvg:     result.HistoricalAvg,
		HistoricalMax:     result.HistoricalMax,
		SampleCount:       int32(result.SampleCount),
		RecentAssessments: recent,
	}, nil
}
