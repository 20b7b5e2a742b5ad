package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/port"
)

// historyWindow bounds the number of recent scores the aggregate figures
// are computed over.
const historyWindow = 50

// HistoryRepository implements port.HistoryRepository using PostgreSQL.
// Aggregate figures are computed in SQL over the user's recent projection
// rows rather than loaded and folded in memory.
type HistoryRepository struct {
	pool *pgxpool.Pool
}

// NewHistoryRepository creates a new PostgreSQL-backed history repository.
func NewHistoryRepository(pool *pgxpool.Pool) *HistoryRepository {
	return &HistoryRepository{pool: pool}
}

// TransactionRiskStats returns the average and maximum over the user's most
// recent transaction risk scores. A user with no history yields zeroes.
func (r *HistoryRepository) TransactionRiskStats(ctx context.Context, userID uuid.UUID) (port.RiskStats, error) {
	query := `
		SELECT COALESCE(AVG(score), 0), COALESCE(MAX(score), 0), COUNT(*)
		FROM (
			SELECT score
			FROM transaction_risk_scores
			WHERE user_id = $1
			ORDER BY recorded_at DESC
			LIMIT $2
		) recent
	`

	var stats port.RiskStats
	err := r.pool.QueryRow(ctx, query, userID, historyWindow).Scan(&stats.Avg, &stats.Max, &stats.Count)
	if err != nil {
		return port.RiskStats{}, fmt.Errorf("failed to query risk stats: %w", err)
	}

	return stats, nil
}

// BehaviorBaseline returns the behavioral figures the ML feature vector is
// built from. Missing history yields zeroes for every figure.
func (r *HistoryRepository) BehaviorBaseline(ctx context.Context, userID uuid.UUID) (port.BehaviorBaseline, error) {
	var baseline port.BehaviorBaseline

	err := r.pool.QueryRow(ctx, `
		SELECT
			COALESCE(AVG(amount), 0)::float8
		FROM transaction_risk_scores
		WHERE user_id = $1
		  AND recorded_at > now() - interval '7 days'
	`, userID).Scan(&baseline.AvgAmount7d)
	if err != nil {
		return port.BehaviorBaseline{}, fmt.Errorf("failed to query amount baseline: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*)::float8
		FROM transaction_risk_scores
		WHERE user_id = $1
		  AND recorded_at > now() - interval '1 hour'
	`, userID).Scan(&baseline.TxVelocity1h)
	if err != nil {
		return port.BehaviorBaseline{}, fmt.Errorf("failed to query velocity baseline: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
		SELECT
			COALESCE(COUNT(DISTINCT device_type)::float8 / NULLIF(COUNT(*), 0), 0),
			COALESCE(AVG(EXTRACT(HOUR FROM recorded_at)), 0)::float8
		FROM session_events
		WHERE user_id = $1
		  AND recorded_at > now() - interval '30 days'
	`, userID).Scan(&baseline.DeviceChangeFreq, &baseline.UsualHourMean)
	if err != nil {
		return port.BehaviorBaseline{}, fmt.Errorf("failed to query session baseline: %w", err)
	}

	return baseline, nil
}

// RecordTransactionRisk appends a transaction risk score and its amount to
// the user's history projection.
func (r *HistoryRepository) RecordTransactionRisk(ctx context.Context, userID, transactionID uuid.UUID, amount decimal.Decimal, score float64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO transaction_risk_scores (user_id, transaction_id, amount, score, recorded_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (transaction_id) DO UPDATE SET
			amount = EXCLUDED.amount,
			score = EXCLUDED.score,
			recorded_at = EXCLUDED.recorded_at
	`, userID, transactionID, amount, score)
	if err != nil {
		return fmt.Errorf("failed to record transaction risk: %w", err)
	}

	return nil
}

// RecordSessionEvent appends a session observation to the behavioral
// projection feeding the baseline figures.
func (r *HistoryRepository) RecordSessionEvent(ctx context.Context, userID uuid.UUID, deviceType, networkOrigin string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO session_events (user_id, device_type, network_origin, recorded_at)
		VALUES ($1, $2, $3, now())
	`, userID, deviceType, networkOrigin)
	if err != nil {
		return fmt.Errorf("failed to record session event: %w", err)
	}

	return nil
}
