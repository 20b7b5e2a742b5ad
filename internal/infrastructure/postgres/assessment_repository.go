package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/model"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/valueobject"
	pgshared "github.com/AasthaThakker/DhanRaksha-sub001/pkg/postgres"
)

// AssessmentRepository implements port.AssessmentRepository using PostgreSQL.
type AssessmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssessmentRepository creates a new PostgreSQL-backed assessment repository.
func NewAssessmentRepository(pool *pgxpool.Pool) *AssessmentRepository {
	return &AssessmentRepository{pool: pool}
}

// Save persists a risk assessment and its reasons atomically.
func (r *AssessmentRepository) Save(ctx context.Context, assessment *model.RiskAssessment) error {
	return pgshared.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		return r.saveInTx(ctx, tx, assessment)
	})
}

func (r *AssessmentRepository) saveInTx(ctx context.Context, tx pgx.Tx, assessment *model.RiskAssessment) error {
	query := `
		INSERT INTO risk_assessments (
			id, user_id, transaction_id, event_kind,
			heuristic_score, ml_score, historical_avg, historical_max,
			weighted_risk, risk_level, ml_degraded,
			assessed_at, version, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			heuristic_score = EXCLUDED.heuristic_score,
			ml_score = EXCLUDED.ml_score,
			historical_avg = EXCLUDED.historical_avg,
			historical_max = EXCLUDED.historical_max,
			weighted_risk = EXCLUDED.weighted_risk,
			risk_level = EXCLUDED.risk_level,
			ml_degraded = EXCLUDED.ml_degraded,
			assessed_at = EXCLUDED.assessed_at,
			version = EXCLUDED.version
	`

	var transactionID *uuid.UUID
	if assessment.TransactionID() != uuid.Nil {
		id := assessment.TransactionID()
		transactionID = &id
	}

	_, err := tx.Exec(ctx, query,
		assessment.ID(),
		assessment.UserID(),
		transactionID,
		string(assessment.EventKind()),
		assessment.HeuristicScore(),
		assessment.MLScore(),
		assessment.HistoricalAvg(),
		assessment.HistoricalMax(),
		assessment.WeightedRisk(),
		assessment.Level().String(),
		assessment.MLDegraded(),
		assessment.AssessedAt(),
		assessment.Version(),
		assessment.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save assessment: %w", err)
	}

	// Delete existing reasons and insert fresh ones.
	_, err = tx.Exec(ctx, `DELETE FROM risk_reasons WHERE assessment_id = $1`, assessment.ID())
	if err != nil {
		return fmt.Errorf("failed to delete old risk reasons: %w", err)
	}

	for i, reason := range assessment.Reasons() {
		_, err = tx.Exec(ctx,
			`INSERT INTO risk_reasons (assessment_id, position, reason) VALUES ($1, $2, $3)`,
			assessment.ID(), i, reason,
		)
		if err != nil {
			return fmt.Errorf("failed to save risk reason: %w", err)
		}
	}

	return nil
}

const assessmentColumns = `
	id, user_id, transaction_id, event_kind,
	heuristic_score, ml_score, historical_avg, historical_max,
	weighted_risk, risk_level, ml_degraded,
	assessed_at, version, created_at
`

// FindByTransactionID retrieves the assessment for a transaction. Returns
// (nil, nil) when none exists.
func (r *AssessmentRepository) FindByTransactionID(ctx context.Context, transactionID uuid.UUID) (*model.RiskAssessment, error) {
	query := `
		SELECT ` + assessmentColumns + `
		FROM risk_assessments
		WHERE transaction_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	return r.scanAssessment(ctx, r.pool.QueryRow(ctx, query, transactionID))
}

// FindByUserID retrieves a user's assessments, newest first.
func (r *AssessmentRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.RiskAssessment, error) {
	query := `
		SELECT ` + assessmentColumns + `
		FROM risk_assessments
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessments: %w", err)
	}
	defer rows.Close()

	var assessments []*model.RiskAssessment
	for rows.Next() {
		assessment, err := r.scanAssessmentFromRows(ctx, rows)
		if err != nil {
			return nil, err
		}
		assessments = append(assessments, assessment)
	}

	return assessments, nil
}

func (r *AssessmentRepository) scanAssessment(ctx context.Context, row pgx.Row) (*model.RiskAssessment, error) {
	assessment, err := scanRow(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return r.attachReasons(ctx, assessment)
}

func (r *AssessmentRepository) scanAssessmentFromRows(ctx context.Context, rows pgx.Rows) (*model.RiskAssessment, error) {
	assessment, err := scanRow(rows)
	if err != nil {
		return nil, err
	}
	return r.attachReasons(ctx, assessment)
}

func scanRow(row pgx.Row) (*model.RiskAssessment, error) {
	var (
		id             uuid.UUID
		userID         uuid.UUID
		transactionID  *uuid.UUID
		eventKindStr   string
		heuristicScore float64
		mlScore        *float64
		historicalAvg  float64
		historicalMax  float64
		weightedRisk   float64
		riskLevelStr   string
		mlDegraded     bool
		assessedAt     *time.Time
		version        int
		createdAt      time.Time
	)

	err := row.Scan(
		&id, &userID, &transactionID, &eventKindStr,
		&heuristicScore, &mlScore, &historicalAvg, &historicalMax,
		&weightedRisk, &riskLevelStr, &mlDegraded,
		&assessedAt, &version, &createdAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan assessment: %w", err)
	}

	riskLevel, err := valueobject.RiskLevelFromString(riskLevelStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse risk level: %w", err)
	}

	var txID uuid.UUID
	if transactionID != nil {
		txID = *transactionID
	}

	var assessedAtVal time.Time
	if assessedAt != nil {
		assessedAtVal = *assessedAt
	}

	return model.Reconstruct(
		id, userID, txID,
		model.EventKind(eventKindStr),
		heuristicScore, mlScore,
		historicalAvg, historicalMax, weightedRisk,
		riskLevel, nil, mlDegraded,
		assessedAtVal, version, createdAt,
	), nil
}

func (r *AssessmentRepository) attachReasons(ctx context.Context, assessment *model.RiskAssessment) (*model.RiskAssessment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT reason FROM risk_reasons WHERE assessment_id = $1 ORDER BY position`,
		assessment.ID(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query risk reasons: %w", err)
	}
	defer rows.Close()

	reasons := make([]string, 0)
	for rows.Next() {
		var reason string
		if err := rows.Scan(&reason); err != nil {
			return nil, fmt.Errorf("failed to scan risk reason: %w", err)
		}
		reasons = append(reasons, reason)
	}

	return model.Reconstruct(
		assessment.ID(), assessment.UserID(), assessment.TransactionID(),
		assessment.EventKind(),
		assessment.HeuristicScore(), assessment.MLScore(),
		assessment.HistoricalAvg(), assessment.HistoricalMax(), assessment.WeightedRisk(),
		assessment.Level(), reasons, assessment.MLDegraded(),
		assessment.AssessedAt(), assessment.Version(), assessment.CreatedAt(),
	), nil
}
