package model_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/event"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/model"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/valueobject"
)

func TestNewRiskAssessment(t *testing.T) {
	userID := uuid.New()
	txID := uuid.New()

	t.Run("valid transaction assessment", func(t *testing.T) {
		a, err := model.NewRiskAssessment(userID, txID, model.EventKindTransaction)

		require.NoError(t, err)
		assert.Equal(t, userID, a.UserID())
		assert.Equal(t, txID, a.TransactionID())
		assert.Equal(t, valueobject.RiskLevelLow, a.Level())
		assert.Equal(t, 1, a.Version())
		assert.Empty(t, a.Events())
	})

	t.Run("login assessment needs no transaction", func(t *testing.T) {
		a, err := model.NewRiskAssessment(userID, uuid.Nil, model.EventKindLogin)

		require.NoError(t, err)
		assert.Equal(t, model.EventKindLogin, a.EventKind())
	})

	t.Run("missing user is rejected", func(t *testing.T) {
		_, err := model.NewRiskAssessment(uuid.Nil, txID, model.EventKindTransaction)
		assert.Error(t, err)
	})

	t.Run("transaction kind requires a transaction id", func(t *testing.T) {
		_, err := model.NewRiskAssessment(userID, uuid.Nil, model.EventKindTransaction)
		assert.Error(t, err)
	})

	t.Run("unknown kind is rejected", func(t *testing.T) {
		_, err := model.NewRiskAssessment(userID, txID, model.EventKind("PING"))
		assert.Error(t, err)
	})
}

func TestRiskAssessment_Assess(t *testing.T) {
	userID := uuid.New()
	txID := uuid.New()

	newAssessment := func(t *testing.T) *model.RiskAssessment {
		t.Helper()
		a, err := model.NewRiskAssessment(userID, txID, model.EventKindTransaction)
		require.NoError(t, err)
		return a
	}

	t.Run("applies the outcome and records completion", func(t *testing.T) {
		a := newAssessment(t)
		ml := 62.0

		err := a.Assess(model.AssessmentOutcome{
			HeuristicScore: 50,
			MLScore:        &ml,
			HistoricalAvg:  30,
			HistoricalMax:  62,
			WeightedRisk:   39.6,
			Level:          valueobject.RiskLevelMedium,
			Reasons:        []string{"High transaction velocity"},
		})

		require.NoError(t, err)
		assert.Equal(t, 62.0, *a.MLScore())
		assert.Equal(t, 2, a.Version())

		evts := a.Events()
		require.Len(t, evts, 1)
		completed, ok := evts[0].(event.AssessmentCompleted)
		require.True(t, ok)
		assert.Equal(t, a.ID(), completed.AssessmentID)
		assert.Equal(t, "MEDIUM", completed.RiskLevel)
	})

	t.Run("high level additionally flags the user", func(t *testing.T) {
		a := newAssessment(t)

		err := a.Assess(model.AssessmentOutcome{
			HeuristicScore: 80,
			WeightedRisk:   75,
			Level:          valueobject.RiskLevelHigh,
			Reasons:        []string{"Login outside usual hours", "Mobile device session"},
			MLDegraded:     true,
		})

		require.NoError(t, err)
		assert.True(t, a.MLDegraded())

		evts := a.Events()
		require.Len(t, evts, 2)
		flagged, ok := evts[1].(event.UserFlagged)
		require.True(t, ok)
		assert.Equal(t, userID, flagged.UserID)
		assert.Equal(t, "HIGH", flagged.RiskLevel)
	})

	t.Run("scores are clamped into range", func(t *testing.T) {
		a := newAssessment(t)
		ml := 150.0

		err := a.Assess(model.AssessmentOutcome{
			HeuristicScore: -5,
			MLScore:        &ml,
			WeightedRisk:   120,
			Level:          valueobject.RiskLevelHigh,
		})

		require.NoError(t, err)
		assert.Equal(t, 0.0, a.HeuristicScore())
		assert.Equal(t, 100.0, *a.MLScore())
		assert.Equal(t, 100.0, a.WeightedRisk())
	})

	t.Run("missing level is rejected", func(t *testing.T) {
		a := newAssessment(t)
		err := a.Assess(model.AssessmentOutcome{HeuristicScore: 50})
		assert.Error(t, err)
	})
}

func TestSessionKey(t *testing.T) {
	at := time.UnixMilli(1757500000000)

	t.Run("long user id is truncated to eight characters", func(t *testing.T) {
		key := model.SessionKey(model.SessionKeyPrefixLogin, at, "0192a5c3-77aa-7bbf-8001-abcdef012345")
		assert.Equal(t, "login_1757500000000_0192a5c3", key)
	})

	t.Run("short user id is kept whole", func(t *testing.T) {
		key := model.SessionKey(model.SessionKeyPrefixSession, at, "u42")
		assert.Equal(t, "session_1757500000000_u42", key)
	})
}
