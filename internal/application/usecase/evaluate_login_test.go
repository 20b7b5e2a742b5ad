package usecase_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AasthaThakker/DhanRaksha-sub001/internal/application/dto"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/application/usecase"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/model"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/port"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/service"
)

func validLoginRequest() dto.EvaluateLoginRequest {
	return dto.EvaluateLoginRequest{
		UserID: uuid.New(),
		Headers: map[string]string{
			"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64)",
			"X-Forwarded-For": "203.0.113.10",
		},
		RemoteAddr: "10.0.0.1:5000",
		SessionID:  "sess-1",
	}
}

func newLoginUsecase(ml port.MLScorerClient, repo *mockAssessmentRepository, publisher *mockEventPublisher, history *mockHistoryRepository, sessions *mockSessionStore) *usecase.EvaluateLogin {
	return usecase.NewEvaluateLogin(
		service.NewExtractor(),
		newTestAggregator(ml),
		sessions,
		history,
		repo,
		publisher,
		slog.Default(),
	)
}

func TestEvaluateLogin_Execute(t *testing.T) {
	t.Run("scores and persists a login assessment", func(t *testing.T) {
		repo := &mockAssessmentRepository{}
		publisher := &mockEventPublisher{}
		history := &mockHistoryRepository{}
		sessions := &mockSessionStore{}
		uc := newLoginUsecase(&mockMLClient{score: 20}, repo, publisher, history, sessions)

		resp, err := uc.Execute(context.Background(), validLoginRequest())

		require.NoError(t, err)
		assert.Equal(t, "LOGIN", resp.EventKind)
		assert.NotNil(t, resp.MLScore)
		assert.False(t, resp.MLDegraded)
		require.NotNil(t, repo.savedAssessment)
		assert.Equal(t, resp.ID, repo.savedAssessment.ID())
		assert.NotEmpty(t, publisher.published)
	})

	t.Run("session is recorded for future new-device checks", func(t *testing.T) {
		repo := &mockAssessmentRepository{}
		publisher := &mockEventPublisher{}
		history := &mockHistoryRepository{}
		sessions := &mockSessionStore{}
		uc := newLoginUsecase(&mockMLClient{score: 10}, repo, publisher, history, sessions)

		req := validLoginRequest()
		_, err := uc.Execute(context.Background(), req)

		require.NoError(t, err)
		require.Len(t, sessions.records, 1)
		assert.Equal(t, req.UserID.String(), sessions.records[0].UserID)
		assert.Equal(t, 1, history.sessionEvents)
	})

	t.Run("ML failure still produces an assessment", func(t *testing.T) {
		repo := &mockAssessmentRepository{}
		publisher := &mockEventPublisher{}
		history := &mockHistoryRepository{}
		sessions := &mockSessionStore{}
		uc := newLoginUsecase(&mockMLClient{err: port.ErrMLUnavailable}, repo, publisher, history, sessions)

		resp, err := uc.Execute(context.Background(), validLoginRequest())

		require.NoError(t, err)
		assert.True(t, resp.MLDegraded)
		assert.Nil(t, resp.MLScore)
		assert.Contains(t, resp.Reasons, "ML-degraded")
		require.NotNil(t, repo.savedAssessment)
	})

	t.Run("stats lookup failure degrades to zero history", func(t *testing.T) {
		repo := &mockAssessmentRepository{}
		publisher := &mockEventPublisher{}
		history := &mockHistoryRepository{statsErr: errors.New("connection refused")}
		sessions := &mockSessionStore{}
		uc := newLoginUsecase(&mockMLClient{score: 10}, repo, publisher, history, sessions)

		resp, err := uc.Execute(context.Background(), validLoginRequest())

		require.NoError(t, err)
		assert.Equal(t, 0.0, resp.WeightedRisk)
	})

	t.Run("missing user is rejected", func(t *testing.T) {
		repo := &mockAssessmentRepository{}
		publisher := &mockEventPublisher{}
		uc := newLoginUsecase(&mockMLClient{}, repo, publisher, &mockHistoryRepository{}, &mockSessionStore{})

		_, err := uc.Execute(context.Background(), dto.EvaluateLoginRequest{})

		assert.Error(t, err)
		assert.Nil(t, repo.savedAssessment)
	})

	t.Run("save failure aborts the evaluation", func(t *testing.T) {
		repo := &mockAssessmentRepository{
			saveFunc: func(context.Context, *model.RiskAssessment) error {
				return errors.New("insert failed")
			},
		}
		publisher := &mockEventPublisher{}
		uc := newLoginUsecase(&mockMLClient{score: 10}, repo, publisher, &mockHistoryRepository{}, &mockSessionStore{})

		_, err := uc.Execute(context.Background(), validLoginRequest())

		assert.Error(t, err)
		assert.Empty(t, publisher.published)
	})
}
