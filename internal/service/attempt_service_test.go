package service

import (
	"context"
	"testing"

	"github.com/lshigami/pte-scorer/internal/apperr"
	"github.com/lshigami/pte-scorer/internal/dto"
	"github.com/lshigami/pte-scorer/internal/model"
	"github.com/lshigami/pte-scorer/internal/repository"
	"github.com/lshigami/pte-scorer/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func seedAttempts(t *testing.T, repo repository.AttemptRepository, userID string, q *model.Question, scores ...float64) []*model.Attempt {
	t.Helper()
	var out []*model.Attempt
	for _, s := range scores {
		a, err := repo.Persist(context.Background(), &model.Attempt{
			UserID:            userID,
			QuestionID:        q.ID,
			QuestionType:      q.Type,
			SubmissionKind:    model.SubmissionText,
			ResponseText:      "Remote work saves time.",
			TranscriptStatus:  model.TranscriptNotApplicable,
			SelectedOptionIDs: datatypes.JSONSlice[string]{},
			Feedback:          datatypes.NewJSONType(essayFeedback()),
			Signals:           datatypes.NewJSONType(model.ObjectiveSignals{WordCount: 4}),
			OverallScore:      s,
		})
		require.NoError(t, err)
		out = append(out, a)
	}
	return out
}

func TestAttemptService(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	questions := repository.NewQuestionRepository(db)
	attempts := repository.NewAttemptRepository(db)
	q := essayQuestion()
	require.NoError(t, questions.Create(ctx, q))

	seeded := seedAttempts(t, attempts, "user-1", q, 50, 80)
	other := seedAttempts(t, attempts, "user-2", q, 20)

	svc := NewAttemptService(attempts, questions, NewScoreConverterService())

	t.Run("history newest first", func(t *testing.T) {
		list, err := svc.ListAttempts(ctx, "user-1", q.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, 2, list[0].AttemptNumber)
		assert.Equal(t, "C1", list[0].Band)
		assert.Equal(t, 4, list[0].Signals.WordCount)
		assert.Len(t, list[0].Feedback.Components, 5)
	})

	t.Run("history of unknown question", func(t *testing.T) {
		_, err := svc.ListAttempts(ctx, "user-1", 4242)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("latest", func(t *testing.T) {
		latest, err := svc.LatestAttempt(ctx, "user-1", q.ID)
		require.NoError(t, err)
		assert.Equal(t, seeded[1].ID, latest.ID)

		_, err = svc.LatestAttempt(ctx, "user-3", q.ID)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("detail hides other users' attempts", func(t *testing.T) {
		got, err := svc.GetAttempt(ctx, "user-1", seeded[0].ID)
		require.NoError(t, err)
		assert.Equal(t, 50.0, got.OverallScore)

		_, err = svc.GetAttempt(ctx, "user-1", other[0].ID)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("review flag", func(t *testing.T) {
		flag := true
		got, err := svc.ReviewAttempt(ctx, seeded[0].ID, dto.ReviewAttemptRequest{NeedsReview: &flag, Note: "score looks low"})
		require.NoError(t, err)
		assert.True(t, got.NeedsReview)
		assert.Equal(t, "score looks low", got.ReviewNote)
		assert.Equal(t, 50.0, got.OverallScore)

		_, err = svc.ReviewAttempt(ctx, seeded[0].ID, dto.ReviewAttemptRequest{})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}
