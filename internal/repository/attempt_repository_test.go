package repository

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/lshigami/pte-scorer/internal/apperr"
	"github.com/lshigami/pte-scorer/internal/model"
	"github.com/lshigami/pte-scorer/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func seedQuestion(t *testing.T, db *gorm.DB) *model.Question {
	t.Helper()
	q := &model.Question{Type: model.Essay, Title: "Remote work", Prompt: "Discuss remote work."}
	require.NoError(t, NewQuestionRepository(db).Create(context.Background(), q))
	return q
}

func newAttempt(userID string, q *model.Question, score float64) *model.Attempt {
	return &model.Attempt{
		UserID:           userID,
		QuestionID:       q.ID,
		QuestionType:     q.Type,
		SubmissionKind:   model.SubmissionText,
		ResponseText:     "Remote work has benefits.",
		WordCount:        4,
		TranscriptStatus: model.TranscriptNotApplicable,
		Feedback:         datatypes.NewJSONType(model.RubricFeedback{Strengths: []string{"clear"}}),
		OverallScore:     score,
	}
}

func TestAttemptRepository_PersistNumbersSequentially(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAttemptRepository(db)
	ctx := context.Background()
	q := seedQuestion(t, db)

	for i := 1; i <= 3; i++ {
		a, err := repo.Persist(ctx, newAttempt("user-1", q, float64(60+i)))
		require.NoError(t, err)
		assert.Equal(t, i, a.AttemptNumber)
		assert.NotZero(t, a.ID)
	}

	other, err := repo.Persist(ctx, newAttempt("user-2", q, 50))
	require.NoError(t, err)
	assert.Equal(t, 1, other.AttemptNumber, "numbering is scoped per user and question")

	count, err := repo.CountByUserAndQuestion(ctx, "user-1", q.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	latest, err := repo.FindLatest(ctx, "user-1", q.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, latest.AttemptNumber)
	assert.Equal(t, 63.0, latest.OverallScore)
	assert.Equal(t, []string{"clear"}, latest.Feedback.Data().Strengths)

	list, err := repo.ListByUserAndQuestion(ctx, "user-1", q.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, 3, list[0].AttemptNumber)
	assert.Equal(t, 1, list[2].AttemptNumber)
}

func TestAttemptRepository_PersistSeedsFromPriorCount(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAttemptRepository(db)
	ctx := context.Background()
	q := seedQuestion(t, db)

	// Attempts written before the sequence table existed.
	for i := 1; i <= 2; i++ {
		a := newAttempt("user-1", q, 40)
		a.AttemptNumber = i
		require.NoError(t, db.Create(a).Error)
	}

	a, err := repo.Persist(ctx, newAttempt("user-1", q, 70))
	require.NoError(t, err)
	assert.Equal(t, 3, a.AttemptNumber)
}

func TestAttemptRepository_ConcurrentPersistIsContiguous(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAttemptRepository(db)
	ctx := context.Background()
	q := seedQuestion(t, db)

	const prior = 2
	for i := 0; i < prior; i++ {
		_, err := repo.Persist(ctx, newAttempt("user-1", q, 50))
		require.NoError(t, err)
	}

	const k = 12
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers []int
		errs    []error
	)
	for i := 0; i < k; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, err := repo.Persist(ctx, newAttempt("user-1", q, 55))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			numbers = append(numbers, a.AttemptNumber)
		}()
	}
	wg.Wait()

	require.Empty(t, errs)
	sort.Ints(numbers)
	want := make([]int, k)
	for i := range want {
		want[i] = prior + i + 1
	}
	assert.Equal(t, want, numbers)
}

func TestAttemptRepository_ScoringFieldsAreWriteOnce(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAttemptRepository(db)
	ctx := context.Background()
	q := seedQuestion(t, db)

	a, err := repo.Persist(ctx, newAttempt("user-1", q, 61))
	require.NoError(t, err)

	err = db.Model(a).Update("overall_score", 90).Error
	assert.ErrorIs(t, err, model.ErrScoringFieldsImmutable)

	reviewed, err := repo.SetReviewFlag(ctx, a.ID, true, "score looks low")
	require.NoError(t, err)
	assert.True(t, reviewed.NeedsReview)

	stored, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, stored.NeedsReview)
	assert.Equal(t, "score looks low", stored.ReviewNote)
	assert.Equal(t, 61.0, stored.OverallScore)
	require.NotNil(t, stored.Question)
	assert.Equal(t, q.ID, stored.Question.ID)
}

func TestAttemptRepository_NotFound(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAttemptRepository(db)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = repo.FindLatest(ctx, "user-1", 1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = repo.SetReviewFlag(ctx, 999, true, "")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
