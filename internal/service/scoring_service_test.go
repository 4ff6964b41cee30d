package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/lshigami/pte-scorer/config"
	"github.com/lshigami/pte-scorer/internal/apperr"
	"github.com/lshigami/pte-scorer/internal/dto"
	mock_quota "github.com/lshigami/pte-scorer/internal/mocks/quota"
	mock_scoring "github.com/lshigami/pte-scorer/internal/mocks/scoring"
	mock_transcription "github.com/lshigami/pte-scorer/internal/mocks/transcription"
	"github.com/lshigami/pte-scorer/internal/model"
	"github.com/lshigami/pte-scorer/internal/quota"
	"github.com/lshigami/pte-scorer/internal/repository"
	"github.com/lshigami/pte-scorer/internal/scoring"
	"github.com/lshigami/pte-scorer/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type failingAttemptRepo struct {
	repository.AttemptRepository
}

func (failingAttemptRepo) Persist(context.Context, *model.Attempt) (*model.Attempt, error) {
	return nil, errors.New("database is read-only")
}

type pipelineFixture struct {
	db          *gorm.DB
	questions   repository.QuestionRepository
	attempts    repository.AttemptRepository
	tiers       repository.UserTierRepository
	ledger      quota.Ledger
	transcriber *mock_transcription.MockTranscriber
	scorer      *mock_scoring.MockScorer
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	ctrl := gomock.NewController(t)
	db := testutil.NewDB(t)
	tiers := repository.NewUserTierRepository(db)
	cfg := &config.Config{Quota: config.Quota{
		DefaultTier:    "free",
		TierAllowances: map[string]int{"free": 2, "premium": -1},
	}}
	return &pipelineFixture{
		db:          db,
		questions:   repository.NewQuestionRepository(db),
		attempts:    repository.NewAttemptRepository(db),
		tiers:       tiers,
		ledger:      quota.NewSQLLedger(db, quota.NewTierResolver(tiers, cfg), 10*time.Minute),
		transcriber: mock_transcription.NewMockTranscriber(ctrl),
		scorer:      mock_scoring.NewMockScorer(ctrl),
	}
}

func (f *pipelineFixture) service() ScoringService {
	return NewScoringService(f.questions, f.attempts, f.ledger, f.transcriber, f.scorer, NewScoreConverterService())
}

func (f *pipelineFixture) question(t *testing.T, q *model.Question) *model.Question {
	t.Helper()
	require.NoError(t, f.questions.Create(context.Background(), q))
	return q
}

func essayQuestion() *model.Question {
	return &model.Question{
		Type:     model.Essay,
		Title:    "Remote work",
		Prompt:   "Do the advantages of remote work outweigh the disadvantages?",
		MinWords: 200,
		MaxWords: 300,
	}
}

func essayFeedback() model.RubricFeedback {
	comp := func(score float64) model.ComponentScore {
		return model.ComponentScore{Score: score, Max: model.MaxScore, Suggestion: "keep going"}
	}
	return model.RubricFeedback{
		Components: map[model.Component]model.ComponentScore{
			model.ComponentContent:    comp(70),
			model.ComponentGrammar:    comp(65),
			model.ComponentVocabulary: comp(72),
			model.ComponentSpelling:   comp(80),
			model.ComponentStructure:  comp(68),
		},
		Strengths:           []string{"Clear position"},
		AreasForImprovement: []string{"Transitions"},
		Suggestions:         []string{"Plan first"},
	}
}

func textSubmission(text string) dto.SubmitRequest {
	return dto.SubmitRequest{Submission: dto.Submission{
		Kind: model.SubmissionText,
		Text: &dto.TextSubmission{Text: text},
	}}
}

func TestSubmit_TextUntilQuotaExhausted(t *testing.T) {
	f := newPipelineFixture(t)
	q := f.question(t, essayQuestion())
	svc := f.service()
	ctx := context.Background()

	f.scorer.EXPECT().Score(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req scoring.Request) (model.RubricFeedback, error) {
			assert.Equal(t, q.ID, req.Question.ID)
			assert.Nil(t, req.Transcript)
			assert.Equal(t, 4, req.Signals.WordCount)
			return essayFeedback(), nil
		}).Times(2)

	first, err := svc.Submit(ctx, "user-1", q.ID, textSubmission("Remote work saves time."))
	require.NoError(t, err)
	assert.Equal(t, 1, first.AttemptNumber)
	assert.Equal(t, 70.0, first.OverallScore)
	assert.Equal(t, "B2", first.Band)
	assert.Equal(t, model.TranscriptNotApplicable, first.TranscriptStatus)
	require.NotNil(t, first.RemainingQuota)
	assert.Equal(t, 1, *first.RemainingQuota)

	second, err := svc.Submit(ctx, "user-1", q.ID, textSubmission("Remote work saves time."))
	require.NoError(t, err)
	assert.Equal(t, 2, second.AttemptNumber)
	assert.Equal(t, 0, *second.RemainingQuota)

	_, err = svc.Submit(ctx, "user-1", q.ID, textSubmission("Remote work saves time."))
	var qe *apperr.QuotaExceededError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, 2, qe.Limit)

	stored, err := f.attempts.FindLatest(ctx, "user-1", q.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.AttemptNumber)
	assert.Equal(t, 70.0, stored.OverallScore)
	assert.Len(t, stored.Feedback.Data().Components, 5)
}

func TestSubmit_AudioWithUnavailableTranscriptStillCompletes(t *testing.T) {
	f := newPipelineFixture(t)
	q := f.question(t, &model.Question{
		Type:             model.RetellLecture,
		Title:            "Libraries",
		Prompt:           "Retell the lecture.",
		ExpectedKeywords: []string{"library", "quiet", "loud"},
	})

	f.transcriber.EXPECT().
		Transcribe(gomock.Any(), "https://cdn.example.com/a.wav", []string{"library", "quiet", "loud"}).
		Return(model.UnavailableTranscript())
	f.scorer.EXPECT().Score(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req scoring.Request) (model.RubricFeedback, error) {
			require.NotNil(t, req.Transcript)
			assert.Equal(t, model.TranscriptUnavailable, req.Transcript.Status)
			assert.Empty(t, req.CandidateText)
			assert.Equal(t, 3, req.Signals.KeywordTotal)
			return model.RubricFeedback{
				Components: map[model.Component]model.ComponentScore{
					model.ComponentContent:       {Score: 10, Max: 90, Suggestion: "a"},
					model.ComponentFluency:       {Score: 10, Max: 90, Suggestion: "b"},
					model.ComponentPronunciation: {Score: 10, Max: 90, Suggestion: "c"},
				},
				Strengths: []string{"s"}, AreasForImprovement: []string{}, Suggestions: []string{"x"},
			}, nil
		})

	resp, err := f.service().Submit(context.Background(), "user-1", q.ID, dto.SubmitRequest{
		QuestionType: model.RetellLecture,
		Submission: dto.Submission{
			Kind:  model.SubmissionAudio,
			Audio: &dto.AudioSubmission{AudioURL: "https://cdn.example.com/a.wav"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, model.TranscriptUnavailable, resp.TranscriptStatus)
	assert.Empty(t, resp.TranscriptText)
	assert.Equal(t, 10.0, resp.OverallScore)

	stored, err := f.attempts.FindByID(context.Background(), resp.AttemptID)
	require.NoError(t, err)
	assert.Equal(t, model.TranscriptProviderNone, stored.TranscriptProvider)
	require.NotNil(t, stored.AudioURL)
	assert.Equal(t, "https://cdn.example.com/a.wav", *stored.AudioURL)
}

func TestSubmit_ScoringFailureReleasesReservation(t *testing.T) {
	f := newPipelineFixture(t)
	q := f.question(t, essayQuestion())
	ctx := context.Background()

	f.scorer.EXPECT().Score(gomock.Any(), gomock.Any()).
		Return(model.RubricFeedback{}, fmt.Errorf("%w: missing component", apperr.ErrScoringSchemaViolation))

	_, err := f.service().Submit(ctx, "user-1", q.ID, textSubmission("Too short."))
	assert.ErrorIs(t, err, apperr.ErrScoringSchemaViolation)
	status, code := apperr.HTTPStatus(err)
	assert.Equal(t, 500, status)
	assert.Equal(t, "scoring_unavailable", code)

	u, err := f.ledger.Usage(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, u.Committed)
	assert.Equal(t, 0, u.Reserved)

	count, err := f.attempts.CountByUserAndQuestion(ctx, "user-1", q.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSubmit_UnclassifiedScorerErrorIsProviderError(t *testing.T) {
	f := newPipelineFixture(t)
	q := f.question(t, essayQuestion())

	f.scorer.EXPECT().Score(gomock.Any(), gomock.Any()).Return(model.RubricFeedback{}, context.DeadlineExceeded)

	_, err := f.service().Submit(context.Background(), "user-1", q.ID, textSubmission("Anything."))
	assert.ErrorIs(t, err, apperr.ErrScoringProvider)
}

func TestSubmit_PersistFailureNetsZeroQuota(t *testing.T) {
	f := newPipelineFixture(t)
	q := f.question(t, essayQuestion())
	ctx := context.Background()
	f.attempts = failingAttemptRepo{f.attempts}

	f.scorer.EXPECT().Score(gomock.Any(), gomock.Any()).Return(essayFeedback(), nil)

	_, err := f.service().Submit(ctx, "user-1", q.ID, textSubmission("Remote work saves time."))
	assert.ErrorIs(t, err, apperr.ErrPersistence)
	_, code := apperr.HTTPStatus(err)
	assert.Equal(t, "persist_error", code)

	u, err := f.ledger.Usage(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, u.Committed)
	assert.Equal(t, 0, u.Reserved)
	assert.Equal(t, 2, u.Remaining())
}

func TestSubmit_ChoiceScoredAgainstAnswerKey(t *testing.T) {
	f := newPipelineFixture(t)
	q := f.question(t, &model.Question{
		Type:   model.ReadingMultipleChoiceMultiple,
		Title:  "Bees",
		Prompt: "Which statements are supported?",
		Options: []model.QuestionOption{
			{ID: "a", Text: "Bees dance"}, {ID: "b", Text: "Bees sleep"},
			{ID: "c", Text: "Bees navigate by sun"}, {ID: "d", Text: "Bees hibernate"},
		},
		CorrectOptionIDs: []string{"a", "c"},
	})

	svc := NewScoringService(f.questions, f.attempts, f.ledger, f.transcriber, scoring.NewChoiceScorer(), NewScoreConverterService())
	resp, err := svc.Submit(context.Background(), "user-1", q.ID, dto.SubmitRequest{Submission: dto.Submission{
		Kind:   model.SubmissionChoice,
		Choice: &dto.ChoiceSubmission{SelectedOptionIDs: []string{"a"}},
	}})
	require.NoError(t, err)
	assert.Equal(t, 45.0, resp.OverallScore)
	assert.Equal(t, "B1", resp.Band)
	assert.Equal(t, 1, resp.Signals.OptionMatches)
	assert.Equal(t, 2, resp.Signals.OptionTotal)
}

func TestSubmit_RejectsBeforeAnyExternalCall(t *testing.T) {
	f := newPipelineFixture(t)
	essay := f.question(t, essayQuestion())
	choice := f.question(t, &model.Question{
		Type:             model.SelectMissingWord,
		Title:            "Missing word",
		Prompt:           "Select the missing word.",
		Options:          []model.QuestionOption{{ID: "a", Text: "river"}, {ID: "b", Text: "ocean"}},
		CorrectOptionIDs: []string{"b"},
	})

	tests := []struct {
		name       string
		questionID uint
		req        dto.SubmitRequest
		wantErr    error
	}{
		{"unknown question", 9999, textSubmission("hello"), apperr.ErrNotFound},
		{
			name:       "kind does not match question type",
			questionID: essay.ID,
			req: dto.SubmitRequest{Submission: dto.Submission{
				Kind: model.SubmissionAudio, Audio: &dto.AudioSubmission{AudioURL: "https://x.example/a.wav"},
			}},
			wantErr: apperr.ErrValidation,
		},
		{
			name:       "declared question type differs",
			questionID: essay.ID,
			req: dto.SubmitRequest{QuestionType: model.SummarizeWrittenText, Submission: dto.Submission{
				Kind: model.SubmissionText, Text: &dto.TextSubmission{Text: "hello"},
			}},
			wantErr: apperr.ErrValidation,
		},
		{
			name:       "payload missing for kind",
			questionID: essay.ID,
			req:        dto.SubmitRequest{Submission: dto.Submission{Kind: model.SubmissionText}},
			wantErr:    apperr.ErrValidation,
		},
		{
			name:       "unknown option",
			questionID: choice.ID,
			req: dto.SubmitRequest{Submission: dto.Submission{
				Kind: model.SubmissionChoice, Choice: &dto.ChoiceSubmission{SelectedOptionIDs: []string{"z"}},
			}},
			wantErr: apperr.ErrValidation,
		},
		{
			name:       "duplicate option",
			questionID: choice.ID,
			req: dto.SubmitRequest{Submission: dto.Submission{
				Kind: model.SubmissionChoice, Choice: &dto.ChoiceSubmission{SelectedOptionIDs: []string{"a", "a"}},
			}},
			wantErr: apperr.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := NewScoringService(
				f.questions, f.attempts,
				mock_quota.NewMockLedger(ctrl),
				mock_transcription.NewMockTranscriber(ctrl),
				mock_scoring.NewMockScorer(ctrl),
				NewScoreConverterService(),
			)
			_, err := svc.Submit(context.Background(), "user-1", tt.questionID, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSubmit_ConcurrentAttemptsNumberedContiguously(t *testing.T) {
	f := newPipelineFixture(t)
	q := f.question(t, essayQuestion())
	ctx := context.Background()
	require.NoError(t, f.tiers.SetTier(ctx, "user-1", "premium"))

	f.scorer.EXPECT().Score(gomock.Any(), gomock.Any()).Return(essayFeedback(), nil).AnyTimes()
	svc := f.service()

	const k = 8
	numbers := make([]int, k)
	var g errgroup.Group
	for i := 0; i < k; i++ {
		g.Go(func() error {
			resp, err := svc.Submit(ctx, "user-1", q.ID, textSubmission("Remote work saves time."))
			if err != nil {
				return err
			}
			assert.Nil(t, resp.RemainingQuota)
			numbers[i] = resp.AttemptNumber
			return nil
		})
	}
	require.NoError(t, g.Wait())

	sort.Ints(numbers)
	for i, n := range numbers {
		assert.Equal(t, i+1, n)
	}

	u, err := f.ledger.Usage(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, k, u.Committed)
	assert.Equal(t, 0, u.Reserved)
}

func TestSubmit_DeadlinePassedDuringScoring(t *testing.T) {
	tests := []struct {
		name  string
		score func(ctx context.Context, _ scoring.Request) (model.RubricFeedback, error)
	}{
		{
			name: "scorer answers after the deadline",
			score: func(ctx context.Context, _ scoring.Request) (model.RubricFeedback, error) {
				<-ctx.Done()
				return essayFeedback(), nil
			},
		},
		{
			name: "scorer gives up at the deadline",
			score: func(ctx context.Context, _ scoring.Request) (model.RubricFeedback, error) {
				<-ctx.Done()
				return model.RubricFeedback{}, fmt.Errorf("gemini: %w", ctx.Err())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPipelineFixture(t)
			q := f.question(t, essayQuestion())
			f.scorer.EXPECT().Score(gomock.Any(), gomock.Any()).DoAndReturn(tt.score)

			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
			defer cancel()
			_, err := f.service().Submit(ctx, "user-1", q.ID, textSubmission("Remote work saves time."))
			require.ErrorIs(t, err, apperr.ErrRequestTimeout)
			status, code := apperr.HTTPStatus(err)
			assert.Equal(t, 504, status)
			assert.Equal(t, "request_timeout", code)

			count, err := f.attempts.CountByUserAndQuestion(context.Background(), "user-1", q.ID)
			require.NoError(t, err)
			assert.Zero(t, count, "nothing is saved once the client can no longer be answered")

			u, err := f.ledger.Usage(context.Background(), "user-1")
			require.NoError(t, err)
			assert.Equal(t, 0, u.Committed)
			assert.Equal(t, 0, u.Reserved)
		})
	}
}
