package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lshigami/pte-scorer/internal/apperr"
	"github.com/lshigami/pte-scorer/internal/dto"
	"github.com/lshigami/pte-scorer/internal/model"
	"github.com/lshigami/pte-scorer/internal/quota"
	"github.com/lshigami/pte-scorer/internal/repository"
	"github.com/lshigami/pte-scorer/internal/scoring"
	"github.com/lshigami/pte-scorer/internal/signals"
	"github.com/lshigami/pte-scorer/internal/tracing"
	"github.com/lshigami/pte-scorer/internal/transcription"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
)

//go:generate mockgen -source=scoring_service.go -destination=../mocks/service/mock_scoring_service.go -package=mock_service

// State is a stage of one scoring run.
type State string

const (
	StateReceived         State = "received"
	StateQuotaCheck       State = "quota_check"
	StateTranscribing     State = "transcribing"
	StateSignalExtraction State = "signal_extraction"
	StateScoring          State = "scoring"
	StateAggregating      State = "aggregating"
	StatePersisting       State = "persisting"
	StateCompleted        State = "completed"
	StateFailed           State = "failed"
)

type ScoringService interface {
	Submit(ctx context.Context, userID string, questionID uint, req dto.SubmitRequest) (*dto.ScoringResponse, error)
}

type scoringService struct {
	questionRepo repository.QuestionRepository
	attemptRepo  repository.AttemptRepository
	ledger       quota.Ledger
	transcriber  transcription.Transcriber
	scorer       scoring.Scorer
	converter    ScoreConverterService
}

func NewScoringService(
	questionRepo repository.QuestionRepository,
	attemptRepo repository.AttemptRepository,
	ledger quota.Ledger,
	transcriber transcription.Transcriber,
	scorer scoring.Scorer,
	converter ScoreConverterService,
) ScoringService {
	return &scoringService{
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		ledger:       ledger,
		transcriber:  transcriber,
		scorer:       scorer,
		converter:    converter,
	}
}

// run records the state trace of one submission and opens a span per stage.
type run struct {
	logger  zerolog.Logger
	started time.Time
	states  []string
	span    trace.Span
}

func (r *run) enter(ctx context.Context, s State) context.Context {
	if r.span != nil {
		r.span.End()
	}
	r.states = append(r.states, string(s))
	r.logger.Debug().Str("state", string(s)).Msg("Scoring run state")
	ctx, r.span = tracing.Tracer().Start(ctx, "pipeline."+string(s))
	return ctx
}

func (r *run) fail(reason string, err error) {
	r.states = append(r.states, string(StateFailed))
	if r.span != nil {
		r.span.RecordError(err)
		r.span.SetStatus(codes.Error, reason)
		r.span.End()
		r.span = nil
	}
	r.logger.Warn().Err(err).Str("reason", reason).Strs("states", r.states).
		Dur("elapsed", time.Since(r.started)).Msg("Scoring run failed")
}

func (r *run) complete(attemptID uint, overall float64) {
	r.states = append(r.states, string(StateCompleted))
	if r.span != nil {
		r.span.End()
		r.span = nil
	}
	r.logger.Info().Uint("attempt_id", attemptID).Float64("overall_score", overall).Strs("states", r.states).
		Dur("elapsed", time.Since(r.started)).Msg("Scoring run completed")
}

func (s *scoringService) Submit(ctx context.Context, userID string, questionID uint, req dto.SubmitRequest) (*dto.ScoringResponse, error) {
	ctx, root := tracing.Tracer().Start(ctx, "pipeline.Submit", trace.WithAttributes(
		attribute.String("user.id", userID),
		attribute.Int("question.id", int(questionID)),
	))
	defer root.End()

	r := &run{
		logger:  log.With().Str("user_id", userID).Uint("question_id", questionID).Logger(),
		started: time.Now(),
	}
	stageCtx := r.enter(ctx, StateReceived)

	question, err := s.validate(stageCtx, questionID, req)
	if err != nil {
		r.fail("validation", err)
		return nil, err
	}
	root.SetAttributes(attribute.String("question.type", string(question.Type)))

	stageCtx = r.enter(ctx, StateQuotaCheck)
	res, err := s.ledger.CheckAndReserve(stageCtx, userID)
	if err != nil {
		reason := "quota_unavailable"
		if errors.Is(err, apperr.ErrQuotaExceeded) {
			reason = "quota_exceeded"
		}
		r.fail(reason, err)
		return nil, err
	}

	sub := req.Submission
	var (
		candidate  string
		transcript *model.Transcript
	)
	switch sub.Kind {
	case model.SubmissionAudio:
		stageCtx = r.enter(ctx, StateTranscribing)
		t := s.transcriber.Transcribe(stageCtx, sub.Audio.AudioURL, question.ExpectedKeywords)
		if t.Status == model.TranscriptUnavailable {
			r.logger.Warn().Err(apperr.ErrTranscriptionUnavailable).Msg("Scoring without transcript")
		}
		transcript = &t
		candidate = t.Text
	case model.SubmissionText:
		candidate = sub.Text.Text
	}

	r.enter(ctx, StateSignalExtraction)
	var sig model.ObjectiveSignals
	if sub.Kind == model.SubmissionChoice {
		sig = signals.ExtractChoice(sub.Choice.SelectedOptionIDs, question.CorrectOptionIDs)
	} else {
		sig = signals.Extract(candidate, transcript, question.ExpectedKeywords)
	}

	stageCtx = r.enter(ctx, StateScoring)
	scoringReq := scoring.Request{
		Question:      question,
		CandidateText: candidate,
		Transcript:    transcript,
		Signals:       sig,
	}
	if sub.Choice != nil {
		scoringReq.SelectedOptionIDs = sub.Choice.SelectedOptionIDs
	}
	feedback, err := s.scorer.Score(stageCtx, scoringReq)
	if err != nil {
		if ctx.Err() != nil {
			err = fmt.Errorf("%w: %v", apperr.ErrRequestTimeout, err)
			s.release(ctx, r, res)
			r.fail("request_timeout", err)
			return nil, err
		}
		if !errors.Is(err, apperr.ErrScoringProvider) && !errors.Is(err, apperr.ErrScoringSchemaViolation) {
			err = fmt.Errorf("%w: %v", apperr.ErrScoringProvider, err)
		}
		s.release(ctx, r, res)
		r.fail("scoring_unavailable", err)
		return nil, err
	}

	r.enter(ctx, StateAggregating)
	overall := scoring.Aggregate(feedback, question.Type)

	// Past the deadline the client can no longer receive a result, so nothing is saved or charged.
	if ctxErr := ctx.Err(); ctxErr != nil {
		err := fmt.Errorf("%w: before persisting: %v", apperr.ErrRequestTimeout, ctxErr)
		s.release(ctx, r, res)
		r.fail("request_timeout", err)
		return nil, err
	}

	stageCtx = r.enter(ctx, StatePersisting)
	attempt := newAttempt(userID, question, sub, transcript, sig, feedback, overall)
	saved, err := s.attemptRepo.Persist(stageCtx, attempt)
	if err != nil {
		err = fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
		s.release(ctx, r, res)
		r.fail("persist_error", err)
		return nil, err
	}
	if err := s.ledger.Commit(context.WithoutCancel(ctx), res); err != nil {
		r.logger.Error().Err(err).Uint("attempt_id", saved.ID).Msg("Failed to commit quota reservation")
	}

	r.complete(saved.ID, overall)
	return s.buildResponse(ctx, r, saved, feedback, sig, res), nil
}

// validate checks everything that can be rejected before any external call.
func (s *scoringService) validate(ctx context.Context, questionID uint, req dto.SubmitRequest) (*model.Question, error) {
	if err := req.Submission.Check(); err != nil {
		return nil, apperr.Validation("%v", err)
	}
	question, err := s.questionRepo.FindByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if req.QuestionType != "" && req.QuestionType != question.Type {
		return nil, apperr.Validation("question %d is %s, not %s", question.ID, question.Type, req.QuestionType)
	}
	if want := question.Type.SubmissionKind(); req.Submission.Kind != want {
		return nil, apperr.Validation("%s questions take %s submissions, got %s", question.Type, want, req.Submission.Kind)
	}
	if req.Submission.Choice != nil {
		known := make(map[string]bool, len(question.Options))
		for _, o := range question.Options {
			known[o.ID] = true
		}
		seen := make(map[string]bool, len(req.Submission.Choice.SelectedOptionIDs))
		for _, id := range req.Submission.Choice.SelectedOptionIDs {
			if !known[id] {
				return nil, apperr.Validation("unknown option %q", id)
			}
			if seen[id] {
				return nil, apperr.Validation("option %q selected more than once", id)
			}
			seen[id] = true
		}
	}
	return question, nil
}

// release returns the reservation even when the request context is already cancelled.
func (s *scoringService) release(ctx context.Context, r *run, res quota.Reservation) {
	if err := s.ledger.Release(context.WithoutCancel(ctx), res); err != nil {
		r.logger.Error().Err(err).Msg("Failed to release quota reservation")
	}
}

func newAttempt(
	userID string,
	question *model.Question,
	sub dto.Submission,
	transcript *model.Transcript,
	sig model.ObjectiveSignals,
	feedback model.RubricFeedback,
	overall float64,
) *model.Attempt {
	a := &model.Attempt{
		UserID:           userID,
		QuestionID:       question.ID,
		QuestionType:     question.Type,
		SubmissionKind:   sub.Kind,
		TranscriptStatus: model.TranscriptNotApplicable,
		WordCount:        sig.WordCount,
		Signals:          datatypes.NewJSONType(sig),
		Feedback:         datatypes.NewJSONType(feedback),
		OverallScore:     overall,
		TimeTakenSeconds: sub.TimeTakenSeconds,
	}
	switch {
	case sub.Audio != nil:
		url := sub.Audio.AudioURL
		a.AudioURL = &url
	case sub.Text != nil:
		a.ResponseText = sub.Text.Text
		if sub.Text.WordCount > 0 {
			a.WordCount = sub.Text.WordCount
		}
	case sub.Choice != nil:
		a.SelectedOptionIDs = datatypes.JSONSlice[string](sub.Choice.SelectedOptionIDs)
	}
	if transcript != nil {
		a.TranscriptText = transcript.Text
		a.TranscriptWords = datatypes.JSONSlice[model.TranscriptWord](transcript.Words)
		a.TranscriptProvider = transcript.Provider
		a.TranscriptStatus = transcript.Status
	}
	return a
}

func (s *scoringService) buildResponse(
	ctx context.Context,
	r *run,
	a *model.Attempt,
	feedback model.RubricFeedback,
	sig model.ObjectiveSignals,
	res quota.Reservation,
) *dto.ScoringResponse {
	resp := &dto.ScoringResponse{
		AttemptID:        a.ID,
		AttemptNumber:    a.AttemptNumber,
		QuestionID:       a.QuestionID,
		QuestionType:     a.QuestionType,
		OverallScore:     a.OverallScore,
		Feedback:         feedback,
		Signals:          sig,
		TranscriptStatus: a.TranscriptStatus,
		TranscriptText:   a.TranscriptText,
	}
	if band, err := s.converter.ToBand(a.OverallScore); err == nil {
		resp.Band = band
	} else {
		r.logger.Warn().Err(err).Msg("Could not convert score to band")
	}
	if !res.Unlimited {
		usage, err := s.ledger.Usage(ctx, a.UserID)
		if err != nil {
			r.logger.Warn().Err(err).Msg("Could not read remaining quota")
		} else {
			remaining := usage.Remaining()
			resp.RemainingQuota = &remaining
		}
	}
	return resp
}
