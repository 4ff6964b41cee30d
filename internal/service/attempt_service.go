package service

import (
	"context"

	"github.com/jinzhu/copier"
	"github.com/lshigami/pte-scorer/internal/apperr"
	"github.com/lshigami/pte-scorer/internal/dto"
	"github.com/lshigami/pte-scorer/internal/model"
	"github.com/lshigami/pte-scorer/internal/repository"
	"github.com/rs/zerolog/log"
)

//go:generate mockgen -source=attempt_service.go -destination=../mocks/service/mock_attempt_service.go -package=mock_service

type AttemptService interface {
	ListAttempts(ctx context.Context, userID string, questionID uint) ([]dto.AttemptResponse, error)
	LatestAttempt(ctx context.Context, userID string, questionID uint) (*dto.AttemptResponse, error)
	// GetAttempt returns an attempt owned by userID. Attempts of other users are reported as not found.
	GetAttempt(ctx context.Context, userID string, attemptID uint) (*dto.AttemptResponse, error)
	ReviewAttempt(ctx context.Context, attemptID uint, req dto.ReviewAttemptRequest) (*dto.AttemptResponse, error)
}

type attemptService struct {
	attemptRepo  repository.AttemptRepository
	questionRepo repository.QuestionRepository
	converter    ScoreConverterService
}

func NewAttemptService(
	attemptRepo repository.AttemptRepository,
	questionRepo repository.QuestionRepository,
	converter ScoreConverterService,
) AttemptService {
	return &attemptService{
		attemptRepo:  attemptRepo,
		questionRepo: questionRepo,
		converter:    converter,
	}
}

func (s *attemptService) ListAttempts(ctx context.Context, userID string, questionID uint) ([]dto.AttemptResponse, error) {
	if _, err := s.questionRepo.FindByID(ctx, questionID); err != nil {
		return nil, err
	}
	attempts, err := s.attemptRepo.ListByUserAndQuestion(ctx, userID, questionID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Uint("question_id", questionID).Msg("Failed to list attempts")
		return nil, err
	}
	resp := make([]dto.AttemptResponse, 0, len(attempts))
	for i := range attempts {
		resp = append(resp, s.toResponse(&attempts[i]))
	}
	return resp, nil
}

func (s *attemptService) LatestAttempt(ctx context.Context, userID string, questionID uint) (*dto.AttemptResponse, error) {
	attempt, err := s.attemptRepo.FindLatest(ctx, userID, questionID)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(attempt)
	return &resp, nil
}

func (s *attemptService) GetAttempt(ctx context.Context, userID string, attemptID uint) (*dto.AttemptResponse, error) {
	attempt, err := s.attemptRepo.FindByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, apperr.NotFound("attempt %d", attemptID)
	}
	resp := s.toResponse(attempt)
	return &resp, nil
}

func (s *attemptService) ReviewAttempt(ctx context.Context, attemptID uint, req dto.ReviewAttemptRequest) (*dto.AttemptResponse, error) {
	if req.NeedsReview == nil {
		return nil, apperr.Validation("needs_review is required")
	}
	attempt, err := s.attemptRepo.SetReviewFlag(ctx, attemptID, *req.NeedsReview, req.Note)
	if err != nil {
		return nil, err
	}
	log.Info().Uint("attempt_id", attemptID).Bool("needs_review", *req.NeedsReview).Msg("Attempt review flag updated")
	resp := s.toResponse(attempt)
	return &resp, nil
}

func (s *attemptService) toResponse(a *model.Attempt) dto.AttemptResponse {
	var resp dto.AttemptResponse
	copier.Copy(&resp, a)
	resp.SelectedOptionIDs = a.SelectedOptionIDs
	resp.Feedback = a.Feedback.Data()
	resp.Signals = a.Signals.Data()
	if band, err := s.converter.ToBand(a.OverallScore); err == nil {
		resp.Band = band
	}
	return resp
}
