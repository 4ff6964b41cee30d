package service

import (
	"context"

	"github.com/jinzhu/copier"
	"github.com/lshigami/pte-scorer/internal/apperr"
	"github.com/lshigami/pte-scorer/internal/dto"
	"github.com/lshigami/pte-scorer/internal/model"
	"github.com/lshigami/pte-scorer/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

//go:generate mockgen -source=question_service.go -destination=../mocks/service/mock_question_service.go -package=mock_service

type QuestionService interface {
	CreateQuestion(ctx context.Context, req dto.CreateQuestionRequest) (*dto.QuestionResponse, error)
	GetQuestion(ctx context.Context, id uint) (*dto.QuestionResponse, error)
	ListQuestions(ctx context.Context, questionType model.QuestionType) ([]dto.QuestionResponse, error)
}

type questionService struct {
	repo repository.QuestionRepository
}

func NewQuestionService(repo repository.QuestionRepository) QuestionService {
	return &questionService{repo: repo}
}

func (s *questionService) CreateQuestion(ctx context.Context, req dto.CreateQuestionRequest) (*dto.QuestionResponse, error) {
	if err := validateQuestion(req); err != nil {
		log.Warn().Err(err).Str("type", string(req.Type)).Msg("Rejected question")
		return nil, err
	}

	question := model.Question{}
	copier.Copy(&question, &req)
	question.ExpectedKeywords = datatypes.JSONSlice[string](req.ExpectedKeywords)
	question.Options = datatypes.JSONSlice[model.QuestionOption](req.Options)
	question.CorrectOptionIDs = datatypes.JSONSlice[string](req.CorrectOptionIDs)

	if err := s.repo.Create(ctx, &question); err != nil {
		log.Error().Err(err).Msg("Failed to create question in service")
		return nil, err
	}
	resp := toQuestionResponse(&question)
	return &resp, nil
}

func (s *questionService) GetQuestion(ctx context.Context, id uint) (*dto.QuestionResponse, error) {
	question, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toQuestionResponse(question)
	return &resp, nil
}

func (s *questionService) ListQuestions(ctx context.Context, questionType model.QuestionType) ([]dto.QuestionResponse, error) {
	if questionType != "" && !questionType.Valid() {
		return nil, apperr.Validation("unknown question type %q", questionType)
	}
	questions, err := s.repo.FindAll(ctx, questionType)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.QuestionResponse, 0, len(questions))
	for i := range questions {
		resp = append(resp, toQuestionResponse(&questions[i]))
	}
	return resp, nil
}

func validateQuestion(req dto.CreateQuestionRequest) error {
	if !req.Type.Valid() {
		return apperr.Validation("unknown question type %q", req.Type)
	}
	if req.MaxWords > 0 && req.MinWords > req.MaxWords {
		return apperr.Validation("min_words %d exceeds max_words %d", req.MinWords, req.MaxWords)
	}
	if req.Type.SubmissionKind() != model.SubmissionChoice {
		return nil
	}

	if len(req.Options) == 0 || len(req.CorrectOptionIDs) == 0 {
		return apperr.Validation("%s questions need options and correct_option_ids", req.Type)
	}
	ids := make(map[string]bool, len(req.Options))
	for _, o := range req.Options {
		if o.ID == "" || ids[o.ID] {
			return apperr.Validation("option ids must be non-empty and unique")
		}
		ids[o.ID] = true
	}
	for _, id := range req.CorrectOptionIDs {
		if !ids[id] {
			return apperr.Validation("correct option %q is not among the options", id)
		}
	}
	return nil
}

func toQuestionResponse(q *model.Question) dto.QuestionResponse {
	var resp dto.QuestionResponse
	copier.Copy(&resp, q)
	resp.Category = q.Type.Category()
	resp.SubmissionKind = q.Type.SubmissionKind()
	resp.ExpectedKeywords = q.ExpectedKeywords
	resp.Options = q.Options
	resp.CorrectOptionIDs = q.CorrectOptionIDs
	return resp
}
