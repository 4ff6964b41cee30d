package scoring

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lshigami/pte-scorer/internal/apperr"
	"github.com/lshigami/pte-scorer/internal/llm"
	"github.com/lshigami/pte-scorer/internal/model"
	"github.com/lshigami/pte-scorer/internal/tracing"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/semaphore"
)

// RubricClient scores free-response questions with a structured language-model call.
type RubricClient struct {
	model    llm.StructuredModel
	sem      *semaphore.Weighted
	timeout  time.Duration
	validate *validator.Validate
}

func NewRubricClient(m llm.StructuredModel, maxConcurrency int, timeout time.Duration) *RubricClient {
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	return &RubricClient{
		model:    m,
		sem:      semaphore.NewWeighted(int64(maxConcurrency)),
		timeout:  timeout,
		validate: validator.New(),
	}
}

func (c *RubricClient) Score(ctx context.Context, req Request) (model.RubricFeedback, error) {
	qt := req.Question.Type
	ctx, span := tracing.Tracer().Start(ctx, "scoring.Rubric")
	defer span.End()
	span.SetAttributes(attribute.String("question.type", string(qt)))

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := c.sem.Acquire(ctx, 1); err != nil {
		span.SetStatus(codes.Error, "waiting for model slot")
		return model.RubricFeedback{}, fmt.Errorf("%w: waiting for model slot: %v", apperr.ErrScoringProvider, err)
	}
	started := time.Now()
	raw, err := c.model.GenerateStructured(ctx, systemInstruction(qt), buildUserPrompt(req), responseSchema(qt))
	c.sem.Release(1)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "model call failed")
		return model.RubricFeedback{}, fmt.Errorf("%w: %v", apperr.ErrScoringProvider, err)
	}

	fb, err := decodeFeedback(raw, qt, c.validate)
	if err != nil {
		log.Warn().Err(err).Str("question_type", string(qt)).Bytes("raw", truncate(raw, 512)).Msg("Rubric response rejected")
		span.RecordError(err)
		span.SetStatus(codes.Error, "schema violation")
		return model.RubricFeedback{}, fmt.Errorf("%w: %v", apperr.ErrScoringSchemaViolation, err)
	}

	log.Debug().Str("question_type", string(qt)).Dur("latency", time.Since(started)).Int("components", len(fb.Components)).Msg("Rubric scored")
	return fb, nil
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
