package llm

import (
	"context"
	"errors"
)

//go:generate mockgen -source=model.go -destination=../mocks/llm/mock_model.go -package=mock_llm

var ErrEmptyResponse = errors.New("model returned no content")

// StructuredModel returns a JSON document conforming to schema, or an error. It never
// returns free text in place of the document.
type StructuredModel interface {
	GenerateStructured(ctx context.Context, system, user string, schema *Schema) ([]byte, error)
}
