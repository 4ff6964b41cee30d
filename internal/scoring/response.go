package scoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/lshigami/pte-scorer/internal/llm"
	"github.com/lshigami/pte-scorer/internal/model"
)

var wordStatuses = []string{
	string(model.WordGood), string(model.WordAverage), string(model.WordPoor),
	string(model.WordOmitted), string(model.WordInserted),
}

type wireComponent struct {
	Score      float64 `json:"score" validate:"gte=0,lte=90"`
	Suggestion string  `json:"suggestion" validate:"required"`
}

type wireWord struct {
	Word   string `json:"word" validate:"required"`
	Status string `json:"status" validate:"oneof=good average poor omitted inserted"`
}

type wireFeedback struct {
	Components          map[string]wireComponent `json:"components" validate:"dive"`
	OverallScore        *float64                 `json:"overall_score" validate:"omitempty,gte=0,lte=90"`
	Strengths           []string                 `json:"strengths" validate:"required,min=1,dive,required"`
	AreasForImprovement []string                 `json:"areas_for_improvement" validate:"required,dive,required"`
	Suggestions         []string                 `json:"suggestions" validate:"required,min=1,dive,required"`
	WordAnalysis        []wireWord               `json:"word_analysis" validate:"omitempty,dive"`
}

// responseSchema declares the document the model must return for a question type.
func responseSchema(qt model.QuestionType) *llm.Schema {
	feedbackList := func(desc string) *llm.Schema { return llm.ArrayOf(llm.String(desc), desc) }

	props := map[string]*llm.Schema{
		"strengths":             feedbackList("what the candidate did well"),
		"areas_for_improvement": feedbackList("weaknesses to work on"),
		"suggestions":           feedbackList("concrete next steps"),
	}
	required := []string{"strengths", "areas_for_improvement", "suggestions"}

	comps := qt.Components()
	if len(comps) > 0 {
		compProps := make(map[string]*llm.Schema, len(comps))
		compNames := make([]string, 0, len(comps))
		for _, c := range comps {
			compProps[string(c)] = llm.Object(map[string]*llm.Schema{
				"score":      llm.Number(string(c)+" score", 0, model.MaxScore),
				"suggestion": llm.String("one short suggestion for " + string(c)),
			}, "score", "suggestion")
			compNames = append(compNames, string(c))
		}
		props["components"] = llm.Object(compProps, compNames...)
		required = append(required, "components")
	} else {
		props["overall_score"] = llm.Number("overall score", 0, model.MaxScore)
		required = append(required, "overall_score")
	}

	if qt.IsSpoken() {
		props["word_analysis"] = llm.ArrayOf(llm.Object(map[string]*llm.Schema{
			"word":   llm.String("a reference or spoken word"),
			"status": llm.Enum("how the word was produced", wordStatuses...),
		}, "word", "status"), "per-word pronunciation analysis")
	}
	return llm.Object(props, required...)
}

// decodeFeedback strictly decodes and validates a model response for qt.
func decodeFeedback(raw []byte, qt model.QuestionType, validate *validator.Validate) (model.RubricFeedback, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var wf wireFeedback
	if err := dec.Decode(&wf); err != nil {
		return model.RubricFeedback{}, fmt.Errorf("decode: %w", err)
	}
	if dec.More() {
		return model.RubricFeedback{}, fmt.Errorf("decode: trailing data after document")
	}
	if err := validate.Struct(wf); err != nil {
		return model.RubricFeedback{}, fmt.Errorf("validate: %w", err)
	}

	expected := qt.Components()
	allowed := make(map[string]bool, len(expected))
	for _, c := range expected {
		allowed[string(c)] = true
		if _, ok := wf.Components[string(c)]; !ok {
			return model.RubricFeedback{}, fmt.Errorf("missing component %q", c)
		}
	}
	var extra []string
	for name := range wf.Components {
		if !allowed[name] {
			extra = append(extra, name)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		return model.RubricFeedback{}, fmt.Errorf("unexpected components %v", extra)
	}
	if len(expected) == 0 && wf.OverallScore == nil {
		return model.RubricFeedback{}, fmt.Errorf("missing overall_score")
	}

	fb := model.RubricFeedback{
		Components:          make(map[model.Component]model.ComponentScore, len(wf.Components)),
		Strengths:           wf.Strengths,
		AreasForImprovement: wf.AreasForImprovement,
		Suggestions:         wf.Suggestions,
	}
	for name, c := range wf.Components {
		fb.Components[model.Component(name)] = model.ComponentScore{
			Score:      c.Score,
			Max:        model.MaxScore,
			Suggestion: c.Suggestion,
		}
	}
	// The overall score is derived whenever components exist.
	if len(expected) == 0 {
		fb.OverallScore = wf.OverallScore
	}
	for _, w := range wf.WordAnalysis {
		fb.WordAnalysis = append(fb.WordAnalysis, model.WordAnalysis{Word: w.Word, Status: model.WordStatus(w.Status)})
	}
	return fb, nil
}
