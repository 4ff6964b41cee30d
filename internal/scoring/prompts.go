package scoring

import (
	"fmt"
	"strings"

	"github.com/lshigami/pte-scorer/internal/model"
)

const speakingSystemInstruction = `You are an expert PTE Academic speaking examiner.
You receive an automatic transcript of a candidate's spoken response together with objective measurements.
Score each requested rubric component on a 0 to 90 scale, where 90 is native-like performance.
Judge pronunciation and fluency from the transcript, word timings and speaking rate; judge content against the prompt and reference material.
If the transcript is empty or unavailable, score on the available evidence and say so in your suggestions.
For each component give one short, concrete suggestion. List strengths, areas for improvement and overall suggestions as short sentences.
When a reference text is given, classify each reference word as good, average, poor or omitted, and each extra spoken word as inserted.
Respond only with JSON matching the provided schema.`

const writingSystemInstruction = `You are an expert PTE Academic writing examiner.
Score each requested rubric component of the candidate's written response on a 0 to 90 scale, where 90 is native-like performance.
Content measures how fully the response addresses the task; grammar, vocabulary, spelling and structure follow the PTE descriptors.
Penalise responses that fall outside the required word range.
For each component give one short, concrete suggestion that quotes or corrects the candidate's own text where possible.
List strengths, areas for improvement and overall suggestions as short sentences.
Respond only with JSON matching the provided schema.`

func systemInstruction(qt model.QuestionType) string {
	if qt.IsSpoken() {
		return speakingSystemInstruction
	}
	return writingSystemInstruction
}

func buildUserPrompt(req Request) string {
	q := req.Question
	var sb strings.Builder

	fmt.Fprintf(&sb, "Question type: %s (%s)\n", q.Type, q.Type.Category())
	fmt.Fprintf(&sb, "Task prompt:\n%s\n\n", q.Prompt)
	if q.ReferenceText != "" {
		fmt.Fprintf(&sb, "Reference text:\n%s\n\n", q.ReferenceText)
	}
	if len(q.ExpectedKeywords) > 0 {
		fmt.Fprintf(&sb, "Expected keywords: %s\n", strings.Join(q.ExpectedKeywords, ", "))
	}
	if q.ImageURL != nil && *q.ImageURL != "" {
		fmt.Fprintf(&sb, "Image shown to the candidate: %s\n", *q.ImageURL)
	}
	if q.MinWords > 0 || q.MaxWords > 0 {
		fmt.Fprintf(&sb, "Required length: %d to %d words\n", q.MinWords, q.MaxWords)
	}

	comps := q.Type.Components()
	names := make([]string, len(comps))
	for i, c := range comps {
		names[i] = string(c)
	}
	fmt.Fprintf(&sb, "Components to score: %s\n\n", strings.Join(names, ", "))

	if req.Transcript != nil {
		fmt.Fprintf(&sb, "Transcript status: %s\n", req.Transcript.Status)
		if req.Transcript.Status == model.TranscriptUnavailable {
			sb.WriteString("The transcript could not be produced; the candidate's words are unknown.\n")
		}
		sb.WriteString("Candidate transcript:\n")
	} else {
		sb.WriteString("Candidate response:\n")
	}
	text := strings.TrimSpace(req.CandidateText)
	if text == "" {
		text = "(empty)"
	}
	fmt.Fprintf(&sb, "%s\n\n", text)

	sb.WriteString("Objective signals (advisory):\n")
	fmt.Fprintf(&sb, "- word count: %d\n", req.Signals.WordCount)
	if req.Signals.KeywordTotal > 0 {
		fmt.Fprintf(&sb, "- keyword coverage: %d of %d (%s)\n",
			req.Signals.KeywordHits, req.Signals.KeywordTotal, strings.Join(req.Signals.MatchedKeywords, ", "))
	}
	if req.Signals.SpeakingRateWPM != nil {
		fmt.Fprintf(&sb, "- speaking rate: %.1f words per minute\n", *req.Signals.SpeakingRateWPM)
	}
	return sb.String()
}
