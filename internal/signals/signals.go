// Package signals derives deterministic, advisory features from a response.
package signals

import (
	"math"
	"strings"

	"github.com/lshigami/pte-scorer/internal/model"
)

// KeywordCoverage matches each expected keyword case-insensitively as a substring of
// text. Hits keep the order of expected.
func KeywordCoverage(text string, expected []string) (hits []string, total int) {
	lower := strings.ToLower(text)
	hits = []string{}
	for _, kw := range expected {
		k := strings.ToLower(strings.TrimSpace(kw))
		if k == "" {
			continue
		}
		total++
		if strings.Contains(lower, k) {
			hits = append(hits, kw)
		}
	}
	return hits, total
}

func WordCount(text string) int {
	return len(strings.Fields(text))
}

// SpeakingRate returns words per minute over the span of the timed words, or nil when
// timings are missing.
func SpeakingRate(words []model.TranscriptWord) *float64 {
	if len(words) == 0 {
		return nil
	}
	start, end := words[0].Start, words[0].End
	for _, w := range words[1:] {
		start = math.Min(start, w.Start)
		end = math.Max(end, w.End)
	}
	span := end - start
	if span <= 0 {
		return nil
	}
	wpm := math.Round(float64(len(words))/span*60*10) / 10
	return &wpm
}

// OptionMatches counts selected ids that appear in correct.
func OptionMatches(selected, correct []string) int {
	want := make(map[string]struct{}, len(correct))
	for _, id := range correct {
		want[id] = struct{}{}
	}
	n := 0
	for _, id := range selected {
		if _, ok := want[id]; ok {
			n++
		}
	}
	return n
}

// Extract builds the signals for one response. transcript is nil for non-audio submissions.
func Extract(text string, transcript *model.Transcript, expected []string) model.ObjectiveSignals {
	hits, total := KeywordCoverage(text, expected)
	s := model.ObjectiveSignals{
		KeywordHits:     len(hits),
		KeywordTotal:    total,
		MatchedKeywords: hits,
		WordCount:       WordCount(text),
	}
	if transcript != nil {
		s.SpeakingRateWPM = SpeakingRate(transcript.Words)
	}
	return s
}

// ExtractChoice builds the signals for a choice submission.
func ExtractChoice(selected, correct []string) model.ObjectiveSignals {
	return model.ObjectiveSignals{
		MatchedKeywords: []string{},
		OptionMatches:   OptionMatches(selected, correct),
		OptionTotal:     len(correct),
	}
}
