package service

import (
	"fmt"

	"github.com/lshigami/pte-scorer/internal/model"
)

// bandThresholds maps the lower bound of each overall-score range to a CEFR band,
// highest first.
var bandThresholds = []struct {
	min  float64
	band string
}{
	{85, "C2"},
	{76, "C1"},
	{59, "B2"},
	{43, "B1"},
	{30, "A2"},
	{0, "A1"},
}

type ScoreConverterService interface {
	// ToBand converts an overall score on the 0-90 scale to a proficiency band.
	ToBand(overall float64) (string, error)
}

type scoreConverterServiceImpl struct{}

func NewScoreConverterService() ScoreConverterService {
	return &scoreConverterServiceImpl{}
}

func (s *scoreConverterServiceImpl) ToBand(overall float64) (string, error) {
	if overall < 0 || overall > model.MaxScore {
		return "", fmt.Errorf("overall score %.1f is out of valid range (0-%.0f)", overall, model.MaxScore)
	}
	for _, t := range bandThresholds {
		if overall >= t.min {
			return t.band, nil
		}
	}
	return bandThresholds[len(bandThresholds)-1].band, nil
}
