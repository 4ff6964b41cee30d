package model

type TranscriptStatus string

const (
	TranscriptOK          TranscriptStatus = "ok"
	TranscriptEmpty       TranscriptStatus = "empty"
	TranscriptUnavailable TranscriptStatus = "unavailable"
	// TranscriptNotApplicable marks submissions that had no audio.
	TranscriptNotApplicable TranscriptStatus = "not_applicable"
)

const TranscriptProviderNone = "none"

type TranscriptWord struct {
	Word       string  `json:"word"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence"`
}

type Transcript struct {
	Text     string           `json:"text"`
	Words    []TranscriptWord `json:"words,omitempty"`
	Provider string           `json:"provider"`
	Status   TranscriptStatus `json:"status"`
}

// UnavailableTranscript is the degraded result used when no provider produced a transcript.
func UnavailableTranscript() Transcript {
	return Transcript{Provider: TranscriptProviderNone, Status: TranscriptUnavailable}
}
