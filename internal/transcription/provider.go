package transcription

import (
	"context"
	"errors"

	"github.com/lshigami/pte-scorer/internal/model"
)

//go:generate mockgen -source=provider.go -destination=../mocks/transcription/mock_provider.go -package=mock_transcription

type JobState string

const (
	JobQueued     JobState = "queued"
	JobProcessing JobState = "processing"
	JobCompleted  JobState = "completed"
	JobError      JobState = "error"
)

type JobStatus struct {
	State JobState
	Text  string
	Words []model.TranscriptWord
	// Error is the provider's failure reason when State is JobError.
	Error string
}

// ErrRejected marks a request the provider will never accept, so it is not retried.
var ErrRejected = errors.New("transcription request rejected")

// Provider is a speech-to-text vendor with asynchronous jobs.
type Provider interface {
	Submit(ctx context.Context, audioURL string, hints []string) (string, error)
	PollStatus(ctx context.Context, jobID string) (JobStatus, error)
}

// Transcriber turns an audio reference into a transcript. It never fails; failures
// degrade to model.UnavailableTranscript.
type Transcriber interface {
	Transcribe(ctx context.Context, audioURL string, hints []string) model.Transcript
}
