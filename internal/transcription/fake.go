package transcription

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/lshigami/pte-scorer/internal/model"
)

const defaultFakeText = "this is a sample spoken response"

// FakeProvider is a deterministic in-process provider for local development. Jobs report
// processing once and then complete with Text followed by the submitted hints.
type FakeProvider struct {
	Text string

	mu   sync.Mutex
	jobs map[string]*fakeJob
}

type fakeJob struct {
	text  string
	polls int
}

func NewFakeProvider(text string) *FakeProvider {
	if text == "" {
		text = defaultFakeText
	}
	return &FakeProvider{Text: text, jobs: make(map[string]*fakeJob)}
}

func (p *FakeProvider) Submit(ctx context.Context, audioURL string, hints []string) (string, error) {
	if strings.TrimSpace(audioURL) == "" {
		return "", fmt.Errorf("%w: empty audio url", ErrRejected)
	}
	text := p.Text
	if len(hints) > 0 {
		text = text + " " + strings.Join(hints, " ")
	}

	id := uuid.NewString()
	p.mu.Lock()
	p.jobs[id] = &fakeJob{text: text}
	p.mu.Unlock()
	return id, nil
}

func (p *FakeProvider) PollStatus(ctx context.Context, jobID string) (JobStatus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	job, ok := p.jobs[jobID]
	if !ok {
		return JobStatus{State: JobError, Error: "unknown job " + jobID}, nil
	}
	job.polls++
	if job.polls == 1 {
		return JobStatus{State: JobProcessing}, nil
	}
	delete(p.jobs, jobID)

	fields := strings.Fields(job.text)
	words := make([]model.TranscriptWord, len(fields))
	for i, f := range fields {
		start := float64(i) * 0.4
		words[i] = model.TranscriptWord{Word: f, Start: start, End: start + 0.35, Confidence: 0.95}
	}
	return JobStatus{State: JobCompleted, Text: job.text, Words: words}, nil
}
