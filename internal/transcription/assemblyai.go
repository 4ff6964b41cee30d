package transcription

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/lshigami/pte-scorer/internal/model"
	"resty.dev/v3"
)

// AssemblyAIProvider talks to the AssemblyAI v2 REST API.
type AssemblyAIProvider struct {
	httpClient *resty.Client
}

func NewAssemblyAIProvider(apiKey, baseURL string, timeout time.Duration) *AssemblyAIProvider {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)
	client.SetHeader("Authorization", apiKey)
	client.SetHeader("Content-Type", "application/json")
	return &AssemblyAIProvider{httpClient: client}
}

func (p *AssemblyAIProvider) Close() error {
	return p.httpClient.Close()
}

type assemblyTranscriptRequest struct {
	AudioURL   string   `json:"audio_url"`
	WordBoost  []string `json:"word_boost,omitempty"`
	BoostParam string   `json:"boost_param,omitempty"`
}

type assemblyWord struct {
	Text       string  `json:"text"`
	Start      int64   `json:"start"`
	End        int64   `json:"end"`
	Confidence float64 `json:"confidence"`
}

type assemblyTranscript struct {
	ID     string         `json:"id"`
	Status string         `json:"status"`
	Text   string         `json:"text"`
	Words  []assemblyWord `json:"words"`
	Error  string         `json:"error"`
}

func (p *AssemblyAIProvider) Submit(ctx context.Context, audioURL string, hints []string) (string, error) {
	body := assemblyTranscriptRequest{AudioURL: audioURL}
	if len(hints) > 0 {
		body.WordBoost = hints
		body.BoostParam = "default"
	}

	response, err := p.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&assemblyTranscript{}).
		Post("/transcript")
	if err != nil {
		return "", fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		err := fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
		if isPermanentStatus(response.StatusCode()) {
			return "", fmt.Errorf("%w: %v", ErrRejected, err)
		}
		return "", err
	}

	result := response.Result().(*assemblyTranscript)
	if result == nil || result.ID == "" {
		return "", fmt.Errorf("empty transcript id: %s", response.String())
	}
	return result.ID, nil
}

func (p *AssemblyAIProvider) PollStatus(ctx context.Context, jobID string) (JobStatus, error) {
	response, err := p.httpClient.R().
		SetContext(ctx).
		SetPathParam("id", jobID).
		SetResult(&assemblyTranscript{}).
		Get("/transcript/{id}")
	if err != nil {
		return JobStatus{}, fmt.Errorf("httpClient.Get > %w", err)
	}
	if response.IsError() {
		return JobStatus{}, fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}

	result := response.Result().(*assemblyTranscript)
	if result == nil {
		return JobStatus{}, fmt.Errorf("empty response body: %s", response.String())
	}

	switch result.Status {
	case "queued":
		return JobStatus{State: JobQueued}, nil
	case "processing":
		return JobStatus{State: JobProcessing}, nil
	case "completed":
		words := make([]model.TranscriptWord, 0, len(result.Words))
		for _, w := range result.Words {
			words = append(words, model.TranscriptWord{
				Word:       w.Text,
				Start:      float64(w.Start) / 1000,
				End:        float64(w.End) / 1000,
				Confidence: w.Confidence,
			})
		}
		return JobStatus{State: JobCompleted, Text: result.Text, Words: words}, nil
	case "error":
		return JobStatus{State: JobError, Error: result.Error}, nil
	default:
		return JobStatus{}, fmt.Errorf("unknown transcript status %q", result.Status)
	}
}

func isPermanentStatus(code int) bool {
	return code >= http.StatusBadRequest && code < http.StatusInternalServerError && code != http.StatusTooManyRequests
}
