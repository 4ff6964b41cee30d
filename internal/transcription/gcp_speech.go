package transcription

import (
	"context"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/lshigami/pte-scorer/internal/model"
	"google.golang.org/api/option"
)

// GCPSpeechProvider runs Cloud Speech long-running recognition. The job id is the
// operation name, so polling works across processes.
type GCPSpeechProvider struct {
	client       *speech.Client
	languageCode string
}

func NewGCPSpeechProvider(ctx context.Context, languageCode string, opts ...option.ClientOption) (*GCPSpeechProvider, error) {
	c, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("speech client: %w", err)
	}
	if languageCode == "" {
		languageCode = "en-US"
	}
	return &GCPSpeechProvider{client: c, languageCode: languageCode}, nil
}

func (p *GCPSpeechProvider) Close() error {
	if p == nil || p.client == nil {
		return nil
	}
	return p.client.Close()
}

func (p *GCPSpeechProvider) Submit(ctx context.Context, audioURL string, hints []string) (string, error) {
	if !strings.HasPrefix(audioURL, "gs://") {
		return "", fmt.Errorf("%w: audio must be a gs:// uri, got %q", ErrRejected, audioURL)
	}

	rc := &speechpb.RecognitionConfig{
		LanguageCode:               p.languageCode,
		EnableAutomaticPunctuation: true,
		EnableWordTimeOffsets:      true,
		EnableWordConfidence:       true,
		Encoding:                   inferEncoding(audioURL),
	}
	if len(hints) > 0 {
		rc.SpeechContexts = []*speechpb.SpeechContext{{Phrases: hints}}
	}

	op, err := p.client.LongRunningRecognize(ctx, &speechpb.LongRunningRecognizeRequest{
		Config: rc,
		Audio:  &speechpb.RecognitionAudio{AudioSource: &speechpb.RecognitionAudio_Uri{Uri: audioURL}},
	})
	if err != nil {
		return "", fmt.Errorf("speech longrunningrecognize: %w", err)
	}
	return op.Name(), nil
}

func (p *GCPSpeechProvider) PollStatus(ctx context.Context, jobID string) (JobStatus, error) {
	op := p.client.LongRunningRecognizeOperation(jobID)
	resp, err := op.Poll(ctx)
	if err != nil {
		if op.Done() {
			return JobStatus{State: JobError, Error: err.Error()}, nil
		}
		return JobStatus{}, fmt.Errorf("speech poll %s: %w", jobID, err)
	}
	if !op.Done() || resp == nil {
		return JobStatus{State: JobProcessing}, nil
	}
	return parseRecognizeResponse(resp), nil
}

func parseRecognizeResponse(resp *speechpb.LongRunningRecognizeResponse) JobStatus {
	var (
		parts []string
		words []model.TranscriptWord
	)
	for _, result := range resp.GetResults() {
		alts := result.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		best := alts[0]
		if t := strings.TrimSpace(best.GetTranscript()); t != "" {
			parts = append(parts, t)
		}
		for _, w := range best.GetWords() {
			words = append(words, model.TranscriptWord{
				Word:       w.GetWord(),
				Start:      w.GetStartTime().AsDuration().Seconds(),
				End:        w.GetEndTime().AsDuration().Seconds(),
				Confidence: float64(w.GetConfidence()),
			})
		}
	}
	return JobStatus{State: JobCompleted, Text: strings.Join(parts, " "), Words: words}
}

func inferEncoding(uri string) speechpb.RecognitionConfig_AudioEncoding {
	switch {
	case strings.HasSuffix(uri, ".wav"):
		return speechpb.RecognitionConfig_LINEAR16
	case strings.HasSuffix(uri, ".flac"):
		return speechpb.RecognitionConfig_FLAC
	case strings.HasSuffix(uri, ".mp3"):
		return speechpb.RecognitionConfig_MP3
	case strings.HasSuffix(uri, ".ogg"), strings.HasSuffix(uri, ".opus"):
		return speechpb.RecognitionConfig_OGG_OPUS
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED
	}
}
