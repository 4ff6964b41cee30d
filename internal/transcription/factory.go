package transcription

import (
	"context"
	"fmt"

	"github.com/lshigami/pte-scorer/config"
	"github.com/rs/zerolog/log"
)

// NewFromConfig builds the configured provider wrapped in an Adapter. The returned
// close function releases provider resources.
func NewFromConfig(ctx context.Context, cfg *config.Config) (Transcriber, func() error, error) {
	var (
		provider Provider
		closeFn  = func() error { return nil }
	)

	switch cfg.Transcription.Provider {
	case "assemblyai":
		p := NewAssemblyAIProvider(cfg.Transcription.AssemblyAIKey, cfg.Transcription.AssemblyAIURL, cfg.Transcription.CallTimeout)
		provider, closeFn = p, p.Close
	case "gcp":
		p, err := NewGCPSpeechProvider(ctx, cfg.Transcription.GCPLanguageCode)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize GCP speech provider: %w", err)
		}
		provider, closeFn = p, p.Close
	case "mock":
		log.Warn().Msg("Using fake transcription provider; transcripts are synthetic")
		provider = NewFakeProvider("")
	default:
		return nil, nil, fmt.Errorf("unknown transcription provider %q", cfg.Transcription.Provider)
	}

	adapter := NewAdapter(cfg.Transcription.Provider, provider, Options{
		PollInterval:    cfg.Transcription.PollInterval,
		MaxPollAttempts: cfg.Transcription.MaxPollAttempts,
		SubmitRetries:   2,
		CallTimeout:     cfg.Transcription.CallTimeout,
		MaxElapsed:      cfg.Transcription.Budget(),
	})
	return adapter, closeFn, nil
}
