package transcription

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/lshigami/pte-scorer/internal/apperr"
	"github.com/lshigami/pte-scorer/internal/model"
	"github.com/lshigami/pte-scorer/internal/tracing"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
)

type Options struct {
	PollInterval    time.Duration
	MaxPollAttempts int
	SubmitRetries   uint
	RetryDelay      time.Duration
	// CallTimeout bounds each Submit and PollStatus call.
	CallTimeout time.Duration
	// MaxElapsed bounds the whole Transcribe call. Zero derives it from the poll budget.
	MaxElapsed time.Duration
}

// Budget is the longest a Transcribe call may run with these options.
func (o Options) Budget() time.Duration {
	if o.MaxElapsed > 0 {
		return o.MaxElapsed
	}
	return o.PollInterval*time.Duration(o.MaxPollAttempts) + o.CallTimeout
}

// Adapter submits a job and polls it in a bounded loop.
type Adapter struct {
	name     string
	provider Provider
	opts     Options
}

func NewAdapter(name string, provider Provider, opts Options) *Adapter {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 3 * time.Second
	}
	if opts.MaxPollAttempts <= 0 {
		opts.MaxPollAttempts = 60
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 500 * time.Millisecond
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 10 * time.Second
	}
	return &Adapter{name: name, provider: provider, opts: opts}
}

// Transcribe never runs longer than the options' Budget; a provider that stalls
// degrades the transcript instead of blocking the caller.
func (a *Adapter) Transcribe(ctx context.Context, audioURL string, hints []string) model.Transcript {
	ctx, cancel := context.WithTimeout(ctx, a.opts.Budget())
	defer cancel()
	ctx, span := tracing.Tracer().Start(ctx, "transcription.Transcribe")
	defer span.End()
	span.SetAttributes(attribute.String("transcription.provider", a.name))

	jobID, err := a.submit(ctx, audioURL, hints)
	if err != nil {
		return a.degrade(audioURL, "", fmt.Errorf("submit: %w", err))
	}

	timer := time.NewTimer(a.opts.PollInterval)
	defer timer.Stop()

	for attempt := 1; attempt <= a.opts.MaxPollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return a.degrade(audioURL, jobID, ctx.Err())
		case <-timer.C:
		}

		status, err := a.poll(ctx, jobID)
		if err != nil {
			if ctx.Err() != nil {
				return a.degrade(audioURL, jobID, ctx.Err())
			}
			log.Debug().Err(err).Str("job_id", jobID).Int("attempt", attempt).Msg("transcription poll failed, will retry")
			timer.Reset(a.opts.PollInterval)
			continue
		}

		switch status.State {
		case JobCompleted:
			span.SetAttributes(attribute.Int("transcription.poll_attempts", attempt))
			return a.transcript(status)
		case JobError:
			return a.degrade(audioURL, jobID, fmt.Errorf("provider reported error: %s", status.Error))
		}
		timer.Reset(a.opts.PollInterval)
	}

	return a.degrade(audioURL, jobID, fmt.Errorf("job not completed after %d polls", a.opts.MaxPollAttempts))
}

func (a *Adapter) submit(ctx context.Context, audioURL string, hints []string) (string, error) {
	var jobID string
	err := retry.Do(
		func() error {
			callCtx, cancel := context.WithTimeout(ctx, a.opts.CallTimeout)
			defer cancel()
			id, err := a.provider.Submit(callCtx, audioURL, hints)
			if err != nil {
				if errors.Is(err, ErrRejected) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			jobID = id
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(a.opts.SubmitRetries+1),
		retry.Delay(a.opts.RetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Debug().Err(err).Uint("retry", n+1).Str("provider", a.name).Msg("retrying transcription submit")
		}),
	)
	return jobID, err
}

func (a *Adapter) poll(ctx context.Context, jobID string) (JobStatus, error) {
	callCtx, cancel := context.WithTimeout(ctx, a.opts.CallTimeout)
	defer cancel()
	return a.provider.PollStatus(callCtx, jobID)
}

func (a *Adapter) transcript(status JobStatus) model.Transcript {
	words := make([]model.TranscriptWord, len(status.Words))
	copy(words, status.Words)
	sort.SliceStable(words, func(i, j int) bool { return words[i].Start < words[j].Start })

	text := strings.TrimSpace(status.Text)
	state := model.TranscriptOK
	if text == "" {
		state = model.TranscriptEmpty
	}
	return model.Transcript{Text: text, Words: words, Provider: a.name, Status: state}
}

func (a *Adapter) degrade(audioURL, jobID string, cause error) model.Transcript {
	log.Warn().
		Err(fmt.Errorf("%w: %v", apperr.ErrTranscriptionUnavailable, cause)).
		Str("provider", a.name).
		Str("job_id", jobID).
		Str("audio_url", audioURL).
		Msg("Transcription degraded to empty transcript")
	return model.UnavailableTranscript()
}
