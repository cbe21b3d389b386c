package dispatch

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"chatlist-server/internal/domain/model"
	"chatlist-server/internal/utils/platformerrors"
)

// Options tunes one dispatch run. Zero values fall back to the
// dispatcher's configured defaults.
type Options struct {
	// RequestTimeout bounds each individual model call.
	RequestTimeout time.Duration
	// OverallTimeout bounds the whole fan-out. Models still pending when
	// it expires are reported as timeout outcomes.
	OverallTimeout time.Duration
	// MaxConcurrent caps in-flight model calls for this run.
	MaxConcurrent int
}

// Dispatcher fans one prompt out to many models concurrently. Failures
// are isolated per model: one provider erroring, timing out, or hanging
// never suppresses the others' outcomes.
type Dispatcher struct {
	factory        AdapterFactory
	maxConcurrent  int64
	requestTimeout time.Duration
	overallTimeout time.Duration
	log            zerolog.Logger
}

func NewDispatcher(factory AdapterFactory, maxConcurrent int, requestTimeout, overallTimeout time.Duration, log zerolog.Logger) *Dispatcher {
	if maxConcurrent <= 0 {
		maxConcurrent = 5
	}
	return &Dispatcher{
		factory:        factory,
		maxConcurrent:  int64(maxConcurrent),
		requestTimeout: requestTimeout,
		overallTimeout: overallTimeout,
		log:            log.With().Str("component", "dispatcher").Logger(),
	}
}

// Dispatch sends prompt to every model in models and streams outcomes on
// the returned channel in completion order. The channel always yields
// exactly len(models) outcomes and is then closed; models that never got
// to run before cancellation or the overall deadline are reported with a
// synthesized cancelled or timeout outcome. Cancelling ctx stops all
// in-flight work.
func (d *Dispatcher) Dispatch(ctx context.Context, prompt string, models []model.Model, opts Options) (<-chan Outcome, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"prompt must not be empty", nil, "2c6f9e4a-8b1d-4e3f-a0c5-d7e8f9a0b1c2")
	}

	out := make(chan Outcome, len(models))
	if len(models) == 0 {
		close(out)
		return out, nil
	}

	requestTimeout := opts.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = d.requestTimeout
	}
	overallTimeout := opts.OverallTimeout
	if overallTimeout <= 0 {
		overallTimeout = d.overallTimeout
	}

	runCtx := ctx
	var cancel context.CancelFunc = func() {}
	if overallTimeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, overallTimeout)
	}

	// inner is buffered to len(models) so a worker can always deliver
	// its outcome and exit, even after the collector has stopped reading.
	type indexed struct {
		idx     int
		outcome Outcome
	}
	inner := make(chan indexed, len(models))
	maxConcurrent := d.maxConcurrent
	if opts.MaxConcurrent > 0 {
		maxConcurrent = int64(opts.MaxConcurrent)
	}
	sem := semaphore.NewWeighted(maxConcurrent)

	for i := range models {
		go func(idx int, m model.Model) {
			start := time.Now()
			if err := sem.Acquire(runCtx, 1); err != nil {
				inner <- indexed{idx, d.synthesize(m, runCtx, start)}
				return
			}
			defer sem.Release(1)
			inner <- indexed{idx, d.runOne(runCtx, prompt, m, requestTimeout)}
		}(i, models[i])
	}

	go func() {
		defer cancel()
		defer close(out)

		pending := make(map[int]model.Model, len(models))
		for i, m := range models {
			pending[i] = m
		}

		for len(pending) > 0 {
			select {
			case item := <-inner:
				if _, ok := pending[item.idx]; !ok {
					continue
				}
				delete(pending, item.idx)
				out <- item.outcome
			case <-runCtx.Done():
				// Drain whatever already finished, then synthesize the rest
				// in submission order so the outcome count stays exact.
				now := time.Now()
				for drained := true; drained; {
					select {
					case item := <-inner:
						if _, ok := pending[item.idx]; ok {
							delete(pending, item.idx)
							out <- item.outcome
						}
					default:
						drained = false
					}
				}
				for i := range models {
					m, ok := pending[i]
					if !ok {
						continue
					}
					delete(pending, i)
					out <- d.synthesize(m, runCtx, now)
				}
			}
		}
	}()

	return out, nil
}

// runOne executes a single model call under its own timeout.
func (d *Dispatcher) runOne(ctx context.Context, prompt string, m model.Model, timeout time.Duration) Outcome {
	start := time.Now()
	reqCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	adapter, err := d.factory.AdapterFor(m)
	if err != nil {
		return failed(m, start, classifyErr(err))
	}

	req := Request{
		Prompt:      prompt,
		RemoteName:  m.RemoteName,
		Temperature: m.Temperature,
		MaxTokens:   m.MaxTokens,
	}
	completion, err := adapter.Complete(reqCtx, req)
	if err != nil {
		oe := classifyErr(err)
		if ctxKind, ok := contextKind(reqCtx); ok && oe.Kind == ErrKindNetwork {
			// The transport reports context expiry as a generic network
			// failure; prefer the context's own verdict.
			oe = &OutcomeError{Kind: ctxKind, Message: oe.Message}
		}
		d.log.Warn().
			Str("model", m.DisplayName).
			Str("kind", string(oe.Kind)).
			Dur("elapsed", time.Since(start)).
			Msg("model request failed")
		return failed(m, start, oe)
	}

	d.log.Debug().
		Str("model", m.DisplayName).
		Int("tokens", completion.TokensUsed).
		Dur("elapsed", time.Since(start)).
		Msg("model request completed")

	return Outcome{
		Model:       m,
		Text:        completion.Text,
		TokensUsed:  completion.TokensUsed,
		Elapsed:     time.Since(start),
		CompletedAt: time.Now().UTC(),
	}
}

// synthesize builds the outcome for a model whose work never completed
// because the run context ended.
func (d *Dispatcher) synthesize(m model.Model, ctx context.Context, start time.Time) Outcome {
	kind := ErrKindCancelled
	msg := "dispatch cancelled before model completed"
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		kind = ErrKindTimeout
		msg = "dispatch deadline exceeded before model completed"
	}
	return failed(m, start, &OutcomeError{Kind: kind, Message: msg})
}

func failed(m model.Model, start time.Time, oe *OutcomeError) Outcome {
	return Outcome{
		Model:       m,
		Elapsed:     time.Since(start),
		CompletedAt: time.Now().UTC(),
		Err:         oe,
	}
}

// classifyErr normalizes any error into an *OutcomeError. Adapters
// already return classified errors; everything else maps by context
// sentinel or falls back to a network failure.
func classifyErr(err error) *OutcomeError {
	var oe *OutcomeError
	if errors.As(err, &oe) {
		return oe
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &OutcomeError{Kind: ErrKindTimeout, Message: err.Error()}
	case errors.Is(err, context.Canceled):
		return &OutcomeError{Kind: ErrKindCancelled, Message: err.Error()}
	default:
		return &OutcomeError{Kind: ErrKindNetwork, Message: err.Error()}
	}
}

func contextKind(ctx context.Context) (ErrorKind, bool) {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return ErrKindTimeout, true
	case errors.Is(ctx.Err(), context.Canceled):
		return ErrKindCancelled, true
	default:
		return "", false
	}
}
