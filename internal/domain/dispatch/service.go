package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"chatlist-server/internal/domain/model"
	"chatlist-server/internal/utils/platformerrors"
)

// Sink receives dispatch results for persistence. Implementations must
// tolerate being called from the streaming goroutine; a sink failure is
// logged and never interrupts the dispatch itself.
type Sink interface {
	// BatchStarted records the prompt once per dispatch and returns an
	// identifier the per-outcome records are tied to.
	BatchStarted(ctx context.Context, prompt string, models []model.Model) (uint, error)
	// OutcomeReady records one finished outcome.
	OutcomeReady(ctx context.Context, batchID uint, outcome Outcome) error
}

// NopSink discards everything. Used when persistence is disabled.
type NopSink struct{}

func (NopSink) BatchStarted(context.Context, string, []model.Model) (uint, error) { return 0, nil }
func (NopSink) OutcomeReady(context.Context, uint, Outcome) error                 { return nil }

// Batch is the summary of one completed dispatch.
type Batch struct {
	ID        string        `json:"id"`
	PromptID  uint          `json:"prompt_id,omitempty"`
	Prompt    string        `json:"prompt"`
	Outcomes  []Outcome     `json:"outcomes"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Elapsed   time.Duration `json:"elapsed"`
	StartedAt time.Time     `json:"started_at"`
}

// BatchService resolves dispatch targets from the registry, runs the
// fan-out, and feeds results to the sink.
type BatchService struct {
	dispatcher *Dispatcher
	registry   *model.Service
	sink       Sink
	log        zerolog.Logger
}

func NewBatchService(dispatcher *Dispatcher, registry *model.Service, sink Sink, log zerolog.Logger) *BatchService {
	if sink == nil {
		sink = NopSink{}
	}
	return &BatchService{
		dispatcher: dispatcher,
		registry:   registry,
		sink:       sink,
		log:        log.With().Str("component", "batch_service").Logger(),
	}
}

// Stream starts a dispatch and returns a channel of outcomes in arrival
// order plus the resolved target list. With save set, each outcome is
// persisted via the sink as it arrives.
func (s *BatchService) Stream(ctx context.Context, prompt string, modelIDs []uint, opts Options, save bool) (<-chan Outcome, []model.Model, error) {
	targets, err := s.registry.ResolveTargets(ctx, modelIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(targets) == 0 {
		return nil, nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"no active models to dispatch to", nil, "9e7d5c3b-1a2f-4d6e-8b0c-3f5a7d9e1c07")
	}

	models := make([]model.Model, len(targets))
	for i, t := range targets {
		models[i] = *t
	}

	raw, err := s.dispatcher.Dispatch(ctx, prompt, models, opts)
	if err != nil {
		return nil, nil, err
	}

	sink := s.sink
	if !save {
		sink = NopSink{}
	}
	batchID, sinkErr := sink.BatchStarted(ctx, prompt, models)
	if sinkErr != nil {
		s.log.Error().Err(sinkErr).Msg("sink rejected batch start, outcomes will not be persisted")
	}

	out := make(chan Outcome, len(models))
	go func() {
		defer close(out)
		for outcome := range raw {
			if sinkErr == nil {
				// Persist with a detached context: outcomes that arrive at
				// the deadline must still be recorded.
				if err := sink.OutcomeReady(context.WithoutCancel(ctx), batchID, outcome); err != nil {
					s.log.Error().Err(err).Str("model", outcome.Model.DisplayName).Msg("failed to persist outcome")
				}
			}
			out <- outcome
		}
	}()
	return out, models, nil
}

// Run executes a dispatch to completion and returns the collected batch.
func (s *BatchService) Run(ctx context.Context, prompt string, modelIDs []uint, opts Options, save bool) (*Batch, error) {
	start := time.Now()
	stream, models, err := s.Stream(ctx, prompt, modelIDs, opts, save)
	if err != nil {
		return nil, err
	}

	batch := &Batch{
		ID:        uuid.NewString(),
		Prompt:    prompt,
		Outcomes:  make([]Outcome, 0, len(models)),
		StartedAt: start.UTC(),
	}
	for outcome := range stream {
		batch.Outcomes = append(batch.Outcomes, outcome)
		if outcome.OK() {
			batch.Succeeded++
		} else {
			batch.Failed++
		}
	}
	batch.Elapsed = time.Since(start)

	s.log.Info().
		Str("batch_id", batch.ID).
		Int("models", len(models)).
		Int("succeeded", batch.Succeeded).
		Int("failed", batch.Failed).
		Dur("elapsed", batch.Elapsed).
		Msg("dispatch completed")

	return batch, nil
}
