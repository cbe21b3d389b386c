package main

import (
	"context"

	"chatlist-server/internal/domain/dispatch"
	"chatlist-server/internal/domain/model"
	"chatlist-server/internal/domain/prompt"
	"chatlist-server/internal/domain/result"
)

// persistSink stores a dispatched prompt once and each outcome as it
// arrives, tying the outcomes to the saved prompt's id.
type persistSink struct {
	prompts *prompt.Service
	results *result.Service
}

func newPersistSink(prompts *prompt.Service, results *result.Service) *persistSink {
	return &persistSink{prompts: prompts, results: results}
}

func (s *persistSink) BatchStarted(ctx context.Context, text string, _ []model.Model) (uint, error) {
	p, err := s.prompts.Save(ctx, &prompt.Prompt{Text: text})
	if err != nil {
		return 0, err
	}
	return p.ID, nil
}

func (s *persistSink) OutcomeReady(ctx context.Context, batchID uint, o dispatch.Outcome) error {
	rec := &result.Result{
		PromptID:     batchID,
		ModelID:      o.Model.ID,
		ModelName:    o.Model.DisplayName,
		ResponseText: o.Text,
		ResponseTime: o.Elapsed,
		TokensUsed:   o.TokensUsed,
	}
	if o.Err != nil {
		rec.ErrorKind = string(o.Err.Kind)
		rec.ErrorMessage = o.Err.Message
	}
	_, err := s.results.Record(ctx, rec)
	return err
}
