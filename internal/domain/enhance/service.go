package enhance

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"chatlist-server/internal/domain/dispatch"
	"chatlist-server/internal/domain/model"
	"chatlist-server/internal/utils/platformerrors"
)

const (
	minPromptLen = 10
	maxPromptLen = 10000
)

// EnhanceRequest asks for one prompt rewrite.
type EnhanceRequest struct {
	Prompt   string
	Type     EnhanceType
	ModelID  *uint // explicit rewriting model; default is the first active one
	PromptID *uint // optional link to a saved prompt
}

// Service runs prompt enhancement through a registry model and keeps
// the history.
type Service struct {
	registry  *model.Service
	factory   dispatch.AdapterFactory
	repo      Repository
	maxTokens int
	log       zerolog.Logger
}

func NewService(registry *model.Service, factory dispatch.AdapterFactory, repo Repository, maxTokens int, log zerolog.Logger) *Service {
	if maxTokens <= 0 {
		maxTokens = 2000
	}
	return &Service{
		registry:  registry,
		factory:   factory,
		repo:      repo,
		maxTokens: maxTokens,
		log:       log.With().Str("component", "enhance_service").Logger(),
	}
}

// Enhance rewrites the prompt with the selected model and records the run.
func (s *Service) Enhance(ctx context.Context, req EnhanceRequest) (*Enhancement, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if len(prompt) < minPromptLen {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"prompt is too short to enhance (minimum 10 characters)", nil, "6c93a4b5-c6d7-e8f9-0a1b-2c3d4e5f6a09")
	}
	if len(prompt) > maxPromptLen {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"prompt is too long to enhance (maximum 10000 characters)", nil, "7da4b5c6-d7e8-f90a-1b2c-3d4e5f6a7b0a")
	}
	if req.Type == "" {
		req.Type = TypeGeneral
	}
	if !req.Type.Valid() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"unknown enhancement type", nil, "8eb5c6d7-e8f9-0a1b-2c3d-4e5f6a7b8c0b")
	}

	target, err := s.pickModel(ctx, req.ModelID)
	if err != nil {
		return nil, err
	}
	adapter, err := s.factory.AdapterFor(*target)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal,
			"enhancement model is not usable", err, "9fc6d7e8-f90a-1b2c-3d4e-5f6a7b8c9d0c")
	}

	completion, err := adapter.Complete(ctx, dispatch.Request{
		Prompt:       prompt,
		SystemPrompt: SystemPrompt(req.Type),
		RemoteName:   target.RemoteName,
		Temperature:  target.Temperature,
		MaxTokens:    s.maxTokens,
	})
	if err != nil {
		return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal,
			"enhancement model call failed", err, "a0d7e8f9-0a1b-2c3d-4e5f-6a7b8c9d0e0d",
			map[string]any{"model": target.DisplayName})
	}

	enhancement, err := parseEnhancement(completion.Text)
	if err != nil {
		return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal,
			"enhancement model returned unparsable output", err, "b1e8f90a-1b2c-3d4e-5f6a-7b8c9d0e1f0e",
			map[string]any{"model": target.DisplayName})
	}
	enhancement.OriginalPrompt = prompt
	enhancement.Type = req.Type
	enhancement.ModelName = target.DisplayName
	enhancement.PromptID = req.PromptID

	if err := s.repo.Create(ctx, enhancement); err != nil {
		// The rewrite itself succeeded; hand it back even if history failed.
		s.log.Error().Err(err).Msg("failed to persist enhancement")
	}

	s.log.Info().
		Str("model", target.DisplayName).
		Str("type", string(req.Type)).
		Int("alternatives", len(enhancement.Alternatives)).
		Msg("prompt enhanced")

	return enhancement, nil
}

// Get returns one history entry by id or a NOT_FOUND error.
func (s *Service) Get(ctx context.Context, id uint) (*Enhancement, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load enhancement")
	}
	if e == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"enhancement not found", nil, "c2f90a1b-2c3d-4e5f-6a7b-8c9d0e1f2a0f")
	}
	return e, nil
}

// List returns history entries matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter EnhancementFilter) ([]*Enhancement, error) {
	entries, err := s.repo.FindByFilter(ctx, filter)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list enhancements")
	}
	return entries, nil
}

// Delete removes one history entry.
func (s *Service) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to delete enhancement")
	}
	return nil
}

func (s *Service) pickModel(ctx context.Context, id *uint) (*model.Model, error) {
	if id != nil {
		return s.registry.Get(ctx, *id)
	}
	active, err := s.registry.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"no active model available for enhancement", nil, "d30a1b2c-3d4e-5f6a-7b8c-9d0e1f2a3b10")
	}
	return active[0], nil
}

type enhancementPayload struct {
	Enhanced        string   `json:"enhanced"`
	Alternatives    []string `json:"alternatives"`
	Explanation     string   `json:"explanation"`
	Recommendations []string `json:"recommendations"`
}

// parseEnhancement decodes the model's JSON reply, tolerating markdown
// code fences around the object.
func parseEnhancement(text string) (*Enhancement, error) {
	cleaned := stripFences(text)
	var payload enhancementPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, err
	}
	if strings.TrimSpace(payload.Enhanced) == "" {
		return nil, errors.New("reply is missing the enhanced prompt")
	}
	return &Enhancement{
		Enhanced:        strings.TrimSpace(payload.Enhanced),
		Alternatives:    payload.Alternatives,
		Explanation:     payload.Explanation,
		Recommendations: payload.Recommendations,
	}, nil
}

// stripFences removes a surrounding ```json ... ``` block if present.
func stripFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
		// drop the info string, e.g. "json"
		trimmed = trimmed[idx+1:]
	}
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
