package model

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"chatlist-server/internal/config"
)

// defaultModels is the built-in registry used when the database starts empty.
// A seeded model is only marked active when its credential env var is set,
// so a fresh install never dispatches to a provider it cannot authenticate with.
var defaultModels = []Model{
	{
		DisplayName:   "GPT-4",
		RemoteName:    "gpt-4",
		Kind:          ProviderOpenAI,
		EndpointURL:   "https://api.openai.com/v1/chat/completions",
		CredentialRef: "OPENAI_API_KEY",
		Active:        true,
		Temperature:   0.7,
		MaxTokens:     2000,
	},
	{
		DisplayName:   "GPT-4o Mini",
		RemoteName:    "gpt-4o-mini",
		Kind:          ProviderOpenAI,
		EndpointURL:   "https://api.openai.com/v1/chat/completions",
		CredentialRef: "OPENAI_API_KEY",
		Active:        true,
		Temperature:   0.7,
		MaxTokens:     2000,
	},
	{
		DisplayName:   "Claude 3.5 Sonnet",
		RemoteName:    "claude-3-5-sonnet-20241022",
		Kind:          ProviderAnthropic,
		EndpointURL:   "https://api.anthropic.com/v1/messages",
		CredentialRef: "ANTHROPIC_API_KEY",
		Active:        true,
		Temperature:   0.7,
		MaxTokens:     2000,
	},
	{
		DisplayName:   "Gemini 1.5 Pro",
		RemoteName:    "gemini-1.5-pro",
		Kind:          ProviderGoogle,
		EndpointURL:   "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-pro:generateContent",
		CredentialRef: "GOOGLE_API_KEY",
		Active:        true,
		Temperature:   0.7,
		MaxTokens:     2000,
	},
	{
		DisplayName:   "Llama 3.1 70B (OpenRouter)",
		RemoteName:    "meta-llama/llama-3.1-70b-instruct",
		Kind:          ProviderOpenRouter,
		EndpointURL:   "https://openrouter.ai/api/v1/chat/completions",
		CredentialRef: "OPENROUTER_API_KEY",
		Active:        true,
		Temperature:   0.7,
		MaxTokens:     2000,
	},
	{
		DisplayName:   "Mistral Large (OpenRouter)",
		RemoteName:    "mistralai/mistral-large",
		Kind:          ProviderOpenRouter,
		EndpointURL:   "https://openrouter.ai/api/v1/chat/completions",
		CredentialRef: "OPENROUTER_API_KEY",
		Active:        true,
		Temperature:   0.7,
		MaxTokens:     2000,
	},
}

// Seeder populates the registry at startup from the built-in defaults and
// the optional model config file. Existing rows are never overwritten;
// seeding is keyed by display name.
type Seeder struct {
	svc *Service
	cfg *config.Config
	log zerolog.Logger
}

func NewSeeder(svc *Service, cfg *config.Config, log zerolog.Logger) *Seeder {
	return &Seeder{svc: svc, cfg: cfg, log: log.With().Str("component", "model_seeder").Logger()}
}

// Seed inserts missing models. Returns the number of models created.
func (s *Seeder) Seed(ctx context.Context) (int, error) {
	var candidates []Model
	if s.cfg.SeedDefaultModels {
		candidates = append(candidates, defaultModels...)
	}
	for _, entry := range s.cfg.BootstrapModels() {
		candidates = append(candidates, fromBootstrap(entry))
	}

	created := 0
	for i := range candidates {
		m := candidates[i]
		existing, err := s.svc.repo.FindByDisplayName(ctx, m.DisplayName)
		if err != nil {
			return created, err
		}
		if existing != nil {
			continue
		}
		if m.CredentialRef != "" && os.Getenv(m.CredentialRef) == "" {
			m.Active = false
		}
		if err := s.svc.repo.Create(ctx, &m); err != nil {
			return created, err
		}
		s.log.Info().
			Str("model", m.DisplayName).
			Str("provider", string(m.Kind)).
			Bool("active", m.Active).
			Msg("seeded model")
		created++
	}
	return created, nil
}

func fromBootstrap(entry config.ModelBootstrapEntry) Model {
	m := Model{
		DisplayName:   entry.DisplayName,
		RemoteName:    entry.RemoteName,
		Kind:          ProviderKind(entry.Provider),
		EndpointURL:   entry.EndpointURL,
		CredentialRef: entry.CredentialRef,
		Temperature:   entry.Temperature,
		MaxTokens:     entry.MaxTokens,
		Active:        true,
	}
	if entry.Active != nil {
		m.Active = *entry.Active
	}
	if m.RemoteName == "" {
		m.RemoteName = m.DisplayName
	}
	if m.Temperature == 0 {
		m.Temperature = 0.7
	}
	if m.MaxTokens == 0 {
		m.MaxTokens = 2000
	}
	m.Kind = m.InferKind()
	return m
}
