package model

import (
	"context"
	"strings"
	"time"
)

type ProviderKind string

const (
	ProviderOpenAI     ProviderKind = "openai"
	ProviderAnthropic  ProviderKind = "anthropic"
	ProviderGoogle     ProviderKind = "google"
	ProviderOpenRouter ProviderKind = "openrouter"
	ProviderCustom     ProviderKind = "custom" // any OpenAI-compatible endpoint
)

// Model is one configured target in the registry. Immutable for the
// duration of a dispatch; edits go through the Service.
type Model struct {
	ID            uint         `json:"id"`
	DisplayName   string       `json:"display_name"`
	RemoteName    string       `json:"remote_name"` // identifier sent on the wire, e.g. "gpt-4o-mini"
	Kind          ProviderKind `json:"kind"`
	EndpointURL   string       `json:"endpoint_url"`
	CredentialRef string       `json:"credential_ref"` // env var holding the API key, never the secret itself
	Active        bool         `json:"active"`
	Temperature   float64      `json:"temperature"`
	MaxTokens     int          `json:"max_tokens"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// InferKind guesses the provider family from the endpoint URL or model
// name when the kind was not configured explicitly.
func (m Model) InferKind() ProviderKind {
	if m.Kind != "" {
		return m.Kind
	}
	url := strings.ToLower(m.EndpointURL)
	name := strings.ToLower(m.RemoteName)
	switch {
	case strings.Contains(url, "openrouter.ai"):
		return ProviderOpenRouter
	case strings.Contains(url, "anthropic.com") || strings.HasPrefix(name, "claude"):
		return ProviderAnthropic
	case strings.Contains(url, "googleapis.com") || strings.HasPrefix(name, "gemini"):
		return ProviderGoogle
	case strings.Contains(url, "openai.com") || strings.HasPrefix(name, "gpt"):
		return ProviderOpenAI
	default:
		return ProviderCustom
	}
}

// ModelFilter defines optional conditions for querying models.
type ModelFilter struct {
	IDs         *[]uint
	DisplayName *string
	Kind        *ProviderKind
	Active      *bool
}

// Repository abstracts persistence for the model registry.
type Repository interface {
	Create(ctx context.Context, m *Model) error
	Update(ctx context.Context, m *Model) error
	DeleteByID(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*Model, error)
	FindByDisplayName(ctx context.Context, name string) (*Model, error)
	FindByFilter(ctx context.Context, filter ModelFilter) ([]*Model, error)
	Count(ctx context.Context, filter ModelFilter) (int64, error)
}
