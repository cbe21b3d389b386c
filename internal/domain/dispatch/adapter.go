package dispatch

import (
	"context"

	"chatlist-server/internal/domain/model"
)

// Request is the provider-neutral form of a single completion call.
type Request struct {
	Prompt       string
	SystemPrompt string
	RemoteName   string
	Temperature  float64
	MaxTokens    int
}

// Completion is the provider-neutral success payload.
type Completion struct {
	Text       string
	TokensUsed int
}

// Adapter translates a neutral Request into one provider family's wire
// format and back. Implementations classify their own failures: every
// non-nil error returned from Complete must be an *OutcomeError so the
// dispatcher never has to guess at provider semantics.
type Adapter interface {
	Complete(ctx context.Context, req Request) (*Completion, error)
}

// AdapterFactory resolves the adapter for a configured model.
type AdapterFactory interface {
	AdapterFor(m model.Model) (Adapter, error)
}

// CredentialResolver turns a model's credential reference into a usable
// secret. Lookups happen at request time so key rotation needs no restart.
type CredentialResolver interface {
	Resolve(ref string) (string, error)
}
