package adapters

import (
	"fmt"

	"resty.dev/v3"

	"chatlist-server/internal/domain/dispatch"
	"chatlist-server/internal/domain/model"
)

// Factory builds the right adapter family for a model and binds the
// resolved credential into it. A model whose credential cannot be
// resolved yields an auth_error before any network call happens.
type Factory struct {
	resolver dispatch.CredentialResolver
	client   *resty.Client
}

func NewFactory(resolver dispatch.CredentialResolver, client *resty.Client) *Factory {
	return &Factory{resolver: resolver, client: client}
}

func (f *Factory) AdapterFor(m model.Model) (dispatch.Adapter, error) {
	apiKey := ""
	if m.CredentialRef != "" {
		var err error
		apiKey, err = f.resolver.Resolve(m.CredentialRef)
		if err != nil {
			return nil, &dispatch.OutcomeError{
				Kind:    dispatch.ErrKindAuth,
				Message: fmt.Sprintf("credential %s is not available: %v", m.CredentialRef, err),
			}
		}
	}

	switch m.InferKind() {
	case model.ProviderAnthropic:
		return newAnthropicAdapter(f.client, m.EndpointURL, apiKey), nil
	case model.ProviderGoogle:
		return newGoogleAdapter(f.client, m.EndpointURL, apiKey), nil
	case model.ProviderOpenRouter:
		return newOpenRouterAdapter(f.client, m.EndpointURL, apiKey), nil
	default:
		// OpenAI itself and every compatible gateway
		return newChatAdapter(f.client, m.EndpointURL, apiKey, nil), nil
	}
}
