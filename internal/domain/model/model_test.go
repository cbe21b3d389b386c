package model

import "testing"

func TestInferKind(t *testing.T) {
	tests := []struct {
		name  string
		model Model
		want  ProviderKind
	}{
		{"explicit kind wins", Model{Kind: ProviderAnthropic, EndpointURL: "https://api.openai.com/v1/chat/completions"}, ProviderAnthropic},
		{"openrouter url", Model{EndpointURL: "https://openrouter.ai/api/v1/chat/completions"}, ProviderOpenRouter},
		{"anthropic url", Model{EndpointURL: "https://api.anthropic.com/v1/messages"}, ProviderAnthropic},
		{"claude name", Model{RemoteName: "claude-3-5-sonnet", EndpointURL: "https://proxy.internal/v1"}, ProviderAnthropic},
		{"google url", Model{EndpointURL: "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-pro:generateContent"}, ProviderGoogle},
		{"gemini name", Model{RemoteName: "gemini-1.5-flash", EndpointURL: "https://proxy.internal/v1"}, ProviderGoogle},
		{"openai url", Model{EndpointURL: "https://api.openai.com/v1/chat/completions"}, ProviderOpenAI},
		{"gpt name", Model{RemoteName: "gpt-4o-mini", EndpointURL: "https://proxy.internal/v1"}, ProviderOpenAI},
		{"unknown falls back to custom", Model{RemoteName: "local-llama", EndpointURL: "http://localhost:8000/v1/chat/completions"}, ProviderCustom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.model.InferKind(); got != tt.want {
				t.Errorf("InferKind() = %s, want %s", got, tt.want)
			}
		})
	}
}
