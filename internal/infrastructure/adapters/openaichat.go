package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"resty.dev/v3"

	"chatlist-server/internal/domain/dispatch"
)

// chatAdapter speaks the OpenAI /chat/completions wire format, which is
// also what OpenRouter and most self-hosted gateways accept.
type chatAdapter struct {
	client   *resty.Client
	endpoint string
	apiKey   string
	headers  map[string]string
}

func newChatAdapter(client *resty.Client, endpoint, apiKey string, headers map[string]string) *chatAdapter {
	return &chatAdapter{client: client, endpoint: endpoint, apiKey: apiKey, headers: headers}
}

func (a *chatAdapter) Complete(ctx context.Context, req dispatch.Request) (*dispatch.Completion, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	body := openai.ChatCompletionRequest{
		Model:       req.RemoteName,
		Messages:    messages,
		Temperature: float32(req.Temperature),
		MaxTokens:   req.MaxTokens,
	}

	r := a.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Bearer "+a.apiKey).
		SetBody(body)
	for k, v := range a.headers {
		r.SetHeader(k, v)
	}

	resp, err := r.Post(a.endpoint)
	if err != nil {
		return nil, classifyTransport(err)
	}
	if resp.IsError() {
		return nil, classifyStatus(resp.StatusCode(), resp.String())
	}
	return parseChatCompletion(resp.Bytes())
}

// parseChatCompletion extracts the first choice from an OpenAI-style
// completion payload.
func parseChatCompletion(body []byte) (*dispatch.Completion, error) {
	var payload openai.ChatCompletionResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, malformed(err)
	}
	if len(payload.Choices) == 0 {
		return nil, malformed(errors.New("response has no choices"))
	}
	text := payload.Choices[0].Message.Content
	if text == "" {
		return nil, malformed(fmt.Errorf("choice 0 has empty content (finish_reason %q)", payload.Choices[0].FinishReason))
	}
	return &dispatch.Completion{
		Text:       text,
		TokensUsed: payload.Usage.TotalTokens,
	}, nil
}
