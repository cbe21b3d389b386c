package adapters

import (
	"context"
	"encoding/json"
	"errors"

	"resty.dev/v3"

	"chatlist-server/internal/domain/dispatch"
)

const anthropicVersion = "2023-06-01"

// anthropicAdapter speaks the Anthropic /v1/messages wire format.
type anthropicAdapter struct {
	client   *resty.Client
	endpoint string
	apiKey   string
}

func newAnthropicAdapter(client *resty.Client, endpoint, apiKey string) *anthropicAdapter {
	return &anthropicAdapter{client: client, endpoint: endpoint, apiKey: apiKey}
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature,omitempty"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func (a *anthropicAdapter) Complete(ctx context.Context, req dispatch.Request) (*dispatch.Completion, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		// max_tokens is mandatory on this endpoint
		maxTokens = 2000
	}
	body := anthropicRequest{
		Model:       req.RemoteName,
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
		System:      req.SystemPrompt,
		Messages:    []anthropicMessage{{Role: "user", Content: req.Prompt}},
	}

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-api-key", a.apiKey).
		SetHeader("anthropic-version", anthropicVersion).
		SetBody(body).
		Post(a.endpoint)
	if err != nil {
		return nil, classifyTransport(err)
	}
	if resp.IsError() {
		return nil, classifyStatus(resp.StatusCode(), resp.String())
	}
	return parseAnthropic(resp.Bytes())
}

// parseAnthropic extracts the first text block from a messages payload.
func parseAnthropic(body []byte) (*dispatch.Completion, error) {
	var payload anthropicResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, malformed(err)
	}
	text := ""
	for _, block := range payload.Content {
		if block.Type == "text" && block.Text != "" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return nil, malformed(errors.New("response has no text content block"))
	}
	return &dispatch.Completion{
		Text:       text,
		TokensUsed: payload.Usage.InputTokens + payload.Usage.OutputTokens,
	}, nil
}
