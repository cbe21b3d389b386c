package adapters

import (
	"context"
	"encoding/json"
	"errors"

	"resty.dev/v3"

	"chatlist-server/internal/domain/dispatch"
)

// googleAdapter speaks the generativelanguage :generateContent wire
// format. The API key travels as a query parameter, not a header.
type googleAdapter struct {
	client   *resty.Client
	endpoint string
	apiKey   string
}

func newGoogleAdapter(client *resty.Client, endpoint, apiKey string) *googleAdapter {
	return &googleAdapter{client: client, endpoint: endpoint, apiKey: apiKey}
}

type googlePart struct {
	Text string `json:"text"`
}

type googleContent struct {
	Parts []googlePart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type googleRequest struct {
	Contents          []googleContent `json:"contents"`
	SystemInstruction *googleContent  `json:"systemInstruction,omitempty"`
	GenerationConfig  struct {
		Temperature     float64 `json:"temperature,omitempty"`
		MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	} `json:"generationConfig"`
}

type googleResponse struct {
	Candidates []struct {
		Content googleContent `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		TotalTokenCount int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

func (a *googleAdapter) Complete(ctx context.Context, req dispatch.Request) (*dispatch.Completion, error) {
	body := googleRequest{
		Contents: []googleContent{{Parts: []googlePart{{Text: req.Prompt}}, Role: "user"}},
	}
	if req.SystemPrompt != "" {
		body.SystemInstruction = &googleContent{Parts: []googlePart{{Text: req.SystemPrompt}}}
	}
	body.GenerationConfig.Temperature = req.Temperature
	body.GenerationConfig.MaxOutputTokens = req.MaxTokens

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetQueryParam("key", a.apiKey).
		SetBody(body).
		Post(a.endpoint)
	if err != nil {
		return nil, classifyTransport(err)
	}
	if resp.IsError() {
		return nil, classifyStatus(resp.StatusCode(), resp.String())
	}
	return parseGoogle(resp.Bytes())
}

// parseGoogle extracts the first candidate's first text part.
func parseGoogle(body []byte) (*dispatch.Completion, error) {
	var payload googleResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, malformed(err)
	}
	if len(payload.Candidates) == 0 {
		return nil, malformed(errors.New("response has no candidates"))
	}
	text := ""
	for _, part := range payload.Candidates[0].Content.Parts {
		if part.Text != "" {
			text = part.Text
			break
		}
	}
	if text == "" {
		return nil, malformed(errors.New("candidate 0 has no text part"))
	}
	return &dispatch.Completion{
		Text:       text,
		TokensUsed: payload.UsageMetadata.TotalTokenCount,
	}, nil
}
