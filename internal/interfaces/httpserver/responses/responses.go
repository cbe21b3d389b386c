package responses

import (
	"time"

	"chatlist-server/internal/domain/dispatch"
	"chatlist-server/internal/domain/model"
)

// OutcomeResponse is one model's answer or failure inside a dispatch.
type OutcomeResponse struct {
	ModelID     uint    `json:"model_id"`
	ModelName   string  `json:"model_name"`
	Provider    string  `json:"provider"`
	OK          bool    `json:"ok"`
	Text        string  `json:"text,omitempty"`
	TokensUsed  int     `json:"tokens_used,omitempty"`
	ElapsedSec  float64 `json:"elapsed_sec"`
	ErrorKind   string  `json:"error_kind,omitempty"`
	ErrorDetail string  `json:"error_detail,omitempty"`
}

// BatchResponse is the collected form of one dispatch.
type BatchResponse struct {
	ID         string            `json:"id"`
	Prompt     string            `json:"prompt"`
	Outcomes   []OutcomeResponse `json:"outcomes"`
	Succeeded  int               `json:"succeeded"`
	Failed     int               `json:"failed"`
	ElapsedSec float64           `json:"elapsed_sec"`
	StartedAt  time.Time         `json:"started_at"`
}

// FromOutcome maps a domain outcome to its wire form.
func FromOutcome(o dispatch.Outcome) OutcomeResponse {
	resp := OutcomeResponse{
		ModelID:    o.Model.ID,
		ModelName:  o.Model.DisplayName,
		Provider:   string(o.Model.InferKind()),
		OK:         o.OK(),
		Text:       o.Text,
		TokensUsed: o.TokensUsed,
		ElapsedSec: o.Elapsed.Seconds(),
	}
	if o.Err != nil {
		resp.ErrorKind = string(o.Err.Kind)
		resp.ErrorDetail = o.Err.Message
	}
	return resp
}

// FromBatch maps a completed batch to its wire form.
func FromBatch(b *dispatch.Batch) BatchResponse {
	outcomes := make([]OutcomeResponse, len(b.Outcomes))
	for i, o := range b.Outcomes {
		outcomes[i] = FromOutcome(o)
	}
	return BatchResponse{
		ID:         b.ID,
		Prompt:     b.Prompt,
		Outcomes:   outcomes,
		Succeeded:  b.Succeeded,
		Failed:     b.Failed,
		ElapsedSec: b.Elapsed.Seconds(),
		StartedAt:  b.StartedAt,
	}
}

// ModelResponse is the wire form of a registry model. The credential
// reference is exposed by name only; secrets never leave the process.
type ModelResponse struct {
	ID            uint      `json:"id"`
	DisplayName   string    `json:"display_name"`
	RemoteName    string    `json:"remote_name"`
	Kind          string    `json:"kind"`
	EndpointURL   string    `json:"endpoint_url"`
	CredentialRef string    `json:"credential_ref"`
	Active        bool      `json:"active"`
	Temperature   float64   `json:"temperature"`
	MaxTokens     int       `json:"max_tokens"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FromModel maps a registry model to its wire form.
func FromModel(m *model.Model) ModelResponse {
	return ModelResponse{
		ID:            m.ID,
		DisplayName:   m.DisplayName,
		RemoteName:    m.RemoteName,
		Kind:          string(m.InferKind()),
		EndpointURL:   m.EndpointURL,
		CredentialRef: m.CredentialRef,
		Active:        m.Active,
		Temperature:   m.Temperature,
		MaxTokens:     m.MaxTokens,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// FromModels maps a model list to its wire form.
func FromModels(models []*model.Model) []ModelResponse {
	out := make([]ModelResponse, len(models))
	for i, m := range models {
		out[i] = FromModel(m)
	}
	return out
}
