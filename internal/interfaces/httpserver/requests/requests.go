package requests

// DispatchRequest starts one prompt fan-out.
type DispatchRequest struct {
	Prompt string `json:"prompt" binding:"required"`
	// ModelIDs selects explicit targets; empty means all active models.
	ModelIDs []uint `json:"model_ids"`
	// Save persists the prompt and every outcome.
	Save bool `json:"save"`
	// Stream switches the response to SSE, one event per outcome.
	Stream bool `json:"stream"`
	// Timeouts in seconds; zero falls back to server defaults.
	RequestTimeoutSec int `json:"request_timeout_sec"`
	OverallTimeoutSec int `json:"overall_timeout_sec"`
}

// EnhanceRequest asks for one prompt rewrite.
type EnhanceRequest struct {
	Prompt   string `json:"prompt" binding:"required"`
	Type     string `json:"type"`
	ModelID  *uint  `json:"model_id"`
	PromptID *uint  `json:"prompt_id"`
}

// ModelRequest creates or updates a registry model.
type ModelRequest struct {
	DisplayName   string  `json:"display_name" binding:"required"`
	RemoteName    string  `json:"remote_name"`
	Kind          string  `json:"kind"`
	EndpointURL   string  `json:"endpoint_url" binding:"required"`
	CredentialRef string  `json:"credential_ref"`
	Active        bool    `json:"active"`
	Temperature   float64 `json:"temperature"`
	MaxTokens     int     `json:"max_tokens"`
}

// PromptRequest creates or updates a saved prompt.
type PromptRequest struct {
	Title    string   `json:"title"`
	Text     string   `json:"text" binding:"required"`
	Tags     []string `json:"tags"`
	Favorite bool     `json:"favorite"`
}

// SettingRequest stores one setting value.
type SettingRequest struct {
	Value any `json:"value" binding:"required"`
}
