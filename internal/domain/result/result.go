package result

import (
	"context"
	"time"
)

// Result is one persisted model outcome, tied to the prompt that
// produced it. Append-only: results are written once and never updated.
type Result struct {
	ID           uint          `json:"id"`
	PromptID     uint          `json:"prompt_id"`
	ModelID      uint          `json:"model_id"`
	ModelName    string        `json:"model_name"`
	ResponseText string        `json:"response_text,omitempty"`
	ErrorKind    string        `json:"error_kind,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
	ResponseTime time.Duration `json:"response_time"`
	TokensUsed   int           `json:"tokens_used"`
	CreatedAt    time.Time     `json:"created_at"`
}

// OK reports whether the recorded call succeeded.
func (r Result) OK() bool {
	return r.ErrorKind == ""
}

// ResultFilter defines optional conditions for querying results.
type ResultFilter struct {
	PromptID *uint
	ModelID  *uint
	OK       *bool
	Limit    int
	Offset   int
}

// Repository abstracts persistence for results.
type Repository interface {
	Create(ctx context.Context, r *Result) error
	DeleteByID(ctx context.Context, id uint) error
	DeleteByPromptID(ctx context.Context, promptID uint) (int64, error)
	FindByID(ctx context.Context, id uint) (*Result, error)
	FindByFilter(ctx context.Context, filter ResultFilter) ([]*Result, error)
	Count(ctx context.Context, filter ResultFilter) (int64, error)
}
