package enhance

import (
	"context"
	"time"
)

// EnhanceType selects the rewriting strategy for a prompt.
type EnhanceType string

const (
	TypeGeneral  EnhanceType = "general"
	TypeCode     EnhanceType = "code"
	TypeAnalysis EnhanceType = "analysis"
	TypeCreative EnhanceType = "creative"
)

// Valid reports whether t is a known enhancement type.
func (t EnhanceType) Valid() bool {
	switch t {
	case TypeGeneral, TypeCode, TypeAnalysis, TypeCreative:
		return true
	}
	return false
}

// Enhancement is one persisted prompt-rewriting run.
type Enhancement struct {
	ID              uint        `json:"id"`
	OriginalPrompt  string      `json:"original_prompt"`
	Enhanced        string      `json:"enhanced"`
	Alternatives    []string    `json:"alternatives"`
	Explanation     string      `json:"explanation"`
	Recommendations []string    `json:"recommendations"`
	Type            EnhanceType `json:"type"`
	ModelName       string      `json:"model_name"`
	PromptID        *uint       `json:"prompt_id,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}

// EnhancementFilter defines optional conditions for querying history.
type EnhancementFilter struct {
	Type     *EnhanceType
	PromptID *uint
	Limit    int
	Offset   int
}

// Repository abstracts persistence for enhancement history.
type Repository interface {
	Create(ctx context.Context, e *Enhancement) error
	DeleteByID(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*Enhancement, error)
	FindByFilter(ctx context.Context, filter EnhancementFilter) ([]*Enhancement, error)
}
