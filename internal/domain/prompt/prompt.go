package prompt

import (
	"context"
	"time"
)

// Prompt is a saved prompt in the user's library.
type Prompt struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Tags      []string  `json:"tags"`
	Favorite  bool      `json:"favorite"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PromptFilter defines optional conditions for querying prompts.
type PromptFilter struct {
	Search   *string // matches title or text, case-insensitive substring
	Tag      *string
	Favorite *bool
	Limit    int
	Offset   int
}

// Repository abstracts persistence for the prompt library.
type Repository interface {
	Create(ctx context.Context, p *Prompt) error
	Update(ctx context.Context, p *Prompt) error
	DeleteByID(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*Prompt, error)
	FindByFilter(ctx context.Context, filter PromptFilter) ([]*Prompt, error)
	Count(ctx context.Context, filter PromptFilter) (int64, error)
}
