package prompt

import (
	"context"
	"strings"

	"chatlist-server/internal/utils/platformerrors"
)

// Service provides library operations over the prompt repository.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Save stores a prompt, deriving a title from the text when none is given.
func (s *Service) Save(ctx context.Context, p *Prompt) (*Prompt, error) {
	p.Text = strings.TrimSpace(p.Text)
	if p.Text == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"prompt text must not be empty", nil, "7a1b2c3d-4e5f-6071-8293-a4b5c6d7e801")
	}
	if strings.TrimSpace(p.Title) == "" {
		p.Title = deriveTitle(p.Text)
	}
	normalizeTags(p)
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to save prompt")
	}
	return p, nil
}

// Update modifies an existing saved prompt.
func (s *Service) Update(ctx context.Context, p *Prompt) (*Prompt, error) {
	current, err := s.Get(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Text = strings.TrimSpace(p.Text)
	if p.Text == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"prompt text must not be empty", nil, "8b2c3d4e-5f60-7182-93a4-b5c6d7e8f902")
	}
	if strings.TrimSpace(p.Title) == "" {
		p.Title = deriveTitle(p.Text)
	}
	normalizeTags(p)
	p.CreatedAt = current.CreatedAt
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update prompt")
	}
	return p, nil
}

// Get returns a saved prompt by id or a NOT_FOUND error.
func (s *Service) Get(ctx context.Context, id uint) (*Prompt, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load prompt")
	}
	if p == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"prompt not found", nil, "9c3d4e5f-6071-8293-a4b5-c6d7e8f90a03")
	}
	return p, nil
}

// Delete removes a saved prompt.
func (s *Service) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to delete prompt")
	}
	return nil
}

// List returns saved prompts matching the filter.
func (s *Service) List(ctx context.Context, filter PromptFilter) ([]*Prompt, error) {
	prompts, err := s.repo.FindByFilter(ctx, filter)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list prompts")
	}
	return prompts, nil
}

// ToggleFavorite flips the favorite flag and returns the updated prompt.
func (s *Service) ToggleFavorite(ctx context.Context, id uint) (*Prompt, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Favorite = !p.Favorite
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to toggle favorite")
	}
	return p, nil
}

const maxDerivedTitleLen = 60

func deriveTitle(text string) string {
	line := text
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimSpace(line)
	if len(line) > maxDerivedTitleLen {
		line = strings.TrimSpace(line[:maxDerivedTitleLen]) + "..."
	}
	return line
}

func normalizeTags(p *Prompt) {
	seen := make(map[string]struct{}, len(p.Tags))
	tags := p.Tags[:0]
	for _, tag := range p.Tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	p.Tags = tags
}
