package result

import (
	"context"

	"chatlist-server/internal/utils/platformerrors"
)

// Service provides history operations over the result repository.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record appends one result to the history.
func (s *Service) Record(ctx context.Context, r *Result) (*Result, error) {
	if r.ModelName == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"result is missing a model name", nil, "1d4e5f60-7182-93a4-b5c6-d7e8f90a1b04")
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to record result")
	}
	return r, nil
}

// Get returns a stored result by id or a NOT_FOUND error.
func (s *Service) Get(ctx context.Context, id uint) (*Result, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load result")
	}
	if r == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"result not found", nil, "2e5f6071-8293-a4b5-c6d7-e8f90a1b2c05")
	}
	return r, nil
}

// List returns stored results matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter ResultFilter) ([]*Result, error) {
	results, err := s.repo.FindByFilter(ctx, filter)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list results")
	}
	return results, nil
}

// ListByPrompt returns all results recorded for one prompt.
func (s *Service) ListByPrompt(ctx context.Context, promptID uint) ([]*Result, error) {
	return s.List(ctx, ResultFilter{PromptID: &promptID})
}

// Delete removes one result from the history.
func (s *Service) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to delete result")
	}
	return nil
}

// DeleteByPrompt removes every result recorded for a prompt and returns
// how many were deleted.
func (s *Service) DeleteByPrompt(ctx context.Context, promptID uint) (int64, error) {
	n, err := s.repo.DeleteByPromptID(ctx, promptID)
	if err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to delete prompt results")
	}
	return n, nil
}
