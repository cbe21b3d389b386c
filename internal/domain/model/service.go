package model

import (
	"context"
	"strings"

	"chatlist-server/internal/utils/platformerrors"
)

// Service provides registry operations over the model repository.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and stores a new model target.
func (s *Service) Create(ctx context.Context, m *Model) (*Model, error) {
	if err := validate(ctx, m); err != nil {
		return nil, err
	}
	if existing, _ := s.repo.FindByDisplayName(ctx, m.DisplayName); existing != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
			"model with this display name already exists", nil, "5d2f5a1e-0f0c-4c5b-9a56-1f6fdbd0a101")
	}
	m.Kind = m.InferKind()
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create model")
	}
	return m, nil
}

// Update modifies an existing model target.
func (s *Service) Update(ctx context.Context, m *Model) (*Model, error) {
	if m.ID == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"model id is required", nil, "8a3f6d90-4f2a-4b44-8f6f-2f4f3f0a9b02")
	}
	if err := validate(ctx, m); err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	m.CreatedAt = current.CreatedAt
	m.Kind = m.InferKind()
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update model")
	}
	return m, nil
}

// Get returns a model by id or a NOT_FOUND error.
func (s *Service) Get(ctx context.Context, id uint) (*Model, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load model")
	}
	if m == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"model not found", nil, "0b7c2a61-90cd-4e15-8e0b-6d0c7a3f5e03")
	}
	return m, nil
}

// GetByName returns a model by display name or a NOT_FOUND error.
func (s *Service) GetByName(ctx context.Context, name string) (*Model, error) {
	m, err := s.repo.FindByDisplayName(ctx, name)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load model")
	}
	if m == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"model not found", nil, "1c8d3b72-a1de-4f26-9f1c-7e1d8b4f6e08")
	}
	return m, nil
}

// Delete removes a model target from the registry.
func (s *Service) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to delete model")
	}
	return nil
}

// List returns models matching the filter.
func (s *Service) List(ctx context.Context, filter ModelFilter) ([]*Model, error) {
	models, err := s.repo.FindByFilter(ctx, filter)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list models")
	}
	return models, nil
}

// ListActive returns every model currently enabled for dispatch.
func (s *Service) ListActive(ctx context.Context) ([]*Model, error) {
	active := true
	return s.List(ctx, ModelFilter{Active: &active})
}

// ResolveTargets returns the models a dispatch should fan out to. With no
// ids it returns all active models; with ids it returns exactly those
// models, erroring on unknown ids so a caller never silently loses a target.
func (s *Service) ResolveTargets(ctx context.Context, ids []uint) ([]*Model, error) {
	if len(ids) == 0 {
		return s.ListActive(ctx)
	}
	models, err := s.List(ctx, ModelFilter{IDs: &ids})
	if err != nil {
		return nil, err
	}
	if len(models) != len(uniqueIDs(ids)) {
		return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"one or more requested models do not exist", nil, "f4c0de1b-2a8e-46c9-b1d4-7e9a0c2b5d04",
			map[string]any{"requested": len(ids), "found": len(models)})
	}
	// Preserve the caller's ordering, repeating entries for duplicate ids.
	byID := make(map[uint]*Model, len(models))
	for _, m := range models {
		byID[m.ID] = m
	}
	ordered := make([]*Model, 0, len(ids))
	for _, id := range ids {
		ordered = append(ordered, byID[id])
	}
	return ordered, nil
}

// ToggleActive flips the active flag and returns the updated model.
func (s *Service) ToggleActive(ctx context.Context, id uint) (*Model, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	m.Active = !m.Active
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to toggle model")
	}
	return m, nil
}

func validate(ctx context.Context, m *Model) error {
	if strings.TrimSpace(m.DisplayName) == "" {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"display_name is required", nil, "b2e1c3a4-5d6f-4a7b-8c9d-0e1f2a3b4c05")
	}
	if strings.TrimSpace(m.EndpointURL) == "" {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"endpoint_url is required", nil, "c3d2e1f0-6a7b-4c8d-9e0f-1a2b3c4d5e06")
	}
	if m.RemoteName == "" {
		m.RemoteName = m.DisplayName
	}
	return nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
