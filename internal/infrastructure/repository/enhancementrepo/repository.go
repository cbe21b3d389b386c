package enhancementrepo

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	domain "chatlist-server/internal/domain/enhance"
	"chatlist-server/internal/infrastructure/database/entities"
	"chatlist-server/internal/utils/platformerrors"
)

// Repository handles enhancement history persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, e *domain.Enhancement) error {
	entity, err := mapDomain(ctx, e)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create enhancement",
			err,
			"396f8e3f-4a6b-4c7d-9e0f-1a2b3c4d5e26",
		)
	}
	mapped, err := mapEntity(ctx, entity)
	if err != nil {
		return err
	}
	*e = mapped
	return nil
}

func (r *Repository) DeleteByID(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&entities.Enhancement{}, id).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete enhancement",
			err,
			"4a709f4a-5b7c-4d8e-0f1a-2b3c4d5e6f27",
		)
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id uint) (*domain.Enhancement, error) {
	var entity entities.Enhancement
	err := r.db.WithContext(ctx).First(&entity, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find enhancement by id",
			err,
			"5b810a5b-6c8d-4e9f-1a2b-3c4d5e6f7a28",
		)
	}
	e, err := mapEntity(ctx, entity)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repository) FindByFilter(ctx context.Context, filter domain.EnhancementFilter) ([]*domain.Enhancement, error) {
	var rows []entities.Enhancement
	query := r.db.WithContext(ctx).Model(&entities.Enhancement{}).Order("created_at desc")
	if filter.Type != nil {
		query = query.Where("type = ?", string(*filter.Type))
	}
	if filter.PromptID != nil {
		query = query.Where("prompt_id = ?", *filter.PromptID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to query enhancements",
			err,
			"6c921b6c-7d9e-4f0a-2b3c-4d5e6f7a8b29",
		)
	}
	out := make([]*domain.Enhancement, 0, len(rows))
	for _, row := range rows {
		e, err := mapEntity(ctx, row)
		if err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, nil
}

func mapDomain(ctx context.Context, e *domain.Enhancement) (entities.Enhancement, error) {
	alternatives, err := encodeList(ctx, e.Alternatives)
	if err != nil {
		return entities.Enhancement{}, err
	}
	recommendations, err := encodeList(ctx, e.Recommendations)
	if err != nil {
		return entities.Enhancement{}, err
	}
	return entities.Enhancement{
		ID:              e.ID,
		OriginalPrompt:  e.OriginalPrompt,
		Enhanced:        e.Enhanced,
		Alternatives:    alternatives,
		Explanation:     e.Explanation,
		Recommendations: recommendations,
		Type:            string(e.Type),
		ModelName:       e.ModelName,
		PromptID:        e.PromptID,
		CreatedAt:       e.CreatedAt,
	}, nil
}

func mapEntity(ctx context.Context, entity entities.Enhancement) (domain.Enhancement, error) {
	alternatives, err := decodeList(ctx, entity.Alternatives)
	if err != nil {
		return domain.Enhancement{}, err
	}
	recommendations, err := decodeList(ctx, entity.Recommendations)
	if err != nil {
		return domain.Enhancement{}, err
	}
	return domain.Enhancement{
		ID:              entity.ID,
		OriginalPrompt:  entity.OriginalPrompt,
		Enhanced:        entity.Enhanced,
		Alternatives:    alternatives,
		Explanation:     entity.Explanation,
		Recommendations: recommendations,
		Type:            domain.EnhanceType(entity.Type),
		ModelName:       entity.ModelName,
		PromptID:        entity.PromptID,
		CreatedAt:       entity.CreatedAt,
	}, nil
}

func encodeList(ctx context.Context, values []string) (string, error) {
	if len(values) == 0 {
		return "[]", nil
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return "", platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeInternal,
			"failed to encode string list",
			err,
			"7da32c7d-8e0f-4a1b-3c4d-5e6f7a8b9c2a",
		)
	}
	return string(raw), nil
}

func decodeList(ctx context.Context, raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeInternal,
			"failed to decode string list",
			err,
			"8eb43d8e-9f1a-4b2c-4d5e-6f7a8b9c0d2b",
		)
	}
	return values, nil
}
