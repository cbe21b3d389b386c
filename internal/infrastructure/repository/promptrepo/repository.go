package promptrepo

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	domain "chatlist-server/internal/domain/prompt"
	"chatlist-server/internal/infrastructure/database/entities"
	"chatlist-server/internal/utils/platformerrors"
)

// Repository handles prompt library persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, p *domain.Prompt) error {
	entity, err := mapDomain(ctx, p)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create prompt",
			err,
			"5b814c9d-0e2f-4a3b-5c6d-7e8f9a0b1c18",
		)
	}
	mapped, err := mapEntity(ctx, entity)
	if err != nil {
		return err
	}
	*p = mapped
	return nil
}

func (r *Repository) Update(ctx context.Context, p *domain.Prompt) error {
	entity, err := mapDomain(ctx, p)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Save(&entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to update prompt",
			err,
			"6c925d0e-1f3a-4b4c-6d7e-8f9a0b1c2d19",
		)
	}
	mapped, err := mapEntity(ctx, entity)
	if err != nil {
		return err
	}
	*p = mapped
	return nil
}

func (r *Repository) DeleteByID(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&entities.Prompt{}, id).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete prompt",
			err,
			"7da36e1f-2a4b-4c5d-7e8f-9a0b1c2d3e1a",
		)
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id uint) (*domain.Prompt, error) {
	var entity entities.Prompt
	err := r.db.WithContext(ctx).First(&entity, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find prompt by id",
			err,
			"8eb47f2a-3b5c-4d6e-8f9a-0b1c2d3e4f1b",
		)
	}
	p, err := mapEntity(ctx, entity)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) FindByFilter(ctx context.Context, filter domain.PromptFilter) ([]*domain.Prompt, error) {
	var rows []entities.Prompt
	query := r.applyFilter(ctx, filter).Order("created_at desc")
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
			"failed to query prompts",
			err,
			"9fc58a3b-4c6d-4e7f-9a0b-1c2d3e4f5a1c",
		)
	}
	prompts := make([]*domain.Prompt, 0, len(rows))
	for _, row := range rows {
		p, err := mapEntity(ctx, row)
		if err != nil {
			return nil, err
		}
		prompts = append(prompts, &p)
	}
	return prompts, nil
}

func (r *Repository) Count(ctx context.Context, filter domain.PromptFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(ctx, filter).Count(&count).Error; err != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to count prompts",
			err,
			"a0d69b4c-5d7e-4f8a-0b1c-2d3e4f5a6b1d",
		)
	}
	return count, nil
}

func (r *Repository) applyFilter(ctx context.Context, filter domain.PromptFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&entities.Prompt{})
	if filter.Search != nil {
		pattern := "%" + *filter.Search + "%"
		query = query.Where("title LIKE ? OR text LIKE ?", pattern, pattern)
	}
	if filter.Tag != nil {
		// Tags live in a JSON array column; match the quoted element.
		query = query.Where("tags LIKE ?", `%"`+*filter.Tag+`"%`)
	}
	if filter.Favorite != nil {
		query = query.Where("favorite = ?", *filter.Favorite)
	}
	return query
}

func mapDomain(ctx context.Context, p *domain.Prompt) (entities.Prompt, error) {
	tags := "[]"
	if len(p.Tags) > 0 {
		raw, err := json.Marshal(p.Tags)
		if err != nil {
			return entities.Prompt{}, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeInternal,
				"failed to encode prompt tags",
				err,
				"b1e70c5d-6e8f-4a9b-1c2d-3e4f5a6b7c1e",
			)
		}
		tags = string(raw)
	}
	return entities.Prompt{
		ID:        p.ID,
		Title:     p.Title,
		Text:      p.Text,
		Tags:      tags,
		Favorite:  p.Favorite,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}, nil
}

func mapEntity(ctx context.Context, entity entities.Prompt) (domain.Prompt, error) {
	var tags []string
	if entity.Tags != "" {
		if err := json.Unmarshal([]byte(entity.Tags), &tags); err != nil {
			return domain.Prompt{}, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeInternal,
				"failed to decode prompt tags",
				err,
				"c2f81d6e-7f9a-4b0c-2d3e-4f5a6b7c8d1f",
			)
		}
	}
	return domain.Prompt{
		ID:        entity.ID,
		Title:     entity.Title,
		Text:      entity.Text,
		Tags:      tags,
		Favorite:  entity.Favorite,
		CreatedAt: entity.CreatedAt,
		UpdatedAt: entity.UpdatedAt,
	}, nil
}
