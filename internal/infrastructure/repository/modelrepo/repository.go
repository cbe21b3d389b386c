package modelrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "chatlist-server/internal/domain/model"
	"chatlist-server/internal/infrastructure/database/entities"
	"chatlist-server/internal/utils/platformerrors"
)

// Repository handles model registry persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, m *domain.Model) error {
	entity := mapDomain(m)
	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create model",
			err,
			"e41a7b2c-3d5e-4f6a-8b9c-0d1e2f3a4b11",
		)
	}
	*m = mapEntity(entity)
	return nil
}

func (r *Repository) Update(ctx context.Context, m *domain.Model) error {
	entity := mapDomain(m)
	if err := r.db.WithContext(ctx).Save(&entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to update model",
			err,
			"f52b8c3d-4e6f-4a7b-9c0d-1e2f3a4b5c12",
		)
	}
	*m = mapEntity(entity)
	return nil
}

func (r *Repository) DeleteByID(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&entities.Model{}, id).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete model",
			err,
			"063c9d4e-5f7a-4b8c-0d1e-2f3a4b5c6d13",
		)
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id uint) (*domain.Model, error) {
	var entity entities.Model
	err := r.db.WithContext(ctx).First(&entity, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find model by id",
			err,
			"174d0e5f-6a8b-4c9d-1e2f-3a4b5c6d7e14",
		)
	}
	m := mapEntity(entity)
	return &m, nil
}

func (r *Repository) FindByDisplayName(ctx context.Context, name string) (*domain.Model, error) {
	var entity entities.Model
	err := r.db.WithContext(ctx).Where("display_name = ?", name).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find model by name",
			err,
			"285e1f6a-7b9c-4d0e-2f3a-4b5c6d7e8f15",
		)
	}
	m := mapEntity(entity)
	return &m, nil
}

func (r *Repository) FindByFilter(ctx context.Context, filter domain.ModelFilter) ([]*domain.Model, error) {
	var rows []entities.Model
	err := r.applyFilter(ctx, filter).Order("id asc").Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to query models",
			err,
			"396f2a7b-8c0d-4e1f-3a4b-5c6d7e8f9a16",
		)
	}
	models := make([]*domain.Model, len(rows))
	for i, row := range rows {
		m := mapEntity(row)
		models[i] = &m
	}
	return models, nil
}

func (r *Repository) Count(ctx context.Context, filter domain.ModelFilter) (int64, error) {
	var count int64
	err := r.applyFilter(ctx, filter).Count(&count).Error
	if err != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to count models",
			err,
			"4a703b8c-9d1e-4f2a-4b5c-6d7e8f9a0b17",
		)
	}
	return count, nil
}

func (r *Repository) applyFilter(ctx context.Context, filter domain.ModelFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&entities.Model{})
	if filter.IDs != nil {
		query = query.Where("id IN ?", *filter.IDs)
	}
	if filter.DisplayName != nil {
		query = query.Where("display_name = ?", *filter.DisplayName)
	}
	if filter.Kind != nil {
		query = query.Where("kind = ?", string(*filter.Kind))
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	return query
}

func mapDomain(m *domain.Model) entities.Model {
	return entities.Model{
		ID:            m.ID,
		DisplayName:   m.DisplayName,
		RemoteName:    m.RemoteName,
		Kind:          string(m.Kind),
		EndpointURL:   m.EndpointURL,
		CredentialRef: m.CredentialRef,
		Active:        m.Active,
		Temperature:   m.Temperature,
		MaxTokens:     m.MaxTokens,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func mapEntity(entity entities.Model) domain.Model {
	return domain.Model{
		ID:            entity.ID,
		DisplayName:   entity.DisplayName,
		RemoteName:    entity.RemoteName,
		Kind:          domain.ProviderKind(entity.Kind),
		EndpointURL:   entity.EndpointURL,
		CredentialRef: entity.CredentialRef,
		Active:        entity.Active,
		Temperature:   entity.Temperature,
		MaxTokens:     entity.MaxTokens,
		CreatedAt:     entity.CreatedAt,
		UpdatedAt:     entity.UpdatedAt,
	}
}
