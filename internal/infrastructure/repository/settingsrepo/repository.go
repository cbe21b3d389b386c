package settingsrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "chatlist-server/internal/domain/settings"
	"chatlist-server/internal/infrastructure/database/entities"
	"chatlist-server/internal/utils/platformerrors"
)

// Repository handles settings persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Upsert(ctx context.Context, s *domain.Setting) error {
	entity := entities.Setting{
		Key:   s.Key,
		Value: s.Raw,
		Type:  string(s.Type),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "type", "updated_at"}),
	}).Create(&entity).Error
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to upsert setting",
			err,
			"9fc54e9f-0a2b-4c3d-5e6f-7a8b9c0d1e2c",
		)
	}
	s.UpdatedAt = entity.UpdatedAt
	return nil
}

func (r *Repository) DeleteByKey(ctx context.Context, key string) error {
	if err := r.db.WithContext(ctx).Delete(&entities.Setting{}, "key = ?", key).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete setting",
			err,
			"a0d65fa0-1b3c-4d4e-6f7a-8b9c0d1e2f2d",
		)
	}
	return nil
}

func (r *Repository) FindByKey(ctx context.Context, key string) (*domain.Setting, error) {
	var entity entities.Setting
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find setting",
			err,
			"b1e76ab1-2c4d-4e5f-7a8b-9c0d1e2f3a2e",
		)
	}
	s := mapEntity(entity)
	return &s, nil
}

func (r *Repository) FindAll(ctx context.Context) ([]*domain.Setting, error) {
	var rows []entities.Setting
	if err := r.db.WithContext(ctx).Order("key asc").Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list settings",
			err,
			"c2f87bc2-3d5e-4f6a-8b9c-0d1e2f3a4b2f",
		)
	}
	out := make([]*domain.Setting, len(rows))
	for i, row := range rows {
		s := mapEntity(row)
		out[i] = &s
	}
	return out, nil
}

func mapEntity(entity entities.Setting) domain.Setting {
	return domain.Setting{
		Key:       entity.Key,
		Raw:       entity.Value,
		Type:      domain.ValueType(entity.Type),
		UpdatedAt: entity.UpdatedAt,
	}
}
