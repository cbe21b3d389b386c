package resultrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "chatlist-server/internal/domain/result"
	"chatlist-server/internal/infrastructure/database/entities"
	"chatlist-server/internal/utils/platformerrors"
)

// Repository handles result history persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, res *domain.Result) error {
	entity := mapDomain(res)
	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create result",
			err,
			"d3092e7f-8a0b-4c1d-3e4f-5a6b7c8d9e20",
		)
	}
	*res = mapEntity(entity)
	return nil
}

func (r *Repository) DeleteByID(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&entities.Result{}, id).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete result",
			err,
			"e41a3f8a-9b1c-4d2e-4f5a-6b7c8d9e0f21",
		)
	}
	return nil
}

func (r *Repository) DeleteByPromptID(ctx context.Context, promptID uint) (int64, error) {
	tx := r.db.WithContext(ctx).Where("prompt_id = ?", promptID).Delete(&entities.Result{})
	if tx.Error != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete results by prompt",
			tx.Error,
			"f52b4a9b-0c2d-4e3f-5a6b-7c8d9e0f1a22",
		)
	}
	return tx.RowsAffected, nil
}

func (r *Repository) FindByID(ctx context.Context, id uint) (*domain.Result, error) {
	var entity entities.Result
	err := r.db.WithContext(ctx).First(&entity, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find result by id",
			err,
			"063c5b0c-1d3e-4f4a-6b7c-8d9e0f1a2b23",
		)
	}
	res := mapEntity(entity)
	return &res, nil
}

func (r *Repository) FindByFilter(ctx context.Context, filter domain.ResultFilter) ([]*domain.Result, error) {
	var rows []entities.Result
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
			"failed to query results",
			err,
			"174d6c1d-2e4f-4a5b-7c8d-9e0f1a2b3c24",
		)
	}
	results := make([]*domain.Result, len(rows))
	for i, row := range rows {
		res := mapEntity(row)
		results[i] = &res
	}
	return results, nil
}

func (r *Repository) Count(ctx context.Context, filter domain.ResultFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(ctx, filter).Count(&count).Error; err != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to count results",
			err,
			"285e7d2e-3f5a-4b6c-8d9e-0f1a2b3c4d25",
		)
	}
	return count, nil
}

func (r *Repository) applyFilter(ctx context.Context, filter domain.ResultFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&entities.Result{})
	if filter.PromptID != nil {
		query = query.Where("prompt_id = ?", *filter.PromptID)
	}
	if filter.ModelID != nil {
		query = query.Where("model_id = ?", *filter.ModelID)
	}
	if filter.OK != nil {
		if *filter.OK {
			query = query.Where("error_kind = ''")
		} else {
			query = query.Where("error_kind <> ''")
		}
	}
	return query
}

func mapDomain(res *domain.Result) entities.Result {
	return entities.Result{
		ID:             res.ID,
		PromptID:       res.PromptID,
		ModelID:        res.ModelID,
		ModelName:      res.ModelName,
		ResponseText:   res.ResponseText,
		ErrorKind:      res.ErrorKind,
		ErrorMessage:   res.ErrorMessage,
		ResponseTimeMs: res.ResponseTime.Milliseconds(),
		TokensUsed:     res.TokensUsed,
		CreatedAt:      res.CreatedAt,
	}
}

func mapEntity(entity entities.Result) domain.Result {
	return domain.Result{
		ID:           entity.ID,
		PromptID:     entity.PromptID,
		ModelID:      entity.ModelID,
		ModelName:    entity.ModelName,
		ResponseText: entity.ResponseText,
		ErrorKind:    entity.ErrorKind,
		ErrorMessage: entity.ErrorMessage,
		ResponseTime: time.Duration(entity.ResponseTimeMs) * time.Millisecond,
		TokensUsed:   entity.TokensUsed,
		CreatedAt:    entity.CreatedAt,
	}
}
