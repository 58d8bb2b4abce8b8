package implementation

import (
	"context"
	"errors"
	"fmt"

	"restaurant-discovery-be/internal/entity"
	"restaurant-discovery-be/internal/mapper"
	"restaurant-discovery-be/internal/model"
	"restaurant-discovery-be/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MetadataRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RestaurantMapper
}

func NewMetadataRepository(db *gorm.DB) contract.MetadataRepository {
	return &MetadataRepositoryImpl{
		db:     db,
		mapper: mapper.NewRestaurantMapper(),
	}
}

func (r *MetadataRepositoryImpl) Insert(ctx context.Context, metadata *entity.Metadata) error {
	m := r.mapper.ToMetadataModel(metadata)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: metadata id %s already exists", entity.ErrInvalidRequest, metadata.Id)
		}
		return err
	}
	*metadata = *r.mapper.ToMetadataEntity(m)
	return nil
}

func (r *MetadataRepositoryImpl) Save(ctx context.Context, metadata *entity.Metadata) error {
	m := r.mapper.ToMetadataModel(metadata)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(m).Error
	if err != nil {
		return err
	}
	*metadata = *r.mapper.ToMetadataEntity(m)
	return nil
}

func (r *MetadataRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.RestaurantMetadata{}, "id = ?", id).Error
}

func (r *MetadataRepositoryImpl) DeleteByIds(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Delete(&model.RestaurantMetadata{}, "id IN ?", ids).Error
}

func (r *MetadataRepositoryImpl) FindById(ctx context.Context, id string) (*entity.Metadata, error) {
	var m model.RestaurantMetadata
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToMetadataEntity(&m), nil
}

func (r *MetadataRepositoryImpl) FindByIds(ctx context.Context, ids []string) ([]*entity.Metadata, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var models []*model.RestaurantMetadata
	if err := r.db.WithContext(ctx).Find(&models, "id IN ?", ids).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToMetadataEntities(models), nil
}

func (r *MetadataRepositoryImpl) FindAll(ctx context.Context) ([]*entity.Metadata, error) {
	var models []*model.RestaurantMetadata
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToMetadataEntities(models), nil
}

func (r *MetadataRepositoryImpl) ExistingIds(ctx context.Context, ids []string) (map[string]bool, error) {
	existing := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return existing, nil
	}
	var found []string
	err := r.db.WithContext(ctx).
		Model(&model.RestaurantMetadata{}).
		Where("id IN ?", ids).
		Pluck("id", &found).Error
	if err != nil {
		return nil, err
	}
	for _, id := range found {
		existing[id] = true
	}
	return existing, nil
}
