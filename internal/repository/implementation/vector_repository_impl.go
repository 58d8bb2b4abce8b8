package implementation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"restaurant-discovery-be/internal/entity"
	"restaurant-discovery-be/internal/mapper"
	"restaurant-discovery-be/internal/model"
	"restaurant-discovery-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VectorRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RestaurantMapper
}

func NewVectorRepository(db *gorm.DB) contract.VectorRepository {
	return &VectorRepositoryImpl{
		db:     db,
		mapper: mapper.NewRestaurantMapper(),
	}
}

func (r *VectorRepositoryImpl) Upsert(ctx context.Context, embedding *entity.Embedding) error {
	m := r.mapper.ToVectorModel(embedding)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(m).Error
	if err != nil {
		return err
	}
	*embedding = *r.mapper.ToVectorEntity(m)
	return nil
}

func (r *VectorRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.RestaurantVector{}, "id = ?", id).Error
}

func (r *VectorRepositoryImpl) DeleteByIds(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Delete(&model.RestaurantVector{}, "id IN ?", ids).Error
}

func (r *VectorRepositoryImpl) FindById(ctx context.Context, id string) (*entity.Embedding, error) {
	var m model.RestaurantVector
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToVectorEntity(&m), nil
}

func (r *VectorRepositoryImpl) FindByIds(ctx context.Context, ids []string) ([]*entity.Embedding, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var models []*model.RestaurantVector
	if err := r.db.WithContext(ctx).Find(&models, "id IN ?", ids).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToVectorEntities(models), nil
}

func (r *VectorRepositoryImpl) FindAll(ctx context.Context) ([]*entity.Embedding, error) {
	var models []*model.RestaurantVector
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToVectorEntities(models), nil
}

type scoredRow struct {
	model.RestaurantVector
	Score float64
}

func (r *VectorRepositoryImpl) SearchByField(ctx context.Context, field string, vector []float32, limit int) ([]*contract.ScoredEmbedding, error) {
	column, ok := model.VectorColumn(field)
	if !ok {
		return nil, fmt.Errorf("%w: unknown vector field %q", entity.ErrInvalidRequest, field)
	}
	if limit <= 0 {
		limit = 5
	}

	queryVector := pgvector.NewVector(vector)
	var rows []scoredRow

	// Cosine distance in pgvector is 1 - cosine_similarity, so
	// 1 - (column <=> query) gives the similarity score.
	err := r.db.WithContext(ctx).
		Table("restaurant_vectors").
		Select(fmt.Sprintf("restaurant_vectors.*, 1 - (%s <=> ?) as score", column), queryVector).
		Order("score DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return r.toScored(rows), nil
}

func (r *VectorRepositoryImpl) HybridSearch(ctx context.Context, queries map[string][]float32, weights map[string]float64, limit int) ([]*contract.ScoredEmbedding, error) {
	if len(queries) == 0 {
		return nil, fmt.Errorf("%w: hybrid search needs at least one query vector", entity.ErrInvalidRequest)
	}
	if limit <= 0 {
		limit = 5
	}

	// Deterministic field order keeps the generated SQL stable.
	fields := make([]string, 0, len(queries))
	for field := range queries {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	terms := make([]string, 0, len(fields))
	args := make([]interface{}, 0, len(fields)*2)
	for _, field := range fields {
		column, ok := model.VectorColumn(field)
		if !ok {
			return nil, fmt.Errorf("%w: unknown vector field %q", entity.ErrInvalidRequest, field)
		}
		weight := weights[field]
		if weight == 0 {
			weight = 1
		}
		terms = append(terms, fmt.Sprintf("? * (1 - (%s <=> ?))", column))
		args = append(args, weight, pgvector.NewVector(queries[field]))
	}

	var rows []scoredRow
	err := r.db.WithContext(ctx).
		Table("restaurant_vectors").
		Select("restaurant_vectors.*, ("+strings.Join(terms, " + ")+") as score", args...).
		Order("score DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return r.toScored(rows), nil
}

func (r *VectorRepositoryImpl) toScored(rows []scoredRow) []*contract.ScoredEmbedding {
	scored := make([]*contract.ScoredEmbedding, len(rows))
	for i, row := range rows {
		scored[i] = &contract.ScoredEmbedding{
			Embedding: r.mapper.ToVectorEntity(&row.RestaurantVector),
			Score:     row.Score,
		}
	}
	return scored
}
