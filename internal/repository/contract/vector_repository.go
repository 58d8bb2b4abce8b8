package contract

import (
	"context"

	"restaurant-discovery-be/internal/entity"
)

// ScoredEmbedding wraps an Embedding with its search score (0.0 to 1.0).
type ScoredEmbedding struct {
	Embedding *entity.Embedding
	Score     float64
}

// VectorRepository is keyed CRUD plus similarity search over the vector
// store. Field names are the semantic axes from the schema table.
type VectorRepository interface {
	Upsert(ctx context.Context, embedding *entity.Embedding) error
	Delete(ctx context.Context, id string) error
	DeleteByIds(ctx context.Context, ids []string) error
	FindById(ctx context.Context, id string) (*entity.Embedding, error)
	FindByIds(ctx context.Context, ids []string) ([]*entity.Embedding, error)
	FindAll(ctx context.Context) ([]*entity.Embedding, error)
	// SearchByField runs top-K nearest-neighbor on one named vector field.
	SearchByField(ctx context.Context, field string, vector []float32, limit int) ([]*ScoredEmbedding, error)
	// HybridSearch ranks by a weighted combination of similarities across
	// multiple named vector fields.
	HybridSearch(ctx context.Context, queries map[string][]float32, weights map[string]float64, limit int) ([]*ScoredEmbedding, error)
}
