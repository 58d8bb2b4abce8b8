package contract

import (
	"context"

	"restaurant-discovery-be/internal/entity"
)

// MetadataRepository is keyed CRUD over the document store.
// Lookup misses return (nil, nil); callers decide whether that is an error.
type MetadataRepository interface {
	Insert(ctx context.Context, metadata *entity.Metadata) error
	Save(ctx context.Context, metadata *entity.Metadata) error
	Delete(ctx context.Context, id string) error
	DeleteByIds(ctx context.Context, ids []string) error
	FindById(ctx context.Context, id string) (*entity.Metadata, error)
	FindByIds(ctx context.Context, ids []string) ([]*entity.Metadata, error)
	FindAll(ctx context.Context) ([]*entity.Metadata, error)
	// ExistingIds is the batched existence probe used by upsert routing.
	ExistingIds(ctx context.Context, ids []string) (map[string]bool, error)
}
