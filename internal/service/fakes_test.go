package service

import (
	"context"
	"fmt"
	"sync"

	"restaurant-discovery-be/internal/entity"
	"restaurant-discovery-be/internal/repository/contract"
)

// fakeMetadataRepo is an in-memory MetadataRepository with per-method error
// injection for compensation tests.
type fakeMetadataRepo struct {
	mu    sync.Mutex
	rows  map[string]*entity.Metadata
	calls []string

	insertErr error
	saveErr   error
	findErr   error
	deleteErr error
}

func newFakeMetadataRepo() *fakeMetadataRepo {
	return &fakeMetadataRepo{rows: make(map[string]*entity.Metadata)}
}

func (f *fakeMetadataRepo) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeMetadataRepo) Insert(ctx context.Context, metadata *entity.Metadata) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("insert:" + metadata.Id)
	if f.insertErr != nil {
		return f.insertErr
	}
	if _, exists := f.rows[metadata.Id]; exists {
		return fmt.Errorf("%w: metadata id %s already exists", entity.ErrInvalidRequest, metadata.Id)
	}
	clone := *metadata
	f.rows[metadata.Id] = &clone
	return nil
}

func (f *fakeMetadataRepo) Save(ctx context.Context, metadata *entity.Metadata) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("save:" + metadata.Id)
	if f.saveErr != nil {
		return f.saveErr
	}
	clone := *metadata
	f.rows[metadata.Id] = &clone
	return nil
}

func (f *fakeMetadataRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("delete:" + id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeMetadataRepo) DeleteByIds(ctx context.Context, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(fmt.Sprintf("deleteByIds:%d", len(ids)))
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for _, id := range ids {
		delete(f.rows, id)
	}
	return nil
}

func (f *fakeMetadataRepo) FindById(ctx context.Context, id string) (*entity.Metadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	row, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	clone := *row
	return &clone, nil
}

func (f *fakeMetadataRepo) FindByIds(ctx context.Context, ids []string) ([]*entity.Metadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []*entity.Metadata
	for _, id := range ids {
		if row, ok := f.rows[id]; ok {
			clone := *row
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeMetadataRepo) FindAll(ctx context.Context) ([]*entity.Metadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []*entity.Metadata
	for _, row := range f.rows {
		clone := *row
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeMetadataRepo) ExistingIds(ctx context.Context, ids []string) (map[string]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := f.rows[id]; ok {
			out[id] = true
		}
	}
	return out, nil
}

var _ contract.MetadataRepository = &fakeMetadataRepo{}

// fakeVectorRepo is the vector-store counterpart. Search results are canned.
type fakeVectorRepo struct {
	mu    sync.Mutex
	rows  map[string]*entity.Embedding
	calls []string

	upsertErr  error
	findErr    error
	deleteErr  error
	searchHits []*contract.ScoredEmbedding
	searchErr  error
}

func newFakeVectorRepo() *fakeVectorRepo {
	return &fakeVectorRepo{rows: make(map[string]*entity.Embedding)}
}

func (f *fakeVectorRepo) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeVectorRepo) Upsert(ctx context.Context, embedding *entity.Embedding) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("upsert:" + embedding.Id)
	if f.upsertErr != nil {
		return f.upsertErr
	}
	clone := *embedding
	f.rows[embedding.Id] = &clone
	return nil
}

func (f *fakeVectorRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("delete:" + id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeVectorRepo) DeleteByIds(ctx context.Context, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(fmt.Sprintf("deleteByIds:%d", len(ids)))
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for _, id := range ids {
		delete(f.rows, id)
	}
	return nil
}

func (f *fakeVectorRepo) FindById(ctx context.Context, id string) (*entity.Embedding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	row, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	clone := *row
	return &clone, nil
}

func (f *fakeVectorRepo) FindByIds(ctx context.Context, ids []string) ([]*entity.Embedding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []*entity.Embedding
	for _, id := range ids {
		if row, ok := f.rows[id]; ok {
			clone := *row
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeVectorRepo) FindAll(ctx context.Context) ([]*entity.Embedding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []*entity.Embedding
	for _, row := range f.rows {
		clone := *row
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeVectorRepo) SearchByField(ctx context.Context, field string, vector []float32, limit int) ([]*contract.ScoredEmbedding, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searchHits, nil
}

func (f *fakeVectorRepo) HybridSearch(ctx context.Context, queries map[string][]float32, weights map[string]float64, limit int) ([]*contract.ScoredEmbedding, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searchHits, nil
}

var _ contract.VectorRepository = &fakeVectorRepo{}
