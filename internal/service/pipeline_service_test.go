package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"restaurant-discovery-be/internal/entity"
	"restaurant-discovery-be/internal/pkg/logger"
	"restaurant-discovery-be/pkg/analyzer"
	"restaurant-discovery-be/pkg/embedding"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAnalyzer returns one canned extraction per review text.
type fakeAnalyzer struct {
	mu      sync.Mutex
	results map[string]*analyzer.Result
	calls   int
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, review analyzer.Review) (*analyzer.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	result, ok := f.results[review.Text]
	if !ok {
		return nil, fmt.Errorf("no canned result for %q", review.Text)
	}
	return result, nil
}

// fakeEmbedder maps each axis text to a fixed two-dimensional vector.
type fakeEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float32
}

func (f *fakeEmbedder) Embed(ctx context.Context, req embedding.Request) (*embedding.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &embedding.Response{
		MoodVector:     f.vectors[req.Mood],
		TasteVector:    f.vectors[req.Taste],
		CategoryVector: f.vectors[req.Category],
	}, nil
}

// fakeRestaurantStore implements IRestaurantService over a map so the
// pipeline's merge lookups see earlier upserts.
type fakeRestaurantStore struct {
	mu      sync.Mutex
	rows    map[string]*entity.Restaurant
	upserts int
}

func newFakeRestaurantStore() *fakeRestaurantStore {
	return &fakeRestaurantStore{rows: make(map[string]*entity.Restaurant)}
}

func (f *fakeRestaurantStore) Insert(ctx context.Context, r *entity.Restaurant) error {
	return f.Upsert(ctx, r)
}

func (f *fakeRestaurantStore) Update(ctx context.Context, r *entity.Restaurant) error {
	return f.Upsert(ctx, r)
}

func (f *fakeRestaurantStore) Upsert(ctx context.Context, restaurants ...*entity.Restaurant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range restaurants {
		clone := *r
		f.rows[r.Id()] = &clone
		f.upserts++
	}
	return nil
}

func (f *fakeRestaurantStore) Delete(ctx context.Context, ids ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		delete(f.rows, id)
	}
	return nil
}

func (f *fakeRestaurantStore) Get(ctx context.Context, id string) (*entity.Restaurant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return nil, fmt.Errorf("%w: restaurant %s", entity.ErrEntityNotFound, id)
	}
	clone := *r
	return &clone, nil
}

func (f *fakeRestaurantStore) GetAll(ctx context.Context) ([]*entity.Restaurant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Restaurant
	for _, r := range f.rows {
		clone := *r
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeRestaurantStore) SearchByField(ctx context.Context, field string, vector []float32, limit int) ([]*ScoredRestaurant, error) {
	return nil, nil
}

func (f *fakeRestaurantStore) HybridSearch(ctx context.Context, queries map[string][]float32, weights map[string]float64, limit int) ([]*ScoredRestaurant, error) {
	return nil, nil
}

func (f *fakeRestaurantStore) get(id string) *entity.Restaurant {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[id]
}

func (f *fakeRestaurantStore) upsertCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.upserts
}

var _ IRestaurantService = &fakeRestaurantStore{}

func testPipeline(t *testing.T, store *fakeRestaurantStore, opts PipelineOptions) IPipelineService {
	t.Helper()

	fa := &fakeAnalyzer{results: map[string]*analyzer.Result{
		"분위기가 아늑해요": {
			Name:    "국수집",
			Address: "서울 테헤란로 123",
			Mood:    "cozy",
			Taste:   "mild",
		},
		"매콤하고 시끌벅적": {
			Name:    "국수집",
			Address: "서울 테헤란로 123",
			Mood:    "lively",
			Taste:   "spicy",
		},
	}}
	fe := &fakeEmbedder{vectors: map[string][]float32{
		"cozy":   {1, 0},
		"lively": {0, 1},
		"mild":   {1, 0},
		"spicy":  {0, 1},
	}}

	p := NewPipelineService(fa, fe, store, logger.NewNopLogger(), opts)
	t.Cleanup(p.Stop)
	return p
}

func review(url, text string) analyzer.Review {
	return analyzer.Review{Source: "naver", URL: url, Text: text}
}

func TestReceiveReviewValidation(t *testing.T) {
	p := testPipeline(t, newFakeRestaurantStore(), PipelineOptions{})

	err := p.ReceiveReviewData(analyzer.Review{Source: "naver", URL: "http://x"})

	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrInvalidRequest)
	assert.Equal(t, StateIdle, p.State(), "invalid review must not start the pipeline")
}

func TestSingleReviewFlowsToEmbeddedUpsert(t *testing.T) {
	store := newFakeRestaurantStore()
	p := testPipeline(t, store, PipelineOptions{})

	require.NoError(t, p.ReceiveReviewData(review("http://r/1", "분위기가 아늑해요")))
	assert.Equal(t, StateRunning, p.State())

	require.Eventually(t, func() bool {
		return store.upsertCount() == 1
	}, 3*time.Second, 10*time.Millisecond)

	all, err := store.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)

	got := all[0]
	assert.Equal(t, entity.StepEmbedded, got.Status())
	assert.Equal(t, "국수집", got.Metadata.Name)
	assert.Equal(t, []string{"분위기가 아늑해요"}, got.Metadata.Reviews)
	assert.Equal(t, []string{"cozy"}, got.Metadata.Moods)
	require.NotNil(t, got.Embedding)
	assert.Equal(t, got.Id(), got.Embedding.Id)
	// First sample is the centroid itself.
	assert.InDeltaSlice(t, []float32{1, 0}, got.Embedding.MoodVector, 1e-6)
}

func TestSecondReviewMergesAndAveragesVectors(t *testing.T) {
	store := newFakeRestaurantStore()
	p := testPipeline(t, store, PipelineOptions{})

	require.NoError(t, p.ReceiveReviewData(review("http://r/1", "분위기가 아늑해요")))
	require.Eventually(t, func() bool {
		return store.upsertCount() == 1
	}, 3*time.Second, 10*time.Millisecond)

	require.NoError(t, p.ReceiveReviewData(review("http://r/2", "매콤하고 시끌벅적")))
	require.Eventually(t, func() bool {
		return store.upsertCount() == 2
	}, 3*time.Second, 10*time.Millisecond)

	all, err := store.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1, "same name and road merge into one aggregate")

	got := all[0]
	assert.Equal(t, entity.StepEmbedded, got.Status())
	assert.Len(t, got.Metadata.Reviews, 2)
	assert.Equal(t, []string{"cozy", "lively"}, got.Metadata.Moods)
	// (1,0) and (0,1) with one prior sample average to (0.5, 0.5).
	assert.InDeltaSlice(t, []float32{0.5, 0.5}, got.Embedding.MoodVector, 1e-6)
	assert.InDeltaSlice(t, []float32{0.5, 0.5}, got.Embedding.TasteVector, 1e-6)
}

func TestDuplicateURLIsDropped(t *testing.T) {
	store := newFakeRestaurantStore()
	p := testPipeline(t, store, PipelineOptions{})

	require.NoError(t, p.ReceiveReviewData(review("http://r/1", "분위기가 아늑해요")))
	require.NoError(t, p.ReceiveReviewData(review("http://r/1", "분위기가 아늑해요")))

	require.Eventually(t, func() bool {
		return store.upsertCount() == 1
	}, 3*time.Second, 10*time.Millisecond)

	// Give the pipeline a moment; the duplicate must not produce a second
	// upsert.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, store.upsertCount())
}

func TestWatchdogStopsIdlePipeline(t *testing.T) {
	store := newFakeRestaurantStore()
	p := testPipeline(t, store, PipelineOptions{
		IdleTimeout:      50 * time.Millisecond,
		WatchdogInterval: 20 * time.Millisecond,
	})

	require.NoError(t, p.ReceiveReviewData(review("http://r/1", "분위기가 아늑해요")))
	assert.Equal(t, StateRunning, p.State())

	require.Eventually(t, func() bool {
		return p.State() == StateIdle
	}, 3*time.Second, 10*time.Millisecond, "watchdog returns the pipeline to idle")

	// A new review restarts it.
	require.NoError(t, p.ReceiveReviewData(review("http://r/2", "매콤하고 시끌벅적")))
	assert.Equal(t, StateRunning, p.State())
}

func TestStopReturnsToIdle(t *testing.T) {
	p := testPipeline(t, newFakeRestaurantStore(), PipelineOptions{})

	require.NoError(t, p.ReceiveReviewData(review("http://r/1", "분위기가 아늑해요")))
	assert.Equal(t, StateRunning, p.State())

	p.Stop()
	assert.Equal(t, StateIdle, p.State())
}

// An analyzer failure on one review must not halt the stream: the next
// review still flows through.
func TestAnalyzerFailureIsIsolated(t *testing.T) {
	store := newFakeRestaurantStore()
	p := testPipeline(t, store, PipelineOptions{})

	require.NoError(t, p.ReceiveReviewData(review("http://r/bad", "모르는 리뷰")))
	require.NoError(t, p.ReceiveReviewData(review("http://r/1", "분위기가 아늑해요")))

	require.Eventually(t, func() bool {
		return store.upsertCount() == 1
	}, 3*time.Second, 10*time.Millisecond)
}
