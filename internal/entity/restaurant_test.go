package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetadataImmutability(t *testing.T) {
	original := Metadata{
		Id:     "abc",
		Status: StepPrepared,
		Moods:  []string{"cozy"},
	}

	updated := original.AddMood("lively").WithStatus(StepAnalyzed)

	assert.Equal(t, []string{"cozy"}, original.Moods, "original must not change")
	assert.Equal(t, StepPrepared, original.Status)
	assert.Equal(t, []string{"cozy", "lively"}, updated.Moods)
	assert.Equal(t, StepAnalyzed, updated.Status)

	// Mutating the copy's backing array must not reach the original.
	updated.Moods[0] = "noisy"
	assert.Equal(t, "cozy", original.Moods[0])
}

func TestWeightedAverage(t *testing.T) {
	tests := []struct {
		name       string
		old        []float32
		sample     []float32
		priorCount int
		want       []float32
	}{
		{
			name:       "first sample is taken verbatim",
			old:        nil,
			sample:     []float32{1, 2, 3},
			priorCount: 0,
			want:       []float32{1, 2, 3},
		},
		{
			name:       "zero prior count ignores old vector",
			old:        []float32{9, 9, 9},
			sample:     []float32{1, 2, 3},
			priorCount: 0,
			want:       []float32{1, 2, 3},
		},
		{
			name:       "second sample averages evenly",
			old:        []float32{2, 4},
			sample:     []float32{4, 8},
			priorCount: 1,
			want:       []float32{3, 6},
		},
		{
			name:       "third sample weighs the centroid twice",
			old:        []float32{3, 3},
			sample:     []float32{9, 0},
			priorCount: 2,
			want:       []float32{5, 2},
		},
		{
			name:       "empty sample keeps the centroid",
			old:        []float32{1, 2},
			sample:     nil,
			priorCount: 3,
			want:       []float32{1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := weightedAverage(tt.old, tt.sample, tt.priorCount)
			assert.InDeltaSlice(t, tt.want, got, 1e-6)
		})
	}
}

func TestWithMoodVectorDoesNotAliasSample(t *testing.T) {
	sample := []float32{1, 1}
	emb := Embedding{Id: "abc"}.WithMoodVector(sample, 0)

	sample[0] = 99
	assert.Equal(t, float32(1), emb.MoodVector[0])
}

func TestRestaurantWithEmbedding(t *testing.T) {
	r := Restaurant{Metadata: Metadata{Id: "abc", Status: StepAnalyzed}}
	assert.Nil(t, r.Embedding)

	embedded := r.WithEmbedding(Embedding{Id: "abc"}).WithStatus(StepEmbedded)

	assert.Nil(t, r.Embedding, "original aggregate stays untouched")
	assert.NotNil(t, embedded.Embedding)
	assert.Equal(t, StepEmbedded, embedded.Status())
	assert.Equal(t, "abc", embedded.Embedding.Id)
}
