package mapper

import (
	"testing"

	"restaurant-discovery-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMetadataModelAppliesSchemaDefaults(t *testing.T) {
	m := NewRestaurantMapper()

	// Analysis rarely fills every field; blanks take the schema defaults so
	// the store never holds empty strings or NULL lists.
	row := m.ToMetadataModel(&entity.Metadata{
		Id:     "r1",
		Name:   "국수집",
		Status: entity.StepPrepared,
	})

	require.NotNil(t, row)
	assert.Equal(t, "PREPARED", row.Status)
	assert.Equal(t, "UNKNOWN", row.Source)
	assert.Equal(t, "UNKNOWN", row.Category)
	assert.Equal(t, "UNKNOWN", row.PriceRange)
	assert.Equal(t, "[]", string(row.Reviews))
	assert.Equal(t, "[]", string(row.Moods))
}

func TestMetadataModelRoundTrip(t *testing.T) {
	m := NewRestaurantMapper()

	original := &entity.Metadata{
		Id:       "r1",
		Status:   entity.StepAnalyzed,
		Source:   "naver",
		Name:     "국수집",
		Category: "korean",
		Address:  "서울 테헤란로 123",
		Coordinates: entity.Coordinates{
			Latitude:  37.5,
			Longitude: 127.0,
		},
		Reviews: []string{"아늑해요"},
		Moods:   []string{"cozy"},
		Wifi:    true,
	}

	back := m.ToMetadataEntity(m.ToMetadataModel(original))

	require.NotNil(t, back)
	assert.Equal(t, original.Id, back.Id)
	assert.Equal(t, original.Status, back.Status)
	assert.Equal(t, original.Coordinates, back.Coordinates)
	assert.Equal(t, original.Reviews, back.Reviews)
	assert.Equal(t, original.Moods, back.Moods)
	assert.True(t, back.Wifi)
}

func TestVectorModelRoundTrip(t *testing.T) {
	m := NewRestaurantMapper()

	original := &entity.Embedding{
		Id:             "r1",
		MoodVector:     []float32{0.1, 0.2},
		TasteVector:    []float32{0.3, 0.4},
		CategoryVector: []float32{0.5, 0.6},
		Category:       "korean",
		Parking:        true,
	}

	back := m.ToVectorEntity(m.ToVectorModel(original))

	require.NotNil(t, back)
	assert.Equal(t, original.Id, back.Id)
	assert.Equal(t, original.MoodVector, back.MoodVector)
	assert.Equal(t, original.TasteVector, back.TasteVector)
	assert.Equal(t, original.CategoryVector, back.CategoryVector)
	assert.True(t, back.Parking)
}

func TestNilMappings(t *testing.T) {
	m := NewRestaurantMapper()

	assert.Nil(t, m.ToMetadataModel(nil))
	assert.Nil(t, m.ToMetadataEntity(nil))
	assert.Nil(t, m.ToVectorModel(nil))
	assert.Nil(t, m.ToVectorEntity(nil))
}
