package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVectorColumn(t *testing.T) {
	tests := []struct {
		field      string
		wantColumn string
		wantOk     bool
	}{
		{"mood", "mood_vector", true},
		{"taste", "taste_vector", true},
		{"category_vector", "category_vector", true},
		{"status", "", false},
		{"reviews", "", false},
		{"mood_vector; DROP TABLE restaurant_vectors", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			column, ok := VectorColumn(tt.field)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.wantColumn, column)
		})
	}
}

func TestVectorFieldNames(t *testing.T) {
	assert.ElementsMatch(t, []string{"mood", "taste", "category_vector"}, VectorFieldNames())
}

func TestDefaultValue(t *testing.T) {
	assert.Equal(t, "PREPARED", DefaultValue("status"))
	assert.Equal(t, "UNKNOWN", DefaultValue("category"))
	assert.Equal(t, "[]", DefaultValue("moods"))
	assert.Equal(t, "", DefaultValue("mood"))
	assert.Equal(t, "", DefaultValue("nope"))
}
