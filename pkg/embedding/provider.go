package embedding

import "context"

// Request carries the three semantic texts of one analyzed review sample.
type Request struct {
	Mood     string
	Taste    string
	Category string
}

// Response holds one fixed-dimension, unit-normalized vector per axis.
type Response struct {
	MoodVector     []float32
	TasteVector    []float32
	CategoryVector []float32
}

// Provider generates the per-axis embedding vectors for a sample.
type Provider interface {
	Embed(ctx context.Context, req Request) (*Response, error)
}
