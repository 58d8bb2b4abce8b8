package dto

// Search DTOs. Field names must match the vector schema
// ("mood", "taste", "category_vector").

type SearchByFieldRequest struct {
	Field string `json:"field" validate:"required"`
	Query string `json:"query" validate:"required"`
	Limit int    `json:"limit" validate:"omitempty,min=1,max=100"`
}

type HybridSearchRequest struct {
	Queries map[string]string  `json:"queries" validate:"required,min=1"`
	Weights map[string]float64 `json:"weights"`
	Limit   int                `json:"limit" validate:"omitempty,min=1,max=100"`
}
