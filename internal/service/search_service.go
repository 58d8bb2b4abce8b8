package service

import (
	"context"
	"fmt"

	"restaurant-discovery-be/internal/entity"
	"restaurant-discovery-be/internal/model"
	"restaurant-discovery-be/pkg/embedding"
)

// ISearchService turns free-text queries into vectors and delegates the
// similarity ranking to the restaurant service.
type ISearchService interface {
	SearchByField(ctx context.Context, field string, query string, limit int) ([]*ScoredRestaurant, error)
	HybridSearch(ctx context.Context, queries map[string]string, weights map[string]float64, limit int) ([]*ScoredRestaurant, error)
}

type searchService struct {
	embedder    embedding.Provider
	restaurants IRestaurantService
}

func NewSearchService(embedder embedding.Provider, restaurants IRestaurantService) ISearchService {
	return &searchService{embedder: embedder, restaurants: restaurants}
}

func (s *searchService) SearchByField(ctx context.Context, field string, query string, limit int) ([]*ScoredRestaurant, error) {
	vector, err := s.embedQuery(ctx, field, query)
	if err != nil {
		return nil, err
	}
	return s.restaurants.SearchByField(ctx, field, vector, limit)
}

func (s *searchService) HybridSearch(ctx context.Context, queries map[string]string, weights map[string]float64, limit int) ([]*ScoredRestaurant, error) {
	vectors := make(map[string][]float32, len(queries))
	for field, query := range queries {
		vector, err := s.embedQuery(ctx, field, query)
		if err != nil {
			return nil, err
		}
		vectors[field] = vector
	}
	return s.restaurants.HybridSearch(ctx, vectors, weights, limit)
}

// embedQuery routes the query text through the embedding axis matching the
// named vector field.
func (s *searchService) embedQuery(ctx context.Context, field string, query string) ([]float32, error) {
	if _, ok := model.VectorColumn(field); !ok {
		return nil, fmt.Errorf("%w: unknown vector field %q", entity.ErrInvalidRequest, field)
	}

	req := embedding.Request{}
	switch field {
	case "mood":
		req.Mood = query
	case "taste":
		req.Taste = query
	case "category_vector":
		req.Category = query
	}

	response, err := s.embedder.Embed(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("embed query for field %s: %w", field, err)
	}

	switch field {
	case "mood":
		return response.MoodVector, nil
	case "taste":
		return response.TasteVector, nil
	default:
		return response.CategoryVector, nil
	}
}
