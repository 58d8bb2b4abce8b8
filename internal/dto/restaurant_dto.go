package dto

import "time"

// Restaurant read DTOs

type CoordinatesResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type RestaurantResponse struct {
	Id           string              `json:"id"`
	Status       string              `json:"status"`
	Source       string              `json:"source"`
	Name         string              `json:"name"`
	Category     string              `json:"category"`
	Phone        string              `json:"phone,omitempty"`
	Address      string              `json:"address"`
	Coordinates  CoordinatesResponse `json:"coordinates"`
	Reviews      []string            `json:"reviews"`
	BusinessDays []string            `json:"business_days"`
	Wifi         bool                `json:"wifi"`
	Parking      bool                `json:"parking"`
	Menus        []string            `json:"menus"`
	PriceRange   string              `json:"price_range"`
	Moods        []string            `json:"moods"`
	Tastes       []string            `json:"tastes"`
	HasEmbedding bool                `json:"has_embedding"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    *time.Time          `json:"updated_at,omitempty"`
}

type RestaurantListResponse struct {
	Restaurants []RestaurantResponse `json:"restaurants"`
	Total       int                  `json:"total"`
}

type ScoredRestaurantResponse struct {
	RestaurantResponse
	Score float64 `json:"score"`
}

type SearchResultResponse struct {
	Results []ScoredRestaurantResponse `json:"results"`
	Total   int                        `json:"total"`
}
