package mapper

import (
	"restaurant-discovery-be/internal/dto"
	"restaurant-discovery-be/internal/entity"
)

func (m *RestaurantMapper) ToResponse(r *entity.Restaurant) dto.RestaurantResponse {
	if r == nil {
		return dto.RestaurantResponse{}
	}

	return dto.RestaurantResponse{
		Id:       r.Id(),
		Status:   string(r.Status()),
		Source:   r.Metadata.Source,
		Name:     r.Metadata.Name,
		Category: r.Metadata.Category,
		Phone:    r.Metadata.Phone,
		Address:  r.Metadata.Address,
		Coordinates: dto.CoordinatesResponse{
			Latitude:  r.Metadata.Coordinates.Latitude,
			Longitude: r.Metadata.Coordinates.Longitude,
		},
		Reviews:      r.Metadata.Reviews,
		BusinessDays: r.Metadata.BusinessDays,
		Wifi:         r.Metadata.Wifi,
		Parking:      r.Metadata.Parking,
		Menus:        r.Metadata.Menus,
		PriceRange:   r.Metadata.PriceRange,
		Moods:        r.Metadata.Moods,
		Tastes:       r.Metadata.Tastes,
		HasEmbedding: r.Embedding != nil,
		CreatedAt:    r.Metadata.CreatedAt,
		UpdatedAt:    r.Metadata.UpdatedAt,
	}
}

func (m *RestaurantMapper) ToListResponse(restaurants []*entity.Restaurant) dto.RestaurantListResponse {
	items := make([]dto.RestaurantResponse, 0, len(restaurants))
	for _, r := range restaurants {
		items = append(items, m.ToResponse(r))
	}
	return dto.RestaurantListResponse{Restaurants: items, Total: len(items)}
}

func (m *RestaurantMapper) ToScoredResponse(r *entity.Restaurant, score float64) dto.ScoredRestaurantResponse {
	return dto.ScoredRestaurantResponse{
		RestaurantResponse: m.ToResponse(r),
		Score:              score,
	}
}
