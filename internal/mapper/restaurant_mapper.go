package mapper

import (
	"encoding/json"
	"time"

	"restaurant-discovery-be/internal/entity"
	"restaurant-discovery-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type RestaurantMapper struct{}

func NewRestaurantMapper() *RestaurantMapper {
	return &RestaurantMapper{}
}

func (m *RestaurantMapper) ToMetadataModel(e *entity.Metadata) *model.RestaurantMetadata {
	if e == nil {
		return nil
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.RestaurantMetadata{
		Id:           e.Id,
		Status:       stringOrDefault(string(e.Status), "status"),
		Source:       stringOrDefault(e.Source, "source"),
		Name:         e.Name,
		Category:     stringOrDefault(e.Category, "category"),
		Phone:        e.Phone,
		Address:      e.Address,
		Latitude:     e.Coordinates.Latitude,
		Longitude:    e.Coordinates.Longitude,
		Reviews:      listToJSON(e.Reviews, "reviews"),
		BusinessDays: listToJSON(e.BusinessDays, "business_days"),
		Wifi:         e.Wifi,
		Parking:      e.Parking,
		Menus:        listToJSON(e.Menus, "menus"),
		PriceRange:   stringOrDefault(e.PriceRange, "price_range"),
		Moods:        listToJSON(e.Moods, "moods"),
		Tastes:       listToJSON(e.Tastes, "tastes"),
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *RestaurantMapper) ToMetadataEntity(mm *model.RestaurantMetadata) *entity.Metadata {
	if mm == nil {
		return nil
	}

	var updatedAt *time.Time
	if !mm.UpdatedAt.IsZero() {
		t := mm.UpdatedAt
		updatedAt = &t
	}

	return &entity.Metadata{
		Id:       mm.Id,
		Status:   entity.AnalyzeStep(mm.Status),
		Source:   mm.Source,
		Name:     mm.Name,
		Category: mm.Category,
		Phone:    mm.Phone,
		Address:  mm.Address,
		Coordinates: entity.Coordinates{
			Latitude:  mm.Latitude,
			Longitude: mm.Longitude,
		},
		Reviews:      jsonToList(mm.Reviews),
		BusinessDays: jsonToList(mm.BusinessDays),
		Wifi:         mm.Wifi,
		Parking:      mm.Parking,
		Menus:        jsonToList(mm.Menus),
		PriceRange:   mm.PriceRange,
		Moods:        jsonToList(mm.Moods),
		Tastes:       jsonToList(mm.Tastes),
		CreatedAt:    mm.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *RestaurantMapper) ToVectorModel(e *entity.Embedding) *model.RestaurantVector {
	if e == nil {
		return nil
	}

	return &model.RestaurantVector{
		Id:             e.Id,
		MoodVector:     pgvector.NewVector(e.MoodVector),
		TasteVector:    pgvector.NewVector(e.TasteVector),
		CategoryVector: pgvector.NewVector(e.CategoryVector),
		Category:       stringOrDefault(e.Category, "category"),
		PriceRange:     stringOrDefault(e.PriceRange, "price_range"),
		Wifi:           e.Wifi,
		Parking:        e.Parking,
		Latitude:       e.Coordinates.Latitude,
		Longitude:      e.Coordinates.Longitude,
	}
}

func (m *RestaurantMapper) ToVectorEntity(vm *model.RestaurantVector) *entity.Embedding {
	if vm == nil {
		return nil
	}

	return &entity.Embedding{
		Id:             vm.Id,
		MoodVector:     vm.MoodVector.Slice(),
		TasteVector:    vm.TasteVector.Slice(),
		CategoryVector: vm.CategoryVector.Slice(),
		Category:       vm.Category,
		PriceRange:     vm.PriceRange,
		Wifi:           vm.Wifi,
		Parking:        vm.Parking,
		Coordinates: entity.Coordinates{
			Latitude:  vm.Latitude,
			Longitude: vm.Longitude,
		},
	}
}

func (m *RestaurantMapper) ToMetadataEntities(models []*model.RestaurantMetadata) []*entity.Metadata {
	entities := make([]*entity.Metadata, len(models))
	for i, mm := range models {
		entities[i] = m.ToMetadataEntity(mm)
	}
	return entities
}

func (m *RestaurantMapper) ToVectorEntities(models []*model.RestaurantVector) []*entity.Embedding {
	entities := make([]*entity.Embedding, len(models))
	for i, vm := range models {
		entities[i] = m.ToVectorEntity(vm)
	}
	return entities
}

func stringOrDefault(value, field string) string {
	if value != "" {
		return value
	}
	return model.DefaultValue(field)
}

func listToJSON(list []string, field string) datatypes.JSON {
	if list == nil {
		return datatypes.JSON(model.DefaultValue(field))
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return datatypes.JSON(model.DefaultValue(field))
	}
	return datatypes.JSON(raw)
}

func jsonToList(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil
	}
	return list
}
