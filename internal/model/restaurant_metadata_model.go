package model

import (
	"time"

	"gorm.io/datatypes"
)

// RestaurantMetadata is the document-store row: one row per restaurant id
// with every textual field of the aggregate. List fields are jsonb documents.
type RestaurantMetadata struct {
	Id           string         `gorm:"type:varchar(64);primaryKey"`
	Status       string         `gorm:"type:varchar(16);not null"`
	Source       string         `gorm:"type:varchar(64)"`
	Name         string         `gorm:"index"`
	Category     string         `gorm:"index"`
	Phone        string         `gorm:"type:varchar(32)"`
	Address      string         `gorm:"type:text"`
	Latitude     float64        `gorm:""`
	Longitude    float64        `gorm:""`
	Reviews      datatypes.JSON `gorm:"type:jsonb"`
	BusinessDays datatypes.JSON `gorm:"type:jsonb"`
	Wifi         bool           `gorm:"default:false"`
	Parking      bool           `gorm:"default:false"`
	Menus        datatypes.JSON `gorm:"type:jsonb"`
	PriceRange   string         `gorm:"type:varchar(32)"`
	Moods        datatypes.JSON `gorm:"type:jsonb"`
	Tastes       datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
}

func (RestaurantMetadata) TableName() string {
	return "restaurant_metadata"
}
