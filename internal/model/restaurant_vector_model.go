package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// RestaurantVector is the vector-store record: one fixed-dimension vector per
// semantic axis plus the scalar fields search filters on. It shares its
// primary key with the metadata row.
type RestaurantVector struct {
	Id             string          `gorm:"type:varchar(64);primaryKey"`
	MoodVector     pgvector.Vector `gorm:"type:vector(768)"`
	TasteVector    pgvector.Vector `gorm:"type:vector(768)"`
	CategoryVector pgvector.Vector `gorm:"type:vector(768)"`
	Category       string          `gorm:"index"`
	PriceRange     string          `gorm:"type:varchar(32)"`
	Wifi           bool            `gorm:"default:false"`
	Parking        bool            `gorm:"default:false"`
	Latitude       float64         `gorm:""`
	Longitude      float64         `gorm:""`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`
}

func (RestaurantVector) TableName() string {
	return "restaurant_vectors"
}
