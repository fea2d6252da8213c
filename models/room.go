package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	CategoryStandard     = "standard"
	CategoryLuxury       = "luxury"
	CategoryFamily       = "family"
	CategoryPresidential = "presidential"
)

var roomCategories = map[string]bool{
	CategoryStandard:     true,
	CategoryLuxury:       true,
	CategoryFamily:       true,
	CategoryPresidential: true,
}

// ValidRoomCategory reports whether category is one of the fixed room categories.
func ValidRoomCategory(category string) bool {
	return roomCategories[category]
}

type Room struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:191" json:"name"`
	Category    string         `gorm:"size:32;index" json:"category"`
	Price       float64        `json:"price"`
	Capacity    int            `json:"capacity"`
	Description string         `gorm:"type:text" json:"description"`
	Amenities   datatypes.JSON `json:"amenities,omitempty"`
	Images      datatypes.JSON `json:"images,omitempty"`
	IsAvailable bool           `gorm:"default:true" json:"isAvailable"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"-"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
