package models

import (
	"time"

	"gorm.io/gorm"
)

var spaCategories = map[string]bool{
	"massage":      true,
	"aromatherapy": true,
	"body":         true,
	"exotic":       true,
	"complex":      true,
}

// ValidSpaCategory reports whether category is one of the fixed spa categories.
func ValidSpaCategory(category string) bool {
	return spaCategories[category]
}

// SpaCategories returns the fixed category set for error responses.
func SpaCategories() []string {
	out := make([]string, 0, len(spaCategories))
	for c := range spaCategories {
		out = append(out, c)
	}
	return out
}

type SpaService struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"size:191" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Duration    string         `gorm:"size:32" json:"duration"`
	Price       float64        `json:"price"`
	Image       string         `gorm:"size:512" json:"image,omitempty"`
	Category    string         `gorm:"size:32;index" json:"category"`
	IsAvailable bool           `gorm:"default:true" json:"isAvailable"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"-"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
