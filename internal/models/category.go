package models

import "time"

// Category groups questions on the registration form.
// SortOrder is a free-text sort key, not guaranteed numeric.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255" json:"name"`
	SortOrder string    `gorm:"size:255;not null;default:''" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}
