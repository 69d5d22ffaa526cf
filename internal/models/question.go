package models

import "time"

// Question is a predefined question staff answer when recording an entry.
// User, when set, is a comma-separated set of usernames allowed to see the
// question; NULL means visible to all. The category reference is enforced
// at the application level only.
type Question struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	User        *string   `gorm:"size:32" json:"user"`
	Description string    `gorm:"size:255;not null" json:"description"`
	Info        *string   `gorm:"size:255" json:"info"`
	CategoryID  uint      `gorm:"index;not null" json:"categoryId"`
	Requires    *string   `gorm:"size:255" json:"requires"`
	CreatedAt   time.Time `json:"created_at"`
}
