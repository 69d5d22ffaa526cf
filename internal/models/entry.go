package models

import "time"

// Entry is one recorded answer. QuestionDate is the logical event time and
// may be overridden by the client; CreatedAt is the recording time. Both are
// kept because different reports filter on different ones. Entries are
// immutable once created, except for deletion (undo).
type Entry struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	User         string    `gorm:"size:32;index;not null" json:"user"`
	QuestionID   uint      `gorm:"index;not null" json:"question"`
	CreatedAt    time.Time `json:"created_at"`
	QuestionDate time.Time `gorm:"index;not null" json:"question_date"`
	Type         string    `gorm:"size:64;index;not null" json:"type"`
	Location     string    `gorm:"size:64;index;not null" json:"location"`
	Comment      *string   `gorm:"type:text" json:"comment"`
}
