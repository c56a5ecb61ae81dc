package domain

import (
	"time"

	"github.com/google/uuid"
)

// Sentence is one entry of the practice catalog: a Chinese prompt with a
// reference English translation and an optional hint.
type Sentence struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Chinese    string    `gorm:"type:text;not null;column:chinese" json:"chinese"`
	English    string    `gorm:"type:text;column:english" json:"english,omitempty"`
	Hint       string    `gorm:"type:text;column:hint" json:"hint,omitempty"`
	Difficulty int       `gorm:"not null;default:1;column:difficulty" json:"difficulty"`
	Category   string    `gorm:"size:50;not null;default:'general';column:category" json:"category"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

func (Sentence) TableName() string { return "sentences" }
