package domain

import (
	"time"

	"github.com/google/uuid"
)

// DailyStreak is the single per-user streak row, created lazily on the
// first practice event and mutated on every one after that.
type DailyStreak struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`

	CurrentStreak           int        `gorm:"not null;default:0;column:current_streak" json:"current_streak"`
	LongestStreak           int        `gorm:"not null;default:0;column:longest_streak" json:"longest_streak"`
	LastPracticeDate        *time.Time `gorm:"type:date;column:last_practice_date" json:"last_practice_date,omitempty"`
	TotalPracticeDays       int        `gorm:"not null;default:0;column:total_practice_days" json:"total_practice_days"`
	TotalSentencesPracticed int        `gorm:"not null;default:0;column:total_sentences_practiced" json:"total_sentences_practiced"`
}

func (DailyStreak) TableName() string { return "daily_streaks" }
