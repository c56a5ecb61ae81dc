package domain

import (
	"time"

	"github.com/google/uuid"
)

// PracticeRecord is one (user, sentence, calendar day) practice row. The
// unique index enforces the at-most-one-record-per-day invariant; same-day
// repeats never insert a second row.
type PracticeRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index:idx_practice_user_sentence_day,unique;index:idx_practice_user_day" json:"user_id"`
	User       *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	SentenceID uuid.UUID `gorm:"type:uuid;not null;index:idx_practice_user_sentence_day,unique" json:"sentence_id"`
	Sentence   *Sentence `gorm:"constraint:OnDelete:CASCADE;foreignKey:SentenceID;references:ID" json:"-"`

	// PracticeDate is a calendar date, normalized to UTC midnight.
	PracticeDate time.Time `gorm:"type:date;not null;index:idx_practice_user_sentence_day,unique;index:idx_practice_user_day;column:practice_date" json:"practice_date"`

	UserAnswer    string     `gorm:"type:text;column:user_answer" json:"user_answer,omitempty"`
	PracticeCount int        `gorm:"not null;default:1;column:practice_count" json:"practice_count"`
	MasteryLevel  int        `gorm:"not null;default:0;column:mastery_level" json:"mastery_level"`
	NextReviewAt  *time.Time `gorm:"type:date;column:next_review_date" json:"next_review_date,omitempty"`
	IsMastered    bool       `gorm:"not null;default:false;column:is_mastered" json:"is_mastered"`
	IsBookmarked  bool       `gorm:"not null;default:false;column:is_bookmarked" json:"is_bookmarked"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (PracticeRecord) TableName() string { return "practice_records" }
