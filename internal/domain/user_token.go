package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserToken is one issued login: a short-lived JWT access token paired with
// an opaque refresh token. Rows are deleted on logout or rotation.
type UserToken struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User         *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	AccessToken  string    `gorm:"size:512;index;not null;column:access_token" json:"-"`
	RefreshToken string    `gorm:"size:255;uniqueIndex;not null;column:refresh_token" json:"-"`
	ExpiresAt    time.Time `gorm:"not null;column:expires_at" json:"expires_at"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

func (UserToken) TableName() string { return "user_tokens" }
