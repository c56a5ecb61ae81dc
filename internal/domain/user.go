package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null;column:username" json:"username"`
	Email        string    `gorm:"size:255;uniqueIndex;not null;column:email" json:"email"`
	PasswordHash string    `gorm:"size:255;not null;column:password_hash" json:"-"`
	FullName     string    `gorm:"size:100;column:full_name" json:"full_name"`
	IsActive     bool      `gorm:"not null;default:true;column:is_active" json:"is_active"`

	SubscriptionTier      string     `gorm:"size:20;not null;default:'free';column:subscription_tier" json:"subscription_tier"`
	SubscriptionExpiresAt *time.Time `gorm:"column:subscription_expires_at" json:"subscription_expires_at,omitempty"`
	LifetimeMember        bool       `gorm:"not null;default:false;column:lifetime_member" json:"lifetime_member"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "users" }
