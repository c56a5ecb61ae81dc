package domain

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Author    *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:AuthorID;references:ID" json:"author,omitempty"`
	Content   string    `gorm:"type:text;not null;column:content" json:"content"`
	Likes     int       `gorm:"not null;default:0;column:likes" json:"likes"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Post) TableName() string { return "posts" }

// PostLike tracks which user liked which post so likes can be toggled.
type PostLike struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;index:idx_post_like_post_user,unique" json:"post_id"`
	Post      *Post     `gorm:"constraint:OnDelete:CASCADE;foreignKey:PostID;references:ID" json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_post_like_post_user,unique" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (PostLike) TableName() string { return "post_likes" }
