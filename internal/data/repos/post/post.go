package post

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/espeakapp/espeak-backend/internal/domain"
	"github.com/espeakapp/espeak-backend/internal/pkg/logger"
)

type PostRepo interface {
	Create(ctx context.Context, tx *gorm.DB, posts []*types.Post) ([]*types.Post, error)
	GetByID(ctx context.Context, tx *gorm.DB, postID uuid.UUID) (*types.Post, error)
	List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.Post, error)
	Delete(ctx context.Context, tx *gorm.DB, postID uuid.UUID) error
	SetLikes(ctx context.Context, tx *gorm.DB, postID uuid.UUID, likes int) error

	// GetLike returns (nil, nil) when the user has not liked the post.
	GetLike(ctx context.Context, tx *gorm.DB, postID, userID uuid.UUID) (*types.PostLike, error)
	CreateLike(ctx context.Context, tx *gorm.DB, like *types.PostLike) (*types.PostLike, error)
	DeleteLike(ctx context.Context, tx *gorm.DB, likeID uuid.UUID) error
}

type postRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostRepo(db *gorm.DB, baseLog *logger.Logger) PostRepo {
	repoLog := baseLog.With("repo", "PostRepo")
	return &postRepo{db: db, log: repoLog}
}

func (pr *postRepo) Create(ctx context.Context, tx *gorm.DB, posts []*types.Post) ([]*types.Post, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if len(posts) == 0 {
		return []*types.Post{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (pr *postRepo) GetByID(ctx context.Context, tx *gorm.DB, postID uuid.UUID) (*types.Post, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var result types.Post
	if err := transaction.WithContext(ctx).
		Where("id = ?", postID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (pr *postRepo) List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.Post, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	q := transaction.WithContext(ctx).
		Preload("Author").
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}

	var results []*types.Post
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *postRepo) Delete(ctx context.Context, tx *gorm.DB, postID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", postID).
		Delete(&types.Post{}).Error
}

func (pr *postRepo) SetLikes(ctx context.Context, tx *gorm.DB, postID uuid.UUID, likes int) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Post{}).
		Where("id = ?", postID).
		Update("likes", likes).Error
}

func (pr *postRepo) GetLike(ctx context.Context, tx *gorm.DB, postID, userID uuid.UUID) (*types.PostLike, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var result types.PostLike
	if err := transaction.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (pr *postRepo) CreateLike(ctx context.Context, tx *gorm.DB, like *types.PostLike) (*types.PostLike, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if err := transaction.WithContext(ctx).Create(like).Error; err != nil {
		return nil, err
	}
	return like, nil
}

func (pr *postRepo) DeleteLike(ctx context.Context, tx *gorm.DB, likeID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", likeID).
		Delete(&types.PostLike{}).Error
}
