package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/espeakapp/espeak-backend/internal/data/repos/post"
	types "github.com/espeakapp/espeak-backend/internal/domain"
	"github.com/espeakapp/espeak-backend/internal/pkg/apperr"
	"github.com/espeakapp/espeak-backend/internal/pkg/ctxutil"
	"github.com/espeakapp/espeak-backend/internal/pkg/logger"
)

const maxPostLength = 2000

type PostView struct {
	ID             uuid.UUID `json:"id"`
	AuthorID       uuid.UUID `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	Content        string    `json:"content"`
	Likes          int       `json:"likes"`
	LikedByMe      bool      `json:"liked_by_me"`
	CreatedAt      time.Time `json:"created_at"`
}

type ToggleLikeResult struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}

type CommunityService interface {
	ListPosts(ctx context.Context, limit, offset int) ([]PostView, error)
	CreatePost(ctx context.Context, content string) (*types.Post, error)
	ToggleLike(ctx context.Context, postID uuid.UUID) (*ToggleLikeResult, error)
	DeletePost(ctx context.Context, postID uuid.UUID) error
}

type communityService struct {
	db    *gorm.DB
	log   *logger.Logger
	posts post.PostRepo
}

func NewCommunityService(db *gorm.DB, baseLog *logger.Logger, posts post.PostRepo) CommunityService {
	serviceLog := baseLog.With("service", "CommunityService")
	return &communityService{db: db, log: serviceLog, posts: posts}
}

// ListPosts is readable without authentication; LikedByMe is only filled
// in for signed-in callers.
func (cs *communityService) ListPosts(ctx context.Context, limit, offset int) ([]PostView, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var viewerID uuid.UUID
	if rd := ctxutil.GetRequestData(ctx); rd != nil {
		viewerID = rd.UserID
	}

	posts, err := cs.posts.List(ctx, nil, limit, offset)
	if err != nil {
		return nil, err
	}

	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		view := PostView{
			ID:        p.ID,
			AuthorID:  p.AuthorID,
			Content:   p.Content,
			Likes:     p.Likes,
			CreatedAt: p.CreatedAt,
		}
		if p.Author != nil {
			view.AuthorUsername = p.Author.Username
		}
		if viewerID != uuid.Nil {
			like, err := cs.posts.GetLike(ctx, nil, p.ID, viewerID)
			if err != nil {
				return nil, err
			}
			view.LikedByMe = like != nil
		}
		views = append(views, view)
	}
	return views, nil
}

func (cs *communityService) CreatePost(ctx context.Context, content string) (*types.Post, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", apperr.ErrInvalidArgument)
	}
	if len(content) > maxPostLength {
		return nil, fmt.Errorf("%w: content exceeds %d bytes", apperr.ErrInvalidArgument, maxPostLength)
	}

	created, err := cs.posts.Create(ctx, nil, []*types.Post{
		{ID: uuid.New(), AuthorID: userID, Content: content},
	})
	if err != nil {
		return nil, err
	}
	return created[0], nil
}

func (cs *communityService) ToggleLike(ctx context.Context, postID uuid.UUID) (*ToggleLikeResult, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}

	var result ToggleLikeResult
	err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := cs.posts.GetByID(ctx, tx, postID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: post does not exist", apperr.ErrNotFound)
			}
			return err
		}

		like, err := cs.posts.GetLike(ctx, tx, postID, userID)
		if err != nil {
			return err
		}

		if like == nil {
			if _, err := cs.posts.CreateLike(ctx, tx, &types.PostLike{
				ID:     uuid.New(),
				PostID: postID,
				UserID: userID,
			}); err != nil {
				return err
			}
			result.Liked = true
			result.Likes = p.Likes + 1
		} else {
			if err := cs.posts.DeleteLike(ctx, tx, like.ID); err != nil {
				return err
			}
			result.Liked = false
			result.Likes = p.Likes - 1
			if result.Likes < 0 {
				result.Likes = 0
			}
		}
		return cs.posts.SetLikes(ctx, tx, postID, result.Likes)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (cs *communityService) DeletePost(ctx context.Context, postID uuid.UUID) error {
	userID, err := requestUserID(ctx)
	if err != nil {
		return err
	}

	p, err := cs.posts.GetByID(ctx, nil, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: post does not exist", apperr.ErrNotFound)
		}
		return err
	}
	if p.AuthorID != userID {
		return fmt.Errorf("%w: only the author can delete a post", apperr.ErrForbidden)
	}
	return cs.posts.Delete(ctx, nil, postID)
}
