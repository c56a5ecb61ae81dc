package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/espeakapp/espeak-backend/internal/data/repos/user"
	types "github.com/espeakapp/espeak-backend/internal/domain"
	"github.com/espeakapp/espeak-backend/internal/pkg/apperr"
	"github.com/espeakapp/espeak-backend/internal/pkg/ctxutil"
	"github.com/espeakapp/espeak-backend/internal/pkg/logger"
)

type UserService interface {
	GetMe(ctx context.Context) (*types.User, error)
}

type userService struct {
	db    *gorm.DB
	log   *logger.Logger
	users user.UserRepo
}

func NewUserService(db *gorm.DB, baseLog *logger.Logger, users user.UserRepo) UserService {
	serviceLog := baseLog.With("service", "UserService")
	return &userService{db: db, log: serviceLog, users: users}
}

func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}
	return loadUser(ctx, nil, us.users, userID)
}

// requestUserID pulls the authenticated user's ID out of the request
// context set by the auth middleware.
func requestUserID(ctx context.Context) (uuid.UUID, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, apperr.ErrUnauthorized
	}
	return rd.UserID, nil
}

func loadUser(ctx context.Context, tx *gorm.DB, users user.UserRepo, userID uuid.UUID) (*types.User, error) {
	results, err := users.GetByIDs(ctx, tx, []uuid.UUID{userID})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, apperr.ErrNotFound
	}
	return results[0], nil
}
