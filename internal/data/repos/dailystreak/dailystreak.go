package dailystreak

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/espeakapp/espeak-backend/internal/domain"
	"github.com/espeakapp/espeak-backend/internal/pkg/logger"
)

type DailyStreakRepo interface {
	// GetByUserID returns (nil, nil) when the user has no streak row yet.
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.DailyStreak, error)
	Create(ctx context.Context, tx *gorm.DB, streak *types.DailyStreak) (*types.DailyStreak, error)
	Save(ctx context.Context, tx *gorm.DB, streak *types.DailyStreak) error
}

type dailyStreakRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDailyStreakRepo(db *gorm.DB, baseLog *logger.Logger) DailyStreakRepo {
	repoLog := baseLog.With("repo", "DailyStreakRepo")
	return &dailyStreakRepo{db: db, log: repoLog}
}

func (dr *dailyStreakRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.DailyStreak, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	var result types.DailyStreak
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (dr *dailyStreakRepo) Create(ctx context.Context, tx *gorm.DB, streak *types.DailyStreak) (*types.DailyStreak, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	if err := transaction.WithContext(ctx).Create(streak).Error; err != nil {
		return nil, err
	}
	return streak, nil
}

func (dr *dailyStreakRepo) Save(ctx context.Context, tx *gorm.DB, streak *types.DailyStreak) error {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	return transaction.WithContext(ctx).Save(streak).Error
}
