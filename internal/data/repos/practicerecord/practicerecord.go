package practicerecord

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/espeakapp/espeak-backend/internal/domain"
	"github.com/espeakapp/espeak-backend/internal/pkg/logger"
)

// Day parameters are calendar dates normalized to UTC midnight.
type PracticeRecordRepo interface {
	Create(ctx context.Context, tx *gorm.DB, records []*types.PracticeRecord) ([]*types.PracticeRecord, error)
	CountByUserDay(ctx context.Context, tx *gorm.DB, userID uuid.UUID, day time.Time) (int64, error)
	Exists(ctx context.Context, tx *gorm.DB, userID, sentenceID uuid.UUID, day time.Time) (bool, error)
	ListByUserDay(ctx context.Context, tx *gorm.DB, userID uuid.UUID, day time.Time) ([]*types.PracticeRecord, error)
	ListByUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.PracticeRecord, error)
	CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
}

type practiceRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPracticeRecordRepo(db *gorm.DB, baseLog *logger.Logger) PracticeRecordRepo {
	repoLog := baseLog.With("repo", "PracticeRecordRepo")
	return &practiceRecordRepo{db: db, log: repoLog}
}

func (pr *practiceRecordRepo) Create(ctx context.Context, tx *gorm.DB, records []*types.PracticeRecord) ([]*types.PracticeRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if len(records) == 0 {
		return []*types.PracticeRecord{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (pr *practiceRecordRepo) CountByUserDay(ctx context.Context, tx *gorm.DB, userID uuid.UUID, day time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.PracticeRecord{}).
		Where("user_id = ? AND practice_date = ?", userID, day).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (pr *practiceRecordRepo) Exists(ctx context.Context, tx *gorm.DB, userID, sentenceID uuid.UUID, day time.Time) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.PracticeRecord{}).
		Where("user_id = ? AND sentence_id = ? AND practice_date = ?", userID, sentenceID, day).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (pr *practiceRecordRepo) ListByUserDay(ctx context.Context, tx *gorm.DB, userID uuid.UUID, day time.Time) ([]*types.PracticeRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.PracticeRecord
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND practice_date = ?", userID, day).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *practiceRecordRepo) ListByUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.PracticeRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.PracticeRecord
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND practice_date >= ?", userID, since).
		Order("practice_date ASC, created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *practiceRecordRepo) CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.PracticeRecord{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
