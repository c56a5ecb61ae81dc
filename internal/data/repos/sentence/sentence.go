package sentence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/espeakapp/espeak-backend/internal/domain"
	"github.com/espeakapp/espeak-backend/internal/pkg/logger"
)

// ListFilter narrows List; zero values mean no constraint.
type ListFilter struct {
	Category   string
	Difficulty int
	Limit      int
	Offset     int
}

type SentenceRepo interface {
	Create(ctx context.Context, tx *gorm.DB, sentences []*types.Sentence) ([]*types.Sentence, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, sentenceIDs []uuid.UUID) ([]*types.Sentence, error)
	List(ctx context.Context, tx *gorm.DB, filter ListFilter) ([]*types.Sentence, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
	Delete(ctx context.Context, tx *gorm.DB, sentenceID uuid.UUID) error
}

type sentenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSentenceRepo(db *gorm.DB, baseLog *logger.Logger) SentenceRepo {
	repoLog := baseLog.With("repo", "SentenceRepo")
	return &sentenceRepo{db: db, log: repoLog}
}

func (sr *sentenceRepo) Create(ctx context.Context, tx *gorm.DB, sentences []*types.Sentence) ([]*types.Sentence, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if len(sentences) == 0 {
		return []*types.Sentence{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&sentences).Error; err != nil {
		return nil, err
	}
	return sentences, nil
}

func (sr *sentenceRepo) GetByIDs(ctx context.Context, tx *gorm.DB, sentenceIDs []uuid.UUID) ([]*types.Sentence, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var results []*types.Sentence
	if len(sentenceIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", sentenceIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *sentenceRepo) List(ctx context.Context, tx *gorm.DB, filter ListFilter) ([]*types.Sentence, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	q := transaction.WithContext(ctx).Model(&types.Sentence{})
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Difficulty > 0 {
		q = q.Where("difficulty = ?", filter.Difficulty)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var results []*types.Sentence
	if err := q.Order("created_at ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *sentenceRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Sentence{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (sr *sentenceRepo) Delete(ctx context.Context, tx *gorm.DB, sentenceID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", sentenceID).
		Delete(&types.Sentence{}).Error
}
