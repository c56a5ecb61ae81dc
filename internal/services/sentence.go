package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/espeakapp/espeak-backend/internal/data/repos/sentence"
	"github.com/espeakapp/espeak-backend/internal/data/repos/user"
	types "github.com/espeakapp/espeak-backend/internal/domain"
	"github.com/espeakapp/espeak-backend/internal/pkg/apperr"
	"github.com/espeakapp/espeak-backend/internal/pkg/logger"
)

type CreateSentenceInput struct {
	Chinese    string
	English    string
	Hint       string
	Difficulty int
	Category   string
}

type SentenceService interface {
	List(ctx context.Context, filter sentence.ListFilter) ([]*types.Sentence, error)
	Create(ctx context.Context, input CreateSentenceInput) (*types.Sentence, error)
	Delete(ctx context.Context, sentenceID uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type sentenceService struct {
	db        *gorm.DB
	log       *logger.Logger
	users     user.UserRepo
	sentences sentence.SentenceRepo
	now       func() time.Time
}

func NewSentenceService(db *gorm.DB, baseLog *logger.Logger, users user.UserRepo, sentences sentence.SentenceRepo) SentenceService {
	serviceLog := baseLog.With("service", "SentenceService")
	return &sentenceService{db: db, log: serviceLog, users: users, sentences: sentences, now: time.Now}
}

func (ss *sentenceService) List(ctx context.Context, filter sentence.ListFilter) ([]*types.Sentence, error) {
	return ss.sentences.List(ctx, nil, filter)
}

// Create adds a catalog sentence. Free-tier users cannot add sentences.
func (ss *sentenceService) Create(ctx context.Context, input CreateSentenceInput) (*types.Sentence, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}
	if input.Chinese == "" {
		return nil, fmt.Errorf("%w: chinese text is required", apperr.ErrInvalidArgument)
	}

	u, err := loadUser(ctx, nil, ss.users, userID)
	if err != nil {
		return nil, err
	}
	tier := types.EffectiveTier(u, ss.now().UTC())
	if !types.LimitsFor(tier).CanAddSentences {
		return nil, fmt.Errorf("%w: current plan cannot add sentences", apperr.ErrForbidden)
	}

	difficulty := input.Difficulty
	if difficulty <= 0 {
		difficulty = 1
	}
	category := input.Category
	if category == "" {
		category = "general"
	}

	created, err := ss.sentences.Create(ctx, nil, []*types.Sentence{
		{
			ID:         uuid.New(),
			Chinese:    input.Chinese,
			English:    input.English,
			Hint:       input.Hint,
			Difficulty: difficulty,
			Category:   category,
		},
	})
	if err != nil {
		return nil, err
	}
	return created[0], nil
}

func (ss *sentenceService) Delete(ctx context.Context, sentenceID uuid.UUID) error {
	if _, err := requestUserID(ctx); err != nil {
		return err
	}
	return ss.sentences.Delete(ctx, nil, sentenceID)
}

func (ss *sentenceService) Count(ctx context.Context) (int64, error) {
	return ss.sentences.Count(ctx, nil)
}
