package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/espeakapp/espeak-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, username string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:               uuid.New(),
		Username:         username,
		Email:            fmt.Sprintf("%s@example.com", username),
		PasswordHash:     "hash",
		IsActive:         true,
		SubscriptionTier: string(types.TierFree),
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedSentence(tb testing.TB, ctx context.Context, tx *gorm.DB, chinese string) *types.Sentence {
	tb.Helper()
	s := &types.Sentence{
		ID:         uuid.New(),
		Chinese:    chinese,
		English:    "translation",
		Difficulty: 1,
		Category:   "general",
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed sentence: %v", err)
	}
	return s
}

func SeedPracticeRecord(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, sentenceID uuid.UUID, day time.Time) *types.PracticeRecord {
	tb.Helper()
	r := &types.PracticeRecord{
		ID:           uuid.New(),
		UserID:       userID,
		SentenceID:   sentenceID,
		PracticeDate: day,
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed practice record: %v", err)
	}
	return r
}

func SeedPost(tb testing.TB, ctx context.Context, tx *gorm.DB, authorID uuid.UUID, content string) *types.Post {
	tb.Helper()
	p := &types.Post{
		ID:       uuid.New(),
		AuthorID: authorID,
		Content:  content,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed post: %v", err)
	}
	return p
}

func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func PtrTime(v time.Time) *time.Time { return &v }
