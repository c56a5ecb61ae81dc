package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/espeakapp/espeak-backend/internal/data/repos/sentence"
	"github.com/espeakapp/espeak-backend/internal/data/repos/testutil"
	"github.com/espeakapp/espeak-backend/internal/data/repos/user"
	types "github.com/espeakapp/espeak-backend/internal/domain"
	"github.com/espeakapp/espeak-backend/internal/pkg/apperr"
)

type sentenceEnv struct {
	tx    *gorm.DB
	users user.UserRepo
	svc   *sentenceService
}

func newSentenceEnv(t *testing.T) *sentenceEnv {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)

	env := &sentenceEnv{
		tx:    tx,
		users: user.NewUserRepo(tx, log),
	}
	env.svc = NewSentenceService(tx, log, env.users, sentence.NewSentenceRepo(tx, log)).(*sentenceService)
	return env
}

func TestCreateSentenceFreeTierForbidden(t *testing.T) {
	env := newSentenceEnv(t)
	seedCtx := context.Background()

	u := testutil.SeedUser(t, seedCtx, env.tx, "sentencefree")

	_, err := env.svc.Create(authedCtx(u), CreateSentenceInput{Chinese: "新句子"})
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("free tier must not add sentences, got %v", err)
	}
}

func TestCreateSentencePaidTier(t *testing.T) {
	env := newSentenceEnv(t)
	seedCtx := context.Background()

	u := testutil.SeedUser(t, seedCtx, env.tx, "sentencebasic")
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	expires := now.AddDate(0, 1, 0)
	if err := env.users.UpdateSubscription(seedCtx, env.tx, u.ID, string(types.TierBasic), &expires, false); err != nil {
		t.Fatalf("UpdateSubscription: %v", err)
	}
	env.svc.now = func() time.Time { return now }

	created, err := env.svc.Create(authedCtx(u), CreateSentenceInput{Chinese: "新句子", English: "a new sentence"})
	if err != nil {
		t.Fatalf("Create on basic tier: %v", err)
	}
	if created.Difficulty != 1 || created.Category != "general" {
		t.Fatalf("expected defaults applied, got %+v", created)
	}
}

func TestCreateSentenceExpiredSubscription(t *testing.T) {
	env := newSentenceEnv(t)
	seedCtx := context.Background()

	u := testutil.SeedUser(t, seedCtx, env.tx, "sentenceexpired")
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	expired := now.AddDate(0, -1, 0)
	if err := env.users.UpdateSubscription(seedCtx, env.tx, u.ID, string(types.TierBasic), &expired, false); err != nil {
		t.Fatalf("UpdateSubscription: %v", err)
	}
	env.svc.now = func() time.Time { return now }

	_, err := env.svc.Create(authedCtx(u), CreateSentenceInput{Chinese: "新句子"})
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expired subscription must degrade to free, got %v", err)
	}
}

func TestCreateSentenceUnauthorized(t *testing.T) {
	env := newSentenceEnv(t)

	_, err := env.svc.Create(context.Background(), CreateSentenceInput{Chinese: "新句子"})
	if !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("expected unauthorized without a caller, got %v", err)
	}
}
