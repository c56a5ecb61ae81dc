package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/espeakapp/espeak-backend/internal/data/repos/practicerecord"
	"github.com/espeakapp/espeak-backend/internal/data/repos/user"
	types "github.com/espeakapp/espeak-backend/internal/domain"
	"github.com/espeakapp/espeak-backend/internal/pkg/logger"
)

type SubscriptionStatus struct {
	Tier           types.Tier       `json:"tier"`
	Limits         types.TierLimits `json:"limits"`
	ExpiresAt      *time.Time       `json:"expires_at,omitempty"`
	LifetimeMember bool             `json:"lifetime_member"`
	TodayCount     int64            `json:"today_count"`
	RemainingToday int              `json:"remaining_today"`
	CanPractice    bool             `json:"can_practice"`
}

type Plan struct {
	Tier   types.Tier `json:"tier"`
	Period string     `json:"period"`
	Price  float64    `json:"price"`
	Months int        `json:"months"`
}

type SubscriptionService interface {
	Status(ctx context.Context) (*SubscriptionStatus, error)
	Pricing() []Plan
}

type subscriptionService struct {
	db      *gorm.DB
	log     *logger.Logger
	users   user.UserRepo
	records practicerecord.PracticeRecordRepo
	now     func() time.Time
}

func NewSubscriptionService(db *gorm.DB, baseLog *logger.Logger, users user.UserRepo, records practicerecord.PracticeRecordRepo) SubscriptionService {
	serviceLog := baseLog.With("service", "SubscriptionService")
	return &subscriptionService{db: db, log: serviceLog, users: users, records: records, now: time.Now}
}

func (ss *subscriptionService) Status(ctx context.Context) (*SubscriptionStatus, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}

	now := ss.now().UTC()
	today := dateOnly(now)

	u, err := loadUser(ctx, nil, ss.users, userID)
	if err != nil {
		return nil, err
	}
	tier := types.EffectiveTier(u, now)
	limits := types.LimitsFor(tier)

	todayCount, err := ss.records.CountByUserDay(ctx, nil, userID, today)
	if err != nil {
		return nil, err
	}

	left := remaining(limits.DailySentences, todayCount)
	return &SubscriptionStatus{
		Tier:           tier,
		Limits:         limits,
		ExpiresAt:      u.SubscriptionExpiresAt,
		LifetimeMember: u.LifetimeMember,
		TodayCount:     todayCount,
		RemainingToday: left,
		CanPractice:    left != 0,
	}, nil
}

func (ss *subscriptionService) Pricing() []Plan {
	return pricingPlans()
}

func pricingPlans() []Plan {
	return []Plan{
		{Tier: types.TierBasic, Period: "monthly", Price: 9.9, Months: 1},
		{Tier: types.TierBasic, Period: "yearly", Price: 99, Months: 12},
		{Tier: types.TierPremium, Period: "monthly", Price: 29.9, Months: 1},
		{Tier: types.TierPremium, Period: "yearly", Price: 299, Months: 12},
		{Tier: types.TierLifetime, Period: "lifetime", Price: 199, Months: 0},
	}
}
