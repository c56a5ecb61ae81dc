package domain

import "time"

type Tier string

const (
	TierFree     Tier = "free"
	TierBasic    Tier = "basic"
	TierPremium  Tier = "premium"
	TierLifetime Tier = "lifetime"
)

// Unlimited marks a quota or window with no cap.
const Unlimited = -1

// TierLimits is the entitlement set of one subscription tier.
type TierLimits struct {
	DailySentences  int  `json:"daily_sentences"`
	HistoryDays     int  `json:"history_days"`
	CanAddSentences bool `json:"can_add_sentences"`
	ShowAds         bool `json:"show_ads"`
}

var tierLimits = map[Tier]TierLimits{
	TierFree:     {DailySentences: 10, HistoryDays: 7, CanAddSentences: false, ShowAds: true},
	TierBasic:    {DailySentences: 50, HistoryDays: 30, CanAddSentences: true, ShowAds: false},
	TierPremium:  {DailySentences: Unlimited, HistoryDays: 365, CanAddSentences: true, ShowAds: false},
	TierLifetime: {DailySentences: Unlimited, HistoryDays: Unlimited, CanAddSentences: true, ShowAds: false},
}

// LimitsFor returns the entitlements of t. Unknown tiers fall back to free.
func LimitsFor(t Tier) TierLimits {
	if l, ok := tierLimits[t]; ok {
		return l
	}
	return tierLimits[TierFree]
}

func ValidTier(t Tier) bool {
	_, ok := tierLimits[t]
	return ok
}

// EffectiveTier resolves the tier a user is entitled to at now. Lifetime
// membership wins over everything; a stored paid tier only counts while
// unexpired; everything else degrades to free.
func EffectiveTier(u *User, now time.Time) Tier {
	if u.LifetimeMember {
		return TierLifetime
	}
	if u.SubscriptionExpiresAt != nil && u.SubscriptionExpiresAt.After(now) {
		if t := Tier(u.SubscriptionTier); ValidTier(t) && t != TierFree {
			return t
		}
	}
	return TierFree
}
