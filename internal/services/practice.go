package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/espeakapp/espeak-backend/internal/data/repos/dailystreak"
	"github.com/espeakapp/espeak-backend/internal/data/repos/practicerecord"
	"github.com/espeakapp/espeak-backend/internal/data/repos/sentence"
	"github.com/espeakapp/espeak-backend/internal/data/repos/user"
	types "github.com/espeakapp/espeak-backend/internal/domain"
	"github.com/espeakapp/espeak-backend/internal/pkg/apperr"
	"github.com/espeakapp/espeak-backend/internal/pkg/logger"
)

type RecordPracticeResult struct {
	Deduped        bool                  `json:"deduped"`
	Record         *types.PracticeRecord `json:"record,omitempty"`
	Streak         *types.DailyStreak    `json:"streak"`
	RemainingToday int                   `json:"remaining_today"`
}

type DayActivity struct {
	Date    string `json:"date"`
	DayName string `json:"day_name"`
	Count   int    `json:"count"`
}

type PracticeStats struct {
	CurrentStreak           int           `json:"current_streak"`
	LongestStreak           int           `json:"longest_streak"`
	TotalPracticeDays       int           `json:"total_practice_days"`
	TotalSentencesPracticed int           `json:"total_sentences_practiced"`
	LastPracticeDate        *string       `json:"last_practice_date"`
	TodayCount              int           `json:"today_count"`
	TodaySentenceIDs        []uuid.UUID   `json:"today_sentence_ids"`
	TotalSentences          int64         `json:"total_sentences"`
	WeekHistory             []DayActivity `json:"week_history"`
	DailyLimit              int           `json:"daily_limit"`
	RemainingToday          int           `json:"remaining_today"`
}

type HistoryDay struct {
	Date        string      `json:"date"`
	Count       int         `json:"count"`
	SentenceIDs []uuid.UUID `json:"sentence_ids"`
}

type PracticeService interface {
	RecordPractice(ctx context.Context, sentenceID uuid.UUID, userAnswer string) (*RecordPracticeResult, error)
	GetStats(ctx context.Context) (*PracticeStats, error)
	GetHistory(ctx context.Context, days int) ([]HistoryDay, error)
}

type practiceService struct {
	db        *gorm.DB
	log       *logger.Logger
	users     user.UserRepo
	sentences sentence.SentenceRepo
	records   practicerecord.PracticeRecordRepo
	streaks   dailystreak.DailyStreakRepo
	now       func() time.Time
}

func NewPracticeService(db *gorm.DB, baseLog *logger.Logger, users user.UserRepo, sentences sentence.SentenceRepo, records practicerecord.PracticeRecordRepo, streaks dailystreak.DailyStreakRepo) PracticeService {
	serviceLog := baseLog.With("service", "PracticeService")
	return &practiceService{
		db:        db,
		log:       serviceLog,
		users:     users,
		sentences: sentences,
		records:   records,
		streaks:   streaks,
		now:       time.Now,
	}
}

// dateOnly truncates t to its UTC calendar date.
func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// dayGap counts whole days between two UTC midnights.
func dayGap(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// applyPractice folds one practice event for today into the streak row.
// Days before the last recorded day are rejected without mutating anything.
func applyPractice(st *types.DailyStreak, today time.Time) error {
	if st.LastPracticeDate != nil {
		last := dateOnly(*st.LastPracticeDate)
		if today.Before(last) {
			return apperr.ErrOutOfOrderPractice
		}
	}

	st.TotalSentencesPracticed++

	if st.LastPracticeDate == nil {
		st.CurrentStreak = 1
		st.TotalPracticeDays++
		st.LastPracticeDate = &today
	} else {
		last := dateOnly(*st.LastPracticeDate)
		gap := dayGap(last, today)
		if gap > 0 {
			st.TotalPracticeDays++
			if gap == 1 {
				st.CurrentStreak++
			} else {
				st.CurrentStreak = 1
			}
			st.LastPracticeDate = &today
		}
	}

	if st.CurrentStreak > st.LongestStreak {
		st.LongestStreak = st.CurrentStreak
	}
	return nil
}

func (ps *practiceService) RecordPractice(ctx context.Context, sentenceID uuid.UUID, userAnswer string) (*RecordPracticeResult, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}

	now := ps.now().UTC()
	today := dateOnly(now)

	u, err := loadUser(ctx, nil, ps.users, userID)
	if err != nil {
		return nil, err
	}
	limits := types.LimitsFor(types.EffectiveTier(u, now))

	var result RecordPracticeResult
	err = ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		todayCount, err := ps.records.CountByUserDay(ctx, tx, userID, today)
		if err != nil {
			return err
		}

		if limits.DailySentences != types.Unlimited && todayCount >= int64(limits.DailySentences) {
			return &apperr.QuotaExceededError{DailyLimit: limits.DailySentences}
		}

		exists, err := ps.records.Exists(ctx, tx, userID, sentenceID, today)
		if err != nil {
			return err
		}
		if exists {
			result.Deduped = true
			result.RemainingToday = remaining(limits.DailySentences, todayCount)
			streak, err := ps.streaks.GetByUserID(ctx, tx, userID)
			if err != nil {
				return err
			}
			result.Streak = streakOrZero(streak, userID)
			return nil
		}

		sentences, err := ps.sentences.GetByIDs(ctx, tx, []uuid.UUID{sentenceID})
		if err != nil {
			return err
		}
		if len(sentences) == 0 {
			return fmt.Errorf("%w: sentence does not exist", apperr.ErrNotFound)
		}

		created, err := ps.records.Create(ctx, tx, []*types.PracticeRecord{
			{
				ID:           uuid.New(),
				UserID:       userID,
				SentenceID:   sentenceID,
				PracticeDate: today,
				UserAnswer:   userAnswer,
			},
		})
		if err != nil {
			return err
		}
		result.Record = created[0]

		streak, err := ps.streaks.GetByUserID(ctx, tx, userID)
		if err != nil {
			return err
		}
		if streak == nil {
			streak, err = ps.streaks.Create(ctx, tx, &types.DailyStreak{
				ID:     uuid.New(),
				UserID: userID,
			})
			if err != nil {
				return err
			}
		}

		if err := applyPractice(streak, today); err != nil {
			return err
		}
		if err := ps.streaks.Save(ctx, tx, streak); err != nil {
			return err
		}

		result.Streak = streak
		result.RemainingToday = remaining(limits.DailySentences, todayCount+1)
		return nil
	})
	if err != nil {
		// A concurrent request for the same sentence can win the insert
		// between the dedup lookup and ours; the unique index rejects the
		// loser, which is just a same-day repeat.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ps.dedupedResult(ctx, userID, limits, today)
		}
		return nil, err
	}

	return &result, nil
}

func (ps *practiceService) dedupedResult(ctx context.Context, userID uuid.UUID, limits types.TierLimits, today time.Time) (*RecordPracticeResult, error) {
	todayCount, err := ps.records.CountByUserDay(ctx, nil, userID, today)
	if err != nil {
		return nil, err
	}
	streak, err := ps.streaks.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	return &RecordPracticeResult{
		Deduped:        true,
		Streak:         streakOrZero(streak, userID),
		RemainingToday: remaining(limits.DailySentences, todayCount),
	}, nil
}

func (ps *practiceService) GetStats(ctx context.Context) (*PracticeStats, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}

	now := ps.now().UTC()
	today := dateOnly(now)
	weekStart := today.AddDate(0, 0, -6)

	u, err := loadUser(ctx, nil, ps.users, userID)
	if err != nil {
		return nil, err
	}
	limits := types.LimitsFor(types.EffectiveTier(u, now))

	streak, err := ps.streaks.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	st := streakOrZero(streak, userID)

	weekRecords, err := ps.records.ListByUserSince(ctx, nil, userID, weekStart)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, 7)
	var todayCount int
	var todayIDs []uuid.UUID
	for _, r := range weekRecords {
		day := dateOnly(r.PracticeDate)
		counts[day.Format("2006-01-02")]++
		if day.Equal(today) {
			todayCount++
			todayIDs = append(todayIDs, r.SentenceID)
		}
	}

	history := make([]DayActivity, 0, 7)
	for i := 6; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		key := day.Format("2006-01-02")
		history = append(history, DayActivity{
			Date:    key,
			DayName: day.Weekday().String()[:3],
			Count:   counts[key],
		})
	}

	total, err := ps.sentences.Count(ctx, nil)
	if err != nil {
		return nil, err
	}

	var lastPractice *string
	if st.LastPracticeDate != nil {
		s := dateOnly(*st.LastPracticeDate).Format("2006-01-02")
		lastPractice = &s
	}
	if todayIDs == nil {
		todayIDs = []uuid.UUID{}
	}

	return &PracticeStats{
		CurrentStreak:           st.CurrentStreak,
		LongestStreak:           st.LongestStreak,
		TotalPracticeDays:       st.TotalPracticeDays,
		TotalSentencesPracticed: st.TotalSentencesPracticed,
		LastPracticeDate:        lastPractice,
		TodayCount:              todayCount,
		TodaySentenceIDs:        todayIDs,
		TotalSentences:          total,
		WeekHistory:             history,
		DailyLimit:              limits.DailySentences,
		RemainingToday:          remaining(limits.DailySentences, int64(todayCount)),
	}, nil
}

func (ps *practiceService) GetHistory(ctx context.Context, days int) ([]HistoryDay, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}
	if days == 0 {
		days = 30
	}
	if days < 1 || days > 365 {
		return nil, fmt.Errorf("%w: days must be between 1 and 365", apperr.ErrInvalidArgument)
	}

	now := ps.now().UTC()
	today := dateOnly(now)

	u, err := loadUser(ctx, nil, ps.users, userID)
	if err != nil {
		return nil, err
	}
	limits := types.LimitsFor(types.EffectiveTier(u, now))
	if limits.HistoryDays != types.Unlimited && days > limits.HistoryDays {
		days = limits.HistoryDays
	}

	since := today.AddDate(0, 0, -(days - 1))
	records, err := ps.records.ListByUserSince(ctx, nil, userID, since)
	if err != nil {
		return nil, err
	}

	// Sparse grouping: only days with activity appear.
	byDay := make(map[string]*HistoryDay)
	order := make([]string, 0)
	for _, r := range records {
		key := dateOnly(r.PracticeDate).Format("2006-01-02")
		entry, ok := byDay[key]
		if !ok {
			entry = &HistoryDay{Date: key, SentenceIDs: []uuid.UUID{}}
			byDay[key] = entry
			order = append(order, key)
		}
		entry.Count++
		entry.SentenceIDs = append(entry.SentenceIDs, r.SentenceID)
	}

	result := make([]HistoryDay, 0, len(order))
	for _, key := range order {
		result = append(result, *byDay[key])
	}
	return result, nil
}

func remaining(limit int, used int64) int {
	if limit == types.Unlimited {
		return types.Unlimited
	}
	left := limit - int(used)
	if left < 0 {
		left = 0
	}
	return left
}

func streakOrZero(st *types.DailyStreak, userID uuid.UUID) *types.DailyStreak {
	if st != nil {
		return st
	}
	return &types.DailyStreak{UserID: userID}
}
