package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/espeakapp/espeak-backend/internal/data/repos/dailystreak"
	"github.com/espeakapp/espeak-backend/internal/data/repos/practicerecord"
	"github.com/espeakapp/espeak-backend/internal/data/repos/sentence"
	"github.com/espeakapp/espeak-backend/internal/data/repos/testutil"
	"github.com/espeakapp/espeak-backend/internal/data/repos/user"
	types "github.com/espeakapp/espeak-backend/internal/domain"
	"github.com/espeakapp/espeak-backend/internal/pkg/apperr"
	"github.com/espeakapp/espeak-backend/internal/pkg/ctxutil"
)

func TestApplyPractice(t *testing.T) {
	day := func(d int) time.Time { return testutil.Day(2025, time.June, d) }

	t.Run("first practice starts a streak", func(t *testing.T) {
		st := &types.DailyStreak{}
		if err := applyPractice(st, day(10)); err != nil {
			t.Fatalf("applyPractice: %v", err)
		}
		if st.CurrentStreak != 1 || st.LongestStreak != 1 {
			t.Fatalf("expected streak 1/1, got %d/%d", st.CurrentStreak, st.LongestStreak)
		}
		if st.TotalPracticeDays != 1 || st.TotalSentencesPracticed != 1 {
			t.Fatalf("expected totals 1/1, got %d/%d", st.TotalPracticeDays, st.TotalSentencesPracticed)
		}
		if st.LastPracticeDate == nil || !st.LastPracticeDate.Equal(day(10)) {
			t.Fatalf("last practice date not set: %v", st.LastPracticeDate)
		}
	})

	t.Run("second sentence same day only bumps sentence total", func(t *testing.T) {
		st := &types.DailyStreak{}
		if err := applyPractice(st, day(10)); err != nil {
			t.Fatalf("applyPractice: %v", err)
		}
		if err := applyPractice(st, day(10)); err != nil {
			t.Fatalf("applyPractice: %v", err)
		}
		if st.CurrentStreak != 1 || st.TotalPracticeDays != 1 {
			t.Fatalf("same-day repeat changed day counters: %+v", st)
		}
		if st.TotalSentencesPracticed != 2 {
			t.Fatalf("expected 2 sentences practiced, got %d", st.TotalSentencesPracticed)
		}
	})

	t.Run("consecutive days extend the streak", func(t *testing.T) {
		st := &types.DailyStreak{}
		for d := 10; d <= 14; d++ {
			if err := applyPractice(st, day(d)); err != nil {
				t.Fatalf("applyPractice day %d: %v", d, err)
			}
		}
		if st.CurrentStreak != 5 || st.LongestStreak != 5 {
			t.Fatalf("expected streak 5/5, got %d/%d", st.CurrentStreak, st.LongestStreak)
		}
		if st.TotalPracticeDays != 5 {
			t.Fatalf("expected 5 practice days, got %d", st.TotalPracticeDays)
		}
	})

	t.Run("a gap resets the current streak", func(t *testing.T) {
		st := &types.DailyStreak{}
		for d := 10; d <= 12; d++ {
			if err := applyPractice(st, day(d)); err != nil {
				t.Fatalf("applyPractice day %d: %v", d, err)
			}
		}
		if err := applyPractice(st, day(15)); err != nil {
			t.Fatalf("applyPractice after gap: %v", err)
		}
		if st.CurrentStreak != 1 {
			t.Fatalf("expected reset to 1, got %d", st.CurrentStreak)
		}
		if st.LongestStreak != 3 {
			t.Fatalf("longest streak should survive the reset, got %d", st.LongestStreak)
		}
		if st.TotalPracticeDays != 4 {
			t.Fatalf("expected 4 practice days, got %d", st.TotalPracticeDays)
		}
	})

	t.Run("longest streak never decreases", func(t *testing.T) {
		st := &types.DailyStreak{}
		for d := 1; d <= 4; d++ {
			if err := applyPractice(st, day(d)); err != nil {
				t.Fatalf("applyPractice day %d: %v", d, err)
			}
		}
		if err := applyPractice(st, day(10)); err != nil {
			t.Fatalf("applyPractice: %v", err)
		}
		if err := applyPractice(st, day(11)); err != nil {
			t.Fatalf("applyPractice: %v", err)
		}
		if st.LongestStreak != 4 || st.CurrentStreak != 2 {
			t.Fatalf("expected 4 longest / 2 current, got %d/%d", st.LongestStreak, st.CurrentStreak)
		}
	})

	t.Run("a day before the last recorded day is rejected", func(t *testing.T) {
		st := &types.DailyStreak{}
		if err := applyPractice(st, day(10)); err != nil {
			t.Fatalf("applyPractice: %v", err)
		}
		before := *st
		err := applyPractice(st, day(9))
		if !errors.Is(err, apperr.ErrOutOfOrderPractice) {
			t.Fatalf("expected ErrOutOfOrderPractice, got %v", err)
		}
		if *st != before {
			t.Fatalf("rejected event mutated the streak: %+v vs %+v", *st, before)
		}
	})
}

func TestDayGap(t *testing.T) {
	a := testutil.Day(2025, time.June, 10)
	tests := []struct {
		name string
		to   time.Time
		want int
	}{
		{"same day", a, 0},
		{"next day", testutil.Day(2025, time.June, 11), 1},
		{"five days later", testutil.Day(2025, time.June, 15), 5},
		{"across month boundary", testutil.Day(2025, time.July, 1), 21},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dayGap(a, tt.to); got != tt.want {
				t.Fatalf("dayGap = %d, want %d", got, tt.want)
			}
		})
	}
}

type practiceEnv struct {
	tx        *gorm.DB
	users     user.UserRepo
	sentences sentence.SentenceRepo
	records   practicerecord.PracticeRecordRepo
	streaks   dailystreak.DailyStreakRepo
	svc       *practiceService
}

func newPracticeEnv(t *testing.T) *practiceEnv {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)

	env := &practiceEnv{
		tx:        tx,
		users:     user.NewUserRepo(tx, log),
		sentences: sentence.NewSentenceRepo(tx, log),
		records:   practicerecord.NewPracticeRecordRepo(tx, log),
		streaks:   dailystreak.NewDailyStreakRepo(tx, log),
	}
	env.svc = NewPracticeService(tx, log, env.users, env.sentences, env.records, env.streaks).(*practiceService)
	return env
}

func (env *practiceEnv) setNow(t time.Time) {
	env.svc.now = func() time.Time { return t }
}

func authedCtx(u *types.User) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: u.ID})
}

func TestRecordPracticeFlow(t *testing.T) {
	env := newPracticeEnv(t)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, env.tx, "practiceflow")
	s1 := testutil.SeedSentence(t, ctx, env.tx, "我喜欢学英语")
	s2 := testutil.SeedSentence(t, ctx, env.tx, "今天天气很好")

	env.setNow(time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC))
	ctx = authedCtx(u)

	first, err := env.svc.RecordPractice(ctx, s1.ID, "I like learning English")
	if err != nil {
		t.Fatalf("RecordPractice: %v", err)
	}
	if first.Deduped {
		t.Fatal("first record should not be deduped")
	}
	if first.Streak.CurrentStreak != 1 || first.Streak.TotalSentencesPracticed != 1 {
		t.Fatalf("unexpected streak after first record: %+v", first.Streak)
	}
	if first.RemainingToday != 9 {
		t.Fatalf("expected 9 remaining for free tier, got %d", first.RemainingToday)
	}

	repeat, err := env.svc.RecordPractice(ctx, s1.ID, "again")
	if err != nil {
		t.Fatalf("RecordPractice repeat: %v", err)
	}
	if !repeat.Deduped {
		t.Fatal("same-day repeat should be deduped")
	}
	if repeat.Streak.TotalSentencesPracticed != 1 {
		t.Fatalf("dedup must not change totals: %+v", repeat.Streak)
	}

	second, err := env.svc.RecordPractice(ctx, s2.ID, "")
	if err != nil {
		t.Fatalf("RecordPractice second sentence: %v", err)
	}
	if second.Streak.CurrentStreak != 1 || second.Streak.TotalSentencesPracticed != 2 {
		t.Fatalf("unexpected streak after second sentence: %+v", second.Streak)
	}
	if second.Streak.TotalPracticeDays != 1 {
		t.Fatalf("second sentence same day must not add a practice day: %+v", second.Streak)
	}
}

func TestRecordPracticeConsecutiveDays(t *testing.T) {
	env := newPracticeEnv(t)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, env.tx, "practicedays")
	sentences := []string{"第一句", "第二句", "第三句"}
	days := []time.Time{
		time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 11, 23, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 14, 1, 0, 0, 0, time.UTC),
	}
	ctx = authedCtx(u)

	var last *RecordPracticeResult
	for i, text := range sentences {
		s := testutil.SeedSentence(t, context.Background(), env.tx, text)
		env.setNow(days[i])
		var err error
		last, err = env.svc.RecordPractice(ctx, s.ID, "")
		if err != nil {
			t.Fatalf("RecordPractice day %d: %v", i, err)
		}
	}

	if last.Streak.CurrentStreak != 1 {
		t.Fatalf("gap should reset current streak to 1, got %d", last.Streak.CurrentStreak)
	}
	if last.Streak.LongestStreak != 2 {
		t.Fatalf("expected longest streak 2, got %d", last.Streak.LongestStreak)
	}
	if last.Streak.TotalPracticeDays != 3 {
		t.Fatalf("expected 3 practice days, got %d", last.Streak.TotalPracticeDays)
	}
}

func TestRecordPracticeQuota(t *testing.T) {
	env := newPracticeEnv(t)
	seedCtx := context.Background()

	u := testutil.SeedUser(t, seedCtx, env.tx, "practicequota")
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	env.setNow(now)
	today := dateOnly(now)

	for i := 0; i < 10; i++ {
		s := testutil.SeedSentence(t, seedCtx, env.tx, "句子")
		testutil.SeedPracticeRecord(t, seedCtx, env.tx, u.ID, s.ID, today)
	}

	extra := testutil.SeedSentence(t, seedCtx, env.tx, "额外的句子")
	_, err := env.svc.RecordPractice(authedCtx(u), extra.ID, "")
	qe, ok := apperr.AsQuotaExceeded(err)
	if !ok {
		t.Fatalf("expected quota error, got %v", err)
	}
	if qe.DailyLimit != 10 {
		t.Fatalf("expected daily limit 10, got %d", qe.DailyLimit)
	}
}

func TestRecordPracticeUnlimitedTier(t *testing.T) {
	env := newPracticeEnv(t)
	seedCtx := context.Background()

	u := testutil.SeedUser(t, seedCtx, env.tx, "practicepremium")
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	expires := now.AddDate(0, 1, 0)
	if err := env.users.UpdateSubscription(seedCtx, env.tx, u.ID, string(types.TierPremium), &expires, false); err != nil {
		t.Fatalf("UpdateSubscription: %v", err)
	}
	env.setNow(now)
	today := dateOnly(now)

	for i := 0; i < 12; i++ {
		s := testutil.SeedSentence(t, seedCtx, env.tx, "句子")
		testutil.SeedPracticeRecord(t, seedCtx, env.tx, u.ID, s.ID, today)
	}

	extra := testutil.SeedSentence(t, seedCtx, env.tx, "第十三句")
	res, err := env.svc.RecordPractice(authedCtx(u), extra.ID, "")
	if err != nil {
		t.Fatalf("RecordPractice above free limit on premium: %v", err)
	}
	if res.RemainingToday != types.Unlimited {
		t.Fatalf("expected unlimited remaining, got %d", res.RemainingToday)
	}
}

func TestGetStats(t *testing.T) {
	env := newPracticeEnv(t)
	seedCtx := context.Background()

	u := testutil.SeedUser(t, seedCtx, env.tx, "practicestats")
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	env.setNow(now)
	today := dateOnly(now)

	s1 := testutil.SeedSentence(t, seedCtx, env.tx, "一")
	s2 := testutil.SeedSentence(t, seedCtx, env.tx, "二")
	testutil.SeedPracticeRecord(t, seedCtx, env.tx, u.ID, s1.ID, today)
	testutil.SeedPracticeRecord(t, seedCtx, env.tx, u.ID, s2.ID, today)
	testutil.SeedPracticeRecord(t, seedCtx, env.tx, u.ID, s1.ID, today.AddDate(0, 0, -2))
	// Outside the 7-day window.
	testutil.SeedPracticeRecord(t, seedCtx, env.tx, u.ID, s1.ID, today.AddDate(0, 0, -10))

	stats, err := env.svc.GetStats(authedCtx(u))
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}

	if stats.TodayCount != 2 || len(stats.TodaySentenceIDs) != 2 {
		t.Fatalf("expected 2 records today, got %d (%v)", stats.TodayCount, stats.TodaySentenceIDs)
	}
	if len(stats.WeekHistory) != 7 {
		t.Fatalf("week history must always have 7 days, got %d", len(stats.WeekHistory))
	}
	if stats.WeekHistory[6].Date != "2025-06-10" || stats.WeekHistory[6].Count != 2 {
		t.Fatalf("unexpected last history entry: %+v", stats.WeekHistory[6])
	}
	if stats.WeekHistory[4].Date != "2025-06-08" || stats.WeekHistory[4].Count != 1 {
		t.Fatalf("unexpected entry two days back: %+v", stats.WeekHistory[4])
	}
	if stats.WeekHistory[0].Count != 0 {
		t.Fatalf("empty day should report zero, got %+v", stats.WeekHistory[0])
	}
	if stats.WeekHistory[6].DayName != "Tue" {
		t.Fatalf("expected day name Tue for 2025-06-10, got %q", stats.WeekHistory[6].DayName)
	}
	if stats.DailyLimit != 10 || stats.RemainingToday != 8 {
		t.Fatalf("unexpected quota fields: limit %d remaining %d", stats.DailyLimit, stats.RemainingToday)
	}
}

func TestGetHistory(t *testing.T) {
	env := newPracticeEnv(t)
	seedCtx := context.Background()

	u := testutil.SeedUser(t, seedCtx, env.tx, "practicehistory")
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	env.setNow(now)
	today := dateOnly(now)

	s1 := testutil.SeedSentence(t, seedCtx, env.tx, "一")
	s2 := testutil.SeedSentence(t, seedCtx, env.tx, "二")
	testutil.SeedPracticeRecord(t, seedCtx, env.tx, u.ID, s1.ID, today)
	testutil.SeedPracticeRecord(t, seedCtx, env.tx, u.ID, s2.ID, today)
	testutil.SeedPracticeRecord(t, seedCtx, env.tx, u.ID, s2.ID, today.AddDate(0, 0, -3))

	history, err := env.svc.GetHistory(authedCtx(u), 7)
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}

	if len(history) != 2 {
		t.Fatalf("history is sparse, expected 2 entries, got %d", len(history))
	}
	if history[0].Date != "2025-06-07" || history[0].Count != 1 {
		t.Fatalf("unexpected first entry: %+v", history[0])
	}
	if history[1].Date != "2025-06-10" || history[1].Count != 2 || len(history[1].SentenceIDs) != 2 {
		t.Fatalf("unexpected second entry: %+v", history[1])
	}

	if _, err := env.svc.GetHistory(authedCtx(u), 400); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for days > 365, got %v", err)
	}
	if _, err := env.svc.GetHistory(authedCtx(u), -1); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for negative days, got %v", err)
	}
}

func TestGetHistoryClampedToTier(t *testing.T) {
	env := newPracticeEnv(t)
	seedCtx := context.Background()

	u := testutil.SeedUser(t, seedCtx, env.tx, "practiceclamp")
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	env.setNow(now)
	today := dateOnly(now)

	s := testutil.SeedSentence(t, seedCtx, env.tx, "一")
	testutil.SeedPracticeRecord(t, seedCtx, env.tx, u.ID, s.ID, today)
	testutil.SeedPracticeRecord(t, seedCtx, env.tx, u.ID, s.ID, today.AddDate(0, 0, -3))
	// Inside a 30-day window but past the free tier's 7-day allowance.
	testutil.SeedPracticeRecord(t, seedCtx, env.tx, u.ID, s.ID, today.AddDate(0, 0, -10))

	history, err := env.svc.GetHistory(authedCtx(u), 30)
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("free tier window is 7 days, expected 2 entries, got %d", len(history))
	}
	if history[0].Date != "2025-06-07" || history[1].Date != "2025-06-10" {
		t.Fatalf("unexpected dates after clamp: %+v", history)
	}
}

func TestRecordPracticeLostInsertRace(t *testing.T) {
	env := newPracticeEnv(t)
	seedCtx := context.Background()

	u := testutil.SeedUser(t, seedCtx, env.tx, "practicerace")
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	env.setNow(now)
	today := dateOnly(now)

	s := testutil.SeedSentence(t, seedCtx, env.tx, "一")
	testutil.SeedPracticeRecord(t, seedCtx, env.tx, u.ID, s.ID, today)

	res, err := env.svc.dedupedResult(seedCtx, u.ID, types.LimitsFor(types.TierFree), today)
	if err != nil {
		t.Fatalf("dedupedResult: %v", err)
	}
	if !res.Deduped {
		t.Fatal("a lost same-day insert race must be reported as a repeat")
	}
	if res.RemainingToday != 9 {
		t.Fatalf("expected 9 remaining, got %d", res.RemainingToday)
	}
}
