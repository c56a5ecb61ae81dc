package app

import (
	"gorm.io/gorm"

	"github.com/espeakapp/espeak-backend/internal/data/repos/dailystreak"
	"github.com/espeakapp/espeak-backend/internal/data/repos/payment"
	"github.com/espeakapp/espeak-backend/internal/data/repos/post"
	"github.com/espeakapp/espeak-backend/internal/data/repos/practicerecord"
	"github.com/espeakapp/espeak-backend/internal/data/repos/sentence"
	"github.com/espeakapp/espeak-backend/internal/data/repos/user"
	"github.com/espeakapp/espeak-backend/internal/data/repos/usertoken"
	"github.com/espeakapp/espeak-backend/internal/pkg/logger"
)

type Repos struct {
	User           user.UserRepo
	UserToken      usertoken.UserTokenRepo
	Sentence       sentence.SentenceRepo
	PracticeRecord practicerecord.PracticeRecordRepo
	DailyStreak    dailystreak.DailyStreakRepo
	Post           post.PostRepo
	Payment        payment.PaymentRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:           user.NewUserRepo(db, log),
		UserToken:      usertoken.NewUserTokenRepo(db, log),
		Sentence:       sentence.NewSentenceRepo(db, log),
		PracticeRecord: practicerecord.NewPracticeRecordRepo(db, log),
		DailyStreak:    dailystreak.NewDailyStreakRepo(db, log),
		Post:           post.NewPostRepo(db, log),
		Payment:        payment.NewPaymentRepo(db, log),
	}
}
