package app

import (
	"gorm.io/gorm"

	"github.com/espeakapp/espeak-backend/internal/pkg/logger"
	"github.com/espeakapp/espeak-backend/internal/services"
)

type Services struct {
	Auth         services.AuthService
	User         services.UserService
	Sentence     services.SentenceService
	Practice     services.PracticeService
	Community    services.CommunityService
	Subscription services.SubscriptionService
	Payment      services.PaymentService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos) Services {
	log.Info("Wiring services...")
	return Services{
		Auth:         services.NewAuthService(db, log, repos.User, repos.UserToken, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		User:         services.NewUserService(db, log, repos.User),
		Sentence:     services.NewSentenceService(db, log, repos.User, repos.Sentence),
		Practice:     services.NewPracticeService(db, log, repos.User, repos.Sentence, repos.PracticeRecord, repos.DailyStreak),
		Community:    services.NewCommunityService(db, log, repos.Post),
		Subscription: services.NewSubscriptionService(db, log, repos.User, repos.PracticeRecord),
		Payment:      services.NewPaymentService(db, log, repos.User, repos.Payment, cfg.GatewayPayURL),
	}
}
