package app

import (
	httpH "github.com/espeakapp/espeak-backend/internal/http/handlers"
	"github.com/espeakapp/espeak-backend/internal/pkg/logger"
)

type Handlers struct {
	Auth         *httpH.AuthHandler
	User         *httpH.UserHandler
	Sentence     *httpH.SentenceHandler
	Practice     *httpH.PracticeHandler
	Community    *httpH.CommunityHandler
	Subscription *httpH.SubscriptionHandler
	Payment      *httpH.PaymentHandler
	Health       *httpH.HealthHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:         httpH.NewAuthHandler(services.Auth),
		User:         httpH.NewUserHandler(services.User),
		Sentence:     httpH.NewSentenceHandler(services.Sentence),
		Practice:     httpH.NewPracticeHandler(services.Practice),
		Community:    httpH.NewCommunityHandler(services.Community),
		Subscription: httpH.NewSubscriptionHandler(services.Subscription),
		Payment:      httpH.NewPaymentHandler(services.Payment),
		Health:       httpH.NewHealthHandler(),
	}
}
