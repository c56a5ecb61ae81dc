package app

import (
	"github.com/gin-gonic/gin"

	httpserver "github.com/espeakapp/espeak-backend/internal/http"
	"github.com/espeakapp/espeak-backend/internal/pkg/logger"
)

func wireRouter(log *logger.Logger, handlers Handlers, middleware Middleware) *gin.Engine {
	return httpserver.NewRouter(httpserver.RouterConfig{
		Log:                 log,
		AuthHandler:         handlers.Auth,
		AuthMiddleware:      middleware.Auth,
		UserHandler:         handlers.User,
		SentenceHandler:     handlers.Sentence,
		PracticeHandler:     handlers.Practice,
		CommunityHandler:    handlers.Community,
		SubscriptionHandler: handlers.Subscription,
		PaymentHandler:      handlers.Payment,
		HealthHandler:       handlers.Health,
	})
}
