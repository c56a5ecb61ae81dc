package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/espeakapp/espeak-backend/internal/http/handlers"
	httpMW "github.com/espeakapp/espeak-backend/internal/http/middleware"
	"github.com/espeakapp/espeak-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware

	UserHandler         *httpH.UserHandler
	SentenceHandler     *httpH.SentenceHandler
	PracticeHandler     *httpH.PracticeHandler
	CommunityHandler    *httpH.CommunityHandler
	SubscriptionHandler *httpH.SubscriptionHandler
	PaymentHandler      *httpH.PaymentHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
			api.POST("/refresh", cfg.AuthHandler.Refresh)
		}

		// Sentence catalog (public read)
		if cfg.SentenceHandler != nil {
			api.GET("/sentences", cfg.SentenceHandler.List)
		}

		// Community feed (public read, personalized when signed in)
		if cfg.CommunityHandler != nil && cfg.AuthMiddleware != nil {
			api.GET("/posts", cfg.AuthMiddleware.OptionalAuth(), cfg.CommunityHandler.ListPosts)
		}

		// Pricing catalog
		if cfg.SubscriptionHandler != nil {
			api.GET("/subscription/pricing", cfg.SubscriptionHandler.Pricing)
		}

		// Payment gateway callback
		if cfg.PaymentHandler != nil {
			api.POST("/payment/notify", cfg.PaymentHandler.Notify)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
		}

		if cfg.SentenceHandler != nil {
			protected.POST("/sentences", cfg.SentenceHandler.Create)
			protected.DELETE("/sentences/:id", cfg.SentenceHandler.Delete)
		}

		if cfg.PracticeHandler != nil {
			protected.POST("/practice/record", cfg.PracticeHandler.Record)
			protected.GET("/practice/stats", cfg.PracticeHandler.Stats)
			protected.GET("/practice/history", cfg.PracticeHandler.History)
		}

		if cfg.CommunityHandler != nil {
			protected.POST("/posts", cfg.CommunityHandler.CreatePost)
			protected.POST("/posts/:id/like", cfg.CommunityHandler.ToggleLike)
			protected.DELETE("/posts/:id", cfg.CommunityHandler.DeletePost)
		}

		if cfg.SubscriptionHandler != nil {
			protected.GET("/subscription/status", cfg.SubscriptionHandler.Status)
		}

		if cfg.PaymentHandler != nil {
			protected.POST("/payment/create", cfg.PaymentHandler.CreateOrder)
			protected.GET("/payment/check/:order_id", cfg.PaymentHandler.CheckOrder)
		}
	}

	return r
}
