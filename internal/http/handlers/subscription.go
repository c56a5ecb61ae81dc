package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/espeakapp/espeak-backend/internal/http/response"
	"github.com/espeakapp/espeak-backend/internal/services"
)

type SubscriptionHandler struct {
	subscriptionService services.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

func (sh *SubscriptionHandler) Status(c *gin.Context) {
	status, err := sh.subscriptionService.Status(c.Request.Context())
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, status)
}

func (sh *SubscriptionHandler) Pricing(c *gin.Context) {
	response.RespondOK(c, gin.H{"plans": sh.subscriptionService.Pricing()})
}
