package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/espeakapp/espeak-backend/internal/domain"
	"github.com/espeakapp/espeak-backend/internal/http/response"
	"github.com/espeakapp/espeak-backend/internal/services"
)

type PaymentHandler struct {
	paymentService services.PaymentService
}

func NewPaymentHandler(paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

func (ph *PaymentHandler) CreateOrder(c *gin.Context) {
	var req struct {
		Tier   string `json:"tier"`
		Period string `json:"period"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := ph.paymentService.CreateOrder(c.Request.Context(), types.Tier(req.Tier), req.Period)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, result)
}

// Notify receives the gateway's form-encoded server callback. The gateway
// expects the literal body "success" on acceptance and retries otherwise.
func (ph *PaymentHandler) Notify(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.String(http.StatusBadRequest, "fail")
		return
	}
	raw := make(map[string]string, len(c.Request.PostForm))
	for key := range c.Request.PostForm {
		raw[key] = c.Request.PostForm.Get(key)
	}

	input := services.NotifyInput{
		OutTradeNo:  c.PostForm("out_trade_no"),
		TradeNo:     c.PostForm("trade_no"),
		TradeStatus: c.PostForm("trade_status"),
		Raw:         raw,
	}
	if err := ph.paymentService.HandleNotify(c.Request.Context(), input); err != nil {
		c.String(http.StatusBadRequest, "fail")
		return
	}
	c.String(http.StatusOK, "success")
}

func (ph *PaymentHandler) CheckOrder(c *gin.Context) {
	payment, err := ph.paymentService.CheckOrder(c.Request.Context(), c.Param("order_id"))
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"order_id": payment.OrderID,
		"status":   payment.Status,
		"tier":     payment.SubscriptionTier,
		"amount":   payment.Amount,
		"paid_at":  payment.PaidAt,
	})
}
