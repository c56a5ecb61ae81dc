package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/espeakapp/espeak-backend/internal/pkg/apperr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// RespondFromError maps service errors onto HTTP statuses. A daily quota
// hit gets its own payload shape so clients can render the upgrade prompt.
func RespondFromError(c *gin.Context, err error) {
	if qe, ok := apperr.AsQuotaExceeded(err); ok {
		c.JSON(http.StatusForbidden, gin.H{
			"message":       qe.Error(),
			"limit_reached": true,
			"daily_limit":   qe.DailyLimit,
			"upgrade_url":   "/pricing",
		})
		return
	}

	switch {
	case errors.Is(err, apperr.ErrUnauthorized):
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, apperr.ErrForbidden):
		RespondError(c, http.StatusForbidden, "forbidden", err)
	case errors.Is(err, apperr.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, apperr.ErrOutOfOrderPractice):
		RespondError(c, http.StatusConflict, "out_of_order", err)
	case errors.Is(err, apperr.ErrInvalidArgument):
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}
