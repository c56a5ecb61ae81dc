package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/espeakapp/espeak-backend/internal/http/response"
	"github.com/espeakapp/espeak-backend/internal/services"
)

type PracticeHandler struct {
	practiceService services.PracticeService
}

func NewPracticeHandler(practiceService services.PracticeService) *PracticeHandler {
	return &PracticeHandler{practiceService: practiceService}
}

func (ph *PracticeHandler) Record(c *gin.Context) {
	var req struct {
		SentenceID string `json:"sentence_id"`
		UserAnswer string `json:"user_answer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	sentenceID, err := uuid.Parse(req.SentenceID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_sentence_id", err)
		return
	}
	result, err := ph.practiceService.RecordPractice(c.Request.Context(), sentenceID, req.UserAnswer)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, result)
}

func (ph *PracticeHandler) Stats(c *gin.Context) {
	stats, err := ph.practiceService.GetStats(c.Request.Context())
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, stats)
}

func (ph *PracticeHandler) History(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_days", err)
		return
	}
	history, err := ph.practiceService.GetHistory(c.Request.Context(), days)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"history": history})
}
