package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/espeakapp/espeak-backend/internal/data/repos/sentence"
	"github.com/espeakapp/espeak-backend/internal/http/response"
	"github.com/espeakapp/espeak-backend/internal/services"
)

type SentenceHandler struct {
	sentenceService services.SentenceService
}

func NewSentenceHandler(sentenceService services.SentenceService) *SentenceHandler {
	return &SentenceHandler{sentenceService: sentenceService}
}

func (sh *SentenceHandler) List(c *gin.Context) {
	filter := sentence.ListFilter{
		Category: c.Query("category"),
	}
	if v := c.Query("difficulty"); v != "" {
		difficulty, err := strconv.Atoi(v)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_difficulty", err)
			return
		}
		filter.Difficulty = difficulty
	}
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", err)
			return
		}
		filter.Limit = limit
	}
	if v := c.Query("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_offset", err)
			return
		}
		filter.Offset = offset
	}

	sentences, err := sh.sentenceService.List(c.Request.Context(), filter)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sentences": sentences})
}

func (sh *SentenceHandler) Create(c *gin.Context) {
	var req struct {
		Chinese    string `json:"chinese"`
		English    string `json:"english"`
		Hint       string `json:"hint"`
		Difficulty int    `json:"difficulty"`
		Category   string `json:"category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	created, err := sh.sentenceService.Create(c.Request.Context(), services.CreateSentenceInput{
		Chinese:    req.Chinese,
		English:    req.English,
		Hint:       req.Hint,
		Difficulty: req.Difficulty,
		Category:   req.Category,
	})
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, created)
}

func (sh *SentenceHandler) Delete(c *gin.Context) {
	sentenceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_sentence_id", err)
		return
	}
	if err := sh.sentenceService.Delete(c.Request.Context(), sentenceID); err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
